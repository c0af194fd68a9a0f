package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the name of the cookie carrying the signed session token.
const SessionCookieName = "session"

// sessionClaims wraps the server-side session token in a signed envelope so the
// cookie value cannot be forged or tampered with.
type sessionClaims struct {
	SessionToken string `json:"sid"`
	jwt.RegisteredClaims
}

// SignSessionToken wraps a session token in an HS256-signed string suitable for
// a cookie value.
func SignSessionToken(token, secret string) (string, error) {
	claims := &sessionClaims{
		SessionToken: token,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken verifies the signature on a cookie value and returns the
// embedded session token.
func ParseSessionToken(signed, secret string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionToken == "" {
		return "", fmt.Errorf("invalid session cookie")
	}
	return claims.SessionToken, nil
}

// SetSessionCookie attaches the signed session value to the response. The
// cookie has no Max-Age: its lifetime is the browser session, while the
// server-side session row enforces its own expiry.
func SetSessionCookie(w http.ResponseWriter, signed string, isProd bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(w http.ResponseWriter, isProd bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}
