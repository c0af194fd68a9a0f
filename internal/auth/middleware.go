package auth

import (
	"context"
	"net/http"

	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/rs/zerolog/log"
)

// SessionStore resolves a session token to the username it was started for.
type SessionStore interface {
	Username(token string) (string, error)
}

// UserStore loads user records for the guard.
type UserStore interface {
	GetByUsername(username string) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("currentUser")

// Guard authenticates requests from the session cookie and gates privileged
// routes.
type Guard struct {
	sessions SessionStore
	users    UserStore
	secret   string
}

// NewGuard creates a new Guard.
func NewGuard(sessions SessionStore, users UserStore, secret string) *Guard {
	return &Guard{sessions: sessions, users: users, secret: secret}
}

// Authenticate resolves the request's session cookie to a full user record. A
// missing cookie, a bad signature, an expired session, or a user row deleted
// mid-session all yield ErrNotAuthenticated; the guard never degrades to
// treating such a request as anonymous-but-allowed.
func (g *Guard) Authenticate(r *http.Request) (models.User, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return models.User{}, models.ErrNotAuthenticated
	}

	token, err := ParseSessionToken(cookie.Value, g.secret)
	if err != nil {
		return models.User{}, models.ErrNotAuthenticated
	}

	username, err := g.sessions.Username(token)
	if err != nil {
		return models.User{}, models.ErrNotAuthenticated
	}

	user, err := g.users.GetByUsername(username)
	if err != nil {
		// The account was deleted while its session was still live.
		return models.User{}, models.ErrNotAuthenticated
	}
	return user, nil
}

// RequireLogin rejects unauthenticated requests and stores the current user in
// the request context for downstream handlers.
func (g *Guard) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := g.Authenticate(r)
		if err != nil {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthorizeAdmin checks the admin role on an already-authenticated user.
func AuthorizeAdmin(user models.User) error {
	if !user.IsAdmin {
		return models.ErrNotAuthorized
	}
	return nil
}

// RequireAdmin rejects requests whose authenticated user is not an admin. It
// must run after RequireLogin.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		if err := AuthorizeAdmin(user); err != nil {
			log.Warn().Str("username", user.Username).Msg("Non-admin request to admin route")
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user stored by RequireLogin.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}
