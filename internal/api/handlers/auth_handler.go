package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/avelin/snapfeed-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, and session lifecycle.
type AuthHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
	events   services.EventServiceProvider
	secret   string
	isProd   bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider, events services.EventServiceProvider, secret string, isProd bool) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, events: events, secret: secret, isProd: isProd}
}

// CredentialsPayload defines the structure for register and login requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateUsername) {
			http.Error(w, "Username already taken", http.StatusConflict)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	h.recordEvent("user.register", "New user registered: "+user.Username, user.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles credential verification and starts a session. The session
// token travels back inside a signed HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("Failed login attempt")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.sessions.Start(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to start session")
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	signed, err := auth.SignSessionToken(token, h.secret)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sign session token")
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}
	auth.SetSessionCookie(w, signed, h.isProd)

	h.recordEvent("user.login", "User logged in: "+user.Username, user.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Logout ends the current session, if any. Logging out twice is fine.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		if token, err := auth.ParseSessionToken(cookie.Value, h.secret); err == nil {
			if err := h.sessions.End(token); err != nil {
				log.Error().Err(err).Msg("Failed to end session")
			}
		}
	}
	auth.ClearSessionCookie(w, h.isProd)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *AuthHandler) recordEvent(eventType, message string, actorID int64) {
	if err := h.events.Record(eventType, "info", message, &actorID); err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
	}
}
