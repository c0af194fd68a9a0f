package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/avelin/snapfeed-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the admin-only user management surface.
type AdminHandler struct {
	users    services.UserServiceProvider
	sessions services.SessionServiceProvider
	events   services.EventServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users services.UserServiceProvider, sessions services.SessionServiceProvider, events services.EventServiceProvider) *AdminHandler {
	return &AdminHandler{users: users, sessions: sessions, events: events}
}

// ListUsers returns every account, ordered by id.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// DeleteUser removes an account and its posts. Admins cannot delete their own
// account.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	deleted, err := h.users.Delete(actor.ID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSelfDeleteForbidden):
			http.Error(w, "Cannot delete your own account", http.StatusForbidden)
		case errors.Is(err, models.ErrNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Error().Err(err).Int64("target_id", targetID).Msg("Failed to delete user")
			http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		}
		return
	}

	// Stop the deleted account's live sessions from authenticating. The guard
	// rejects sessions for vanished users anyway, so a failure here only leaves
	// dead rows for the janitor.
	if err := h.sessions.EndAllForUser(deleted.Username); err != nil {
		log.Error().Err(err).Str("username", deleted.Username).Msg("Failed to end sessions of deleted user")
	}

	actorID := actor.ID
	if err := h.events.Record("user.delete", "warn", actor.Username+" deleted account "+deleted.Username, &actorID); err != nil {
		log.Error().Err(err).Msg("Failed to record event")
	}

	w.WriteHeader(http.StatusNoContent)
}

// PromoteUser grants the admin role to an account. Promoting an admin again is
// a no-op.
func (h *AdminHandler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.users.SetAdmin(targetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Int64("target_id", targetID).Msg("Failed to promote user")
		http.Error(w, "Failed to promote user", http.StatusInternalServerError)
		return
	}

	actorID := actor.ID
	if err := h.events.Record("user.promote", "info", actor.Username+" promoted user "+strconv.FormatInt(targetID, 10), &actorID); err != nil {
		log.Error().Err(err).Msg("Failed to record event")
	}

	w.WriteHeader(http.StatusNoContent)
}
