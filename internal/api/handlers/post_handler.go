package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/avelin/snapfeed-be/internal/services"
	ws "github.com/avelin/snapfeed-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// PostHandler handles publishing posts and serving the feed.
type PostHandler struct {
	posts  services.PostServiceProvider
	events services.EventServiceProvider
	hub    *ws.Hub
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts services.PostServiceProvider, events services.EventServiceProvider, hub *ws.Hub) *PostHandler {
	return &PostHandler{posts: posts, events: events, hub: hub}
}

// PostPayload defines the structure for publish requests.
type PostPayload struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption"`
}

// Create publishes a new post by the authenticated user and pushes it to
// connected feed watchers.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var payload PostPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Create(user.ID, payload.ImageURL, payload.Caption)
	if err != nil {
		if errors.Is(err, models.ErrEmptyImageURL) {
			http.Error(w, "Image URL must not be empty", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create post")
		http.Error(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	actorID := user.ID
	if err := h.events.Record("post.create", "info", user.Username+" published a post", &actorID); err != nil {
		log.Error().Err(err).Msg("Failed to record event")
	}

	item := models.FeedItem{Post: post, AuthorUsername: user.Username}
	h.hub.Broadcast <- ws.NewPostCreatedMessage(item)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// Feed returns all posts, newest first, with author usernames.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.posts.Feed()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch feed")
		http.Error(w, "Failed to fetch feed", http.StatusInternalServerError)
		return
	}
	if feed == nil {
		feed = []models.FeedItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feed)
}
