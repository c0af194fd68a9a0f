package models

import "time"

// Event represents a loggable action in the system.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g. "user.register", "post.create"
	Level     string    `json:"level"` // e.g. "info", "warn"
	Message   string    `json:"message"`
	ActorID   *int64    `json:"actorId,omitempty"` // Nullable for anonymous events
	CreatedAt time.Time `json:"createdAt"`
}
