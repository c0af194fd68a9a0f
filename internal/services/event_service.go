package services

import (
	"database/sql"

	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/google/uuid"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(eventType, level, message string, actorID *int64) error
	Recent(limit int) ([]models.Event, error)
}

// EventService keeps an activity log of notable actions: registrations,
// logins, published posts, deletions, promotions.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Record logs a new event to the database.
func (s *EventService) Record(eventType, level, message string, actorID *int64) error {
	event := models.Event{
		ID:      uuid.New().String(),
		Type:    eventType,
		Level:   level,
		Message: message,
		ActorID: actorID,
	}

	return withBusyRetry(func() error {
		_, err := s.db.Exec(
			"INSERT INTO events (id, type, level, message, actor_id) VALUES (?, ?, ?, ?, ?)",
			event.ID, event.Type, event.Level, event.Message, event.ActorID,
		)
		return err
	})
}

// Recent retrieves the most recent events from the database.
func (s *EventService) Recent(limit int) ([]models.Event, error) {
	rows, err := s.db.Query(
		"SELECT id, type, level, message, actor_id, created_at FROM events ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.ActorID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
