package services

import (
	"database/sql"
	"time"

	"github.com/avelin/snapfeed-be/internal/models"
	"github.com/google/uuid"
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Start(username string) (string, error)
	Username(token string) (string, error)
	End(token string) error
	EndAllForUser(username string) error
	PurgeExpired() (int64, error)
}

// SessionService manages server-side login sessions. A session binds an opaque
// token to a username; the token travels to the client inside a signed cookie.
type SessionService struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl}
}

// Start creates a session for username and returns its token.
func (s *SessionService) Start(username string) (string, error) {
	token := uuid.New().String()
	now := time.Now().UTC()

	err := withBusyRetry(func() error {
		_, err := s.db.Exec(
			"INSERT INTO sessions (token, username, created_at, expires_at) VALUES (?, ?, ?, ?)",
			token, username, now, now.Add(s.ttl),
		)
		return err
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Username resolves a token to the username it was started for. Unknown and
// expired tokens both come back as ErrNotFound.
func (s *SessionService) Username(token string) (string, error) {
	var username string
	row := s.db.QueryRow(
		"SELECT username FROM sessions WHERE token = ? AND expires_at > ?",
		token, time.Now().UTC(),
	)
	if err := row.Scan(&username); err != nil {
		if err == sql.ErrNoRows {
			return "", models.ErrNotFound
		}
		return "", err
	}
	return username, nil
}

// End destroys a session. Ending a session that does not exist is a no-op.
func (s *SessionService) End(token string) error {
	return withBusyRetry(func() error {
		_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
		return err
	})
}

// EndAllForUser destroys every session belonging to username. Called when an
// account is deleted so its live sessions stop authenticating.
func (s *SessionService) EndAllForUser(username string) error {
	return withBusyRetry(func() error {
		_, err := s.db.Exec("DELETE FROM sessions WHERE username = ?", username)
		return err
	})
}

// PurgeExpired removes sessions past their expiry and returns how many rows
// were dropped.
func (s *SessionService) PurgeExpired() (int64, error) {
	var purged int64
	err := withBusyRetry(func() error {
		res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
		if err != nil {
			return err
		}
		purged, err = res.RowsAffected()
		return err
	})
	return purged, err
}
