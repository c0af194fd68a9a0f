package monitoring

import (
	"log"

	"github.com/avelin/snapfeed-be/internal/services"
	"github.com/robfig/cron/v3"
)

// SessionJanitor periodically drops expired session rows so abandoned logins
// don't accumulate in the database.
type SessionJanitor struct {
	sessions services.SessionServiceProvider
	cron     *cron.Cron
}

// NewSessionJanitor creates a new janitor instance.
func NewSessionJanitor(sessions services.SessionServiceProvider) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		cron:     cron.New(),
	}
}

// Run starts the janitor's schedule and blocks until Stop is called.
func (j *SessionJanitor) Run() {
	log.Println("Starting session janitor...")

	// Run once immediately on start
	j.purge()

	if _, err := j.cron.AddFunc("@every 15m", j.purge); err != nil {
		log.Printf("Session janitor: failed to register schedule: %v", err)
		return
	}
	j.cron.Run()
}

// Stop halts the janitor.
func (j *SessionJanitor) Stop() {
	log.Println("Stopping session janitor.")
	j.cron.Stop()
}

// purge deletes every expired session row.
func (j *SessionJanitor) purge() {
	purged, err := j.sessions.PurgeExpired()
	if err != nil {
		log.Printf("Session janitor: failed to purge expired sessions: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Session janitor: purged %d expired sessions", purged)
	}
}
