package services

import "github.com/avelin/snapfeed-be/internal/database"

// withBusyRetry runs fn and retries it exactly once if SQLite reported lock
// contention. Any other error surfaces immediately.
func withBusyRetry(fn func() error) error {
	err := fn()
	if database.IsBusy(err) {
		err = fn()
	}
	return err
}
