package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const defaultRetryFor = 5 * time.Second

// exec runs a write, retrying with exponential backoff while SQLite reports
// the database busy or locked. Any other error fails immediately.
func (s *Store) exec(query string, args ...any) error {
	operation := func() error {
		_, err := s.db.Exec(query, args...)
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = s.RetryFor
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = defaultRetryFor
	}
	if err := backoff.Retry(operation, bo); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
