package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// TxRunner executes a function inside a database transaction and retries the
// whole body when the failure is transient. Retries always start from a fresh
// transaction; no partial side effects survive a failed attempt.
type TxRunner struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultTxRunner() TxRunner {
	return TxRunner{MaxAttempts: 3, Backoff: 100 * time.Millisecond}
}

func (r TxRunner) Run(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	backoff := r.Backoff
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		err = db.Transaction(fn)
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// MarkTransient wraps err so that IsTransient reports true for it.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is worth retrying: serialization and
// deadlock failures, connection-class errors, and timeouts.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *transientError
	if errors.As(err, &te) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return true
		}
		// Class 08: connection exceptions.
		if strings.HasPrefix(pgErr.Code, "08") {
			return true
		}
	}

	return errors.Is(err, context.DeadlineExceeded)
}
