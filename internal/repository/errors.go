package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
)

// DefaultTimeout bounds a single store operation, including the wait for a
// pooled connection.
const DefaultTimeout = 5 * time.Second

type store struct {
	db      *gorm.DB
	timeout time.Duration
}

func newStore(db *gorm.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return store{db: db, timeout: timeout}
}

// conn returns a session bound to a deadline of s.timeout.
func (s store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return s.db.WithContext(ctx), cancel
}

// translate maps driver and gorm failures onto the domain taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrUnavailable, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
