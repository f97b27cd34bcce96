package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks user-correctable input errors (surfaced as 4xx).
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks datastore failures (unreachable, write not committed).
	ErrPersistence = errors.New("persistence failure")
	// ErrNotification marks failed outbound notifications. Never surfaced to callers.
	ErrNotification = errors.New("notification failed")

	ErrTextRequired = fmt.Errorf("%w: text required", ErrValidation)
	ErrUnknownRole  = fmt.Errorf("%w: unknown sender role", ErrValidation)
)

// Persistence wraps a driver error so callers can match it with errors.Is(err, ErrPersistence).
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}
