package types

import (
	"errors"
	"fmt"
	"time"
)

// ValidationError reports malformed or rejected input. Callers can fix the
// request and retry.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// LockTimeoutError is returned when the advisory lock on a resource could not
// be acquired within the configured timeout. The guarded operation was never
// started, so callers may retry.
type LockTimeoutError struct {
	Resource string
	Timeout  time.Duration
}

func (e *LockTimeoutError) Error() string {
	return fmt.Sprintf("timed out acquiring lock on %q after %s", e.Resource, e.Timeout)
}

// SlotConflictError is returned when a reschedule targets a date/time already
// occupied by another active booking.
type SlotConflictError struct {
	Slot          time.Time
	ConflictingID string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s is already taken by booking %s", e.Slot.Format(time.RFC3339), e.ConflictingID)
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// PermissionDeniedError reports a failed role or ownership check at the API
// boundary.
type PermissionDeniedError struct {
	Message string
}

func (e *PermissionDeniedError) Error() string {
	return e.Message
}

// DatabaseError wraps an unexpected persistence failure with the operation and
// booking id for logging. The underlying error is preserved for errors.Is/As
// but is not shown to API callers.
type DatabaseError struct {
	Op        string
	BookingID string
	Err       error
}

func (e *DatabaseError) Error() string {
	if e.BookingID != "" {
		return fmt.Sprintf("%s failed for booking %s: %v", e.Op, e.BookingID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
