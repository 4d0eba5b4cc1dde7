package models

import "strings"

// BookingStatus is one of the four canonical booking states.
type BookingStatus string

const (
	StatusActive      BookingStatus = "Active"
	StatusRescheduled BookingStatus = "Rescheduled"
	StatusCancelled   BookingStatus = "Cancelled"
	StatusCompleted   BookingStatus = "Completed"
)

// NormalizeStatus coerces an arbitrary string into a canonical BookingStatus.
// Matching is case-insensitive and the American "Canceled" spelling is
// accepted as an alias for "Cancelled". Unrecognized values map to Active.
// Normalization is idempotent.
func NormalizeStatus(s string) BookingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rescheduled":
		return StatusRescheduled
	case "cancelled", "canceled":
		return StatusCancelled
	case "completed":
		return StatusCompleted
	default:
		return StatusActive
	}
}

// CanTransition reports whether a status change is legal. Every move is
// allowed except leaving Completed, which is terminal. Staying on the same
// status is always fine.
func CanTransition(from, to BookingStatus) bool {
	if from == StatusCompleted {
		return to == StatusCompleted
	}
	return true
}

// IsTerminal reports whether the status forbids further mutation.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted
}
