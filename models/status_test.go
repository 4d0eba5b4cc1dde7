package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want BookingStatus
	}{
		{"Active", StatusActive},
		{"active", StatusActive},
		{"RESCHEDULED", StatusRescheduled},
		{"Cancelled", StatusCancelled},
		{"Canceled", StatusCancelled}, // American spelling alias
		{"canceled", StatusCancelled},
		{"completed", StatusCompleted},
		{"  Completed  ", StatusCompleted},
		{"", StatusActive},
		{"garbage", StatusActive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStatus(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeStatusIdempotent(t *testing.T) {
	for _, s := range []BookingStatus{StatusActive, StatusRescheduled, StatusCancelled, StatusCompleted} {
		assert.Equal(t, s, NormalizeStatus(string(s)))
		assert.Equal(t, s, NormalizeStatus(string(NormalizeStatus(string(s)))))
	}
}

func TestCanTransition(t *testing.T) {
	all := []BookingStatus{StatusActive, StatusRescheduled, StatusCancelled, StatusCompleted}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			if from == StatusCompleted && to != StatusCompleted {
				assert.False(t, got, "%s -> %s should be rejected", from, to)
			} else {
				assert.True(t, got, "%s -> %s should be allowed", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
	assert.False(t, StatusRescheduled.IsTerminal())
	assert.False(t, StatusCancelled.IsTerminal())
}
