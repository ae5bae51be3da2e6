package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordingStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from RecordingStatus
		to   RecordingStatus
		want bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusFailed, StatusPending, true},
		{StatusFailed, StatusInProgress, false},
		{RecordingStatus("bogus"), StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
