package queue

import (
	"context"
	"time"

	"github.com/talktobook/talktobook/internal/model"
)

// Repository defines operations for the offline transcription queue
type Repository interface {
	// Enqueue adds a recording to the queue. Enqueueing an already queued
	// recording is not an error: the existing entry is kept.
	Enqueue(ctx context.Context, recordingID string, now time.Time) error
	// ListDue returns entries eligible for processing at now, FIFO by
	// enqueue time.
	ListDue(ctx context.Context, now time.Time) ([]*model.QueueEntry, error)
	List(ctx context.Context) ([]*model.QueueEntry, error)
	// MarkAttempt increments the attempt counter and pushes the retry time back
	MarkAttempt(ctx context.Context, recordingID string, nextRetryAt time.Time) error
	Remove(ctx context.Context, recordingID string) error
}
