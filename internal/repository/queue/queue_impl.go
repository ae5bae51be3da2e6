package queue

import (
	"context"
	"time"

	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/common"
)

// queueRepository implements Repository using PostgreSQL
type queueRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &queueRepository{
		pool: pool,
	}
}

// Enqueue adds a recording to the queue, keeping an existing entry untouched
func (r *queueRepository) Enqueue(ctx context.Context, recordingID string, now time.Time) error {
	sql := `INSERT INTO transcription_queue (recording_id, attempts, next_retry_at, enqueued_at)
		VALUES ($1, 0, $2, $2)
		ON CONFLICT (recording_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, sql, recordingID, now)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to enqueue recording")
	}
	return nil
}

// ListDue returns entries eligible for processing, FIFO by enqueue time
func (r *queueRepository) ListDue(ctx context.Context, now time.Time) ([]*model.QueueEntry, error) {
	sql := `SELECT recording_id, attempts, next_retry_at, enqueued_at
		FROM transcription_queue WHERE next_retry_at <= $1 ORDER BY enqueued_at`
	return r.queryEntries(ctx, sql, now)
}

// List returns all queue entries, FIFO by enqueue time
func (r *queueRepository) List(ctx context.Context) ([]*model.QueueEntry, error) {
	sql := `SELECT recording_id, attempts, next_retry_at, enqueued_at
		FROM transcription_queue ORDER BY enqueued_at`
	return r.queryEntries(ctx, sql)
}

func (r *queueRepository) queryEntries(ctx context.Context, sql string, args ...any) ([]*model.QueueEntry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list queue entries")
	}
	defer rows.Close()

	var entries []*model.QueueEntry
	for rows.Next() {
		var entry model.QueueEntry
		err := rows.Scan(
			&entry.RecordingID,
			&entry.Attempts,
			&entry.NextRetryAt,
			&entry.EnqueuedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan queue entry")
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

// MarkAttempt increments the attempt counter and pushes the retry time back
func (r *queueRepository) MarkAttempt(ctx context.Context, recordingID string, nextRetryAt time.Time) error {
	sql := `UPDATE transcription_queue SET attempts = attempts + 1, next_retry_at = $2 WHERE recording_id = $1`
	_, err := r.pool.Exec(ctx, sql, recordingID, nextRetryAt)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to mark queue attempt")
	}
	return nil
}

// Remove deletes a queue entry. Removing a missing entry is not an error.
func (r *queueRepository) Remove(ctx context.Context, recordingID string) error {
	sql := "DELETE FROM transcription_queue WHERE recording_id = $1"
	_, err := r.pool.Exec(ctx, sql, recordingID)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to remove queue entry")
	}
	return nil
}
