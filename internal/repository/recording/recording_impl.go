package recording

import (
	"context"
	"errors"

	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/common"
	"github.com/jackc/pgx/v5"
)

// recordingRepository implements Repository using PostgreSQL
type recordingRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &recordingRepository{
		pool: pool,
	}
}

// Create creates a new recording record
func (r *recordingRepository) Create(ctx context.Context, recording *model.Recording) error {
	sql := `INSERT INTO recordings
		(id, audio_path, duration_seconds, status, transcribed_text, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, sql,
		recording.ID,
		recording.AudioPath,
		recording.DurationSeconds,
		recording.Status,
		recording.TranscribedText,
		recording.ErrorMessage,
		recording.CreatedAt,
		recording.UpdatedAt,
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create recording")
	}
	return nil
}

// GetByID retrieves a recording by its ID
func (r *recordingRepository) GetByID(ctx context.Context, id string) (*model.Recording, error) {
	sql := `SELECT id, audio_path, duration_seconds, status, transcribed_text, error_message, created_at, updated_at
		FROM recordings WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, id)

	var recording model.Recording
	err := row.Scan(
		&recording.ID,
		&recording.AudioPath,
		&recording.DurationSeconds,
		&recording.Status,
		&recording.TranscribedText,
		&recording.ErrorMessage,
		&recording.CreatedAt,
		&recording.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "recording not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get recording")
	}
	return &recording, nil
}

// List retrieves all recordings ordered by creation time
func (r *recordingRepository) List(ctx context.Context) ([]*model.Recording, error) {
	sql := `SELECT id, audio_path, duration_seconds, status, transcribed_text, error_message, created_at, updated_at
		FROM recordings ORDER BY created_at`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list recordings")
	}
	defer rows.Close()

	var recordings []*model.Recording
	for rows.Next() {
		var recording model.Recording
		err := rows.Scan(
			&recording.ID,
			&recording.AudioPath,
			&recording.DurationSeconds,
			&recording.Status,
			&recording.TranscribedText,
			&recording.ErrorMessage,
			&recording.CreatedAt,
			&recording.UpdatedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan recording")
		}
		recordings = append(recordings, &recording)
	}

	return recordings, nil
}

// UpdateStatus updates the status of a recording
func (r *recordingRepository) UpdateStatus(ctx context.Context, id string, status model.RecordingStatus, errorMessage *string) error {
	sql := `UPDATE recordings SET status = $2, error_message = $3, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, sql, id, status, errorMessage)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update recording status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "recording not found")
	}
	return nil
}

// UpdateTranscribedText stores the transcription result and marks the recording completed
func (r *recordingRepository) UpdateTranscribedText(ctx context.Context, id string, text string) error {
	sql := `UPDATE recordings SET transcribed_text = $2, status = $3, error_message = NULL, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, sql, id, text, model.StatusCompleted)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update transcribed text")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "recording not found")
	}
	return nil
}

// Delete deletes a recording by ID. Deleting a non-existent ID is not an error.
func (r *recordingRepository) Delete(ctx context.Context, id string) error {
	sql := "DELETE FROM recordings WHERE id = $1"
	_, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete recording")
	}
	return nil
}
