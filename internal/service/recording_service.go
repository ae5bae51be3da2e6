package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/recording"
)

// RecordingService defines operations for recording management
type RecordingService interface {
	// ImportRecording stores an audio file and creates a pending recording
	ImportRecording(ctx context.Context, srcPath string) (*model.Recording, error)

	// GetRecording retrieves a recording by ID
	GetRecording(ctx context.Context, id string) (*model.Recording, error)

	// ListRecordings lists all recordings
	ListRecordings(ctx context.Context) ([]*model.Recording, error)

	// DeleteRecording deletes a recording and its audio file
	DeleteRecording(ctx context.Context, id string) error
}

// recordingService implements RecordingService
type recordingService struct {
	recordingRepo recording.Repository
	audioStore    AudioStore
}

// NewRecordingService creates a new RecordingService
func NewRecordingService(recordingRepo recording.Repository, audioStore AudioStore) RecordingService {
	return &recordingService{
		recordingRepo: recordingRepo,
		audioStore:    audioStore,
	}
}

// ImportRecording stores an audio file and creates a pending recording
func (s *recordingService) ImportRecording(ctx context.Context, srcPath string) (*model.Recording, error) {
	audioPath, duration, err := s.audioStore.Import(ctx, srcPath)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &model.Recording{
		ID:              uuid.NewString(),
		AudioPath:       audioPath,
		DurationSeconds: duration,
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.recordingRepo.Create(ctx, rec); err != nil {
		// Do not leave an orphan file behind
		_ = s.audioStore.Remove(audioPath)
		return nil, err
	}

	return rec, nil
}

// GetRecording retrieves a recording by ID
func (s *recordingService) GetRecording(ctx context.Context, id string) (*model.Recording, error) {
	rec, err := s.recordingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecordings lists all recordings
func (s *recordingService) ListRecordings(ctx context.Context) ([]*model.Recording, error) {
	recordings, err := s.recordingRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list recordings")
	}
	return recordings, nil
}

// DeleteRecording deletes a recording and its audio file.
// Deleting a non-existent recording is not an error.
func (s *recordingService) DeleteRecording(ctx context.Context, id string) error {
	rec, err := s.recordingRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil
		}
		return err
	}

	if err := s.recordingRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.audioStore.Remove(rec.AudioPath)
}
