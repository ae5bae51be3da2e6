package service

import (
	"context"
	"time"

	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/logging"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/queue"
	"github.com/talktobook/talktobook/internal/repository/recording"
	"github.com/talktobook/talktobook/internal/service/transcriber"
	"go.uber.org/zap"
)

// TranscriptionService defines the transcription pipeline for recordings
type TranscriptionService interface {
	// TranscribeRecording transcribes the recording's audio. When the network
	// is unavailable the recording is queued instead and queued is true.
	TranscribeRecording(ctx context.Context, recordingID string) (rec *model.Recording, queued bool, err error)

	// GetTranscription retrieves a recording and its transcription state
	GetTranscription(ctx context.Context, recordingID string) (*model.Recording, error)
}

// transcriptionService implements TranscriptionService
type transcriptionService struct {
	recordingRepo recording.Repository
	queueRepo     queue.Repository
	client        transcriber.Client
	checker       ConnectivityChecker
}

// NewTranscriptionService creates a new TranscriptionService.
// The client is expected to carry the retry and cache wrappers already.
func NewTranscriptionService(
	recordingRepo recording.Repository,
	queueRepo queue.Repository,
	client transcriber.Client,
	checker ConnectivityChecker,
) TranscriptionService {
	return &transcriptionService{
		recordingRepo: recordingRepo,
		queueRepo:     queueRepo,
		client:        client,
		checker:       checker,
	}
}

// TranscribeRecording runs the pipeline:
// pending -> (connectivity?) -> in_progress -> API call -> {completed, failed}
func (s *transcriptionService) TranscribeRecording(ctx context.Context, recordingID string) (*model.Recording, bool, error) {
	rec, err := s.recordingRepo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, false, err
	}

	switch rec.Status {
	case model.StatusCompleted:
		return rec, false, nil
	case model.StatusInProgress:
		return nil, false, apperrors.New(apperrors.CodeConflict, "transcription is already in progress")
	case model.StatusFailed:
		// Requeued retry: failed -> pending before the next attempt
		if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusPending, nil); err != nil {
			return nil, false, err
		}
		rec.Status = model.StatusPending
	}

	if !s.checker.Online(ctx) {
		if err := s.queueRepo.Enqueue(ctx, rec.ID, time.Now()); err != nil {
			return nil, false, err
		}
		logging.Logger.Info("offline, transcription queued",
			zap.String("recording_id", rec.ID))
		return rec, true, nil
	}

	if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusInProgress, nil); err != nil {
		return nil, false, err
	}

	result, err := s.client.Transcribe(ctx, rec.AudioPath)
	if err != nil {
		kind := transcriber.KindOf(err)
		msg := err.Error()
		if statusErr := s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusFailed, &msg); statusErr != nil {
			logging.Logger.Warn("failed to mark recording failed",
				zap.String("recording_id", rec.ID), zap.Error(statusErr))
		}

		if kind == transcriber.KindNetworkUnavailable {
			// Connectivity dropped mid-flight: defer instead of failing hard
			if err := s.queueRepo.Enqueue(ctx, rec.ID, time.Now()); err != nil {
				return nil, false, err
			}
			logging.Logger.Info("network lost, transcription queued",
				zap.String("recording_id", rec.ID))
			rec.Status = model.StatusFailed
			rec.ErrorMessage = &msg
			return rec, true, nil
		}

		logging.Logger.Warn("transcription failed",
			zap.String("recording_id", rec.ID),
			zap.String("kind", kind.String()),
			zap.Error(err))
		return nil, false, transcriber.AsAppError(err)
	}

	if err := s.recordingRepo.UpdateTranscribedText(ctx, rec.ID, result.Text); err != nil {
		return nil, false, err
	}

	logging.Logger.Info("transcription completed",
		zap.String("recording_id", rec.ID),
		zap.Int("text_length", len(result.Text)))

	rec.Status = model.StatusCompleted
	rec.TranscribedText = &result.Text
	rec.ErrorMessage = nil
	return rec, false, nil
}

// GetTranscription retrieves a recording and its transcription state
func (s *transcriptionService) GetTranscription(ctx context.Context, recordingID string) (*model.Recording, error) {
	return s.recordingRepo.GetByID(ctx, recordingID)
}
