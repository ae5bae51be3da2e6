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

const (
	// maxQueueAttempts bounds how often a queued recording is retried
	// before it is marked terminally failed
	maxQueueAttempts = 5
	// queueRetryBase is the delay after the first failed queue attempt
	queueRetryBase = 30 * time.Second
	// queueRetryCap bounds the exponential growth of the retry delay
	queueRetryCap = 10 * time.Minute
)

// DrainResult summarizes one pass over the offline queue
type DrainResult struct {
	Processed int
	Completed int
	Requeued  int
	Failed    int
}

// QueueService defines operations for the offline transcription queue
type QueueService interface {
	Enqueue(ctx context.Context, recordingID string) error
	List(ctx context.Context) ([]*model.QueueEntry, error)

	// Drain processes due queue entries sequentially, FIFO.
	// Each entry is sent at most once per pass.
	Drain(ctx context.Context) (*DrainResult, error)

	// RunMonitor polls connectivity and drains the queue whenever the
	// network transitions from offline to online. Returns when ctx is done.
	RunMonitor(ctx context.Context, interval time.Duration)
}

// queueService implements QueueService
type queueService struct {
	queueRepo     queue.Repository
	recordingRepo recording.Repository
	client        transcriber.Client
	checker       ConnectivityChecker
}

// NewQueueService creates a new QueueService
func NewQueueService(
	queueRepo queue.Repository,
	recordingRepo recording.Repository,
	client transcriber.Client,
	checker ConnectivityChecker,
) QueueService {
	return &queueService{
		queueRepo:     queueRepo,
		recordingRepo: recordingRepo,
		client:        client,
		checker:       checker,
	}
}

// Enqueue adds a recording to the offline queue
func (s *queueService) Enqueue(ctx context.Context, recordingID string) error {
	if _, err := s.recordingRepo.GetByID(ctx, recordingID); err != nil {
		return err
	}
	return s.queueRepo.Enqueue(ctx, recordingID, time.Now())
}

// List returns all queue entries in FIFO order
func (s *queueService) List(ctx context.Context) ([]*model.QueueEntry, error) {
	return s.queueRepo.List(ctx)
}

// Drain processes due queue entries sequentially
func (s *queueService) Drain(ctx context.Context) (*DrainResult, error) {
	if !s.checker.Online(ctx) {
		return nil, apperrors.New(apperrors.CodeUnavailable, "network is unavailable, queue not drained")
	}

	entries, err := s.queueRepo.ListDue(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	result := &DrainResult{}
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Processed++
		s.processEntry(ctx, entry, result)
	}

	logging.Logger.Info("queue drained",
		zap.Int("processed", result.Processed),
		zap.Int("completed", result.Completed),
		zap.Int("requeued", result.Requeued),
		zap.Int("failed", result.Failed))

	return result, nil
}

// processEntry transcribes one queued recording
func (s *queueService) processEntry(ctx context.Context, entry *model.QueueEntry, result *DrainResult) {
	rec, err := s.recordingRepo.GetByID(ctx, entry.RecordingID)
	if err != nil {
		// The recording is gone; its queue entry has nothing left to do
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			_ = s.queueRepo.Remove(ctx, entry.RecordingID)
			return
		}
		logging.Logger.Warn("failed to load queued recording",
			zap.String("recording_id", entry.RecordingID), zap.Error(err))
		return
	}

	if rec.Status == model.StatusCompleted {
		_ = s.queueRepo.Remove(ctx, entry.RecordingID)
		return
	}

	// Requeued retries come back as failed; step through pending again
	if rec.Status == model.StatusFailed {
		if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusPending, nil); err != nil {
			return
		}
	}
	if err := s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusInProgress, nil); err != nil {
		return
	}

	res, err := s.client.Transcribe(ctx, rec.AudioPath)
	if err == nil {
		if err := s.recordingRepo.UpdateTranscribedText(ctx, rec.ID, res.Text); err != nil {
			logging.Logger.Warn("failed to store transcription",
				zap.String("recording_id", rec.ID), zap.Error(err))
			return
		}
		_ = s.queueRepo.Remove(ctx, rec.ID)
		result.Completed++
		return
	}

	kind := transcriber.KindOf(err)
	msg := err.Error()
	_ = s.recordingRepo.UpdateStatus(ctx, rec.ID, model.StatusFailed, &msg)

	recoverable := kind.Retryable() || kind == transcriber.KindNetworkUnavailable
	if recoverable && entry.Attempts+1 < maxQueueAttempts {
		nextRetry := time.Now().Add(queueRetryDelay(entry.Attempts))
		_ = s.queueRepo.MarkAttempt(ctx, rec.ID, nextRetry)
		result.Requeued++
		logging.Logger.Info("queued transcription failed, will retry",
			zap.String("recording_id", rec.ID),
			zap.String("kind", kind.String()),
			zap.Int("attempts", entry.Attempts+1))
		return
	}

	// Terminal failure: drop the entry, the recording keeps the error message
	_ = s.queueRepo.Remove(ctx, rec.ID)
	result.Failed++
	logging.Logger.Warn("queued transcription failed terminally",
		zap.String("recording_id", rec.ID),
		zap.String("kind", kind.String()),
		zap.Error(err))
}

// RunMonitor polls connectivity and drains the queue on offline -> online
func (s *queueService) RunMonitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	wasOnline := s.checker.Online(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			online := s.checker.Online(ctx)
			if online && !wasOnline {
				logging.Logger.Info("connectivity restored, draining queue")
				if _, err := s.Drain(ctx); err != nil {
					logging.Logger.Warn("queue drain failed", zap.Error(err))
				}
			}
			wasOnline = online
		}
	}
}

// queueRetryDelay grows exponentially with the attempt count, capped
func queueRetryDelay(attempts int) time.Duration {
	delay := queueRetryBase
	for i := 0; i < attempts; i++ {
		delay *= 2
		if delay >= queueRetryCap {
			return queueRetryCap
		}
	}
	return delay
}
