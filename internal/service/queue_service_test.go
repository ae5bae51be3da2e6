package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/service/transcriber"
)

func queueEntry(recordingID string, attempts int) *model.QueueEntry {
	return &model.QueueEntry{
		RecordingID: recordingID,
		Attempts:    attempts,
		NextRetryAt: time.Now().Add(-time.Minute),
		EnqueuedAt:  time.Now().Add(-time.Hour),
	}
}

func TestQueueService_Enqueue(t *testing.T) {
	t.Run("enqueues an existing recording", func(t *testing.T) {
		recRepo := new(mockRecordingRepository)
		queueRepo := new(mockQueueRepository)
		recRepo.On("GetByID", mock.Anything, "rec-1").Return(pendingRecording("rec-1"), nil)
		queueRepo.On("Enqueue", mock.Anything, "rec-1", mock.Anything).Return(nil)

		svc := NewQueueService(queueRepo, recRepo, new(mockTranscriberClient), &stubChecker{online: true})
		err := svc.Enqueue(context.Background(), "rec-1")
		assert.NoError(t, err)
		recRepo.AssertExpectations(t)
		queueRepo.AssertExpectations(t)
	})

	t.Run("rejects an unknown recording", func(t *testing.T) {
		recRepo := new(mockRecordingRepository)
		recRepo.On("GetByID", mock.Anything, "ghost").
			Return(nil, apperrors.New(apperrors.CodeNotFound, "recording not found"))

		svc := NewQueueService(new(mockQueueRepository), recRepo, new(mockTranscriberClient), &stubChecker{online: true})
		err := svc.Enqueue(context.Background(), "ghost")
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestQueueService_Drain(t *testing.T) {
	tests := []struct {
		name       string
		online     bool
		setupMocks func(*mockQueueRepository, *mockRecordingRepository, *mockTranscriberClient)
		want       *DrainResult
		wantErr    bool
	}{
		{
			name:   "offline drain is refused",
			online: false,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
			},
			wantErr: true,
		},
		{
			name:   "empty queue",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).Return([]*model.QueueEntry{}, nil)
			},
			want: &DrainResult{},
		},
		{
			name:   "successful entry is transcribed and removed",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-1", 0)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-1").Return(pendingRecording("rec-1"), nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-1", model.StatusInProgress, (*string)(nil)).Return(nil)
				client.On("Transcribe", mock.Anything, "/audio/rec-1.wav").
					Return(&transcriber.Result{Text: "queued words"}, nil)
				recRepo.On("UpdateTranscribedText", mock.Anything, "rec-1", "queued words").Return(nil)
				queueRepo.On("Remove", mock.Anything, "rec-1").Return(nil)
			},
			want: &DrainResult{Processed: 1, Completed: 1},
		},
		{
			name:   "recoverable failure is requeued with a later retry time",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-2", 1)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-2").Return(pendingRecording("rec-2"), nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-2", model.StatusInProgress, (*string)(nil)).Return(nil)
				client.On("Transcribe", mock.Anything, "/audio/rec-2.wav").
					Return(nil, &transcriber.Error{Kind: transcriber.KindServerError, StatusCode: 500, Message: "down"})
				recRepo.On("UpdateStatus", mock.Anything, "rec-2", model.StatusFailed, mock.AnythingOfType("*string")).Return(nil)
				queueRepo.On("MarkAttempt", mock.Anything, "rec-2",
					mock.MatchedBy(func(next time.Time) bool { return next.After(time.Now()) })).Return(nil)
			},
			want: &DrainResult{Processed: 1, Requeued: 1},
		},
		{
			name:   "attempts exhausted drops the entry",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-3", maxQueueAttempts-1)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-3").Return(pendingRecording("rec-3"), nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-3", model.StatusInProgress, (*string)(nil)).Return(nil)
				client.On("Transcribe", mock.Anything, "/audio/rec-3.wav").
					Return(nil, &transcriber.Error{Kind: transcriber.KindServerError, StatusCode: 500, Message: "still down"})
				recRepo.On("UpdateStatus", mock.Anything, "rec-3", model.StatusFailed, mock.AnythingOfType("*string")).Return(nil)
				queueRepo.On("Remove", mock.Anything, "rec-3").Return(nil)
			},
			want: &DrainResult{Processed: 1, Failed: 1},
		},
		{
			name:   "non recoverable failure is terminal regardless of attempts",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-4", 0)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-4").Return(pendingRecording("rec-4"), nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-4", model.StatusInProgress, (*string)(nil)).Return(nil)
				client.On("Transcribe", mock.Anything, "/audio/rec-4.wav").
					Return(nil, &transcriber.Error{Kind: transcriber.KindUnsupportedFormat, StatusCode: 415, Message: "bad format"})
				recRepo.On("UpdateStatus", mock.Anything, "rec-4", model.StatusFailed, mock.AnythingOfType("*string")).Return(nil)
				queueRepo.On("Remove", mock.Anything, "rec-4").Return(nil)
			},
			want: &DrainResult{Processed: 1, Failed: 1},
		},
		{
			name:   "entry for a deleted recording is dropped quietly",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("gone", 2)}, nil)
				recRepo.On("GetByID", mock.Anything, "gone").
					Return(nil, apperrors.New(apperrors.CodeNotFound, "recording not found"))
				queueRepo.On("Remove", mock.Anything, "gone").Return(nil)
			},
			want: &DrainResult{Processed: 1},
		},
		{
			name:   "already completed recording only clears its entry",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				text := "done earlier"
				rec := pendingRecording("rec-5")
				rec.Status = model.StatusCompleted
				rec.TranscribedText = &text
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-5", 0)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-5").Return(rec, nil)
				queueRepo.On("Remove", mock.Anything, "rec-5").Return(nil)
			},
			want: &DrainResult{Processed: 1},
		},
		{
			name:   "failed recording steps through pending before the retry",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				msg := "earlier failure"
				rec := pendingRecording("rec-6")
				rec.Status = model.StatusFailed
				rec.ErrorMessage = &msg
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-6", 1)}, nil)
				recRepo.On("GetByID", mock.Anything, "rec-6").Return(rec, nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-6", model.StatusPending, (*string)(nil)).Return(nil)
				recRepo.On("UpdateStatus", mock.Anything, "rec-6", model.StatusInProgress, (*string)(nil)).Return(nil)
				client.On("Transcribe", mock.Anything, "/audio/rec-6.wav").
					Return(&transcriber.Result{Text: "recovered"}, nil)
				recRepo.On("UpdateTranscribedText", mock.Anything, "rec-6", "recovered").Return(nil)
				queueRepo.On("Remove", mock.Anything, "rec-6").Return(nil)
			},
			want: &DrainResult{Processed: 1, Completed: 1},
		},
		{
			name:   "entries are processed sequentially in FIFO order",
			online: true,
			setupMocks: func(queueRepo *mockQueueRepository, recRepo *mockRecordingRepository, client *mockTranscriberClient) {
				queueRepo.On("ListDue", mock.Anything, mock.Anything).
					Return([]*model.QueueEntry{queueEntry("rec-a", 0), queueEntry("rec-b", 0)}, nil)
				for _, id := range []string{"rec-a", "rec-b"} {
					recRepo.On("GetByID", mock.Anything, id).Return(pendingRecording(id), nil)
					recRepo.On("UpdateStatus", mock.Anything, id, model.StatusInProgress, (*string)(nil)).Return(nil)
					client.On("Transcribe", mock.Anything, "/audio/"+id+".wav").
						Return(&transcriber.Result{Text: "text for " + id}, nil)
					recRepo.On("UpdateTranscribedText", mock.Anything, id, "text for "+id).Return(nil)
					queueRepo.On("Remove", mock.Anything, id).Return(nil)
				}
			},
			want: &DrainResult{Processed: 2, Completed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queueRepo := new(mockQueueRepository)
			recRepo := new(mockRecordingRepository)
			client := new(mockTranscriberClient)
			tt.setupMocks(queueRepo, recRepo, client)

			svc := NewQueueService(queueRepo, recRepo, client, &stubChecker{online: tt.online})
			result, err := svc.Drain(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.IsCode(err, apperrors.CodeUnavailable))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, result)
			}

			queueRepo.AssertExpectations(t)
			recRepo.AssertExpectations(t)
			client.AssertExpectations(t)
		})
	}
}

func TestQueueRetryDelay(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{attempts: 0, want: 30 * time.Second},
		{attempts: 1, want: time.Minute},
		{attempts: 2, want: 2 * time.Minute},
		{attempts: 3, want: 4 * time.Minute},
		{attempts: 4, want: 8 * time.Minute},
		{attempts: 5, want: 10 * time.Minute},
		{attempts: 10, want: 10 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, queueRetryDelay(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestQueueService_List(t *testing.T) {
	queueRepo := new(mockQueueRepository)
	entries := []*model.QueueEntry{queueEntry("rec-1", 0), queueEntry("rec-2", 3)}
	queueRepo.On("List", mock.Anything).Return(entries, nil)

	svc := NewQueueService(queueRepo, new(mockRecordingRepository), new(mockTranscriberClient), &stubChecker{online: true})
	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, entries, got)
	queueRepo.AssertExpectations(t)
}
