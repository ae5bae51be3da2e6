package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/service/transcriber"
)

// mockRecordingRepository for testing
type mockRecordingRepository struct {
	mock.Mock
}

func (m *mockRecordingRepository) Create(ctx context.Context, rec *model.Recording) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockRecordingRepository) GetByID(ctx context.Context, id string) (*model.Recording, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recording), args.Error(1)
}

func (m *mockRecordingRepository) List(ctx context.Context) ([]*model.Recording, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recording), args.Error(1)
}

func (m *mockRecordingRepository) UpdateStatus(ctx context.Context, id string, status model.RecordingStatus, errorMessage *string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

func (m *mockRecordingRepository) UpdateTranscribedText(ctx context.Context, id string, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}

func (m *mockRecordingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockQueueRepository for testing
type mockQueueRepository struct {
	mock.Mock
}

func (m *mockQueueRepository) Enqueue(ctx context.Context, recordingID string, now time.Time) error {
	args := m.Called(ctx, recordingID, now)
	return args.Error(0)
}

func (m *mockQueueRepository) ListDue(ctx context.Context, now time.Time) ([]*model.QueueEntry, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QueueEntry), args.Error(1)
}

func (m *mockQueueRepository) List(ctx context.Context) ([]*model.QueueEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.QueueEntry), args.Error(1)
}

func (m *mockQueueRepository) MarkAttempt(ctx context.Context, recordingID string, nextRetryAt time.Time) error {
	args := m.Called(ctx, recordingID, nextRetryAt)
	return args.Error(0)
}

func (m *mockQueueRepository) Remove(ctx context.Context, recordingID string) error {
	args := m.Called(ctx, recordingID)
	return args.Error(0)
}

// mockDocumentRepository for testing
type mockDocumentRepository struct {
	mock.Mock
}

func (m *mockDocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockDocumentRepository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *mockDocumentRepository) List(ctx context.Context) ([]*model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Document), args.Error(1)
}

func (m *mockDocumentRepository) Update(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *mockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockChapterRepository for testing
type mockChapterRepository struct {
	mock.Mock
}

func (m *mockChapterRepository) Create(ctx context.Context, chapter *model.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *mockChapterRepository) GetByID(ctx context.Context, id string) (*model.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chapter), args.Error(1)
}

func (m *mockChapterRepository) GetByDocumentID(ctx context.Context, documentID string) ([]*model.Chapter, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Chapter), args.Error(1)
}

func (m *mockChapterRepository) MaxOrderIndex(ctx context.Context, documentID string) (int, error) {
	args := m.Called(ctx, documentID)
	return args.Int(0), args.Error(1)
}

func (m *mockChapterRepository) Update(ctx context.Context, chapter *model.Chapter) error {
	args := m.Called(ctx, chapter)
	return args.Error(0)
}

func (m *mockChapterRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockChapterRepository) Reorder(ctx context.Context, documentID string, chapterIDs []string) error {
	args := m.Called(ctx, documentID, chapterIDs)
	return args.Error(0)
}

// mockTranscriberClient for testing
type mockTranscriberClient struct {
	mock.Mock
}

func (m *mockTranscriberClient) Transcribe(ctx context.Context, audioPath string) (*transcriber.Result, error) {
	args := m.Called(ctx, audioPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transcriber.Result), args.Error(1)
}

// stubChecker reports a fixed connectivity state
type stubChecker struct {
	online bool
}

func (c *stubChecker) Online(ctx context.Context) bool {
	return c.online
}
