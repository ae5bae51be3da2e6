package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/document"
	"github.com/talktobook/talktobook/internal/repository/recording"
)

// DocumentService defines operations for document and chapter management
type DocumentService interface {
	CreateDocument(ctx context.Context, title, content string) (*model.Document, error)

	// CreateFromRecording creates a document from a completed recording's text
	CreateFromRecording(ctx context.Context, recordingID, title string) (*model.Document, error)

	GetDocument(ctx context.Context, id string) (*model.Document, []*model.Chapter, error)
	ListDocuments(ctx context.Context) ([]*model.Document, error)
	UpdateDocument(ctx context.Context, id, title, content string) (*model.Document, error)

	// DeleteDocument removes a document and its chapters.
	// Idempotent on a non-existent ID.
	DeleteDocument(ctx context.Context, id string) error

	// MergeDocuments concatenates the given documents, in the given order,
	// into a new document. The source documents are kept.
	MergeDocuments(ctx context.Context, ids []string, title string) (*model.Document, error)

	AddChapter(ctx context.Context, documentID, title, content string) (*model.Chapter, error)
	GetChapter(ctx context.Context, id string) (*model.Chapter, error)
	ListChapters(ctx context.Context, documentID string) ([]*model.Chapter, error)
	UpdateChapter(ctx context.Context, id, title, content string) (*model.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error
	ReorderChapters(ctx context.Context, documentID string, orderedIDs []string) error
}

// documentService implements DocumentService
type documentService struct {
	documentRepo  document.Repository
	chapterRepo   document.ChapterRepository
	recordingRepo recording.Repository
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo document.Repository,
	chapterRepo document.ChapterRepository,
	recordingRepo recording.Repository,
) DocumentService {
	return &documentService{
		documentRepo:  documentRepo,
		chapterRepo:   chapterRepo,
		recordingRepo: recordingRepo,
	}
}

// CreateDocument creates a new document
func (s *documentService) CreateDocument(ctx context.Context, title, content string) (*model.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "document title is required")
	}

	now := time.Now()
	doc := &model.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateFromRecording creates a document from a completed recording's text
func (s *documentService) CreateFromRecording(ctx context.Context, recordingID, title string) (*model.Document, error) {
	rec, err := s.recordingRepo.GetByID(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	if rec.Status != model.StatusCompleted || rec.TranscribedText == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "recording has no completed transcription")
	}

	if title == "" {
		title = "Recording from " + rec.CreatedAt.Format("2006-01-02 15:04")
	}
	return s.CreateDocument(ctx, title, *rec.TranscribedText)
}

// GetDocument retrieves a document and its chapters
func (s *documentService) GetDocument(ctx context.Context, id string) (*model.Document, []*model.Chapter, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	chapters, err := s.chapterRepo.GetByDocumentID(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "failed to get document chapters")
	}

	return doc, chapters, nil
}

// ListDocuments lists all documents
func (s *documentService) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	return s.documentRepo.List(ctx)
}

// UpdateDocument updates a document's title and content
func (s *documentService) UpdateDocument(ctx context.Context, id, title, content string) (*model.Document, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		doc.Title = title
	}
	doc.Content = content

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document; chapters go with it via the cascade
func (s *documentService) DeleteDocument(ctx context.Context, id string) error {
	return s.documentRepo.Delete(ctx, id)
}

// MergeDocuments concatenates documents in the given order into a new one
func (s *documentService) MergeDocuments(ctx context.Context, ids []string, title string) (*model.Document, error) {
	if len(ids) < 2 {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "at least two documents are required for a merge")
	}

	var parts []string
	for _, id := range ids {
		doc, err := s.documentRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		parts = append(parts, doc.Content)
	}

	if title == "" {
		title = "Merged document " + time.Now().Format("2006-01-02 15:04")
	}
	return s.CreateDocument(ctx, title, strings.Join(parts, "\n\n"))
}

// AddChapter appends a chapter at the end of a document
func (s *documentService) AddChapter(ctx context.Context, documentID, title, content string) (*model.Chapter, error) {
	if _, err := s.documentRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	maxIndex, err := s.chapterRepo.MaxOrderIndex(ctx, documentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chapter := &model.Chapter{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		OrderIndex: maxIndex + 1,
		Title:      title,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.chapterRepo.Create(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetChapter retrieves a chapter by ID
func (s *documentService) GetChapter(ctx context.Context, id string) (*model.Chapter, error) {
	return s.chapterRepo.GetByID(ctx, id)
}

// ListChapters lists the chapters of a document in order
func (s *documentService) ListChapters(ctx context.Context, documentID string) ([]*model.Chapter, error) {
	if _, err := s.documentRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.chapterRepo.GetByDocumentID(ctx, documentID)
}

// UpdateChapter updates a chapter's title and content
func (s *documentService) UpdateChapter(ctx context.Context, id, title, content string) (*model.Chapter, error) {
	chapter, err := s.chapterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		chapter.Title = title
	}
	chapter.Content = content

	if err := s.chapterRepo.Update(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// DeleteChapter removes a chapter, keeping the remaining order contiguous
func (s *documentService) DeleteChapter(ctx context.Context, id string) error {
	return s.chapterRepo.Delete(ctx, id)
}

// ReorderChapters applies a new chapter order to a document
func (s *documentService) ReorderChapters(ctx context.Context, documentID string, orderedIDs []string) error {
	if _, err := s.documentRepo.GetByID(ctx, documentID); err != nil {
		return err
	}
	return s.chapterRepo.Reorder(ctx, documentID, orderedIDs)
}
