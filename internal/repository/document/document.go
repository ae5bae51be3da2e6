package document

import (
	"context"

	"github.com/talktobook/talktobook/internal/model"
)

// Repository defines operations for Document persistence
type Repository interface {
	Create(ctx context.Context, document *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	List(ctx context.Context) ([]*model.Document, error)
	Update(ctx context.Context, document *model.Document) error
	// Delete removes a document and, through the cascade, all its chapters.
	// Deleting a non-existent ID is not an error.
	Delete(ctx context.Context, id string) error
}

// ChapterRepository defines operations for Chapter persistence
type ChapterRepository interface {
	Create(ctx context.Context, chapter *model.Chapter) error
	GetByID(ctx context.Context, id string) (*model.Chapter, error)
	GetByDocumentID(ctx context.Context, documentID string) ([]*model.Chapter, error)
	MaxOrderIndex(ctx context.Context, documentID string) (int, error)
	Update(ctx context.Context, chapter *model.Chapter) error
	// Delete removes a chapter and renumbers the remaining chapters of the
	// document so order indices stay contiguous from 0.
	Delete(ctx context.Context, id string) error
	// Reorder assigns order indices 0..n-1 following orderedIDs.
	Reorder(ctx context.Context, documentID string, orderedIDs []string) error
}
