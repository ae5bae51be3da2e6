package recording

import (
	"context"

	"github.com/talktobook/talktobook/internal/model"
)

// Repository defines operations for Recording persistence
type Repository interface {
	Create(ctx context.Context, recording *model.Recording) error
	GetByID(ctx context.Context, id string) (*model.Recording, error)
	List(ctx context.Context) ([]*model.Recording, error)
	UpdateStatus(ctx context.Context, id string, status model.RecordingStatus, errorMessage *string) error
	UpdateTranscribedText(ctx context.Context, id string, text string) error
	Delete(ctx context.Context, id string) error
}
