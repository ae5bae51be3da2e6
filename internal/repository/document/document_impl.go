package document

import (
	"context"
	"errors"

	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/common"
	"github.com/jackc/pgx/v5"
)

// documentRepository implements Repository using PostgreSQL
type documentRepository struct {
	pool common.Pool
}

// NewRepository creates a new instance of Repository
func NewRepository(pool common.Pool) Repository {
	return &documentRepository{
		pool: pool,
	}
}

// Create creates a new document record
func (r *documentRepository) Create(ctx context.Context, document *model.Document) error {
	sql := `INSERT INTO documents (id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, sql,
		document.ID,
		document.Title,
		document.Content,
		document.CreatedAt,
		document.UpdatedAt,
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create document")
	}
	return nil
}

// GetByID retrieves a document by its ID
func (r *documentRepository) GetByID(ctx context.Context, id string) (*model.Document, error) {
	sql := `SELECT id, title, content, created_at, updated_at FROM documents WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, id)

	var document model.Document
	err := row.Scan(
		&document.ID,
		&document.Title,
		&document.Content,
		&document.CreatedAt,
		&document.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "document not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get document")
	}
	return &document, nil
}

// List retrieves all documents ordered by creation time
func (r *documentRepository) List(ctx context.Context) ([]*model.Document, error) {
	sql := `SELECT id, title, content, created_at, updated_at FROM documents ORDER BY created_at`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list documents")
	}
	defer rows.Close()

	var documents []*model.Document
	for rows.Next() {
		var document model.Document
		err := rows.Scan(
			&document.ID,
			&document.Title,
			&document.Content,
			&document.CreatedAt,
			&document.UpdatedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan document")
		}
		documents = append(documents, &document)
	}

	return documents, nil
}

// Update updates the title and content of a document
func (r *documentRepository) Update(ctx context.Context, document *model.Document) error {
	sql := `UPDATE documents SET title = $2, content = $3, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, sql, document.ID, document.Title, document.Content)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update document")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "document not found")
	}
	return nil
}

// Delete deletes a document by ID. Chapters are removed by ON DELETE CASCADE.
func (r *documentRepository) Delete(ctx context.Context, id string) error {
	sql := "DELETE FROM documents WHERE id = $1"
	_, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to delete document")
	}
	return nil
}
