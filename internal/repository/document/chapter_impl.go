package document

import (
	"context"
	"errors"

	apperrors "github.com/talktobook/talktobook/internal/errors"
	"github.com/talktobook/talktobook/internal/model"
	"github.com/talktobook/talktobook/internal/repository/common"
	"github.com/jackc/pgx/v5"
)

// chapterRepository implements ChapterRepository using PostgreSQL
type chapterRepository struct {
	pool common.Pool
}

// NewChapterRepository creates a new instance of ChapterRepository
func NewChapterRepository(pool common.Pool) ChapterRepository {
	return &chapterRepository{
		pool: pool,
	}
}

// Create creates a new chapter record
func (r *chapterRepository) Create(ctx context.Context, chapter *model.Chapter) error {
	sql := `INSERT INTO chapters (id, document_id, order_index, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, sql,
		chapter.ID,
		chapter.DocumentID,
		chapter.OrderIndex,
		chapter.Title,
		chapter.Content,
		chapter.CreatedAt,
		chapter.UpdatedAt,
	)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to create chapter")
	}
	return nil
}

// GetByID retrieves a chapter by its ID
func (r *chapterRepository) GetByID(ctx context.Context, id string) (*model.Chapter, error) {
	sql := `SELECT id, document_id, order_index, title, content, created_at, updated_at
		FROM chapters WHERE id = $1`
	row := r.pool.QueryRow(ctx, sql, id)

	var chapter model.Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.DocumentID,
		&chapter.OrderIndex,
		&chapter.Title,
		&chapter.Content,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "chapter not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get chapter")
	}
	return &chapter, nil
}

// GetByDocumentID retrieves all chapters of a document ordered by order index
func (r *chapterRepository) GetByDocumentID(ctx context.Context, documentID string) ([]*model.Chapter, error) {
	sql := `SELECT id, document_id, order_index, title, content, created_at, updated_at
		FROM chapters WHERE document_id = $1 ORDER BY order_index`
	rows, err := r.pool.Query(ctx, sql, documentID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to get chapters by document ID")
	}
	defer rows.Close()

	var chapters []*model.Chapter
	for rows.Next() {
		var chapter model.Chapter
		err := rows.Scan(
			&chapter.ID,
			&chapter.DocumentID,
			&chapter.OrderIndex,
			&chapter.Title,
			&chapter.Content,
			&chapter.CreatedAt,
			&chapter.UpdatedAt,
		)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan chapter")
		}
		chapters = append(chapters, &chapter)
	}

	return chapters, nil
}

// MaxOrderIndex returns the highest order index within a document, or -1 when the document has no chapters
func (r *chapterRepository) MaxOrderIndex(ctx context.Context, documentID string) (int, error) {
	sql := `SELECT COALESCE(MAX(order_index), -1) FROM chapters WHERE document_id = $1`
	row := r.pool.QueryRow(ctx, sql, documentID)

	var maxIndex int
	if err := row.Scan(&maxIndex); err != nil {
		return 0, common.HandlePostgreSQLError(err, "failed to get max chapter order index")
	}
	return maxIndex, nil
}

// Update updates the title and content of a chapter
func (r *chapterRepository) Update(ctx context.Context, chapter *model.Chapter) error {
	sql := `UPDATE chapters SET title = $2, content = $3, updated_at = now() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, sql, chapter.ID, chapter.Title, chapter.Content)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to update chapter")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "chapter not found")
	}
	return nil
}

// Delete removes a chapter and renumbers the remaining chapters of its document.
// Runs in a transaction so other readers never observe a gap in the numbering.
func (r *chapterRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var documentID string
	err = tx.QueryRow(ctx, "DELETE FROM chapters WHERE id = $1 RETURNING document_id", id).Scan(&documentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.Wrap(err, apperrors.CodeNotFound, "chapter not found")
		}
		return common.HandlePostgreSQLError(err, "failed to delete chapter")
	}

	renumber := `UPDATE chapters SET order_index = ranked.new_index
		FROM (
			SELECT id, row_number() OVER (ORDER BY order_index) - 1 AS new_index
			FROM chapters WHERE document_id = $1
		) AS ranked
		WHERE chapters.id = ranked.id`
	if _, err = tx.Exec(ctx, renumber, documentID); err != nil {
		return common.HandlePostgreSQLError(err, "failed to renumber chapters")
	}

	if err = tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit chapter deletion")
	}
	return nil
}

// Reorder assigns order indices 0..n-1 following orderedIDs.
// orderedIDs must name every chapter of the document exactly once.
func (r *chapterRepository) Reorder(ctx context.Context, documentID string, orderedIDs []string) (err error) {
	if len(orderedIDs) == 0 {
		return apperrors.New(apperrors.CodeInvalidArg, "ordered chapter IDs are required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var count int
	if err = tx.QueryRow(ctx, "SELECT COUNT(*) FROM chapters WHERE document_id = $1", documentID).Scan(&count); err != nil {
		return common.HandlePostgreSQLError(err, "failed to count chapters")
	}
	if count != len(orderedIDs) {
		return apperrors.New(apperrors.CodeInvalidArg, "ordered chapter IDs must cover all chapters of the document")
	}

	for i, chapterID := range orderedIDs {
		sql := `UPDATE chapters SET order_index = $3, updated_at = now() WHERE id = $1 AND document_id = $2`
		tag, execErr := tx.Exec(ctx, sql, chapterID, documentID, i)
		if execErr != nil {
			err = common.HandlePostgreSQLError(execErr, "failed to reorder chapter")
			return err
		}
		if tag.RowsAffected() == 0 {
			err = apperrors.New(apperrors.CodeNotFound, "chapter not found in document")
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit chapter reorder")
	}
	return nil
}
