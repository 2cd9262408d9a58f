package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type documentRepository struct {
	db *DB
}

func NewDocumentRepository(db *DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	query := `
		INSERT INTO documents (entity_type, entity_id, file_path, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		d.EntityType,
		d.EntityID,
		d.FilePath,
		d.Metadata,
	).Scan(&d.ID, &d.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	query := `SELECT id, entity_type, entity_id, file_path, metadata, created_at FROM documents WHERE id = $1`

	var d domain.Document
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &d, query, id); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *documentRepository) List(ctx context.Context, entityType domain.DocumentEntity, entityID int64) ([]*domain.Document, error) {
	query := `
		SELECT id, entity_type, entity_id, file_path, metadata, created_at
		FROM documents
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY id
	`

	var docs []*domain.Document
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &docs, query, entityType, entityID); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}
