package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO documents (id, service_user_id, category, file_path, description, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.ServiceUserID,
		doc.Category,
		doc.FilePath,
		doc.Description,
		doc.UploadedBy,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	query := `SELECT * FROM documents WHERE id = $1`
	var doc model.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByServiceUser(ctx context.Context, serviceUserID uuid.UUID) ([]*model.Document, error) {
	query := `
		SELECT * FROM documents
		WHERE service_user_id = $1
		ORDER BY uploaded_at DESC
	`
	var docs []*model.Document
	err := r.db.SelectContext(ctx, &docs, query, serviceUserID)
	return docs, err
}
