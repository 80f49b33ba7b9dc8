package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.CommunicationNote) error {
	query := `
		INSERT INTO communication_notes (id, service_user_id, created_by, author_email, created_at, visit_type, note_text, concern_flag, client_uid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.ServiceUserID,
		note.CreatedBy,
		note.AuthorEmail,
		note.CreatedAt,
		note.VisitType,
		note.NoteText,
		note.ConcernFlag,
		note.ClientUID,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) ListByServiceUser(ctx context.Context, serviceUserID uuid.UUID, limit int) ([]*model.CommunicationNote, error) {
	query := `
		SELECT * FROM communication_notes
		WHERE service_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var notes []*model.CommunicationNote
	err := r.db.SelectContext(ctx, &notes, query, serviceUserID, limit)
	return notes, err
}

// ListForReport returns notes in chronological order, optionally bounded
// by creation time (inclusive on both ends).
func (r *noteRepository) ListForReport(ctx context.Context, serviceUserID uuid.UUID, start, end *time.Time) ([]*model.CommunicationNote, error) {
	query := `SELECT * FROM communication_notes WHERE service_user_id = $1`
	args := []interface{}{serviceUserID}

	if start != nil {
		args = append(args, *start)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if end != nil {
		args = append(args, *end)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	var notes []*model.CommunicationNote
	err := r.db.SelectContext(ctx, &notes, query, args...)
	return notes, err
}

func (r *noteRepository) ExistsByClientUID(ctx context.Context, clientUID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM communication_notes WHERE client_uid = $1)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, clientUID)
	return exists, err
}
