package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
)

type serviceUserRepository struct {
	db *sqlx.DB
}

func NewServiceUserRepository(db *sqlx.DB) repository.ServiceUserRepository {
	return &serviceUserRepository{db: db}
}

func (r *serviceUserRepository) Create(ctx context.Context, su *model.ServiceUser) error {
	query := `
		INSERT INTO service_users (id, full_name, date_of_birth, address, key_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING sync_ref
	`
	su.CreatedAt = time.Now()
	su.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		su.ID,
		su.FullName,
		su.DateOfBirth,
		su.Address,
		su.KeyNotes,
		su.CreatedAt,
		su.UpdatedAt,
	).Scan(&su.SyncRef)
	if err != nil {
		return fmt.Errorf("failed to create service user: %w", err)
	}
	return nil
}

func (r *serviceUserRepository) Get(ctx context.Context, id uuid.UUID) (*model.ServiceUser, error) {
	query := `SELECT * FROM service_users WHERE id = $1`
	var su model.ServiceUser
	err := r.db.GetContext(ctx, &su, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service user: %w", err)
	}
	return &su, nil
}

func (r *serviceUserRepository) GetBySyncRef(ctx context.Context, syncRef int64) (*model.ServiceUser, error) {
	query := `SELECT * FROM service_users WHERE sync_ref = $1`
	var su model.ServiceUser
	err := r.db.GetContext(ctx, &su, query, syncRef)
	if err != nil {
		return nil, fmt.Errorf("failed to get service user by sync ref: %w", err)
	}
	return &su, nil
}

func (r *serviceUserRepository) Update(ctx context.Context, su *model.ServiceUser) error {
	query := `
		UPDATE service_users
		SET full_name = $1, date_of_birth = $2, address = $3, key_notes = $4, updated_at = $5
		WHERE id = $6
	`
	su.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		su.FullName,
		su.DateOfBirth,
		su.Address,
		su.KeyNotes,
		su.UpdatedAt,
		su.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service user: %w", err)
	}
	return nil
}

func (r *serviceUserRepository) List(ctx context.Context, nameQuery string) ([]*model.ServiceUser, error) {
	query := `SELECT * FROM service_users WHERE full_name ILIKE $1 ORDER BY full_name`
	var users []*model.ServiceUser
	err := r.db.SelectContext(ctx, &users, query, "%"+nameQuery+"%")
	return users, err
}

func (r *serviceUserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID, nameQuery string) ([]*model.ServiceUser, error) {
	if len(ids) == 0 {
		return []*model.ServiceUser{}, nil
	}

	query := `SELECT * FROM service_users WHERE id = ANY($1) AND full_name ILIKE $2 ORDER BY full_name`
	var users []*model.ServiceUser
	err := r.db.SelectContext(ctx, &users, query, pq.Array(ids), "%"+nameQuery+"%")
	return users, err
}
