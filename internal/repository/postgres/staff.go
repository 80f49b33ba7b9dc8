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

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateProfile(ctx context.Context, profile *model.StaffProfile) error {
	query := `
		INSERT INTO staff_profiles (id, user_id, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Email,
		profile.Role,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create staff profile: %w", err)
	}
	return nil
}

func (r *staffRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffProfile, error) {
	query := `SELECT * FROM staff_profiles WHERE id = $1`
	var profile model.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, fmt.Errorf("failed to get staff profile: %w", err)
	}
	return &profile, nil
}

func (r *staffRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.StaffProfile, error) {
	query := `SELECT * FROM staff_profiles WHERE user_id = $1`
	var profile model.StaffProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get staff profile by user: %w", err)
	}
	return &profile, nil
}

// SetAssignments replaces the profile's assigned service users in one
// transaction so a reader never observes a half-applied set.
func (r *staffRepository) SetAssignments(ctx context.Context, profileID uuid.UUID, serviceUserIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM staff_assignments WHERE staff_profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	for _, suID := range serviceUserIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO staff_assignments (staff_profile_id, service_user_id) VALUES ($1, $2)`,
			profileID, suID); err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	return tx.Commit()
}

func (r *staffRepository) ListAssignments(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT service_user_id FROM staff_assignments WHERE staff_profile_id = $1`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, profileID)
	return ids, err
}
