package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
	"github.com/raynet-care/care-api/internal/service/access"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
	"github.com/raynet-care/care-api/pkg/validator"
)

type StaffService interface {
	CreateProfile(ctx context.Context, actor model.Actor, req *model.CreateStaffProfileRequest) (*model.StaffProfile, error)
	GetProfile(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.StaffProfile, error)
	AssignServiceUsers(ctx context.Context, actor model.Actor, profileID uuid.UUID, serviceUserIDs []uuid.UUID) error
}

type Service struct {
	repo   repository.StaffRepository
	access *access.Service
}

func NewService(repo repository.StaffRepository, accessSvc *access.Service) *Service {
	return &Service{repo: repo, access: accessSvc}
}

func (s *Service) CreateProfile(ctx context.Context, actor model.Actor, req *model.CreateStaffProfileRequest) (*model.StaffProfile, error) {
	if err := s.requireManager(ctx, actor); err != nil {
		return nil, err
	}

	if err := validator.Struct(req); err != nil {
		return nil, apperrors.BadRequest("invalid staff profile", err)
	}

	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid role: %s", req.Role), nil)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid user id", err)
	}

	profile := &model.StaffProfile{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Email:  req.Email,
		Role:   role,
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create staff profile: %w", err)
	}
	return profile, nil
}

func (s *Service) GetProfile(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.StaffProfile, error) {
	if err := s.requireManager(ctx, actor); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("staff profile", err)
		}
		return nil, fmt.Errorf("failed to get staff profile: %w", err)
	}

	assigned, err := s.repo.ListAssignments(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	profile.AssignedServiceUsers = assigned

	return profile, nil
}

// AssignServiceUsers replaces the profile's assigned set and drops the
// staff member's cached visibility scope so the change is seen on the
// next request.
func (s *Service) AssignServiceUsers(ctx context.Context, actor model.Actor, profileID uuid.UUID, serviceUserIDs []uuid.UUID) error {
	if err := s.requireManager(ctx, actor); err != nil {
		return err
	}

	profile, err := s.repo.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("staff profile", err)
		}
		return fmt.Errorf("failed to get staff profile: %w", err)
	}

	if err := s.repo.SetAssignments(ctx, profileID, serviceUserIDs); err != nil {
		return fmt.Errorf("failed to set assignments: %w", err)
	}

	s.access.Invalidate(profile.UserID)
	return nil
}

func (s *Service) requireManager(ctx context.Context, actor model.Actor) error {
	ok, err := s.access.IsManager(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("admin or manager role required")
	}
	return nil
}
