package serviceuser

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
)

// recentNoteLimit bounds the detail view to the most recent notes.
const recentNoteLimit = 100

type ServiceUserService interface {
	List(ctx context.Context, actor model.Actor, nameQuery string) ([]*model.ServiceUser, error)
	Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.ServiceUserDetail, error)
	Create(ctx context.Context, actor model.Actor, req *model.CreateServiceUserRequest) (*model.ServiceUser, error)
	Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateServiceUserRequest) (*model.ServiceUser, error)
}

type Service struct {
	repo     repository.ServiceUserRepository
	noteRepo repository.NoteRepository
	access   *access.Service
}

func NewService(repo repository.ServiceUserRepository, noteRepo repository.NoteRepository, accessSvc *access.Service) *Service {
	return &Service{
		repo:     repo,
		noteRepo: noteRepo,
		access:   accessSvc,
	}
}

func (s *Service) List(ctx context.Context, actor model.Actor, nameQuery string) ([]*model.ServiceUser, error) {
	return s.access.VisibleServiceUsers(ctx, actor, nameQuery)
}

// Get returns the record plus its most recent notes. A record outside
// the actor's scope is denied, not hidden: existence is checked first
// so a genuinely unknown id still reads as not-found.
func (s *Service) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.ServiceUserDetail, error) {
	su, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service user", err)
		}
		return nil, fmt.Errorf("failed to get service user: %w", err)
	}

	if err := s.access.Authorize(ctx, actor, su.ID); err != nil {
		return nil, err
	}

	notes, err := s.noteRepo.ListByServiceUser(ctx, su.ID, recentNoteLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return &model.ServiceUserDetail{ServiceUser: su, Notes: notes}, nil
}

func (s *Service) Create(ctx context.Context, actor model.Actor, req *model.CreateServiceUserRequest) (*model.ServiceUser, error) {
	if err := s.requireManager(ctx, actor); err != nil {
		return nil, err
	}

	su := &model.ServiceUser{
		Base:        model.Base{ID: uuid.New()},
		FullName:    req.FullName,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		KeyNotes:    req.KeyNotes,
	}

	if err := s.repo.Create(ctx, su); err != nil {
		return nil, fmt.Errorf("failed to create service user: %w", err)
	}
	return su, nil
}

func (s *Service) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.UpdateServiceUserRequest) (*model.ServiceUser, error) {
	if err := s.requireManager(ctx, actor); err != nil {
		return nil, err
	}

	su, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("service user", err)
		}
		return nil, fmt.Errorf("failed to get service user: %w", err)
	}

	if req.FullName != nil {
		su.FullName = *req.FullName
	}
	if req.DateOfBirth != nil {
		su.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		su.Address = *req.Address
	}
	if req.KeyNotes != nil {
		su.KeyNotes = *req.KeyNotes
	}

	if err := s.repo.Update(ctx, su); err != nil {
		return nil, fmt.Errorf("failed to update service user: %w", err)
	}
	return su, nil
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
