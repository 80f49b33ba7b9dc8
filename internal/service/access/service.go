package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

// scopeTTL bounds how stale a cached visibility scope may be after an
// assignment change made by another process.
const scopeTTL = 30 * time.Second

// Scope is the set of service users an actor may read or write. When
// All is set the ID set is not populated.
type Scope struct {
	All bool
	IDs map[uuid.UUID]struct{}
}

// Contains reports whether the scope covers the given service user.
func (s *Scope) Contains(id uuid.UUID) bool {
	if s.All {
		return true
	}
	_, ok := s.IDs[id]
	return ok
}

// Service resolves actor visibility. This is the sole authorization
// gate: every read or write of service-user-scoped data goes through
// Authorize or a scope resolved here.
type Service struct {
	staffRepo repository.StaffRepository
	suRepo    repository.ServiceUserRepository
	cache     *gocache.Cache
}

func NewService(staffRepo repository.StaffRepository, suRepo repository.ServiceUserRepository) *Service {
	return &Service{
		staffRepo: staffRepo,
		suRepo:    suRepo,
		cache:     gocache.New(scopeTTL, 2*scopeTTL),
	}
}

// Resolve computes the actor's visibility scope. Superusers and
// ADMIN/MANAGER profiles see everything, STAFF sees exactly its
// assigned set, and an actor with no profile sees nothing.
func (s *Service) Resolve(ctx context.Context, actor model.Actor) (*Scope, error) {
	if cached, ok := s.cache.Get(actor.ID.String()); ok {
		return cached.(*Scope), nil
	}

	scope, err := s.resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	s.cache.Set(actor.ID.String(), scope, gocache.DefaultExpiration)
	return scope, nil
}

func (s *Service) resolve(ctx context.Context, actor model.Actor) (*Scope, error) {
	if actor.Superuser {
		return &Scope{All: true}, nil
	}

	profile, err := s.staffRepo.GetProfileByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Scope{IDs: map[uuid.UUID]struct{}{}}, nil
		}
		return nil, fmt.Errorf("failed to resolve visibility: %w", err)
	}

	if profile.Role.SeesAll() {
		return &Scope{All: true}, nil
	}

	assigned, err := s.staffRepo.ListAssignments(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	ids := make(map[uuid.UUID]struct{}, len(assigned))
	for _, id := range assigned {
		ids[id] = struct{}{}
	}
	return &Scope{IDs: ids}, nil
}

// Authorize returns a Forbidden error when the actor's scope excludes
// the service user. The denial is explicit so attempted access is
// visible in logs, not hidden behind a not-found.
func (s *Service) Authorize(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) error {
	scope, err := s.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if !scope.Contains(serviceUserID) {
		return apperrors.Forbidden("access to service user denied")
	}
	return nil
}

// VisibleServiceUsers lists the service users in the actor's scope,
// optionally filtered by a case-insensitive substring of the name.
func (s *Service) VisibleServiceUsers(ctx context.Context, actor model.Actor, nameQuery string) ([]*model.ServiceUser, error) {
	scope, err := s.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	if scope.All {
		return s.suRepo.List(ctx, nameQuery)
	}

	ids := make([]uuid.UUID, 0, len(scope.IDs))
	for id := range scope.IDs {
		ids = append(ids, id)
	}
	return s.suRepo.ListByIDs(ctx, ids, nameQuery)
}

// IsManager reports whether the actor may perform admin/manager-only
// operations (record creation, staff onboarding).
func (s *Service) IsManager(ctx context.Context, actor model.Actor) (bool, error) {
	if actor.Superuser {
		return true, nil
	}

	profile, err := s.staffRepo.GetProfileByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to resolve role: %w", err)
	}
	return profile.Role.SeesAll(), nil
}

// Invalidate drops the cached scope for a user, called after an
// assignment or role change.
func (s *Service) Invalidate(userID uuid.UUID) {
	s.cache.Delete(userID.String())
}
