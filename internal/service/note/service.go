package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
	"github.com/raynet-care/care-api/internal/repository/postgres"
	"github.com/raynet-care/care-api/internal/service/access"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

// listLimit bounds a notes page
const listLimit = 100

type NoteService interface {
	ListNotes(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) ([]*model.CommunicationNote, error)
	CreateNote(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, req *model.CreateNoteRequest) (*model.CommunicationNote, error)
	SyncNotes(ctx context.Context, actor model.Actor, items []model.SyncNoteItem) ([]model.SyncOutcome, error)
}

type Service struct {
	repo   repository.NoteRepository
	suRepo repository.ServiceUserRepository
	access *access.Service
}

func NewService(repo repository.NoteRepository, suRepo repository.ServiceUserRepository, accessSvc *access.Service) *Service {
	return &Service{
		repo:   repo,
		suRepo: suRepo,
		access: accessSvc,
	}
}

func (s *Service) ListNotes(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) ([]*model.CommunicationNote, error) {
	if err := s.authorize(ctx, actor, serviceUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByServiceUser(ctx, serviceUserID, listLimit)
}

// CreateNote always inserts: dedup by client_uid applies only to the
// sync path, a direct submission is taken at face value.
func (s *Service) CreateNote(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, req *model.CreateNoteRequest) (*model.CommunicationNote, error) {
	if err := s.authorize(ctx, actor, serviceUserID); err != nil {
		return nil, err
	}

	note := &model.CommunicationNote{
		ID:            uuid.New(),
		ServiceUserID: serviceUserID,
		CreatedBy:     actor.ID,
		AuthorEmail:   actor.Email,
		CreatedAt:     time.Now(),
		VisitType:     req.VisitType,
		NoteText:      req.NoteText,
		ConcernFlag:   req.ConcernFlag,
		ClientUID:     req.ClientUID,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

// SyncNotes reconciles a batch of notes queued by an offline client.
// Each item is processed independently in submission order: malformed
// items, forbidden targets and duplicate replays never abort their
// siblings. The returned outcomes are tagged per item.
func (s *Service) SyncNotes(ctx context.Context, actor model.Actor, items []model.SyncNoteItem) ([]model.SyncOutcome, error) {
	scope, err := s.access.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}

	outcomes := make([]model.SyncOutcome, 0, len(items))
	for idx, item := range items {
		outcomes = append(outcomes, s.syncOne(ctx, actor, scope, idx, item))
	}
	return outcomes, nil
}

func (s *Service) syncOne(ctx context.Context, actor model.Actor, scope *access.Scope, idx int, item model.SyncNoteItem) model.SyncOutcome {
	syncRef, err := coerceSyncRef(item.ServiceUserID)
	if err != nil {
		return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "invalid service user reference"}
	}

	su, err := s.suRepo.GetBySyncRef(ctx, syncRef)
	if err != nil {
		// An unknown reference is outside every visibility set, so it
		// reads the same as a forbidden one.
		if errors.Is(err, sql.ErrNoRows) {
			return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "forbidden service user"}
		}
		log.Error().Err(err).Int("item", idx).Msg("sync: service user lookup failed")
		return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "service user lookup failed"}
	}

	if !scope.Contains(su.ID) {
		return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "forbidden service user"}
	}

	clientUID := strings.TrimSpace(item.ClientUID)
	if clientUID != "" {
		exists, err := s.repo.ExistsByClientUID(ctx, clientUID)
		if err != nil {
			log.Error().Err(err).Int("item", idx).Msg("sync: dedup check failed")
			return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "dedup check failed"}
		}
		if exists {
			// already synced earlier, idempotent replay
			return model.SyncOutcome{Index: idx, Status: model.SyncDuplicate}
		}
	}

	note := &model.CommunicationNote{
		ID:            uuid.New(),
		ServiceUserID: su.ID,
		CreatedBy:     actor.ID,
		AuthorEmail:   actor.Email,
		CreatedAt:     time.Now(),
		VisitType:     strings.TrimSpace(item.VisitType),
		NoteText:      strings.TrimSpace(item.NoteText),
		ConcernFlag:   coerceBool(item.ConcernFlag),
		ClientUID:     clientUID,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		// Two concurrent syncs can both pass the existence check; the
		// unique index on client_uid settles it, and the loser is a
		// duplicate, not a failure.
		if postgres.IsUniqueViolation(err) {
			return model.SyncOutcome{Index: idx, Status: model.SyncDuplicate}
		}
		log.Error().Err(err).Int("item", idx).Msg("sync: note insert failed")
		return model.SyncOutcome{Index: idx, Status: model.SyncFailed, Reason: "failed to save note"}
	}

	return model.SyncOutcome{Index: idx, Status: model.SyncSaved}
}

func (s *Service) authorize(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) error {
	if _, err := s.suRepo.Get(ctx, serviceUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("service user", err)
		}
		return fmt.Errorf("failed to get service user: %w", err)
	}
	return s.access.Authorize(ctx, actor, serviceUserID)
}

// coerceSyncRef extracts the numeric service user reference from the
// loosely typed sync payload field.
func coerceSyncRef(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("missing or non-numeric reference")
	}
}

// coerceBool folds whatever the offline client stored into a boolean.
func coerceBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
		return strings.TrimSpace(t) != ""
	default:
		return false
	}
}
