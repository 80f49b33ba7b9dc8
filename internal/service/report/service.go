package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
	"github.com/raynet-care/care-api/internal/service/access"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

type ReportService interface {
	ExportNotes(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, start, end *time.Time) ([]byte, string, error)
}

type Service struct {
	noteRepo repository.NoteRepository
	suRepo   repository.ServiceUserRepository
	access   *access.Service
	orgName  string
}

func NewService(noteRepo repository.NoteRepository, suRepo repository.ServiceUserRepository, accessSvc *access.Service, orgName string) *Service {
	return &Service{
		noteRepo: noteRepo,
		suRepo:   suRepo,
		access:   accessSvc,
		orgName:  orgName,
	}
}

// ExportNotes renders a date-filtered note history for one service
// user as a paginated PDF, oldest note first — a report reads as a
// history, the opposite of the list view. Bounds are inclusive dates;
// the end bound covers the whole end day. Returns the PDF bytes and a
// suggested filename.
func (s *Service) ExportNotes(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, start, end *time.Time) ([]byte, string, error) {
	su, err := s.suRepo.Get(ctx, serviceUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", apperrors.NotFound("service user", err)
		}
		return nil, "", fmt.Errorf("failed to get service user: %w", err)
	}

	if err := s.access.Authorize(ctx, actor, su.ID); err != nil {
		return nil, "", err
	}

	var endBound *time.Time
	if end != nil {
		eb := end.Add(24*time.Hour - time.Nanosecond)
		endBound = &eb
	}

	notes, err := s.noteRepo.ListForReport(ctx, serviceUserID, start, endBound)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list notes: %w", err)
	}

	pdf, err := renderNotesPDF(s.orgName, su, notes, periodLabel(start), periodLabel(end))
	if err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}

	return pdf, fmt.Sprintf("%s-notes.pdf", su.FullName), nil
}

func periodLabel(t *time.Time) string {
	if t == nil {
		return "All"
	}
	return t.Format("2006-01-02")
}
