package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/model"
)

// All repository interfaces in one file
type (
	// ServiceUserRepository handles care recipient records
	ServiceUserRepository interface {
		Create(ctx context.Context, su *model.ServiceUser) error
		Get(ctx context.Context, id uuid.UUID) (*model.ServiceUser, error)
		GetBySyncRef(ctx context.Context, syncRef int64) (*model.ServiceUser, error)
		Update(ctx context.Context, su *model.ServiceUser) error
		List(ctx context.Context, nameQuery string) ([]*model.ServiceUser, error)
		ListByIDs(ctx context.Context, ids []uuid.UUID, nameQuery string) ([]*model.ServiceUser, error)
	}

	// StaffRepository handles staff profiles and their assignments
	StaffRepository interface {
		CreateProfile(ctx context.Context, profile *model.StaffProfile) error
		GetProfile(ctx context.Context, id uuid.UUID) (*model.StaffProfile, error)
		GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*model.StaffProfile, error)
		SetAssignments(ctx context.Context, profileID uuid.UUID, serviceUserIDs []uuid.UUID) error
		ListAssignments(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error)
	}

	// NoteRepository handles communication notes
	NoteRepository interface {
		Create(ctx context.Context, note *model.CommunicationNote) error
		ListByServiceUser(ctx context.Context, serviceUserID uuid.UUID, limit int) ([]*model.CommunicationNote, error)
		ListForReport(ctx context.Context, serviceUserID uuid.UUID, start, end *time.Time) ([]*model.CommunicationNote, error)
		ExistsByClientUID(ctx context.Context, clientUID string) (bool, error)
	}

	// DocumentRepository handles uploaded compliance documents
	DocumentRepository interface {
		Create(ctx context.Context, doc *model.Document) error
		Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
		ListByServiceUser(ctx context.Context, serviceUserID uuid.UUID) ([]*model.Document, error)
	}
)
