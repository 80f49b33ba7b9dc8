package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/raynet-care/care-api/internal/model"
	"github.com/raynet-care/care-api/internal/repository"
	"github.com/raynet-care/care-api/internal/service/access"
	"github.com/raynet-care/care-api/internal/storage"
	apperrors "github.com/raynet-care/care-api/pkg/errors"
)

type DocumentService interface {
	ListDocuments(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) ([]*model.Document, error)
	Upload(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, category, filename, description string, file io.Reader) (*model.Document, error)
	Download(ctx context.Context, actor model.Actor, serviceUserID, documentID uuid.UUID) (*model.Document, io.ReadCloser, error)
}

type Service struct {
	repo   repository.DocumentRepository
	suRepo repository.ServiceUserRepository
	access *access.Service
	blobs  storage.BlobStore
}

func NewService(repo repository.DocumentRepository, suRepo repository.ServiceUserRepository, accessSvc *access.Service, blobs storage.BlobStore) *Service {
	return &Service{
		repo:   repo,
		suRepo: suRepo,
		access: accessSvc,
		blobs:  blobs,
	}
}

func (s *Service) ListDocuments(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID) ([]*model.Document, error) {
	if err := s.authorize(ctx, actor, serviceUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByServiceUser(ctx, serviceUserID)
}

// Upload streams the file into the blob store and records the stored
// reference. The category must be one of the closed set.
func (s *Service) Upload(ctx context.Context, actor model.Actor, serviceUserID uuid.UUID, category, filename, description string, file io.Reader) (*model.Document, error) {
	if err := s.authorize(ctx, actor, serviceUserID); err != nil {
		return nil, err
	}

	cat := model.DocumentCategory(category)
	if !cat.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid document category: %s", category), nil)
	}

	id := uuid.New()
	key := fmt.Sprintf("%s/%s%s", serviceUserID, id, filepath.Ext(filename))
	ref, err := s.blobs.Put(ctx, key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &model.Document{
		ID:            id,
		ServiceUserID: serviceUserID,
		Category:      cat,
		FilePath:      ref,
		Description:   description,
		UploadedBy:    actor.ID,
		UploadedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// Download opens the stored file for a document belonging to the given
// service user. A document id under the wrong service user reads as
// not-found, so document ids cannot be probed across records.
func (s *Service) Download(ctx context.Context, actor model.Actor, serviceUserID, documentID uuid.UUID) (*model.Document, io.ReadCloser, error) {
	if err := s.authorize(ctx, actor, serviceUserID); err != nil {
		return nil, nil, err
	}

	doc, err := s.repo.Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, apperrors.NotFound("document", err)
		}
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc.ServiceUserID != serviceUserID {
		return nil, nil, apperrors.NotFound("document", nil)
	}

	file, err := s.blobs.Open(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return doc, file, nil
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
