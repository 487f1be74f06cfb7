package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// DocumentService registers and serves document metadata. The file bytes
// live in an external blob store addressed by the storage key; this
// service owns only the metadata row and its authorization rules.
type DocumentService interface {
	Register(ctx context.Context, actor models.Actor, requestID int64, req *dto.RegisterDocumentRequest) (*dto.DocumentResponse, error)
	GetByID(ctx context.Context, actor models.Actor, documentID int64) (*dto.DocumentResponse, error)
}

type documentServiceImpl struct {
	documentRepo        repositories.IDocumentRepository
	requestRepo         repositories.IRequestRepository
	notificationService NotificationService
	authzService        *auth.AuthorizationService
	logger              zerolog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo repositories.IDocumentRepository,
	requestRepo repositories.IRequestRepository,
	notificationService NotificationService,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		documentRepo:        documentRepo,
		requestRepo:         requestRepo,
		notificationService: notificationService,
		authzService:        authzService,
		logger:              logger,
	}
}

// Register attaches document metadata to a request the actor can view and
// notifies the uploader's counterpart.
func (s *documentServiceImpl) Register(ctx context.Context, actor models.Actor, requestID int64, req *dto.RegisterDocumentRequest) (*dto.DocumentResponse, error) {
	if validation.IsBlank(req.FileName) {
		return nil, apperrors.NewValidationError("file_name is required")
	}
	if validation.IsBlank(req.ContentType) {
		return nil, apperrors.NewValidationError("content_type is required")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateViewRequest(actor, request); err != nil {
		return nil, err
	}
	if request.Status == models.StatusRejected {
		return nil, apperrors.NewValidationError("documents cannot be added to rejected requests")
	}

	doc := &models.DocumentRef{
		RequestID:   requestID,
		FileName:    strings.TrimSpace(req.FileName),
		ContentType: strings.TrimSpace(req.ContentType),
		UploaderID:  actor.ID,
		StorageKey:  buildStorageKey(requestID, req.FileName),
	}
	if _, err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", requestID).
		Int64("documentID", doc.ID).
		Str("fileName", doc.FileName).
		Msg("Document registered")

	s.notificationService.NotifyDocumentUploaded(ctx, request, doc, actor)

	return &dto.DocumentResponse{
		ID:          doc.ID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		UploaderID:  doc.UploaderID,
		UploadedAt:  doc.UploadedAt,
	}, nil
}

// buildStorageKey derives the opaque blob-store key for an upload. The
// original extension is preserved so the store can serve sensible
// content dispositions.
func buildStorageKey(requestID int64, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("requests/%d/%s%s", requestID, uuid.New().String(), ext)
}

// GetByID returns document metadata, applying the owning request's view
// rules.
func (s *documentServiceImpl) GetByID(ctx context.Context, actor models.Actor, documentID int64) (*dto.DocumentResponse, error) {
	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	request, err := s.requestRepo.GetByID(ctx, doc.RequestID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateViewRequest(actor, request); err != nil {
		return nil, err
	}
	return &dto.DocumentResponse{
		ID:          doc.ID,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		UploaderID:  doc.UploaderID,
		UploadedAt:  doc.UploadedAt,
	}, nil
}
