package services

import (
	"context"
	"strings"
	"testing"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDocumentFixture() (*MockDocumentRepository, *MockRequestRepository, *MockNotificationService, DocumentService) {
	documentRepo := new(MockDocumentRepository)
	requestRepo := new(MockRequestRepository)
	notifier := new(MockNotificationService)
	svc := NewDocumentService(documentRepo, requestRepo, notifier, auth.NewAuthorizationService(), zerolog.Nop())
	return documentRepo, requestRepo, notifier, svc
}

func TestDocumentService_Register(t *testing.T) {
	ctx := context.Background()
	payload := &dto.RegisterDocumentRequest{FileName: "transcript_final.pdf", ContentType: "application/pdf"}

	t.Run("OwnerRegistersDocument", func(t *testing.T) {
		documentRepo, requestRepo, notifier, svc := newDocumentFixture()
		request := pendingRequest(60)

		requestRepo.On("GetByID", ctx, int64(60)).Return(request, nil)
		documentRepo.On("Create", ctx, mock.MatchedBy(func(doc *models.DocumentRef) bool {
			return doc.RequestID == 60 &&
				doc.FileName == "transcript_final.pdf" &&
				doc.UploaderID == studentActor.ID &&
				strings.HasPrefix(doc.StorageKey, "requests/60/") &&
				strings.HasSuffix(doc.StorageKey, ".pdf")
		})).Return(int64(1), nil)
		notifier.On("NotifyDocumentUploaded", ctx, request, mock.Anything, studentActor).Return()

		resp, err := svc.Register(ctx, studentActor, 60, payload)
		assert.NoError(t, err)
		assert.Equal(t, "transcript_final.pdf", resp.FileName)
		documentRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("RejectedRequestRefusesDocuments", func(t *testing.T) {
		documentRepo, requestRepo, _, svc := newDocumentFixture()
		rejected := pendingRequest(61)
		rejected.Status = models.StatusRejected
		requestRepo.On("GetByID", ctx, int64(61)).Return(rejected, nil)

		_, err := svc.Register(ctx, studentActor, 61, payload)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		documentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ViewRulesApply", func(t *testing.T) {
		_, requestRepo, _, svc := newDocumentFixture()
		requestRepo.On("GetByID", ctx, int64(62)).Return(pendingRequest(62), nil)

		_, err := svc.Register(ctx, staffActor, 62, payload)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("BlankMetadataRejected", func(t *testing.T) {
		_, _, _, svc := newDocumentFixture()

		_, err := svc.Register(ctx, studentActor, 63, &dto.RegisterDocumentRequest{FileName: "", ContentType: "application/pdf"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

		_, err = svc.Register(ctx, studentActor, 63, &dto.RegisterDocumentRequest{FileName: "x.pdf", ContentType: " "})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestDocumentService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesOwningRequestViewRules", func(t *testing.T) {
		documentRepo, requestRepo, _, svc := newDocumentFixture()
		doc := &models.DocumentRef{ID: 5, RequestID: 70, FileName: "letter.pdf"}
		documentRepo.On("GetByID", ctx, int64(5)).Return(doc, nil)
		requestRepo.On("GetByID", ctx, int64(70)).Return(pendingRequest(70), nil)

		resp, err := svc.GetByID(ctx, studentActor, 5)
		assert.NoError(t, err)
		assert.Equal(t, "letter.pdf", resp.FileName)

		_, err = svc.GetByID(ctx, staffActor, 5)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("UnknownDocument", func(t *testing.T) {
		documentRepo, _, _, svc := newDocumentFixture()
		documentRepo.On("GetByID", ctx, int64(404)).Return(nil, apperrors.ErrDocumentNotFound)

		_, err := svc.GetByID(ctx, adminActor, 404)
		assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
	})
}
