package services

import (
	"context"
	"testing"
	"time"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	studentActor = models.Actor{ID: 1, Name: "Ayse Demir", Role: models.RoleStudent}
	staffActor   = models.Actor{ID: 7, Name: "Mehmet Kaya", Role: models.RoleStaff}
	adminActor   = models.Actor{ID: 2, Name: "Root Admin", Role: models.RoleAdmin}
)

func pendingRequest(id int64) *models.Request {
	return &models.Request{
		ID:               id,
		RequestType:      models.RequestTypeTranscript,
		StudentID:        studentActor.ID,
		FirstName:        "Ayse",
		LastName:         "Demir",
		Email:            "ayse.demir@example.edu",
		EnrollmentStatus: "Current Student",
		InstitutionName:  "ETH Zurich",
		CollectionMethod: models.CollectionPickup,
		NeededByDate:     time.Now().AddDate(0, 1, 0),
		Status:           models.StatusPending,
		Version:          1,
	}
}

func assignedRequest(id int64, staffID int64, status models.RequestStatus) *models.Request {
	r := pendingRequest(id)
	r.Status = status
	r.AssignedStaffID = &staffID
	return r
}

func newTransitionFixture() (*MockRequestRepository, *MockNotificationService, TransitionService) {
	requestRepo := new(MockRequestRepository)
	notifier := new(MockNotificationService)
	svc := NewTransitionService(requestRepo, notifier, auth.NewAuthorizationService(), zerolog.Nop())
	return requestRepo, notifier, svc
}

func TestTransitionService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminAdvancesPendingToInProgress", func(t *testing.T) {
		requestRepo, notifier, svc := newTransitionFixture()
		request := pendingRequest(10)

		requestRepo.On("GetByID", ctx, int64(10)).Return(request, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(10), int64(1), models.StatusInProgress, (*string)(nil), mock.AnythingOfType("*models.TimelineEntry")).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, request, models.StatusInProgress, adminActor).Return().Once()

		updated := pendingRequest(10)
		updated.Status = models.StatusInProgress
		updated.Version = 2
		requestRepo.On("GetByID", ctx, int64(10)).Return(updated, nil).Once()

		resp, err := svc.Transition(ctx, adminActor, 10, models.StatusInProgress, "Verification started", nil)
		assert.NoError(t, err)
		assert.Equal(t, "In Progress", resp.Status)
		assert.Equal(t, int64(2), resp.Version)
		requestRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("AssignedStaffAdvances", func(t *testing.T) {
		requestRepo, notifier, svc := newTransitionFixture()
		request := assignedRequest(11, staffActor.ID, models.StatusInProgress)

		requestRepo.On("GetByID", ctx, int64(11)).Return(request, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(11), int64(1), models.StatusProcessing, (*string)(nil), mock.Anything).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, request, models.StatusProcessing, staffActor).Return().Once()
		requestRepo.On("GetByID", ctx, int64(11)).Return(assignedRequest(11, staffActor.ID, models.StatusProcessing), nil).Once()

		_, err := svc.Transition(ctx, staffActor, 11, models.StatusProcessing, "Printing", nil)
		assert.NoError(t, err)
		requestRepo.AssertExpectations(t)
	})

	t.Run("RereadFailureAfterCommitStillSucceeds", func(t *testing.T) {
		requestRepo, notifier, svc := newTransitionFixture()
		request := pendingRequest(15)

		requestRepo.On("GetByID", ctx, int64(15)).Return(request, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(15), int64(1), models.StatusInProgress, (*string)(nil), mock.Anything).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, request, models.StatusInProgress, adminActor).Return().Once()
		requestRepo.On("GetByID", ctx, int64(15)).Return(nil, apperrors.ErrRequestNotFound).Once()

		resp, err := svc.Transition(ctx, adminActor, 15, models.StatusInProgress, "Verification started", nil)
		assert.NoError(t, err)
		assert.Equal(t, "In Progress", resp.Status)
		assert.Equal(t, int64(2), resp.Version)
		requestRepo.AssertExpectations(t)
	})

	t.Run("SkippingAStateFails", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		requestRepo.On("GetByID", ctx, int64(12)).Return(pendingRequest(12), nil)

		_, err := svc.Transition(ctx, adminActor, 12, models.StatusReady, "skip ahead", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		requestRepo.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BackwardMovementFails", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		requestRepo.On("GetByID", ctx, int64(13)).Return(assignedRequest(13, staffActor.ID, models.StatusProcessing), nil)

		_, err := svc.Transition(ctx, adminActor, 13, models.StatusInProgress, "go back", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("TerminalRequestCannotMove", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		completed := pendingRequest(14)
		completed.Status = models.StatusCompleted
		requestRepo.On("GetByID", ctx, int64(14)).Return(completed, nil)

		_, err := svc.Reject(ctx, adminActor, 14, "too late", nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		requestRepo.On("GetByID", ctx, int64(15)).Return(pendingRequest(15), nil)

		_, err := svc.Transition(ctx, studentActor, 15, models.StatusInProgress, "please", nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("UnassignedStaffForbidden", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		requestRepo.On("GetByID", ctx, int64(16)).Return(assignedRequest(16, 99, models.StatusInProgress), nil)

		_, err := svc.Transition(ctx, staffActor, 16, models.StatusProcessing, "not mine", nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("BlankNoteRejected", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()

		_, err := svc.Transition(ctx, adminActor, 17, models.StatusInProgress, "   ", nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		requestRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		_, _, svc := newTransitionFixture()

		_, err := svc.Transition(ctx, adminActor, 18, models.RequestStatus("ARCHIVED"), "note", nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("RejectedStatusRoutesThroughReject", func(t *testing.T) {
		requestRepo, notifier, svc := newTransitionFixture()
		request := assignedRequest(19, staffActor.ID, models.StatusInProgress)

		reason := "Unpaid tuition balance"
		requestRepo.On("GetByID", ctx, int64(19)).Return(request, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(19), int64(1), models.StatusRejected, &reason, mock.Anything).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, request, models.StatusRejected, staffActor).Return().Once()

		rejected := assignedRequest(19, staffActor.ID, models.StatusRejected)
		rejected.RejectionReason = &reason
		requestRepo.On("GetByID", ctx, int64(19)).Return(rejected, nil).Once()

		resp, err := svc.Transition(ctx, staffActor, 19, models.StatusRejected, reason, nil)
		assert.NoError(t, err)
		assert.Equal(t, "Rejected", resp.Status)
		assert.Equal(t, &reason, resp.RejectionReason)
		requestRepo.AssertExpectations(t)
	})

	t.Run("StaleVersionSurfacesConflict", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()
		request := pendingRequest(20)
		request.Version = 3

		stale := int64(2)
		requestRepo.On("GetByID", ctx, int64(20)).Return(request, nil)
		requestRepo.On("ApplyTransition", ctx, int64(20), stale, models.StatusInProgress, (*string)(nil), mock.Anything).
			Return(apperrors.NewConflictError("request was modified concurrently"))

		_, err := svc.Transition(ctx, adminActor, 20, models.StatusInProgress, "note", &stale)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestTransitionService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("BlankReasonRejected", func(t *testing.T) {
		requestRepo, _, svc := newTransitionFixture()

		_, err := svc.Reject(ctx, adminActor, 21, "", nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		requestRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("ReasonStoredAndTimelineEntryWritten", func(t *testing.T) {
		requestRepo, notifier, svc := newTransitionFixture()
		request := pendingRequest(22)
		reason := "Duplicate of request #12"

		requestRepo.On("GetByID", ctx, int64(22)).Return(request, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(22), int64(1), models.StatusRejected, &reason,
			mock.MatchedBy(func(entry *models.TimelineEntry) bool {
				return entry.Status == models.StatusRejected && entry.Note == reason && entry.ActorID == adminActor.ID
			})).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, request, models.StatusRejected, adminActor).Return().Once()

		rejected := pendingRequest(22)
		rejected.Status = models.StatusRejected
		rejected.RejectionReason = &reason
		requestRepo.On("GetByID", ctx, int64(22)).Return(rejected, nil).Once()

		resp, err := svc.Reject(ctx, adminActor, 22, reason, nil)
		assert.NoError(t, err)
		assert.Equal(t, "Rejected", resp.Status)
		requestRepo.AssertExpectations(t)
	})
}

// The full happy-path chain: every forward transition in order succeeds
// and nothing else is needed to reach Completed.
func TestTransitionService_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	requestRepo, notifier, svc := newTransitionFixture()

	steps := []models.RequestStatus{
		models.StatusInProgress,
		models.StatusProcessing,
		models.StatusReady,
		models.StatusCompleted,
	}

	current := pendingRequest(30)
	for i, next := range steps {
		version := int64(i + 1)
		loaded := *current
		requestRepo.On("GetByID", ctx, int64(30)).Return(&loaded, nil).Once()
		requestRepo.On("ApplyTransition", ctx, int64(30), version, next, (*string)(nil), mock.Anything).Return(nil).Once()
		notifier.On("NotifyTransition", ctx, &loaded, next, adminActor).Return().Once()

		current = pendingRequest(30)
		current.Status = next
		current.Version = version + 1
		requestRepo.On("GetByID", ctx, int64(30)).Return(current, nil).Once()

		resp, err := svc.Transition(ctx, adminActor, 30, next, "step", nil)
		assert.NoError(t, err)
		assert.Equal(t, next.Label(), resp.Status)
	}
	requestRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}
