package services

import (
	"context"
	"testing"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAssignmentFixture() (*MockRequestRepository, *MockUserRepository, *MockNotificationService, AssignmentService) {
	requestRepo := new(MockRequestRepository)
	userRepo := new(MockUserRepository)
	notifier := new(MockNotificationService)
	svc := NewAssignmentService(requestRepo, userRepo, notifier, auth.NewAuthorizationService(), zerolog.Nop())
	return requestRepo, userRepo, notifier, svc
}

func staffUser(id int64) *models.User {
	return &models.User{ID: id, Email: "staff@example.edu", FirstName: "Mehmet", LastName: "Kaya", RoleType: models.RoleStaff, IsActive: true}
}

func TestAssignmentService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminAssignsStaff", func(t *testing.T) {
		requestRepo, userRepo, notifier, svc := newAssignmentFixture()
		request := pendingRequest(50)

		userRepo.On("GetByID", ctx, staffActor.ID).Return(staffUser(staffActor.ID), nil)
		requestRepo.On("GetByID", ctx, int64(50)).Return(request, nil).Once()
		requestRepo.On("SetAssignee", ctx, int64(50), int64(1), staffActor.ID).Return(nil).Once()
		notifier.On("NotifyAssignment", ctx, request, staffActor.ID, adminActor).Return().Once()
		requestRepo.On("GetByID", ctx, int64(50)).Return(assignedRequest(50, staffActor.ID, models.StatusPending), nil).Once()

		resp, err := svc.Assign(ctx, adminActor, 50, staffActor.ID, nil)
		assert.NoError(t, err)
		assert.Equal(t, &staffActor.ID, resp.AssignedStaffID)
		// Assignment never changes the status.
		assert.Equal(t, "Pending", resp.Status)
		requestRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("ReassignmentOverwritesSilently", func(t *testing.T) {
		requestRepo, userRepo, notifier, svc := newAssignmentFixture()
		request := assignedRequest(51, 99, models.StatusInProgress)
		newStaff := int64(7)

		userRepo.On("GetByID", ctx, newStaff).Return(staffUser(newStaff), nil)
		requestRepo.On("GetByID", ctx, int64(51)).Return(request, nil).Once()
		requestRepo.On("SetAssignee", ctx, int64(51), int64(1), newStaff).Return(nil).Once()
		// Only the new assignee is notified; the displaced one is not.
		notifier.On("NotifyAssignment", ctx, request, newStaff, adminActor).Return().Once()
		requestRepo.On("GetByID", ctx, int64(51)).Return(assignedRequest(51, newStaff, models.StatusInProgress), nil).Once()

		resp, err := svc.Assign(ctx, adminActor, 51, newStaff, nil)
		assert.NoError(t, err)
		assert.Equal(t, newStaff, *resp.AssignedStaffID)
		notifier.AssertExpectations(t)
	})

	t.Run("StaffCannotAssign", func(t *testing.T) {
		_, _, _, svc := newAssignmentFixture()

		_, err := svc.Assign(ctx, staffActor, 52, 7, nil)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("AssigneeMustBeStaff", func(t *testing.T) {
		_, userRepo, _, svc := newAssignmentFixture()
		student := &models.User{ID: 1, RoleType: models.RoleStudent}
		userRepo.On("GetByID", ctx, int64(1)).Return(student, nil)

		_, err := svc.Assign(ctx, adminActor, 53, 1, nil)
		assert.ErrorIs(t, err, apperrors.ErrNotStaffMember)
	})

	t.Run("UnknownStaffNotFound", func(t *testing.T) {
		_, userRepo, _, svc := newAssignmentFixture()
		userRepo.On("GetByID", ctx, int64(999)).Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Assign(ctx, adminActor, 54, 999, nil)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("TerminalRequestNotAssignable", func(t *testing.T) {
		requestRepo, userRepo, _, svc := newAssignmentFixture()
		completed := pendingRequest(55)
		completed.Status = models.StatusCompleted

		userRepo.On("GetByID", ctx, staffActor.ID).Return(staffUser(staffActor.ID), nil)
		requestRepo.On("GetByID", ctx, int64(55)).Return(completed, nil)

		_, err := svc.Assign(ctx, adminActor, 55, staffActor.ID, nil)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		requestRepo.AssertNotCalled(t, "SetAssignee", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAssignmentService_ListAssignableStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminListsStaff", func(t *testing.T) {
		_, userRepo, _, svc := newAssignmentFixture()
		userRepo.On("ListByRole", ctx, models.RoleStaff).Return([]*models.User{staffUser(7), staffUser(8)}, nil)

		staff, err := svc.ListAssignableStaff(ctx, adminActor)
		assert.NoError(t, err)
		assert.Len(t, staff, 2)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		_, _, _, svc := newAssignmentFixture()

		_, err := svc.ListAssignableStaff(ctx, staffActor)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

		_, err = svc.ListAssignableStaff(ctx, studentActor)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}
