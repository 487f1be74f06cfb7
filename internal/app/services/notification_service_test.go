package services

import (
	"context"
	"testing"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/pkg/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func adminUsers(ids ...int64) []*models.User {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, &models.User{ID: id, RoleType: models.RoleAdmin, IsActive: true})
	}
	return users
}

func recipientIDs(batch []*models.Notification) []int64 {
	ids := make([]int64, 0, len(batch))
	for _, n := range batch {
		ids = append(ids, n.UserID)
	}
	return ids
}

func TestNotificationService_NotifyRequestCreated(t *testing.T) {
	ctx := context.Background()
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

	userRepo.On("ListByRole", ctx, models.RoleAdmin).Return(adminUsers(2, 3), nil)
	notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
		if len(batch) != 2 {
			return false
		}
		for _, n := range batch {
			if n.Type != models.NotificationNewRequest {
				return false
			}
		}
		return true
	})).Return(nil)

	svc.NotifyRequestCreated(ctx, pendingRequest(1))
	notificationRepo.AssertExpectations(t)
}

func TestNotificationService_NotifyTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("StudentNotifiedOnAdvance", func(t *testing.T) {
		notificationRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

		request := pendingRequest(2)
		notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
			return len(batch) == 1 &&
				batch[0].UserID == request.StudentID &&
				batch[0].Type == models.NotificationStatusUpdate
		})).Return(nil)

		svc.NotifyTransition(ctx, request, models.StatusInProgress, staffActor)
		notificationRepo.AssertExpectations(t)
		// No admin lookup on a plain advance.
		userRepo.AssertNotCalled(t, "ListByRole", mock.Anything, mock.Anything)
	})

	t.Run("AdminsAlsoNotifiedOnRejection", func(t *testing.T) {
		notificationRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

		request := pendingRequest(3)
		userRepo.On("ListByRole", ctx, models.RoleAdmin).Return(adminUsers(2, 9), nil)
		notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
			ids := recipientIDs(batch)
			return len(ids) == 3 && ids[0] == request.StudentID
		})).Return(nil)

		svc.NotifyTransition(ctx, request, models.StatusRejected, staffActor)
		notificationRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})
}

func TestNotificationService_NotifyDocumentUploaded(t *testing.T) {
	ctx := context.Background()
	doc := &models.DocumentRef{ID: 1, FileName: "transcript_final.pdf"}

	t.Run("StudentUploadReachesAssignedStaff", func(t *testing.T) {
		notificationRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

		request := assignedRequest(4, 7, models.StatusInProgress)
		notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
			return len(batch) == 1 && batch[0].UserID == int64(7) && batch[0].Type == models.NotificationDocument
		})).Return(nil)

		svc.NotifyDocumentUploaded(ctx, request, doc, studentActor)
		notificationRepo.AssertExpectations(t)
	})

	t.Run("StudentUploadReachesAdminsWhenUnassigned", func(t *testing.T) {
		notificationRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

		userRepo.On("ListByRole", ctx, models.RoleAdmin).Return(adminUsers(2, 3), nil)
		notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
			ids := recipientIDs(batch)
			return len(ids) == 2 && ids[0] == int64(2) && ids[1] == int64(3)
		})).Return(nil)

		svc.NotifyDocumentUploaded(ctx, pendingRequest(5), doc, studentActor)
		notificationRepo.AssertExpectations(t)
	})

	t.Run("StaffUploadReachesStudent", func(t *testing.T) {
		notificationRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

		request := assignedRequest(6, 7, models.StatusReady)
		notificationRepo.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*models.Notification) bool {
			return len(batch) == 1 && batch[0].UserID == request.StudentID
		})).Return(nil)

		svc.NotifyDocumentUploaded(ctx, request, doc, staffActor)
		notificationRepo.AssertExpectations(t)
	})
}

func TestNotificationService_PublishesEvents(t *testing.T) {
	ctx := context.Background()
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	svc := NewNotificationService(notificationRepo, userRepo, publisher, zerolog.Nop())

	request := assignedRequest(8, 7, models.StatusInProgress)
	notificationRepo.On("Create", ctx, mock.Anything).Return(int64(1), nil)
	publisher.On("Publish", ctx, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == "request.assigned" && e.RequestID == int64(8) && e.ActorID == adminActor.ID
	})).Return(nil)

	svc.NotifyAssignment(ctx, request, 7, adminActor)
	publisher.AssertExpectations(t)
}

func TestNotificationService_DispatchFailureDoesNotPropagate(t *testing.T) {
	ctx := context.Background()
	notificationRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	svc := NewNotificationService(notificationRepo, userRepo, nil, zerolog.Nop())

	userRepo.On("ListByRole", ctx, models.RoleAdmin).Return(adminUsers(2), nil)
	notificationRepo.On("CreateBatch", ctx, mock.Anything).Return(assert.AnError)

	// Must not panic or surface the repository error.
	svc.NotifyRequestCreated(ctx, pendingRequest(9))
}
