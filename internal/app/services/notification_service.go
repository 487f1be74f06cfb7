package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/events"
	"github.com/kerem/doctrack/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// NotificationService defines the notification fan-out and feed operations.
// Dispatch methods run after the primary state change has committed: a
// failed dispatch is logged and reported, never rolled back into the
// triggering operation.
type NotificationService interface {
	NotifyRequestCreated(ctx context.Context, request *models.Request)
	NotifyTransition(ctx context.Context, request *models.Request, newStatus models.RequestStatus, actor models.Actor)
	NotifyAssignment(ctx context.Context, request *models.Request, staffID int64, actor models.Actor)
	NotifyDocumentUploaded(ctx context.Context, request *models.Request, doc *models.DocumentRef, actor models.Actor)

	List(ctx context.Context, userID int64, page, size int) (*dto.PagedResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type notificationServiceImpl struct {
	notificationRepo repositories.INotificationRepository
	userRepo         repositories.IUserRepository
	publisher        events.Publisher
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService. publisher may
// be nil when no event broker is configured.
func NewNotificationService(
	notificationRepo repositories.INotificationRepository,
	userRepo repositories.IUserRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

// NotifyRequestCreated notifies every admin about a newly submitted request.
func (s *notificationServiceImpl) NotifyRequestCreated(ctx context.Context, request *models.Request) {
	admins, err := s.userRepo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to resolve admins for creation notification")
		return
	}

	title := fmt.Sprintf("New %s Request", request.RequestType.Label())
	message := fmt.Sprintf("%s %s submitted a %s request.", request.FirstName, request.LastName, request.RequestType.Label())

	var batch []*models.Notification
	for _, admin := range admins {
		batch = append(batch, &models.Notification{
			UserID:    admin.ID,
			Type:      models.NotificationNewRequest,
			Title:     title,
			Message:   message,
			RequestID: &request.ID,
		})
	}
	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to dispatch creation notifications")
	}

	s.publishEvent(ctx, "request.created", request.ID, request.StudentID, map[string]string{
		"request_type": request.RequestType.Label(),
	})
}

// NotifyTransition notifies the owning student about a status change, and
// additionally every admin when the request was rejected.
func (s *notificationServiceImpl) NotifyTransition(ctx context.Context, request *models.Request, newStatus models.RequestStatus, actor models.Actor) {
	title := fmt.Sprintf("Request %s", newStatus.Label())
	message := fmt.Sprintf("Your %s request is now %s.", request.RequestType.Label(), newStatus.Label())

	batch := []*models.Notification{{
		UserID:    request.StudentID,
		Type:      models.NotificationStatusUpdate,
		Title:     title,
		Message:   message,
		RequestID: &request.ID,
	}}

	if newStatus == models.StatusRejected {
		admins, err := s.userRepo.ListByRole(ctx, models.RoleAdmin)
		if err != nil {
			s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to resolve admins for rejection notification")
		} else {
			adminMessage := fmt.Sprintf("%s rejected %s request #%d.", actor.Name, request.RequestType.Label(), request.ID)
			for _, admin := range admins {
				batch = append(batch, &models.Notification{
					UserID:    admin.ID,
					Type:      models.NotificationStatusUpdate,
					Title:     "Request Rejected",
					Message:   adminMessage,
					RequestID: &request.ID,
				})
			}
		}
	}

	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Str("status", string(newStatus)).Msg("Failed to dispatch transition notifications")
	}

	s.publishEvent(ctx, "request.transitioned", request.ID, actor.ID, map[string]string{
		"status": newStatus.Label(),
	})
}

// NotifyAssignment notifies the newly assigned staff member. A displaced
// previous assignee is not notified.
func (s *notificationServiceImpl) NotifyAssignment(ctx context.Context, request *models.Request, staffID int64, actor models.Actor) {
	n := &models.Notification{
		UserID:    staffID,
		Type:      models.NotificationAssignment,
		Title:     "Request Assigned",
		Message:   fmt.Sprintf("%s assigned you %s request #%d.", actor.Name, request.RequestType.Label(), request.ID),
		RequestID: &request.ID,
	}
	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Int64("staffID", staffID).Msg("Failed to dispatch assignment notification")
	}

	s.publishEvent(ctx, "request.assigned", request.ID, actor.ID, map[string]string{
		"staff_id": fmt.Sprintf("%d", staffID),
	})
}

// NotifyDocumentUploaded notifies the counterpart of the uploader: staff
// uploads reach the owning student, student uploads reach the assigned
// staff member (admins when unassigned).
func (s *notificationServiceImpl) NotifyDocumentUploaded(ctx context.Context, request *models.Request, doc *models.DocumentRef, actor models.Actor) {
	title := "Document Uploaded"
	message := fmt.Sprintf("%s uploaded %q to %s request #%d.", actor.Name, doc.FileName, request.RequestType.Label(), request.ID)

	var batch []*models.Notification
	if actor.IsStudent() {
		if request.AssignedStaffID != nil {
			batch = append(batch, &models.Notification{
				UserID: *request.AssignedStaffID, Type: models.NotificationDocument,
				Title: title, Message: message, RequestID: &request.ID,
			})
		} else {
			admins, err := s.userRepo.ListByRole(ctx, models.RoleAdmin)
			if err != nil {
				s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to resolve admins for document notification")
				return
			}
			for _, admin := range admins {
				batch = append(batch, &models.Notification{
					UserID: admin.ID, Type: models.NotificationDocument,
					Title: title, Message: message, RequestID: &request.ID,
				})
			}
		}
	} else {
		batch = append(batch, &models.Notification{
			UserID: request.StudentID, Type: models.NotificationDocument,
			Title: title, Message: message, RequestID: &request.ID,
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Int64("requestID", request.ID).Msg("Failed to dispatch document notifications")
	}

	s.publishEvent(ctx, "request.document_uploaded", request.ID, actor.ID, map[string]string{
		"file_name": doc.FileName,
	})
}

func (s *notificationServiceImpl) publishEvent(ctx context.Context, eventType string, requestID, actorID int64, attributes map[string]string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.Event{
		Type:       eventType,
		RequestID:  requestID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
		Attributes: attributes,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Int64("requestID", requestID).Msg("Failed to publish domain event")
	}
}

// List returns a page of the user's notifications, newest first.
func (s *notificationServiceImpl) List(ctx context.Context, userID int64, page, size int) (*dto.PagedResponse, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.MapNotificationToResponse(n))
	}
	return &dto.PagedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// UnreadCount returns the user's unread notification count.
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks all of the user's notifications as read.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
