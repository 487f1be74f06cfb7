package services

import (
	"context"
	"time"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AssignmentService assigns staff members to requests. Assignment is an
// admin-only operation, overwrites any prior assignee, and changes
// neither the status nor the timeline.
type AssignmentService interface {
	Assign(ctx context.Context, actor models.Actor, requestID, staffID int64, expectedVersion *int64) (*dto.RequestResponse, error)
	ListAssignableStaff(ctx context.Context, actor models.Actor) ([]*dto.UserResponse, error)
}

type assignmentServiceImpl struct {
	requestRepo         repositories.IRequestRepository
	userRepo            repositories.IUserRepository
	notificationService NotificationService
	authzService        *auth.AuthorizationService
	logger              zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	requestRepo repositories.IRequestRepository,
	userRepo repositories.IUserRepository,
	notificationService NotificationService,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentServiceImpl{
		requestRepo:         requestRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		authzService:        authzService,
		logger:              logger,
	}
}

// Assign sets staffID as the request's assignee.
func (s *assignmentServiceImpl) Assign(ctx context.Context, actor models.Actor, requestID, staffID int64, expectedVersion *int64) (*dto.RequestResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}

	staff, err := s.userRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if staff.RoleType != models.RoleStaff {
		return nil, apperrors.NewCustomError(apperrors.ErrNotStaffMember, "assignee must hold the staff role")
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("completed or rejected requests cannot be reassigned")
	}

	version := request.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}
	if err := s.requestRepo.SetAssignee(ctx, requestID, version, staffID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", requestID).
		Int64("staffID", staffID).
		Int64("adminID", actor.ID).
		Msg("Request assigned")

	s.notificationService.NotifyAssignment(ctx, request, staffID, actor)

	updated, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return dto.MapRequestToResponse(updated, time.Now()), nil
}

// ListAssignableStaff lists active staff accounts for the assignment
// picker. Admin only.
func (s *assignmentServiceImpl) ListAssignableStaff(ctx context.Context, actor models.Actor) ([]*dto.UserResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	staff, err := s.userRepo.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		return nil, err
	}
	result := make([]*dto.UserResponse, 0, len(staff))
	for _, u := range staff {
		result = append(result, dto.MapUserToResponse(u))
	}
	return result, nil
}
