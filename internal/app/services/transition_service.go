package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// TransitionService applies lifecycle state changes. Forward movement is
// immediate-successor only; Rejected is reachable from any non-terminal
// state. Every applied change appends one timeline entry in the same
// transaction as the status update.
type TransitionService interface {
	Transition(ctx context.Context, actor models.Actor, requestID int64, newStatus models.RequestStatus, note string, expectedVersion *int64) (*dto.RequestResponse, error)
	Reject(ctx context.Context, actor models.Actor, requestID int64, reason string, expectedVersion *int64) (*dto.RequestResponse, error)
}

type transitionServiceImpl struct {
	requestRepo         repositories.IRequestRepository
	notificationService NotificationService
	authzService        *auth.AuthorizationService
	logger              zerolog.Logger
}

// NewTransitionService creates a new TransitionService
func NewTransitionService(
	requestRepo repositories.IRequestRepository,
	notificationService NotificationService,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) TransitionService {
	return &transitionServiceImpl{
		requestRepo:         requestRepo,
		notificationService: notificationService,
		authzService:        authzService,
		logger:              logger,
	}
}

// Transition advances the request to newStatus with a mandatory note.
func (s *transitionServiceImpl) Transition(ctx context.Context, actor models.Actor, requestID int64, newStatus models.RequestStatus, note string, expectedVersion *int64) (*dto.RequestResponse, error) {
	if validation.IsBlank(note) {
		return nil, apperrors.NewValidationError("a note is required for every status change")
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", string(newStatus)))
	}
	if newStatus == models.StatusRejected {
		// Rejections go through Reject so the reason is recorded.
		return s.Reject(ctx, actor, requestID, note, expectedVersion)
	}
	return s.apply(ctx, actor, requestID, newStatus, note, nil, expectedVersion)
}

// Reject moves the request to the terminal Rejected state with a
// mandatory reason, stored on the request and echoed into the timeline.
func (s *transitionServiceImpl) Reject(ctx context.Context, actor models.Actor, requestID int64, reason string, expectedVersion *int64) (*dto.RequestResponse, error) {
	if validation.IsBlank(reason) {
		return nil, apperrors.NewValidationError("a rejection reason is required")
	}
	return s.apply(ctx, actor, requestID, models.StatusRejected, reason, &reason, expectedVersion)
}

func (s *transitionServiceImpl) apply(ctx context.Context, actor models.Actor, requestID int64, newStatus models.RequestStatus, note string, rejectionReason *string, expectedVersion *int64) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateTransitionActor(actor, request); err != nil {
		return nil, err
	}
	if !request.Status.CanAdvanceTo(newStatus) {
		return nil, apperrors.NewInvalidTransitionError(
			fmt.Sprintf("cannot move from %s to %s", request.Status.Label(), newStatus.Label()))
	}

	version := request.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}

	entry := &models.TimelineEntry{
		Status:    newStatus,
		Note:      note,
		ActorID:   actor.ID,
		ActorName: actor.Name,
	}
	if err := s.requestRepo.ApplyTransition(ctx, requestID, version, newStatus, rejectionReason, entry); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestID", requestID).
		Int64("actorID", actor.ID).
		Str("from", string(request.Status)).
		Str("to", string(newStatus)).
		Msg("Request status changed")

	// Dispatch after the commit. A notification failure is logged inside
	// the dispatcher and never unwinds the applied transition.
	s.notificationService.NotifyTransition(ctx, request, newStatus, actor)

	updated, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		// The transition already committed. Surfacing the re-read error
		// would invite a retry that can only fail, so respond from the
		// state we just wrote.
		s.logger.Warn().Err(err).
			Int64("requestID", requestID).
			Msg("Failed to re-read request after transition, responding from applied state")
		applied := *request
		applied.Status = newStatus
		applied.Version = version + 1
		applied.UpdatedAt = time.Now()
		if rejectionReason != nil {
			applied.RejectionReason = rejectionReason
		}
		return dto.MapRequestToResponse(&applied, time.Now()), nil
	}
	return dto.MapRequestToResponse(updated, time.Now()), nil
}
