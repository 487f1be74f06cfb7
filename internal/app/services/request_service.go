package services

import (
	"context"
	"strings"
	"time"

	"github.com/kerem/doctrack/internal/app/auth"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/repositories"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/helpers"
	"github.com/kerem/doctrack/internal/pkg/validation"
	"github.com/rs/zerolog"
)

// RequestService defines creation, lookup, listing and student edits of
// document requests.
type RequestService interface {
	Create(ctx context.Context, actor models.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	GetByID(ctx context.Context, actor models.Actor, id int64) (*dto.RequestResponse, error)
	List(ctx context.Context, actor models.Actor, filter dto.RequestFilter) (*dto.PagedResponse, error)
	ListAll(ctx context.Context, actor models.Actor, filter dto.RequestFilter) (*dto.PagedResponse, error)
	EditByStudent(ctx context.Context, actor models.Actor, id int64, req *dto.EditRequestRequest) (*dto.RequestResponse, error)
}

type requestServiceImpl struct {
	requestRepo         repositories.IRequestRepository
	notificationService NotificationService
	authzService        *auth.AuthorizationService
	logContentEdits     bool
	logger              zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo repositories.IRequestRepository,
	notificationService NotificationService,
	authzService *auth.AuthorizationService,
	logContentEdits bool,
	logger zerolog.Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo:         requestRepo,
		notificationService: notificationService,
		authzService:        authzService,
		logContentEdits:     logContentEdits,
		logger:              logger,
	}
}

// Create validates the payload against its variant rules and persists the
// request at Pending together with its first timeline entry. Only
// students create requests.
func (s *requestServiceImpl) Create(ctx context.Context, actor models.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if !actor.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students can submit requests")
	}

	requestType, ok := models.ParseRequestType(req.RequestType)
	if !ok {
		return nil, apperrors.NewValidationError("request_type must be Transcript or Recommendation")
	}
	method, ok := models.ParseCollectionMethod(req.CollectionMethod)
	if !ok {
		return nil, apperrors.NewValidationError("collection_method must be Pickup, Delivery or Emailed")
	}
	neededBy, err := helpers.ParseDate(req.NeededByDate)
	if err != nil {
		return nil, apperrors.NewValidationError("needed_by_date must be a valid YYYY-MM-DD date")
	}
	if !validation.IsValidEmail(req.Email) {
		return nil, apperrors.NewValidationError("email is not a valid address")
	}

	request := &models.Request{
		RequestType:      requestType,
		StudentID:        actor.ID,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		EnrollmentStatus: strings.TrimSpace(req.EnrollmentStatus),
		InstitutionName:  strings.TrimSpace(req.InstitutionName),
		InstitutionEmail: strings.TrimSpace(req.InstitutionEmail),
		Program:          strings.TrimSpace(req.Program),
		Reason:           strings.TrimSpace(req.Reason),
		CollectionMethod: method,
		DeliveryAddress:  strings.TrimSpace(req.DeliveryAddress),
		NeededByDate:     neededBy,
		Status:           models.StatusPending,
	}
	if err := validateRequestContent(request); err != nil {
		return nil, err
	}

	firstEntry := &models.TimelineEntry{
		Status:    models.StatusPending,
		Note:      "Request submitted",
		ActorID:   actor.ID,
		ActorName: actor.Name,
	}
	if _, err := s.requestRepo.Create(ctx, request, firstEntry); err != nil {
		return nil, err
	}
	request.Timeline = []*models.TimelineEntry{firstEntry}

	s.logger.Info().
		Int64("requestID", request.ID).
		Int64("studentID", actor.ID).
		Str("type", string(requestType)).
		Msg("Request created")

	s.notificationService.NotifyRequestCreated(ctx, request)

	return dto.MapRequestToResponse(request, time.Now()), nil
}

// validateRequestContent enforces the variant and collection-method rules
// shared by creation and student edits.
func validateRequestContent(r *models.Request) error {
	if validation.IsBlank(r.FirstName) || validation.IsBlank(r.LastName) {
		return apperrors.NewValidationError("first_name and last_name are required")
	}
	if validation.IsBlank(r.InstitutionName) {
		return apperrors.NewValidationError("institution_name is required")
	}
	if r.CollectionMethod == models.CollectionDelivery && validation.IsBlank(r.DeliveryAddress) {
		return apperrors.NewValidationError("delivery_address is required for the Delivery collection method")
	}
	if r.CollectionMethod == models.CollectionEmailed && !validation.IsValidEmail(r.InstitutionEmail) {
		return apperrors.NewValidationError("institution_email is required for the Emailed collection method")
	}
	switch r.RequestType {
	case models.RequestTypeTranscript:
		if validation.IsBlank(r.EnrollmentStatus) {
			return apperrors.NewValidationError("enrollment_status is required for transcript requests")
		}
	case models.RequestTypeRecommendation:
		if validation.IsBlank(r.Program) {
			return apperrors.NewValidationError("program is required for recommendation requests")
		}
		if validation.IsBlank(r.Reason) {
			return apperrors.NewValidationError("reason is required for recommendation requests")
		}
	}
	return nil
}

// GetByID loads a request with its timeline and documents, subject to the
// view rules: owner, assigned staff, or admin.
func (s *requestServiceImpl) GetByID(ctx context.Context, actor models.Actor, id int64) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateViewRequest(actor, request); err != nil {
		return nil, err
	}
	return dto.MapRequestToResponse(request, time.Now()), nil
}

// List returns the actor's scoped request list: students see their own,
// staff see those assigned to them. Admins use ListAll.
func (s *requestServiceImpl) List(ctx context.Context, actor models.Actor, filter dto.RequestFilter) (*dto.PagedResponse, error) {
	var (
		requests []*models.Request
		total    int64
		err      error
	)
	switch {
	case actor.IsStaff():
		requests, total, err = s.requestRepo.ListByAssignee(ctx, actor.ID, filter)
	case actor.IsAdmin():
		requests, total, err = s.requestRepo.ListAll(ctx, filter)
	default:
		requests, total, err = s.requestRepo.ListByStudent(ctx, actor.ID, filter)
	}
	if err != nil {
		return nil, err
	}
	return s.pagedResponse(requests, total, filter), nil
}

// ListAll returns every request regardless of ownership. Admin only.
func (s *requestServiceImpl) ListAll(ctx context.Context, actor models.Actor, filter dto.RequestFilter) (*dto.PagedResponse, error) {
	if err := s.authzService.ValidateAdmin(actor); err != nil {
		return nil, err
	}
	requests, total, err := s.requestRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.pagedResponse(requests, total, filter), nil
}

func (s *requestServiceImpl) pagedResponse(requests []*models.Request, total int64, filter dto.RequestFilter) *dto.PagedResponse {
	now := time.Now()
	items := make([]*dto.RequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, dto.MapRequestToResponse(r, now))
	}
	return &dto.PagedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}
}

// EditByStudent applies a content edit to the caller's own request while
// it is still Pending. The status never changes here, and a timeline
// entry is appended only when content-edit auditing is enabled.
func (s *requestServiceImpl) EditByStudent(ctx context.Context, actor models.Actor, id int64, req *dto.EditRequestRequest) (*dto.RequestResponse, error) {
	if !actor.IsStudent() {
		return nil, apperrors.NewForbiddenError("only students edit request content")
	}

	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateOwner(actor, request); err != nil {
		return nil, err
	}
	if request.Status != models.StatusPending {
		return nil, apperrors.NewValidationError("only Pending requests can be edited")
	}

	expectedVersion := request.Version
	if req.Version != nil {
		expectedVersion = *req.Version
	}

	applyStringField := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	applyStringField(&request.FirstName, req.FirstName)
	applyStringField(&request.LastName, req.LastName)
	applyStringField(&request.Email, req.Email)
	applyStringField(&request.Phone, req.Phone)
	applyStringField(&request.EnrollmentStatus, req.EnrollmentStatus)
	applyStringField(&request.InstitutionName, req.InstitutionName)
	applyStringField(&request.InstitutionEmail, req.InstitutionEmail)
	applyStringField(&request.Program, req.Program)
	applyStringField(&request.Reason, req.Reason)
	applyStringField(&request.DeliveryAddress, req.DeliveryAddress)

	if req.CollectionMethod != nil {
		method, ok := models.ParseCollectionMethod(*req.CollectionMethod)
		if !ok {
			return nil, apperrors.NewValidationError("collection_method must be Pickup, Delivery or Emailed")
		}
		request.CollectionMethod = method
	}
	if req.NeededByDate != nil {
		neededBy, err := helpers.ParseDate(*req.NeededByDate)
		if err != nil {
			return nil, apperrors.NewValidationError("needed_by_date must be a valid YYYY-MM-DD date")
		}
		request.NeededByDate = neededBy
	}
	if req.Email != nil && !validation.IsValidEmail(request.Email) {
		return nil, apperrors.NewValidationError("email is not a valid address")
	}
	if err := validateRequestContent(request); err != nil {
		return nil, err
	}

	var entry *models.TimelineEntry
	if s.logContentEdits {
		entry = &models.TimelineEntry{
			Status:    request.Status,
			Note:      "Request details updated",
			ActorID:   actor.ID,
			ActorName: actor.Name,
		}
	}

	if err := s.requestRepo.UpdateContent(ctx, request, expectedVersion, entry); err != nil {
		return nil, err
	}

	updated, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.MapRequestToResponse(updated, time.Now()), nil
}
