package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/services"
	"github.com/kerem/doctrack/internal/middleware"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/helpers"
)

// RequestController handles document request endpoints
type RequestController struct {
	requestService    services.RequestService
	transitionService services.TransitionService
	assignmentService services.AssignmentService
	documentService   services.DocumentService
}

// NewRequestController creates a new RequestController
func NewRequestController(
	requestService services.RequestService,
	transitionService services.TransitionService,
	assignmentService services.AssignmentService,
	documentService services.DocumentService,
) *RequestController {
	return &RequestController{
		requestService:    requestService,
		transitionService: transitionService,
		assignmentService: assignmentService,
		documentService:   documentService,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
			WithDetails("Path ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func requireActor(ctx *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return models.Actor{}, false
	}
	return actor, true
}

func parseRequestFilter(ctx *gin.Context) dto.RequestFilter {
	page, size := helpers.ParsePaginationParams(ctx)
	filter := dto.RequestFilter{Page: page, PageSize: size}
	if statusStr := ctx.Query("status"); statusStr != "" {
		if status, ok := models.ParseRequestStatus(statusStr); ok {
			filter.Status = &status
		}
	}
	if typeStr := ctx.Query("type"); typeStr != "" {
		if requestType, ok := models.ParseRequestType(typeStr); ok {
			filter.RequestType = &requestType
		}
	}
	return filter
}

// Create handles new request submission
// @Summary Submit a document request
// @Description Creates a transcript or recommendation request at status Pending with its first timeline entry. Students only.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Request fields"
// @Success 201 {object} dto.APIResponse{data=dto.RequestResponse} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Router /requests [post]
func (c *RequestController) Create(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	response, err := c.requestService.Create(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// List handles the role-scoped request listing
// @Summary List requests
// @Description Students see their own requests, staff the ones assigned to them. Supports status and type filters.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by request type"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /requests [get]
func (c *RequestController) List(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	response, err := c.requestService.List(ctx.Request.Context(), actor, parseRequestFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ListAll handles the admin-wide request listing
// @Summary List all requests
// @Description Lists every request regardless of ownership. Admin only.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /requests/all [get]
func (c *RequestController) ListAll(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	response, err := c.requestService.ListAll(ctx.Request.Context(), actor, parseRequestFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetByID handles single request lookup
// @Summary Get a request
// @Description Returns the request with its timeline and documents. Owner, assigned staff, or admin.
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 403 {object} dto.ErrorResponse "No access to this request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id} [get]
func (c *RequestController) GetByID(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.requestService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Update handles the staff/admin PATCH surface. The body selects the
// operation: assigned_staff_id routes to assignment, rejection_reason to
// rejection, status+note to a transition.
// @Summary Update a request
// @Description Assigns staff, rejects, or advances the status depending on which body fields are present. Staff and admin only.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.UpdateRequestRequest true "One of: assigned_staff_id, rejection_reason, status+note"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not permitted for this actor"
// @Failure 409 {object} dto.ErrorResponse "Concurrent modification"
// @Failure 422 {object} dto.ErrorResponse "Illegal status transition"
// @Router /requests/{id} [patch]
func (c *RequestController) Update(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	var (
		response *dto.RequestResponse
		err      error
	)
	switch {
	case req.AssignedStaffID != nil:
		response, err = c.assignmentService.Assign(ctx.Request.Context(), actor, id, *req.AssignedStaffID, req.Version)
	case req.RejectionReason != nil:
		response, err = c.transitionService.Reject(ctx.Request.Context(), actor, id, *req.RejectionReason, req.Version)
	case req.Status != nil:
		status, parsed := models.ParseRequestStatus(*req.Status)
		if !parsed {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("unknown status value"))
			return
		}
		note := ""
		if req.Note != nil {
			note = *req.Note
		}
		response, err = c.transitionService.Transition(ctx.Request.Context(), actor, id, status, note, req.Version)
	default:
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("body must contain assigned_staff_id, rejection_reason, or status"))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// Edit handles a student content edit on a Pending request
// @Summary Edit a pending request
// @Description Rewrites requester-entered fields while the request is Pending. Owner only; the status never changes.
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.EditRequestRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Not Pending or invalid content"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Router /requests/{id}/edit [put]
func (c *RequestController) Edit(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.EditRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	response, err := c.requestService.EditByStudent(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// RegisterDocument handles attaching document metadata to a request
// @Summary Register a document
// @Description Records uploaded document metadata against a request and notifies the counterpart role.
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param document body dto.RegisterDocumentRequest true "Document metadata"
// @Success 201 {object} dto.APIResponse{data=dto.DocumentResponse}
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id}/documents [post]
func (c *RequestController) RegisterDocument(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RegisterDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	response, err := c.documentService.Register(ctx.Request.Context(), actor, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetDocument handles document metadata lookup
// @Summary Get a document
// @Description Returns document metadata, subject to the owning request's view rules.
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Document ID"
// @Success 200 {object} dto.APIResponse{data=dto.DocumentResponse}
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /documents/{id} [get]
func (c *RequestController) GetDocument(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	response, err := c.documentService.GetByID(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
