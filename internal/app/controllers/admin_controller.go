package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/services"
	"github.com/kerem/doctrack/internal/middleware"
	"github.com/kerem/doctrack/internal/pkg/apperrors"
	"github.com/kerem/doctrack/internal/pkg/helpers"
)

// AdminController handles admin-only user and data management endpoints
type AdminController struct {
	adminService      services.AdminService
	assignmentService services.AssignmentService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, assignmentService services.AssignmentService) *AdminController {
	return &AdminController{
		adminService:      adminService,
		assignmentService: assignmentService,
	}
}

// DataSummary handles the pre-delete count report
// @Summary Get data summary
// @Description Reports row counts a data clear would affect. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DataSummaryResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/data/summary [get]
func (c *AdminController) DataSummary(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	response, err := c.adminService.DataSummary(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ClearData handles the destructive data clear
// @Summary Clear all data
// @Description Deletes all requests, notifications and non-admin users. Requires the exact confirmation phrase. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClearDataRequest true "Confirmation phrase"
// @Success 200 {object} dto.APIResponse{data=dto.ClearDataResponse}
// @Failure 400 {object} dto.ErrorResponse "Confirmation phrase mismatch"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/data/clear [post]
func (c *AdminController) ClearData(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.ClearDataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	response, err := c.adminService.ClearAllData(ctx.Request.Context(), actor, req.Confirmation)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ListUsers handles listing all user accounts
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	response, err := c.adminService.ListUsers(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreateUser handles provisioning staff and admin accounts
// @Summary Create a user
// @Description Provisions an account with an explicit role. Admin only.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Account fields"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	response, err := c.adminService.CreateUser(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// DeleteUser handles account deletion
// @Summary Delete a user
// @Description Deletes an account. Self-deletion and deleting the last admin are refused.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Protected account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

// ListStaff handles the assignable staff list
// @Summary List assignable staff
// @Description Lists active staff accounts for the assignment picker. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Router /admin/staff [get]
func (c *AdminController) ListStaff(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	response, err := c.assignmentService.ListAssignableStaff(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
