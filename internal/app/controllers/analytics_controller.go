package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerem/doctrack/internal/app/models/dto"
	"github.com/kerem/doctrack/internal/app/services"
	"github.com/kerem/doctrack/internal/middleware"
)

// AnalyticsController serves the dashboard aggregate
type AnalyticsController struct {
	analyticsService services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Get handles the analytics snapshot
// @Summary Get analytics
// @Description Recomputes status counts, overdue totals, groupings, staff workloads and monthly volume over all requests. Staff and admin only.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsResponse}
// @Failure 403 {object} dto.ErrorResponse "Students have no analytics access"
// @Router /analytics [get]
func (c *AnalyticsController) Get(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}

	response, err := c.analyticsService.Snapshot(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
