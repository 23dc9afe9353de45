package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the admin overview, the activity feed and settings
type DashboardHandler struct {
	dashboardService service.DashboardService
	settingsService  service.SettingsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.DashboardService, settingsService service.SettingsService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		settingsService:  settingsService,
	}
}

// Dashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	result, err := h.dashboardService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Activities handles GET /api/v1/activities
func (h *DashboardHandler) Activities(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var query dto.ListActivitiesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	activities, err := h.dashboardService.Activities(c.Request.Context(), tenantID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(activities))
}

// GetSettings handles GET /api/v1/settings
func (h *DashboardHandler) GetSettings(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(settings))
}

// UpdateSettings handles PUT /api/v1/settings
func (h *DashboardHandler) UpdateSettings(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	if before, err := h.settingsService.GetSettings(c.Request.Context(), tenantID); err == nil {
		middleware.SetAuditOldValues(c, auditValues(before))
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.SetAuditNewValues(c, auditValues(settings))
	c.JSON(http.StatusOK, response.Success(settings))
}
