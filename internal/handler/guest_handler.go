package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
)

// GuestHandler handles guest management HTTP requests
type GuestHandler struct {
	guestService service.GuestService
}

// NewGuestHandler creates a new GuestHandler
func NewGuestHandler(guestService service.GuestService) *GuestHandler {
	return &GuestHandler{guestService: guestService}
}

// guestID reads the path id and tags the request span with the guest and tenant
func guestID(c *gin.Context, tenantID string) string {
	id := resourceID(c)
	telemetry.SetSpanAttributes(c.Request.Context(), telemetry.TenantIDAttr(tenantID), telemetry.GuestIDAttr(id))
	return id
}

// List handles GET /api/v1/guests
func (h *GuestHandler) List(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var query dto.ListGuestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.guestService.ListGuests(c.Request.Context(), tenantID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Get handles GET /api/v1/guests/:id
func (h *GuestHandler) Get(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	guest, err := h.guestService.GetGuest(c.Request.Context(), tenantID, guestID(c, tenantID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewGuestResponse(guest)))
}

// Update handles PUT /api/v1/guests/:id
func (h *GuestHandler) Update(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	guest, err := h.guestService.UpdateGuest(c.Request.Context(), tenantID, guestID(c, tenantID), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewGuestResponse(guest)))
}

// Delete handles DELETE /api/v1/guests/:id
func (h *GuestHandler) Delete(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	id := guestID(c, tenantID)
	if err := h.guestService.DeleteGuest(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"id": id, "message": "Guest deleted"}))
}

// ToggleCheckIn handles POST /api/v1/guests/:id/toggle-check-in
func (h *GuestHandler) ToggleCheckIn(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	guest, err := h.guestService.ToggleCheckIn(c.Request.Context(), tenantID, guestID(c, tenantID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(dto.NewGuestResponse(guest)))
}

// Export handles POST /api/v1/guests/export
// An empty body exports every guest.
func (h *GuestHandler) Export(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.ExportGuestsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	file, err := h.guestService.ExportGuests(c.Request.Context(), tenantID, req.GuestIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuditResourceType(c, "guests")
	middleware.SetAuditMetadata(c, map[string]interface{}{
		"rows":     file.Rows,
		"selected": len(req.GuestIDs),
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
