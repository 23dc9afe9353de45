package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
)

// RegistrationHandler handles the public registration form
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// ValidateStep handles POST /api/v1/public/tenants/:tenantId/registrations/validate
func (h *RegistrationHandler) ValidateStep(c *gin.Context) {
	var req dto.ValidateStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.registrationService.ValidateStep(c.Request.Context(), c.Param("tenantId"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Register handles POST /api/v1/public/tenants/:tenantId/registrations
func (h *RegistrationHandler) Register(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.registration.register")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	tenantID := c.Param("tenantId")
	span.SetAttributes(telemetry.TenantIDAttr(tenantID))

	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.registrationService.Register(ctx, tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	span.SetAttributes(telemetry.GuestIDAttr(result.GuestID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, response.Success(result))
}

// TicketQR handles GET /api/v1/public/tenants/:tenantId/tickets/:guestId/qr.png
func (h *RegistrationHandler) TicketQR(c *gin.Context) {
	png, err := h.registrationService.TicketQR(c.Request.Context(), c.Param("tenantId"), c.Param("guestId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
