package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
)

// FieldHandler handles registration field definitions
type FieldHandler struct {
	fieldService service.FieldService
}

// NewFieldHandler creates a new FieldHandler
func NewFieldHandler(fieldService service.FieldService) *FieldHandler {
	return &FieldHandler{fieldService: fieldService}
}

// List handles GET /api/v1/fields
func (h *FieldHandler) List(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	fields, err := h.fieldService.ListFields(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(fields))
}

// Create handles POST /api/v1/fields
func (h *FieldHandler) Create(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	field, err := h.fieldService.CreateField(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.SetAuditResourceID(c, field.ID)
	c.JSON(http.StatusCreated, response.Success(field))
}

// Update handles PUT /api/v1/fields/:id
func (h *FieldHandler) Update(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	field, err := h.fieldService.UpdateField(c.Request.Context(), tenantID, resourceID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(field))
}

// SetEnabled handles PATCH /api/v1/fields/:id/enabled
func (h *FieldHandler) SetEnabled(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.SetFieldEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	field, err := h.fieldService.SetEnabled(c.Request.Context(), tenantID, resourceID(c), *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(field))
}

// Delete handles DELETE /api/v1/fields/:id
func (h *FieldHandler) Delete(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	if err := h.fieldService.DeleteField(c.Request.Context(), tenantID, resourceID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Field deleted"}))
}

// PublicForm handles GET /api/v1/public/tenants/:tenantId/form
func (h *FieldHandler) PublicForm(c *gin.Context) {
	form, err := h.fieldService.PublicForm(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(form))
}
