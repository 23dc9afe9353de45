package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/uploader"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
)

// ImagesFormField is the multipart field carrying event images
const ImagesFormField = "images[]"

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventService service.EventService
	maxFileSize  int64
}

// NewEventHandler creates a new EventHandler. maxFileSize <= 0 disables the per-file limit.
func NewEventHandler(eventService service.EventService, maxFileSize int64) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		maxFileSize:  maxFileSize,
	}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var query dto.ListEventsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.eventService.ListEvents(c.Request.Context(), tenantID, &query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

// Get handles GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(event))
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.SetAuditResourceID(c, event.ID)
	c.JSON(http.StatusCreated, response.Success(event))
}

// Update handles PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}
	if valid, msg := req.Validate(); !valid {
		c.JSON(http.StatusBadRequest, response.BadRequest(msg))
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), tenantID, resourceID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(event))
}

// Delete handles DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), tenantID, resourceID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Event deleted"}))
}

// UploadImages handles POST /api/v1/events/:id/images
func (h *EventHandler) UploadImages(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Invalid multipart form"))
		return
	}
	headers := form.File[ImagesFormField]
	if len(headers) == 0 {
		headers = form.File["images"]
	}

	files := make([]uploader.File, 0, len(headers))
	for _, fh := range headers {
		if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
			closeAll(files)
			c.JSON(http.StatusBadRequest, response.BadRequest(fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, h.maxFileSize)))
			return
		}
		f, err := fh.Open()
		if err != nil {
			closeAll(files)
			c.JSON(http.StatusBadRequest, response.BadRequest("Could not read "+fh.Filename))
			return
		}
		files = append(files, uploader.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	defer closeAll(files)

	result, err := h.eventService.UploadImages(c.Request.Context(), tenantID, resourceID(c), files)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuditMetadata(c, map[string]interface{}{"uploaded": len(result.Uploaded)})
	c.JSON(http.StatusOK, response.Success(result))
}

// PublicEvent handles GET /api/v1/public/tenants/:tenantId/events/:eventId
func (h *EventHandler) PublicEvent(c *gin.Context) {
	result, err := h.eventService.PublicEvent(c.Request.Context(), c.Param("tenantId"), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(result))
}

func closeAll(files []uploader.File) {
	for _, f := range files {
		if closer, ok := f.Body.(multipart.File); ok {
			_ = closer.Close()
		}
	}
}
