package handler

import (
	"net/http"
	"strconv"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
)

// ScannerHandler handles the check-in scanner
type ScannerHandler struct {
	scannerService service.ScannerService
}

// NewScannerHandler creates a new ScannerHandler
func NewScannerHandler(scannerService service.ScannerService) *ScannerHandler {
	return &ScannerHandler{scannerService: scannerService}
}

// Scan handles POST /api/v1/scanner/scan
// Every outcome answers 200; flagged results carry the reason.
func (h *ScannerHandler) Scan(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.scanner.scan")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	sess, tenantID, ok := tenantFrom(c)
	if !ok {
		span.SetStatus(codes.Error, "no tenant")
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result := h.scannerService.Scan(ctx, sess, req.Ticket)
	span.SetAttributes(
		telemetry.TenantIDAttr(tenantID),
		telemetry.GuestIDAttr(result.GuestID),
		telemetry.ScanOutcomeAttr(string(result.Outcome)),
	)
	switch result.Outcome {
	case domain.ScanOutcomeSuccess:
		telemetry.AddSpanEvent(ctx, "guest.checked_in", telemetry.GuestStatusAttr(string(domain.GuestStatusCheckedIn)))
		span.SetStatus(codes.Ok, "")
	case domain.ScanOutcomeFlagged:
		middleware.SkipAudit(c)
		span.SetStatus(codes.Error, result.Reason)
	default:
		middleware.SkipAudit(c)
		span.SetStatus(codes.Ok, "")
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Session handles GET /api/v1/scanner/session
func (h *ScannerHandler) Session(c *gin.Context) {
	sess, _, ok := tenantFrom(c)
	if !ok {
		return
	}

	scanner, err := h.scannerService.Session(c.Request.Context(), sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(scanner))
}

// Log handles GET /api/v1/scanner/log?limit=
func (h *ScannerHandler) Log(c *gin.Context) {
	_, tenantID, ok := tenantFrom(c)
	if !ok {
		return
	}

	limit := service.DefaultScanLogLimit
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	entries, err := h.scannerService.Log(c.Request.Context(), tenantID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(entries))
}
