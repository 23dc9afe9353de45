package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PaymentHandler handles ticket checkout and the gateway redirect
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Checkout handles POST /api/v1/public/tenants/:tenantId/events/:eventId/checkout
func (h *PaymentHandler) Checkout(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.checkout")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	tenantID := c.Param("tenantId")
	eventID := c.Param("eventId")
	span.SetAttributes(telemetry.TenantIDAttr(tenantID), telemetry.EventIDAttr(eventID))

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.paymentService.Checkout(ctx, tenantID, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	span.SetAttributes(attribute.String("payment.merchant_reference", result.MerchantReference))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusCreated, response.Success(result))
}

// Response handles the gateway redirect
// GET /api/v1/public/payments/response?OrderTrackingId=&OrderMerchantReference=
func (h *PaymentHandler) Response(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.response")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var query dto.PaymentResponseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.paymentService.HandleResponse(ctx, &query)
	if err != nil {
		respondError(c, err)
		return
	}

	span.SetAttributes(telemetry.PaymentStatusAttr(result.Status))
	c.JSON(http.StatusOK, response.Success(result))
}
