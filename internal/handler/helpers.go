package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var notFoundErrors = []error{
	service.ErrTenantNotFound,
	service.ErrGuestNotFound,
	service.ErrFieldNotFound,
	service.ErrRoomNotFound,
	service.ErrEventNotFound,
	service.ErrCampaignNotFound,
	service.ErrTicketNotFound,
}

// tenantFrom returns the tenant of the signed-in admin
func tenantFrom(c *gin.Context) (*session.TenantSession, string, bool) {
	sess, err := session.FromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return nil, "", false
	}
	if !sess.HasTenant() {
		c.JSON(http.StatusForbidden, response.Error(response.ErrCodeNoTenant, "No tenant is associated with this account"))
		return nil, "", false
	}
	return sess, sess.Tenant(), true
}

// respondError maps a service error to its HTTP response
func respondError(c *gin.Context, err error) {
	telemetry.SetSpanError(c.Request.Context(), err)

	resp := errorResponse(err)
	status := resp.Status()

	var aErr *service.AuthError
	if errors.As(err, &aErr) && aErr.Code == service.AuthCodeTooManyRequests {
		status = http.StatusTooManyRequests
	}
	if status == http.StatusInternalServerError {
		logger.ErrorCtx(c.Request.Context(), "request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, resp)
}

func errorResponse(err error) *response.Response {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Fields) > 0 {
			return response.ErrorWithDetails(response.ErrCodeValidationFailed, vErr.Message, vErr.Fields)
		}
		return response.Error(response.ErrCodeValidationFailed, vErr.Message)
	}

	var aErr *service.AuthError
	if errors.As(err, &aErr) {
		return response.ErrorWithDetails(response.ErrCodeAuthFailed, aErr.Error(), map[string]string{"code": aErr.Code})
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return response.NotFound(capitalize(target.Error()))
		}
	}

	switch {
	case errors.Is(err, service.ErrDuplicateGuest):
		return response.Error(response.ErrCodeDuplicateGuest, service.ErrDuplicateGuest.Error())
	case errors.Is(err, service.ErrAdminEmailTaken):
		return response.Error(response.ErrCodeDuplicateEntry, "An admin with this email already exists")
	case errors.Is(err, service.ErrCampaignNotEditable):
		return response.Error(response.ErrCodeInvalidTransition, "Only draft and scheduled campaigns can be edited")
	case errors.Is(err, service.ErrPaymentFailed):
		return response.Error(response.ErrCodePaymentFailed, err.Error())
	case errors.Is(err, service.ErrUploadFailed):
		return response.Error(response.ErrCodeUploadFailed, err.Error())
	default:
		return response.InternalError(err.Error())
	}
}

// resourceID returns the :id route param and tags the audit entry with it
func resourceID(c *gin.Context) string {
	id := c.Param("id")
	if id != "" {
		middleware.SetAuditResourceID(c, id)
	}
	return id
}

// auditValues flattens v into the generic map the audit trail diffs
func auditValues(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
