package handler

import (
	"net/http"

	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
)

// AuthHandler handles admin sign-in, sign-out and onboarding
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles admin sign-in
// POST /api/v1/public/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.auth.login")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, response.Success(result))
}

// Logout ends the caller's session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, err := session.FromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"message": "Signed out"}))
}

// Me returns the caller's session
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sess, err := session.FromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}
	c.JSON(http.StatusOK, response.Success(service.ToSessionResponse(sess)))
}

// Onboard creates an organizer account
// POST /api/v1/public/onboarding
func (h *AuthHandler) Onboard(c *gin.Context) {
	var req dto.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.authService.Onboard(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Packages lists the onboarding packages
// GET /api/v1/public/packages
func (h *AuthHandler) Packages(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.authService.Packages()))
}
