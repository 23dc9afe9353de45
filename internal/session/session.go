// Package session builds the per-admin tenant context at sign-in and tears
// it down at sign-out. The signed token is the carrier; Redis holds the
// revocation list, the tenant cache and the scanner tally.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoSession     = errors.New("no session in context")
	ErrMissingSecret = errors.New("session signing secret is empty")
)

// TenantSession is the explicit tenant context handed to everything that needs the signed-in admin
type TenantSession struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TenantID  *string   `json:"tenant_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasTenant reports whether the admin is attached to a tenant
func (s *TenantSession) HasTenant() bool {
	return s.TenantID != nil && *s.TenantID != ""
}

// Tenant returns the tenant id or ""
func (s *TenantSession) Tenant() string {
	if s.TenantID == nil {
		return ""
	}
	return *s.TenantID
}

// Config holds token settings
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Manager starts and ends admin sessions
type Manager struct {
	cfg   Config
	store Store
	now   func() time.Time
}

// NewManager creates a session manager
func NewManager(cfg Config, store Store) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Manager{cfg: cfg, store: store, now: time.Now}, nil
}

// Start builds the session for an authenticated admin and signs its token
func (m *Manager) Start(ctx context.Context, admin *domain.Admin) (*TenantSession, string, error) {
	now := m.now().UTC().Truncate(time.Second)
	sess := &TenantSession{
		SessionID: uuid.New().String(),
		UserID:    admin.ID,
		Email:     admin.Email,
		Role:      admin.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.cfg.TTL),
	}
	if admin.HasTenant() {
		tenantID := *admin.TenantID
		sess.TenantID = &tenantID
	}

	claims := jwt.MapClaims{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"role":       sess.Role,
		"tenant_id":  sess.Tenant(),
		"session_id": sess.SessionID,
		"iat":        jwt.NewNumericDate(sess.IssuedAt),
		"exp":        jwt.NewNumericDate(sess.ExpiresAt),
	}
	if m.cfg.Issuer != "" {
		claims["iss"] = m.cfg.Issuer
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if sess.HasTenant() {
		if err := m.store.CacheTenant(ctx, sess.UserID, sess.Tenant(), m.cfg.TTL); err != nil {
			logger.WarnCtx(ctx, "failed to cache tenant id",
				zap.String("user_id", sess.UserID),
				zap.Error(err),
			)
		}
	}

	return sess, token, nil
}

// End revokes the session for the rest of its token life and drops its cached state
func (m *Manager) End(ctx context.Context, sess *TenantSession) error {
	ttl := sess.ExpiresAt.Sub(m.now())
	if err := m.store.Revoke(ctx, sess.SessionID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if err := m.store.DeleteTenant(ctx, sess.UserID); err != nil {
		return fmt.Errorf("failed to clear tenant cache: %w", err)
	}
	if err := m.store.ClearScanner(ctx, sess.SessionID); err != nil {
		return fmt.Errorf("failed to clear scanner session: %w", err)
	}
	return nil
}

// IsRevoked satisfies middleware.RevocationChecker
func (m *Manager) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	return m.store.IsRevoked(ctx, sessionID)
}

// TTL returns the token lifetime
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// FromContext rebuilds the session the JWT middleware placed on the gin context
func FromContext(c *gin.Context) (*TenantSession, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		return nil, ErrNoSession
	}

	sess := &TenantSession{UserID: userID}
	sess.SessionID, _ = middleware.GetSessionID(c)
	sess.Email, _ = middleware.GetEmail(c)
	sess.Role, _ = middleware.GetRole(c)
	if tenantID, ok := middleware.GetTenantID(c); ok && tenantID != "" {
		sess.TenantID = &tenantID
	}
	if v, ok := c.Get(middleware.ContextKeyIssuedAt); ok {
		sess.IssuedAt, _ = v.(time.Time)
	}
	if v, ok := c.Get(middleware.ContextKeyExpiresAt); ok {
		sess.ExpiresAt, _ = v.(time.Time)
	}
	return sess, nil
}
