package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkiliNova/in-vent/internal/di"
	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/handler"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/pkg/config"
	"github.com/AkiliNova/in-vent/pkg/middleware"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryRooms struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func (r *memoryRooms) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ID] = room
	return nil
}

func (r *memoryRooms) GetByID(ctx context.Context, tenantID, id string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok || room.TenantID != tenantID {
		return nil, service.ErrRoomNotFound
	}
	return room, nil
}

func (r *memoryRooms) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Room
	for _, room := range r.rooms {
		if room.TenantID == tenantID {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *memoryRooms) Update(ctx context.Context, room *domain.Room) error {
	return r.Create(ctx, room)
}

func (r *memoryRooms) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, id)
	return nil
}

type routerFixture struct {
	engine   *gin.Engine
	sessions *session.Manager
	audit    *middleware.AuditLogger
}

func newFixture(t *testing.T, rateLimit config.RateLimitConfig) *routerFixture {
	t.Helper()

	store := session.NewMemoryStore()
	manager, err := session.NewManager(session.Config{Secret: testSecret, TTL: time.Hour}, store)
	require.NoError(t, err)

	auditCfg := middleware.DefaultAuditConfig(nil)
	auditCfg.FlushInterval = 10 * time.Millisecond
	audit := middleware.NewAuditLogger(auditCfg)
	audit.SetTestMode(true)
	t.Cleanup(func() { _ = audit.Close() })

	authService := service.NewAuthService(nil, nil, manager, store)
	roomService := service.NewRoomService(&memoryRooms{rooms: map[string]*domain.Room{}})

	c := &di.Container{
		Sessions:      manager,
		SessionStore:  store,
		HealthHandler: handler.NewHealthHandler("test", nil),
		AuthHandler:   handler.NewAuthHandler(authService),
		RoomHandler:   handler.NewRoomHandler(roomService),
	}

	engine := New(c, Options{
		ServiceName: "in-vent-test",
		JWTSecret:   testSecret,
		RateLimit:   rateLimit,
		AuditLogger: audit,
	})
	return &routerFixture{engine: engine, sessions: manager, audit: audit}
}

func (f *routerFixture) token(t *testing.T, tenantID *string) (*session.TenantSession, string) {
	t.Helper()
	return f.tokenWithRole(t, tenantID, domain.RoleAdmin)
}

func (f *routerFixture) tokenWithRole(t *testing.T, tenantID *string, role string) (*session.TenantSession, string) {
	t.Helper()
	sess, token, err := f.sessions.Start(context.Background(), &domain.Admin{
		ID:       "admin-1",
		Email:    "admin@example.com",
		Role:     role,
		TenantID: tenantID,
	})
	require.NoError(t, err)
	return sess, token
}

func (f *routerFixture) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})

	w := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_PublicRoutesNeedNoToken(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})

	w := f.do(http.MethodGet, "/api/v1/public/packages", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})

	w := f.do(http.MethodGet, "/api/v1/rooms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestRouter_TenantRoutesRequireAdminRole(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})
	tenantID := "tenant-1"
	_, token := f.tokenWithRole(t, &tenantID, "viewer")

	w := f.do(http.MethodGet, "/api/v1/rooms", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = f.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, token = f.token(t, &tenantID)
	w = f.do(http.MethodGet, "/api/v1/rooms", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_TenantGuard(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})
	_, token := f.token(t, nil)

	w := f.do(http.MethodGet, "/api/v1/rooms", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "NO_TENANT")

	// the session itself is still readable without a tenant
	w = f.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RevokedSession(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})
	tenantID := "tenant-1"
	sess, token := f.token(t, &tenantID)

	w := f.do(http.MethodGet, "/api/v1/rooms", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.sessions.End(context.Background(), sess))

	w = f.do(http.MethodGet, "/api/v1/rooms", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_ENDED")
}

func TestRouter_AuditsMutations(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})
	tenantID := "tenant-1"
	_, token := f.token(t, &tenantID)

	w := f.do(http.MethodPost, "/api/v1/rooms", token, []byte(`{"name":"Hall A","current":0,"max":50}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data domain.Room `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	// reads are not audited
	f.do(http.MethodGet, "/api/v1/rooms", token, nil)

	w = f.do(http.MethodDelete, "/api/v1/rooms/"+created.Data.ID, token, nil)
	require.Less(t, w.Code, 300)

	require.Eventually(t, func() bool {
		return len(f.audit.GetTestEntries()) == 2
	}, time.Second, 10*time.Millisecond)

	entries := f.audit.GetTestEntries()
	for _, entry := range entries {
		assert.Equal(t, "room", entry.ResourceType)
		require.NotNil(t, entry.TenantID)
		assert.Equal(t, tenantID, *entry.TenantID)
		require.NotNil(t, entry.ResourceID)
		assert.Equal(t, created.Data.ID, *entry.ResourceID)
	}
	assert.Equal(t, middleware.AuditActionCreate, entries[0].Action)
	assert.Equal(t, middleware.AuditActionDelete, entries[1].Action)
}

func TestRouter_RateLimitsPublicRoutes(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1, BurstSize: 1})

	w := f.do(http.MethodGet, "/api/v1/public/packages", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/public/packages", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// only the public group is limited
	w = f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Routes(t *testing.T) {
	f := newFixture(t, config.RateLimitConfig{})

	registered := map[string]bool{}
	for _, r := range f.engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/public/auth/login",
		"POST /api/v1/public/onboarding",
		"GET /api/v1/public/tenants/:tenantId/form",
		"POST /api/v1/public/tenants/:tenantId/registrations",
		"GET /api/v1/public/tenants/:tenantId/tickets/:guestId/qr.png",
		"POST /api/v1/public/tenants/:tenantId/events/:eventId/checkout",
		"GET /api/v1/public/payments/response",
		"POST /api/v1/auth/logout",
		"POST /api/v1/guests/export",
		"POST /api/v1/guests/:id/toggle-check-in",
		"POST /api/v1/scanner/scan",
		"GET /api/v1/scanner/log",
		"GET /api/v1/campaigns/audiences",
		"POST /api/v1/campaigns/:id/send",
		"PATCH /api/v1/fields/:id/enabled",
		"POST /api/v1/events/:id/images",
		"GET /api/v1/dashboard",
		"PUT /api/v1/settings",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}
