package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/internal/uploader"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testTenant = "tenant-1"

// withSession stands in for the JWT middleware
func withSession(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, "user-1")
		c.Set(middleware.ContextKeyEmail, "admin@example.com")
		c.Set(middleware.ContextKeyRole, "admin")
		c.Set(middleware.ContextKeySessionID, "session-1")
		c.Set(middleware.ContextKeyTenantID, tenantID)
		c.Next()
	}
}

func newRouter(tenantID string) *gin.Engine {
	r := gin.New()
	r.Use(withSession(tenantID))
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf io.Reader = http.NoBody
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &service.ValidationError{Message: "Room name is required"}, http.StatusBadRequest, response.ErrCodeValidationFailed},
		{"auth", &service.AuthError{Code: service.AuthCodeInvalidCredential}, http.StatusUnauthorized, response.ErrCodeAuthFailed},
		{"throttled", &service.AuthError{Code: service.AuthCodeTooManyRequests}, http.StatusTooManyRequests, response.ErrCodeAuthFailed},
		{"guest not found", service.ErrGuestNotFound, http.StatusNotFound, response.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrEventNotFound), http.StatusNotFound, response.ErrCodeNotFound},
		{"duplicate guest", service.ErrDuplicateGuest, http.StatusConflict, response.ErrCodeDuplicateGuest},
		{"admin taken", service.ErrAdminEmailTaken, http.StatusConflict, response.ErrCodeDuplicateEntry},
		{"not editable", service.ErrCampaignNotEditable, http.StatusConflict, response.ErrCodeInvalidTransition},
		{"payment", fmt.Errorf("%w: gateway down", service.ErrPaymentFailed), http.StatusBadGateway, response.ErrCodePaymentFailed},
		{"upload", fmt.Errorf("%w: bucket", service.ErrUploadFailed), http.StatusBadGateway, response.ErrCodeUploadFailed},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, response.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })
			w := doJSON(r, http.MethodGet, "/", nil)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestRespondError_FieldDetails(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		respondError(c, &service.ValidationError{
			Message: "Please complete the required fields",
			Fields:  map[string]string{"email": "Email is required"},
		})
	})

	resp := decode(t, doJSON(r, http.MethodGet, "/", nil))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Email is required", resp.Error.Details["email"])
}

func TestTenantFrom(t *testing.T) {
	r := newRouter("")
	r.GET("/", func(c *gin.Context) {
		if _, _, ok := tenantFrom(c); ok {
			c.Status(http.StatusOK)
		}
	})
	w := doJSON(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrCodeNoTenant, decode(t, w).Error.Code)

	bare := gin.New()
	bare.GET("/", func(c *gin.Context) { tenantFrom(c) })
	assert.Equal(t, http.StatusUnauthorized, doJSON(bare, http.MethodGet, "/", nil).Code)
}

type stubScanner struct {
	service.ScannerService
	raw    string
	result *domain.ScanResult
}

func (s *stubScanner) Scan(ctx context.Context, sess *session.TenantSession, raw string) *domain.ScanResult {
	s.raw = raw
	return s.result
}

func TestScannerHandler_Scan(t *testing.T) {
	stub := &stubScanner{result: &domain.ScanResult{
		GuestID: "g1",
		Outcome: domain.ScanOutcomeFlagged,
		Reason:  domain.ReasonTicketNotFound,
	}}
	h := NewScannerHandler(stub)
	r := newRouter(testTenant)
	r.POST("/scanner/scan", h.Scan)

	w := doJSON(r, http.MethodPost, "/scanner/scan", dto.ScanRequest{Ticket: "ticket:g1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ticket:g1", stub.raw)
	assert.Contains(t, w.Body.String(), `"outcome":"flagged"`)
	assert.Contains(t, w.Body.String(), domain.ReasonTicketNotFound)

	w = doJSON(r, http.MethodPost, "/scanner/scan", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScannerHandler_OnlyCheckInsAreAudited(t *testing.T) {
	cfg := middleware.DefaultAuditConfig(nil)
	cfg.FlushInterval = 10 * time.Millisecond
	audit := middleware.NewAuditLogger(cfg)
	audit.SetTestMode(true)
	t.Cleanup(func() { _ = audit.Close() })

	stub := &stubScanner{}
	h := NewScannerHandler(stub)
	r := newRouter(testTenant)
	r.Use(middleware.AuditMiddleware(audit))
	r.POST("/api/v1/scanner/scan", h.Scan)

	for _, outcome := range []domain.ScanOutcome{domain.ScanOutcomeFlagged, domain.ScanOutcomeDuplicate, domain.ScanOutcomeSuccess} {
		stub.result = &domain.ScanResult{GuestID: "g1", Outcome: outcome}
		w := doJSON(r, http.MethodPost, "/api/v1/scanner/scan", dto.ScanRequest{Ticket: "g1"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Eventually(t, func() bool { return len(audit.GetTestEntries()) >= 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	entries := audit.GetTestEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, middleware.AuditActionCheckIn, entries[0].Action)
}

type stubGuests struct {
	service.GuestService
	exportedIDs []string
}

func (s *stubGuests) ExportGuests(ctx context.Context, tenantID string, ids []string) (*service.ExportFile, error) {
	s.exportedIDs = ids
	return &service.ExportFile{
		Filename:    "guests-2026-10-19.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Rows:        2,
		Content:     []byte("xlsx"),
	}, nil
}

func (s *stubGuests) GetGuest(ctx context.Context, tenantID, id string) (*domain.Guest, error) {
	return nil, service.ErrGuestNotFound
}

func TestGuestHandler_Export(t *testing.T) {
	stub := &stubGuests{}
	h := NewGuestHandler(stub)
	r := newRouter(testTenant)
	r.POST("/guests/export", h.Export)

	w := doJSON(r, http.MethodPost, "/guests/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.exportedIDs)
	assert.Equal(t, `attachment; filename="guests-2026-10-19.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx", w.Body.String())

	w = doJSON(r, http.MethodPost, "/guests/export", dto.ExportGuestsRequest{GuestIDs: []string{"g1", "g2"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"g1", "g2"}, stub.exportedIDs)
}

func TestGuestHandler_GetNotFound(t *testing.T) {
	h := NewGuestHandler(&stubGuests{})
	r := newRouter(testTenant)
	r.GET("/guests/:id", h.Get)

	w := doJSON(r, http.MethodGet, "/guests/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Guest not found", decode(t, w).Error.Message)
}

func TestGuestHandler_TagsRequestSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := NewGuestHandler(&stubGuests{})
	r := newRouter(testTenant)
	r.Use(func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.GET("/guests/:id", h.Get)

	w := doJSON(r, http.MethodGet, "/guests/g-42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("guest.id", "g-42"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("tenant.id", testTenant))
}

type stubAuth struct {
	service.AuthService
	err error
}

func (s *stubAuth) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AuthResponse{Token: "token", Session: &dto.SessionResponse{SessionID: "s1", Email: req.Email}}, nil
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuth{}
	h := NewAuthHandler(stub)
	r := gin.New()
	r.POST("/login", h.Login)

	creds := dto.LoginRequest{Email: "admin@example.com", Password: "secret1"}
	w := doJSON(r, http.MethodPost, "/login", creds)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"token"`)

	stub.err = &service.AuthError{Code: service.AuthCodeInvalidCredential}
	w = doJSON(r, http.MethodPost, "/login", creds)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
	assert.Equal(t, service.AuthCodeInvalidCredential, resp.Error.Details["code"])

	w = doJSON(r, http.MethodPost, "/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&stubAuth{})
	r := newRouter(testTenant)
	r.GET("/me", h.Me)

	w := doJSON(r, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tenant_id":"tenant-1"`)
	assert.Contains(t, w.Body.String(), `"session_id":"session-1"`)
}

type stubEvents struct {
	service.EventService
	names  []string
	bodies []string
}

func (s *stubEvents) UploadImages(ctx context.Context, tenantID, id string, files []uploader.File) (*dto.UploadImagesResponse, error) {
	if len(files) == 0 {
		return nil, &service.ValidationError{Message: uploader.ErrNoFiles.Error()}
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		b, _ := io.ReadAll(f.Body)
		s.names = append(s.names, f.Name)
		s.bodies = append(s.bodies, string(b))
		urls = append(urls, "https://cdn.example.com/"+f.Name)
	}
	return &dto.UploadImagesResponse{Uploaded: urls, Images: urls}, nil
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestEventHandler_UploadImages(t *testing.T) {
	stub := &stubEvents{}
	h := NewEventHandler(stub, 16)
	r := newRouter(testTenant)
	r.POST("/events/:id/images", h.UploadImages)

	body, contentType := multipartBody(t, ImagesFormField, map[string]string{"cover.jpg": "jpeg-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/events/e1/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"cover.jpg"}, stub.names)
	assert.Equal(t, []string{"jpeg-bytes"}, stub.bodies)

	body, contentType = multipartBody(t, ImagesFormField, map[string]string{"huge.jpg": "this is far more than sixteen bytes"})
	req = httptest.NewRequest(http.MethodPost, "/events/e1/images", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, contentType = multipartBody(t, "other", map[string]string{"a.jpg": "a"})
	req = httptest.NewRequest(http.MethodPost, "/events/e1/images", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeValidationFailed, decode(t, w).Error.Code)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler("1.0.0", map[string]Pinger{
		"postgres": pingFunc(func(ctx context.Context) error { return nil }),
	})
	r := gin.New()
	r.GET("/health", healthy.Health)
	r.GET("/ready", healthy.Ready)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/ready", nil).Code)

	down := NewHealthHandler("1.0.0", map[string]Pinger{
		"redis": pingFunc(func(ctx context.Context) error { return errors.New("dial tcp: refused") }),
	})
	r = gin.New()
	r.GET("/ready", down.Ready)
	w := doJSON(r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "dial tcp: refused", decode(t, w).Error.Details["redis"])
}

type stubSettings struct {
	service.SettingsService
	current domain.AppSettings
}

func (s *stubSettings) GetSettings(ctx context.Context, tenantID string) (*domain.AppSettings, error) {
	cur := s.current
	return &cur, nil
}

func (s *stubSettings) UpdateSettings(ctx context.Context, tenantID string, req *dto.UpdateSettingsRequest) (*domain.AppSettings, error) {
	if req.Venue != nil {
		s.current.Venue = *req.Venue
	}
	cur := s.current
	return &cur, nil
}

func TestDashboardHandler_UpdateSettingsIsAudited(t *testing.T) {
	cfg := middleware.DefaultAuditConfig(nil)
	cfg.FlushInterval = 10 * time.Millisecond
	audit := middleware.NewAuditLogger(cfg)
	audit.SetTestMode(true)
	t.Cleanup(func() { _ = audit.Close() })

	stub := &stubSettings{current: domain.AppSettings{TenantID: testTenant, Venue: "Hall A", Capacity: 300}}
	h := NewDashboardHandler(nil, stub)
	r := newRouter(testTenant)
	r.Use(middleware.AuditMiddleware(audit))
	r.PUT("/api/v1/settings", h.UpdateSettings)

	venue := "Hall B"
	w := doJSON(r, http.MethodPut, "/api/v1/settings", dto.UpdateSettingsRequest{Venue: &venue})
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool { return len(audit.GetTestEntries()) == 1 }, time.Second, 10*time.Millisecond)
	entry := audit.GetTestEntries()[0]
	assert.Equal(t, middleware.AuditActionUpdate, entry.Action)
	assert.Equal(t, "setting", entry.ResourceType)
	assert.Equal(t, map[string]interface{}{"old": "Hall A", "new": "Hall B"}, entry.Changes["venue"])
	assert.NotContains(t, entry.Changes, "capacity")
}

type stubCampaigns struct {
	service.CampaignService
	got *dto.CreateCampaignRequest
}

func (s *stubCampaigns) CreateCampaign(ctx context.Context, tenantID string, req *dto.CreateCampaignRequest) (*domain.Campaign, error) {
	s.got = req
	return &domain.Campaign{ID: "c1", TenantID: tenantID, Type: domain.CampaignTypeSMS, Status: domain.CampaignStatusDraft, Message: req.Message}, nil
}

func TestCampaignHandler_CreateDraftWithOnlyMessage(t *testing.T) {
	stub := &stubCampaigns{}
	h := NewCampaignHandler(stub)
	r := newRouter(testTenant)
	r.POST("/campaigns", h.Create)

	w := doJSON(r, http.MethodPost, "/campaigns", map[string]string{"action": "draft", "message": "Doors open at 9"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, stub.got)
	assert.Empty(t, stub.got.Name)
	assert.Empty(t, stub.got.Type)
	assert.Contains(t, w.Body.String(), `"status":"draft"`)

	w = doJSON(r, http.MethodPost, "/campaigns", map[string]string{"action": "draft", "message": "x", "type": "fax"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
