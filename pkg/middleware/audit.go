package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AkiliNova/in-vent/pkg/logger"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionDelete  AuditAction = "delete"
	AuditActionLogout  AuditAction = "logout"
	AuditActionCheckIn AuditAction = "check_in"
	AuditActionSend    AuditAction = "send"
	AuditActionExport  AuditAction = "export"
	AuditActionUpload  AuditAction = "upload"
	AuditActionView    AuditAction = "view"
)

// Context keys for audit data
const (
	ContextKeyAuditResourceType = "audit_resource_type"
	ContextKeyAuditResourceID   = "audit_resource_id"
	ContextKeyAuditOldValues    = "audit_old_values"
	ContextKeyAuditNewValues    = "audit_new_values"
	ContextKeyAuditMetadata     = "audit_metadata"
	contextKeyAuditSkip         = "audit_skip"
)

const insertAuditLogQuery = `
	INSERT INTO audit_logs (
		id, tenant_id, user_id, user_email, user_role,
		action, resource_type, resource_id,
		ip_address, user_agent, request_id, trace_id,
		old_values, new_values, changes, metadata, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8,
		$9, $10, $11, $12,
		$13, $14, $15, $16, $17
	)
`

// AuditEntry represents a single audit log entry
type AuditEntry struct {
	ID           string                 `json:"id"`
	TenantID     *string                `json:"tenant_id,omitempty"`
	UserID       *string                `json:"user_id,omitempty"`
	UserEmail    string                 `json:"user_email,omitempty"`
	UserRole     string                 `json:"user_role,omitempty"`
	Action       AuditAction            `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   *string                `json:"resource_id,omitempty"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	TraceID      string                 `json:"trace_id,omitempty"`
	OldValues    map[string]interface{} `json:"old_values,omitempty"`
	NewValues    map[string]interface{} `json:"new_values,omitempty"`
	Changes      map[string]interface{} `json:"changes,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// AuditConfig holds configuration for the audit middleware
type AuditConfig struct {
	// DB is the PostgreSQL connection pool for storing audit logs
	DB *pgxpool.Pool
	// BufferSize is the size of the async audit buffer (default: 1000)
	BufferSize int
	// FlushInterval is how often to flush the buffer (default: 5 seconds)
	FlushInterval time.Duration
	// BatchSize is the maximum number of entries to insert in one batch (default: 100)
	BatchSize int
	// SkipPaths is a list of paths to skip auditing
	SkipPaths []string
	// SkipMethods is a list of HTTP methods to skip (default: GET, HEAD, OPTIONS)
	SkipMethods []string
	// ActionMapper maps HTTP method + path pattern to audit action
	ActionMapper func(method, path string) AuditAction
	// ResourceExtractor extracts resource type and ID from path
	ResourceExtractor func(path string) (resourceType string, resourceID string)
	// EnableRequestBody enables capturing request body
	EnableRequestBody bool
	// MaxBodySize limits the size of captured body (default: 10KB)
	MaxBodySize int
	// SensitiveFields are field names that should be masked
	SensitiveFields []string
}

// DefaultAuditConfig returns default configuration
func DefaultAuditConfig(db *pgxpool.Pool) *AuditConfig {
	return &AuditConfig{
		DB:                db,
		BufferSize:        1000,
		FlushInterval:     5 * time.Second,
		BatchSize:         100,
		SkipPaths:         []string{"/health", "/ready", "/api/v1/public/*"},
		SkipMethods:       []string{"GET", "HEAD", "OPTIONS"},
		ActionMapper:      defaultActionMapper,
		ResourceExtractor: defaultResourceExtractor,
		EnableRequestBody: false,
		MaxBodySize:       10 * 1024,
		SensitiveFields:   []string{"password", "token", "secret", "api_key", "card"},
	}
}

// AuditLogger buffers entries and writes them to audit_logs in batches from a single worker
type AuditLogger struct {
	config      *AuditConfig
	skipMethods map[string]struct{}
	buffer      chan *AuditEntry
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	dropped     atomic.Int64

	// collect keeps flushed batches in memory instead of writing them
	mu        sync.Mutex
	collect   bool
	collected []*AuditEntry
}

func NewAuditLogger(config *AuditConfig) *AuditLogger {
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	al := &AuditLogger{
		config:      config,
		skipMethods: make(map[string]struct{}, len(config.SkipMethods)),
		buffer:      make(chan *AuditEntry, config.BufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, m := range config.SkipMethods {
		al.skipMethods[strings.ToUpper(m)] = struct{}{}
	}

	al.wg.Add(1)
	go al.worker()
	return al
}

// Log queues an entry without blocking. When the buffer is full the entry is dropped and counted.
func (al *AuditLogger) Log(entry *AuditEntry) {
	select {
	case al.buffer <- entry:
	default:
		al.dropped.Add(1)
		logger.Warn("audit buffer full, entry dropped",
			zap.String("action", string(entry.Action)),
			zap.String("resource_type", entry.ResourceType),
		)
	}
}

func (al *AuditLogger) Dropped() int64 {
	return al.dropped.Load()
}

// Close stops the worker after it has flushed everything still queued
func (al *AuditLogger) Close() error {
	al.closeOnce.Do(func() {
		al.cancel()
		close(al.buffer)
		al.wg.Wait()
	})
	return nil
}

// SetTestMode keeps flushed entries in memory instead of writing them to the database
func (al *AuditLogger) SetTestMode(enabled bool) {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.collect = enabled
	al.collected = nil
}

func (al *AuditLogger) GetTestEntries() []*AuditEntry {
	al.mu.Lock()
	defer al.mu.Unlock()
	return append([]*AuditEntry(nil), al.collected...)
}

func (al *AuditLogger) ClearTestEntries() {
	al.mu.Lock()
	defer al.mu.Unlock()
	al.collected = nil
}

func (al *AuditLogger) worker() {
	defer al.wg.Done()

	ticker := time.NewTicker(al.config.FlushInterval)
	defer ticker.Stop()

	var batch []*AuditEntry
	send := func() {
		al.flush(batch)
		batch = make([]*AuditEntry, 0, al.config.BatchSize)
	}

	for {
		select {
		case entry, ok := <-al.buffer:
			if !ok {
				al.flush(batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= al.config.BatchSize {
				send()
			}
		case <-ticker.C:
			if len(batch) > 0 {
				send()
			}
		case <-al.ctx.Done():
			for entry := range al.buffer {
				batch = append(batch, entry)
			}
			al.flush(batch)
			return
		}
	}
}

func (al *AuditLogger) flush(entries []*AuditEntry) {
	if len(entries) == 0 {
		return
	}

	al.mu.Lock()
	if al.collect {
		al.collected = append(al.collected, entries...)
		al.mu.Unlock()
		return
	}
	al.mu.Unlock()

	if al.config.DB == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertAuditLogQuery,
			e.ID, e.TenantID, e.UserID, e.UserEmail, e.UserRole,
			string(e.Action), e.ResourceType, e.ResourceID,
			e.IPAddress, e.UserAgent, e.RequestID, e.TraceID,
			jsonOrNil(e.OldValues), jsonOrNil(e.NewValues), jsonOrNil(e.Changes),
			jsonOrEmpty(e.Metadata), e.CreatedAt,
		)
	}

	results := al.config.DB.SendBatch(ctx, batch)
	defer results.Close()

	failed := 0
	for range entries {
		if _, err := results.Exec(); err != nil {
			failed++
			if failed == 1 {
				logger.Error("failed to write audit log", zap.Error(err))
			}
		}
	}
	if failed > 1 {
		logger.Error("audit batch partially failed", zap.Int("failed", failed), zap.Int("batch", len(entries)))
	}
}

func jsonOrNil(m map[string]interface{}) []byte {
	if m == nil {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return b
}

func jsonOrEmpty(m map[string]interface{}) []byte {
	if b := jsonOrNil(m); b != nil {
		return b
	}
	return []byte("{}")
}

func (al *AuditLogger) skips(r *http.Request) bool {
	if _, ok := al.skipMethods[r.Method]; ok {
		return true
	}
	for _, pattern := range al.config.SkipPaths {
		if matchPath(r.URL.Path, pattern) {
			return true
		}
	}
	return false
}

// readBody returns the masked JSON body and puts an equivalent reader back on the request
func (al *AuditLogger) readBody(c *gin.Context) map[string]interface{} {
	if !al.config.EnableRequestBody || c.Request.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(al.config.MaxBodySize)))
	if err != nil || len(raw) == 0 {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body map[string]interface{}
	if json.Unmarshal(raw, &body) != nil {
		return nil
	}
	return maskSensitiveFields(body, al.config.SensitiveFields)
}

// AuditMiddleware records one entry per audited request once the handler has run
func AuditMiddleware(al *AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if al.skips(c.Request) {
			c.Next()
			return
		}

		body := al.readBody(c)
		started := time.Now()

		c.Next()

		if c.GetBool(contextKeyAuditSkip) {
			return
		}

		entry := al.newEntry(c, started)
		applyHandlerValues(c, entry)

		if entry.OldValues != nil && entry.NewValues != nil {
			entry.Changes = computeChanges(entry.OldValues, entry.NewValues)
		}
		if entry.NewValues == nil && body != nil {
			entry.NewValues = body
		}
		if entry.Metadata == nil {
			entry.Metadata = make(map[string]interface{})
		}
		entry.Metadata["response_status"] = c.Writer.Status()

		al.Log(entry)
	}
}

// newEntry fills in who did what from the session and the request line
func (al *AuditLogger) newEntry(c *gin.Context, started time.Time) *AuditEntry {
	entry := &AuditEntry{
		ID:        uuid.New().String(),
		CreatedAt: started,
		IPAddress: getClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetHeader(RequestIDHeader),
		TraceID:   c.GetHeader("X-Trace-ID"),
	}
	if entry.RequestID == "" {
		entry.RequestID, _ = getString(c, ContextKeyRequestID)
	}

	if id, ok := GetUserID(c); ok && id != "" {
		entry.UserID = &id
	}
	if tenant, ok := GetTenantID(c); ok && tenant != "" {
		entry.TenantID = &tenant
	}
	entry.UserEmail, _ = GetEmail(c)
	entry.UserRole, _ = GetRole(c)

	if al.config.ActionMapper != nil {
		entry.Action = al.config.ActionMapper(c.Request.Method, c.Request.URL.Path)
	}
	if al.config.ResourceExtractor != nil {
		kind, id := al.config.ResourceExtractor(c.Request.URL.Path)
		entry.ResourceType = kind
		if id != "" {
			entry.ResourceID = &id
		}
	}
	return entry
}

// applyHandlerValues lets a handler override what the path implies
func applyHandlerValues(c *gin.Context, entry *AuditEntry) {
	if kind := c.GetString(ContextKeyAuditResourceType); kind != "" {
		entry.ResourceType = kind
	}
	if id := c.GetString(ContextKeyAuditResourceID); id != "" {
		entry.ResourceID = &id
	}
	if v, ok := c.Get(ContextKeyAuditOldValues); ok {
		entry.OldValues, _ = v.(map[string]interface{})
	}
	if v, ok := c.Get(ContextKeyAuditNewValues); ok {
		entry.NewValues, _ = v.(map[string]interface{})
	}
	if v, ok := c.Get(ContextKeyAuditMetadata); ok {
		entry.Metadata, _ = v.(map[string]interface{})
	}
}

// defaultActionMapper names the admin action behind a request. Public routes never reach it.
func defaultActionMapper(method, path string) AuditAction {
	p := strings.ToLower(path)

	switch {
	case strings.HasSuffix(p, "/logout"):
		return AuditActionLogout
	case strings.HasSuffix(p, "/scanner/scan"), strings.HasSuffix(p, "check-in"):
		return AuditActionCheckIn
	case strings.HasSuffix(p, "/send"):
		return AuditActionSend
	case strings.HasSuffix(p, "/export"):
		return AuditActionExport
	case strings.HasSuffix(p, "/images"):
		return AuditActionUpload
	}

	switch method {
	case http.MethodPost:
		return AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return AuditActionUpdate
	case http.MethodDelete:
		return AuditActionDelete
	default:
		return AuditActionView
	}
}

// defaultResourceExtractor extracts resource type and ID from path
// Example: /api/v1/guests/<uuid>/status -> ("guest", "<uuid>")
func defaultResourceExtractor(path string) (resourceType string, resourceID string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	startIdx := len(parts)
	for i, part := range parts {
		if part == "api" || isVersionSegment(part) || part == "admin" {
			continue
		}
		startIdx = i
		break
	}

	if startIdx >= len(parts) || parts[startIdx] == "" {
		return "unknown", ""
	}

	resourceType = strings.TrimSuffix(parts[startIdx], "s")

	if startIdx+1 < len(parts) {
		resourceID = parts[startIdx+1]
		if !isValidID(resourceID) {
			resourceID = ""
		}
	}

	return resourceType, resourceID
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isValidID checks if a string looks like a valid ID
func isValidID(s string) bool {
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// getClientIP extracts the client IP address
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// maskSensitiveFields masks sensitive data in a map
func maskSensitiveFields(data map[string]interface{}, sensitiveFields []string) map[string]interface{} {
	if data == nil {
		return nil
	}

	result := make(map[string]interface{}, len(data))
	for k, v := range data {
		lowKey := strings.ToLower(k)
		masked := false
		for _, sf := range sensitiveFields {
			if strings.Contains(lowKey, strings.ToLower(sf)) {
				result[k] = "[REDACTED]"
				masked = true
				break
			}
		}
		if masked {
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			result[k] = maskSensitiveFields(nested, sensitiveFields)
		} else {
			result[k] = v
		}
	}
	return result
}

// computeChanges computes the differences between old and new values
func computeChanges(oldVals, newVals map[string]interface{}) map[string]interface{} {
	changes := make(map[string]interface{})

	for k, newV := range newVals {
		oldV, exists := oldVals[k]
		if !exists || !jsonEqual(oldV, newV) {
			changes[k] = map[string]interface{}{"old": oldV, "new": newV}
		}
	}

	for k, oldV := range oldVals {
		if _, exists := newVals[k]; !exists {
			changes[k] = map[string]interface{}{"old": oldV, "new": nil}
		}
	}

	return changes
}

func jsonEqual(a, b interface{}) bool {
	aJSON, err1 := json.Marshal(a)
	bJSON, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}

// SetAuditResourceType sets the resource type for audit logging
func SetAuditResourceType(c *gin.Context, resourceType string) {
	c.Set(ContextKeyAuditResourceType, resourceType)
}

// SetAuditResourceID sets the resource ID for audit logging
func SetAuditResourceID(c *gin.Context, resourceID string) {
	c.Set(ContextKeyAuditResourceID, resourceID)
}

// SetAuditOldValues sets the values before an update
func SetAuditOldValues(c *gin.Context, oldValues map[string]interface{}) {
	c.Set(ContextKeyAuditOldValues, oldValues)
}

// SetAuditNewValues sets the values after a create or update
func SetAuditNewValues(c *gin.Context, newValues map[string]interface{}) {
	c.Set(ContextKeyAuditNewValues, newValues)
}

// SetAuditMetadata sets additional metadata for audit logging
func SetAuditMetadata(c *gin.Context, metadata map[string]interface{}) {
	c.Set(ContextKeyAuditMetadata, metadata)
}

// SkipAudit marks the current request to skip audit logging
func SkipAudit(c *gin.Context) {
	c.Set(contextKeyAuditSkip, true)
}
