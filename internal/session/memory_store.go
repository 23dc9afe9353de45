package session

import (
	"context"
	"sync"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
)

type expiring struct {
	value     string
	expiresAt time.Time
}

func (e expiring) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

type failureCounter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node development
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	revoked  map[string]time.Time
	tenants  map[string]expiring
	failures map[string]*failureCounter
	scanners map[string]*domain.ScannerSession
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		revoked:  make(map[string]time.Time),
		tenants:  make(map[string]expiring),
		failures: make(map[string]*failureCounter),
		scanners: make(map[string]*domain.ScannerSession),
	}
}

func (s *MemoryStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.revoked[sessionID] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) CacheTenant(ctx context.Context, userID, tenantID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := expiring{value: tenantID}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.tenants[userID] = entry
	return nil
}

func (s *MemoryStore) CachedTenant(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tenants[userID]
	if !ok || !entry.live(s.now()) {
		return "", nil
	}
	return entry.value, nil
}

func (s *MemoryStore) DeleteTenant(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tenants, userID)
	return nil
}

func (s *MemoryStore) IncrLoginFailures(ctx context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := failuresKey(email)
	now := s.now()
	counter, ok := s.failures[key]
	if !ok || !now.Before(counter.expiresAt) {
		counter = &failureCounter{expiresAt: now.Add(LoginFailureWindow)}
		s.failures[key] = counter
	}
	counter.count++
	return counter.count, nil
}

func (s *MemoryStore) LoginFailures(ctx context.Context, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counter, ok := s.failures[failuresKey(email)]
	if !ok || !s.now().Before(counter.expiresAt) {
		return 0, nil
	}
	return counter.count, nil
}

func (s *MemoryStore) ResetLoginFailures(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, failuresKey(email))
	return nil
}

func (s *MemoryStore) RecordScan(ctx context.Context, sessionID string, result *domain.ScanResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.scanners[sessionID]
	if !ok {
		sess = &domain.ScannerSession{}
		s.scanners[sessionID] = sess
	}
	copied := *result
	sess.ScanCount++
	sess.Recent = append([]*domain.ScanResult{&copied}, sess.Recent...)
	if len(sess.Recent) > domain.MaxRecentScans {
		sess.Recent = sess.Recent[:domain.MaxRecentScans]
	}
	return nil
}

func (s *MemoryStore) ScannerSession(ctx context.Context, sessionID string) (*domain.ScannerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.scanners[sessionID]
	if !ok {
		return &domain.ScannerSession{Recent: []*domain.ScanResult{}}, nil
	}
	recent := make([]*domain.ScanResult, len(sess.Recent))
	for i, r := range sess.Recent {
		copied := *r
		recent[i] = &copied
	}
	return &domain.ScannerSession{ScanCount: sess.ScanCount, Recent: recent}, nil
}

func (s *MemoryStore) ClearScanner(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scanners, sessionID)
	return nil
}
