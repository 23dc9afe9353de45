package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

// LoginFailureWindow is how long failed sign-in attempts are remembered
const LoginFailureWindow = 15 * time.Minute

// Store holds the short-lived session state that lives outside the token
type Store interface {
	// Revoke marks a session id as signed out until ttl elapses
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	// IsRevoked reports whether a session id was signed out
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	// CacheTenant remembers the tenant resolved for a user
	CacheTenant(ctx context.Context, userID, tenantID string, ttl time.Duration) error
	// CachedTenant returns the cached tenant id, "" when absent
	CachedTenant(ctx context.Context, userID string) (string, error)
	// DeleteTenant drops the cached tenant id
	DeleteTenant(ctx context.Context, userID string) error
	// IncrLoginFailures counts a failed sign-in and returns the count inside the window
	IncrLoginFailures(ctx context.Context, email string) (int64, error)
	// LoginFailures returns the failed sign-ins counted inside the window
	LoginFailures(ctx context.Context, email string) (int64, error)
	// ResetLoginFailures clears the failure counter after a successful sign-in
	ResetLoginFailures(ctx context.Context, email string) error
	// RecordScan increments the scan counter and pushes result to the bounded recent list
	RecordScan(ctx context.Context, sessionID string, result *domain.ScanResult, ttl time.Duration) error
	// ScannerSession returns the counter and recent scans, newest first
	ScannerSession(ctx context.Context, sessionID string) (*domain.ScannerSession, error)
	// ClearScanner removes the scanner state of a session
	ClearScanner(ctx context.Context, sessionID string) error
}

const (
	keyPrefixRevoked  = "session:revoked:"
	keyPrefixTenant   = "tenant:"
	keyPrefixFailures = "login:failures:"
	keyPrefixScanner  = "scanner:"
)

func revokedKey(sessionID string) string { return keyPrefixRevoked + sessionID }
func tenantKey(userID string) string     { return keyPrefixTenant + userID }
func failuresKey(email string) string {
	return keyPrefixFailures + strings.ToLower(strings.TrimSpace(email))
}
func scanCountKey(sessionID string) string  { return keyPrefixScanner + sessionID + ":count" }
func scanRecentKey(sessionID string) string { return keyPrefixScanner + sessionID + ":recent" }

const (
	scriptIncrWithTTL = "incr_with_ttl"
	scriptRecordScan  = "record_scan"
)

// KEYS[1] counter, ARGV[1] window in seconds
const incrWithTTLSource = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
    redis.call("EXPIRE", KEYS[1], tonumber(ARGV[1]))
end
return n
`

// KEYS[1] counter, KEYS[2] recent list, ARGV[1] result json, ARGV[2] max recent, ARGV[3] ttl seconds
const recordScanSource = `
local n = redis.call("INCR", KEYS[1])
redis.call("LPUSH", KEYS[2], ARGV[1])
redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[2]) - 1)
local ttl = tonumber(ARGV[3])
if ttl > 0 then
    redis.call("EXPIRE", KEYS[1], ttl)
    redis.call("EXPIRE", KEYS[2], ttl)
end
return n
`

// RedisStore is the Store used in production
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore loads the session scripts and returns the store
func NewRedisStore(ctx context.Context, client *redis.Client) (*RedisStore, error) {
	if _, err := client.LoadScript(ctx, scriptIncrWithTTL, incrWithTTLSource); err != nil {
		return nil, err
	}
	if _, err := client.LoadScript(ctx, scriptRecordScan, recordScanSource); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, revokedKey(sessionID), 1, ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) CacheTenant(ctx context.Context, userID, tenantID string, ttl time.Duration) error {
	return s.client.Set(ctx, tenantKey(userID), tenantID, ttl).Err()
}

func (s *RedisStore) CachedTenant(ctx context.Context, userID string) (string, error) {
	v, err := s.client.Get(ctx, tenantKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *RedisStore) DeleteTenant(ctx context.Context, userID string) error {
	return s.client.Del(ctx, tenantKey(userID)).Err()
}

func (s *RedisStore) IncrLoginFailures(ctx context.Context, email string) (int64, error) {
	return s.client.EvalShaByName(ctx, scriptIncrWithTTL,
		[]string{failuresKey(email)}, int(LoginFailureWindow.Seconds())).Int64()
}

func (s *RedisStore) LoginFailures(ctx context.Context, email string) (int64, error) {
	n, err := s.client.Get(ctx, failuresKey(email)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

func (s *RedisStore) ResetLoginFailures(ctx context.Context, email string) error {
	return s.client.Del(ctx, failuresKey(email)).Err()
}

func (s *RedisStore) RecordScan(ctx context.Context, sessionID string, result *domain.ScanResult, ttl time.Duration) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	return s.client.EvalShaByName(ctx, scriptRecordScan,
		[]string{scanCountKey(sessionID), scanRecentKey(sessionID)},
		string(payload), domain.MaxRecentScans, int(ttl.Seconds())).Err()
}

func (s *RedisStore) ScannerSession(ctx context.Context, sessionID string) (*domain.ScannerSession, error) {
	count, err := s.client.Get(ctx, scanCountKey(sessionID)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}

	raw, err := s.client.LRange(ctx, scanRecentKey(sessionID), 0, domain.MaxRecentScans-1).Result()
	if err != nil {
		return nil, err
	}

	recent := make([]*domain.ScanResult, 0, len(raw))
	for _, item := range raw {
		var r domain.ScanResult
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			continue
		}
		recent = append(recent, &r)
	}

	return &domain.ScannerSession{ScanCount: count, Recent: recent}, nil
}

func (s *RedisStore) ClearScanner(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, scanCountKey(sessionID), scanRecentKey(sessionID)).Err()
}
