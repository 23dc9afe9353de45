package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrWithTTLScript = `
local n = redis.call("INCR", KEYS[1])
if n == 1 then
    redis.call("EXPIRE", KEYS[1], tonumber(ARGV[1]))
end
return n
`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestEvalShaByName_NotLoaded(t *testing.T) {
	client := NewFromClient(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}))
	defer client.Close()

	err := client.EvalShaByName(context.Background(), "missing", []string{"k"}).Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 1
	cfg.MaxRetries = 1
	cfg.DialTimeout = 100 * time.Millisecond

	_, err := NewClient(context.Background(), cfg)
	assert.Error(t, err)
}

func getTestRedisConfig() *Config {
	cfg := DefaultConfig()
	if host := os.Getenv("TEST_REDIS_HOST"); host != "" {
		cfg.Host = host
	}
	if password := os.Getenv("TEST_REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
	return cfg
}

func TestLoadScript_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, getTestRedisConfig())
	require.NoError(t, err)
	defer client.Close()

	key := "test:incr-with-ttl"
	defer client.Del(ctx, key)

	_, err = client.LoadScript(ctx, "incr_ttl", incrWithTTLScript)
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		n, err := client.EvalShaByName(ctx, "incr_ttl", []string{key}, 60).Int64()
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
