package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings
type Config struct {
	Host          string
	Port          int
	Password      string
	DB            int
	PoolSize      int
	MinIdleConns  int
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// DefaultConfig returns a config for a local Redis
func DefaultConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          6379,
		PoolSize:      20,
		MinIdleConns:  2,
		DialTimeout:   5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps go-redis with named Lua script support
type Client struct {
	*goredis.Client

	scriptsMu sync.RWMutex
	scripts   map[string]*goredis.Script
}

// NewClient connects to Redis, retrying the initial ping
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = rdb.Ping(ctx).Err(); err == nil {
			return &Client{Client: rdb, scripts: make(map[string]*goredis.Script)}, nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return nil, ctx.Err()
			case <-time.After(cfg.RetryInterval):
			}
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("failed to connect to redis at %s after %d attempts: %w", cfg.Addr(), attempts, err)
}

// NewFromClient wraps an existing go-redis client
func NewFromClient(rdb *goredis.Client) *Client {
	return &Client{Client: rdb, scripts: make(map[string]*goredis.Script)}
}

// LoadScript registers a Lua script under name and loads it into the server script cache
func (c *Client) LoadScript(ctx context.Context, name, src string) (string, error) {
	script := goredis.NewScript(src)
	sha, err := script.Load(ctx, c.Client).Result()
	if err != nil {
		return "", fmt.Errorf("failed to load script %s: %w", name, err)
	}

	c.scriptsMu.Lock()
	c.scripts[name] = script
	c.scriptsMu.Unlock()

	return sha, nil
}

// EvalShaByName runs a script registered with LoadScript, reloading it if the server lost it
func (c *Client) EvalShaByName(ctx context.Context, name string, keys []string, args ...interface{}) *goredis.Cmd {
	c.scriptsMu.RLock()
	script, ok := c.scripts[name]
	c.scriptsMu.RUnlock()

	if !ok {
		cmd := goredis.NewCmd(ctx)
		cmd.SetErr(fmt.Errorf("script %s not loaded", name))
		return cmd
	}

	return script.Run(ctx, c.Client, keys, args...)
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
