package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integrationConfig(t *testing.T) *PostgresConfig {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	cfg := DefaultPostgresConfig()
	if host := os.Getenv("TEST_POSTGRES_HOST"); host != "" {
		cfg.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("TEST_POSTGRES_PORT")); err == nil {
		cfg.Port = port
	}
	if user := os.Getenv("TEST_POSTGRES_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("TEST_POSTGRES_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("TEST_POSTGRES_DATABASE"); name != "" {
		cfg.Database = name
	}
	return cfg
}

func TestDefaultPostgresConfig(t *testing.T) {
	cfg := DefaultPostgresConfig()

	assert.Equal(t, "invent", cfg.Database)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := &PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "invent",
		Password: "s3cret",
		Database: "invent_test",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=invent password=s3cret dbname=invent_test sslmode=require",
		cfg.DSN())
}

func TestNewPostgres_GivesUpAfterRetries(t *testing.T) {
	cfg := &PostgresConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "nobody",
		Password:       "nothing",
		Database:       "missing",
		SSLMode:        "disable",
		MaxRetries:     1,
		RetryInterval:  10 * time.Millisecond,
		ConnectTimeout: 500 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewPostgres(ctx, cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestNewPostgres_StopsOnCancelledContext(t *testing.T) {
	cfg := &PostgresConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "nobody",
		Password:       "nothing",
		Database:       "missing",
		SSLMode:        "disable",
		MaxRetries:     10,
		RetryInterval:  time.Hour,
		ConnectTimeout: 200 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	_, err := NewPostgres(ctx, cfg)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPostgres_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	ctx := context.Background()

	db, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(ctx))
	require.NoError(t, db.HealthCheck(ctx))
	assert.True(t, db.IsConnected(ctx))
	assert.NotNil(t, db.Pool())
	assert.NotNil(t, db.Stats())

	// prices travel as text so numeric precision survives the round trip
	require.NoError(t, db.Exec(ctx, `CREATE TEMP TABLE event_prices (event_id TEXT PRIMARY KEY, price NUMERIC(12,2))`))
	require.NoError(t, db.Exec(ctx, `INSERT INTO event_prices (event_id, price) VALUES ($1, $2::numeric)`, "evt-1", "5000.50"))

	var price string
	require.NoError(t, db.QueryRow(ctx, `SELECT price::text FROM event_prices WHERE event_id = $1`, "evt-1").Scan(&price))
	assert.Equal(t, "5000.50", price)
}

func TestPostgres_TransactionRollback_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	ctx := context.Background()

	db, err := NewPostgres(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	// temp tables are per connection, so keep everything on one transaction's connection
	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `CREATE TEMP TABLE tenant_rows (id TEXT PRIMARY KEY) ON COMMIT DROP`)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `SAVEPOINT onboarding`)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO tenant_rows (id) VALUES ($1)`, "tenant-1")
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `ROLLBACK TO SAVEPOINT onboarding`)
	require.NoError(t, err)

	var count int
	require.NoError(t, tx.QueryRow(ctx, `SELECT COUNT(*) FROM tenant_rows`).Scan(&count))
	assert.Zero(t, count)
}
