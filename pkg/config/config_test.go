package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"APP_NAME", "APP_ENVIRONMENT", "APP_DEBUG",
		"SERVER_HOST", "SERVER_PORT",
		"DATABASE_HOST", "DATABASE_PORT", "DATABASE_DBNAME",
		"REDIS_HOST", "REDIS_PORT",
		"KAFKA_ENABLED", "KAFKA_BROKERS",
		"JWT_SECRET",
		"PAYMENT_PROVIDER", "PAYMENT_STRIPE_SECRET_KEY",
		"UPLOAD_PROVIDER", "UPLOAD_S3_BUCKET",
		"CORS_ALLOW_ORIGINS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func validConfig() Config {
	return Config{
		App:      AppConfig{Name: "test", Environment: "development"},
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Host: "localhost", DBName: "invent"},
		JWT:      JWTConfig{Secret: "secret"},
		Payment:  PaymentConfig{Provider: "iframe", CreateURL: "http://pay/create", VerifyURL: "http://pay/verify"},
		Upload:   UploadConfig{Provider: "http", Endpoint: "http://upload"},
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "in-vent" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "in-vent")
	}
	if cfg.App.Environment != "development" {
		t.Errorf("App.Environment = %q, want %q", cfg.App.Environment, "development")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Redis.Port != 6379 {
		t.Errorf("Redis.Port = %d, want %d", cfg.Redis.Port, 6379)
	}
	if cfg.Payment.Provider != "iframe" {
		t.Errorf("Payment.Provider = %q, want %q", cfg.Payment.Provider, "iframe")
	}
	if cfg.Upload.Provider != "http" {
		t.Errorf("Upload.Provider = %q, want %q", cfg.Upload.Provider, "http")
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka should be disabled by default")
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "*" {
		t.Errorf("CORS.AllowOrigins = %v, want [*]", cfg.CORS.AllowOrigins)
	}
}

func TestLoad_WithEnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_HOST", "db.example.com")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test-app")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Database.Host != "db.example.com" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.example.com")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadWithPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "APP_NAME=from-file\nSERVER_PORT=7070\nUPLOAD_PROVIDER=s3\nUPLOAD_S3_BUCKET=images\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := LoadWithPath(path)
	if err != nil {
		t.Fatalf("LoadWithPath() failed: %v", err)
	}
	if cfg.App.Name != "from-file" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "from-file")
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
	if cfg.Upload.Provider != "s3" || cfg.Upload.S3Bucket != "images" {
		t.Errorf("Upload = %+v", cfg.Upload)
	}
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	if _, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	if dsn := cfg.DSN(); dsn != expected {
		t.Errorf("DSN() = %q, want %q", dsn, expected)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{
		Host: "redis.example.com",
		Port: 6380,
	}

	expected := "redis.example.com:6380"
	if addr := cfg.Addr(); addr != expected {
		t.Errorf("Addr() = %q, want %q", addr, expected)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"invalid port", func(c *Config) { c.Server.Port = -1 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing database host", func(c *Config) { c.Database.Host = "" }, true},
		{"missing JWT secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"default JWT secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = defaultJWTSecret
		}, true},
		{"unknown payment provider", func(c *Config) { c.Payment.Provider = "paypal" }, true},
		{"stripe without key", func(c *Config) { c.Payment.Provider = "stripe" }, true},
		{"stripe with key", func(c *Config) {
			c.Payment.Provider = "stripe"
			c.Payment.StripeSecretKey = "sk_test_123"
		}, false},
		{"s3 without bucket", func(c *Config) { c.Upload.Provider = "s3" }, true},
		{"unknown upload provider", func(c *Config) { c.Upload.Provider = "ftp" }, true},
		{"kafka enabled without brokers", func(c *Config) { c.Kafka.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Environment(t *testing.T) {
	cfg := validConfig()
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Error("expected development environment")
	}
	cfg.App.Environment = "production"
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("expected production environment")
	}
}
