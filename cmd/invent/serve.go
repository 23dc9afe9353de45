package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AkiliNova/in-vent/internal/di"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/router"
	"github.com/AkiliNova/in-vent/pkg/config"
	"github.com/AkiliNova/in-vent/pkg/database"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/middleware"
	"github.com/AkiliNova/in-vent/pkg/redis"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := initLogger(cfg); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	serviceName := cfg.OTel.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		logger.Warn("telemetry disabled", zap.Error(err))
	}

	// Infrastructure
	db, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}

	rdb, err := redis.NewClient(ctx, &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
	})
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	var producer kafka.Producer = kafka.NewNoOpProducer()
	if cfg.Kafka.Enabled {
		kafkaCfg := kafka.DefaultConfig()
		kafkaCfg.Brokers = cfg.Kafka.Brokers
		if cfg.Kafka.ClientID != "" {
			kafkaCfg.ClientID = cfg.Kafka.ClientID
		}
		franz, err := kafka.NewProducer(ctx, kafkaCfg)
		if err != nil {
			logger.Warn("kafka unavailable, domain events disabled", zap.Error(err))
		} else {
			producer = franz
		}
	}

	var scanLog repository.ScanLogRepository = repository.NewNoOpScanLogRepository()
	if cfg.MongoDB.Enabled {
		mongoLog, err := repository.NewMongoScanLogRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, cfg.MongoDB.Collection)
		if err != nil {
			logger.Warn("mongodb unavailable, scan log disabled", zap.Error(err))
		} else {
			scanLog = mongoLog
		}
	}

	container, err := di.NewContainer(ctx, &di.ContainerConfig{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Producer: producer,
		ScanLog:  scanLog,
	})
	if err != nil {
		producer.Close()
		_ = rdb.Close()
		db.Close()
		return fmt.Errorf("failed to build container: %w", err)
	}

	audit := middleware.NewAuditLogger(middleware.DefaultAuditConfig(db.Pool()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(container, router.OptionsFromConfig(cfg, audit)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err = <-serverErr:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error("server shutdown failed", zap.Error(shutdownErr))
	}
	_ = audit.Close()
	container.Close(shutdownCtx)
	if shutdownErr := telemetry.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Warn("telemetry shutdown failed", zap.Error(shutdownErr))
	}

	logger.Info("server stopped")
	return err
}

func connectPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.Database.Host
	pgCfg.Port = cfg.Database.Port
	pgCfg.User = cfg.Database.User
	pgCfg.Password = cfg.Database.Password
	pgCfg.Database = cfg.Database.DBName
	pgCfg.SSLMode = cfg.Database.SSLMode
	if cfg.Database.MaxOpenConns > 0 {
		pgCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		pgCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	}

	db, err := database.NewPostgres(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}
