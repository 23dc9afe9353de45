package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AkiliNova/in-vent/internal/gateway"
	"github.com/AkiliNova/in-vent/internal/handler"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/service"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/internal/uploader"
	"github.com/AkiliNova/in-vent/pkg/config"
	"github.com/AkiliNova/in-vent/pkg/database"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/redis"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
)

// Container holds all dependencies of the service
type Container struct {
	// Infrastructure
	DB           *database.PostgresDB
	Redis        *redis.Client
	Producer     kafka.Producer
	ScanLog      repository.ScanLogRepository
	SessionStore session.Store
	Sessions     *session.Manager
	Metrics      *telemetry.Metrics

	// Repositories
	TenantRepo   repository.TenantRepository
	AdminRepo    repository.AdminRepository
	FieldRepo    repository.FieldRepository
	GuestRepo    repository.GuestRepository
	ActivityRepo repository.ActivityRepository
	SettingsRepo repository.SettingsRepository
	CampaignRepo repository.CampaignRepository
	RoomRepo     repository.RoomRepository
	EventRepo    repository.EventRepository
	TicketRepo   repository.TicketRepository

	// Services
	AuthService         service.AuthService
	FieldService        service.FieldService
	RegistrationService service.RegistrationService
	GuestService        service.GuestService
	ScannerService      service.ScannerService
	CampaignService     service.CampaignService
	RoomService         service.RoomService
	DashboardService    service.DashboardService
	SettingsService     service.SettingsService
	EventService        service.EventService
	PaymentService      service.PaymentService

	// Handlers
	HealthHandler       *handler.HealthHandler
	AuthHandler         *handler.AuthHandler
	FieldHandler        *handler.FieldHandler
	RegistrationHandler *handler.RegistrationHandler
	GuestHandler        *handler.GuestHandler
	ScannerHandler      *handler.ScannerHandler
	CampaignHandler     *handler.CampaignHandler
	RoomHandler         *handler.RoomHandler
	DashboardHandler    *handler.DashboardHandler
	EventHandler        *handler.EventHandler
	PaymentHandler      *handler.PaymentHandler
}

// ContainerConfig contains the connected infrastructure the container is built on
type ContainerConfig struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer kafka.Producer
	ScanLog  repository.ScanLogRepository
	// Uploader overrides the uploader chosen from Config.Upload
	Uploader uploader.ImageUploader
	// Gateway overrides the gateway chosen from Config.Payment
	Gateway gateway.PaymentGateway
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *ContainerConfig) (*Container, error) {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Producer: cfg.Producer,
		ScanLog:  cfg.ScanLog,
	}
	if c.Producer == nil {
		c.Producer = kafka.NewNoOpProducer()
	}
	if c.ScanLog == nil {
		c.ScanLog = repository.NewNoOpScanLogRepository()
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	c.Metrics = metrics

	store, err := session.NewRedisStore(ctx, c.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	c.SessionStore = store

	c.Sessions, err = session.NewManager(session.Config{
		Secret: cfg.Config.JWT.Secret,
		Issuer: cfg.Config.JWT.Issuer,
		TTL:    cfg.Config.JWT.AccessTokenTTL,
	}, c.SessionStore)
	if err != nil {
		return nil, err
	}

	imageUploader := cfg.Uploader
	if imageUploader == nil {
		if imageUploader, err = newUploader(ctx, &cfg.Config.Upload); err != nil {
			return nil, err
		}
	}
	paymentGateway := cfg.Gateway
	if paymentGateway == nil {
		paymentGateway = newGateway(&cfg.Config.Payment)
	}

	// Initialize repositories
	pool := c.DB.Pool()
	c.TenantRepo = repository.NewPostgresTenantRepository(pool)
	c.AdminRepo = repository.NewPostgresAdminRepository(pool)
	c.FieldRepo = repository.NewPostgresFieldRepository(pool)
	c.GuestRepo = repository.NewPostgresGuestRepository(pool)
	c.ActivityRepo = repository.NewPostgresActivityRepository(pool)
	c.SettingsRepo = repository.NewPostgresSettingsRepository(pool)
	c.CampaignRepo = repository.NewPostgresCampaignRepository(pool)
	c.RoomRepo = repository.NewPostgresRoomRepository(pool)
	c.EventRepo = repository.NewPostgresEventRepository(pool)
	c.TicketRepo = repository.NewPostgresTicketRepository(pool)

	// Initialize services
	c.AuthService = service.NewAuthService(c.TenantRepo, c.AdminRepo, c.Sessions, c.SessionStore)
	c.FieldService = service.NewFieldService(c.TenantRepo, c.FieldRepo, c.SettingsRepo)
	c.RegistrationService = service.NewRegistrationService(c.TenantRepo, c.FieldRepo, c.GuestRepo, c.ActivityRepo, c.Producer, c.Metrics)
	c.GuestService = service.NewGuestService(c.GuestRepo, c.FieldRepo, c.ActivityRepo, c.Metrics)
	c.ScannerService = service.NewScannerService(c.GuestRepo, c.ActivityRepo, c.ScanLog, c.SessionStore, c.Producer, c.Metrics)
	c.CampaignService = service.NewCampaignService(c.CampaignRepo, c.ActivityRepo, c.Producer, c.Metrics)
	c.RoomService = service.NewRoomService(c.RoomRepo)
	c.DashboardService = service.NewDashboardService(c.GuestRepo, c.RoomRepo, c.ActivityRepo)
	c.SettingsService = service.NewSettingsService(c.SettingsRepo)
	c.EventService = service.NewEventService(c.EventRepo, imageUploader)
	c.PaymentService = service.NewPaymentService(c.EventRepo, c.TicketRepo, c.ActivityRepo, paymentGateway, c.Producer, c.Metrics,
		service.PaymentConfig{
			Currency:    cfg.Config.Payment.Currency,
			CallbackURL: cfg.Config.Payment.CallbackURL,
		})

	// Initialize handlers
	c.HealthHandler = handler.NewHealthHandler(cfg.Config.App.Version, map[string]handler.Pinger{
		"postgres": c.DB,
		"redis":    c.Redis,
	})
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.FieldHandler = handler.NewFieldHandler(c.FieldService)
	c.RegistrationHandler = handler.NewRegistrationHandler(c.RegistrationService)
	c.GuestHandler = handler.NewGuestHandler(c.GuestService)
	c.ScannerHandler = handler.NewScannerHandler(c.ScannerService)
	c.CampaignHandler = handler.NewCampaignHandler(c.CampaignService)
	c.RoomHandler = handler.NewRoomHandler(c.RoomService)
	c.DashboardHandler = handler.NewDashboardHandler(c.DashboardService, c.SettingsService)
	c.EventHandler = handler.NewEventHandler(c.EventService, cfg.Config.Upload.MaxFileSize)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)

	return c, nil
}

func newUploader(ctx context.Context, cfg *config.UploadConfig) (uploader.ImageUploader, error) {
	if cfg.Provider == "s3" {
		s3Uploader, err := uploader.NewS3Uploader(ctx, uploader.S3Config{
			Bucket:      cfg.S3Bucket,
			Region:      cfg.S3Region,
			PublicURL:   cfg.S3PublicURL,
			EndpointURL: cfg.S3EndpointURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 uploader: %w", err)
		}
		return s3Uploader, nil
	}
	return uploader.NewHTTPUploader(cfg.Endpoint), nil
}

func newGateway(cfg *config.PaymentConfig) gateway.PaymentGateway {
	if cfg.Provider == gateway.ProviderStripe {
		return gateway.NewStripeGateway(gateway.StripeConfig{
			SecretKey: cfg.StripeSecretKey,
			CancelURL: cfg.StripeCancelURL,
		})
	}
	return gateway.NewIframeGateway(gateway.IframeConfig{
		CreateURL: cfg.CreateURL,
		VerifyURL: cfg.VerifyURL,
	})
}

// Close releases the infrastructure held by the container
func (c *Container) Close(ctx context.Context) {
	if c.Producer != nil {
		c.Producer.Close()
	}
	if closer, ok := c.ScanLog.(interface{ Close(context.Context) error }); ok {
		if err := closer.Close(ctx); err != nil {
			logger.WarnCtx(ctx, "failed to close scan log", zap.Error(err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close redis", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
