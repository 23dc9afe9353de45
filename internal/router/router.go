// Package router mounts the HTTP routes of the service on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AkiliNova/in-vent/internal/di"
	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/pkg/config"
	"github.com/AkiliNova/in-vent/pkg/middleware"
)

// Options controls the middleware chain around the routes
type Options struct {
	ServiceName string
	JWTSecret   string
	JWTIssuer   string
	CORS        config.CORSConfig
	RateLimit   config.RateLimitConfig
	// AuditLogger records admin mutations; nil disables auditing
	AuditLogger *middleware.AuditLogger
}

// OptionsFromConfig builds router options from the application config
func OptionsFromConfig(cfg *config.Config, audit *middleware.AuditLogger) Options {
	name := cfg.OTel.ServiceName
	if name == "" {
		name = cfg.App.Name
	}
	return Options{
		ServiceName: name,
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		CORS:        cfg.CORS,
		RateLimit:   cfg.RateLimit,
		AuditLogger: audit,
	}
}

// New creates the gin engine with every route registered
func New(c *di.Container, opts Options) *gin.Engine {
	r := gin.New()

	corsConfig := middleware.DefaultCORSConfig()
	if len(opts.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = opts.CORS.AllowOrigins
	}

	r.Use(otelgin.Middleware(opts.ServiceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog("/health", "/ready"))
	r.Use(middleware.CORSWithConfig(corsConfig))

	// Health checks
	r.GET("/health", c.HealthHandler.Health)
	r.GET("/ready", c.HealthHandler.Ready)

	v1 := r.Group("/api/v1")

	public := v1.Group("/public")
	if opts.RateLimit.Enabled {
		limit := middleware.DefaultRateLimitConfig()
		if opts.RateLimit.RequestsPerSecond > 0 {
			limit.RequestsPerSecond = opts.RateLimit.RequestsPerSecond
		}
		if opts.RateLimit.BurstSize > 0 {
			limit.BurstSize = opts.RateLimit.BurstSize
		}
		limit.RedisClient = c.Redis
		public.Use(middleware.RateLimiter(limit))
	}
	registerPublicRoutes(public, c)

	admin := v1.Group("")
	admin.Use(middleware.JWTMiddleware(&middleware.JWTConfig{
		Secret:      opts.JWTSecret,
		Issuer:      opts.JWTIssuer,
		Revocations: c.Sessions,
	}))
	if opts.AuditLogger != nil {
		admin.Use(middleware.AuditMiddleware(opts.AuditLogger))
	}

	// Session routes work for admins without a tenant
	admin.POST("/auth/logout", c.AuthHandler.Logout)
	admin.GET("/auth/me", c.AuthHandler.Me)

	tenant := admin.Group("")
	tenant.Use(middleware.RequireTenant(), middleware.RequireRole(domain.RoleAdmin))
	registerTenantRoutes(tenant, c)

	return r
}

func registerPublicRoutes(public *gin.RouterGroup, c *di.Container) {
	public.POST("/auth/login", c.AuthHandler.Login)
	public.POST("/onboarding", c.AuthHandler.Onboard)
	public.GET("/packages", c.AuthHandler.Packages)
	public.GET("/payments/response", c.PaymentHandler.Response)

	tenants := public.Group("/tenants/:tenantId")
	{
		tenants.GET("/form", c.FieldHandler.PublicForm)
		tenants.POST("/registrations/validate", c.RegistrationHandler.ValidateStep)
		tenants.POST("/registrations", c.RegistrationHandler.Register)
		tenants.GET("/tickets/:guestId/qr.png", c.RegistrationHandler.TicketQR)
		tenants.GET("/events/:eventId", c.EventHandler.PublicEvent)
		tenants.POST("/events/:eventId/checkout", c.PaymentHandler.Checkout)
	}
}

func registerTenantRoutes(tenant *gin.RouterGroup, c *di.Container) {
	fields := tenant.Group("/fields")
	{
		fields.GET("", c.FieldHandler.List)
		fields.POST("", c.FieldHandler.Create)
		fields.PUT("/:id", c.FieldHandler.Update)
		fields.PATCH("/:id/enabled", c.FieldHandler.SetEnabled)
		fields.DELETE("/:id", c.FieldHandler.Delete)
	}

	guests := tenant.Group("/guests")
	{
		guests.GET("", c.GuestHandler.List)
		guests.POST("/export", c.GuestHandler.Export)
		guests.GET("/:id", c.GuestHandler.Get)
		guests.PUT("/:id", c.GuestHandler.Update)
		guests.DELETE("/:id", c.GuestHandler.Delete)
		guests.POST("/:id/toggle-check-in", c.GuestHandler.ToggleCheckIn)
	}

	scanner := tenant.Group("/scanner")
	{
		scanner.POST("/scan", c.ScannerHandler.Scan)
		scanner.GET("/session", c.ScannerHandler.Session)
		scanner.GET("/log", c.ScannerHandler.Log)
	}

	campaigns := tenant.Group("/campaigns")
	{
		campaigns.GET("/audiences", c.CampaignHandler.Audiences)
		campaigns.GET("/templates", c.CampaignHandler.Templates)
		campaigns.GET("", c.CampaignHandler.List)
		campaigns.POST("", c.CampaignHandler.Create)
		campaigns.GET("/:id", c.CampaignHandler.Get)
		campaigns.PUT("/:id", c.CampaignHandler.Update)
		campaigns.POST("/:id/send", c.CampaignHandler.Send)
		campaigns.DELETE("/:id", c.CampaignHandler.Delete)
	}

	rooms := tenant.Group("/rooms")
	{
		rooms.GET("", c.RoomHandler.List)
		rooms.POST("", c.RoomHandler.Create)
		rooms.PUT("/:id", c.RoomHandler.Update)
		rooms.DELETE("/:id", c.RoomHandler.Delete)
	}

	events := tenant.Group("/events")
	{
		events.GET("", c.EventHandler.List)
		events.POST("", c.EventHandler.Create)
		events.GET("/:id", c.EventHandler.Get)
		events.PUT("/:id", c.EventHandler.Update)
		events.DELETE("/:id", c.EventHandler.Delete)
		events.POST("/:id/images", c.EventHandler.UploadImages)
	}

	tenant.GET("/dashboard", c.DashboardHandler.Dashboard)
	tenant.GET("/activities", c.DashboardHandler.Activities)
	tenant.GET("/settings", c.DashboardHandler.GetSettings)
	tenant.PUT("/settings", c.DashboardHandler.UpdateSettings)
}
