package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sellerbridge/sellerbridge/internal/auth"
	"github.com/sellerbridge/sellerbridge/internal/config"
	"github.com/sellerbridge/sellerbridge/internal/identity"
	"github.com/sellerbridge/sellerbridge/internal/middleware"
	"github.com/sellerbridge/sellerbridge/internal/notification"
	"github.com/sellerbridge/sellerbridge/internal/onboarding"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Verifier auth.TokenVerifier
	Platform onboarding.Platform
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce external collaborators outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Verifier == nil {
			return fmt.Errorf("token verifier is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Platform == nil {
			return fmt.Errorf("payment platform is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares. CORS sits ahead of the auth gate so browser preflights,
	// which carry no Authorization header, are answered here.
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	var userRepo identity.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
	}
	userSvc := identity.NewService(userRepo)

	verifier := d.Verifier
	if verifier == nil {
		verifier = &auth.StaticVerifier{}
	}
	platform := d.Platform
	if platform == nil {
		platform = onboarding.NewStaticPlatform()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	onboardingSvc, err := onboarding.NewService(userRepo, platform, notifier, d.Logger, onboarding.Options{
		Country:         d.Cfg.AccountCountry,
		RefreshURL:      d.Cfg.OnboardingRefreshURL,
		ReturnURL:       d.Cfg.OnboardingReturnURL,
		OutboundTimeout: d.Cfg.OutboundTimeout,
	})
	if err != nil {
		return err
	}
	onboardingHandler := onboarding.NewHandler(onboardingSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	gate := middleware.RequireAuth(verifier)

	// Login carries a bearer credential but stays outside the protected group
	// so it can take the rate limiter first.
	rateLimiter := middleware.LoginRateLimit(d.Cache, 10)
	RegisterAuthRoutes(api, userSvc, rateLimiter, gate)

	// Protected routes
	protected := api.Group("", gate)
	RegisterOnboardingRoutes(protected, onboardingHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
