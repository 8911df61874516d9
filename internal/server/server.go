// Package server contains the HTTP and WebSocket handlers of the inventory web app.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "implantstock/docs" // swagger docs
	"implantstock/internal/bootstrap"
	"implantstock/internal/config"
	"implantstock/internal/middleware"
	"implantstock/internal/models"
	"implantstock/internal/notifications"
	"implantstock/internal/repository"
	"implantstock/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	app              *fiber.App
	promMiddleware   *fiberprometheus.FiberPrometheus
	shutdownCtx      context.Context
	shutdownFn       context.CancelFunc
	sessions         *middleware.SessionManager
	userRepo         repository.UserRepository
	implantRepo      repository.ImplantRepository
	userService      *service.UserService
	inventoryService *service.InventoryService
	notifier         *notifications.Notifier
	hub              *notifications.Hub
}

// NewServer connects to the database and Redis and builds a Server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{
		EnsureDefaultUser: cfg.BootstrapDefaultUser,
	})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; caching, session revocation and stock alerts are
// then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("config and database are required")
	}

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("implantstock"),
		sessions:       middleware.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL()),
		userRepo:       repository.NewUserRepository(db),
		implantRepo:    repository.NewImplantRepository(db),
	}

	// Initialize notifier and hub if Redis is available
	if redisClient != nil && cfg.StockAlertsEnabled {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub()
	}

	server.userService = service.NewUserService(server.userRepo, service.BcryptHasher{Cost: cfg.BcryptCost})
	if server.notifier != nil {
		server.inventoryService = service.NewInventoryService(server.implantRepo, server.notifier)
	} else {
		server.inventoryService = service.NewInventoryService(server.implantRepo, nil)
	}

	return server, nil
}

// App builds the Fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app == nil {
		s.app = s.newApp()
	}
	return s.app
}

func (s *Server) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:     "implantstock",
		ProxyHeader: s.config.ProxyHeader,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			if appErr, ok := models.AsAppError(err); ok && appErr.Code != models.CodeInternal {
				return models.RespondWithError(c, models.StatusCode(err), err)
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and Trace ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Identity
	app.Get("/login", s.LoginPage)
	app.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	app.Get("/register", s.RegisterPage)
	app.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)

	auth := s.AuthRequired()
	app.Get("/logout", auth, s.Logout)
	app.Get("/profile", auth, s.Profile)
	app.Post("/change_password", auth, s.ChangePassword)
	app.Post("/delete_account", auth, s.DeleteAccount)

	// Inventory
	app.Get("/", auth, s.ListImplants)
	app.Get("/add", auth, s.AddImplantPage)
	app.Post("/add", auth, s.AddImplant)
	app.Get("/edit/:id", auth, s.EditImplantPage)
	app.Post("/edit/:id", auth, s.EditImplant)
	app.Get("/use/:id", auth, s.UseImplant)
	app.Get("/add_stock/:id", auth, s.AddStockPage)
	app.Post("/add_stock/:id", auth, s.AddStock)
	app.Get("/remove/:id", auth, s.RemoveImplant)
	app.Post("/update_min_stock/:id", auth, s.UpdateMinStock)

	// Stock alerts
	if s.hub != nil {
		app.Get("/ws/stock", auth, s.StockWebSocketHandler())
	}
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so
// only the database decides readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus != "healthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := s.App()

	// Wire the stock hub to the Redis subscriber
	if s.hub != nil && s.notifier != nil {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				middleware.Logger.Error(fmt.Sprintf("failed to start %s wiring", s.hub.Name()),
					slog.String("error", err.Error()))
			}
		}()
	}

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the subscriber goroutine
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			middleware.Logger.Error("error shutting down "+s.hub.Name(), slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
