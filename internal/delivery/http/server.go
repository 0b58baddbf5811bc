package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/damage-assessment-api/internal/config"
	"github.com/damage-assessment-api/internal/delivery/http/handler"
	"github.com/damage-assessment-api/internal/delivery/http/middleware"
	"github.com/damage-assessment-api/internal/observability"
	"github.com/damage-assessment-api/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app     *fiber.App
	config  *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics

	// Handlers
	infoHandler   *handler.InfoHandler
	damageHandler *handler.DamageHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Metrics,
	infoHandler *handler.InfoHandler,
	damageHandler *handler.DamageHandler,
) *Server {
	// агрегация может идти дольше дефолтных таймаутов
	writeTimeout := cfg.Scan.Timeout + 5*time.Second

	app := fiber.New(fiber.Config{
		AppName:      "Dominica Damage Assessment API",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		UnescapePath: true,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		metrics:       metrics,
		infoHandler:   infoHandler,
		damageHandler: damageHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	if s.config.Metric.Enabled {
		s.app.Use(middleware.Metrics(s.metrics))
	}
	s.app.Use(middleware.CORS(s.config.CORS.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.config.Metric.Enabled {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	s.app.Get("/", s.infoHandler.Root)
	s.app.Get("/health", s.infoHandler.Health)

	api := s.app.Group("/api")
	api.Get("/test", s.infoHandler.Test)
	api.Get("/damage-summary", s.damageHandler.GetDamageSummary)
	api.Get("/hexagon-stats/:hexagon_id", s.damageHandler.GetHexagonStats)
}

// App возвращает fiber.App, нужен для app.Test в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404 маршрута, 405 и т.п.) в формате {"error": ...}
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(utils.ErrorResponse{
			Error: err.Error(),
		})
	}
}
