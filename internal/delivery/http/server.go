package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/delivery/http/handler"
	"github.com/streetsmart-service/internal/delivery/http/middleware"
	apperrors "github.com/streetsmart-service/internal/pkg/errors"
	"github.com/streetsmart-service/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - все обработчики HTTP API
type Handlers struct {
	Health        *handler.HealthHandler
	RepairRequest *handler.RepairRequestHandler
	Feed          *handler.FeedHandler
	StreetImage   *handler.StreetImageHandler
	Session       *handler.SessionHandler
	Map           *handler.MapHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "StreetSmart Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - fiber приложение (для тестов через app.Test)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	h := s.handlers

	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Leaflet dashboard
	s.app.Get("/", h.Map.Dashboard)

	// Совместимые эндпоинты с конвертом {status, message}
	legacy := s.app.Group("/api")
	legacy.Post("/requests", h.RepairRequest.Create)
	legacy.Post("/upvote", h.RepairRequest.Upvote)

	api := s.app.Group("/api/v1")

	api.Get("/health", h.Health.Health)

	// Repair requests
	api.Get("/requests", h.RepairRequest.List)
	api.Get("/requests/recent", h.RepairRequest.Recent)

	// Layers
	api.Get("/potholes", h.Feed.Potholes)
	api.Get("/street-images", h.StreetImage.List)
	api.Get("/map", h.Map.Map)

	// Sessions
	sessions := api.Group("/sessions")
	sessions.Post("/", h.Session.Start)
	sessions.Get("/:id", h.Session.Get)
	sessions.Post("/:id/click", h.Session.Click)
	sessions.Post("/:id/viewport", h.Session.Viewport)
	sessions.Post("/:id/submit", h.Session.Submit)
	sessions.Post("/:id/viewer", h.Session.OpenViewer)
	sessions.Delete("/:id/viewer", h.Session.CloseViewer)
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

// customErrorHandler - ошибки, не обработанные хендлерами (404 маршрута, паники после recover)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Int("status", e.Code), zap.Error(err))
			}
			return c.Status(e.Code).JSON(utils.ErrorResponse{
				Error: apperrors.New("HTTP_ERROR", e.Message, e.Code),
			})
		}

		logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Error(err))
		return utils.SendError(c, err)
	}
}
