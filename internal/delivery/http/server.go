package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/config"
	"github.com/croppulse/farm-boundary-service/internal/delivery/http/handler"
	"github.com/croppulse/farm-boundary-service/internal/delivery/http/middleware"
)

// Server is the Fiber HTTP server for the boundary API.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	boundaryHandler     *handler.BoundaryHandler
	farmHandler         *handler.FarmHandler
	traceHandler        *handler.TraceHandler
	verificationHandler *handler.VerificationHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	boundaryHandler *handler.BoundaryHandler,
	farmHandler *handler.FarmHandler,
	traceHandler *handler.TraceHandler,
	verificationHandler *handler.VerificationHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Farm Boundary Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:                 app,
		config:              cfg,
		logger:              logger,
		boundaryHandler:     boundaryHandler,
		farmHandler:         farmHandler,
		traceHandler:        traceHandler,
		verificationHandler: verificationHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Stateless geometry tools
	api.Post("/boundaries/validate", s.boundaryHandler.Validate)
	api.Post("/boundaries/area", s.boundaryHandler.ComputeArea)

	// Farm routes
	api.Get("/farms/:id", s.farmHandler.GetFarm)
	api.Get("/farms/:a/distance/:b", s.farmHandler.GetDistance)

	// Boundary routes
	api.Post("/farms/:id/boundary", s.boundaryHandler.CreateBoundary)
	api.Get("/farms/:id/boundary", s.boundaryHandler.GetBoundary)
	api.Get("/farms/:id/boundary/geojson", s.boundaryHandler.GetGeoJSON)
	api.Post("/farms/:id/boundary/geojson", s.boundaryHandler.ImportGeoJSON)
	api.Get("/farms/:id/boundary/vertices", s.boundaryHandler.GetVertices)
	api.Get("/farms/:id/boundary/accuracy", s.boundaryHandler.GetAccuracy)
	api.Post("/farms/:id/boundary/simplify", s.boundaryHandler.Simplify)
	api.Post("/farms/:id/boundary/buffer", s.boundaryHandler.Buffer)
	api.Get("/farms/:id/anomalies", s.boundaryHandler.GetAnomalies)
	api.Get("/farms/:id/overlaps", s.boundaryHandler.GetOverlaps)

	// Trace routes
	api.Post("/traces/process", s.traceHandler.PreviewTrace)
	api.Post("/farms/:id/traces", s.traceHandler.ProcessTrace)

	// Verification routes
	api.Post("/farms/:id/verification", s.verificationHandler.RequestVerification)
	api.Get("/farms/:id/verification", s.verificationHandler.GetStatus)
	api.Get("/farms/:id/verification/scans", s.verificationHandler.ListScans)
}

func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
