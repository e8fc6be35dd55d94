package main

// @title Farm Boundary Service API
// @version 1.0.0
// @description Geospatial service for smallholder farm boundaries. Validates and persists boundary polygons, converts GPS walking traces into boundaries with a quality verdict, computes areas and shape metrics, and reconciles declared farm sizes against satellite measurements.
// @description
// @description Main capabilities:
// @description - Boundary creation from point lists, GPS traces or GeoJSON
// @description - Area, perimeter and shape complexity calculation
// @description - Overlap detection against neighboring farms
// @description - Asynchronous satellite size verification with scan history

// @contact.name API Support
// @contact.email support@croppulse.com

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/croppulse/farm-boundary-service/docs/swagger"
	"github.com/croppulse/farm-boundary-service/internal/config"
	httpDelivery "github.com/croppulse/farm-boundary-service/internal/delivery/http"
	"github.com/croppulse/farm-boundary-service/internal/delivery/http/handler"
	"github.com/croppulse/farm-boundary-service/internal/infrastructure/satellite"
	"github.com/croppulse/farm-boundary-service/internal/pkg/logger"
	"github.com/croppulse/farm-boundary-service/internal/repository/cache"
	"github.com/croppulse/farm-boundary-service/internal/repository/postgres"
	redisRepo "github.com/croppulse/farm-boundary-service/internal/repository/redis"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Farm Boundary Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	farmRepo := postgres.NewFarmRepository(db)
	scanRepo := postgres.NewScanRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	estimator := satellite.NewClient(&cfg.Satellite, log)

	log.Info("Repositories initialized")

	// 7. Initialize use cases
	boundaryUC := usecase.NewBoundaryUseCase(farmRepo, cacheRepo, cfg, log)
	traceUC := usecase.NewTraceUseCase(farmRepo, streamRepo, boundaryUC, cfg, log)
	verificationUC := usecase.NewVerificationUseCase(farmRepo, scanRepo, streamRepo, estimator, cfg, log)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP handlers
	boundaryHandler := handler.NewBoundaryHandler(boundaryUC, log)
	farmHandler := handler.NewFarmHandler(boundaryUC, log)
	traceHandler := handler.NewTraceHandler(traceUC, log)
	verificationHandler := handler.NewVerificationHandler(verificationUC, log)

	// 9. Initialize HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		boundaryHandler,
		farmHandler,
		traceHandler,
		verificationHandler,
	)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
