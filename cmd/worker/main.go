package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/croppulse/farm-boundary-service/internal/config"
	satelliteClient "github.com/croppulse/farm-boundary-service/internal/infrastructure/satellite"
	"github.com/croppulse/farm-boundary-service/internal/pkg/logger"
	"github.com/croppulse/farm-boundary-service/internal/repository/cache"
	"github.com/croppulse/farm-boundary-service/internal/repository/postgres"
	redisRepo "github.com/croppulse/farm-boundary-service/internal/repository/redis"
	"github.com/croppulse/farm-boundary-service/internal/usecase"
	"github.com/croppulse/farm-boundary-service/internal/worker"
	satelliteWorker "github.com/croppulse/farm-boundary-service/internal/worker/satellite"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Satellite Verification Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("retry_backoff_base", cfg.Worker.RetryBackoffBase),
		zap.Int("batch_size", cfg.Worker.BatchSize))

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

	// 5. Initialize repositories
	farmRepo := postgres.NewFarmRepository(db)
	scanRepo := postgres.NewScanRepository(db)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	estimator := satelliteClient.NewClient(&cfg.Satellite, log)

	// 6. Initialize use cases
	verificationUC := usecase.NewVerificationUseCase(farmRepo, scanRepo, streamRepo, estimator, cfg, log)

	// 7. Initialize workers
	scanWorker := satelliteWorker.NewScanWorker(
		streamRepo,
		verificationUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		cfg.Worker.RetryBackoffBase,
		cfg.Worker.BatchSize,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(scanWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
