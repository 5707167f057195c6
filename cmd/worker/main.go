package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/streetsmart-service/internal/config"
	"github.com/streetsmart-service/internal/pkg/logger"
	"github.com/streetsmart-service/internal/repository/cache"
	redisRepo "github.com/streetsmart-service/internal/repository/redis"
	"github.com/streetsmart-service/internal/repository/sqlstore"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/worker"
	"github.com/streetsmart-service/internal/worker/repair"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Events.Enabled {
		fmt.Println("Event log is disabled in configuration. Set EVENTS_ENABLED=true to run the projection worker.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting repair request projection worker")
	log.Info("Configuration loaded",
		zap.String("stream", cfg.Events.Stream),
		zap.String("consumer_group", cfg.Events.ConsumerGroup),
		zap.Int("max_retries", cfg.Events.MaxRetries),
		zap.String("projection_driver", cfg.Projection.Driver))

	// 3. Projection database
	db, err := sqlstore.New(&cfg.Projection, log)
	if err != nil {
		log.Fatal("Failed to open projection database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close projection database", zap.Error(err))
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
	projectionRepo := sqlstore.NewRepairRequestRepository(db)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)

	// 6. Initialize use cases
	projectionUC := usecase.NewProjectionUseCase(projectionRepo, log)

	// 7. Initialize workers
	projectionWorker := repair.NewProjectionWorker(
		streamRepo,
		projectionUC,
		cfg.Events.Stream,
		cfg.Events.ConsumerGroup,
		cfg.Events.MaxRetries,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(projectionWorker)

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
