package main

// @title StreetSmart Service API
// @version 1.0.0
// @description Дашборд ям для городских служб и жителей.
// @description
// @description Основные возможности:
// @description - Заявки жителей на ремонт и голосование за них
// @description - Открытые обращения о ямах из городской CSV выгрузки
// @description - Точки уличных снимков Mapillary
// @description - Карта со слоями и состоянием выбора точки в сессии

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

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

	_ "github.com/streetsmart-service/docs"
	"github.com/streetsmart-service/internal/config"
	httpDelivery "github.com/streetsmart-service/internal/delivery/http"
	"github.com/streetsmart-service/internal/delivery/http/handler"
	"github.com/streetsmart-service/internal/domain"
	"github.com/streetsmart-service/internal/domain/repository"
	"github.com/streetsmart-service/internal/infrastructure/mapillary"
	"github.com/streetsmart-service/internal/infrastructure/s3storage"
	"github.com/streetsmart-service/internal/pkg/logger"
	"github.com/streetsmart-service/internal/repository/cache"
	"github.com/streetsmart-service/internal/repository/csvfile"
	redisRepo "github.com/streetsmart-service/internal/repository/redis"
	"github.com/streetsmart-service/internal/repository/sqlstore"
	"github.com/streetsmart-service/internal/usecase"
	"github.com/streetsmart-service/internal/worker"
	"go.uber.org/zap"
)

func main() {
	startedAt := time.Now()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting StreetSmart Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("session_driver", cfg.Session.Driver),
		zap.Bool("events", cfg.Events.Enabled),
		zap.Bool("snapshots", cfg.Snapshot.Enabled),
	)

	cityBounds, err := domain.ParseBoundingBox(cfg.Map.CityBounds)
	if err != nil {
		log.Fatal("Invalid MAP_CITY_BOUNDS", zap.Error(err))
	}
	imageryBBox, err := domain.ParseBoundingBox(cfg.Mapillary.BBox)
	if err != nil {
		log.Fatal("Invalid MAPILLARY_BBOX", zap.Error(err))
	}

	healthChecks := make(map[string]handler.HealthChecker)

	// 3. Repair request store
	var requestRepo repository.RepairRequestRepository
	switch cfg.Store.Driver {
	case config.DriverCSV:
		requestRepo = csvfile.NewRepairRequestRepository(cfg.Store.CSVPath, log)
	default:
		db, err := sqlstore.New(&cfg.Store, log)
		if err != nil {
			log.Fatal("Failed to open repair request store", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close repair request store", zap.Error(err))
			}
		}()
		requestRepo = sqlstore.NewRepairRequestRepository(db)
		healthChecks["store"] = db
	}
	log.Info("Repair request store ready", zap.String("driver", cfg.Store.Driver))

	// 4. Redis (cache, sessions, events)
	var redisClient *cache.Redis
	if cfg.NeedsRedis() {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		healthChecks["redis"] = redisClient
		log.Info("Redis connected")
	}

	memoryCache := cache.NewMemoryCache()

	cacheRepo := memoryCache
	if cfg.Cache.Driver == config.DriverRedis {
		cacheRepo = cache.NewCacheRepository(redisClient)
	}

	sessionStore := memoryCache
	if cfg.Session.Driver == config.DriverRedis {
		sessionStore = cache.NewCacheRepository(redisClient)
	}
	sessionRepo := cache.NewSessionRepository(sessionStore, cfg.Session.TTL, log)

	var streamRepo repository.StreamRepository
	if cfg.Events.Enabled {
		streamRepo = redisRepo.NewStreamRepository(redisClient.Client(), log)
	}

	// 5. External sources
	feedRepo := csvfile.NewFeedRepository(log)
	imageryRepo := mapillary.NewMapillaryClient(&cfg.Mapillary, log)

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	requestUC := usecase.NewRepairRequestUseCase(requestRepo, streamRepo, cfg.Events.Stream, &cityBounds, log)
	feedUC := usecase.NewFeedUseCase(feedRepo, cfg.Feed.CSVPath, cfg.Feed.ReloadInterval, log)
	imageryUC := usecase.NewStreetImageryUseCase(
		imageryRepo,
		cacheRepo,
		cfg.Mapillary.CacheTTL,
		imageryBBox,
		cfg.Mapillary.Limit,
		cfg.Mapillary.AccessToken,
		log,
	)
	if !imageryUC.Enabled() {
		log.Warn("MAPILLARY_ACCESS_TOKEN is not set, street imagery layer will be empty")
	}
	sessionUC := usecase.NewSessionUseCase(sessionRepo, requestUC, log)
	mapUC := usecase.NewMapUseCase(&cfg.Map, requestUC, feedUC, imageryUC, sessionUC, log)

	log.Info("Use cases initialized")

	// 7. Background workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(worker.NewPeriodicWorker("feed-refresh", cfg.Feed.ReloadInterval, true, feedUC.Refresh, log))

	if cfg.Snapshot.Enabled {
		uploader, err := s3storage.NewUploader(context.Background(), &cfg.Snapshot, log)
		if err != nil {
			log.Fatal("Failed to initialize snapshot uploader", zap.Error(err))
		}
		snapshotUC := usecase.NewSnapshotUseCase(requestUC, uploader, cfg.Snapshot.Prefix, log)
		workerManager.Register(worker.NewPeriodicWorker("snapshot-export", cfg.Snapshot.Interval, false, snapshotUC.Run, log))
	}

	// 8. Initialize HTTP Handlers
	mapHandler, err := handler.NewMapHandler(mapUC, sessionUC, requestUC, cfg.Session.CookieName, cfg.Session.TTL, log)
	if err != nil {
		log.Fatal("Failed to parse dashboard templates", zap.Error(err))
	}

	handlers := httpDelivery.Handlers{
		Health:        handler.NewHealthHandler(healthChecks, log),
		RepairRequest: handler.NewRepairRequestHandler(requestUC, log),
		Feed:          handler.NewFeedHandler(feedUC, log),
		StreetImage:   handler.NewStreetImageHandler(imageryUC, log),
		Session:       handler.NewSessionHandler(sessionUC, log),
		Map:           mapHandler,
	}

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, handlers)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), worker.DefaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	cancelWorkers()
	if err := workerManager.StopContext(ctx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully", zap.Duration("uptime", time.Since(startedAt)))
}
