package main

// @title Dominica Damage Assessment API
// @version 1.0.0
// @description Статистика повреждений зданий в Доминике: гистограмма категорий по всему набору
// @description и по отдельным гексагонам. Данные читаются из buildings.geojson и hexagons.geojson.
// @description
// @description Ошибки возвращаются телом {"error": ...}. По умолчанию статус всегда 200,
// @description при API_STRICT_STATUS=true используются 4xx/5xx.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
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

	_ "github.com/damage-assessment-api/docs/swagger"
	"github.com/damage-assessment-api/internal/config"
	httpDelivery "github.com/damage-assessment-api/internal/delivery/http"
	"github.com/damage-assessment-api/internal/delivery/http/handler"
	"github.com/damage-assessment-api/internal/domain/repository"
	"github.com/damage-assessment-api/internal/observability"
	"github.com/damage-assessment-api/internal/pkg/logger"
	"github.com/damage-assessment-api/internal/repository/cache"
	"github.com/damage-assessment-api/internal/repository/geojson"
	"github.com/damage-assessment-api/internal/usecase"
	"github.com/damage-assessment-api/internal/worker"
	"github.com/damage-assessment-api/internal/worker/dataset"
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

	log.Info("Starting Dominica Damage Assessment API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("cache_mode", cfg.Data.CacheMode),
		zap.Bool("strict_status", cfg.Server.StrictStatus),
	)

	metrics := observability.NewMetrics()

	// 3. Datasets
	store := geojson.NewStore(geojson.StoreConfig{
		BuildingsPath: cfg.BuildingsPath(),
		HexagonsPath:  cfg.HexagonsPath(),
		Mode:          geojson.Mode(cfg.Data.CacheMode),
		SpatialIndex:  cfg.Data.SpatialIndex,
	}, geojson.NewLoader(log), metrics, log)

	// отсутствие файлов не мешает старту, запросы вернут ошибку
	if err := store.CheckFiles(); err != nil {
		log.Warn("Dataset files are not available yet", zap.Error(err))
	} else {
		log.Info("Data files found",
			zap.String("buildings", cfg.BuildingsPath()),
			zap.String("hexagons", cfg.HexagonsPath()),
		)
	}

	// 4. Result cache
	var cacheRepo repository.CacheRepository = cache.NewNoopCacheRepository()
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = redisClient.Health(healthCtx)
		cancel()
		if err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		cacheRepo = cache.NewCacheRepository(redisClient)
		log.Info("Redis result cache enabled", zap.String("addr", cfg.GetRedisAddr()))
	}

	// 5. Use cases
	damageUC := usecase.NewDamageUseCase(store, cacheRepo, metrics, log, usecase.DamageConfig{
		CategoryAttribute:  cfg.Data.CategoryAttribute,
		HexagonIDAttribute: cfg.Data.HexagonIDAttribute,
		ScanTimeout:        cfg.Scan.Timeout,
		MaxConcurrentScans: cfg.Scan.MaxConcurrency,
		ResultCacheTTL:     cfg.Cache.ResultTTL,
	})

	// 6. Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	var workers *worker.WorkerManager
	if geojson.Mode(cfg.Data.CacheMode) == geojson.ModeWatch {
		workers = worker.NewWorkerManager(log, 5*time.Second)
		workers.Register(dataset.NewWatcher(store, cfg.Data.WatchDebounce, nil, log))
		if err := workers.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	// 7. HTTP server
	server := httpDelivery.NewServer(
		cfg,
		log,
		metrics,
		handler.NewInfoHandler(),
		handler.NewDamageHandler(damageUC, log, cfg.Server.StrictStatus),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if workers != nil {
		stopWorkers()
		if err := workers.Stop(); err != nil {
			log.Error("Workers shutdown error", zap.Error(err))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
