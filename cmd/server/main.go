package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/househunt/internal/config"
	"github.com/stwalsh4118/househunt/internal/database"
	"github.com/stwalsh4118/househunt/internal/handlers"
	"github.com/stwalsh4118/househunt/internal/lock"
	"github.com/stwalsh4118/househunt/internal/logger"
	"github.com/stwalsh4118/househunt/internal/metrics"
	"github.com/stwalsh4118/househunt/internal/middleware"
	"github.com/stwalsh4118/househunt/internal/repository"
	"github.com/stwalsh4118/househunt/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

// backend is the opened persistence layer.
type backend struct {
	stores repository.Stores
	pinger handlers.Pinger
	close  func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)
	log.Info("Starting househunt API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
	})

	ctx := context.Background()

	store, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", err, map[string]interface{}{
			"store": cfg.Store.Driver,
		})
	}
	defer store.close()

	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	resolver := services.NewAddressResolver(store.stores.Lots, store.stores.Properties, locker, m, log)
	huntService := services.NewHuntService(store.stores.Hunts, store.stores.Targets, log)
	targetService := services.NewTargetPropertyService(store.stores.Targets, huntService, resolver, m, log)
	lotService := services.NewLotService(store.stores.Lots, store.stores.Properties, locker, log)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Middleware order: RequestID -> Logger -> Recovery -> Metrics -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(store.pinger, cfg.Store.Driver, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := &handlers.API{
		Addresses: handlers.NewAddressHandler(resolver),
		Hunts:     handlers.NewHuntHandler(huntService, targetService),
		Targets:   handlers.NewTargetPropertyHandler(targetService),
		Lots:      handlers.NewLotHandler(lotService),
	}
	api.Register(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// openBackend connects the store selected by STORE_DRIVER.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgresPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info("Database connection established", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Name,
			"pool_min": cfg.Database.PoolMin,
			"pool_max": cfg.Database.PoolMax,
		})
		return &backend{stores: repository.NewPostgresStores(db), pinger: db, close: db.Close}, nil

	case config.DriverMongo:
		m, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		log.Info("MongoDB connection established", map[string]interface{}{
			"database": cfg.Mongo.Database,
		})
		closeMongo := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.Close(closeCtx); err != nil {
				log.Error("Failed to close MongoDB client", err, nil)
			}
		}
		return &backend{stores: repository.NewMongoStores(m), pinger: m, close: closeMongo}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory stores, data is lost on restart", nil)
		return &backend{stores: repository.NewMemoryStores(), close: func() {}}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// newLocker returns the resolution locker: Redis when REDIS_ADDR is set,
// otherwise in-process. A configured Redis that cannot be reached is fatal.
func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (lock.Locker, func()) {
	if cfg.Redis.Addr == "" {
		return lock.NewLocal(), func() {}
	}

	client, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Redis.Addr,
		})
	}
	log.Info("Using Redis resolution locks", map[string]interface{}{
		"addr": cfg.Redis.Addr,
		"ttl":  cfg.Redis.LockTTL.String(),
	})

	return lock.NewRedis(client, cfg.Redis.LockTTL, log), func() {
		if err := client.Close(); err != nil {
			log.Error("Failed to close Redis client", err, nil)
		}
	}
}
