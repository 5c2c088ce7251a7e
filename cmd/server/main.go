package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/config"
	"github.com/webstaxinc/agra-sweets/internal/api"
	"github.com/webstaxinc/agra-sweets/internal/broker"
	"github.com/webstaxinc/agra-sweets/internal/redisclient"
	"github.com/webstaxinc/agra-sweets/internal/seed"
	"github.com/webstaxinc/agra-sweets/internal/service"
	"github.com/webstaxinc/agra-sweets/internal/store"
	"github.com/webstaxinc/agra-sweets/internal/util"
	"github.com/webstaxinc/agra-sweets/internal/worker"
)

const serviceName = "agra-sweets"

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront",
		zap.String("env", cfg.Server.Env),
		zap.String("store_backend", cfg.Store.Backend))

	if cfg.Observ.JaegerEndpoint != "" {
		tp, err := util.InitTracer(serviceName, cfg.Observ.JaegerEndpoint, cfg.Server.Env)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down tracer", zap.Error(err))
			}
		}()
	}

	kv, closeKV, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeKV()

	var opts []service.Option

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var notificationWorker *worker.NotificationWorker
	if cfg.Kafka.Enabled() {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		defer producer.Close()
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		opts = append(opts, service.WithEventPublisher(broker.NewEventPublisher(producer)))

		consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
		notificationWorker = worker.NewNotificationWorker(consumer, worker.NewLogNotifier())
		go func() {
			if err := notificationWorker.Start(workerCtx); err != nil && workerCtx.Err() == nil {
				logger.Error("Notification worker error", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Kafka disabled, order events will not be published")
	}

	storefront := service.NewStorefront(kv, seed.Default(), opts...)

	if cfg.Startup.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := storefront.InitializeStorage(ctx)
		cancel()
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(storefront)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if notificationWorker != nil {
		if err := notificationWorker.Stop(); err != nil {
			logger.Error("Error stopping notification worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// openStore connects the configured KV backend
func openStore(cfg *config.Config) (store.KV, func(), error) {
	logger := util.GetLogger()

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryKV(), func() {}, nil

	case config.BackendRedis:
		client, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
		return client, func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := store.NewStore(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		logger.Info("Database connected")
		return db, func() { _ = db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
