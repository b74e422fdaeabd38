package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/mohamedkhairy/tvstore/internal/cache"
	"github.com/mohamedkhairy/tvstore/internal/config"
	"github.com/mohamedkhairy/tvstore/internal/indicator"
	"github.com/mohamedkhairy/tvstore/internal/series"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	"github.com/mohamedkhairy/tvstore/internal/webhook"
	indicatorpkg "github.com/mohamedkhairy/tvstore/pkg/indicator"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting webhook service",
		logger.Int("port", cfg.Webhook.Port),
		logger.String("storage_driver", cfg.Storage.Driver),
		logger.Int("rate_limit_rps", cfg.Webhook.RateLimitRPS),
	)

	// Initialize bar storage
	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage",
			logger.ErrorField(err),
		)
	}
	defer store.Close()

	// Initialize the optional status cache
	var cacheClient cache.Client
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache",
				logger.ErrorField(err),
			)
		}
		defer redisCache.Close()
		cacheClient = redisCache
	}

	// Initialize read path: series reader and indicator engine
	reader := series.NewReader(store)
	engine := indicator.NewEngine(reader, indicatorpkg.DefaultRegistry(), cfg.Indicator.WarmupDays)

	// Initialize handlers
	ingestHandler := webhook.NewIngestHandler(store, cacheClient, cfg.Redis.StatusTTL)
	dataHandler := webhook.NewDataHandler(reader, engine)

	// Set up router
	router := mux.NewRouter()

	// Ingestion endpoints
	router.HandleFunc("/webhook", ingestHandler.ReceiveBar).Methods("POST")
	router.HandleFunc("/webhook/raw", ingestHandler.ReceiveRaw).Methods("POST")

	// Read endpoints
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/data/{ticker}", dataHandler.GetData).Methods("GET")
	v1.HandleFunc("/indicators/{ticker}", dataHandler.GetIndicator).Methods("GET")

	// Operational endpoints
	router.HandleFunc("/status", ingestHandler.Status).Methods("GET")
	router.HandleFunc("/health", ingestHandler.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	// Apply middleware
	middlewares := webhook.ChainMiddleware(
		webhook.LoggingMiddleware(),
		webhook.ErrorHandlingMiddleware(),
		webhook.AuthMiddleware(cfg.Webhook.JWTSecret),
		webhook.RateLimitMiddleware(cfg.Webhook.RateLimitRPS),
	)

	handler := middlewares(router)

	// Start HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Webhook.Port),
		Handler: handler,
	}

	go func() {
		logger.Info("Starting HTTP server",
			logger.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server",
				logger.ErrorField(err),
			)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutting down webhook service")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Webhook.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down HTTP server",
			logger.ErrorField(err),
		)
	}

	logger.Info("Webhook service stopped")
}
