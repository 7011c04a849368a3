package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/prediction-evaluator-service/internal/cache"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/client"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/config"
	httpHandler "github.com/cypherlabdev/prediction-evaluator-service/internal/handler/http"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/messaging"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/metrics"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/service"
	"github.com/cypherlabdev/prediction-evaluator-service/internal/settings"
	"github.com/cypherlabdev/prediction-evaluator-service/pkg/evaluator"
)

func main() {
	// A missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Msg("starting prediction-evaluator-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evalMetrics := metrics.NewEvaluationMetrics()

	// Create Redis cache
	redisCache := cache.NewRedisCache(
		cache.RedisCacheConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		},
		logger,
	)
	defer redisCache.Close()

	// Test Redis connection
	if err := redisCache.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	settingsStore := settings.NewRedisStore(redisCache.Client(), cfg.Redis.SettingsKey, logger)

	guessClient := client.NewGuessClient(
		cfg.API.BaseURL,
		logger,
		client.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		client.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		client.WithPageSize(cfg.API.PageSize),
		client.WithRecorder(evalMetrics),
	)

	// Create evaluator
	eval := evaluator.NewEvaluator(logger)
	logger.Info().Msg("evaluator initialized")

	// Create evaluation service layer
	evaluationService := service.NewEvaluationService(
		eval,
		redisCache,
		guessClient,
		settingsStore,
		evalMetrics,
		service.Options{
			Defaults:   cfg.Evaluation.ToEvaluationParams(),
			FetchLimit: cfg.Evaluation.ComparisonLimit,
			Models:     cfg.Evaluation.Models,
		},
		logger,
	)
	logger.Info().Msg("evaluation service initialized")

	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		consumer := messaging.NewKafkaConsumer(
			messaging.KafkaConsumerConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				GroupID: cfg.Kafka.GroupID,
			},
			evaluationService,
			evalMetrics,
			logger,
		)

		defer consumer.Close()

		// Start Kafka consumer in goroutine
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("Kafka consumer failed")
			}
		}()
	} else {
		close(consumerDone)
	}

	// Setup HTTP server routes
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	// Health and monitoring endpoints
	router.Get("/health", healthHandler)
	router.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyHandler(w, r, evaluationService)
	})
	router.Handle("/metrics", promhttp.HandlerFor(evalMetrics.Registry(), promhttp.HandlerOpts{}))

	// Register API routes
	httpHandler.NewEvaluationHandler(evaluationService, logger).RegisterRoutes(router)
	logger.Info().Msg("API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop consumer
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Wait for the consumer to leave its group
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn().Msg("Kafka consumer did not stop before the shutdown timeout")
	}

	logger.Info().Msg("shutdown complete")
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "prediction-evaluator").Logger()
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if the report cache is reachable
func readyHandler(w http.ResponseWriter, r *http.Request, svc *service.EvaluationService) {
	if err := svc.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Redis unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
