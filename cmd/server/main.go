package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"DocDrop/internal/api"
	"DocDrop/internal/config"
	"DocDrop/internal/db"
	"DocDrop/internal/dispatch"
	"DocDrop/internal/email"
	"DocDrop/internal/metrics"
	"DocDrop/internal/models"
	"DocDrop/internal/ratelimit"
	"DocDrop/internal/storage"
	"DocDrop/internal/template"
	"DocDrop/internal/webhook"
	"DocDrop/internal/worker"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Database
	// ------------------------------------------------
	store, err := db.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer store.Close()

	// ------------------------------------------------
	// Rate Limiter
	// ------------------------------------------------
	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.RateLimitMax, cfg.RateLimitWindow)

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid redis url", zap.Error(err))
		}
		limiter = ratelimit.NewRedis(redis.NewClient(opt), cfg.RateLimitMax, cfg.RateLimitWindow)
		logger.Info("using shared redis rate limiter")
	}

	// ------------------------------------------------
	// Blob Storage
	// ------------------------------------------------
	blobs, err := storage.NewDisk(cfg.BlobDir)
	if err != nil {
		logger.Fatal("blob storage init failed", zap.Error(err))
	}

	// ------------------------------------------------
	// Email Provider
	// ------------------------------------------------
	var provider email.Provider

	switch cfg.EmailProvider {
	case "smtp":
		provider = &email.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
		}
	default:
		provider = email.NewResendClient(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.ProviderTimeout)
	}
	provider = email.Throttle(provider, cfg.ProviderRPS)

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// View Channel (shared by API + workers)
	// ------------------------------------------------
	views := make(chan models.DocumentView, 100)

	var wg sync.WaitGroup
	worker.StartViewPool(ctx, &wg, cfg.ViewWorkerCount, views, store, logger)

	// ------------------------------------------------
	// Dispatcher
	// ------------------------------------------------
	resolver := template.NewResolver(store, cfg.DefaultFromName, cfg.DefaultFromEmail, logger)

	dispatcher := dispatch.New(
		store,
		limiter,
		resolver,
		blobs,
		provider,
		cfg.RetryAttempts,
		logger,
	)

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	apiHandler := &api.Handler{
		Dispatcher: dispatcher,
		Store:      store,
		Views:      views,
		Log:        logger,
	}
	webhookHandler := webhook.NewHandler(store, cfg.WebhookSecret, logger)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /api/leads", apiHandler.SubmitLead)
	apiMux.HandleFunc("GET /api/delivery-status", apiHandler.DeliveryStatus)
	apiMux.HandleFunc("POST /api/confirm-delivery", apiHandler.ConfirmDelivery)
	apiMux.HandleFunc("POST /api/views", apiHandler.TrackView)
	apiMux.Handle("POST /api/webhooks/resend", webhookHandler)

	apiMux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	apiMux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, pingCancel := context.WithTimeout(r.Context(), time.Second)
		defer pingCancel()
		if err := store.Pool.Ping(pingCtx); err != nil {
			http.Error(w, "db not ready", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	apiServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: apiMux,
	}

	go func() {
		logger.Info("api server started", zap.String("port", cfg.APIPort))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Stop the API server first: in-flight handlers may still enqueue
	// views, so the channel cannot close while requests are being served.
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	// No more producers; close the channel and wait for the workers.
	close(views)
	wg.Wait()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
