package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ohcnetwork/care-whatsapp/internal/api/router"
	"github.com/ohcnetwork/care-whatsapp/internal/care"
	appconfig "github.com/ohcnetwork/care-whatsapp/internal/config"
	"github.com/ohcnetwork/care-whatsapp/internal/handlers"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/delivery"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/dispatch"
	"github.com/ohcnetwork/care-whatsapp/internal/messaging/templates"
	"github.com/ohcnetwork/care-whatsapp/internal/notify"
	"github.com/ohcnetwork/care-whatsapp/internal/observability/metrics"
	"github.com/ohcnetwork/care-whatsapp/internal/whatsapp"
	"github.com/ohcnetwork/care-whatsapp/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := appconfig.Load()
	if err != nil {
		logging.Default().Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting care-whatsapp gateway",
		"env", cfg.Env,
		"port", cfg.Port,
		"api_version", cfg.APIVersion,
	)

	client, err := whatsapp.NewClient(whatsapp.ClientConfig{
		AccessToken:   cfg.AccessToken,
		PhoneNumberID: cfg.PhoneNumberID,
		APIVersion:    cfg.APIVersion,
	})
	if err != nil {
		logger.Error("failed to build channel client", "error", err)
		os.Exit(1)
	}

	registry, err := templates.NewCareRegistry(cfg.TemplateLanguage)
	if err != nil {
		logger.Error("failed to build template registry", "error", err)
		os.Exit(1)
	}

	policy := delivery.NewPolicy(client, registry, logger).
		WithMaxAttempts(cfg.SendMaxAttempts).
		WithBaseDelay(cfg.SendBaseDelay)

	promRegistry := prometheus.NewRegistry()
	m := metrics.NewMessagingMetrics(promRegistry)

	var dedupe dispatch.DedupeStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		dedupe = dispatch.NewRedisDedupe(rdb, cfg.DedupeTTL)
		logger.Info("using redis dedupe store", "addr", cfg.RedisAddr)
	} else {
		dedupe = dispatch.NewMemoryDedupe(cfg.DedupeTTL, cfg.DedupeMaxEntries)
	}

	dispatcher := dispatch.New(policy, dedupe, logger, m)

	// Domain data is owned by the host application; the in-memory store
	// starts empty and is populated through the host's sync hooks.
	store := care.NewMemoryStore()
	deps := handlers.Deps{Directory: store, Records: store, Logger: logger}
	handlers.RegisterAll(dispatcher, deps, handlers.FallbackMode(cfg.FallbackMode))

	notifier := notify.NewService(policy, logger)

	webhook := whatsapp.NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, dispatcher, client, logger, m)

	r := router.New(&router.Config{
		Logger:         logger,
		WebhookHandler: webhook,
		NotifyHandler:  notify.NewHTTPHandler(notifier),
		MetricsHandler: promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
