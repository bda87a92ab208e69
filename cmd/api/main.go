// Package main is the entrypoint for the curator API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/agentengineer/curator/internal/cache"
	"github.com/agentengineer/curator/internal/config"
	"github.com/agentengineer/curator/internal/handler"
	"github.com/agentengineer/curator/internal/mailer"
	"github.com/agentengineer/curator/internal/metrics"
	"github.com/agentengineer/curator/internal/repository"
	"github.com/agentengineer/curator/internal/server"
	"github.com/agentengineer/curator/internal/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewPrometheus()

	provider, err := mailer.NewProvider(cfg, logger)
	if err != nil {
		logger.Error("failed to configure mail provider", "provider", cfg.MailProvider, "error", err)
		_ = cacheClient.Close()
		repo.Close()
		os.Exit(1)
	}
	mail := mailer.New(provider, mailer.Options{
		From:     cfg.MailFrom,
		SiteName: cfg.SiteName,
		Timeout:  cfg.MailTimeout,
	}, recorder, logger)
	logger.Info("mail provider ready", "provider", mail.ProviderName())
	if cfg.IsProduction() && cfg.MailProvider == config.MailProviderLog {
		logger.Warn("verification emails are only logged; set MAIL_PROVIDER to deliver them")
	}

	newsletterService := service.NewNewsletterService(repo, mail, cfg.BaseURL, recorder, logger)
	feedbackService := service.NewFeedbackService(repo, cfg.FeedbackListLimit, recorder)
	catalogService := service.NewCatalogService(repo, cacheClient, cfg.CatalogCacheTTL, recorder, logger)

	handlers := routeHandlers{
		root:       handler.New(cfg.SiteName, version),
		health:     handler.NewHealthHandler(repo, cacheClient),
		newsletter: handler.NewNewsletterHandler(newsletterService, logger),
		verify:     handler.NewVerifyHandler(newsletterService, cfg.SiteName, logger),
		feedback:   handler.NewFeedbackHandler(feedbackService, logger),
		catalog:    handler.NewCatalogHandler(catalogService, logger),
		metrics:    recorder.Handler(),
	}

	r := setupRouter(handlers, cacheClient, recorder, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before the database pool.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"version", version,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "curator")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
