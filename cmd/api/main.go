// Command api serves the public marketing-site API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hl-portal/internal/app"
	"hl-portal/internal/handlers"
	"hl-portal/internal/mailer"
	"hl-portal/internal/ratelimit"
	"hl-portal/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := app.LoadConfig(false)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)

	infra, err := app.Open(cfg, "hl-api")
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer infra.Close()
	logger := infra.Logger

	// Initialize rate limiter
	rateLimiter := ratelimit.NewRateLimiter(
		cfg.RateLimit.RequestsPerMinute,
		cfg.RateLimit.RequestsPerHour,
		cfg.RateLimit.Enabled,
	)
	logger.Info("rate limiter initialized",
		zap.Int("per_minute", cfg.RateLimit.RequestsPerMinute),
		zap.Int("per_hour", cfg.RateLimit.RequestsPerHour),
		zap.Bool("enabled", cfg.RateLimit.Enabled),
	)

	// The public server only sweeps limiter state; daily jobs run on the admin server.
	sched := scheduler.NewScheduler(cfg.Scheduler, cfg.Location(), scheduler.Jobs{Limiter: rateLimiter}, logger)
	if err := sched.Start(); err != nil {
		logger.Warn("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	notifier := mailer.New(mailer.Options{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.ContactEmail,
		CC:       cfg.Mail.ContactCC,
	}, logger)

	deps := handlers.PublicDeps{
		Properties: infra.Stores.Properties,
		Leads:      infra.Stores.Leads,
		Content:    infra.Stores.Content,
		Notifier:   notifier,
		Logger:     logger,
	}
	if infra.Search != nil {
		deps.Searcher = infra.Search
	}

	router := handlers.NewPublicRouter(handlers.RouterConfig{
		APIKey:         cfg.Server.APIKey,
		CORSOrigins:    cfg.Server.CORSOrigins,
		LogRequests:    cfg.Logging.LogRequests,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, handlers.NewPublicHandler(deps), infra.Cache, rateLimiter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := app.Serve(ctx, ":"+cfg.Server.Port, router, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
