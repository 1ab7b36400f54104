// Command admin serves the dashboard API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hl-portal/internal/app"
	"hl-portal/internal/auth"
	"hl-portal/internal/handlers"
	"hl-portal/internal/mailer"
	"hl-portal/internal/ratelimit"
	"hl-portal/internal/scheduler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := app.LoadConfig(true)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)

	infra, err := app.Open(cfg, "hl-admin")
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer infra.Close()
	logger := infra.Logger
	stores := infra.Stores

	// Optional backends are passed as nil interfaces when disabled.
	var (
		indexer     handlers.Indexer
		invalidator handlers.Invalidator
		reindexer   handlers.Reindexer
	)
	if infra.Cache != nil {
		invalidator = infra.Cache
	}

	notifier := mailer.New(mailer.Options{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		User:     cfg.Mail.User,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		To:       cfg.Mail.ContactEmail,
		CC:       cfg.Mail.ContactCC,
	}, logger)

	loginLimiter := ratelimit.NewRateLimiter(
		cfg.RateLimit.LoginPerMinute,
		cfg.RateLimit.LoginPerHour,
		cfg.RateLimit.Enabled,
	)

	jobs := scheduler.Jobs{
		Visits:  stores.Leads,
		Digest:  notifier,
		Limiter: loginLimiter,
	}
	if infra.Search != nil {
		indexer = infra.Search
		jobs.Properties = stores.Properties
		jobs.Index = infra.Search
	}
	sched := scheduler.NewScheduler(cfg.Scheduler, cfg.Location(), jobs, logger)
	if infra.Search != nil {
		reindexer = sched
	}
	if err := sched.Start(); err != nil {
		logger.Warn("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL())

	router := handlers.NewAdminRouter(handlers.RouterConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		LogRequests:    cfg.Logging.LogRequests,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		TrustedProxies: cfg.Server.TrustedProxies,
	}, tokens, handlers.AdminHandlers{
		Session:    handlers.NewSessionHandler(stores.Users, tokens, logger),
		Properties: handlers.NewPropertyHandler(stores.Properties, stores.Amenities, indexer, invalidator, logger),
		Agents:     handlers.NewAgentHandler(stores.Agents, invalidator, logger),
		Users:      handlers.NewUserHandler(stores.Users, logger),
		Leads:      handlers.NewLeadHandler(stores.Leads, logger),
		Content:    handlers.NewContentHandler(stores.Content, invalidator, logger),
		Admin:      handlers.NewAdminHandler(stores.Properties, stores.Leads, reindexer, invalidator, logger),
	}, loginLimiter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := app.Serve(ctx, ":"+cfg.Server.AdminPort, router, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
