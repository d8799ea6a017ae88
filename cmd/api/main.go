package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk-webhooks/config"
	httpHandler "helpdesk-webhooks/internal/adapter/http/handler"
	pgStorage "helpdesk-webhooks/internal/adapter/storage/postgres"
	redisStorage "helpdesk-webhooks/internal/adapter/storage/redis"
	"helpdesk-webhooks/internal/adapter/webex"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/service"
	"helpdesk-webhooks/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("helpdesk-api", cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Bool("signature_required", cfg.Webex.SignatureRequired()).
		Msg("Starting helpdesk webhook service")

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Repositories
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	deliveryLogRepo := pgStorage.NewDeliveryLogRepo(pool)
	userRepo := pgStorage.NewUserRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)

	// Core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewBcryptHashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	webexClient := webex.NewClient(cfg.Webex, nil, log)
	people := service.NewPersonResolver(webexClient, redisStorage.NewPersonCache(rdb), cfg.Webex.PersonCacheTTL, log)

	routes := service.DefaultRoutes(service.ProcessorDeps{
		Messages:    pgStorage.NewChatMessageRepo(pool),
		Requests:    pgStorage.NewChatRequestRepo(pool),
		Spaces:      pgStorage.NewSpaceRepo(pool),
		Memberships: pgStorage.NewMembershipRepo(pool),
		CardActions: pgStorage.NewCardActionRepo(pool),
		People:      people,
	})

	// Business services
	deliverySvc := service.NewDeliveryService(deliveryLogRepo, routes, log)
	registrySvc := service.NewRegistryService(webhookRepo, webexClient, encSvc, cfg.Webex.TargetURL, log)
	logSvc := service.NewLogService(deliveryLogRepo)
	userSvc := service.NewUserService(userRepo, hashSvc)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc, redisStorage.NewTokenDenylist(rdb), log)
	auditSvc := service.NewAuditService(auditRepo, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		DeliverySvc:     deliverySvc,
		RegistrySvc:     registrySvc,
		LogSvc:          logSvc,
		UserSvc:         userSvc,
		AuthSvc:         authSvc,
		SigSvc:          sigSvc,
		RateLimitStore:  redisStorage.NewRateLimitStore(rdb),
		AuditSvc:        auditSvc,
		HealthCheckers:  []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		WebhookSecret:   cfg.Webex.WebhookSecret,
		VerifySignature: cfg.Webex.VerifySignature,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		Logger:          log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
