package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cnc-fabbook/config"
	httpHandler "cnc-fabbook/internal/adapter/http/handler"
	"cnc-fabbook/internal/adapter/storage/jsonstore"
	"cnc-fabbook/internal/adapter/storage/local"
	pgStorage "cnc-fabbook/internal/adapter/storage/postgres"
	redisStorage "cnc-fabbook/internal/adapter/storage/redis"
	"cnc-fabbook/internal/core/domain"
	"cnc-fabbook/internal/core/ports"
	"cnc-fabbook/internal/service"
	"cnc-fabbook/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting CNC FabBook")

	ctx := context.Background()

	// Repositories: JSON collections on disk by default, PostgreSQL for the
	// money-side records when configured.
	var (
		profileRepo  ports.ProfileRepository
		depositRepo  ports.FundRequestRepository
		withdrawRepo ports.FundRequestRepository
		txRepo       ports.TransactionRepository
	)
	healthCheckers := []ports.HealthChecker{}

	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		profileRepo = pgStorage.NewProfileRepo(pool)
		depositRepo = pgStorage.NewFundRequestRepo(pool, domain.FundRequestKindDeposit)
		withdrawRepo = pgStorage.NewFundRequestRepo(pool, domain.FundRequestKindWithdraw)
		txRepo = pgStorage.NewTransactionRepo(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	case "file":
		dir := cfg.Storage.DataDir
		profileRepo = jsonstore.NewProfileRepo(dir)
		depositRepo = jsonstore.NewFundRequestRepo(dir, "deposit_requests")
		withdrawRepo = jsonstore.NewFundRequestRepo(dir, "withdraw_requests")
		txRepo = jsonstore.NewTransactionRepo(dir)
	default:
		log.Fatal().Str("driver", cfg.Storage.Driver).Msg("Unknown storage driver")
	}

	// Registrations and the feed stay on JSON collections under both drivers.
	regRepo := jsonstore.NewRegistrationRepo(cfg.Storage.DataDir)
	postRepo := jsonstore.NewPostRepo(cfg.Storage.DataDir)
	storyRepo := jsonstore.NewStoryRepo(cfg.Storage.DataDir)
	commentRepo := jsonstore.NewCommentRepo(cfg.Storage.DataDir)
	aboutRepo := jsonstore.NewAboutRepo(cfg.Storage.DataDir)
	bioRepo := jsonstore.NewBioRepo(cfg.Storage.DataDir)

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")
	healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))

	resetCodes := redisStorage.NewResetCodeStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)
	var grants ports.GrantStore
	if cfg.Payment.SingleUse {
		grants = redisStorage.NewGrantStore(rdb)
	}

	// Uploaded assets live on local disk.
	files, err := local.NewFileStore(cfg.Storage.UploadDir, cfg.Server.BaseURL+"/uploads")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file store")
	}

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	sms := service.NewLogSMSSender(cfg.SMS.SenderName, log)

	// Initialize business services
	ledgerSvc := service.NewLedgerService(profileRepo, log)
	txSvc := service.NewTransactionService(txRepo, log)
	settlementSvc := service.NewSettlementService(ledgerSvc, txRepo, log)
	downloadSvc := service.NewDownloadService(txRepo, files, grants, cfg.Payment.DownloadWindow, cfg.Payment.SingleUse, log)
	fundSvc := service.NewFundRequestService(depositRepo, withdrawRepo, ledgerSvc, txSvc, log)
	authSvc := service.NewAuthService(regRepo, hashSvc, tokenSvc, sms, resetCodes, cfg.SMS.ResetCodeTTL, log)
	profileSvc := service.NewProfileService(profileRepo, aboutRepo, bioRepo, log)
	feedSvc := service.NewFeedService(postRepo, storyRepo, commentRepo, cfg.Feed.StoryTTL, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Config:         cfg,
		Log:            log,
		Auth:           httpHandler.NewAuthHandler(authSvc),
		Balance:        httpHandler.NewBalanceHandler(ledgerSvc),
		FundRequest:    httpHandler.NewFundRequestHandler(fundSvc),
		Payment:        httpHandler.NewPaymentHandler(settlementSvc, downloadSvc),
		Transaction:    httpHandler.NewTransactionHandler(txSvc),
		Profile:        httpHandler.NewProfileHandler(profileSvc, files),
		Feed:           httpHandler.NewFeedHandler(feedSvc, files),
		DXF:            httpHandler.NewDXFHandler(feedSvc, files, log),
		TokenSvc:       tokenSvc,
		Files:          files,
		RateLimits:     rateLimitStore,
		HealthCheckers: healthCheckers,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
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
