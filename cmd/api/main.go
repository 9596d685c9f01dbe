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

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/imf-ops/gadget-api/docs"
	"github.com/imf-ops/gadget-api/internal/api"
	"github.com/imf-ops/gadget-api/internal/api/handlers"
	"github.com/imf-ops/gadget-api/internal/queue/tasks"
	"github.com/imf-ops/gadget-api/internal/repository"
	"github.com/imf-ops/gadget-api/internal/services"
	"github.com/imf-ops/gadget-api/pkg/config"
	"github.com/imf-ops/gadget-api/pkg/database"
	"github.com/imf-ops/gadget-api/pkg/logger"
)

// @title           Gadget Registry API
// @version         1.0
// @description     Inventory and lifecycle management for field gadgets.

// @contact.name   IMF Gadget Desk

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg := config.MustLoad()

	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("gadget api stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

// run serves until ctx is canceled or the listener fails. Every resource it
// opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("starting gadget api",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("confirmation_mode", cfg.ConfirmationMode),
	)

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{
		Logger:  log.Named("gorm"),
		Verbose: cfg.AppEnv != "production",
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	// Postgres schemas are owned by cmd/migrate.
	if database.IsSQLite(cfg.DatabaseURL) {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("sqlite auto-migrate: %w", err)
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	gadgetRepo := repository.NewGadgetRepository(db)

	authSvc := services.NewAuthService(userRepo, services.AuthConfig{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	})

	var gadgetOpts []services.GadgetServiceOption
	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection: %w", err)
		}

		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		gadgetOpts = append(gadgetOpts, services.WithEventPublisher(tasks.NewPublisher(client)))
	} else {
		log.Info("redis not configured, lifecycle events are not published")
	}

	if cfg.ConfirmationMode == config.ConfirmationVerified {
		var store repository.ChallengeStore
		if rdb != nil {
			store = repository.NewRedisChallengeStore(rdb)
		} else {
			log.Warn("verified confirmation without redis keeps challenges in process memory")
			store = repository.NewMemoryChallengeStore()
		}
		gadgetOpts = append(gadgetOpts, services.WithVerifiedConfirmation(store, cfg.ChallengeTTL))
	}

	gadgetSvc := services.NewGadgetService(gadgetRepo, gadgetOpts...)

	router := api.NewRouter(api.Dependencies{
		Verifier:       authSvc,
		DB:             sqlDB,
		AuthHandler:    handlers.NewAuthHandler(authSvc),
		GadgetsHandler: handlers.NewGadgetsHandler(gadgetSvc),
		DocsURL:        cfg.BaseURL + "/api-docs/doc.json",
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case serveErr = <-errCh:
		log.Error("server error", zap.Error(serveErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(serveErr, fmt.Errorf("server shutdown: %w", err))
	}
	if serveErr != nil {
		return fmt.Errorf("serve: %w", serveErr)
	}
	log.Info("server exited gracefully")
	return nil
}
