package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/okri/splitbook/internal/adapter/http"
	"github.com/okri/splitbook/internal/adapter/http/handler"
	"github.com/okri/splitbook/internal/adapter/http/middleware"
	postgresRepo "github.com/okri/splitbook/internal/adapter/repository/postgres"
	redisRepo "github.com/okri/splitbook/internal/adapter/repository/redis"
	"github.com/okri/splitbook/internal/infrastructure/auth"
	"github.com/okri/splitbook/internal/infrastructure/config"
	"github.com/okri/splitbook/internal/infrastructure/logger"
	"github.com/okri/splitbook/internal/infrastructure/metrics"
	"github.com/okri/splitbook/internal/infrastructure/postgres"
	"github.com/okri/splitbook/internal/infrastructure/redis"
	"github.com/okri/splitbook/internal/usecase"
)

func main() {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.ConnectTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, cfg.ConnectTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	guard := usecase.NewAccessGuard(accountRepo)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, guard, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, guard, idGen)
	transferUC := usecase.NewTransferCoordinator(txManager, accountRepo, transactionRepo, guard, idGen)

	m := metrics.New()
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, m),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, m),
		TransferHandler:    handler.NewTransferHandler(transferUC, m),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		TokenVerifier:      jwtManager,
		IdempotencyStore:   idempotencyStore,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
		Logger:             log.Logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
