package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prudhvinik1/whale-users/internal/config"
	"github.com/prudhvinik1/whale-users/internal/database"
	"github.com/prudhvinik1/whale-users/internal/handlers"
	"github.com/prudhvinik1/whale-users/internal/logger"
	"github.com/prudhvinik1/whale-users/internal/migration"
	"github.com/prudhvinik1/whale-users/internal/repositories"
	"github.com/prudhvinik1/whale-users/internal/services"
	"github.com/prudhvinik1/whale-users/internal/utils"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLog.Sync()

	if cfg.MigrateOnStart {
		if err := runMigrations(cfg.DatabaseURL, zapLog); err != nil {
			zapLog.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, zapLog)
	if err != nil {
		zapLog.Fatal("failed to create postgres pool", zap.Error(err))
	}
	defer postgresPool.Close()

	var viewCache repositories.AccountViewCache = repositories.NoopAccountViewCache{}
	if cfg.CacheEnabled() {
		redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, zapLog)
		if err != nil {
			zapLog.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		viewCache = repositories.NewRedisAccountViewCache(redisClient, cfg.CacheTTL, cfg.CacheMarkerTTL, zapLog)
	} else {
		zapLog.Info("REDIS_URL not set, account view cache disabled")
	}

	accountRepo := repositories.NewPostgresAccountRepository(postgresPool)
	accountService := services.NewAccountService(
		accountRepo,
		utils.NewBcryptHasherWithCost(cfg.BcryptCost),
		viewCache,
		zapLog,
	)

	router := handlers.NewRouter(accountService, postgresPool, zapLog, handlers.RouterConfig{
		Version:        version,
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		zapLog.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			zapLog.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zapLog.Info("starting server", zap.String("port", cfg.ServerPort), zap.String("version", version))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		zapLog.Fatal("server error", zap.Error(err))
	}

	<-done
	zapLog.Info("server stopped gracefully")
}

func runMigrations(databaseURL string, log *zap.Logger) error {
	migrator, err := migration.NewMigrator(databaseURL, log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}
