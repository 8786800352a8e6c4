package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/prudhvinik1/whale-users/internal/config"
	"github.com/prudhvinik1/whale-users/internal/logger"
	"github.com/prudhvinik1/whale-users/internal/migration"
	"go.uber.org/zap"
)

func main() {
	command := flag.String("command", "up", "migration command (up/down/status/version/reset)")
	flag.Parse()

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

	migrator, err := migration.NewMigrator(cfg.DatabaseURL, zapLog)
	if err != nil {
		zapLog.Fatal("failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch *command {
	case "up":
		if err := migrator.Up(); err != nil {
			zapLog.Fatal("failed to run migrations", zap.Error(err))
		}
		zapLog.Info("successfully ran migrations")

	case "down":
		if err := migrator.Down(); err != nil {
			zapLog.Fatal("failed to rollback migrations", zap.Error(err))
		}
		zapLog.Info("successfully rolled back migrations")

	case "status":
		if err := migrator.Status(); err != nil {
			zapLog.Fatal("failed to get migration status", zap.Error(err))
		}

	case "version":
		version, err := migrator.Version()
		if err != nil {
			zapLog.Fatal("failed to get migration version", zap.Error(err))
		}
		latest, err := migrator.LatestVersion()
		if err != nil {
			zapLog.Fatal("failed to read embedded migrations", zap.Error(err))
		}
		zapLog.Info("migration version", zap.Int64("current", version), zap.Int64("latest", latest))

	case "reset":
		if err := migrator.Reset(); err != nil {
			zapLog.Fatal("failed to reset migrations", zap.Error(err))
		}
		zapLog.Info("successfully rolled back all migrations")

	default:
		zapLog.Fatal("unknown command", zap.String("command", *command))
	}
}
