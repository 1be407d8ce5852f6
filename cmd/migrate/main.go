package main

import (
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/infrastructure/config"
	"github.com/yoquet/backend/internal/infrastructure/logger"
	"github.com/yoquet/backend/internal/infrastructure/migration"
)

func main() {
	var (
		direction = flag.String("direction", "up", "migration direction: up, down or version")
		source    = flag.String("source", "migrations", "path to the migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync(log)

	migrator, err := migration.NewMigrator(cfg.Database, *source, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer migrator.Close()

	switch *direction {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			log.Fatal("failed to read version", zap.Error(err))
		}
		log.Info("current migration state",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	default:
		log.Fatal("unknown direction", zap.String("direction", *direction))
	}
}
