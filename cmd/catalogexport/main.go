// Command catalogexport dumps the product catalog as CSV into object
// storage.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcatalog "github.com/yoquet/backend/internal/application/catalog"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/infrastructure/config"
	"github.com/yoquet/backend/internal/infrastructure/logger"
	"github.com/yoquet/backend/internal/infrastructure/persistence"
	"github.com/yoquet/backend/internal/infrastructure/storage"
)

func main() {
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	store, err := storage.NewS3Storage(cfg.Storage, log)
	if err != nil {
		log.Fatal("storage client failed", zap.Error(err))
	}

	resolver := media.NewResolver(media.ResolverConfig{
		CloudName:    cfg.Media.CloudName,
		CDNHost:      "res.cloudinary.com",
		LegacyPrefix: cfg.Media.LegacyPrefix,
	})
	export := appcatalog.NewExportService(
		persistence.NewProductRepository(db.DB),
		resolver,
		store,
		log,
	)

	result, err := export.Export(ctx)
	if err != nil {
		log.Fatal("export failed", zap.Error(err))
	}
	log.Info("catalog exported",
		zap.String("key", result.Key),
		zap.Int("products", result.Products),
	)
}
