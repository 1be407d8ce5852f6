// Command mediafix repairs legacy product image references and pushes
// local media files up to the CDN.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appmedia "github.com/yoquet/backend/internal/application/media"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/infrastructure/config"
	"github.com/yoquet/backend/internal/infrastructure/logger"
	inframedia "github.com/yoquet/backend/internal/infrastructure/media"
	"github.com/yoquet/backend/internal/infrastructure/persistence"
)

func main() {
	var (
		apply  = flag.Bool("apply", false, "persist the rewrites (default is a dry run)")
		verify = flag.Bool("verify", false, "check each asset against the CDN, substituting the placeholder when gone (always on with -apply)")
		upload = flag.Bool("upload", false, "upload local media files before repairing")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	cdn, err := inframedia.NewCloudinaryCDN(cfg.Media, log)
	if err != nil {
		log.Fatal("cloudinary client failed", zap.Error(err))
	}

	resolver := media.NewResolver(media.ResolverConfig{
		CloudName:    cfg.Media.CloudName,
		CDNHost:      "res.cloudinary.com",
		LegacyPrefix: cfg.Media.LegacyPrefix,
	})
	sync := appmedia.NewSyncService(
		persistence.NewProductRepository(db.DB),
		resolver,
		cdn,
		cfg.Media.PlaceholderURL,
		log,
	)

	if *upload {
		results, err := sync.UploadLocal(ctx, cfg.Media.LocalDir)
		if err != nil {
			log.Fatal("upload failed", zap.Error(err))
		}
		for _, r := range results {
			log.Info("uploaded", zap.String("file", r.File), zap.String("url", r.URL))
		}
	}

	report, err := sync.Repair(ctx, *apply, *verify)
	if err != nil {
		log.Fatal("repair pass failed", zap.Error(err))
	}

	for _, change := range report.Changes {
		log.Info("image reference",
			zap.String("product", change.ProductName),
			zap.String("before", change.Before),
			zap.String("after", change.After),
			zap.Bool("missing", change.Missing),
		)
	}
	log.Info("done",
		zap.Int("scanned", report.Scanned),
		zap.Int("changed", report.Changed),
		zap.Int("missing", report.Missing),
		zap.Bool("applied", report.Applied),
	)
	if !*apply && report.Changed > 0 {
		log.Info("dry run only, re-run with -apply to persist the rewrites")
	}
}
