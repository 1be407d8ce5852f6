package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcatalog "github.com/yoquet/backend/internal/application/catalog"
	appidentity "github.com/yoquet/backend/internal/application/identity"
	appmedia "github.com/yoquet/backend/internal/application/media"
	apporder "github.com/yoquet/backend/internal/application/order"
	"github.com/yoquet/backend/internal/domain/media"
	"github.com/yoquet/backend/internal/infrastructure/auth"
	"github.com/yoquet/backend/internal/infrastructure/config"
	"github.com/yoquet/backend/internal/infrastructure/logger"
	"github.com/yoquet/backend/internal/infrastructure/mailer"
	inframedia "github.com/yoquet/backend/internal/infrastructure/media"
	"github.com/yoquet/backend/internal/infrastructure/persistence"
	"github.com/yoquet/backend/internal/infrastructure/storage"
	"github.com/yoquet/backend/internal/interfaces/http/handler"
	"github.com/yoquet/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		os.Stderr.WriteString("logger error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := persistence.NewDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis, log)
		if err != nil {
			return err
		}
		blacklist = redisBlacklist
	} else {
		log.Warn("redis disabled, using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	defer blacklist.Close()

	jwtService := auth.NewJWTService(cfg.JWT)
	resolver := media.NewResolver(media.ResolverConfig{
		CloudName:    cfg.Media.CloudName,
		CDNHost:      "res.cloudinary.com",
		LegacyPrefix: cfg.Media.LegacyPrefix,
	})

	categoryRepo := persistence.NewCategoryRepository(db.DB)
	productRepo := persistence.NewProductRepository(db.DB)
	orderRepo := persistence.NewOrderRepository(db.DB)
	userRepo := persistence.NewUserRepository(db.DB)

	cdn, err := inframedia.NewCloudinaryCDN(cfg.Media, log)
	if err != nil {
		return err
	}
	store, err := storage.NewS3Storage(cfg.Storage, log)
	if err != nil {
		return err
	}

	categoryService := appcatalog.NewCategoryService(categoryRepo, log)
	productService := appcatalog.NewProductService(productRepo, categoryRepo, resolver, log)
	exportService := appcatalog.NewExportService(productRepo, resolver, store, log)
	checkoutService := apporder.NewCheckoutService(orderRepo, productRepo, log)
	authService := appidentity.NewAuthService(userRepo, jwtService, blacklist,
		mailer.NewLogMailer(log), cfg.App.FrontendURL, log)
	syncService := appmedia.NewSyncService(productRepo, resolver, cdn,
		cfg.Media.PlaceholderURL, log)

	r := router.New(cfg, jwtService, blacklist, log)

	handler.NewHealthHandler(db, version, log).RegisterRoutes(r.Engine)
	handler.NewCategoryHandler(categoryService, log).RegisterRoutes(r.Public, r.Staff)
	handler.NewProductHandler(productService, log).RegisterRoutes(r.Public, r.Staff)
	handler.NewOrderHandler(checkoutService, log).RegisterRoutes(r.Authed)
	handler.NewAuthHandler(authService, log).RegisterRoutes(r.AuthPublic, r.Authed)
	handler.NewAdminHandler(productService, exportService, syncService, log).RegisterRoutes(r.Staff)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
