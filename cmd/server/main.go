package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/blobstore"
	"github.com/LibrelandCommunity/libreland-server/internal/cache"
	"github.com/LibrelandCommunity/libreland-server/internal/config"
	"github.com/LibrelandCommunity/libreland-server/internal/database"
	"github.com/LibrelandCommunity/libreland-server/internal/reqlog"
	"github.com/LibrelandCommunity/libreland-server/internal/server"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	_ "github.com/LibrelandCommunity/libreland-server/docs/api" // Swagger docs
)

// @title Libreland API
// @version 1.0.0
// @description Compatibility server for the Anyland game client
// @termsOfService http://swagger.io/terms/

// @contact.name Libreland Community
// @contact.url https://github.com/LibrelandCommunity/libreland-server

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token

const shutdownTimeout = 10 * time.Second

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", "error", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		fatal("failed to connect to database", "error", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		fatal("failed to run migrations", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ImportOnStart {
		importArchive(ctx, cfg, db)
	}

	if sqlDB, err := db.DB(); err == nil {
		prometheus.MustRegister(collectors.NewDBStatsCollector(sqlDB, cfg.DBDatabase))
	}

	areaBundles, err := blobstore.Open(ctx, cfg.AreaBundlesSource)
	if err != nil {
		fatal("failed to open area bundle store", "source", cfg.AreaBundlesSource, "error", err)
	}
	images, err := blobstore.Open(ctx, cfg.UGCImagesSource)
	if err != nil {
		fatal("failed to open image store", "source", cfg.UGCImagesSource, "error", err)
	}

	deps := server.Deps{
		Config:      cfg,
		DB:          db,
		Holds:       cache.NewHoldGeometry(cfg.HoldGeometryMaxEntries, cfg.HoldGeometryTTL),
		Requests:    reqlog.New(cfg.UnimplementedDir, cfg.UnimplementedLZ4),
		AreaBundles: areaBundles,
		Images:      images,
	}

	apps := []struct {
		name string
		port string
		app  *fiber.App
	}{
		{"api", cfg.PortAPI, server.NewAPIApp(deps)},
		{"thingdefs", cfg.PortCDNThingDefs, server.NewThingDefsApp(deps)},
		{"areabundles", cfg.PortCDNAreaBundles, server.NewAreaBundlesApp(deps)},
		{"ugcimages", cfg.PortCDNUGCImages, server.NewImagesApp(deps)},
	}

	var wg sync.WaitGroup
	for _, a := range apps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr := net.JoinHostPort(cfg.Host, a.port)
			slog.Info("starting server", "server", a.name, "addr", addr)
			if err := a.app.Listen(addr); err != nil {
				slog.Error("server failed", "server", a.name, "addr", addr, "error", err)
				stop()
			}
		}()
	}

	// Graceful shutdown
	<-ctx.Done()
	slog.Info("gracefully shutting down")
	for _, a := range apps {
		if err := a.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Error("shutdown failed", "server", a.name, "error", err)
		}
	}
	wg.Wait()
	slog.Info("servers stopped")
}

// importArchive loads the archive tree into a fresh store. A failed import is
// logged and the servers still start.
func importArchive(ctx context.Context, cfg *config.Config, db *gorm.DB) {
	fresh, err := database.IsFresh(db)
	if err != nil {
		slog.Error("failed to check for a fresh store", "error", err)
		return
	}
	if !fresh {
		slog.Info("store already populated, skipping archive import")
		return
	}

	report, err := services.ImportArchive(ctx, db, cfg.DataDir)
	if err != nil {
		slog.Error("archive import failed", "root", cfg.DataDir, "error", err)
		return
	}
	totals := report.Totals()
	slog.Info("archive import finished",
		"root", report.Root,
		"imported", totals.Imported,
		"failed", totals.Failed,
		"skipped", totals.Skipped,
		"duration", report.Duration)
}
