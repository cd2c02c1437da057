package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LibrelandCommunity/libreland-server/internal/config"
	"github.com/LibrelandCommunity/libreland-server/internal/database"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var root string
	flag.StringVar(&root, "d", "", "archive root (default DATA_DIR)")
	var force bool
	flag.BoolVar(&force, "force", false, "import even when the store is already populated")
	flag.Parse()

	usage := `
Import an archive tree into the store. Records are upserted by id, so a
partial import can be re-run.

Usage:

importer [-h] [-force] [-f ENV_FILE_PATH] [-d ARCHIVE_ROOT]

example
  importer -force -d ./data
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		if err := os.Setenv("ENV_FILE", envFilename); err != nil {
			slog.Error("failed to set ENV_FILE", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	if root == "" {
		root = cfg.DataDir
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if !force {
		fresh, err := database.IsFresh(db)
		if err != nil {
			slog.Error("failed to check for a fresh store", "error", err)
			os.Exit(1)
		}
		if !fresh {
			slog.Info("store already populated, use -force to import anyway")
			return
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := services.ImportArchive(ctx, db, root)
	if err != nil {
		slog.Error("archive import failed", "root", root, "error", err)
		os.Exit(1)
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("failed to marshal import report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
}
