package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/LibrelandCommunity/libreland-server/internal/reqlog"
	"github.com/joho/godotenv"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dir string
	flag.StringVar(&dir, "d", "", "directory of recorded requests (default UNIMPLEMENTED_DIR)")
	var dryRun bool
	flag.BoolVar(&dryRun, "n", false, "report duplicates without deleting them")
	flag.Parse()

	usage := `
Delete duplicate recordings of unimplemented requests, keeping the oldest of
each server:method:url.

Usage:

dedupe [-h] [-n] [-f ENV_FILE_PATH] [-d DIR]

ENV_FILE_PATH: path to the .env file
DIR: recorded request directory, defaults to $UNIMPLEMENTED_DIR or unimplemented-requests

example
  dedupe -n -d ./unimplemented-requests
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		slog.Info("loading environment variables", "file", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			slog.Error("failed to load environment variables", "file", envFilename, "error", err)
			os.Exit(1)
		}
	}

	if dir == "" {
		dir = os.Getenv("UNIMPLEMENTED_DIR")
	}
	if dir == "" {
		dir = "unimplemented-requests"
	}

	result, err := reqlog.Dedupe(dir, dryRun)
	if err != nil {
		slog.Error("dedupe failed", "dir", dir, "error", err)
		os.Exit(1)
	}
	slog.Info("dedupe finished",
		"dir", dir,
		"dryRun", dryRun,
		"files", result.Files,
		"kept", result.Kept,
		"deleted", result.Deleted,
		"failed", result.Failed)
	if result.Failed > 0 {
		os.Exit(1)
	}
}
