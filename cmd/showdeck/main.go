package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"showdeck/internal/app"
	"showdeck/internal/config"
	"showdeck/internal/logging"
	"showdeck/internal/repl"
)

func main() {
	baseURL := flag.String("api-base-url", "", "override the catalog API base URL for this run")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to resolve home directory: %v", err)
	}

	baseDir := filepath.Join(home, ".showdeck")
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		log.Fatalf("failed to create config directory: %v", err)
	}

	logPath := filepath.Join(baseDir, "showdeck.log")
	logging.Configure(logPath)

	configPath := filepath.Join(baseDir, "config.yaml")
	cfg, err := config.Ensure(ctx, configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		cfg.APIBaseURL = *baseURL
	}

	application := app.New(cfg, configPath)

	// The initial catalog load is terminal on failure: no partial UI.
	if err := application.Initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error loading show catalog: %v\n", err)
		os.Exit(1)
	}

	if err := repl.Run(ctx, application); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
