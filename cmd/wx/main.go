package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/yegors/co-wx/internal/config"
	"github.com/yegors/co-wx/internal/export"
	"github.com/yegors/co-wx/internal/menu"
	"github.com/yegors/co-wx/internal/weather"
	"github.com/yegors/co-wx/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: cfg.Logging.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting co-wx",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
		logger.String("base_url", cfg.API.BaseURL),
	)

	client := weather.NewClient(weather.ClientConfig{
		BaseURL:      cfg.API.BaseURL,
		APIKey:       cfg.API.APIKey,
		APIKeyHeader: cfg.API.APIKeyHeader,
		Timeout:      time.Duration(cfg.API.RequestTimeoutSeconds) * time.Second,
	}, log)
	service := weather.NewService(client, log)

	exporter := export.NewExporter(export.Config{
		JSONDir:         cfg.Export.JSONDir,
		JSONFileName:    cfg.Export.JSONFileName,
		PrettyJSON:      cfg.Export.PrettyJSON,
		OutputDir:       cfg.Export.OutputDir,
		DefaultTextName: cfg.Export.DefaultTextName,
		OpenViewer:      cfg.Export.OpenViewer,
		ViewerPath:      cfg.Export.ViewerPath,
	}, nil, log)

	// Escape sequences only make sense on a real terminal
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	m := menu.New(os.Stdin, os.Stdout, service, exporter, menu.Options{
		ClearScreen:      cfg.UI.ClearScreen && interactive,
		PauseAfterAction: cfg.UI.PauseAfterAction,
		ShowJSON:         cfg.UI.ShowJSON,
	}, log)

	// Cancel in-flight requests and prompts on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Session ended with an error", logger.Error(err))
		log.Sync()
		os.Exit(1)
	}

	log.Info("Session finished")
}
