package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/ai"
	"github.com/pdfscrubber/pdf-scrubber/internal/application/service"
	"github.com/pdfscrubber/pdf-scrubber/internal/audit"
	"github.com/pdfscrubber/pdf-scrubber/internal/config"
	"github.com/pdfscrubber/pdf-scrubber/internal/export"
	httpserver "github.com/pdfscrubber/pdf-scrubber/internal/interfaces/http"
	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
	"github.com/pdfscrubber/pdf-scrubber/internal/watch"
	"github.com/pdfscrubber/pdf-scrubber/pkg/database"
	"github.com/pdfscrubber/pdf-scrubber/pkg/utils"
)

func main() {
	// Optional .env for local development; ignored when absent.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting PDF Scrubber",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Fatal("Failed to create data directory", zap.Error(err))
	}

	db, err := database.New(database.Config{Path: cfg.Database.Path}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	journal, err := audit.NewJournal(db, logger)
	if err != nil {
		logger.Fatal("Failed to initialize audit journal", zap.Error(err))
	}

	var extractor scrubber.Extractor
	switch cfg.Extraction.Provider {
	case "openai":
		extractor = ai.NewExtractor(cfg.Extraction.APIKey, cfg.Extraction.Model, logger)
		logger.Info("Using OpenAI extraction", zap.String("model", cfg.Extraction.Model))
	default:
		extractor = scrubber.StubExtractor{}
		logger.Info("Using stub extraction")
	}

	center := notify.NewCenter(cfg.Notify.TTL, logger)
	defer center.Close()

	store := review.NewStore(logger)
	processor := scrubber.NewProcessor(
		scrubber.NewFitzTextReader(logger),
		extractor,
		store,
		cfg.Processing.PacingDelay,
		logger,
	)
	committer := review.NewCommitter(logger)
	reporter := export.NewReporter(logger)

	var watcher *watch.Watcher
	if cfg.Watch.Enabled {
		watcher = watch.NewWatcher(center, logger)
	}

	scrub := service.NewScrubService(store, processor, committer, center, watcher, journal, reporter, logger)
	defer scrub.Shutdown()

	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, scrub, center, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
		cancel()
		select {
		case <-errCh:
		case <-time.After(15 * time.Second):
			logger.Warn("Shutdown timed out")
		}
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}

	logger.Info("Server exited successfully")
}
