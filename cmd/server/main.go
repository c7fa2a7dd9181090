package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sketchguess/internal/app"
	"sketchguess/internal/audit"
	"sketchguess/internal/config"
	httpTransport "sketchguess/internal/transport/http"
	"sketchguess/internal/wordstore"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set up logger
	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting sketchguess server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	for _, warning := range cfg.Warnings() {
		logger.Warn("configuration warning", "warning", warning)
	}

	words, err := loadWords(cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to load word list", "error", err)
		os.Exit(1)
	}

	publisher := newPublisher(cfg.Audit, logger)
	defer publisher.Close()

	dir := app.NewDirectory(words, app.RandomCodes{Length: cfg.Game.RoomCodeLength}, logger)
	defer dir.Close()

	router := app.NewRouter(dir, app.WithLogger(logger), app.WithPublisher(publisher))

	server := httpTransport.NewServer(cfg, dir, router, logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, logOpts))
}

// loadWords returns the built-in list unless a word database is configured
func loadWords(cfg config.StorageConfig, logger *slog.Logger) (*app.StaticWordBank, error) {
	if cfg.WordsDBPath == "" {
		return app.NewStaticWordBank(nil), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := wordstore.Open(ctx, cfg.WordsDBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	words, err := store.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}

	bank := app.NewStaticWordBank(words)
	logger.Info("word list loaded", "path", cfg.WordsDBPath, "words", bank.Size())
	return bank, nil
}

func newPublisher(cfg config.AuditConfig, logger *slog.Logger) audit.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.Nop{}
	}

	logger.Info("publishing round records", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
