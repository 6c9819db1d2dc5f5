package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/poiconv/internal/config"
	"github.com/JonMunkholm/poiconv/internal/core"
	"github.com/JonMunkholm/poiconv/internal/logging"
	"github.com/JonMunkholm/poiconv/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		printFailure(os.Stderr, err)
		return 1
	}

	// Setup structured logging based on config
	logCloser := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File, cfg.Logging.FileMaxSizeMB)
	defer logCloser.Close()

	runID := uuid.New().String()
	ctx := logging.ContextWithRunID(context.Background(), runID)
	logger := logging.FromContext(ctx)

	logger.Info("configuration loaded",
		"input", cfg.Convert.InputPath,
		"output", cfg.Convert.OutputPath,
		"shape", cfg.Convert.Shape,
		"encodings", cfg.Convert.Encodings,
	)
	logger.Debug("effective configuration", "config", cfg.String())

	result, err := convert(ctx, cfg)

	if cfg.Metrics.TextfilePath != "" {
		m := metrics.New()
		m.Observe(result, err, time.Now())
		if werr := m.WriteTextfile(cfg.Metrics.TextfilePath); werr != nil {
			logger.Warn("failed to write metrics", "path", cfg.Metrics.TextfilePath, "error", werr)
		}
	}

	if err != nil {
		logger.Error("conversion failed", "error", err, "code", core.MapError(err).Code)
		printFailure(os.Stderr, err)
		return 1
	}

	logger.Info("conversion finished",
		"accepted", result.Accepted,
		"rejected", result.Skipped(),
		"duration", result.Duration,
	)
	printSuccess(os.Stdout, result)
	return 0
}

func convert(ctx context.Context, cfg *config.Config) (*core.ConversionResult, error) {
	converter, err := core.NewConverter(core.Options{
		InputPath:   cfg.Convert.InputPath,
		OutputPath:  cfg.Convert.OutputPath,
		Shape:       cfg.Convert.Shape,
		Encodings:   cfg.Convert.Encodings,
		Columns:     cfg.Convert.Columns,
		RejectsPath: cfg.Convert.RejectsPath,
		Compress:    cfg.Convert.Compress,
		Verify:      cfg.Convert.Verify,
	})
	if err != nil {
		return nil, fmt.Errorf("converter config: %w", err)
	}
	return converter.Run(ctx)
}
