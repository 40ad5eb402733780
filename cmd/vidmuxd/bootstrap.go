package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"vidmux/internal/config"
	"vidmux/internal/convert"
	"vidmux/internal/daemon"
	"vidmux/internal/deps"
	"vidmux/internal/download"
	"vidmux/internal/encode"
	"vidmux/internal/history"
	"vidmux/internal/logging"
	"vidmux/internal/pipeline"
	"vidmux/internal/preflight"
	"vidmux/internal/server"
)

// run wires the subsystems and blocks until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	statuses := preflight.CheckSystemDeps(cfg)
	for _, status := range statuses {
		if !status.Available {
			level := logger.Warn
			if !status.Optional {
				level = logger.Error
			}
			level("dependency unavailable",
				logging.String("name", status.Name),
				logging.String("detail", status.Detail),
			)
		}
	}
	if !deps.AllRequiredAvailable(statuses) {
		return fmt.Errorf("required dependencies missing")
	}
	if results := preflight.RunAll(cfg); !preflight.AllPassed(results) {
		for _, result := range results {
			if !result.Passed {
				logger.Error("preflight check failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail),
				)
			}
		}
		return fmt.Errorf("preflight checks failed")
	}

	downloader, err := download.New(cfg.YtDlpBinary())
	if err != nil {
		return fmt.Errorf("build downloader: %w", err)
	}
	encoder, err := encode.New(cfg.FFmpegBinary())
	if err != nil {
		return fmt.Errorf("build encoder: %w", err)
	}
	pipe, err := pipeline.New(
		cfg.Paths.WorkDir,
		downloader,
		pipeline.NewStreamProbe(cfg.FFprobeBinary()),
		encoder,
		logger,
	)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	var docs *convert.DocumentConverter
	if _, lookErr := exec.LookPath(cfg.SofficeBinary()); lookErr == nil {
		docs, err = convert.NewDocumentConverter(cfg.SofficeBinary())
		if err != nil {
			return fmt.Errorf("build document converter: %w", err)
		}
	} else {
		logger.Info("document conversion disabled", logging.String("binary", cfg.SofficeBinary()))
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	srv, err := server.New(cfg, logger, pipe, encoder, docs, store)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	d, err := daemon.New(cfg, logger, srv.NewHTTPServer())
	if err != nil {
		return fmt.Errorf("build daemon: %w", err)
	}
	return d.Run(ctx)
}
