package main

import (
	"fmt"
	"log/slog"
	"os/exec"

	"vidmux/internal/config"
	"vidmux/internal/convert"
	"vidmux/internal/download"
	"vidmux/internal/encode"
	"vidmux/internal/history"
	"vidmux/internal/logging"
	"vidmux/internal/pipeline"
)

// runtime bundles the wired subsystems a command needs to do real work.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
	encoder  *encode.FFmpeg
	docs     *convert.DocumentConverter // nil when soffice is absent
	history  *history.Store             // nil when disabled
}

// buildRuntime assembles the pipeline and its collaborators from config.
func buildRuntime(cfg *config.Config, logger *slog.Logger) (*runtime, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	downloader, err := download.New(cfg.YtDlpBinary())
	if err != nil {
		return nil, fmt.Errorf("build downloader: %w", err)
	}

	encoder, err := encode.New(cfg.FFmpegBinary())
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}

	pipe, err := pipeline.New(
		cfg.Paths.WorkDir,
		downloader,
		pipeline.NewStreamProbe(cfg.FFprobeBinary()),
		encoder,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	rt := &runtime{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipe,
		encoder:  encoder,
	}

	if _, err := exec.LookPath(cfg.SofficeBinary()); err == nil {
		docs, docErr := convert.NewDocumentConverter(cfg.SofficeBinary())
		if docErr != nil {
			return nil, fmt.Errorf("build document converter: %w", docErr)
		}
		rt.docs = docs
	}

	if cfg.History.Enabled {
		store, histErr := history.Open(cfg)
		if histErr != nil {
			return nil, fmt.Errorf("open history: %w", histErr)
		}
		rt.history = store
	}

	return rt, nil
}

// Close releases runtime resources.
func (r *runtime) Close() error {
	if r.history != nil {
		return r.history.Close()
	}
	return nil
}

func (r *runtime) encodeDefaults() encode.Params {
	return encode.Params{
		Quality:      r.cfg.Encode.Quality,
		Preset:       r.cfg.Encode.Preset,
		AudioBitrate: r.cfg.Encode.AudioBitrate,
	}
}
