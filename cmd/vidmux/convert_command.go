package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vidmux/internal/encode"
	"vidmux/internal/fileutil"
	"vidmux/internal/history"
	"vidmux/internal/logging"
	"vidmux/internal/pipeline"
	"vidmux/internal/services"
)

func newConvertCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		target       string
		output       string
		quality      int
		preset       string
		audioBitrate string
		maxWidth     int
		maxHeight    int
		fps          float64
	)

	cmd := &cobra.Command{
		Use:   "convert <url>",
		Short: "Download a remote video and deliver it in the requested container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			rt, err := buildRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			req, err := pipeline.NewRequest(args[0], target, encode.Params{
				Quality:      quality,
				Preset:       preset,
				AudioBitrate: audioBitrate,
				MaxWidth:     maxWidth,
				MaxHeight:    maxHeight,
				FPS:          fps,
			}, rt.encodeDefaults())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			start := time.Now()
			result, runErr := rt.pipeline.Run(ctx, req)
			if runErr != nil {
				recordRun(rt, history.Entry{
					Kind:      "video",
					Source:    args[0],
					Target:    string(req.Target),
					Status:    history.StatusFailed,
					ErrorCode: services.Code(runErr),
					ElapsedMS: time.Since(start).Milliseconds(),
				})
				return runErr
			}

			destination := output
			if destination == "" {
				destination = "download." + req.Target.Ext()
			}
			absDest, err := filepath.Abs(destination)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if err := moveFile(result.Path, absDest); err != nil {
				return fmt.Errorf("deliver output: %w", err)
			}

			recordRun(rt, history.Entry{
				RequestID: result.RequestID,
				Kind:      "video",
				Source:    args[0],
				Target:    string(req.Target),
				Strategy:  string(result.Plan.Strategy),
				Status:    history.StatusCompleted,
				SizeBytes: result.SizeBytes,
				ElapsedMS: result.Elapsed.Milliseconds(),
			})

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s, %s) in %s\n",
				absDest,
				result.Plan.Strategy,
				formatBytes(result.SizeBytes),
				result.Elapsed.Round(time.Millisecond),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "mp4", "Target container (mp4, webm, mkv, avi, mov, flv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (defaults to download.<target>)")
	cmd.Flags().IntVar(&quality, "quality", 0, "CRF quality override")
	cmd.Flags().StringVar(&preset, "preset", "", "Encoder preset override")
	cmd.Flags().StringVar(&audioBitrate, "audio-bitrate", "", "Audio bitrate override (e.g. 192k)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 0, "Cap output width, preserving aspect ratio")
	cmd.Flags().IntVar(&maxHeight, "max-height", 0, "Cap output height, preserving aspect ratio")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Cap output frame rate")

	return cmd
}

func recordRun(rt *runtime, entry history.Entry) {
	if rt.history == nil {
		return
	}
	if _, err := rt.history.Record(context.Background(), entry); err != nil {
		rt.logger.Warn("record history", logging.Error(err))
	}
}

// moveFile renames when possible and falls back to copy+remove across
// filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return err
	}
	return fileutil.RemoveIfExists(src)
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
