package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vidmux/internal/daemon"
	"vidmux/internal/deps"
	"vidmux/internal/logging"
	"vidmux/internal/preflight"
	"vidmux/internal/server"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion server in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := preflight.CheckSystemDeps(cfg)
			if !deps.AllRequiredAvailable(statuses) {
				return fmt.Errorf("missing required dependencies; run `vidmux status` for details")
			}
			if results := preflight.RunAll(cfg); !preflight.AllPassed(results) {
				return fmt.Errorf("preflight checks failed; run `vidmux status` for details")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			rt, err := buildRuntime(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			srv, err := server.New(cfg, logger, rt.pipeline, rt.encoder, rt.docs, rt.history)
			if err != nil {
				return fmt.Errorf("build server: %w", err)
			}

			d, err := daemon.New(cfg, logger, srv.NewHTTPServer())
			if err != nil {
				return fmt.Errorf("build daemon: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return d.Run(ctx)
		},
	}
}
