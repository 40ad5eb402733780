// Package daemon owns the long-running process: single-instance locking and
// the HTTP server lifecycle.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"vidmux/internal/config"
	"vidmux/internal/logging"
)

// Daemon enforces single-instance execution and runs the HTTP surface until
// its context is canceled.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	srv    *http.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Bind         string
	LockFilePath string
}

// New constructs a daemon around an already-built HTTP server.
func New(cfg *config.Config, logger *slog.Logger, srv *http.Server) (*Daemon, error) {
	if cfg == nil || srv == nil {
		return nil, errors.New("daemon requires config and server")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.WorkDir, "vidmuxd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		srv:      srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock, serves until ctx is canceled, then shuts
// down gracefully. It blocks for the daemon's whole life.
func (d *Daemon) Run(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another vidmux daemon instance is already running")
	}
	defer func() {
		if unlockErr := d.lock.Unlock(); unlockErr != nil {
			d.logger.Warn("release daemon lock", logging.Error(unlockErr))
		}
	}()

	d.running.Store(true)
	defer d.running.Store(false)

	errCh := make(chan error, 1)
	go func() {
		d.logger.Info("daemon started",
			logging.String("bind", d.srv.Addr),
			logging.String("lock", d.lockPath),
		)
		if serveErr := d.srv.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if shutdownErr := d.srv.Shutdown(shutdownCtx); shutdownErr != nil {
			d.logger.Warn("graceful shutdown failed", logging.Error(shutdownErr))
			_ = d.srv.Close()
		}
		<-errCh
		d.logger.Info("daemon stopped")
		return nil
	case serveErr := <-errCh:
		if serveErr != nil {
			return fmt.Errorf("serve: %w", serveErr)
		}
		return nil
	}
}

// Status reports the runtime state.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Bind:         d.cfg.Paths.Bind,
		LockFilePath: d.lockPath,
	}
}
