package daemon_test

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"vidmux/internal/daemon"
	"vidmux/internal/logging"
	"vidmux/internal/testsupport"
)

func freePort(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return addr
}

func TestRunServesUntilCanceled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.Bind = freePort(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{Addr: cfg.Paths.Bind, Handler: mux}

	d, err := daemon.New(cfg, logging.NewNop(), srv)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	url := fmt.Sprintf("http://%s/healthz", cfg.Paths.Bind)
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, getErr := http.Get(url)
		if getErr == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("server never became reachable")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if status := d.Status(); !status.Running {
		t.Fatal("status should report running")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop after cancel")
	}
	if status := d.Status(); status.Running {
		t.Fatal("status should report stopped")
	}
}

func TestSecondInstanceRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.Bind = freePort(t)

	first, err := daemon.New(cfg, logging.NewNop(), &http.Server{Addr: cfg.Paths.Bind, Handler: http.NewServeMux()})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- first.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for !first.Status().Running {
		if time.Now().After(deadline) {
			t.Fatal("first instance never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	second, err := daemon.New(cfg, logging.NewNop(), &http.Server{Addr: freePort(t), Handler: http.NewServeMux()})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	err = second.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock contention error, got %v", err)
	}

	cancel()
	<-done
}
