package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidmux/internal/config"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
log_dir = %q
bind = "127.0.0.1:0"
`, filepath.Join(base, "work"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCommand(t, "-c", writeTestConfig(t))
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	for _, sub := range []string{"serve", "convert", "status", "history", "config"} {
		if !strings.Contains(out, sub) {
			t.Fatalf("help output missing %q:\n%s", sub, out)
		}
	}
}

func TestConfigInitCreatesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected output to name %s:\n%s", target, out)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample must load cleanly: %v", err)
	}
	if !exists {
		t.Fatal("sample file not found after init")
	}
	if cfg.Encode.Quality <= 0 {
		t.Fatalf("sample config missing encode defaults: %+v", cfg.Encode)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --force must fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--force"); err != nil {
		t.Fatalf("forced init: %v", err)
	}
}

func TestConfigShowRendersTOML(t *testing.T) {
	out, err := runCommand(t, "-c", writeTestConfig(t), "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, section := range []string{"[paths]", "[tools]", "[encode]"} {
		if !strings.Contains(out, section) {
			t.Fatalf("rendered config missing %s:\n%s", section, out)
		}
	}
}

func TestConvertRejectsBadTarget(t *testing.T) {
	_, err := runCommand(t, "-c", writeTestConfig(t),
		"convert", "https://example.com/x", "--target", "wmv")
	if err == nil || !strings.Contains(err.Error(), "unsupported target container") {
		t.Fatalf("expected unsupported target error, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	out, err := runCommand(t, "-c", writeTestConfig(t), "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No conversions recorded.") {
		t.Fatalf("expected empty-history notice:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
