package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidmux/internal/config"
)

func TestLoadDefaultsExpandPathsAndReadEnvToken(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDMUX_API_TOKEN", "sekrit")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "vidmux", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Paths.Bind != "127.0.0.1:8993" {
		t.Fatalf("unexpected bind: %q", cfg.Paths.Bind)
	}
	if cfg.Paths.APIToken != "sekrit" {
		t.Fatalf("expected api token from env, got %q", cfg.Paths.APIToken)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.YtDlp != "yt-dlp" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Encode.Quality != 23 || cfg.Encode.Preset != "fast" {
		t.Fatalf("unexpected encode defaults: %+v", cfg.Encode)
	}
	if !cfg.History.Enabled || cfg.History.Keep != 500 {
		t.Fatalf("unexpected history defaults: %+v", cfg.History)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.WorkDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidmux.toml")
	body := strings.Join([]string{
		"[paths]",
		`work_dir = "` + filepath.Join(dir, "work") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		`bind = "0.0.0.0:9000"`,
		"[encode]",
		"quality = 18",
		`preset = " Slow "`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Encode.Quality != 18 {
		t.Fatalf("unexpected quality: %d", cfg.Encode.Quality)
	}
	if cfg.Encode.Preset != "slow" {
		t.Fatalf("expected preset lowered and trimmed, got %q", cfg.Encode.Preset)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected format lowered, got %q", cfg.Logging.Format)
	}
	if cfg.Encode.AudioBitrate != "192k" {
		t.Fatalf("expected default audio bitrate, got %q", cfg.Encode.AudioBitrate)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "bad bind",
			mutate: func(c *config.Config) { c.Paths.Bind = "not-a-hostport" },
			want:   "paths.bind",
		},
		{
			name:   "quality out of range",
			mutate: func(c *config.Config) { c.Encode.Quality = 99 },
			want:   "encode.quality",
		},
		{
			name:   "unknown preset",
			mutate: func(c *config.Config) { c.Encode.Preset = "warp9" },
			want:   "encode.preset",
		},
		{
			name:   "same work and log dir",
			mutate: func(c *config.Config) { c.Paths.LogDir = c.Paths.WorkDir },
			want:   "must differ",
		},
		{
			name:   "unknown log level",
			mutate: func(c *config.Config) { c.Logging.Level = "loud" },
			want:   "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := t.TempDir()
			cfg := config.Default()
			cfg.Paths.WorkDir = filepath.Join(base, "work")
			cfg.Paths.LogDir = filepath.Join(base, "logs")
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected sample to load from %q", path)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}
