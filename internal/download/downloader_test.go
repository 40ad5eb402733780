package download_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"vidmux/internal/download"
)

type recordingExecutor struct {
	binary string
	args   []string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string) error {
	r.binary = binary
	r.args = args
	return r.err
}

func TestFetchBuildsExpectedArgs(t *testing.T) {
	rec := &recordingExecutor{}
	client, err := download.New("yt-dlp", download.WithExecutor(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = client.Fetch(context.Background(), download.Request{
		URL:            "https://example.com/v/abc",
		OutputTemplate: "/work/req-1.%(ext)s",
		MergeContainer: "mp4",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if rec.binary != "yt-dlp" {
		t.Fatalf("unexpected binary %q", rec.binary)
	}
	want := []string{
		"--no-playlist", "--no-progress",
		"-f", download.DefaultFormatSelector,
		"-o", "/work/req-1.%(ext)s",
		"--merge-output-format", "mp4",
		"--", "https://example.com/v/abc",
	}
	if !slices.Equal(rec.args, want) {
		t.Fatalf("args mismatch:\n got %v\nwant %v", rec.args, want)
	}
}

func TestFetchAudioPrefersM4A(t *testing.T) {
	rec := &recordingExecutor{}
	client, _ := download.New("yt-dlp", download.WithExecutor(rec))

	if err := client.FetchAudio(context.Background(), "https://example.com/v/abc", "/work/req-1-audio.%(ext)s"); err != nil {
		t.Fatalf("FetchAudio: %v", err)
	}
	joined := slices.Index(rec.args, "-f")
	if joined < 0 || rec.args[joined+1] != "bestaudio[ext=m4a]/bestaudio" {
		t.Fatalf("unexpected format selector in %v", rec.args)
	}
	if slices.Contains(rec.args, "--merge-output-format") {
		t.Fatal("audio fetch must not request a merge container")
	}
}

func TestFetchValidatesInput(t *testing.T) {
	client, _ := download.New("yt-dlp", download.WithExecutor(&recordingExecutor{}))
	if err := client.Fetch(context.Background(), download.Request{OutputTemplate: "x"}); err == nil {
		t.Fatal("expected error for missing url")
	}
	if err := client.Fetch(context.Background(), download.Request{URL: "u"}); err == nil {
		t.Fatal("expected error for missing template")
	}
}

func TestFetchWrapsExecutorFailure(t *testing.T) {
	cause := errors.New("exit status 1")
	client, _ := download.New("yt-dlp", download.WithExecutor(&recordingExecutor{err: cause}))
	err := client.Fetch(context.Background(), download.Request{URL: "u", OutputTemplate: "t"})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := download.New("  "); err == nil {
		t.Fatal("expected error for empty binary")
	}
}
