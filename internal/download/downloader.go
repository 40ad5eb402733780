package download

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultFormatSelector asks for the best video+audio pair, falling back to
// the best single file the source offers.
const DefaultFormatSelector = "bestvideo+bestaudio/best"

// audioFormatSelector prefers an m4a track because its aac payload merges
// into mp4-family containers without re-encoding.
const audioFormatSelector = "bestaudio[ext=m4a]/bestaudio"

// Request describes one fetch from a remote source. Zero or more files appear
// under OutputTemplate; discovering them is the caller's job.
type Request struct {
	URL            string
	FormatSelector string
	OutputTemplate string
	MergeContainer string
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp invocations.
type Client struct {
	binary string
	exec   Executor
}

// New constructs a downloader client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("downloader binary required")
	}
	client := &Client{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Fetch downloads the media described by req. Failure is a nonzero exit; the
// absence of output files is for the caller to detect.
func (c *Client) Fetch(ctx context.Context, req Request) error {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return errors.New("fetch: url required")
	}
	if strings.TrimSpace(req.OutputTemplate) == "" {
		return errors.New("fetch: output template required")
	}

	selector := strings.TrimSpace(req.FormatSelector)
	if selector == "" {
		selector = DefaultFormatSelector
	}

	args := []string{
		"--no-playlist",
		"--no-progress",
		"-f", selector,
		"-o", req.OutputTemplate,
	}
	if merge := strings.TrimSpace(req.MergeContainer); merge != "" {
		args = append(args, "--merge-output-format", merge)
	}
	args = append(args, "--", url)

	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	return nil
}

// FetchAudio downloads the best standalone audio track for url.
func (c *Client) FetchAudio(ctx context.Context, url, outputTemplate string) error {
	return c.Fetch(ctx, Request{
		URL:            url,
		FormatSelector: audioFormatSelector,
		OutputTemplate: outputTemplate,
	})
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, tail(string(output)))
	}
	return nil
}

// tail keeps error messages readable when yt-dlp dumps pages of output.
func tail(output string) string {
	output = strings.TrimSpace(output)
	const keep = 512
	if len(output) <= keep {
		return output
	}
	return "..." + output[len(output)-keep:]
}
