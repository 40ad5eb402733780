package encode

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an ffmpeg invocation. Exit status zero means the output
// path is valid; any error means the caller must discard partial output.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Option configures the ffmpeg runner.
type Option func(*FFmpeg)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(f *FFmpeg) {
		if exec != nil {
			f.exec = exec
		}
	}
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// FFmpeg is the Runner backed by the ffmpeg binary.
type FFmpeg struct {
	binary string
	exec   Executor
}

// New constructs an ffmpeg runner.
func New(binary string, opts ...Option) (*FFmpeg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("encoder binary required")
	}
	runner := &FFmpeg{
		binary: binary,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

// Run invokes ffmpeg with the provided arguments.
func (f *FFmpeg) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("encoder run: no arguments")
	}
	if err := f.exec.Run(ctx, f.binary, args); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
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

func tail(output string) string {
	output = strings.TrimSpace(output)
	const keep = 512
	if len(output) <= keep {
		return output
	}
	return "..." + output[len(output)-keep:]
}
