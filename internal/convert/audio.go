package convert

import (
	"context"
	"fmt"
	"strings"

	"vidmux/internal/encode"
	"vidmux/internal/services"
)

// audioEncoders maps deliverable audio formats to their ffmpeg encoders.
var audioEncoders = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"aac":  "aac",
	"opus": "libopus",
	"ogg":  "libvorbis",
	"wav":  "pcm_s16le",
	"flac": "flac",
}

// AudioTargets lists the supported audio output formats in display order.
var AudioTargets = []string{"mp3", "m4a", "aac", "opus", "ogg", "wav", "flac"}

// AudioRequest describes one local audio conversion.
type AudioRequest struct {
	InputPath  string
	OutputPath string
	Target     string
	Bitrate    string // ignored for lossless targets
}

// ParseAudioTarget validates a requested audio format.
func ParseAudioTarget(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, ".")
	if _, ok := audioEncoders[normalized]; !ok {
		return "", fmt.Errorf("unsupported audio target %q", value)
	}
	return normalized, nil
}

// AudioArgs builds the ffmpeg invocation for req. Video streams in the input
// are dropped.
func AudioArgs(req AudioRequest) []string {
	args := []string{
		"-y",
		"-i", req.InputPath,
		"-vn",
		"-c:a", audioEncoders[req.Target],
	}
	if lossyAudio(req.Target) && strings.TrimSpace(req.Bitrate) != "" {
		args = append(args, "-b:a", req.Bitrate)
	}
	return append(args, req.OutputPath)
}

// Audio re-encodes a local file into the requested audio format.
func Audio(ctx context.Context, runner encode.Runner, req AudioRequest) error {
	target, err := ParseAudioTarget(req.Target)
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "audio", err.Error(), nil)
	}
	req.Target = target

	if strings.TrimSpace(req.InputPath) == "" || strings.TrimSpace(req.OutputPath) == "" {
		return services.Wrap(services.ErrValidation, "convert", "audio", "input and output paths required", nil)
	}

	if err := runner.Run(ctx, AudioArgs(req)); err != nil {
		return services.Wrap(services.ErrEncodeFailed, "convert", "audio", "ffmpeg run", err)
	}
	return nil
}

func lossyAudio(target string) bool {
	switch target {
	case "wav", "flac":
		return false
	}
	return true
}
