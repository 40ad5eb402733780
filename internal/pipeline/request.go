package pipeline

import (
	"strings"

	"vidmux/internal/encode"
	"vidmux/internal/media/container"
	"vidmux/internal/services"
)

// Request is the immutable input for one acquisition run.
type Request struct {
	URL    string
	Target container.Target
	Params encode.Params
}

// NewRequest validates the raw inputs and fills unset encode parameters from
// the provided defaults.
func NewRequest(url, target string, params encode.Params, defaults encode.Params) (Request, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Request{}, services.Wrap(services.ErrValidation, "pipeline", "request", "url required", nil)
	}

	parsed, err := container.ParseTarget(target)
	if err != nil {
		return Request{}, services.Wrap(services.ErrValidation, "pipeline", "request", err.Error(), nil)
	}

	if params.Quality <= 0 {
		params.Quality = defaults.Quality
	}
	if strings.TrimSpace(params.Preset) == "" {
		params.Preset = defaults.Preset
	}
	if strings.TrimSpace(params.AudioBitrate) == "" {
		params.AudioBitrate = defaults.AudioBitrate
	}
	if params.MaxWidth < 0 {
		params.MaxWidth = 0
	}
	if params.MaxHeight < 0 {
		params.MaxHeight = 0
	}
	if params.FPS < 0 {
		params.FPS = 0
	}

	return Request{URL: url, Target: parsed, Params: params}, nil
}
