package convert

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"vidmux/internal/services"
)

// imageFormats is the closed set of image extensions the converter reads and
// writes.
var imageFormats = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
}

// ImageTargets lists the supported image output formats in display order.
var ImageTargets = []string{"jpg", "jpeg", "png", "gif", "tif", "tiff", "bmp"}

// ImageRequest describes one local image conversion. Zero bounds leave the
// source dimensions untouched; when both are set the image is fit inside the
// box preserving aspect ratio.
type ImageRequest struct {
	InputPath  string
	OutputPath string
	Target     string
	MaxWidth   int
	MaxHeight  int
	Quality    int // JPEG only; 1-100, 0 uses the encoder default
}

// ParseImageTarget validates a requested image format.
func ParseImageTarget(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, ".")
	if _, ok := imageFormats[normalized]; !ok {
		return "", fmt.Errorf("unsupported image target %q", value)
	}
	return normalized, nil
}

// Image converts a local image file, optionally resizing it to fit within
// the requested bounds.
func Image(req ImageRequest) error {
	target, err := ParseImageTarget(req.Target)
	if err != nil {
		return services.Wrap(services.ErrValidation, "convert", "image", err.Error(), nil)
	}
	req.Target = target

	if strings.TrimSpace(req.InputPath) == "" || strings.TrimSpace(req.OutputPath) == "" {
		return services.Wrap(services.ErrValidation, "convert", "image", "input and output paths required", nil)
	}
	if req.Quality < 0 || req.Quality > 100 {
		return services.Wrap(services.ErrValidation, "convert", "image",
			fmt.Sprintf("quality %d outside 0-100", req.Quality), nil)
	}

	img, err := imaging.Open(req.InputPath, imaging.AutoOrientation(true))
	if err != nil {
		return services.Wrap(services.ErrEncodeFailed, "convert", "image", "decode image", err)
	}

	width := req.MaxWidth
	height := req.MaxHeight
	if width > 0 || height > 0 {
		bounds := img.Bounds()
		if width <= 0 {
			width = bounds.Dx()
		}
		if height <= 0 {
			height = bounds.Dy()
		}
		img = imaging.Fit(img, width, height, imaging.Lanczos)
	}

	var opts []imaging.EncodeOption
	if req.Quality > 0 {
		opts = append(opts, imaging.JPEGQuality(req.Quality))
	}
	if err := imaging.Save(img, req.OutputPath, opts...); err != nil {
		return services.Wrap(services.ErrEncodeFailed, "convert", "image", "encode image", err)
	}
	return nil
}
