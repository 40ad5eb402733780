package pipeline

import (
	"context"

	"vidmux/internal/media/ffprobe"
)

// Codecs is a point-in-time view of an artifact's stream codecs. It is stale
// the instant the underlying file is replaced and must be recomputed after
// every mutation.
type Codecs struct {
	Video string
	Audio string
}

// Prober inspects a local artifact. Implementations must not fail: a probe
// that cannot read the file reports unknown codecs, and unknown is treated
// as incompatible downstream, which forces the safe transcode branch.
type Prober interface {
	Probe(ctx context.Context, path string) Codecs
}

// StreamProbe is the ffprobe-backed Prober.
type StreamProbe struct {
	binary string
}

// NewStreamProbe returns a Prober that shells out to the given ffprobe binary.
func NewStreamProbe(binary string) StreamProbe {
	return StreamProbe{binary: binary}
}

// Probe runs a single inspection attempt. Errors collapse to unknown codecs.
func (p StreamProbe) Probe(ctx context.Context, path string) Codecs {
	result, err := ffprobe.Inspect(ctx, p.binary, path)
	if err != nil {
		return Codecs{}
	}
	return Codecs{
		Video: result.FirstVideoCodec(),
		Audio: result.FirstAudioCodec(),
	}
}
