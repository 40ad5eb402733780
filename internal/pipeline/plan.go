package pipeline

import (
	"fmt"

	"vidmux/internal/media/container"
)

// Strategy is the delivery decision for a normalized artifact.
type Strategy string

const (
	// StrategyCopy renames the artifact byte-for-byte; the encoder is never
	// invoked.
	StrategyCopy Strategy = "copy"
	// StrategyRemux marks codecs that already fit the target in a different
	// container. Execution still runs the encoder: a copy-mode remux is not
	// guaranteed safe for every codec/container pair, and a working output
	// beats a cheap broken one.
	StrategyRemux Strategy = "remux"
	// StrategyTranscode is the full re-encode with the request's parameters.
	StrategyTranscode Strategy = "transcode"
)

// Plan pairs the chosen strategy with the reason it was chosen.
type Plan struct {
	Strategy Strategy
	Reason   string
}

// Decide picks the cheapest correct delivery strategy. Evaluated once per
// request, after all repair stages have settled the artifact.
func Decide(codecs Codecs, currentExt string, target container.Target) Plan {
	videoOK := target.AcceptsVideoCodec(codecs.Video)
	audioOK := target.AcceptsAudioCodec(codecs.Audio)

	if currentExt == target.Ext() && videoOK && audioOK {
		return Plan{
			Strategy: StrategyCopy,
			Reason:   fmt.Sprintf("container and codecs (%s/%s) already match %s", codecs.Video, codecs.Audio, target),
		}
	}

	if videoOK && audioOK {
		return Plan{
			Strategy: StrategyRemux,
			Reason:   fmt.Sprintf("codecs (%s/%s) fit %s but container is %s", codecs.Video, codecs.Audio, target, displayExt(currentExt)),
		}
	}

	return Plan{
		Strategy: StrategyTranscode,
		Reason:   fmt.Sprintf("codecs (%s/%s) incompatible with %s", displayCodec(codecs.Video), displayCodec(codecs.Audio), target),
	}
}

func displayCodec(codec string) string {
	if codec == "" {
		return "unknown"
	}
	return codec
}

func displayExt(ext string) string {
	if ext == "" {
		return "unknown"
	}
	return ext
}
