package pipeline_test

import (
	"strings"
	"testing"

	"vidmux/internal/media/container"
	"vidmux/internal/pipeline"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name       string
		codecs     pipeline.Codecs
		currentExt string
		target     container.Target
		want       pipeline.Strategy
	}{
		{
			name:       "exact match copies",
			codecs:     pipeline.Codecs{Video: "h264", Audio: "aac"},
			currentExt: "mp4",
			target:     container.MP4,
			want:       pipeline.StrategyCopy,
		},
		{
			name:       "matching codecs in foreign container remux",
			codecs:     pipeline.Codecs{Video: "h264", Audio: "aac"},
			currentExt: "mkv",
			target:     container.MP4,
			want:       pipeline.StrategyRemux,
		},
		{
			name:       "foreign codecs transcode",
			codecs:     pipeline.Codecs{Video: "vp9", Audio: "opus"},
			currentExt: "webm",
			target:     container.MP4,
			want:       pipeline.StrategyTranscode,
		},
		{
			name:       "unknown video codec forces transcode",
			codecs:     pipeline.Codecs{Video: "", Audio: "aac"},
			currentExt: "mp4",
			target:     container.MP4,
			want:       pipeline.StrategyTranscode,
		},
		{
			name:       "unknown audio codec forces transcode even in matching container",
			codecs:     pipeline.Codecs{Video: "h264", Audio: ""},
			currentExt: "mp4",
			target:     container.MP4,
			want:       pipeline.StrategyTranscode,
		},
		{
			name:       "mkv accepts anything probed",
			codecs:     pipeline.Codecs{Video: "vp9", Audio: "flac"},
			currentExt: "mkv",
			target:     container.MKV,
			want:       pipeline.StrategyCopy,
		},
		{
			name:       "webm native pair copies",
			codecs:     pipeline.Codecs{Video: "vp9", Audio: "opus"},
			currentExt: "webm",
			target:     container.WebM,
			want:       pipeline.StrategyCopy,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan := pipeline.Decide(tc.codecs, tc.currentExt, tc.target)
			if plan.Strategy != tc.want {
				t.Fatalf("Decide = %s, want %s (reason %q)", plan.Strategy, tc.want, plan.Reason)
			}
			if plan.Reason == "" {
				t.Fatal("expected a reason")
			}
		})
	}
}

func TestDecideReasonNamesUnknownCodecs(t *testing.T) {
	plan := pipeline.Decide(pipeline.Codecs{}, "mp4", container.MP4)
	if !strings.Contains(plan.Reason, "unknown") {
		t.Fatalf("reason should surface unknown codecs: %q", plan.Reason)
	}
}
