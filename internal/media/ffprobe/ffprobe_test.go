package ffprobe

import (
	"context"
	"testing"
)

func TestFirstCodecAccessors(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "H264"},
			{CodecType: "audio", CodecName: " aac "},
			{CodecType: "audio", CodecName: "mp3"},
		},
	}
	if got := result.FirstVideoCodec(); got != "h264" {
		t.Fatalf("FirstVideoCodec = %q", got)
	}
	if got := result.FirstAudioCodec(); got != "aac" {
		t.Fatalf("FirstAudioCodec = %q", got)
	}
}

func TestFirstCodecAccessorsEmpty(t *testing.T) {
	var result Result
	if result.FirstVideoCodec() != "" || result.FirstAudioCodec() != "" {
		t.Fatal("expected empty codecs for empty result")
	}
}

func TestDurationSeconds(t *testing.T) {
	cases := map[string]float64{
		"123.45": 123.45,
		"":       0,
		"bad":    0,
		"-1":     0,
	}
	for value, want := range cases {
		result := Result{Format: Format{Duration: value}}
		if got := result.DurationSeconds(); got != want {
			t.Fatalf("DurationSeconds(%q) = %v, want %v", value, got, want)
		}
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
