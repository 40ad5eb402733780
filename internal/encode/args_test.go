package encode_test

import (
	"slices"
	"strings"
	"testing"

	"vidmux/internal/encode"
	"vidmux/internal/media/container"
)

func TestMergeArgsCopyVideoShortest(t *testing.T) {
	args := encode.MergeArgs("/w/v.mp4", "/w/a.m4a", "/w/out.mp4")

	for _, required := range [][]string{
		{"-map", "0:v:0"},
		{"-map", "1:a:0"},
		{"-c:v", "copy"},
		{"-c:a", "aac"},
	} {
		if !containsPair(args, required[0], required[1]) {
			t.Fatalf("missing %v in %v", required, args)
		}
	}
	if !slices.Contains(args, "-shortest") {
		t.Fatalf("missing -shortest in %v", args)
	}
	if args[len(args)-1] != "/w/out.mp4" {
		t.Fatalf("output path must come last: %v", args)
	}
}

func TestAudioFixArgsPreservesVideo(t *testing.T) {
	args := encode.AudioFixArgs("/w/in.webm", "/w/out.mp4", container.MP4, "128k")
	if !containsPair(args, "-c:v", "copy") {
		t.Fatalf("video must be copied: %v", args)
	}
	if !containsPair(args, "-c:a", "aac") {
		t.Fatalf("audio must target aac: %v", args)
	}
	if !containsPair(args, "-b:a", "128k") {
		t.Fatalf("bitrate missing: %v", args)
	}
}

func TestTranscodeArgsH264(t *testing.T) {
	args := encode.TranscodeArgs("/w/in.webm", "/w/out.mp4", container.MP4, encode.Params{
		Quality:      20,
		Preset:       "slow",
		AudioBitrate: "192k",
		MaxWidth:     1280,
		MaxHeight:    720,
		FPS:          30,
	})
	if !containsPair(args, "-c:v", "libx264") || !containsPair(args, "-crf", "20") || !containsPair(args, "-preset", "slow") {
		t.Fatalf("unexpected video args: %v", args)
	}
	if !containsPair(args, "-r", "30") {
		t.Fatalf("fps missing: %v", args)
	}
	filter := valueAfter(args, "-vf")
	if !strings.Contains(filter, "min(iw,1280)") || !strings.Contains(filter, "min(ih,720)") {
		t.Fatalf("unexpected scale filter: %q", filter)
	}
	if !strings.Contains(filter, "force_divisible_by=2") {
		t.Fatalf("expected even-dimension guard: %q", filter)
	}
}

func TestTranscodeArgsVP9UsesConstrainedQuality(t *testing.T) {
	args := encode.TranscodeArgs("/w/in.mp4", "/w/out.webm", container.WebM, encode.Params{Quality: 31})
	if !containsPair(args, "-b:v", "0") || !containsPair(args, "-crf", "31") {
		t.Fatalf("vp9 needs -crf with -b:v 0: %v", args)
	}
	if slices.Contains(args, "-preset") {
		t.Fatalf("preset does not apply to libvpx-vp9: %v", args)
	}
	if !containsPair(args, "-c:a", "libopus") {
		t.Fatalf("webm audio must be opus: %v", args)
	}
}

func TestTranscodeArgsMPEG4UsesQscale(t *testing.T) {
	args := encode.TranscodeArgs("/w/in.mp4", "/w/out.avi", container.AVI, encode.Params{Quality: 23})
	if slices.Contains(args, "-crf") {
		t.Fatalf("mpeg4 has no CRF: %v", args)
	}
	q := valueAfter(args, "-q:v")
	if q == "" {
		t.Fatalf("expected -q:v for mpeg4: %v", args)
	}
}

func TestTranscodeArgsOmitsUnsetOptions(t *testing.T) {
	args := encode.TranscodeArgs("/w/in.mp4", "/w/out.mkv", container.MKV, encode.Params{Quality: 23, Preset: "fast"})
	if slices.Contains(args, "-vf") || slices.Contains(args, "-r") || slices.Contains(args, "-b:a") {
		t.Fatalf("unset options must not appear: %v", args)
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func valueAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
