package container_test

import (
	"testing"

	"vidmux/internal/media/container"
)

func TestParseTarget(t *testing.T) {
	for _, value := range []string{"mp4", " MP4 ", ".mp4"} {
		target, err := container.ParseTarget(value)
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", value, err)
		}
		if target != container.MP4 {
			t.Fatalf("ParseTarget(%q) = %q", value, target)
		}
	}
	if _, err := container.ParseTarget("wmv"); err == nil {
		t.Fatal("expected error for unsupported container")
	}
}

func TestCodecFamilies(t *testing.T) {
	if !container.MP4.AcceptsVideoCodec("h264") {
		t.Fatal("mp4 should accept h264")
	}
	if container.MP4.AcceptsVideoCodec("vp9") {
		t.Fatal("mp4 should not accept vp9")
	}
	if !container.WebM.AcceptsAudioCodec("opus") {
		t.Fatal("webm should accept opus")
	}
	if container.WebM.AcceptsAudioCodec("aac") {
		t.Fatal("webm should not accept aac")
	}
	// Matroska takes anything probed, but never an unknown codec.
	if !container.MKV.AcceptsVideoCodec("vp9") || !container.MKV.AcceptsAudioCodec("flac") {
		t.Fatal("mkv should accept any known codec")
	}
	if container.MKV.AcceptsVideoCodec("") || container.MP4.AcceptsAudioCodec("") {
		t.Fatal("unknown codecs must never qualify")
	}
}

func TestStrictAudioTargets(t *testing.T) {
	strict := map[container.Target]bool{
		container.MP4:  true,
		container.MOV:  true,
		container.FLV:  true,
		container.WebM: false,
		container.MKV:  false,
		container.AVI:  false,
	}
	for target, want := range strict {
		if got := target.RequiresStrictAudio(); got != want {
			t.Fatalf("%s strict audio = %v, want %v", target, got, want)
		}
	}
}

func TestExtensionSets(t *testing.T) {
	for _, ext := range []string{"mp4", ".webm", "MKV", "avi", "mov", "flv"} {
		if !container.IsVideoExt(ext) {
			t.Fatalf("expected %q to be a video extension", ext)
		}
	}
	for _, ext := range []string{"m4a", ".mp3", "opus", "wav"} {
		if !container.IsAudioExt(ext) {
			t.Fatalf("expected %q to be an audio extension", ext)
		}
	}
	// Unexpected containers stay unrecognized on purpose.
	for _, ext := range []string{"ts", "wmv", "part", ""} {
		if container.IsVideoExt(ext) || container.IsAudioExt(ext) {
			t.Fatalf("expected %q to be unrecognized", ext)
		}
	}
}

func TestTargetMetadata(t *testing.T) {
	if container.MP4.MIME() != "video/mp4" {
		t.Fatalf("unexpected mp4 mime: %s", container.MP4.MIME())
	}
	if container.WebM.VideoEncoder() != "libvpx-vp9" || container.WebM.AudioEncoder() != "libopus" {
		t.Fatalf("unexpected webm encoders: %s/%s", container.WebM.VideoEncoder(), container.WebM.AudioEncoder())
	}
	if container.MKV.Ext() != "mkv" {
		t.Fatalf("unexpected ext: %s", container.MKV.Ext())
	}
}
