package pipeline_test

import (
	"errors"
	"testing"

	"vidmux/internal/pipeline"
	"vidmux/internal/services"
	"vidmux/internal/testsupport"
)

func TestSelectArtifactPrefersLargestVideo(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTagged(t, dir, "req1.webm", 10)
	testsupport.WriteTagged(t, dir, "req1.mp4", 1000)
	testsupport.WriteTagged(t, dir, "req1.m4a", 5000)

	art, err := pipeline.SelectArtifact(dir, "req1")
	if err != nil {
		t.Fatalf("SelectArtifact: %v", err)
	}
	if art.Ext != "mp4" || art.Kind != pipeline.KindVideo {
		t.Fatalf("expected the largest video container, got %+v", art)
	}
	if art.SizeBytes != 1000 {
		t.Fatalf("unexpected size: %d", art.SizeBytes)
	}
}

func TestSelectArtifactFallsBackToAudio(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTagged(t, dir, "req1.m4a", 800)

	art, err := pipeline.SelectArtifact(dir, "req1")
	if err != nil {
		t.Fatalf("SelectArtifact: %v", err)
	}
	if art.Kind != pipeline.KindAudioOnly {
		t.Fatalf("expected audio-only classification, got %+v", art)
	}
}

func TestSelectArtifactIgnoresForeignTags(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteTagged(t, dir, "other.mp4", 1000)

	_, err := pipeline.SelectArtifact(dir, "req1")
	if !errors.Is(err, services.ErrNoSourceArtifact) {
		t.Fatalf("expected no source artifact, got %v", err)
	}
}

func TestSelectArtifactRejectsUnrecognizedContainers(t *testing.T) {
	dir := t.TempDir()
	// Unexpected containers stay unrecognized; widening the set is a
	// deliberate decision, not a default.
	testsupport.WriteTagged(t, dir, "req1.wmv", 9000)
	testsupport.WriteTagged(t, dir, "req1.part", 9000)

	_, err := pipeline.SelectArtifact(dir, "req1")
	if !errors.Is(err, services.ErrNoSourceArtifact) {
		t.Fatalf("expected no source artifact, got %v", err)
	}
}
