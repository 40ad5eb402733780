// Package container models the container formats vidmux can deliver and the
// codec families each one natively accepts.
//
// The tables here drive two decisions: artifact selection (which downloaded
// files count as video or audio media) and delivery planning (whether a
// probed codec pair can be copied into a target container or must be
// re-encoded). The recognized extension sets are deliberately closed; an
// unexpected container falls through to the no-artifact path rather than
// being guessed at.
package container

import (
	"fmt"
	"strings"
)

// Target identifies a deliverable container format.
type Target string

const (
	MP4  Target = "mp4"
	WebM Target = "webm"
	MKV  Target = "mkv"
	AVI  Target = "avi"
	MOV  Target = "mov"
	FLV  Target = "flv"
)

// Targets lists every deliverable container in display order.
var Targets = []Target{MP4, WebM, MKV, AVI, MOV, FLV}

// videoExtensions is the closed set of extensions the selector treats as
// video containers.
var videoExtensions = map[string]struct{}{
	"mp4":  {},
	"webm": {},
	"mkv":  {},
	"avi":  {},
	"mov":  {},
	"flv":  {},
}

// audioExtensions is the closed set of extensions the selector treats as
// audio-only containers.
var audioExtensions = map[string]struct{}{
	"m4a":  {},
	"mp3":  {},
	"opus": {},
	"ogg":  {},
	"aac":  {},
	"wav":  {},
	"flac": {},
}

type family struct {
	video map[string]struct{}
	audio map[string]struct{}
	// anyVideo/anyAudio mark permissive containers: any probed codec is
	// acceptable, but an unknown (empty) codec still is not.
	anyVideo bool
	anyAudio bool
	// strictAudio containers reject files whose audio codec or extension
	// does not match; the audio compatibility stage re-touches them.
	strictAudio bool
	mime        string
	videoCodec  string // ffmpeg encoder for transcodes
	audioCodec  string
}

var families = map[Target]family{
	MP4: {
		video:       set("h264", "hevc", "mpeg4"),
		audio:       set("aac"),
		strictAudio: true,
		mime:        "video/mp4",
		videoCodec:  "libx264",
		audioCodec:  "aac",
	},
	WebM: {
		video:      set("vp8", "vp9", "av1"),
		audio:      set("opus", "vorbis"),
		mime:       "video/webm",
		videoCodec: "libvpx-vp9",
		audioCodec: "libopus",
	},
	MKV: {
		anyVideo:   true,
		anyAudio:   true,
		mime:       "video/x-matroska",
		videoCodec: "libx264",
		audioCodec: "aac",
	},
	AVI: {
		video:      set("mpeg4", "msmpeg4v3", "h264"),
		audio:      set("mp3", "ac3"),
		mime:       "video/x-msvideo",
		videoCodec: "mpeg4",
		audioCodec: "libmp3lame",
	},
	MOV: {
		video:       set("h264", "hevc", "prores", "mpeg4"),
		audio:       set("aac", "alac"),
		strictAudio: true,
		mime:        "video/quicktime",
		videoCodec:  "libx264",
		audioCodec:  "aac",
	},
	FLV: {
		video:       set("h264", "flv1"),
		audio:       set("aac", "mp3"),
		strictAudio: true,
		mime:        "video/x-flv",
		videoCodec:  "libx264",
		audioCodec:  "aac",
	},
}

// ParseTarget validates a requested container name.
func ParseTarget(value string) (Target, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.TrimPrefix(normalized, ".")
	target := Target(normalized)
	if _, ok := families[target]; !ok {
		return "", fmt.Errorf("unsupported target container %q", value)
	}
	return target, nil
}

// Ext returns the file extension for the target, without a leading dot.
func (t Target) Ext() string {
	return string(t)
}

// MIME returns the content type served for the target container.
func (t Target) MIME() string {
	return families[t].mime
}

// VideoEncoder returns the ffmpeg video encoder used when transcoding to the
// target.
func (t Target) VideoEncoder() string {
	return families[t].videoCodec
}

// AudioEncoder returns the ffmpeg audio encoder used when transcoding to the
// target.
func (t Target) AudioEncoder() string {
	return families[t].audioCodec
}

// AcceptsVideoCodec reports whether the probed video codec belongs to the
// target's native family. An unknown codec never qualifies; unknown is
// treated as incompatible so planning falls through to the transcode branch.
func (t Target) AcceptsVideoCodec(codec string) bool {
	codec = strings.ToLower(strings.TrimSpace(codec))
	if codec == "" {
		return false
	}
	fam := families[t]
	if fam.anyVideo {
		return true
	}
	_, ok := fam.video[codec]
	return ok
}

// AcceptsAudioCodec reports whether the probed audio codec belongs to the
// target's native family.
func (t Target) AcceptsAudioCodec(codec string) bool {
	codec = strings.ToLower(strings.TrimSpace(codec))
	if codec == "" {
		return false
	}
	fam := families[t]
	if fam.anyAudio {
		return true
	}
	_, ok := fam.audio[codec]
	return ok
}

// RequiresStrictAudio reports whether the target rejects codec/container
// mismatches on the audio track, forcing the audio compatibility stage even
// when only the extension differs.
func (t Target) RequiresStrictAudio() bool {
	return families[t].strictAudio
}

// IsVideoExt reports whether ext (with or without a leading dot) belongs to
// the recognized video container set.
func IsVideoExt(ext string) bool {
	_, ok := videoExtensions[normalizeExt(ext)]
	return ok
}

// IsAudioExt reports whether ext belongs to the recognized audio container set.
func IsAudioExt(ext string) bool {
	_, ok := audioExtensions[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
