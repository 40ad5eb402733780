// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no vidmux-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// FirstVideoCodec and FirstAudioCodec expose the codec identities the
// delivery planner cares about; both return the empty string when the
// stream type is absent.
package ffprobe
