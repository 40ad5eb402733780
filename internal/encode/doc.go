// Package encode wraps the ffmpeg binary as the encoding capability and
// builds its argument lists.
//
// Three invocation shapes exist: MergeArgs joins a video-only artifact with
// a standalone audio track (video copied, audio to aac, -shortest),
// AudioFixArgs re-encodes only the audio track into a target's expected
// codec, and TranscodeArgs performs the full re-encode with the request's
// quality parameters. The Runner interface keeps callers testable without a
// real ffmpeg.
package encode
