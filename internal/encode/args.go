package encode

import (
	"fmt"
	"strconv"

	"vidmux/internal/media/container"
)

// Params carries the tunable knobs for a full transcode.
type Params struct {
	Quality      int    // CRF, lower is higher quality
	Preset       string // ffmpeg preset name
	AudioBitrate string // e.g. "192k"
	MaxWidth     int    // 0 means unconstrained
	MaxHeight    int
	FPS          float64 // 0 means keep source rate
}

// MergeArgs builds the invocation that joins a video-only file with a
// standalone audio track. The video stream is copied untouched; audio is
// re-encoded to the broadly compatible aac. -shortest bounds the output to
// the shorter input so a mismatched track cannot leave trailing silence or a
// frozen frame.
func MergeArgs(videoPath, audioPath, outPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		outPath,
	}
}

// AudioFixArgs builds the invocation that re-encodes only the audio track
// into the target's expected codec while copying the video stream.
func AudioFixArgs(inPath, outPath string, target container.Target, audioBitrate string) []string {
	args := []string{
		"-y",
		"-i", inPath,
		"-c:v", "copy",
		"-c:a", target.AudioEncoder(),
	}
	if audioBitrate != "" {
		args = append(args, "-b:a", audioBitrate)
	}
	return append(args, outPath)
}

// TranscodeArgs builds the full re-encode invocation for the target
// container, applying quality, preset, resize, and frame rate parameters.
func TranscodeArgs(inPath, outPath string, target container.Target, params Params) []string {
	args := []string{
		"-y",
		"-i", inPath,
		"-c:v", target.VideoEncoder(),
	}

	switch target.VideoEncoder() {
	case "libvpx-vp9":
		// VP9 constrained-quality mode needs an explicit zero bitrate
		// alongside CRF.
		args = append(args, "-crf", strconv.Itoa(params.Quality), "-b:v", "0")
	case "mpeg4":
		// The native mpeg4 encoder has no CRF; map onto its 2..31 qscale.
		args = append(args, "-q:v", strconv.Itoa(qscaleFromCRF(params.Quality)))
	default:
		args = append(args, "-crf", strconv.Itoa(params.Quality))
		if params.Preset != "" {
			args = append(args, "-preset", params.Preset)
		}
	}

	if filter := scaleFilter(params.MaxWidth, params.MaxHeight); filter != "" {
		args = append(args, "-vf", filter)
	}
	if params.FPS > 0 {
		args = append(args, "-r", strconv.FormatFloat(params.FPS, 'f', -1, 64))
	}

	args = append(args, "-c:a", target.AudioEncoder())
	if params.AudioBitrate != "" {
		args = append(args, "-b:a", params.AudioBitrate)
	}

	return append(args, outPath)
}

// scaleFilter emits a downscale-only filter preserving aspect ratio and even
// dimensions, as most encoders reject odd sizes.
func scaleFilter(maxWidth, maxHeight int) string {
	if maxWidth <= 0 && maxHeight <= 0 {
		return ""
	}
	width := "iw"
	if maxWidth > 0 {
		width = fmt.Sprintf("'min(iw,%d)'", maxWidth)
	}
	height := "ih"
	if maxHeight > 0 {
		height = fmt.Sprintf("'min(ih,%d)'", maxHeight)
	}
	return fmt.Sprintf("scale=%s:%s:force_original_aspect_ratio=decrease:force_divisible_by=2", width, height)
}

func qscaleFromCRF(crf int) int {
	q := crf * 31 / 51
	if q < 2 {
		q = 2
	}
	if q > 31 {
		q = 31
	}
	return q
}
