package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")

	// Conversion pipeline failure classes. Each is terminal; the pipeline
	// makes exactly one attempt per stage.

	// ErrNoSourceArtifact means the download produced nothing usable.
	ErrNoSourceArtifact = errors.New("no source artifact")
	// ErrVideoStreamAbsent means only audio was retrievable for a video
	// target. Distinct from ErrNoSourceArtifact: the source exists but has
	// no video track.
	ErrVideoStreamAbsent = errors.New("video stream absent")
	// ErrRepairFailed means an audio merge or audio-fix encode step failed.
	ErrRepairFailed = errors.New("repair failed")
	// ErrEncodeFailed means the final transcode failed.
	ErrEncodeFailed = errors.New("encode failed")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Code maps an error to the stable identifier surfaced in API responses and
// recorded in conversion history.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoSourceArtifact):
		return "no_source_artifact"
	case errors.Is(err, ErrVideoStreamAbsent):
		return "video_stream_absent"
	case errors.Is(err, ErrRepairFailed):
		return "repair_failed"
	case errors.Is(err, ErrEncodeFailed):
		return "encode_failed"
	case errors.Is(err, ErrValidation):
		return "invalid_request"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps an error to the response status the transport layer should
// emit. Content-availability failures are the client's problem; tool and
// encode failures are ours.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoSourceArtifact), errors.Is(err, ErrVideoStreamAbsent):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
