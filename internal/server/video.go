package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"vidmux/internal/encode"
	"vidmux/internal/fileutil"
	"vidmux/internal/history"
	"vidmux/internal/logging"
	"vidmux/internal/pipeline"
	"vidmux/internal/services"
)

type videoRequest struct {
	URL          string  `json:"url"`
	Target       string  `json:"target"`
	Quality      int     `json:"quality"`
	Preset       string  `json:"preset"`
	AudioBitrate string  `json:"audio_bitrate"`
	MaxWidth     int     `json:"max_width"`
	MaxHeight    int     `json:"max_height"`
	FPS          float64 `json:"fps"`
}

func (s *Server) handleConvertVideo(w http.ResponseWriter, r *http.Request) {
	requestsInFlight.Inc()
	defer requestsInFlight.Dec()

	var body videoRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := decoder.Decode(&body); err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "video", "decode request body", err))
		return
	}

	defaults := encode.Params{
		Quality:      s.cfg.Encode.Quality,
		Preset:       s.cfg.Encode.Preset,
		AudioBitrate: s.cfg.Encode.AudioBitrate,
	}
	req, err := pipeline.NewRequest(body.URL, body.Target, encode.Params{
		Quality:      body.Quality,
		Preset:       body.Preset,
		AudioBitrate: body.AudioBitrate,
		MaxWidth:     body.MaxWidth,
		MaxHeight:    body.MaxHeight,
		FPS:          body.FPS,
	}, defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	result, err := s.video.Run(ctx, req)
	if err != nil {
		observeConversion("video", "failed", time.Since(start).Seconds())
		s.recordHistory(r, history.Entry{
			Kind:      "video",
			Source:    body.URL,
			Target:    string(req.Target),
			Status:    history.StatusFailed,
			ErrorCode: services.Code(err),
			ElapsedMS: time.Since(start).Milliseconds(),
		})
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = fileutil.RemoveIfExists(result.Path) }()

	observeConversion("video", "completed", result.Elapsed.Seconds())
	s.recordHistory(r, history.Entry{
		RequestID: result.RequestID,
		Kind:      "video",
		Source:    body.URL,
		Target:    string(req.Target),
		Strategy:  string(result.Plan.Strategy),
		Status:    history.StatusCompleted,
		SizeBytes: result.SizeBytes,
		ElapsedMS: result.Elapsed.Milliseconds(),
	})

	s.streamFile(w, r, result.Path, req.Target.MIME(), "download."+req.Target.Ext())
}

// recordHistory appends an audit entry when the store is configured.
// Recording failures never fail the request.
func (s *Server) recordHistory(r *http.Request, entry history.Entry) {
	if s.hist == nil || !s.cfg.History.Enabled {
		return
	}
	if entry.RequestID == "" {
		if id, ok := services.RequestIDFromContext(r.Context()); ok {
			entry.RequestID = id
		}
	}
	if _, err := s.hist.Record(r.Context(), entry); err != nil {
		logging.WithContext(r.Context(), s.logger).Warn("record history", logging.Error(err))
	}
}

// streamFile sends path as the response body with the given content type.
// The caller owns deletion of path.
func (s *Server) streamFile(w http.ResponseWriter, r *http.Request, path, contentType, downloadName string) {
	file, err := os.Open(path)
	if err != nil {
		s.writeError(w, r, services.Wrap(nil, "server", "stream", "open output", err))
		return
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		s.writeError(w, r, services.Wrap(nil, "server", "stream", "stat output", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(downloadName)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, file); err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		// Headers are out; all we can do is log the broken transfer.
		logging.WithContext(r.Context(), s.logger).Warn("stream interrupted",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}
