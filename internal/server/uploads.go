package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidmux/internal/convert"
	"vidmux/internal/fileutil"
	"vidmux/internal/history"
	"vidmux/internal/services"
)

// upload is a multipart file persisted into the work directory under a
// request-unique name.
type upload struct {
	path     string
	origName string
	size     int64
}

// saveUpload extracts the "file" part into the work directory. The caller
// deletes the returned path.
func (s *Server) saveUpload(w http.ResponseWriter, r *http.Request, id string) (upload, error) {
	limit := int64(s.cfg.Limits.MaxUploadMiB) << 20
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return upload{}, services.Wrap(services.ErrValidation, "server", "upload", "parse multipart form", err)
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, services.Wrap(services.ErrValidation, "server", "upload", "file part required", err)
	}
	defer func() { _ = part.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := filepath.Join(s.cfg.Paths.WorkDir, id+"-upload"+ext)
	out, err := os.Create(path)
	if err != nil {
		return upload{}, services.Wrap(nil, "server", "upload", "create work file", err)
	}
	size, err := io.Copy(out, part)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fileutil.RemoveIfExists(path)
		return upload{}, services.Wrap(nil, "server", "upload", "persist upload", err)
	}
	return upload{path: path, origName: header.Filename, size: size}, nil
}

// formInt parses an optional integer form value; blank means zero.
func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "server", "upload",
			fmt.Sprintf("field %s must be an integer", field), err)
	}
	return value, nil
}

func contentTypeFor(target string) string {
	if byExt := mime.TypeByExtension("." + target); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func downloadNameFor(origName, target string) string {
	base := strings.TrimSuffix(filepath.Base(origName), filepath.Ext(origName))
	if base == "" || base == "." {
		base = "download"
	}
	return base + "." + target
}

func (s *Server) handleConvertAudio(w http.ResponseWriter, r *http.Request) {
	requestsInFlight.Inc()
	defer requestsInFlight.Dec()

	id := uuid.NewString()
	up, err := s.saveUpload(w, r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = fileutil.RemoveIfExists(up.path) }()

	target, err := convert.ParseAudioTarget(r.FormValue("target"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "audio", err.Error(), nil))
		return
	}
	bitrate := strings.TrimSpace(r.FormValue("bitrate"))
	if bitrate == "" {
		bitrate = s.cfg.Encode.AudioBitrate
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	outPath := filepath.Join(s.cfg.Paths.WorkDir, id+"-out."+target)
	start := time.Now()
	convErr := convert.Audio(ctx, s.audio, convert.AudioRequest{
		InputPath:  up.path,
		OutputPath: outPath,
		Target:     target,
		Bitrate:    bitrate,
	})
	s.finishOneShot(w, r, oneShot{
		kind:     "audio",
		source:   up.origName,
		target:   target,
		outPath:  outPath,
		start:    start,
		err:      convErr,
		origName: up.origName,
	})
}

func (s *Server) handleConvertImage(w http.ResponseWriter, r *http.Request) {
	requestsInFlight.Inc()
	defer requestsInFlight.Dec()

	id := uuid.NewString()
	up, err := s.saveUpload(w, r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = fileutil.RemoveIfExists(up.path) }()

	target, err := convert.ParseImageTarget(r.FormValue("target"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "image", err.Error(), nil))
		return
	}
	maxWidth, err := formInt(r, "max_width")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxHeight, err := formInt(r, "max_height")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	quality, err := formInt(r, "quality")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	outPath := filepath.Join(s.cfg.Paths.WorkDir, id+"-out."+target)
	start := time.Now()
	convErr := convert.Image(convert.ImageRequest{
		InputPath:  up.path,
		OutputPath: outPath,
		Target:     target,
		MaxWidth:   maxWidth,
		MaxHeight:  maxHeight,
		Quality:    quality,
	})
	s.finishOneShot(w, r, oneShot{
		kind:     "image",
		source:   up.origName,
		target:   target,
		outPath:  outPath,
		start:    start,
		err:      convErr,
		origName: up.origName,
	})
}

func (s *Server) handleConvertDocument(w http.ResponseWriter, r *http.Request) {
	requestsInFlight.Inc()
	defer requestsInFlight.Dec()

	if s.docs == nil {
		s.writeError(w, r, services.Wrap(services.ErrConfiguration, "server", "document",
			"document conversion unavailable: LibreOffice not found", nil))
		return
	}

	id := uuid.NewString()
	up, err := s.saveUpload(w, r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = fileutil.RemoveIfExists(up.path) }()

	target, err := convert.ParseDocumentTarget(r.FormValue("target"))
	if err != nil {
		s.writeError(w, r, services.Wrap(services.ErrValidation, "server", "document", err.Error(), nil))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	outPath, convErr := s.docs.Convert(ctx, up.path, s.cfg.Paths.WorkDir, target)
	s.finishOneShot(w, r, oneShot{
		kind:     "document",
		source:   up.origName,
		target:   target,
		outPath:  outPath,
		start:    start,
		err:      convErr,
		origName: up.origName,
	})
}

type oneShot struct {
	kind     string
	source   string
	target   string
	outPath  string
	start    time.Time
	err      error
	origName string
}

// finishOneShot records the outcome and streams the output on success. The
// output file is deleted either way.
func (s *Server) finishOneShot(w http.ResponseWriter, r *http.Request, res oneShot) {
	elapsed := time.Since(res.start)
	if res.err != nil {
		observeConversion(res.kind, "failed", elapsed.Seconds())
		s.recordHistory(r, history.Entry{
			Kind:      res.kind,
			Source:    res.source,
			Target:    res.target,
			Status:    history.StatusFailed,
			ErrorCode: services.Code(res.err),
			ElapsedMS: elapsed.Milliseconds(),
		})
		if res.outPath != "" {
			_ = fileutil.RemoveIfExists(res.outPath)
		}
		s.writeError(w, r, res.err)
		return
	}
	defer func() { _ = fileutil.RemoveIfExists(res.outPath) }()

	observeConversion(res.kind, "completed", elapsed.Seconds())
	s.recordHistory(r, history.Entry{
		Kind:      res.kind,
		Source:    res.source,
		Target:    res.target,
		Status:    history.StatusCompleted,
		SizeBytes: fileutil.FileSize(res.outPath),
		ElapsedMS: elapsed.Milliseconds(),
	})

	s.streamFile(w, r, res.outPath, contentTypeFor(res.target), downloadNameFor(res.origName, res.target))
}
