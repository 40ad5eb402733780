package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidmux/internal/config"
	"vidmux/internal/convert"
	"vidmux/internal/encode"
	"vidmux/internal/history"
	"vidmux/internal/logging"
	"vidmux/internal/pipeline"
	"vidmux/internal/services"
)

// VideoRunner is the pipeline capability the server drives for remote video
// requests.
type VideoRunner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Server holds the conversion surface. The document converter and history
// store are optional; their routes degrade cleanly when absent.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	video  VideoRunner
	audio  encode.Runner
	docs   *convert.DocumentConverter
	hist   *history.Store
}

// New constructs the HTTP surface. video and audio are required; docs and
// hist may be nil.
func New(cfg *config.Config, logger *slog.Logger, video VideoRunner, audio encode.Runner, docs *convert.DocumentConverter, hist *history.Store) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config required")
	}
	if video == nil || audio == nil {
		return nil, errors.New("server: video and audio runners required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		video:  video,
		audio:  audio,
		docs:   docs,
		hist:   hist,
	}, nil
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)
	api.HandleFunc("/convert/video", s.handleConvertVideo).Methods(http.MethodPost)
	api.HandleFunc("/convert/audio", s.handleConvertAudio).Methods(http.MethodPost)
	api.HandleFunc("/convert/image", s.handleConvertImage).Methods(http.MethodPost)
	api.HandleFunc("/convert/document", s.handleConvertDocument).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	return r
}

// NewHTTPServer wraps the handler in an http.Server bound per config.
func (s *Server) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:        s.cfg.Paths.Bind,
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		// Conversions stream large bodies both ways; the per-request
		// conversion timeout bounds the work instead.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.hist == nil {
		s.writeError(w, r, services.Wrap(services.ErrConfiguration, "server", "history", "history disabled", nil))
		return
	}
	entries, err := s.hist.Recent(r.Context(), 50)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	type item struct {
		RequestID string `json:"request_id"`
		Kind      string `json:"kind"`
		Source    string `json:"source"`
		Target    string `json:"target"`
		Strategy  string `json:"strategy,omitempty"`
		Status    string `json:"status"`
		ErrorCode string `json:"error_code,omitempty"`
		SizeBytes int64  `json:"size_bytes"`
		ElapsedMS int64  `json:"elapsed_ms"`
		CreatedAt string `json:"created_at"`
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		items = append(items, item{
			RequestID: e.RequestID,
			Kind:      e.Kind,
			Source:    e.Source,
			Target:    e.Target,
			Strategy:  e.Strategy,
			Status:    e.Status,
			ErrorCode: e.ErrorCode,
			SizeBytes: e.SizeBytes,
			ElapsedMS: e.ElapsedMS,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": items})
}

// authMiddleware enforces the bearer token when one is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(s.cfg.Paths.APIToken)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), []byte(token)) != 1 {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "missing or invalid bearer token", Code: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestContext applies the configured per-conversion timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.cfg.Limits.RequestTimeout) * time.Second
	if timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), timeout)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := services.HTTPStatus(err)
	code := services.Code(err)
	logging.WithContext(r.Context(), s.logger).Error("request failed",
		logging.String("path", r.URL.Path),
		logging.String("code", code),
		logging.Int("status", status),
		logging.Error(err),
	)
	respondJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
