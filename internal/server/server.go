// Package server exposes the analysis pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness and build version
//	POST /v1/analyze   analyze a blueprint, returning the report and artifacts
//
// The analyze body is either a JSON request object
//
//	{"blueprint": "0eNq...", "formats": ["svg"], "inserter_capacity_bonus": 2}
//
// or the blueprint itself, as an exchange string or decoded JSON.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/factoryflow/pkg/buildinfo"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/pipeline"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// maxBodySize bounds request bodies: a maximal blueprint plus the request
// envelope.
const maxBodySize = errors.MaxBlueprintSize + 64<<10

// shutdownTimeout is how long in-flight requests get after the context ends.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	router   chi.Router
}

// New creates a server running analyses on runner. Requests inherit the
// research level and sink rate of defaults unless they set their own.
func New(runner *pipeline.Runner, logger *log.Logger, defaults pipeline.Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, defaults: defaults}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Get()})
}

// analyzeRequest is the JSON request form of /v1/analyze.
type analyzeRequest struct {
	Blueprint             json.RawMessage `json:"blueprint"`
	Formats               []string        `json:"formats,omitempty"`
	Detailed              bool            `json:"detailed,omitempty"`
	Refresh               bool            `json:"refresh,omitempty"`
	InserterCapacityBonus *int            `json:"inserter_capacity_bonus,omitempty"`
	UnboundedRate         float64         `json:"unbounded_rate,omitempty"`
}

type analyzeResponse struct {
	RequestID     string            `json:"request_id"`
	BlueprintHash string            `json:"blueprint_hash"`
	Cached        bool              `json:"cached"`
	Report        *report.Report    `json:"report"`
	Artifacts     map[string]string `json:"artifacts,omitempty"` // dot and svg sources
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	opts, err := s.parseAnalyze(body)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger.With("request_id", RequestIDFromContext(r.Context()))

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := analyzeResponse{
		RequestID:     RequestIDFromContext(r.Context()),
		BlueprintHash: res.BlueprintHash,
		Cached:        res.CacheInfo.ReportHit,
		Report:        res.Report,
	}
	for format, data := range res.Artifacts {
		if format == pipeline.FormatJSON {
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = make(map[string]string)
		}
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseAnalyze accepts the request object or a bare blueprint. A body whose
// "blueprint" key holds a JSON string is a request; anything else is the
// blueprint.
func (s *Server) parseAnalyze(body []byte) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Blueprint = string(body)

	var req analyzeRequest
	if json.Unmarshal(body, &req) != nil || len(req.Blueprint) == 0 || req.Blueprint[0] != '"' {
		return opts, nil
	}
	if err := json.Unmarshal(req.Blueprint, &opts.Blueprint); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode blueprint field")
	}
	if len(req.Formats) > 0 {
		opts.Formats = req.Formats
	}
	opts.Detailed = req.Detailed
	opts.Refresh = req.Refresh
	if req.InserterCapacityBonus != nil {
		opts.InserterCapacityBonus = *req.InserterCapacityBonus
	}
	if req.UnboundedRate != 0 {
		opts.UnboundedRate = req.UnboundedRate
	}
	return opts, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorResponse{Error: errors.UserMessage(err), Code: code})
}
