// Package server implements the parsets HTTP API.
//
// Routes:
//
//	GET  /healthz             liveness and build information
//	POST /v1/layout           model and scene as JSON
//	POST /v1/render?format=f  one rendered artifact (svg, json, dot, tree, png, pdf)
//
// Request bodies carry the records inline:
//
//	{
//	  "rows": [{"Class": "First", "Sex": "F"}, ...],
//	  "options": {"dimensions": ["Class", "Sex"], "tension": 0.6}
//	}
//
// Every response carries an X-Request-ID header; an incoming one is kept.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/parsets/pkg/buildinfo"
	"github.com/matzehuels/parsets/pkg/dataset"
	perrors "github.com/matzehuels/parsets/pkg/errors"
	"github.com/matzehuels/parsets/pkg/observability"
	"github.com/matzehuels/parsets/pkg/pipeline"
	"github.com/matzehuels/parsets/pkg/render/sink"
)

// Defaults for [Config].
const (
	DefaultMaxBodyBytes = 16 << 20
	DefaultMaxRows      = 1_000_000
	DefaultTimeout      = 60 * time.Second
)

// Config configures [New].
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// MaxBodyBytes bounds request bodies. Zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// MaxRows bounds the records per request. Zero uses DefaultMaxRows.
	MaxRows int

	// Timeout bounds each request. Zero uses DefaultTimeout.
	Timeout time.Duration

	// Events, when set, adds its counts to the health response.
	Events *observability.LogHooks
}

// Server serves the HTTP API. It is safe for concurrent use; every request
// builds its own model.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	maxRows int
	events  *observability.LogHooks
	router  chi.Router
}

// Request is the body of the layout and render endpoints.
type Request struct {
	Rows    dataset.Dataset  `json:"rows"`
	Options pipeline.Options `json:"options"`
}

// New creates a server with its routes mounted.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	s := &Server{
		runner:  cfg.Runner,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
		maxRows: cfg.MaxRows,
		events:  cfg.Events,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, perrors.New(perrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	}
	if s.events != nil {
		body["events"] = s.events.Counts()
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = s.logger.With("request", RequestID(r.Context()))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	m, err := s.runner.Build(r.Context(), req.Rows, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc := pipeline.BuildScene(m, opts)
	id := RequestID(r.Context())
	w.Header().Set("X-Build-ID", id)
	writeJSON(w, http.StatusOK, sink.NewModelDocument(m, id, sc, opts.MaxDepth))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request", RequestID(r.Context()))

	res, err := s.runner.Execute(r.Context(), req.Rows, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Build-ID", res.BuildID.String())
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// decode reads and bounds a request body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, perrors.New(perrors.ErrCodeInvalidInput, "request body exceeds %d bytes", s.maxBody)
		}
		if errors.Is(err, io.EOF) {
			return req, perrors.New(perrors.ErrCodeInvalidInput, "request body is empty")
		}
		return req, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Rows) > s.maxRows {
		return req, perrors.New(perrors.ErrCodeInvalidDataset, "%d rows exceed the limit of %d", len(req.Rows), s.maxRows)
	}
	return req, nil
}
