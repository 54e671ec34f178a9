// Package server exposes document processing over HTTP: multipart
// upload, job status and task preview, package download, and live
// progress events over a websocket.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskmill"
)

// Config holds the HTTP server settings.
type Config struct {
	// Addr is the listen address. Defaults to :8080.
	Addr string `json:"addr" yaml:"addr"`

	// APIKey is the bearer token required on every route except
	// /health. Empty disables authentication.
	APIKey string `json:"api_key" yaml:"api_key"`

	// CORSOrigins is a comma-separated list of allowed origins. Empty
	// disables the CORS headers.
	CORSOrigins string `json:"cors_origins" yaml:"cors_origins"`

	// MaxUploadMB caps the upload size. Defaults to 50.
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb"`

	// JobTTL is how long finished jobs stay queryable and
	// downloadable. Defaults to one hour.
	JobTTL time.Duration `json:"job_ttl" yaml:"job_ttl"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 50
	}
	if c.JobTTL <= 0 {
		c.JobTTL = time.Hour
	}
	return c
}

// Server wires a Processor to the HTTP surface.
type Server struct {
	cfg       Config
	processor *taskmill.Processor
	jobs      *jobStore
	hub       *hub
	httpSrv   *http.Server
}

// New builds a Server around an existing Processor.
func New(cfg Config, p *taskmill.Processor) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:       cfg,
		processor: p,
		jobs:      newJobStore(cfg.JobTTL),
		hub:       newHub(),
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 0, // event subscribers hold their connection open
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /api/jobs/{id}/tasks", s.handleTasks)
	mux.HandleFunc("GET /api/jobs/{id}/workbook", s.handleWorkbook)
	mux.HandleFunc("GET /api/jobs/{id}/package", s.handlePackage)
	mux.HandleFunc("GET /api/jobs/{id}/events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Middleware chain: recovery -> cors -> auth -> logging -> mux
	var handler http.Handler = mux
	handler = logMiddleware(handler)
	handler = authMiddleware(s.cfg.APIKey, handler)
	handler = corsMiddleware(s.cfg.CORSOrigins, handler)
	handler = recoveryMiddleware(handler)
	return handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("server starting", "addr", s.cfg.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown closes event subscribers and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.httpSrv.Shutdown(ctx)
}
