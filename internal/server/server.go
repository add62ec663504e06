// Package server exposes the converter over HTTP: preview and download of
// uploaded READMEs, and per-owner conversion history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/cache"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/store"
)

const (
	serviceName     = "readmeforge"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 10 * time.Second
	defaultCacheTTL = 10 * time.Minute
)

// Options wires a Server. Pool is required. A nil Store disables history
// and a nil Cache falls back to an in-process preview cache.
type Options struct {
	Config         config.ServerConfig
	DefaultPalette string
	Pool           *readmeforge.ConverterPool
	Store          store.Store
	Cache          cache.Cache
	Logger         *slog.Logger
	Version        string
}

// Server is the HTTP API.
type Server struct {
	cfg     config.ServerConfig
	palette string
	pool    *readmeforge.ConverterPool
	store   store.Store
	cache   cache.Cache
	logger  *slog.Logger
	version string
	handler http.Handler
}

// New builds the server and its routes.
func New(opts Options) *Server {
	s := &Server{
		cfg:     opts.Config,
		palette: readmeforge.NormalizePalette(opts.DefaultPalette),
		pool:    opts.Pool,
		store:   opts.Store,
		cache:   opts.Cache,
		logger:  opts.Logger,
		version: opts.Version,
	}
	if s.cfg.MaxUploadBytes <= 0 {
		s.cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	if s.cfg.IdentityHeader == "" {
		s.cfg.IdentityHeader = config.DefaultIdentityHeader
	}
	if s.store == nil {
		s.store = store.NopStore{}
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache(defaultCacheTTL, cache.DefaultMaxEntries)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.version == "" {
		s.version = "dev"
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger))
	r.Use(cors(s.cfg.AllowedOrigins, s.cfg.IdentityHeader))
	r.Use(identity(s.cfg.IdentityHeader))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/convert", func(r chi.Router) {
			r.Post("/preview", s.handlePreview)
			r.Post("/download", s.handleDownload)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Use(requireOwner)
			r.Get("/", s.handleListDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Delete("/{id}", s.handleDeleteDocument)
		})
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"detail": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
