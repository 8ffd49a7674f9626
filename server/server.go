// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/search"
)

const shutdownTimeout = 5 * time.Second

// served is the catalog currently answering requests.
type served struct {
	catalog  *catalog.Catalog
	loadedAt time.Time
}

// Server answers recommendation and lookup requests over HTTP.
type Server struct {
	searcher *search.Searcher
	current  atomic.Pointer[served]
	metrics  *Metrics
	address  string
	now      func() time.Time
	logger   *slog.Logger
	handler  http.Handler
}

// Option configures a Server.
type Option func(*Server) error

// WithAddress sets the listen address. Default is ":5000".
func WithAddress(addr string) Option {
	return func(s *Server) error {
		if addr != "" {
			s.address = addr
		}
		return nil
	}
}

// WithMetrics sets the metrics the server records to.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) error {
		if m != nil {
			s.metrics = m
		}
		return nil
	}
}

// WithClock sets the time source used for load timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a server answering from cat.
func NewServer(searcher *search.Searcher, cat *catalog.Catalog, opts ...Option) (*Server, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	s := &Server{
		searcher: searcher,
		address:  ":5000",
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	s.handler = s.routes()
	s.SetCatalog(cat)
	return s, nil
}

// SetCatalog atomically replaces the served catalog. A nil catalog is ignored.
func (s *Server) SetCatalog(cat *catalog.Catalog) {
	if cat == nil {
		return
	}
	s.current.Store(&served{catalog: cat, loadedAt: s.now()})
	s.metrics.observeCatalog(cat)
	meta := cat.Metadata()
	s.logger.Info("serving catalog", "parts", cat.Len(), "terms", len(cat.Terms()), "run", meta.RunID)
}

// Catalog returns the catalog currently served.
func (s *Server) Catalog() *catalog.Catalog {
	return s.current.Load().catalog
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.address)
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
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /recommend", s.instrument("recommend", s.handleRecommendQuery))
	mux.Handle("POST /recommend", s.instrument("recommend", s.handleRecommendJSON))
	mux.Handle("GET /parts/{key}", s.instrument("part", s.handlePart))
	mux.Handle("GET /status", s.instrument("status", s.handleStatus))
	mux.Handle("GET /health", s.instrument("health", s.handleHealth))
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		elapsed := time.Since(start)
		s.metrics.observeRequest(route, rec.code, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "code", rec.code, "elapsed", elapsed)
	})
}
