// Copyright (c) 2025 Arc Engineering
// SPDX-License-Identifier: MIT

// Package server exposes the catalog as a read-only JSON API with a small
// browser front page.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtreilly/arc-bookvault/internal/library"
	"github.com/mtreilly/arc-bookvault/internal/logging"
	"github.com/mtreilly/arc-bookvault/internal/search"
)

const shutdownTimeout = 20 * time.Second

// Server handles HTTP requests against one Library and its search Engine.
type Server struct {
	lib    *library.Library
	engine *search.Engine
	log    *slog.Logger
	now    func() time.Time

	defaults search.Options
	rps      float64
	burst    int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithSearchDefaults sets the matching mode used when a search request
// omits the regex or ci parameters.
func WithSearchDefaults(opts search.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithRateLimit allows rps requests per second per client IP with the given
// burst. rps 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps = rps
		s.burst = burst
	}
}

// New creates a Server.
func New(lib *library.Library, engine *search.Engine, opts ...Option) *Server {
	s := &Server{
		lib:    lib,
		engine: engine,
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
// In-flight requests get shutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.log.Info("shutting down server", "address", addr)

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(sctx)
	}()

	s.log.Info("starting server", "address", addr)
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdownErr; err != nil {
		return err
	}

	s.log.Info("server stopped", "address", addr)
	return nil
}
