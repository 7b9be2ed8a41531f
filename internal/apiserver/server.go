// Copyright (C) 2025-2026 Blockkit, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package apiserver exposes the pattern catalog and its admin actions
// over HTTP.
package apiserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/blockkit/patterncache/internal/pattern"
)

// Catalog is the read/flush surface the API needs from the cache.
type Catalog interface {
	Get() []pattern.Pattern
	Flush()
}

// Refresher is the scheduling surface the API needs.
type Refresher interface {
	Reconcile(ctx context.Context)
	FetchAndStore(ctx context.Context) ([]pattern.Pattern, error)
}

// Server serves the catalog API.
type Server struct {
	addr      string
	cache     Catalog
	refresher Refresher
	server    *http.Server
}

func NewServer(addr string, cache Catalog, refresher Refresher) *Server {
	return &Server{
		addr:      addr,
		cache:     cache,
		refresher: refresher,
	}
}

// Handler returns the routed handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/patterns", s.getPatterns)
	mux.HandleFunc("DELETE /api/v1/patterns", s.flush)
	mux.HandleFunc("POST /api/v1/refresh", s.refresh)
	mux.HandleFunc("POST /api/v1/reconcile", s.reconcile)
	return requestLogger(mux)
}

// Start serves the API until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting catalog API server", slog.String("addr", s.addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Catalog API server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	return s.Stop()
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	slog.Info("Stopping catalog API server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

type patternsResponse struct {
	Patterns []pattern.Pattern `json:"patterns"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// getPatterns serves whatever the cache holds. A miss is an empty list,
// never an error, and never a fetch.
func (s *Server) getPatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, patternsResponse{Patterns: s.cache.Get()})
}

func (s *Server) flush(w http.ResponseWriter, r *http.Request) {
	s.cache.Flush()
	w.WriteHeader(http.StatusNoContent)
}

// refresh runs a synchronous fetch-and-store. A failed fetch leaves the
// cache untouched and surfaces as 502.
func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	kept, err := s.refresher.FetchAndStore(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, patternsResponse{Patterns: kept})
}

// reconcile triggers the consent-gated refresh decision. The work (if
// any) happens out of band, so this always answers 202.
func (s *Server) reconcile(w http.ResponseWriter, r *http.Request) {
	s.refresher.Reconcile(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode API response", slog.Any("error", err))
	}
}

// requestLogger tags every request with an ID and logs it on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Handled API request",
			slog.String("requestID", requestID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)))
	})
}
