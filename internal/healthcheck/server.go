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

// Package healthcheck serves liveness and readiness probes.
package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

const DefaultPort = 8090

type response struct {
	Healthy bool `json:"healthy"`
}

// Server exposes /healthz, /readyz, and /livez on its own port.
type Server struct {
	port    int
	healthy atomic.Bool
	ready   atomic.Bool
	server  *http.Server
}

func NewServer(port int) *Server {
	if port <= 0 {
		port = DefaultPort
	}
	return &Server{port: port}
}

// SetHealthy flips the health status reported by /healthz.
func (s *Server) SetHealthy(healthy bool) {
	s.healthy.Store(healthy)
	slog.Debug("Health status updated", slog.Bool("healthy", healthy))
}

// SetReady flips the readiness reported by /readyz.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
	slog.Debug("Ready status updated", slog.Bool("ready", ready))
}

// Handler returns the probe routes, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.healthy.Load())
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		respond(w, s.ready.Load())
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// Alive as long as the process can answer at all.
		respond(w, true)
	})
	return mux
}

// Start serves probes until ctx is cancelled, then shuts down.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	slog.Info("Starting health check server", slog.Int("port", s.port))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health check server error", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	return s.Stop()
}

// Stop shuts the probe server down. Safe to call when never started.
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	slog.Info("Stopping health check server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func respond(w http.ResponseWriter, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	if ok {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(response{Healthy: ok}); err != nil {
		slog.Error("Failed to encode health check response", slog.Any("error", err))
	}
}
