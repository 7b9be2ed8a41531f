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

// Package refresher decides how the pattern cache is repopulated:
// synchronously on demand, or as a deduplicated background job gated by
// the consent flag.
package refresher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/blockkit/patterncache/internal/catalog"
	"github.com/blockkit/patterncache/internal/idgen"
	"github.com/blockkit/patterncache/internal/pattern"
)

// RemoteSource fetches raw pattern records from the pattern directory.
type RemoteSource interface {
	Fetch(ctx context.Context) ([]pattern.Pattern, error)
}

// ConsentFlag is the externally owned flag gating background refreshes.
// It is queried at decision time on every reconcile.
type ConsentFlag interface {
	Granted(ctx context.Context) bool
}

// Scheduler repopulates the pattern cache. All writes go through the
// catalog; the scheduler itself holds no pattern data.
type Scheduler struct {
	source     RemoteSource
	flag       ConsentFlag
	cache      *catalog.Cache
	exclusions pattern.Exclusions

	// pending is true from enqueue until the background job finishes,
	// so at most one refresh is queued or in flight at a time.
	mu      sync.Mutex
	pending bool

	jobs     chan struct{}
	stopJobs context.CancelFunc
	wg       sync.WaitGroup
}

// New creates a scheduler and starts its background worker.
func New(cache *catalog.Cache, source RemoteSource, flag ConsentFlag, exclusions pattern.Exclusions) *Scheduler {
	s := &Scheduler{
		source:     source,
		flag:       flag,
		cache:      cache,
		exclusions: exclusions,
		jobs:       make(chan struct{}, 1),
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJobs = cancel
	s.wg.Add(1)
	go s.worker(ctx)
	return s
}

// Close stops the background worker and waits for an in-flight job.
func (s *Scheduler) Close() {
	s.stopJobs()
	s.wg.Wait()
}

// Reconcile reads the consent flag and acts on it. Denied consent
// flushes the cache: data gathered under consent must stop being served
// once consent is withdrawn, expired or not. Granted consent enqueues a
// deduplicated background refresh and leaves current contents serving
// until the job lands.
func (s *Scheduler) Reconcile(ctx context.Context) {
	if !s.flag.Granted(ctx) {
		slog.Info("Consent denied, flushing pattern cache")
		s.cache.Flush()
		recordReconcile("flush")
		return
	}
	s.enqueueRefresh()
}

// enqueueRefresh queues one background refresh unless one is already
// pending or in flight.
func (s *Scheduler) enqueueRefresh() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		recordReconcile("deduplicated")
		return
	}
	s.pending = true
	s.mu.Unlock()

	// The pending flag guarantees room in the buffered channel.
	s.jobs <- struct{}{}
	recordReconcile("scheduled")
}

// worker runs queued refresh jobs. Job failures are logged and
// swallowed; the cache keeps its prior state until a later attempt
// succeeds.
func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.jobs:
			jobID := idgen.ShortID()
			kept, err := s.FetchAndStore(ctx)
			if err != nil {
				slog.Warn("Background pattern refresh failed",
					slog.String("jobID", jobID), slog.Any("error", err))
			} else {
				slog.Info("Background pattern refresh complete",
					slog.String("jobID", jobID), slog.Int("patterns", len(kept)))
			}
			s.mu.Lock()
			s.pending = false
			s.mu.Unlock()
		}
	}
}

// FetchAndStore fetches the catalog, filters it against the exclusion
// set, and replaces the cached collection. On fetch failure the cache is
// left exactly as it was and the error is returned; a broken refresh
// must never take down a working cache.
func (s *Scheduler) FetchAndStore(ctx context.Context) ([]pattern.Pattern, error) {
	ctx, span := tracer.Start(ctx, "refresher.FetchAndStore")
	defer span.End()

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		recordRefresh("error")
		return nil, fmt.Errorf("refresh pattern catalog: %w", err)
	}

	kept := pattern.Filter(raw, s.exclusions)
	s.cache.Store(kept)
	recordRefresh("success")
	return kept, nil
}
