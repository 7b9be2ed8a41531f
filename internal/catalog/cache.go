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

// Package catalog owns the cached pattern collection.
package catalog

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/blockkit/patterncache/internal/pattern"
)

// cacheKey is the fixed, versioned key the pattern collection is stored
// under. Bump the version when the stored shape changes.
const cacheKey = "layout-patterns:v1"

// DefaultTTL bounds how long a stored collection is served before it is
// treated as absent.
const DefaultTTL = 12 * time.Hour

// Cache is the single source of truth for the cached pattern collection.
// The underlying store applies expiry itself, so readers either see a
// live collection or nothing. Writes are whole-collection replacements.
type Cache struct {
	store *ttlcache.Cache[string, []pattern.Pattern]
	ttl   time.Duration
}

// New creates a pattern cache with the given TTL. A non-positive ttl
// falls back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	store := ttlcache.New(
		ttlcache.WithTTL[string, []pattern.Pattern](ttl),
		ttlcache.WithDisableTouchOnHit[string, []pattern.Pattern](),
	)
	go store.Start()
	return &Cache{store: store, ttl: ttl}
}

// Close stops the store's expiration goroutine.
func (c *Cache) Close() {
	c.store.Stop()
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached patterns, or an empty slice when nothing live
// is stored. It never triggers a fetch; a miss is a normal empty result.
func (c *Cache) Get() []pattern.Pattern {
	item := c.store.Get(cacheKey)
	if item == nil {
		recordLookup(false)
		return []pattern.Pattern{}
	}
	recordLookup(true)
	return item.Value()
}

// Store replaces the cached collection and resets its expiry clock.
// It never merges with what was there before.
func (c *Cache) Store(patterns []pattern.Pattern) {
	c.store.Set(cacheKey, patterns, ttlcache.DefaultTTL)
	recordStore(len(patterns))
}

// Flush removes the cached collection. Flushing an empty cache is a
// no-op.
func (c *Cache) Flush() {
	c.store.Delete(cacheKey)
	recordFlush()
}
