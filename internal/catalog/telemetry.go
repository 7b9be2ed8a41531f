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

package catalog

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	lookupCounter metric.Int64Counter
	storeCounter  metric.Int64Counter
	flushCounter  metric.Int64Counter
	storedGauge   metric.Int64Gauge
)

func init() {
	meter := otel.Meter("github.com/blockkit/patterncache/internal/catalog")

	var err error

	lookupCounter, err = meter.Int64Counter(
		"patterncache.catalog.lookups",
		metric.WithDescription("Number of cache lookups, by outcome"),
	)
	if err != nil {
		log.Fatalf("failed to create catalog.lookups counter: %v", err)
	}

	storeCounter, err = meter.Int64Counter(
		"patterncache.catalog.stores",
		metric.WithDescription("Number of whole-collection cache writes"),
	)
	if err != nil {
		log.Fatalf("failed to create catalog.stores counter: %v", err)
	}

	flushCounter, err = meter.Int64Counter(
		"patterncache.catalog.flushes",
		metric.WithDescription("Number of cache flushes"),
	)
	if err != nil {
		log.Fatalf("failed to create catalog.flushes counter: %v", err)
	}

	storedGauge, err = meter.Int64Gauge(
		"patterncache.catalog.stored_patterns",
		metric.WithDescription("Number of patterns in the last stored collection"),
	)
	if err != nil {
		log.Fatalf("failed to create catalog.stored_patterns gauge: %v", err)
	}
}

func recordLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	lookupCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func recordStore(count int) {
	storeCounter.Add(context.Background(), 1)
	storedGauge.Record(context.Background(), int64(count))
}

func recordFlush() {
	flushCounter.Add(context.Background(), 1)
}
