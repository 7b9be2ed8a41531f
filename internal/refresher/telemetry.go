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

package refresher

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("github.com/blockkit/patterncache/internal/refresher")

var (
	reconcileCounter metric.Int64Counter
	refreshCounter   metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/blockkit/patterncache/internal/refresher")

	var err error

	reconcileCounter, err = meter.Int64Counter(
		"patterncache.refresher.reconciles",
		metric.WithDescription("Number of reconcile decisions, by action"),
	)
	if err != nil {
		log.Fatalf("failed to create refresher.reconciles counter: %v", err)
	}

	refreshCounter, err = meter.Int64Counter(
		"patterncache.refresher.refreshes",
		metric.WithDescription("Number of fetch-and-store attempts, by outcome"),
	)
	if err != nil {
		log.Fatalf("failed to create refresher.refreshes counter: %v", err)
	}
}

func recordReconcile(action string) {
	reconcileCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("action", action),
	))
}

func recordRefresh(outcome string) {
	refreshCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
