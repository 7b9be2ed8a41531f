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

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/blockkit/patterncache/config"
	"github.com/blockkit/patterncache/internal/apiserver"
	"github.com/blockkit/patterncache/internal/catalog"
	"github.com/blockkit/patterncache/internal/consent"
	"github.com/blockkit/patterncache/internal/healthcheck"
	"github.com/blockkit/patterncache/internal/pattern"
	"github.com/blockkit/patterncache/internal/refresher"
	"github.com/blockkit/patterncache/internal/remote"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pattern catalog service",
	Long:  "Serve cached patterns over HTTP and keep the cache reconciled against the consent flag.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, shutdownTelemetry, err := setupTelemetry("patterncache")
	if err != nil {
		return err
	}

	exclusions, err := pattern.LoadExclusions(cfg.Exclusions.File, pattern.DefaultExcludedIDs...)
	if err != nil {
		return err
	}
	slog.Info("Loaded exclusion set", slog.Int("excluded", exclusions.Len()))

	cache := catalog.New(cfg.Cache.TTL)
	defer cache.Close()

	source := remote.NewSource(cfg.Source.URL, cfg.Source.Timeout)
	scheduler := refresher.New(cache, source, consentFlag(cfg), exclusions)
	defer scheduler.Close()

	health := healthcheck.NewServer(cfg.Health.Port)
	api := apiserver.NewServer(cfg.API.Addr, cache, scheduler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return health.Start(gctx) })
	g.Go(func() error { return api.Start(gctx) })
	g.Go(func() error {
		reconcileLoop(gctx, scheduler, cfg.Reconcile.Interval)
		return nil
	})

	health.SetHealthy(true)
	health.SetReady(true)

	var errs *multierror.Error
	if err := g.Wait(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := shutdownTelemetry(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("shutdown telemetry: %w", err))
	}
	return errs.ErrorOrNil()
}

// reconcileLoop re-evaluates the consent decision immediately and then
// on every tick until ctx is cancelled.
func reconcileLoop(ctx context.Context, scheduler *refresher.Scheduler, interval time.Duration) {
	scheduler.Reconcile(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scheduler.Reconcile(ctx)
		}
	}
}

// consentFlag builds the configured ConsentFlag implementation.
func consentFlag(cfg *config.Config) refresher.ConsentFlag {
	if cfg.Consent.Mode == "file" {
		return consent.FileFlag{Path: cfg.Consent.File}
	}
	return consent.Static(cfg.Consent.Granted)
}
