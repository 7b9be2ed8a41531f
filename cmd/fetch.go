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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/blockkit/patterncache/config"
	"github.com/blockkit/patterncache/internal/pattern"
	"github.com/blockkit/patterncache/internal/remote"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and filter the remote catalog once, printing the result",
	Long:  "One-shot fetch from the pattern directory with exclusion filtering applied, written to stdout as JSON. Useful for validating the source URL and the exclusion set without running the service.",
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, shutdownTelemetry, err := setupTelemetry("patterncache-fetch")
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTelemetry() }()

	exclusions, err := pattern.LoadExclusions(cfg.Exclusions.File, pattern.DefaultExcludedIDs...)
	if err != nil {
		return err
	}

	source := remote.NewSource(cfg.Source.URL, cfg.Source.Timeout)
	raw, err := source.Fetch(ctx)
	if err != nil {
		return err
	}
	kept := pattern.Filter(raw, exclusions)
	slog.Info("Fetched pattern catalog",
		slog.Int("fetched", len(raw)), slog.Int("kept", len(kept)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(kept)
}
