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

package pattern

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultExcludedIDs are directory records that must never be surfaced
// regardless of configuration: retired patterns the directory still
// returns for older API clients.
var DefaultExcludedIDs = []string{"2921", "3618", "4227"}

// Exclusions is the set of pattern ids that must never be surfaced.
// Immutable after construction; shared read-only between components.
type Exclusions struct {
	ids map[string]struct{}
}

// NewExclusions builds an exclusion set from canonical id strings.
func NewExclusions(ids ...string) Exclusions {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		m[id] = struct{}{}
	}
	return Exclusions{ids: m}
}

// Contains reports whether id is excluded. A record with no id ("") is
// never excluded.
func (e Exclusions) Contains(id string) bool {
	if id == "" {
		return false
	}
	_, ok := e.ids[id]
	return ok
}

// Len returns the number of excluded ids.
func (e Exclusions) Len() int {
	return len(e.ids)
}

// exclusionsFile is the on-disk shape of an ops-managed exclusion list.
type exclusionsFile struct {
	Excluded []string `yaml:"excluded"`
}

// LoadExclusions reads a YAML exclusion file and merges it with the
// built-in defaults. An empty path yields just the defaults.
func LoadExclusions(path string, defaults ...string) (Exclusions, error) {
	ids := append([]string(nil), defaults...)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Exclusions{}, fmt.Errorf("read exclusions file: %w", err)
		}
		var f exclusionsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return Exclusions{}, fmt.Errorf("parse exclusions file %s: %w", path, err)
		}
		ids = append(ids, f.Excluded...)
	}
	return NewExclusions(ids...), nil
}

// Filter returns the patterns whose ids are not excluded, in their
// original order. It never deduplicates and never fails; malformed
// records simply have no id to match.
func Filter(patterns []Pattern, excl Exclusions) []Pattern {
	kept := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		if excl.Contains(p.ID) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
