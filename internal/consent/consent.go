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

// Package consent provides implementations of the externally owned flag
// that gates background catalog refreshes. The flag is read at decision
// time on every call; its value is never cached here.
package consent

import (
	"context"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Static is a fixed consent decision, typically from configuration.
type Static bool

// Granted reports the fixed decision.
func (s Static) Granted(ctx context.Context) bool {
	return bool(s)
}

// FileFlag reads consent from a small YAML file on every call, so an
// operator (or another process) can revoke consent without a restart.
// A missing or unreadable file means consent is denied.
type FileFlag struct {
	Path string
}

type consentFile struct {
	Granted bool `yaml:"granted"`
}

// Granted re-reads the consent file and reports its decision.
func (f FileFlag) Granted(ctx context.Context) bool {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read consent file, treating as denied",
				slog.String("path", f.Path), slog.Any("error", err))
		}
		return false
	}
	var c consentFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		slog.Warn("Failed to parse consent file, treating as denied",
			slog.String("path", f.Path), slog.Any("error", err))
		return false
	}
	return c.Granted
}
