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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://patterns.blockkit.dev/api/v1/catalog", cfg.Source.URL)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 12*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "static", cfg.Consent.Mode)
	assert.False(t, cfg.Consent.Granted, "consent must default to denied")
	assert.Equal(t, 15*time.Minute, cfg.Reconcile.Interval)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, 8090, cfg.Health.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PATTERNCACHE_SOURCE_URL", "https://directory.example.com/patterns")
	t.Setenv("PATTERNCACHE_CACHE_TTL", "1h")
	t.Setenv("PATTERNCACHE_CONSENT_GRANTED", "true")
	t.Setenv("PATTERNCACHE_RECONCILE_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://directory.example.com/patterns", cfg.Source.URL)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Consent.Granted)
	assert.Equal(t, 5*time.Minute, cfg.Reconcile.Interval)
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return defaultConfig() }

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing source url", func(t *testing.T) {
		cfg := valid()
		cfg.Source.URL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("file mode requires a path", func(t *testing.T) {
		cfg := valid()
		cfg.Consent.Mode = "file"
		assert.Error(t, cfg.Validate())

		cfg.Consent.File = "/etc/patterncache/consent.yaml"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown consent mode", func(t *testing.T) {
		cfg := valid()
		cfg.Consent.Mode = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive reconcile interval", func(t *testing.T) {
		cfg := valid()
		cfg.Reconcile.Interval = 0
		assert.Error(t, cfg.Validate())
	})
}
