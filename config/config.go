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

// Package config loads service configuration from files and environment
// variables.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates configuration for the service.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Consent    ConsentConfig    `mapstructure:"consent"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile"`
	API        APIConfig        `mapstructure:"api"`
	Health     HealthConfig     `mapstructure:"health"`
	Exclusions ExclusionsConfig `mapstructure:"exclusions"`
}

// SourceConfig points at the remote pattern directory.
type SourceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ConsentConfig selects how the consent flag is read. Mode "static"
// uses Granted as a fixed decision; mode "file" re-reads File on every
// reconcile.
type ConsentConfig struct {
	Mode    string `mapstructure:"mode"`
	Granted bool   `mapstructure:"granted"`
	File    string `mapstructure:"file"`
}

type ReconcileConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type APIConfig struct {
	Addr string `mapstructure:"addr"`
}

type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// ExclusionsConfig optionally points at an ops-managed YAML file of
// pattern ids that must never be surfaced.
type ExclusionsConfig struct {
	File string `mapstructure:"file"`
}

func defaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:     "https://patterns.blockkit.dev/api/v1/catalog",
			Timeout: 30 * time.Second,
		},
		Cache:     CacheConfig{TTL: 12 * time.Hour},
		Consent:   ConsentConfig{Mode: "static", Granted: false},
		Reconcile: ReconcileConfig{Interval: 15 * time.Minute},
		API:       APIConfig{Addr: ":8080"},
		Health:    HealthConfig{Port: 8090},
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "PATTERNCACHE" and the dot
// character in keys is replaced by an underscore; for example,
// "source.url" becomes "PATTERNCACHE_SOURCE_URL".
func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("PATTERNCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("source.url must be set")
	}
	switch c.Consent.Mode {
	case "static":
	case "file":
		if c.Consent.File == "" {
			return fmt.Errorf("consent.file must be set when consent.mode is %q", c.Consent.Mode)
		}
	default:
		return fmt.Errorf("unknown consent.mode %q (want static or file)", c.Consent.Mode)
	}
	if c.Reconcile.Interval <= 0 {
		return fmt.Errorf("reconcile.interval must be positive")
	}
	return nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
