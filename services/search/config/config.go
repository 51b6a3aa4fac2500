// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the sky search service configuration: embedded
// defaults, optionally overridden by a YAML file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Embedded Defaults
// =============================================================================

//go:embed defaults.yaml
var defaultsYAML []byte

// =============================================================================
// Configuration Types
// =============================================================================

// Duration wraps time.Duration with YAML decoding of Go duration strings
// ("5s", "24h").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root service configuration.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type Config struct {
	Resolver ResolverConfig `yaml:"resolver"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
}

// ResolverConfig configures the external resolver endpoint client.
type ResolverConfig struct {
	// BaseURL is the portal API exposing the resolver endpoint.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-call budget for each resolver lookup.
	Timeout Duration `yaml:"timeout"`

	// NMax bounds the candidates requested per lookup.
	NMax int `yaml:"nmax"`
}

// CacheConfig configures the resolver caches.
type CacheConfig struct {
	// MemoEntries bounds the in-process LRU.
	MemoEntries int `yaml:"memo_entries"`

	// PersistDir is the BadgerDB directory for the persisted tier.
	// Empty disables persistence (memo-only mode).
	PersistDir string `yaml:"persist_dir"`

	// PersistTTL is the lifetime of persisted resolver answers.
	PersistTTL Duration `yaml:"persist_ttl"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port"`

	// BatchLimit bounds the batch parse endpoint.
	BatchLimit int `yaml:"batch_limit"`
}

// =============================================================================
// Loading
// =============================================================================

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overridden by the YAML file at path. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return cfg, nil
}
