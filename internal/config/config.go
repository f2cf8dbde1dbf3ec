// Copyright 2026 The json-archive Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads user defaults for the json-archive CLI: the
// default snapshot interval, the default `info` output mode, and
// whether human output is colored. It follows the teacher's lib/config single-file-of-truth
// shape (gopkg.in/yaml.v3, no automatic directory discovery), scaled
// down for a CLI tool that runs fine with no config file at all —
// unlike the teacher's services, json-archive has no deployment
// environment to fail fast on, so Load returns built-in Defaults()
// rather than erroring when JSON_ARCHIVE_CONFIG is unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how `info` renders by default.
type OutputFormat string

const (
	OutputHuman OutputFormat = "human"
	OutputJSON  OutputFormat = "json"
)

// Config holds the user-configurable defaults read from a single YAML
// file (path given by JSON_ARCHIVE_CONFIG).
type Config struct {
	// SnapshotInterval is the default number of observations between
	// additive snapshots (spec §4.7 step 7), overridden per-invocation
	// by -s.
	SnapshotInterval int `yaml:"snapshot_interval"`

	// Output is the default --output mode for info.
	Output OutputFormat `yaml:"output"`

	// Color controls ANSI styling of human output when the output
	// stream is a terminal; false forces plain text even on a tty.
	Color bool `yaml:"color"`
}

// Default returns the built-in configuration used when no config file
// is supplied.
func Default() *Config {
	return &Config{
		SnapshotInterval: 100,
		Output:           OutputHuman,
		Color:            true,
	}
}

// Load reads JSON_ARCHIVE_CONFIG if set, merging it over Default(); if
// unset, it returns Default() unchanged.
func Load() (*Config, error) {
	path := os.Getenv("JSON_ARCHIVE_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a specific config file, merging its fields over
// Default().
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
