// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the .objstyle.yml project file.
//
// Configuration is searched upward from the lint root, so nested projects
// pick up the nearest file, matching how most linters resolve their
// config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

// FileNames are the recognized configuration file names, in priority order.
var FileNames = []string{".objstyle.yml", ".objstyle.yaml"}

// Sentinel errors for the config package.
var (
	// ErrNotFound indicates no configuration file was found.
	ErrNotFound = errors.New("no configuration file found")

	// ErrVersionTooOld indicates the tool is older than min_version.
	ErrVersionTooOld = errors.New("tool version below configured minimum")
)

// configValidate is the validator instance for configuration files.
var configValidate = validator.New()

// =============================================================================
// CONFIG
// =============================================================================

// Config is the on-disk project configuration.
//
// Thread Safety: Treat as immutable after Load.
type Config struct {
	// MinVersion is the minimum tool version this config requires,
	// as a semantic version (e.g., "v1.2.0").
	MinVersion string `yaml:"min_version,omitempty" validate:"omitempty,semver_v"`

	// Prefix is the project class prefix (e.g., "ABC").
	Prefix string `yaml:"prefix,omitempty" validate:"omitempty,alpha,uppercase,min=2,max=5"`

	// Indentation is "spaces" or "tabs".
	Indentation string `yaml:"indentation,omitempty" validate:"omitempty,oneof=spaces tabs"`

	// IndentWidth is the number of spaces per level.
	IndentWidth int `yaml:"indent_width,omitempty" validate:"gte=0,lte=16"`

	// MaxLineLength is the maximum allowed line length.
	MaxLineLength int `yaml:"max_line_length,omitempty" validate:"gte=0,lte=1000"`

	// Exclude are glob patterns for paths to skip.
	Exclude []string `yaml:"exclude,omitempty"`

	// Workers bounds lint concurrency. Zero means one worker per CPU.
	Workers int `yaml:"workers,omitempty" validate:"gte=0,lte=256"`

	// Rules configures per-rule handling.
	Rules RulesConfig `yaml:"rules,omitempty"`

	// Cache configures the on-disk result cache.
	Cache CacheConfig `yaml:"cache,omitempty"`
}

// RulesConfig selects severities per rule. Entries match rule IDs exactly
// or by dash-delimited group prefix (e.g., "method").
type RulesConfig struct {
	// BlockOn lists rules whose findings fail the run.
	BlockOn []string `yaml:"block_on,omitempty"`

	// WarnOn lists rules reported as warnings.
	WarnOn []string `yaml:"warn_on,omitempty"`

	// InfoOn lists rules reported as informational.
	InfoOn []string `yaml:"info_on,omitempty"`

	// Ignore lists rules to disable.
	Ignore []string `yaml:"ignore,omitempty"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `yaml:"enabled,omitempty"`

	// Path is the cache directory. Empty selects a directory under the
	// user cache dir.
	Path string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Indentation:   rules.IndentSpaces,
		IndentWidth:   4,
		MaxLineLength: 100,
		Cache:         CacheConfig{Enabled: true},
	}
}

func init() {
	// "semver_v" accepts canonical semver with the leading v.
	_ = configValidate.RegisterValidation("semver_v", func(fl validator.FieldLevel) bool {
		return semver.IsValid(fl.Field().String())
	})
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads and validates a configuration file.
//
// Inputs:
//
//	path - Path of the YAML file to read.
//	toolVersion - The running tool version (e.g., "v1.4.0"). Checked
//	              against min_version when both are valid semver.
//
// Outputs:
//
//	*Config - The loaded configuration with defaults filled in.
//	error - Non-nil on read, parse, validation, or version failure.
func Load(path, toolVersion string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := configValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	if cfg.MinVersion != "" && semver.IsValid(toolVersion) {
		if semver.Compare(toolVersion, cfg.MinVersion) < 0 {
			return nil, fmt.Errorf("%w: have %s, config requires %s",
				ErrVersionTooOld, toolVersion, cfg.MinVersion)
		}
	}
	return cfg, nil
}

// Find searches for a configuration file starting at dir and walking up.
//
// Outputs:
//
//	string - The path of the nearest configuration file.
//	error - ErrNotFound when no ancestor directory has one.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(abs, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotFound
		}
		abs = parent
	}
}

// LoadOrDefault finds and loads the nearest config, falling back to the
// defaults when none exists.
func LoadOrDefault(dir, toolVersion string) (*Config, error) {
	path, err := Find(dir)
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path, toolVersion)
}

// =============================================================================
// CONVERSION
// =============================================================================

// Settings converts the config into rule settings.
func (c *Config) Settings() rules.Settings {
	s := rules.DefaultSettings()
	if c.Prefix != "" {
		s.Prefix = c.Prefix
	}
	if c.Indentation != "" {
		s.Indentation = c.Indentation
	}
	if c.IndentWidth > 0 {
		s.IndentWidth = c.IndentWidth
	}
	if c.MaxLineLength > 0 {
		s.MaxLineLength = c.MaxLineLength
	}
	return s
}

// Policy converts the config into a rule policy. Lists from the config
// extend the default policy; an entry in a stricter list wins.
func (c *Config) Policy() *rules.RulePolicy {
	if len(c.Rules.BlockOn) == 0 && len(c.Rules.WarnOn) == 0 &&
		len(c.Rules.InfoOn) == 0 && len(c.Rules.Ignore) == 0 {
		p := rules.DefaultPolicy
		return &p
	}
	return &rules.RulePolicy{
		BlockOn: c.Rules.BlockOn,
		WarnOn:  append(c.Rules.WarnOn, rules.DefaultPolicy.WarnOn...),
		InfoOn:  append(c.Rules.InfoOn, rules.DefaultPolicy.InfoOn...),
		Ignore:  c.Rules.Ignore,
	}
}
