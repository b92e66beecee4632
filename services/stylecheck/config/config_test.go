// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".objstyle.yml", `
prefix: ABC
indentation: tabs
indent_width: 2
max_line_length: 120
workers: 8
exclude:
  - "*_generated.m"
rules:
  block_on:
    - class-prefix
  ignore:
    - brace-same-line
cache:
  enabled: true
  path: /tmp/objstyle-cache
`)

	cfg, err := Load(path, "v1.0.0")
	require.NoError(t, err)

	assert.Equal(t, "ABC", cfg.Prefix)
	assert.Equal(t, rules.IndentTabs, cfg.Indentation)
	assert.Equal(t, 2, cfg.IndentWidth)
	assert.Equal(t, 120, cfg.MaxLineLength)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, []string{"*_generated.m"}, cfg.Exclude)
	assert.Equal(t, []string{"class-prefix"}, cfg.Rules.BlockOn)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "/tmp/objstyle-cache", cfg.Cache.Path)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad indentation", "indentation: elastic\n"},
		{"lowercase prefix", "prefix: abc\n"},
		{"prefix too long", "prefix: ABCDEFG\n"},
		{"negative width", "indent_width: -1\n"},
		{"bad yaml", "prefix: [unclosed\n"},
		{"bad min_version", "min_version: not-a-version\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), ".objstyle.yml", tt.content)
			_, err := Load(path, "v1.0.0")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MinVersion(t *testing.T) {
	path := writeConfig(t, t.TempDir(), ".objstyle.yml", "min_version: v1.2.0\n")

	_, err := Load(path, "v1.1.0")
	assert.ErrorIs(t, err, ErrVersionTooOld)

	cfg, err := Load(path, "v1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", cfg.MinVersion)

	// Non-semver tool versions (dev builds) skip the gate.
	_, err = Load(path, "dev")
	assert.NoError(t, err)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := writeConfig(t, root, ".objstyle.yml", "prefix: ABC\n")

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFind_NearestWins(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeConfig(t, root, ".objstyle.yml", "prefix: ABC\n")
	want := writeConfig(t, nested, ".objstyle.yaml", "prefix: XYZ\n")

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFind_NotFound(t *testing.T) {
	_, err := Find(t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir(), "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.Prefix = "XYZ"
	cfg.MaxLineLength = 80

	s := cfg.Settings()
	assert.Equal(t, "XYZ", s.Prefix)
	assert.Equal(t, 80, s.MaxLineLength)
	assert.Equal(t, rules.IndentSpaces, s.Indentation)
	assert.Equal(t, 4, s.IndentWidth)
}

func TestPolicy(t *testing.T) {
	cfg := Default()
	p := cfg.Policy()
	assert.Equal(t, rules.DefaultPolicy, *p)

	cfg.Rules.BlockOn = []string{"class-prefix"}
	cfg.Rules.Ignore = []string{"brace-same-line"}
	p = cfg.Policy()
	assert.True(t, p.ShouldBlock("class-prefix"))
	assert.True(t, p.ShouldIgnore("brace-same-line"))
	// Default warn groups carry over.
	assert.True(t, p.ShouldWarn("method-lower-camel"))
}
