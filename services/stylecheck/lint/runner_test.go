// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

const cleanSource = `@interface ABCWidget : NSObject
@property (nonatomic, copy) NSString *title;
- (void)reload;
@end
`

const messySource = `@interface widget : NSObject
@property (nonatomic) NSString *Title;
- (NSString *)getTitle;
@end
`

func TestLintContent_CleanFile(t *testing.T) {
	runner := NewRunner(testSettings())

	result, err := runner.LintContent(context.Background(), []byte(cleanSource), "ABCWidget.h")
	if err != nil {
		t.Fatalf("LintContent() error: %v", err)
	}
	if !result.Valid {
		t.Errorf("result not valid: %v", result.Errors)
	}
	if result.HasIssues() {
		t.Errorf("unexpected findings: %v", result.AllDiagnostics())
	}
}

// testSettings returns runner options shared by the tests.
func testSettings() Option {
	return WithSettings(rules.Settings{
		Prefix:        "ABC",
		Indentation:   rules.IndentSpaces,
		IndentWidth:   4,
		MaxLineLength: 100,
	})
}

func TestLintContent_Findings(t *testing.T) {
	runner := NewRunner(testSettings())

	result, err := runner.LintContent(context.Background(), []byte(messySource), "widget.h")
	if err != nil {
		t.Fatalf("LintContent() error: %v", err)
	}

	// Default policy reports naming findings as warnings.
	if result.HasErrors() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}

	found := map[string]bool{}
	for _, d := range result.AllDiagnostics() {
		found[d.Rule] = true
	}
	for _, want := range []string{"class-prefix", "class-camel-case", "variable-lower-camel", "method-no-get-prefix"} {
		if !found[want] {
			t.Errorf("rule %s did not fire; findings: %v", want, result.AllDiagnostics())
		}
	}
}

func TestLintContent_StrictPolicyFails(t *testing.T) {
	runner := NewRunner(testSettings(), WithPolicy(&rules.StrictPolicy))

	result, err := runner.LintContent(context.Background(), []byte(messySource), "widget.h")
	if err != nil {
		t.Fatalf("LintContent() error: %v", err)
	}
	if result.Valid {
		t.Error("strict policy should fail the messy file")
	}
	if !result.HasErrors() {
		t.Error("expected error findings under strict policy")
	}
}

func TestLintContent_NilContext(t *testing.T) {
	runner := NewRunner()
	//nolint:staticcheck // nil context is the case under test
	if _, err := runner.LintContent(nil, []byte("x"), "x.m"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

// mapCache is an in-memory ResultCache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string]*Result
	puts int
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]*Result)}
}

func (c *mapCache) Get(ctx context.Context, key string) (*Result, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := *r
	return &cp, true, nil
}

func (c *mapCache) Put(ctx context.Context, key string, result *Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *result
	c.data[key] = &cp
	c.puts++
	return nil
}

func TestLintContent_Cache(t *testing.T) {
	cache := newMapCache()
	runner := NewRunner(testSettings(), WithCache(cache))
	ctx := context.Background()

	first, err := runner.LintContent(ctx, []byte(messySource), "widget.h")
	if err != nil {
		t.Fatalf("first LintContent() error: %v", err)
	}
	if first.FromCache {
		t.Error("first run should not come from cache")
	}
	if cache.puts != 1 {
		t.Errorf("puts = %d, want 1", cache.puts)
	}

	second, err := runner.LintContent(ctx, []byte(messySource), "widget.h")
	if err != nil {
		t.Fatalf("second LintContent() error: %v", err)
	}
	if !second.FromCache {
		t.Error("second run should come from cache")
	}
	if second.IssueCount() != first.IssueCount() {
		t.Errorf("cached count = %d, want %d", second.IssueCount(), first.IssueCount())
	}
}

func TestLintFile_UnsupportedExtension(t *testing.T) {
	runner := NewRunner()
	_, err := runner.LintFile(context.Background(), "main.swift")
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("error = %v, want ErrUnsupportedFile", err)
	}

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("error is not a RunError: %v", err)
	}
	if runErr.Path != "main.swift" {
		t.Errorf("path = %q", runErr.Path)
	}
}

func TestLintDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("ABCWidget.h", cleanSource)
	write("Sources/widget.m", messySource)
	write("Pods/Dep/Dep.m", messySource)
	write("Sources/ignored_generated.m", messySource)
	write("README.md", "# readme\n")

	runner := NewRunner(testSettings(), WithExcludes([]string{"*_generated.m"}))
	results, err := runner.LintDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("LintDirectory() error: %v", err)
	}

	if len(results) != 2 {
		paths := make([]string, 0, len(results))
		for _, r := range results {
			paths = append(paths, r.FilePath)
		}
		t.Fatalf("got %d results, want 2: %v", len(results), paths)
	}
	// CollectFiles sorts, so order is deterministic.
	if filepath.Base(results[0].FilePath) != "ABCWidget.h" {
		t.Errorf("results[0] = %s", results[0].FilePath)
	}
	if filepath.Base(results[1].FilePath) != "widget.m" {
		t.Errorf("results[1] = %s", results[1].FilePath)
	}
	if results[1].IssueCount() == 0 {
		t.Error("messy file produced no findings")
	}
}

func TestIsObjCPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.m", true},
		{"a.h", true},
		{"a.mm", true},
		{"a.pch", true},
		{"a.M", true},
		{"a.swift", false},
		{"a.c", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsObjCPath(tt.path); got != tt.want {
			t.Errorf("IsObjCPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLintFiles_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.m", "a.m", "b.m"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(cleanSource), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	runner := NewRunner(testSettings(), WithWorkers(2))
	results, err := runner.LintFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("LintFiles() error: %v", err)
	}
	for i, path := range paths {
		if results[i].FilePath != path {
			t.Errorf("results[%d] = %s, want %s", i, results[i].FilePath, path)
		}
	}
}
