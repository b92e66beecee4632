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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/objstyle/services/stylecheck/decl"
	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

// DefaultMaxFileSize is the maximum file size the runner accepts (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// objcExtensions are the file extensions the runner lints.
var objcExtensions = map[string]bool{
	".h":   true,
	".m":   true,
	".mm":  true,
	".pch": true,
}

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"Pods":         true,
	"Carthage":     true,
	"DerivedData":  true,
	"build":        true,
	"vendor":       true,
	"node_modules": true,
}

// =============================================================================
// CACHE INTERFACE
// =============================================================================

// ResultCache stores lint results keyed by content and rule fingerprint.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ResultCache interface {
	// Get returns the cached result for key, or ok=false on a miss.
	Get(ctx context.Context, key string) (result *Result, ok bool, err error)

	// Put stores a result under key.
	Put(ctx context.Context, key string, result *Result) error
}

// =============================================================================
// RUNNER
// =============================================================================

// Option configures a Runner instance.
type Option func(*Runner)

// WithRegistry sets the rule registry.
func WithRegistry(reg *rules.Registry) Option {
	return func(r *Runner) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithPolicy sets the rule policy applied to diagnostics.
func WithPolicy(policy *rules.RulePolicy) Option {
	return func(r *Runner) {
		r.policy = policy
	}
}

// WithSettings sets the rule settings.
func WithSettings(settings rules.Settings) Option {
	return func(r *Runner) {
		r.settings = settings
	}
}

// WithCache sets the result cache. A nil cache disables caching.
func WithCache(cache ResultCache) Option {
	return func(r *Runner) {
		r.cache = cache
	}
}

// WithWorkers sets the number of files linted concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithMaxFileSize sets the maximum file size.
func WithMaxFileSize(bytes int64) Option {
	return func(r *Runner) {
		if bytes > 0 {
			r.maxFileSize = bytes
		}
	}
}

// WithExcludes sets glob patterns for paths to skip during directory walks.
func WithExcludes(patterns []string) Option {
	return func(r *Runner) {
		r.excludes = patterns
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runner lints Objective-C files against the configured rule set.
//
// Description:
//
//	The runner ties the pipeline together: extract declarations, run
//	every rule, apply the policy, and assemble a Result. Directory runs
//	fan out across a bounded worker pool.
//
// Thread Safety: Safe for concurrent use after construction.
type Runner struct {
	registry    *rules.Registry
	policy      *rules.RulePolicy
	settings    rules.Settings
	cache       ResultCache
	workers     int
	maxFileSize int64
	excludes    []string
	logger      *slog.Logger
	extractor   *decl.Extractor

	// fingerprint of rule IDs and settings, computed once.
	fingerprint string
}

// NewRunner creates a runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		registry:    rules.DefaultRegistry(),
		policy:      &rules.DefaultPolicy,
		settings:    rules.DefaultSettings(),
		workers:     runtime.GOMAXPROCS(0),
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.extractor = decl.NewExtractor(decl.WithMaxFileSize(r.maxFileSize))
	r.fingerprint = r.computeFingerprint()
	return r
}

// computeFingerprint hashes the rule IDs, policy, and settings so cached
// results are invalidated when the effective rule set changes.
func (r *Runner) computeFingerprint() string {
	h := sha256.New()
	for _, id := range r.registry.IDs() {
		fmt.Fprintln(h, id)
	}
	fmt.Fprintf(h, "%+v\n", r.settings)
	if r.policy != nil {
		fmt.Fprintf(h, "%+v\n", *r.policy)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// cacheKey derives the cache key for file content.
func (r *Runner) cacheKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]) + "-" + r.fingerprint
}

// =============================================================================
// SINGLE FILE
// =============================================================================

// LintContent lints raw source content.
//
// Description:
//
//	Runs the full pipeline over in-memory content. The cache is
//	consulted first when one is configured; cache failures degrade to a
//	normal lint run.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	content - Raw source bytes.
//	filePath - Path used in diagnostics. May name a file that does not
//	           exist on disk.
//
// Outputs:
//
//	*Result - The lint result. Never nil on success.
//	error - Non-nil if extraction failed or the context ended.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) LintContent(ctx context.Context, content []byte, filePath string) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	ctx, span := startLintSpan(ctx, filePath, len(content))
	defer span.End()
	start := time.Now()

	var key string
	if r.cache != nil {
		key = r.cacheKey(content)
		if cached, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			cached.FromCache = true
			cached.FilePath = filePath
			setLintSpanResult(span, len(cached.Errors), len(cached.Warnings), true)
			recordCacheHit(ctx)
			recordLintMetrics(ctx, time.Since(start), len(cached.Errors), len(cached.Warnings), true)
			return cached, nil
		} else if err != nil {
			r.logger.Warn("result cache read failed", "path", filePath, "error", err)
		}
	}

	file, err := r.extractor.Extract(ctx, content, filePath)
	if err != nil {
		recordLintMetrics(ctx, time.Since(start), 0, 0, false)
		return nil, NewRunError(filePath, err)
	}

	diags := r.registry.CheckAll(ctx, file, r.settings)
	errs, warnings, infos := rules.ApplyPolicy(diags, r.policy)

	result := &Result{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
		Infos:    infos,
		Duration: time.Since(start),
		FilePath: filePath,
		Notes:    file.Notes,
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, key, result); err != nil {
			r.logger.Warn("result cache write failed", "path", filePath, "error", err)
		}
	}

	setLintSpanResult(span, len(errs), len(warnings), false)
	recordLintMetrics(ctx, result.Duration, len(errs), len(warnings), true)
	return result, nil
}

// LintFile lints a single file from disk.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	filePath - Path of the file to lint. Must have an Objective-C
//	           extension.
//
// Outputs:
//
//	*Result - The lint result.
//	error - Non-nil on read failure, oversized file, or unsupported type.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) LintFile(ctx context.Context, filePath string) (*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	if !IsObjCPath(filePath) {
		return nil, NewRunError(filePath, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filePath)))
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, NewRunError(filePath, err)
	}
	if info.Size() > r.maxFileSize {
		return nil, NewRunError(filePath, fmt.Errorf("%w: size %d exceeds limit %d",
			ErrFileTooLarge, info.Size(), r.maxFileSize))
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, NewRunError(filePath, err)
	}
	return r.LintContent(ctx, content, filePath)
}

// =============================================================================
// BATCH
// =============================================================================

// LintFiles lints multiple files concurrently.
//
// Description:
//
//	Files are linted on a worker pool bounded by the configured worker
//	count. Results preserve input order. The first hard failure cancels
//	the remaining work.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) LintFiles(ctx context.Context, paths []string) ([]*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		g.Go(func() error {
			res, err := r.LintFile(gctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LintDirectory lints every Objective-C file under root.
//
// Description:
//
//	Walks the tree, skipping hidden directories, common dependency and
//	build directories, and any path matching the configured exclude
//	patterns. The matched files are then linted concurrently.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) LintDirectory(ctx context.Context, root string) ([]*Result, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	paths, err := r.CollectFiles(root)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("collected files for lint", "root", root, "count", len(paths))
	return r.LintFiles(ctx, paths)
}

// CollectFiles returns the sorted list of lintable files under root.
func (r *Runner) CollectFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsObjCPath(path) {
			return nil
		}
		if r.isExcluded(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// isExcluded reports whether path matches any exclude pattern. Patterns
// match against both the base name and the full slash path.
func (r *Runner) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range r.excludes {
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// IsObjCPath reports whether the path has an Objective-C file extension.
func IsObjCPath(path string) bool {
	return objcExtensions[strings.ToLower(filepath.Ext(path))]
}
