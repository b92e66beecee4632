// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-lints Objective-C files as they change on disk.
//
// Filesystem events are debounced so a burst of editor writes produces a
// single batch, and a rate limiter caps how often the handler can run even
// under a sustained stream of changes (e.g., a branch checkout).
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
)

// Handler is called with the batch of changed Objective-C file paths after
// each debounce window. Removed files are not included.
type Handler func(paths []string)

// Options configures the Watcher.
type Options struct {
	// DebounceWindow is how long to wait for more changes before triggering.
	// Default: 200ms
	DebounceWindow time.Duration

	// IgnorePatterns are names or globs for directories and files to skip,
	// in addition to the standard vendored-dependency directories.
	IgnorePatterns []string

	// MaxBatchesPerSecond caps handler invocations. Default: 2.
	MaxBatchesPerSecond float64

	// BufferSize is the size of the change buffer channel. Default: 1000.
	BufferSize int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DebounceWindow:      200 * time.Millisecond,
		IgnorePatterns:      []string{".git", "*.swp", "*.tmp"},
		MaxBatchesPerSecond: 2,
		BufferSize:          1000,
	}
}

// skipDirs are dependency and build output directories never watched.
var skipDirs = map[string]bool{
	"Pods":         true,
	"Carthage":     true,
	"DerivedData":  true,
	"build":        true,
	"vendor":       true,
	"node_modules": true,
}

// =============================================================================
// WATCHER
// =============================================================================

// Watcher watches a source tree and reports changed Objective-C files.
//
// Thread Safety: Safe for concurrent use. The handler is called from a
// single goroutine.
type Watcher struct {
	root     string
	watcher  *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	ignore   []string
	limiter  *rate.Limiter

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// New creates a watcher rooted at the given directory.
//
// Inputs:
//
//	root - Directory to watch recursively.
//	handler - Called with batched changed file paths.
//	opts - Optional configuration (nil uses defaults).
//
// Outputs:
//
//	*Watcher - Ready-to-use watcher (call Start to begin watching).
//	error - Non-nil if the underlying watcher could not be created.
func New(root string, handler Handler, opts *Options) (*Watcher, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = 200 * time.Millisecond
	}
	if opts.MaxBatchesPerSecond <= 0 {
		opts.MaxBatchesPerSecond = 2
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:     root,
		watcher:  fsw,
		handler:  handler,
		debounce: opts.DebounceWindow,
		ignore:   opts.IgnorePatterns,
		limiter:  rate.NewLimiter(rate.Limit(opts.MaxBatchesPerSecond), 1),
		changes:  make(chan string, opts.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
//
// Description:
//
//	Recursively watches the root directory and all subdirectories. Both
//	goroutines exit when Stop is called or the context is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true while the watcher is active.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// shouldIgnore reports whether a path is outside the watched set.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if base != "." && strings.HasPrefix(base, ".") {
		return true
	}
	if skipDirs[base] {
		return true
	}
	for _, pattern := range w.ignore {
		if base == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}

			// New directories join the watch set so files created under
			// them are seen.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addRecursive(event.Name)
					continue
				}
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				continue
			}
			if !lint.IsObjCPath(event.Name) {
				continue
			}

			select {
			case w.changes <- event.Name:
			default:
				// Buffer full; the debouncer will pick the rest up on the
				// next write to the same file.
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []string
	var timer *time.Timer
	var timerC <-chan time.Time

	arm := func(d time.Duration) {
		if timer == nil {
			timer = time.NewTimer(d)
			timerC = timer.C
		} else {
			timer.Reset(d)
		}
	}

	disarm := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	// flush delivers the pending batch. When the rate limiter denies, the
	// batch is held and the timer re-armed for the limiter's delay, so a
	// throttled batch is delivered late rather than lost.
	flush := func() {
		if len(batch) == 0 {
			disarm()
			return
		}
		res := w.limiter.Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			arm(delay)
			return
		}
		if w.handler != nil {
			w.handler(dedupe(batch))
		}
		batch = batch[:0]
		disarm()
	}

	// deliver hands off whatever is still pending at shutdown, bypassing
	// the rate limit.
	deliver := func() {
		if len(batch) > 0 && w.handler != nil {
			w.handler(dedupe(batch))
		}
		disarm()
	}

	for {
		select {
		case <-ctx.Done():
			deliver()
			return
		case <-w.done:
			deliver()
			return
		case path := <-w.changes:
			batch = append(batch, path)
			arm(w.debounce)
		case <-timerC:
			flush()
		}
	}
}

// dedupe removes duplicate paths, preserving first-seen order.
func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
