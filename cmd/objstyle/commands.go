// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/objstyle/services/stylecheck/cache"
	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

// Exit codes shared by all commands.
const (
	ExitSuccess = 0
	ExitIssues  = 1
	ExitError   = 2
)

// =============================================================================
// ROOT COMMAND AND GLOBAL FLAGS
// =============================================================================

var (
	flagConfigPath string
	flagLogLevel   string
	flagLogJSON    bool
	flagQuietLogs  bool

	flagPrefix  string
	flagWorkers int
	flagNoCache bool
	flagExclude []string
	flagStrict  bool
)

var rootCmd = &cobra.Command{
	Use:   "objstyle",
	Short: "A style checker for Objective-C codebases",
	Long: `objstyle checks Objective-C headers and implementations against
project naming and formatting conventions, with auto-fix support for
mechanical formatting issues.

Configuration is read from the nearest .objstyle.yml, searched upward
from the current directory.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "",
		"Path to the configuration file (default: nearest .objstyle.yml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false,
		"Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagQuietLogs, "quiet", false,
		"Suppress logs on stderr")

	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "",
		"Project class prefix (overrides the config file)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0,
		"Number of parallel workers (0 = one per CPU)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false,
		"Disable the result cache")
	rootCmd.PersistentFlags().StringSliceVar(&flagExclude, "exclude", nil,
		"Glob patterns for paths to skip (adds to the config file)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false,
		"Treat naming violations as errors")
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// buildRunner assembles a lint runner from the loaded config and global
// flags. The returned cleanup function closes the cache, if any.
func buildRunner(extra ...lint.Option) (*lint.Runner, func(), error) {
	settings := cfg.Settings()
	if flagPrefix != "" {
		settings.Prefix = flagPrefix
	}

	policy := cfg.Policy()
	if flagStrict {
		p := rules.StrictPolicy
		policy = &p
	}

	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}

	opts := []lint.Option{
		lint.WithSettings(settings),
		lint.WithPolicy(policy),
		lint.WithWorkers(workers),
		lint.WithExcludes(append(cfg.Exclude, flagExclude...)),
		lint.WithLogger(appLogger.Slog()),
	}

	cleanup := func() {}
	if cfg.Cache.Enabled && !flagNoCache {
		c, err := openCache()
		if err != nil {
			// A broken cache degrades to a cold run.
			appLogger.Warn("result cache unavailable", "error", err.Error())
		} else {
			opts = append(opts, lint.WithCache(c))
			cleanup = func() { c.Close() }
		}
	}

	opts = append(opts, extra...)
	return lint.NewRunner(opts...), cleanup, nil
}

// openCache opens the configured result cache.
func openCache() (*cache.Cache, error) {
	if cfg.Cache.Path != "" {
		return cache.Open(cache.Config{
			Path:   cfg.Cache.Path,
			TTL:    cache.DefaultTTL,
			Logger: appLogger.Slog(),
		})
	}
	ccfg, err := cache.DefaultConfig()
	if err != nil {
		return nil, err
	}
	ccfg.Logger = appLogger.Slog()
	return cache.Open(ccfg)
}

// lintPaths lints each argument, which may be a file or a directory.
// With no arguments the current directory is linted.
func lintPaths(ctx context.Context, runner *lint.Runner, args []string) ([]*lint.Result, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var results []*lint.Result
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("path not found: %s: %w", arg, err)
		}
		if info.IsDir() {
			dirResults, err := runner.LintDirectory(ctx, arg)
			if err != nil {
				return nil, err
			}
			results = append(results, dirResults...)
			continue
		}
		res, err := runner.LintFile(ctx, arg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
