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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
	"github.com/AleutianAI/objstyle/services/stylecheck/report"
	"github.com/AleutianAI/objstyle/services/stylecheck/telemetry"
	"github.com/AleutianAI/objstyle/services/stylecheck/watch"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	watchMetricsAddr string
	watchDebounceMs  int
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-check files as they change",
	Long: `Watch a source tree and re-check Objective-C files on every save.
Findings for each changed batch are printed to stdout.

With --metrics-addr, lint metrics are served in Prometheus format at
/metrics on the given address.

Examples:
  objstyle watch
  objstyle watch Sources/ --metrics-addr :9464

Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (e.g., :9464)")
	watchCmd.Flags().IntVar(&watchDebounceMs, "debounce-ms", 200,
		"Debounce window for filesystem events in milliseconds")

	rootCmd.AddCommand(watchCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runWatch(cmd *cobra.Command, args []string) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: not a directory: %s\n", root)
		os.Exit(ExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchMetricsAddr != "" {
		tcfg := telemetry.DefaultConfig()
		tcfg.ServiceVersion = version
		tcfg.MetricExporter = "prometheus"
		shutdown, err := telemetry.Init(ctx, tcfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: init telemetry: %v\n", err)
			os.Exit(ExitError)
		}
		defer shutdown(context.Background())

		go serveMetrics(watchMetricsAddr)
	}

	runner, cleanup, err := buildRunner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	defer cleanup()

	formatter := report.NewTextFormatter(false)

	opts := watch.DefaultOptions()
	opts.DebounceWindow = time.Duration(watchDebounceMs) * time.Millisecond
	opts.IgnorePatterns = append(opts.IgnorePatterns, cfg.Exclude...)

	watcher, err := watch.New(root, func(paths []string) {
		relintBatch(ctx, runner, formatter, paths)
	}, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	appLogger.Info("watching for changes", "root", root)
	fmt.Printf("Watching %s for changes. Press Ctrl-C to stop.\n", root)
	<-ctx.Done()
	fmt.Println("\nStopped.")
}

// relintBatch checks a batch of changed files and prints the findings.
func relintBatch(ctx context.Context, runner *lint.Runner, formatter report.Formatter, paths []string) {
	results, err := runner.LintFiles(ctx, paths)
	if err != nil {
		appLogger.Error("lint batch failed", "error", err.Error())
		return
	}

	r := report.New(version, results)
	out, err := formatter.Format(r)
	if err != nil {
		appLogger.Error("format batch failed", "error", err.Error())
		return
	}
	fmt.Printf("[%s]\n%s", time.Now().Format("15:04:05"), out)
}

// serveMetrics exposes the Prometheus endpoint for watch mode.
func serveMetrics(addr string) {
	handler := telemetry.MetricsHandler()
	if handler == nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLogger.Error("metrics server failed", "error", err.Error())
	}
}
