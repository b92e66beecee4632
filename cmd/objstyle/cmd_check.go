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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/objstyle/services/stylecheck/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	checkFormat string
	checkFailOn string
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var checkCmd = &cobra.Command{
	Use:   "check [path...]",
	Short: "Check Objective-C files for style violations",
	Long: `Check files or directories against the configured style rules.

Directories are walked recursively; only .h, .m, .mm, and .pch files
are checked. Dependency directories (Pods, Carthage, DerivedData,
build, vendor) are skipped.

Examples:
  objstyle check
  objstyle check Sources/ Tests/
  objstyle check --prefix ABC --strict
  objstyle check --format json > report.json

Exit Codes:
  0 = No findings at/above the failure threshold
  1 = Findings at/above the failure threshold
  2 = Error (invalid path, unreadable file)`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text",
		"Output format: text, json, markdown")
	checkCmd.Flags().StringVar(&checkFailOn, "fail-on", "error",
		"Findings that cause exit code 1: error, warning, any")

	rootCmd.AddCommand(checkCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runCheck(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	formatter, err := report.NewFormatter(report.FormatType(checkFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	runner, cleanup, err := buildRunner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	defer cleanup()

	results, err := lintPaths(ctx, runner, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	r := report.New(version, results)
	out, err := formatter.Format(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	fmt.Print(out)

	os.Exit(checkExitCode(r))
}

// checkExitCode maps the report against the --fail-on threshold.
func checkExitCode(r *report.Report) int {
	switch checkFailOn {
	case "any":
		if r.Summary.Total() > 0 {
			return ExitIssues
		}
	case "warning":
		if r.Summary.Errors > 0 || r.Summary.Warnings > 0 {
			return ExitIssues
		}
	default:
		if r.Summary.Errors > 0 {
			return ExitIssues
		}
	}
	return ExitSuccess
}
