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

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
	"github.com/AleutianAI/objstyle/services/stylecheck/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var fixWrite bool

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var fixCmd = &cobra.Command{
	Use:   "fix [path...]",
	Short: "Show or apply automatic fixes for formatting violations",
	Long: `Compute fixes for mechanical formatting issues: indentation,
trailing whitespace, and missing final newlines. Naming violations are
reported but never rewritten.

By default the changes are printed as a unified diff. Files are only
rewritten in place when --write is given.

Examples:
  objstyle fix Sources/ABCWidget.m
  objstyle fix --write Sources/

Exit Codes:
  0 = All fixable issues shown or fixed (or none found)
  2 = Error (invalid path, write failure)`,
	Run: runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&fixWrite, "write", false,
		"Rewrite files in place instead of printing a diff")

	rootCmd.AddCommand(fixCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runFix(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Fix runs always re-read source, so the cache is bypassed.
	flagNoCache = true
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

	fixedFiles := 0
	appliedTotal := 0
	for _, res := range results {
		if res.AutoFixableCount() == 0 {
			continue
		}

		original, err := os.ReadFile(res.FilePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", res.FilePath, err)
			os.Exit(ExitError)
		}

		fixed, applied, err := lint.ApplyFixes(original, res.AllDiagnostics())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: fixing %s: %v\n", res.FilePath, err)
			os.Exit(ExitError)
		}
		if applied == 0 {
			continue
		}

		if fixWrite {
			if err := writeFilePreservingMode(res.FilePath, fixed); err != nil {
				fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", res.FilePath, err)
				os.Exit(ExitError)
			}
			appLogger.Info("fixed file", "path", res.FilePath, "edits", applied)
		} else {
			diff, err := report.RenderFixDiff(res.FilePath, original, fixed)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: diffing %s: %v\n", res.FilePath, err)
				os.Exit(ExitError)
			}
			fmt.Print(diff)
		}
		fixedFiles++
		appliedTotal += applied
	}

	if fixWrite {
		if fixedFiles == 0 {
			fmt.Println("No fixable issues found.")
		} else {
			fmt.Printf("Applied %d fixes across %d files.\n", appliedTotal, fixedFiles)
		}
	}
	os.Exit(ExitSuccess)
}

// writeFilePreservingMode rewrites a file keeping its permission bits.
func writeFilePreservingMode(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, info.Mode().Perm())
}
