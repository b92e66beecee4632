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
	"github.com/AleutianAI/objstyle/services/stylecheck/upload"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	reportBucket    string
	reportGCSPrefix string
	reportSAKey     string
	reportOut       string
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var reportCmd = &cobra.Command{
	Use:   "report [path...]",
	Short: "Generate a JSON report, optionally uploading it to GCS",
	Long: `Check files and write the full JSON report. With --out the report
is written to a file, otherwise to stdout. With --bucket it is also
uploaded to Google Cloud Storage under <prefix>/<date>/<report-id>.json.

Credentials come from --sa-key or Application Default Credentials.

Examples:
  objstyle report Sources/ --out report.json
  objstyle report --bucket ci-lint-reports --gcs-prefix myapp

Exit Codes:
  0 = Report generated (findings do not fail this command)
  2 = Error (lint, write, or upload failure)`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportBucket, "bucket", "",
		"GCS bucket to upload the report to")
	reportCmd.Flags().StringVar(&reportGCSPrefix, "gcs-prefix", "objstyle",
		"Object name prefix within the bucket")
	reportCmd.Flags().StringVar(&reportSAKey, "sa-key", "",
		"Path to a service account key file")
	reportCmd.Flags().StringVar(&reportOut, "out", "",
		"Write the report to this file instead of stdout")

	rootCmd.AddCommand(reportCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runReport(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

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
	out, err := (&report.JSONFormatter{}).Format(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}

	if reportOut != "" {
		if err := os.WriteFile(reportOut, []byte(out), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing %s: %v\n", reportOut, err)
			os.Exit(ExitError)
		}
		appLogger.Info("report written", "path", reportOut, "report_id", r.ID)
	} else {
		fmt.Print(out)
	}

	if reportBucket != "" {
		client, err := upload.NewClient(ctx, reportBucket, reportGCSPrefix, reportSAKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
		defer client.Close()

		url, err := client.UploadReport(ctx, r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
		fmt.Fprintf(os.Stderr, "Uploaded report to %s\n", url)
	}

	os.Exit(ExitSuccess)
}
