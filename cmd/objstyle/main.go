// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command objstyle checks Objective-C source trees against the project
// style conventions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/objstyle/pkg/logging"
	"github.com/AleutianAI/objstyle/services/stylecheck/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// Shared command state, populated in PersistentPreRun.
var (
	cfg       *config.Config
	appLogger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		appLogger = logging.New(logging.Config{
			Level:   logging.ParseLevel(flagLogLevel),
			Service: "cli",
			JSON:    flagLogJSON,
			Quiet:   flagQuietLogs,
		})

		var err error
		if flagConfigPath != "" {
			cfg, err = config.Load(flagConfigPath, version)
		} else {
			cfg, err = config.LoadOrDefault(".", version)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(ExitError)
		}
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			appLogger.Close()
		}
	}
}
