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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available style rules",
	Long: `List every registered rule with its default severity. The effective
severity of a rule is decided by the policy in .objstyle.yml.`,
	Run: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tDEFAULT\tDESCRIPTION")
	for _, rule := range rules.DefaultRegistry().All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			rule.ID(), rule.DefaultSeverity(), rule.Description())
	}
	w.Flush()
}
