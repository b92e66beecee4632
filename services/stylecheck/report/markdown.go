// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"fmt"
	"strings"
)

// MarkdownFormatter renders the report as markdown, suitable for PR
// comments and CI summaries.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(r *Report) (string, error) {
	var sb strings.Builder
	s := r.Summary

	sb.WriteString("# Style Report\n\n")
	if s.Total() == 0 {
		fmt.Fprintf(&sb, "✅ %d files checked, no issues found.\n", s.Files)
		return sb.String(), nil
	}

	sb.WriteString("| Files | Errors | Warnings | Infos | Fixable |\n")
	sb.WriteString("|-------|--------|----------|-------|---------|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d |\n\n",
		s.Files, s.Errors, s.Warnings, s.Infos, s.AutoFixable)

	for _, res := range r.Results {
		if !res.HasIssues() {
			continue
		}
		fmt.Fprintf(&sb, "## `%s`\n\n", res.FilePath)
		for _, d := range res.AllDiagnostics() {
			fmt.Fprintf(&sb, "- **%s** `%s` line %d: %s",
				d.Severity, d.Rule, d.Line, d.Message)
			if d.Suggestion != "" {
				fmt.Fprintf(&sb, " (suggestion: `%s`)", d.Suggestion)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Name implements Formatter.
func (f *MarkdownFormatter) Name() FormatType {
	return FormatMarkdown
}
