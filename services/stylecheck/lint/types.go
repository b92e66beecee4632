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
	"time"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

// =============================================================================
// RESULT
// =============================================================================

// Result contains the outcome of linting a single file.
//
// Thread Safety: Immutable after creation by the runner.
type Result struct {
	// Valid is true if no error-severity findings were produced.
	Valid bool `json:"valid"`

	// Errors are findings that fail the run.
	Errors []rules.Diagnostic `json:"errors"`

	// Warnings are findings to fix soon.
	Warnings []rules.Diagnostic `json:"warnings"`

	// Infos are informational findings.
	Infos []rules.Diagnostic `json:"infos,omitempty"`

	// Duration is how long the file took to lint.
	Duration time.Duration `json:"duration"`

	// FilePath is the file that was linted.
	FilePath string `json:"file_path,omitempty"`

	// Notes records declaration sites the extractor skipped.
	Notes []string `json:"notes,omitempty"`

	// FromCache is true when the result was served from the result cache.
	FromCache bool `json:"from_cache,omitempty"`
}

// HasErrors returns true if there are any error-severity findings.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasIssues returns true if there are any findings of any severity.
func (r *Result) HasIssues() bool {
	return len(r.Errors) > 0 || len(r.Warnings) > 0 || len(r.Infos) > 0
}

// AllDiagnostics returns all findings combined, in severity group order.
func (r *Result) AllDiagnostics() []rules.Diagnostic {
	total := len(r.Errors) + len(r.Warnings) + len(r.Infos)
	diags := make([]rules.Diagnostic, 0, total)
	diags = append(diags, r.Errors...)
	diags = append(diags, r.Warnings...)
	diags = append(diags, r.Infos...)
	return diags
}

// IssueCount returns the total number of findings.
func (r *Result) IssueCount() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Infos)
}

// AutoFixableCount returns the count of findings with a mechanical fix.
func (r *Result) AutoFixableCount() int {
	count := 0
	for _, d := range r.AllDiagnostics() {
		if d.CanAutoFix {
			count++
		}
	}
	return count
}
