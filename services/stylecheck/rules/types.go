// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules defines the style rules and the diagnostics they produce.
//
// Each rule is an independent predicate over an extracted file. Rules never
// depend on each other's output, so they can run in any order and produce a
// deterministic diagnostic list once sorted.
package rules

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity represents the severity level of a style diagnostic.
type Severity int

const (
	// SeverityInfo represents informational findings that never fail a run.
	SeverityInfo Severity = iota

	// SeverityWarning represents findings that should be fixed but do not
	// fail a run by default.
	SeverityWarning

	// SeverityError represents findings that fail the run.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// SeverityFromString parses a severity string.
//
// Unknown values default to SeverityWarning.
func SeverityFromString(s string) Severity {
	switch s {
	case "error", "err", "fatal", "critical":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	case "info", "note", "style", "hint":
		return SeverityInfo
	default:
		return SeverityWarning
	}
}

// MarshalJSON serializes the severity as a string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts both string and numeric severity values.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SeverityFromString(str)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("severity must be string or int: %w", err)
	}
	*s = Severity(i)
	return nil
}

// =============================================================================
// DIAGNOSTIC
// =============================================================================

// Diagnostic represents a single style finding.
//
// Line numbers are 1-indexed, columns are 0-indexed, matching the token
// and declaration packages.
//
// Thread Safety: Immutable after creation.
type Diagnostic struct {
	// File is the path of the file containing the finding.
	File string `json:"file"`

	// Line is the 1-indexed line number of the finding.
	Line int `json:"line"`

	// Col is the 0-indexed column of the finding.
	Col int `json:"col"`

	// Rule is the identifier of the rule that produced the finding.
	Rule string `json:"rule"`

	// Severity is the severity after policy application.
	Severity Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Suggestion is a suggested replacement name or form, if the rule can
	// compute one.
	Suggestion string `json:"suggestion,omitempty"`

	// CanAutoFix indicates whether Edit holds a safe mechanical fix.
	CanAutoFix bool `json:"can_auto_fix"`

	// Edit is the fix to apply, present only when CanAutoFix is true.
	Edit *TextEdit `json:"edit,omitempty"`
}

// Location returns a formatted "file:line:col" string.
func (d *Diagnostic) Location() string {
	return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Col)
}

// =============================================================================
// TEXT EDIT
// =============================================================================

// TextEdit represents a text change for auto-fix.
//
// Edits are confined to a single line, except for an insertion at end of
// file where StartLine may be one past the last line. Columns are
// 0-indexed byte offsets into the line.
//
// Thread Safety: Immutable after creation.
type TextEdit struct {
	// StartLine is the 1-indexed starting line.
	StartLine int `json:"start_line"`

	// StartColumn is the 0-indexed starting byte offset.
	StartColumn int `json:"start_column"`

	// EndLine is the 1-indexed ending line. Equal to StartLine for all
	// current fixes.
	EndLine int `json:"end_line"`

	// EndColumn is the 0-indexed ending byte offset, exclusive.
	EndColumn int `json:"end_column"`

	// NewText is the replacement text.
	NewText string `json:"new_text"`
}
