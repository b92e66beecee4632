// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"strings"
)

// =============================================================================
// RULE POLICY
// =============================================================================

// RulePolicy defines how diagnostics from specific rules are categorized.
//
// Description:
//
//	Rules are matched by ID or by group prefix. For example, "method"
//	matches "method-lower-camel" and "method-no-get-prefix".
//
// Thread Safety: Treat as immutable after creation.
type RulePolicy struct {
	// BlockOn are rules whose findings fail the run (treated as errors).
	BlockOn []string

	// WarnOn are rules whose findings are reported as warnings.
	WarnOn []string

	// InfoOn are rules whose findings are reported as informational.
	InfoOn []string

	// Ignore are rules whose findings are dropped entirely.
	Ignore []string
}

// ShouldBlock returns true if findings from the rule fail the run.
func (p *RulePolicy) ShouldBlock(rule string) bool {
	return matchesAny(rule, p.BlockOn)
}

// ShouldWarn returns true if findings from the rule are warnings.
func (p *RulePolicy) ShouldWarn(rule string) bool {
	return matchesAny(rule, p.WarnOn)
}

// ShouldIgnore returns true if findings from the rule are dropped.
func (p *RulePolicy) ShouldIgnore(rule string) bool {
	return matchesAny(rule, p.Ignore)
}

// Severity returns the policy severity for a rule, or fallback when the
// policy does not mention it.
//
// Ignore takes precedence, then BlockOn, WarnOn, and InfoOn.
func (p *RulePolicy) Severity(rule string, fallback Severity) Severity {
	switch {
	case p.ShouldIgnore(rule):
		return SeverityInfo
	case p.ShouldBlock(rule):
		return SeverityError
	case p.ShouldWarn(rule):
		return SeverityWarning
	case matchesAny(rule, p.InfoOn):
		return SeverityInfo
	default:
		return fallback
	}
}

func matchesAny(rule string, patterns []string) bool {
	rule = strings.ToLower(rule)
	for _, pattern := range patterns {
		if matchesRule(rule, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// matchesRule checks if a rule ID matches a pattern.
// Matching is exact or by dash-delimited group prefix.
// Examples:
//   - "class-prefix" matches "class-prefix"
//   - "method-lower-camel" matches "method" (group)
func matchesRule(rule, pattern string) bool {
	if rule == pattern {
		return true
	}
	return strings.HasPrefix(rule, pattern+"-")
}

// =============================================================================
// DEFAULT POLICY
// =============================================================================

// DefaultPolicy categorizes the built-in rules.
//
// Description:
//
//	Naming findings are warnings: they point at API surface that is
//	expensive to change later. Formatting findings are informational
//	because every one of them is mechanically fixable.
var DefaultPolicy = RulePolicy{
	WarnOn: []string{
		"class",
		"protocol-naming",
		"category-naming",
		"method",
		"variable-lower-camel",
		"ivar-underscore-prefix",
		"constant-prefix",
		"enum-member-prefix",
	},
	InfoOn: []string{
		"indentation",
		"line-length",
		"trailing-whitespace",
		"final-newline",
		"brace-same-line",
	},
}

// StrictPolicy fails the run on naming findings.
var StrictPolicy = RulePolicy{
	BlockOn: []string{
		"class",
		"protocol-naming",
		"category-naming",
		"method",
		"variable-lower-camel",
		"ivar-underscore-prefix",
		"constant-prefix",
		"enum-member-prefix",
	},
	WarnOn: []string{
		"indentation",
		"line-length",
		"trailing-whitespace",
		"final-newline",
		"brace-same-line",
	},
}

// =============================================================================
// POLICY APPLICATION
// =============================================================================

// ApplyPolicy categorizes diagnostics by policy severity.
//
// Description:
//
//	Rewrites each diagnostic's severity according to the policy and
//	splits the list into errors, warnings, and infos. Ignored rules are
//	dropped. A nil policy keeps each diagnostic's own severity.
//
// Inputs:
//
//	diags - Raw diagnostics from the rules
//	policy - The policy to apply, may be nil
//
// Outputs:
//
//	errors - Findings that fail the run
//	warnings - Findings to fix soon
//	infos - Informational findings
func ApplyPolicy(diags []Diagnostic, policy *RulePolicy) (errors, warnings, infos []Diagnostic) {
	errors = make([]Diagnostic, 0)
	warnings = make([]Diagnostic, 0)
	infos = make([]Diagnostic, 0)

	for _, d := range diags {
		if policy != nil {
			if policy.ShouldIgnore(d.Rule) {
				continue
			}
			d.Severity = policy.Severity(d.Rule, d.Severity)
		}

		switch d.Severity {
		case SeverityError:
			errors = append(errors, d)
		case SeverityWarning:
			warnings = append(warnings, d)
		default:
			infos = append(infos, d)
		}
	}
	return errors, warnings, infos
}
