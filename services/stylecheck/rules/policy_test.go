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
	"testing"
)

func TestMatchesRule(t *testing.T) {
	tests := []struct {
		rule    string
		pattern string
		want    bool
	}{
		{"class-prefix", "class-prefix", true},
		{"method-lower-camel", "method", true},
		{"method-no-get-prefix", "method", true},
		{"methodical", "method", false},
		{"class-prefix", "prefix", false},
		{"indentation", "indent", false},
	}

	for _, tt := range tests {
		if got := matchesRule(tt.rule, tt.pattern); got != tt.want {
			t.Errorf("matchesRule(%q, %q) = %v, want %v", tt.rule, tt.pattern, got, tt.want)
		}
	}
}

func TestRulePolicy_Severity(t *testing.T) {
	policy := &RulePolicy{
		BlockOn: []string{"class-prefix"},
		WarnOn:  []string{"method"},
		InfoOn:  []string{"line-length"},
		Ignore:  []string{"brace-same-line"},
	}

	tests := []struct {
		rule string
		want Severity
	}{
		{"class-prefix", SeverityError},
		{"method-lower-camel", SeverityWarning},
		{"line-length", SeverityInfo},
		{"brace-same-line", SeverityInfo},
		{"unlisted-rule", SeverityWarning},
	}

	for _, tt := range tests {
		if got := policy.Severity(tt.rule, SeverityWarning); got != tt.want {
			t.Errorf("Severity(%q) = %v, want %v", tt.rule, got, tt.want)
		}
	}
}

func TestRulePolicy_IgnoreBeatsBlock(t *testing.T) {
	policy := &RulePolicy{
		BlockOn: []string{"class-prefix"},
		Ignore:  []string{"class-prefix"},
	}
	if got := policy.Severity("class-prefix", SeverityWarning); got != SeverityInfo {
		t.Errorf("Severity() = %v, want %v when a rule is both blocked and ignored", got, SeverityInfo)
	}
}

func TestApplyPolicy(t *testing.T) {
	diags := []Diagnostic{
		{Rule: "class-prefix", Severity: SeverityWarning},
		{Rule: "method-lower-camel", Severity: SeverityWarning},
		{Rule: "line-length", Severity: SeverityInfo},
		{Rule: "trailing-whitespace", Severity: SeverityInfo},
	}
	policy := &RulePolicy{
		BlockOn: []string{"class-prefix"},
		Ignore:  []string{"trailing-whitespace"},
	}

	errors, warnings, infos := ApplyPolicy(diags, policy)

	if len(errors) != 1 || errors[0].Rule != "class-prefix" {
		t.Errorf("errors = %v", errors)
	}
	if errors[0].Severity != SeverityError {
		t.Errorf("error severity = %v, want error", errors[0].Severity)
	}
	if len(warnings) != 1 || warnings[0].Rule != "method-lower-camel" {
		t.Errorf("warnings = %v", warnings)
	}
	if len(infos) != 1 || infos[0].Rule != "line-length" {
		t.Errorf("infos = %v", infos)
	}
}

func TestApplyPolicy_NilPolicy(t *testing.T) {
	diags := []Diagnostic{
		{Rule: "a", Severity: SeverityError},
		{Rule: "b", Severity: SeverityInfo},
	}

	errors, warnings, infos := ApplyPolicy(diags, nil)
	if len(errors) != 1 || len(warnings) != 0 || len(infos) != 1 {
		t.Errorf("got %d/%d/%d, want 1/0/1", len(errors), len(warnings), len(infos))
	}
}

func TestDefaultPolicy(t *testing.T) {
	if got := DefaultPolicy.Severity("class-prefix", SeverityInfo); got != SeverityWarning {
		t.Errorf("class-prefix = %v, want warning", got)
	}
	if got := DefaultPolicy.Severity("indentation", SeverityWarning); got != SeverityInfo {
		t.Errorf("indentation = %v, want info", got)
	}
	if got := StrictPolicy.Severity("method-lower-camel", SeverityInfo); got != SeverityError {
		t.Errorf("strict method-lower-camel = %v, want error", got)
	}
}
