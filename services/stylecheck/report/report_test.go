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
	"encoding/json"
	"strings"
	"testing"

	"github.com/AleutianAI/objstyle/services/stylecheck/lint"
	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

func sampleResults() []*lint.Result {
	return []*lint.Result{
		{
			Valid:    true,
			FilePath: "Sources/ABCWidget.h",
			Errors:   []rules.Diagnostic{},
			Warnings: []rules.Diagnostic{},
		},
		{
			Valid:    false,
			FilePath: "Sources/widget.m",
			Errors: []rules.Diagnostic{
				{File: "Sources/widget.m", Line: 1, Col: 11, Rule: "class-prefix",
					Severity: rules.SeverityError, Message: "class \"widget\" should start with the project prefix \"ABC\"",
					Suggestion: "ABCwidget"},
			},
			Warnings: []rules.Diagnostic{
				{File: "Sources/widget.m", Line: 3, Col: 0, Rule: "method-no-get-prefix",
					Severity: rules.SeverityWarning, Message: "method \"getTitle\" should drop the \"get\" prefix"},
			},
			Infos: []rules.Diagnostic{
				{File: "Sources/widget.m", Line: 5, Col: 10, Rule: "trailing-whitespace",
					Severity: rules.SeverityInfo, Message: "line has trailing whitespace", CanAutoFix: true,
					Edit: &rules.TextEdit{StartLine: 5, StartColumn: 10, EndLine: 5, EndColumn: 12}},
			},
		},
	}
}

func TestNew_Summary(t *testing.T) {
	r := New("1.2.3", sampleResults())

	if r.ID == "" {
		t.Error("report ID is empty")
	}
	if r.Tool != "objstyle" || r.Version != "1.2.3" {
		t.Errorf("tool = %s %s", r.Tool, r.Version)
	}

	s := r.Summary
	if s.Files != 2 || s.FilesWithIssues != 1 {
		t.Errorf("files = %d/%d, want 2/1", s.Files, s.FilesWithIssues)
	}
	if s.Errors != 1 || s.Warnings != 1 || s.Infos != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", s.Errors, s.Warnings, s.Infos)
	}
	if s.AutoFixable != 1 {
		t.Errorf("auto-fixable = %d, want 1", s.AutoFixable)
	}
	if !r.Failed() {
		t.Error("report with errors should be failed")
	}
}

func TestJSONFormatter(t *testing.T) {
	r := New("dev", sampleResults())

	out, err := (&JSONFormatter{}).Format(r)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["tool"] != "objstyle" {
		t.Errorf("tool = %v", decoded["tool"])
	}
	if !strings.Contains(out, `"class-prefix"`) {
		t.Error("finding rule missing from JSON output")
	}
	// Severities serialize as strings.
	if !strings.Contains(out, `"severity": "error"`) {
		t.Error("severity not serialized as string")
	}
}

func TestTextFormatter(t *testing.T) {
	r := New("dev", sampleResults())

	out, err := NewTextFormatter(false).Format(r)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	for _, want := range []string{
		"Sources/widget.m",
		"1:11",
		"class-prefix",
		"2 files checked",
		"1 errors",
		"1 fixable with objstyle fix",
		"suggestion: ABCwidget",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Clean files are not listed.
	if strings.Contains(out, "ABCWidget.h") {
		t.Error("clean file should not appear in text output")
	}
}

func TestTextFormatter_CleanRun(t *testing.T) {
	r := New("dev", []*lint.Result{{Valid: true, FilePath: "a.m"}})

	out, err := NewTextFormatter(false).Format(r)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if !strings.Contains(out, "no issues found") {
		t.Errorf("output = %q", out)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	r := New("dev", sampleResults())

	out, err := (&MarkdownFormatter{}).Format(r)
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	for _, want := range []string{
		"# Style Report",
		"| 2 | 1 | 1 | 1 | 1 |",
		"## `Sources/widget.m`",
		"**error** `class-prefix` line 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		in      FormatType
		want    FormatType
		wantErr bool
	}{
		{FormatJSON, FormatJSON, false},
		{FormatText, FormatText, false},
		{FormatMarkdown, FormatMarkdown, false},
		{"", FormatText, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		f, err := NewFormatter(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewFormatter(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewFormatter(%q) error: %v", tt.in, err)
			continue
		}
		if f.Name() != tt.want {
			t.Errorf("NewFormatter(%q).Name() = %q, want %q", tt.in, f.Name(), tt.want)
		}
	}
}
