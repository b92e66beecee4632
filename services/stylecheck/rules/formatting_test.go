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
	"context"
	"strings"
	"testing"

	"github.com/AleutianAI/objstyle/services/stylecheck/decl"
	"github.com/AleutianAI/objstyle/services/stylecheck/token"
)

// sourceFile builds an extracted file from raw source, without declarations.
func sourceFile(src string) *decl.File {
	content := []byte(src)
	return &decl.File{
		Path:    "test.m",
		Content: content,
		Lines:   token.Lines(content),
	}
}

func TestIndentationRule_SpacesMode(t *testing.T) {
	rule := &IndentationRule{}
	settings := Settings{Indentation: IndentSpaces, IndentWidth: 4}
	f := sourceFile("int a;\n\tint b;\n    int c;\n")

	diags := rule.Check(context.Background(), f, settings)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	d := diags[0]
	if d.Line != 2 {
		t.Errorf("line = %d, want 2", d.Line)
	}
	if !d.CanAutoFix || d.Edit == nil {
		t.Fatal("expected an auto-fix edit")
	}
	if d.Edit.NewText != "    " {
		t.Errorf("fix text = %q, want four spaces", d.Edit.NewText)
	}
	if d.Edit.StartColumn != 0 || d.Edit.EndColumn != 1 {
		t.Errorf("fix range = [%d,%d), want [0,1)", d.Edit.StartColumn, d.Edit.EndColumn)
	}
}

func TestIndentationRule_TabsMode(t *testing.T) {
	rule := &IndentationRule{}
	settings := Settings{Indentation: IndentTabs, IndentWidth: 4}
	f := sourceFile("\tint a;\n        int b;\n")

	diags := rule.Check(context.Background(), f, settings)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Edit.NewText != "\t\t" {
		t.Errorf("fix text = %q, want two tabs", diags[0].Edit.NewText)
	}
}

func TestLineLengthRule(t *testing.T) {
	rule := &LineLengthRule{}
	long := strings.Repeat("x", 120)
	f := sourceFile("short line\n" + long + "\n")

	diags := rule.Check(context.Background(), f, Settings{MaxLineLength: 100})
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Line != 2 || diags[0].Col != 100 {
		t.Errorf("position = %d:%d, want 2:100", diags[0].Line, diags[0].Col)
	}
	if diags[0].CanAutoFix {
		t.Error("line length findings must not be auto-fixable")
	}
}

func TestTrailingWhitespaceRule(t *testing.T) {
	rule := &TrailingWhitespaceRule{}
	f := sourceFile("clean\ndirty   \nalso\t\n")

	diags := rule.Check(context.Background(), f, Settings{})
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), diags)
	}

	d := diags[0]
	if d.Line != 2 || d.Col != 5 {
		t.Errorf("position = %d:%d, want 2:5", d.Line, d.Col)
	}
	if d.Edit == nil || d.Edit.StartColumn != 5 || d.Edit.EndColumn != 8 || d.Edit.NewText != "" {
		t.Errorf("edit = %+v", d.Edit)
	}
}

func TestFinalNewlineRule(t *testing.T) {
	rule := &FinalNewlineRule{}

	t.Run("missing newline", func(t *testing.T) {
		f := sourceFile("int a;\nint b;")
		diags := rule.Check(context.Background(), f, Settings{})
		if len(diags) != 1 {
			t.Fatalf("got %d diagnostics, want 1", len(diags))
		}
		d := diags[0]
		if d.Line != 2 || d.Col != 6 {
			t.Errorf("position = %d:%d, want 2:6", d.Line, d.Col)
		}
		if d.Edit == nil || d.Edit.NewText != "\n" {
			t.Errorf("edit = %+v", d.Edit)
		}
	})

	t.Run("present newline", func(t *testing.T) {
		f := sourceFile("int a;\n")
		if diags := rule.Check(context.Background(), f, Settings{}); len(diags) != 0 {
			t.Errorf("got %v, want none", diags)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		f := sourceFile("")
		if diags := rule.Check(context.Background(), f, Settings{}); len(diags) != 0 {
			t.Errorf("got %v, want none", diags)
		}
	})
}

func TestBraceSameLineRule(t *testing.T) {
	rule := &BraceSameLineRule{}
	f := sourceFile("- (void)reload\n{\n}\n- (void)fetch {\n}\n")

	diags := rule.Check(context.Background(), f, Settings{})
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	if diags[0].Line != 2 {
		t.Errorf("line = %d, want 2", diags[0].Line)
	}
}

func TestSortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{File: "b.m", Line: 1, Col: 0, Rule: "r"},
		{File: "a.m", Line: 2, Col: 0, Rule: "z"},
		{File: "a.m", Line: 2, Col: 0, Rule: "a"},
		{File: "a.m", Line: 1, Col: 5, Rule: "r"},
		{File: "a.m", Line: 1, Col: 2, Rule: "r"},
	}

	SortDiagnostics(diags)

	want := []struct {
		file string
		line int
		col  int
		rule string
	}{
		{"a.m", 1, 2, "r"},
		{"a.m", 1, 5, "r"},
		{"a.m", 2, 0, "a"},
		{"a.m", 2, 0, "z"},
		{"b.m", 1, 0, "r"},
	}
	for i, w := range want {
		d := diags[i]
		if d.File != w.file || d.Line != w.line || d.Col != w.col || d.Rule != w.rule {
			t.Errorf("diags[%d] = %s:%d:%d %s, want %s:%d:%d %s",
				i, d.File, d.Line, d.Col, d.Rule, w.file, w.line, w.col, w.rule)
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	ids := reg.IDs()
	if len(ids) != 15 {
		t.Errorf("got %d rules, want 15: %v", len(ids), ids)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Errorf("IDs not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
	if reg.Get("class-prefix") == nil {
		t.Error("class-prefix rule missing")
	}

	reg.Remove("class-prefix")
	if reg.Get("class-prefix") != nil {
		t.Error("Remove did not delete the rule")
	}
}
