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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/AleutianAI/objstyle/services/stylecheck/decl"
)

// =============================================================================
// INDENTATION
// =============================================================================

// IndentationRule enforces the configured indentation style.
type IndentationRule struct{}

func (r *IndentationRule) ID() string { return "indentation" }

func (r *IndentationRule) Description() string {
	return "leading whitespace must use the configured indentation style"
}

func (r *IndentationRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *IndentationRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	width := settings.IndentWidth
	if width <= 0 {
		width = 4
	}

	var diags []Diagnostic
	for i, line := range file.Lines {
		lead := leadingWhitespace(line)
		if lead == "" {
			continue
		}

		var bad bool
		var fixed string
		switch settings.Indentation {
		case IndentTabs:
			bad = strings.Contains(lead, " ")
			fixed = spacesToTabs(lead, width)
		default:
			bad = strings.Contains(lead, "\t")
			fixed = strings.ReplaceAll(lead, "\t", strings.Repeat(" ", width))
		}
		if !bad {
			continue
		}

		diags = append(diags, Diagnostic{
			File:       file.Path,
			Line:       i + 1,
			Col:        0,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("line is indented with %s, expected %s", describeLead(lead), settings.Indentation),
			CanAutoFix: true,
			Edit: &TextEdit{
				StartLine:   i + 1,
				StartColumn: 0,
				EndLine:     i + 1,
				EndColumn:   len(lead),
				NewText:     fixed,
			},
		})
	}
	return diags
}

// leadingWhitespace returns the run of spaces and tabs at the start of line.
func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

// spacesToTabs converts each full group of width spaces to a tab.
func spacesToTabs(lead string, width int) string {
	var b strings.Builder
	spaces := 0
	for i := 0; i < len(lead); i++ {
		if lead[i] == '\t' {
			b.WriteString(strings.Repeat(" ", spaces))
			spaces = 0
			b.WriteByte('\t')
			continue
		}
		spaces++
		if spaces == width {
			b.WriteByte('\t')
			spaces = 0
		}
	}
	b.WriteString(strings.Repeat(" ", spaces))
	return b.String()
}

// describeLead names the whitespace mix found in a leading run.
func describeLead(lead string) string {
	hasTab := strings.Contains(lead, "\t")
	hasSpace := strings.Contains(lead, " ")
	switch {
	case hasTab && hasSpace:
		return "mixed tabs and spaces"
	case hasTab:
		return "tabs"
	default:
		return "spaces"
	}
}

// =============================================================================
// LINE LENGTH
// =============================================================================

// LineLengthRule flags lines longer than the configured maximum.
type LineLengthRule struct{}

func (r *LineLengthRule) ID() string { return "line-length" }

func (r *LineLengthRule) Description() string {
	return "lines must not exceed the configured maximum length"
}

func (r *LineLengthRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *LineLengthRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	max := settings.MaxLineLength
	if max <= 0 {
		max = 100
	}

	var diags []Diagnostic
	for i, line := range file.Lines {
		n := utf8.RuneCountInString(line)
		if n <= max {
			continue
		}
		diags = append(diags, Diagnostic{
			File:     file.Path,
			Line:     i + 1,
			Col:      max,
			Rule:     r.ID(),
			Severity: r.DefaultSeverity(),
			Message:  fmt.Sprintf("line is %d characters, maximum is %d", n, max),
		})
	}
	return diags
}

// =============================================================================
// TRAILING WHITESPACE
// =============================================================================

// TrailingWhitespaceRule flags and removes whitespace at end of line.
type TrailingWhitespaceRule struct{}

func (r *TrailingWhitespaceRule) ID() string { return "trailing-whitespace" }

func (r *TrailingWhitespaceRule) Description() string {
	return "lines must not end with whitespace"
}

func (r *TrailingWhitespaceRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *TrailingWhitespaceRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i, line := range file.Lines {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       file.Path,
			Line:       i + 1,
			Col:        len(trimmed),
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    "line has trailing whitespace",
			CanAutoFix: true,
			Edit: &TextEdit{
				StartLine:   i + 1,
				StartColumn: len(trimmed),
				EndLine:     i + 1,
				EndColumn:   len(line),
				NewText:     "",
			},
		})
	}
	return diags
}

// =============================================================================
// FINAL NEWLINE
// =============================================================================

// FinalNewlineRule requires files to end with exactly one newline.
type FinalNewlineRule struct{}

func (r *FinalNewlineRule) ID() string { return "final-newline" }

func (r *FinalNewlineRule) Description() string {
	return "files must end with a newline"
}

func (r *FinalNewlineRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *FinalNewlineRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	if len(file.Content) == 0 || file.Content[len(file.Content)-1] == '\n' {
		return nil
	}

	lastLine := len(file.Lines)
	lastCol := 0
	if lastLine > 0 {
		lastCol = len(file.Lines[lastLine-1])
	} else {
		lastLine = 1
	}

	return []Diagnostic{{
		File:       file.Path,
		Line:       lastLine,
		Col:        lastCol,
		Rule:       r.ID(),
		Severity:   r.DefaultSeverity(),
		Message:    "file does not end with a newline",
		CanAutoFix: true,
		Edit: &TextEdit{
			StartLine:   lastLine,
			StartColumn: lastCol,
			EndLine:     lastLine,
			EndColumn:   lastCol,
			NewText:     "\n",
		},
	}}
}

// =============================================================================
// BRACE SAME LINE
// =============================================================================

// BraceSameLineRule flags opening braces placed alone on their own line.
type BraceSameLineRule struct{}

func (r *BraceSameLineRule) ID() string { return "brace-same-line" }

func (r *BraceSameLineRule) Description() string {
	return "opening braces belong on the same line as the statement"
}

func (r *BraceSameLineRule) DefaultSeverity() Severity { return SeverityInfo }

func (r *BraceSameLineRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i, line := range file.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "{" {
			continue
		}
		// The first line of a file cannot be a continuation.
		if i == 0 {
			continue
		}
		prev := strings.TrimSpace(file.Lines[i-1])
		if prev == "" || strings.HasSuffix(prev, "{") || strings.HasSuffix(prev, ";") {
			continue
		}
		diags = append(diags, Diagnostic{
			File:     file.Path,
			Line:     i + 1,
			Col:      len(leadingWhitespace(line)),
			Rule:     r.ID(),
			Severity: r.DefaultSeverity(),
			Message:  "opening brace should be on the previous line",
		})
	}
	return diags
}
