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

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
)

// Terminal color palette.
var (
	colorError   = lipgloss.Color("#E74C3C")
	colorWarning = lipgloss.Color("#F4D03F")
	colorInfo    = lipgloss.Color("#5DADE2")
	colorMuted   = lipgloss.Color("#7F8C8D")
	colorOK      = lipgloss.Color("#2ECC71")
)

// textStyles holds the lipgloss styles for colored output.
type textStyles struct {
	err     lipgloss.Style
	warn    lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	file    lipgloss.Style
	enabled bool
}

func newTextStyles(color bool) textStyles {
	if !color {
		return textStyles{}
	}
	return textStyles{
		err:     lipgloss.NewStyle().Foreground(colorError).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(colorWarning),
		info:    lipgloss.NewStyle().Foreground(colorInfo),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		ok:      lipgloss.NewStyle().Foreground(colorOK).Bold(true),
		file:    lipgloss.NewStyle().Bold(true).Underline(true),
		enabled: true,
	}
}

func (s textStyles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// TextFormatter renders a human-readable terminal report.
type TextFormatter struct {
	styles textStyles
}

// NewTextFormatter creates a text formatter. Color styling is applied
// only when color is true.
func NewTextFormatter(color bool) *TextFormatter {
	return &TextFormatter{styles: newTextStyles(color)}
}

// Format implements Formatter.
func (f *TextFormatter) Format(r *Report) (string, error) {
	var sb strings.Builder

	for _, res := range r.Results {
		if !res.HasIssues() {
			continue
		}
		sb.WriteString(f.styles.render(f.styles.file, res.FilePath))
		sb.WriteString("\n")
		for _, d := range res.AllDiagnostics() {
			sb.WriteString(f.formatDiagnostic(&d))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(f.summaryLine(r))
	return sb.String(), nil
}

// formatDiagnostic renders one finding as a single indented line.
func (f *TextFormatter) formatDiagnostic(d *rules.Diagnostic) string {
	var marker string
	switch d.Severity {
	case rules.SeverityError:
		marker = f.styles.render(f.styles.err, "✗ error")
	case rules.SeverityWarning:
		marker = f.styles.render(f.styles.warn, "⚠ warning")
	default:
		marker = f.styles.render(f.styles.info, "• info")
	}

	line := fmt.Sprintf("  %d:%d  %s  %s  %s",
		d.Line, d.Col, marker, d.Message,
		f.styles.render(f.styles.muted, d.Rule))
	if d.Suggestion != "" {
		line += f.styles.render(f.styles.muted, fmt.Sprintf("  (suggestion: %s)", d.Suggestion))
	}
	return line + "\n"
}

// summaryLine renders the closing summary.
func (f *TextFormatter) summaryLine(r *Report) string {
	s := r.Summary
	if s.Total() == 0 {
		return f.styles.render(f.styles.ok, "✓") +
			fmt.Sprintf(" %d files checked, no issues found\n", s.Files)
	}

	parts := []string{
		fmt.Sprintf("%d files checked", s.Files),
		f.styles.render(f.styles.err, fmt.Sprintf("%d errors", s.Errors)),
		f.styles.render(f.styles.warn, fmt.Sprintf("%d warnings", s.Warnings)),
		f.styles.render(f.styles.info, fmt.Sprintf("%d infos", s.Infos)),
	}
	line := strings.Join(parts, ", ")
	if s.AutoFixable > 0 {
		line += f.styles.render(f.styles.muted,
			fmt.Sprintf("  (%d fixable with objstyle fix)", s.AutoFixable))
	}
	return line + "\n"
}

// Name implements Formatter.
func (f *TextFormatter) Name() FormatType {
	return FormatText
}
