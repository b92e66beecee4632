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
	"os"

	"github.com/mattn/go-isatty"
)

// FormatType represents the type of output format.
type FormatType string

const (
	// FormatJSON is full JSON output.
	FormatJSON FormatType = "json"

	// FormatText is human-readable terminal output (default).
	FormatText FormatType = "text"

	// FormatMarkdown is markdown output for PR comments and docs.
	FormatMarkdown FormatType = "markdown"
)

// Formatter renders a report into an output representation.
type Formatter interface {
	// Format converts the report to a formatted string.
	Format(r *Report) (string, error)

	// Name returns the format name.
	Name() FormatType
}

// NewFormatter returns the formatter for a format type.
//
// Color output for the text format is enabled only when stdout is a
// terminal.
func NewFormatter(t FormatType) (Formatter, error) {
	switch t {
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatText, "":
		return NewTextFormatter(stdoutIsTTY()), nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format type: %q", t)
	}
}

// stdoutIsTTY reports whether stdout is an interactive terminal.
func stdoutIsTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
