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
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/AleutianAI/objstyle/services/stylecheck/rules"
	"github.com/AleutianAI/objstyle/services/stylecheck/token"
)

// =============================================================================
// AUTO-FIX
// =============================================================================

// ApplyFixes applies every auto-fix edit from diags to content.
//
// Description:
//
//	Collects the edits of all auto-fixable diagnostics and applies them
//	in one pass. Edits on the same line are applied right to left so
//	earlier columns stay valid. All supported edits are confined to a
//	single line; a trailing-newline insertion is recognized by its
//	position at the very end of the last line.
//
// Inputs:
//
//	content - The original file content.
//	diags - Diagnostics whose edits should be applied. Diagnostics
//	        without an edit are skipped.
//
// Outputs:
//
//	[]byte - The fixed content.
//	int - The number of edits applied.
//	error - Non-nil if two edits overlap or an edit is out of range.
func ApplyFixes(content []byte, diags []rules.Diagnostic) ([]byte, int, error) {
	type edit struct {
		rule string
		e    *rules.TextEdit
	}

	byLine := make(map[int][]edit)
	ensureNewline := false
	applied := 0

	lines := token.Lines(content)
	hadTrailingNewline := len(content) > 0 && content[len(content)-1] == '\n'

	// Lines strips \r, so CRLF files are rejoined with their original
	// terminator to keep untouched lines byte-identical.
	terminator := "\n"
	if bytes.Contains(content, []byte("\r\n")) {
		terminator = "\r\n"
	}

	for i := range diags {
		d := &diags[i]
		if !d.CanAutoFix || d.Edit == nil {
			continue
		}
		e := d.Edit
		if e.StartLine != e.EndLine {
			return nil, 0, fmt.Errorf("multi-line edit from rule %s not supported", d.Rule)
		}
		if e.StartLine < 1 || e.StartLine > len(lines) {
			return nil, 0, fmt.Errorf("edit from rule %s targets line %d of %d", d.Rule, e.StartLine, len(lines))
		}

		// An insertion at the very end of the last line is the
		// final-newline fix.
		if e.NewText == "\n" && e.StartLine == len(lines) &&
			e.StartColumn == e.EndColumn && e.StartColumn == len(lines[len(lines)-1]) {
			if !hadTrailingNewline {
				ensureNewline = true
				applied++
			}
			continue
		}

		byLine[e.StartLine] = append(byLine[e.StartLine], edit{rule: d.Rule, e: e})
	}

	for lineNo, edits := range byLine {
		sort.Slice(edits, func(i, j int) bool {
			return edits[i].e.StartColumn > edits[j].e.StartColumn
		})

		// Right to left, so each application leaves earlier ranges intact.
		line := lines[lineNo-1]
		prevStart := len(line) + 1
		for _, ed := range edits {
			e := ed.e
			if e.StartColumn < 0 || e.EndColumn > len(line) || e.StartColumn > e.EndColumn {
				return nil, 0, fmt.Errorf("edit from rule %s out of range on line %d", ed.rule, lineNo)
			}
			if e.EndColumn > prevStart {
				return nil, 0, fmt.Errorf("%w on line %d", ErrOverlappingEdits, lineNo)
			}
			line = line[:e.StartColumn] + e.NewText + line[e.EndColumn:]
			prevStart = e.StartColumn
			applied++
		}
		lines[lineNo-1] = line
	}

	out := strings.Join(lines, terminator)
	if hadTrailingNewline || ensureNewline {
		out += terminator
	}
	return []byte(out), applied, nil
}
