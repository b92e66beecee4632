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
	"bytes"
	"fmt"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/AleutianAI/objstyle/services/stylecheck/token"
)

// RenderFixDiff renders a unified diff between original and fixed content.
//
// Description:
//
//	Auto-fix edits are line-local, so the two sides always align line by
//	line (with at most a trailing-newline difference). The diff is built
//	from runs of changed lines with zero context and printed in unified
//	format.
//
// Inputs:
//
//	path - The file path shown in the diff header.
//	original - Content before fixes.
//	fixed - Content after fixes.
//
// Outputs:
//
//	string - The unified diff, or "" when the contents are identical.
//	error - Non-nil if the diff could not be printed.
func RenderFixDiff(path string, original, fixed []byte) (string, error) {
	if bytes.Equal(original, fixed) {
		return "", nil
	}

	origLines := token.Lines(original)
	fixedLines := token.Lines(fixed)

	fd := &diff.FileDiff{
		OrigName: "a/" + path,
		NewName:  "b/" + path,
	}

	n := len(origLines)
	if len(fixedLines) > n {
		n = len(fixedLines)
	}

	for i := 0; i < n; {
		if lineAt(origLines, i) == lineAt(fixedLines, i) &&
			i < len(origLines) && i < len(fixedLines) {
			i++
			continue
		}

		// Collect the run of differing lines.
		start := i
		for i < n && !(i < len(origLines) && i < len(fixedLines) &&
			origLines[i] == fixedLines[i]) {
			i++
		}

		var body bytes.Buffer
		var origCount, newCount int32
		for j := start; j < i; j++ {
			if j < len(origLines) {
				fmt.Fprintf(&body, "-%s\n", origLines[j])
				origCount++
			}
		}
		for j := start; j < i; j++ {
			if j < len(fixedLines) {
				fmt.Fprintf(&body, "+%s\n", fixedLines[j])
				newCount++
			}
		}

		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: int32(start + 1),
			OrigLines:     origCount,
			NewStartLine:  int32(start + 1),
			NewLines:      newCount,
			Body:          body.Bytes(),
		})
	}

	if len(fd.Hunks) == 0 {
		// Only the trailing newline changed. Render the last line with
		// the missing-newline marker so the fix is still visible.
		if len(origLines) == 0 {
			return "", nil
		}
		last := origLines[len(origLines)-1]
		var body bytes.Buffer
		fmt.Fprintf(&body, "-%s\n", last)
		body.WriteString("\\ No newline at end of file\n")
		fmt.Fprintf(&body, "+%s\n", last)
		fd.Hunks = append(fd.Hunks, &diff.Hunk{
			OrigStartLine: int32(len(origLines)),
			OrigLines:     1,
			NewStartLine:  int32(len(origLines)),
			NewLines:      1,
			Body:          body.Bytes(),
		})
	}

	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("printing diff: %w", err)
	}
	return string(out), nil
}

// lineAt returns the line at index i, or a sentinel when out of range.
func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return "\x00missing"
	}
	return lines[i]
}
