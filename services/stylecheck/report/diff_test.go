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
	"strings"
	"testing"
)

func TestRenderFixDiff(t *testing.T) {
	original := []byte("int a;   \nint b;\nint c;\t\n")
	fixed := []byte("int a;\nint b;\nint c;\n")

	out, err := RenderFixDiff("Sources/widget.m", original, fixed)
	if err != nil {
		t.Fatalf("RenderFixDiff() error: %v", err)
	}

	for _, want := range []string{
		"--- a/Sources/widget.m",
		"+++ b/Sources/widget.m",
		"-int a;   ",
		"+int a;",
		"-int c;\t",
		"+int c;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
	// The unchanged middle line produces no hunk content.
	if strings.Contains(out, "-int b;") || strings.Contains(out, "+int b;") {
		t.Errorf("unchanged line appears in diff:\n%s", out)
	}
}

func TestRenderFixDiff_FinalNewlineOnly(t *testing.T) {
	original := []byte("int a;")
	fixed := []byte("int a;\n")

	out, err := RenderFixDiff("a.m", original, fixed)
	if err != nil {
		t.Fatalf("RenderFixDiff() error: %v", err)
	}
	if out == "" {
		t.Fatal("final-newline fix rendered an empty diff")
	}
	for _, want := range []string{
		"-int a;",
		"\\ No newline at end of file",
		"+int a;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFixDiff_Identical(t *testing.T) {
	content := []byte("int a;\n")
	out, err := RenderFixDiff("a.m", content, content)
	if err != nil {
		t.Fatalf("RenderFixDiff() error: %v", err)
	}
	if out != "" {
		t.Errorf("diff = %q, want empty", out)
	}
}

func TestRenderFixDiff_TwoHunks(t *testing.T) {
	original := []byte("aaa \nbbb\nccc \n")
	fixed := []byte("aaa\nbbb\nccc\n")

	out, err := RenderFixDiff("x.m", original, fixed)
	if err != nil {
		t.Fatalf("RenderFixDiff() error: %v", err)
	}
	if got := strings.Count(out, "@@"); got != 4 {
		t.Errorf("hunk header count = %d, want 4 (two hunks):\n%s", got, out)
	}
}
