// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package token

import (
	"testing"
)

func TestLex_Identifiers(t *testing.T) {
	toks := NewLexer().Lex([]byte("NSString *name;"))

	want := []Token{
		{Kind: KindIdent, Text: "NSString", Line: 1, Col: 0},
		{Kind: KindPunct, Text: "*", Line: 1, Col: 9},
		{Kind: KindIdent, Text: "name", Line: 1, Col: 10},
		{Kind: KindPunct, Text: ";", Line: 1, Col: 14},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i] != w {
			t.Errorf("token %d = %v, want %v", i, toks[i], w)
		}
	}
}

func TestLex_Directives(t *testing.T) {
	toks := NewLexer().Lex([]byte("@interface Foo : NSObject\n@end"))

	if toks[0].Kind != KindDirective || toks[0].Text != "@interface" {
		t.Errorf("token 0 = %v, want @interface directive", toks[0])
	}
	last := toks[len(toks)-1]
	if !last.IsDirective("@end") {
		t.Errorf("last token = %v, want @end directive", last)
	}
	if last.Line != 2 || last.Col != 0 {
		t.Errorf("@end at %d:%d, want 2:0", last.Line, last.Col)
	}
}

func TestLex_ObjCStringLiteral(t *testing.T) {
	toks := NewLexer().Lex([]byte(`x = @"hello \"world\"";`))

	var str *Token
	for i := range toks {
		if toks[i].Kind == KindString {
			str = &toks[i]
			break
		}
	}
	if str == nil {
		t.Fatalf("no string token in %v", toks)
	}
	if str.Text != `@"hello \"world\""` {
		t.Errorf("string text = %q", str.Text)
	}
}

func TestLex_Comments(t *testing.T) {
	src := []byte("a // line\n/* block\nspans */ b")

	toks := NewLexer().Lex(src)
	for _, tok := range toks {
		if tok.Kind == KindComment {
			t.Errorf("comments should be dropped by default, got %v", tok)
		}
	}
	if len(toks) != 2 || toks[0].Text != "a" || toks[1].Text != "b" {
		t.Fatalf("got %v, want idents a and b", toks)
	}
	if toks[1].Line != 3 {
		t.Errorf("b on line %d, want 3", toks[1].Line)
	}

	lx := NewLexer()
	lx.IncludeComments = true
	toks = lx.Lex(src)
	var comments int
	for _, tok := range toks {
		if tok.Kind == KindComment {
			comments++
		}
	}
	if comments != 2 {
		t.Errorf("got %d comment tokens, want 2", comments)
	}
}

func TestLex_PreprocessorContinuation(t *testing.T) {
	src := []byte("#define MAX(a, b) \\\n    ((a) > (b) ? (a) : (b))\nint x;")

	toks := NewLexer().Lex(src)
	if toks[0].Kind != KindPreproc {
		t.Fatalf("token 0 = %v, want preproc", toks[0])
	}
	if toks[1].Text != "int" || toks[1].Line != 3 {
		t.Errorf("token after continuation = %v, want int on line 3", toks[1])
	}
}

func TestLex_HashMidLineIsNotPreproc(t *testing.T) {
	toks := NewLexer().Lex([]byte("a # b"))

	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3", len(toks))
	}
	if toks[1].Kind != KindPunct || toks[1].Text != "#" {
		t.Errorf("token 1 = %v, want punct #", toks[1])
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	toks := NewLexer().Lex([]byte("@\"open\nnext"))

	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %v", len(toks), toks)
	}
	if toks[0].Kind != KindString || toks[0].Text != `@"open` {
		t.Errorf("token 0 = %v", toks[0])
	}
	if !toks[1].IsIdent("next") {
		t.Errorf("token 1 = %v, want ident next", toks[1])
	}
}

func TestLex_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"0xFF", "0xFF"},
		{"3.14f", "3.14f"},
		{"100UL", "100UL"},
	}
	for _, tt := range tests {
		toks := NewLexer().Lex([]byte(tt.src))
		if len(toks) == 0 || toks[0].Kind != KindNumber {
			t.Errorf("Lex(%q) first token = %v, want number", tt.src, toks)
			continue
		}
		if toks[0].Text != tt.want {
			t.Errorf("Lex(%q) = %q, want %q", tt.src, toks[0].Text, tt.want)
		}
	}
}

func TestLex_Empty(t *testing.T) {
	toks := NewLexer().Lex(nil)
	if toks == nil {
		t.Error("Lex(nil) should return an empty slice, not nil")
	}
	if len(toks) != 0 {
		t.Errorf("got %d tokens, want 0", len(toks))
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", []string{}},
		{"single no newline", "abc", []string{"abc"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank lines preserved", "a\n\nb", []string{"a", "", "b"}},
		{"crlf stripped", "a\r\nb\r\n", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Lines([]byte(tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindIdent, "ident"},
		{KindDirective, "directive"},
		{KindPreproc, "preproc"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
