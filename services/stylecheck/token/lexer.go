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
	"strings"
)

// =============================================================================
// LEXER
// =============================================================================

// Lexer converts raw source bytes into a flat token stream.
//
// Description:
//
//	The lexer recognizes identifiers, @-directives, literals, comments,
//	preprocessor lines, and punctuation. Anything it cannot classify is
//	emitted as a single-byte unknown token, so lexing never fails.
//
// Thread Safety: Safe for concurrent use; Lex keeps all state on the stack.
type Lexer struct {
	// IncludeComments controls whether comment tokens are emitted.
	// Declaration extraction does not need them; rules that inspect raw
	// lines read the line table instead.
	IncludeComments bool
}

// NewLexer creates a lexer with default settings.
func NewLexer() *Lexer {
	return &Lexer{}
}

// Lex tokenizes the given source content.
//
// Description:
//
//	Produces a flat token stream with 1-indexed line and 0-indexed column
//	positions. Malformed constructs (unterminated strings or comments)
//	are tolerated: the open literal extends to end of line or end of file.
//
// Inputs:
//
//	content - Raw source bytes. Assumed to be UTF-8; non-ASCII bytes are
//	          passed through inside identifiers and literals untouched.
//
// Outputs:
//
//	[]Token - The token stream. Never nil.
func (l *Lexer) Lex(content []byte) []Token {
	src := string(content)
	tokens := make([]Token, 0, len(src)/8)

	line, col := 1, 0
	i := 0

	advance := func(n int) {
		for k := 0; k < n && i < len(src); k++ {
			if src[i] == '\n' {
				line++
				col = 0
			} else {
				col++
			}
			i++
		}
	}

	emit := func(kind Kind, text string, startLine, startCol int) {
		tokens = append(tokens, Token{Kind: kind, Text: text, Line: startLine, Col: startCol})
	}

	for i < len(src) {
		c := src[i]

		// Whitespace
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			advance(1)
			continue
		}

		startLine, startCol := line, col

		// Line comment
		if c == '/' && i+1 < len(src) && src[i+1] == '/' {
			end := strings.IndexByte(src[i:], '\n')
			var text string
			if end < 0 {
				text = src[i:]
			} else {
				text = src[i : i+end]
			}
			if l.IncludeComments {
				emit(KindComment, text, startLine, startCol)
			}
			advance(len(text))
			continue
		}

		// Block comment
		if c == '/' && i+1 < len(src) && src[i+1] == '*' {
			end := strings.Index(src[i+2:], "*/")
			var text string
			if end < 0 {
				text = src[i:]
			} else {
				text = src[i : i+2+end+2]
			}
			if l.IncludeComments {
				emit(KindComment, text, startLine, startCol)
			}
			advance(len(text))
			continue
		}

		// Preprocessor line, honoring backslash continuations
		if c == '#' && col == leadingWhitespace(src, i) {
			j := i
			for j < len(src) {
				nl := strings.IndexByte(src[j:], '\n')
				if nl < 0 {
					j = len(src)
					break
				}
				lineEnd := j + nl
				if lineEnd > j && strings.HasSuffix(strings.TrimRight(src[j:lineEnd], " \t\r"), "\\") {
					j = lineEnd + 1
					continue
				}
				j = lineEnd
				break
			}
			emit(KindPreproc, src[i:j], startLine, startCol)
			advance(j - i)
			continue
		}

		// Objective-C string literal or @-directive
		if c == '@' {
			if i+1 < len(src) && src[i+1] == '"' {
				text := scanString(src, i+1)
				emit(KindString, "@"+text, startLine, startCol)
				advance(1 + len(text))
				continue
			}
			if i+1 < len(src) && isIdentStart(src[i+1]) {
				j := i + 1
				for j < len(src) && isIdentPart(src[j]) {
					j++
				}
				emit(KindDirective, src[i:j], startLine, startCol)
				advance(j - i)
				continue
			}
			emit(KindPunct, "@", startLine, startCol)
			advance(1)
			continue
		}

		// C string literal
		if c == '"' {
			text := scanString(src, i)
			emit(KindString, text, startLine, startCol)
			advance(len(text))
			continue
		}

		// Character literal
		if c == '\'' {
			text := scanCharLiteral(src, i)
			emit(KindChar, text, startLine, startCol)
			advance(len(text))
			continue
		}

		// Identifier or keyword
		if isIdentStart(c) {
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			emit(KindIdent, src[i:j], startLine, startCol)
			advance(j - i)
			continue
		}

		// Number
		if c >= '0' && c <= '9' {
			j := i
			for j < len(src) && isNumberPart(src[j]) {
				j++
			}
			emit(KindNumber, src[i:j], startLine, startCol)
			advance(j - i)
			continue
		}

		// Everything else is a single punctuation byte.
		emit(KindPunct, string(c), startLine, startCol)
		advance(1)
	}

	return tokens
}

// Lines splits content into lines without terminators.
//
// The split preserves empty lines. A trailing newline does not produce a
// final empty element, matching how editors count lines.
func Lines(content []byte) []string {
	s := string(content)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}

// =============================================================================
// SCANNING HELPERS
// =============================================================================

// scanString returns the literal starting at the opening quote, including
// both quotes. Unterminated literals extend to end of line or end of input.
func scanString(src string, start int) string {
	j := start + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '"':
			return src[start : j+1]
		case '\n':
			return src[start:j]
		}
		j++
	}
	return src[start:]
}

// scanCharLiteral returns the character literal starting at the opening
// single quote, including both quotes.
func scanCharLiteral(src string, start int) string {
	j := start + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '\'':
			return src[start : j+1]
		case '\n':
			return src[start:j]
		}
		j++
	}
	return src[start:]
}

// leadingWhitespace returns the column of position i assuming only
// whitespace precedes it on its line. Used to confirm a '#' starts a
// preprocessor line rather than appearing mid-expression.
func leadingWhitespace(src string, i int) int {
	col := 0
	for j := i - 1; j >= 0 && src[j] != '\n'; j-- {
		if src[j] != ' ' && src[j] != '\t' && src[j] != '\r' {
			return -1
		}
		col++
	}
	return col
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isNumberPart(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == 'x' || c == 'X' || c == '.' || c == 'u' || c == 'U' || c == 'l' || c == 'L'
}
