// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package token lexes Objective-C source text into a flat token stream.
//
// The lexer is deliberately shallow: it produces just enough structure for
// the declaration extractor to locate classes, protocols, categories,
// methods, properties, constants, and variables. It does not build a parse
// tree and it never fails on malformed input.
package token

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a lexed token.
type Kind int

const (
	// KindUnknown indicates a byte sequence the lexer could not classify.
	KindUnknown Kind = iota

	// KindIdent is an identifier (e.g., "NSString", "didFinishLaunching").
	KindIdent

	// KindDirective is an @-directive (e.g., "@interface", "@property").
	KindDirective

	// KindNumber is a numeric literal.
	KindNumber

	// KindString is a string literal, either C ("...") or Objective-C (@"...").
	KindString

	// KindChar is a character literal ('x').
	KindChar

	// KindComment is a line (//) or block (/* */) comment.
	KindComment

	// KindPreproc is a preprocessor line (#define, #import, ...),
	// including backslash continuations.
	KindPreproc

	// KindPunct is a single punctuation character.
	KindPunct
)

// kindNames maps Kind values to their string representations.
var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindIdent:     "ident",
	KindDirective: "directive",
	KindNumber:    "number",
	KindString:    "string",
	KindChar:      "char",
	KindComment:   "comment",
	KindPreproc:   "preproc",
	KindPunct:     "punct",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON serializes the kind as a string for readability.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts both string and numeric kind values.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for kind, name := range kindNames {
			if name == s {
				*k = kind
				return nil
			}
		}
		*k = KindUnknown
		return nil
	}

	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("token kind must be string or int: %w", err)
	}
	*k = Kind(i)
	return nil
}

// Token is a single lexed token.
//
// Line numbers are 1-indexed and column numbers are 0-indexed, matching
// the convention used by most editors and LSP.
//
// Thread Safety: Immutable after creation.
type Token struct {
	// Kind classifies the token.
	Kind Kind `json:"kind"`

	// Text is the raw source text of the token.
	Text string `json:"text"`

	// Line is the 1-indexed line where the token starts.
	Line int `json:"line"`

	// Col is the 0-indexed column where the token starts.
	Col int `json:"col"`
}

// IsDirective reports whether the token is the given @-directive.
func (t Token) IsDirective(name string) bool {
	return t.Kind == KindDirective && t.Text == name
}

// IsPunct reports whether the token is the given punctuation character.
func (t Token) IsPunct(ch string) bool {
	return t.Kind == KindPunct && t.Text == ch
}

// IsIdent reports whether the token is the given identifier.
func (t Token) IsIdent(name string) bool {
	return t.Kind == KindIdent && t.Text == name
}

// String returns a compact human-readable representation.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Col)
}
