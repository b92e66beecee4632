// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package decl extracts Objective-C declarations from a token stream.
//
// The extractor identifies classes, categories, protocols, methods,
// properties, instance variables, constants, enumerations, typedefs, and
// file-scope variables. It is error-tolerant: malformed declaration sites
// are skipped with a note and extraction continues.
package decl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind represents the type of declaration extracted from source code.
type Kind int

const (
	// KindUnknown indicates an unrecognized declaration site.
	KindUnknown Kind = iota

	// KindClass represents an @interface declaration.
	KindClass

	// KindCategory represents an @interface Class (Name) category.
	KindCategory

	// KindExtension represents a class extension, @interface Class ().
	KindExtension

	// KindProtocol represents an @protocol declaration.
	KindProtocol

	// KindMethod represents an instance or class method declaration.
	KindMethod

	// KindProperty represents an @property declaration.
	KindProperty

	// KindIvar represents an instance variable inside an ivar block.
	KindIvar

	// KindConstant represents a #define, const-qualified, or extern const
	// file-scope declaration.
	KindConstant

	// KindEnum represents an enumeration type (enum, NS_ENUM, NS_OPTIONS).
	KindEnum

	// KindEnumMember represents a member of an enumeration.
	KindEnumMember

	// KindTypedef represents a typedef name.
	KindTypedef

	// KindVariable represents a non-const file-scope variable.
	KindVariable

	// KindFunction represents a C function at file scope.
	KindFunction
)

// kindNames maps Kind values to their string representations.
var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindClass:      "class",
	KindCategory:   "category",
	KindExtension:  "extension",
	KindProtocol:   "protocol",
	KindMethod:     "method",
	KindProperty:   "property",
	KindIvar:       "ivar",
	KindConstant:   "constant",
	KindEnum:       "enum",
	KindEnumMember: "enum_member",
	KindTypedef:    "typedef",
	KindVariable:   "variable",
	KindFunction:   "function",
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON serializes the kind as a string rather than a number.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts both string and numeric values.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*k = ParseKind(s)
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err != nil {
		return fmt.Errorf("decl kind must be string or int: %w", err)
	}
	*k = Kind(i)
	return nil
}

// ParseKind converts a string to a Kind.
//
// Returns KindUnknown if the string is not recognized.
func ParseKind(s string) Kind {
	for kind, name := range kindNames {
		if name == s {
			return kind
		}
	}
	return KindUnknown
}

// Decl represents a single extracted declaration.
//
// Line numbers are 1-indexed, columns are 0-indexed.
//
// Thread Safety: Immutable after creation by the extractor.
type Decl struct {
	// Name is the declared identifier. For methods this is the full
	// selector (e.g., "setTitle:forState:").
	Name string `json:"name"`

	// Kind indicates what was declared.
	Kind Kind `json:"kind"`

	// FilePath is the path of the containing file.
	FilePath string `json:"file_path"`

	// Line is the 1-indexed line where the declaration starts.
	Line int `json:"line"`

	// Col is the 0-indexed column where the declared name appears.
	Col int `json:"col"`

	// Receiver is the owning class for methods, properties, and ivars.
	Receiver string `json:"receiver,omitempty"`

	// Superclass is the declared superclass for classes.
	Superclass string `json:"superclass,omitempty"`

	// CategoryName is the category name for categories. Empty for class
	// extensions.
	CategoryName string `json:"category_name,omitempty"`

	// Protocols lists adopted protocol names for classes and categories.
	Protocols []string `json:"protocols,omitempty"`

	// Selector holds the selector segments for methods, one entry per
	// colon-delimited piece (e.g., ["setTitle", "forState"]).
	Selector []string `json:"selector,omitempty"`

	// IsClassMethod is true for "+" methods.
	IsClassMethod bool `json:"is_class_method,omitempty"`

	// EnumType is the owning enumeration name for enum members.
	EnumType string `json:"enum_type,omitempty"`

	// IsStatic is true for static file-scope declarations.
	IsStatic bool `json:"is_static,omitempty"`

	// IsExtern is true for extern file-scope declarations.
	IsExtern bool `json:"is_extern,omitempty"`

	// IsMacro is true for constants introduced with #define.
	IsMacro bool `json:"is_macro,omitempty"`
}

// Location returns a formatted "file:line:col" string.
func (d *Decl) Location() string {
	return fmt.Sprintf("%s:%d:%d", d.FilePath, d.Line, d.Col)
}

// SelectorString joins the selector segments back into selector form.
func (d *Decl) SelectorString() string {
	if len(d.Selector) == 0 {
		return d.Name
	}
	if len(d.Selector) == 1 && !strings.Contains(d.Name, ":") {
		return d.Selector[0]
	}
	return strings.Join(d.Selector, ":") + ":"
}
