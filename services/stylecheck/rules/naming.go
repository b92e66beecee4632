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
	"unicode"

	"github.com/AleutianAI/objstyle/services/stylecheck/decl"
)

// =============================================================================
// CLASS PREFIX
// =============================================================================

// ClassPrefixRule requires classes and protocols to carry the project
// prefix (or any two-letter uppercase prefix when none is configured).
type ClassPrefixRule struct{}

func (r *ClassPrefixRule) ID() string { return "class-prefix" }

func (r *ClassPrefixRule) Description() string {
	return "classes and protocols must carry the project prefix"
}

func (r *ClassPrefixRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *ClassPrefixRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindClass && d.Kind != decl.KindProtocol {
			continue
		}
		if hasProjectPrefix(d.Name, settings.Prefix) {
			continue
		}

		var msg, suggestion string
		if settings.Prefix != "" {
			msg = fmt.Sprintf("%s %q should start with the project prefix %q", d.Kind, d.Name, settings.Prefix)
			suggestion = settings.Prefix + d.Name
		} else {
			msg = fmt.Sprintf("%s %q should start with an uppercase prefix of at least two letters", d.Kind, d.Name)
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    msg,
			Suggestion: suggestion,
		})
	}
	return diags
}

// hasProjectPrefix reports whether name satisfies the prefix requirement.
func hasProjectPrefix(name, prefix string) bool {
	if prefix != "" {
		return strings.HasPrefix(name, prefix)
	}
	return uppercaseRunLen(name) >= 2
}

// =============================================================================
// CLASS CAMEL CASE
// =============================================================================

// ClassCamelCaseRule requires type names to be UpperCamelCase.
type ClassCamelCaseRule struct{}

func (r *ClassCamelCaseRule) ID() string { return "class-camel-case" }

func (r *ClassCamelCaseRule) Description() string {
	return "type names must be UpperCamelCase without underscores"
}

func (r *ClassCamelCaseRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *ClassCamelCaseRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		switch d.Kind {
		case decl.KindClass, decl.KindProtocol, decl.KindEnum, decl.KindTypedef:
		default:
			continue
		}
		if isUpperCamelCase(d.Name) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("%s %q should be UpperCamelCase", d.Kind, d.Name),
			Suggestion: toUpperCamelCase(d.Name),
		})
	}
	return diags
}

// =============================================================================
// PROTOCOL NAMING
// =============================================================================

// ProtocolNamingRule checks protocol naming conventions: delegate
// protocols must end in "Delegate", and no protocol should carry a
// redundant "Protocol" suffix.
type ProtocolNamingRule struct{}

func (r *ProtocolNamingRule) ID() string { return "protocol-naming" }

func (r *ProtocolNamingRule) Description() string {
	return "delegate protocols must end in Delegate; names should not end in Protocol"
}

func (r *ProtocolNamingRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *ProtocolNamingRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindProtocol {
			continue
		}
		if strings.HasSuffix(d.Name, "Protocol") && d.Name != "Protocol" {
			diags = append(diags, Diagnostic{
				File:       d.FilePath,
				Line:       d.Line,
				Col:        d.Col,
				Rule:       r.ID(),
				Severity:   r.DefaultSeverity(),
				Message:    fmt.Sprintf("protocol %q should not end with \"Protocol\"", d.Name),
				Suggestion: strings.TrimSuffix(d.Name, "Protocol"),
			})
			continue
		}
		if strings.HasSuffix(d.Name, "Delegate") || strings.HasSuffix(d.Name, "DataSource") {
			continue
		}
		if hasDelegateStyleMethod(file, d.Name) {
			diags = append(diags, Diagnostic{
				File:       d.FilePath,
				Line:       d.Line,
				Col:        d.Col,
				Rule:       r.ID(),
				Severity:   r.DefaultSeverity(),
				Message:    fmt.Sprintf("protocol %q declares delegate callbacks and should end with \"Delegate\"", d.Name),
				Suggestion: d.Name + "Delegate",
			})
		}
	}
	return diags
}

// hasDelegateStyleMethod reports whether the protocol declares at least one
// method whose selector uses the did/will/should callback form.
func hasDelegateStyleMethod(file *decl.File, protocol string) bool {
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindMethod || d.Receiver != protocol {
			continue
		}
		for _, seg := range d.Selector {
			if isDelegateSelectorSegment(seg) {
				return true
			}
		}
	}
	return false
}

// isDelegateSelectorSegment reports whether a selector segment contains a
// did/will/should callback verb followed by an uppercase letter, either at
// the start ("didSelectRow") or mid-segment ("scrollViewDidScroll").
func isDelegateSelectorSegment(seg string) bool {
	for _, verb := range []string{"did", "will", "should"} {
		if strings.HasPrefix(seg, verb) && len(seg) > len(verb) &&
			unicode.IsUpper(rune(seg[len(verb)])) {
			return true
		}
	}
	for _, verb := range []string{"Did", "Will", "Should"} {
		rest := seg
		for {
			idx := strings.Index(rest, verb)
			if idx < 0 {
				break
			}
			end := idx + len(verb)
			if end < len(rest) && unicode.IsUpper(rune(rest[end])) {
				return true
			}
			rest = rest[idx+1:]
		}
	}
	return false
}

// =============================================================================
// CATEGORY NAMING
// =============================================================================

// CategoryNamingRule requires category names to be UpperCamelCase.
type CategoryNamingRule struct{}

func (r *CategoryNamingRule) ID() string { return "category-naming" }

func (r *CategoryNamingRule) Description() string {
	return "category names must be UpperCamelCase"
}

func (r *CategoryNamingRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *CategoryNamingRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindCategory || d.CategoryName == "" {
			continue
		}
		if isUpperCamelCase(d.CategoryName) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("category %q on %s should be UpperCamelCase", d.CategoryName, d.Receiver),
			Suggestion: toUpperCamelCase(d.CategoryName),
		})
	}
	return diags
}

// =============================================================================
// METHOD LOWER CAMEL
// =============================================================================

// MethodLowerCamelRule requires every selector segment to start lowercase.
type MethodLowerCamelRule struct{}

func (r *MethodLowerCamelRule) ID() string { return "method-lower-camel" }

func (r *MethodLowerCamelRule) Description() string {
	return "selector segments must start with a lowercase letter"
}

func (r *MethodLowerCamelRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *MethodLowerCamelRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindMethod {
			continue
		}
		for _, seg := range d.Selector {
			if isLowerCamelCase(strings.TrimLeft(seg, "_")) {
				continue
			}
			diags = append(diags, Diagnostic{
				File:       d.FilePath,
				Line:       d.Line,
				Col:        d.Col,
				Rule:       r.ID(),
				Severity:   r.DefaultSeverity(),
				Message:    fmt.Sprintf("selector segment %q in %q should start with a lowercase letter", seg, d.Name),
				Suggestion: lowerFirst(seg),
			})
		}
	}
	return diags
}

// =============================================================================
// METHOD NO GET PREFIX
// =============================================================================

// MethodNoGetPrefixRule flags accessor methods named with a "get" prefix.
type MethodNoGetPrefixRule struct{}

func (r *MethodNoGetPrefixRule) ID() string { return "method-no-get-prefix" }

func (r *MethodNoGetPrefixRule) Description() string {
	return "accessors should be named after the value, without a get prefix"
}

func (r *MethodNoGetPrefixRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *MethodNoGetPrefixRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindMethod || len(d.Selector) == 0 {
			continue
		}
		first := d.Selector[0]
		rest, ok := strings.CutPrefix(first, "get")
		if !ok || rest == "" || !unicode.IsUpper(rune(rest[0])) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("method %q should drop the \"get\" prefix", d.Name),
			Suggestion: lowerFirst(rest),
		})
	}
	return diags
}

// =============================================================================
// VARIABLE LOWER CAMEL
// =============================================================================

// VariableLowerCamelRule requires properties and variables to be
// lowerCamelCase.
type VariableLowerCamelRule struct{}

func (r *VariableLowerCamelRule) ID() string { return "variable-lower-camel" }

func (r *VariableLowerCamelRule) Description() string {
	return "properties and variables must be lowerCamelCase"
}

func (r *VariableLowerCamelRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *VariableLowerCamelRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindProperty && d.Kind != decl.KindVariable {
			continue
		}
		if isLowerCamelCase(d.Name) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("%s %q should be lowerCamelCase", d.Kind, d.Name),
			Suggestion: toLowerCamelCase(d.Name),
		})
	}
	return diags
}

// =============================================================================
// IVAR UNDERSCORE PREFIX
// =============================================================================

// IvarUnderscorePrefixRule requires instance variables to start with "_".
type IvarUnderscorePrefixRule struct{}

func (r *IvarUnderscorePrefixRule) ID() string { return "ivar-underscore-prefix" }

func (r *IvarUnderscorePrefixRule) Description() string {
	return "instance variables must start with an underscore"
}

func (r *IvarUnderscorePrefixRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *IvarUnderscorePrefixRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindIvar {
			continue
		}
		if strings.HasPrefix(d.Name, "_") {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("instance variable %q should start with an underscore", d.Name),
			Suggestion: "_" + d.Name,
		})
	}
	return diags
}

// =============================================================================
// CONSTANT PREFIX
// =============================================================================

// ConstantPrefixRule requires constants to use the k prefix or the project
// prefix. Preprocessor macros may also use SCREAMING_SNAKE_CASE.
type ConstantPrefixRule struct{}

func (r *ConstantPrefixRule) ID() string { return "constant-prefix" }

func (r *ConstantPrefixRule) Description() string {
	return "constants must start with k or the project prefix"
}

func (r *ConstantPrefixRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *ConstantPrefixRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindConstant {
			continue
		}
		if isKPrefixed(d.Name) || hasProjectPrefix(d.Name, settings.Prefix) {
			continue
		}
		if d.IsMacro && isScreamingSnakeCase(d.Name) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("constant %q should start with \"k\" or the project prefix", d.Name),
			Suggestion: "k" + toUpperCamelCase(d.Name),
		})
	}
	return diags
}

// =============================================================================
// ENUM MEMBER PREFIX
// =============================================================================

// EnumMemberPrefixRule requires enum members to start with the enum name.
type EnumMemberPrefixRule struct{}

func (r *EnumMemberPrefixRule) ID() string { return "enum-member-prefix" }

func (r *EnumMemberPrefixRule) Description() string {
	return "enum members must be prefixed with the enum type name"
}

func (r *EnumMemberPrefixRule) DefaultSeverity() Severity { return SeverityWarning }

func (r *EnumMemberPrefixRule) Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for i := range file.Decls {
		d := &file.Decls[i]
		if d.Kind != decl.KindEnumMember || d.EnumType == "" {
			continue
		}
		if strings.HasPrefix(d.Name, d.EnumType) {
			continue
		}
		diags = append(diags, Diagnostic{
			File:       d.FilePath,
			Line:       d.Line,
			Col:        d.Col,
			Rule:       r.ID(),
			Severity:   r.DefaultSeverity(),
			Message:    fmt.Sprintf("enum member %q should start with %q", d.Name, d.EnumType),
			Suggestion: d.EnumType + upperFirst(d.Name),
		})
	}
	return diags
}

// =============================================================================
// CASE HELPERS
// =============================================================================

// isUpperCamelCase reports whether s starts with an uppercase letter and
// contains no underscores.
func isUpperCamelCase(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	return unicode.IsUpper(first) && !strings.Contains(s, "_")
}

// isLowerCamelCase reports whether s starts with a lowercase letter and
// contains no underscores.
func isLowerCamelCase(s string) bool {
	if s == "" {
		return false
	}
	first := rune(s[0])
	return unicode.IsLower(first) && !strings.Contains(s, "_")
}

// isScreamingSnakeCase reports whether s uses only uppercase letters,
// digits, and underscores, with at least one letter.
func isScreamingSnakeCase(s string) bool {
	hasLetter := false
	for _, c := range s {
		switch {
		case c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return hasLetter
}

// isKPrefixed reports whether s follows the kConstantName convention.
func isKPrefixed(s string) bool {
	return len(s) > 1 && s[0] == 'k' && unicode.IsUpper(rune(s[1]))
}

// uppercaseRunLen returns the number of leading uppercase letters.
func uppercaseRunLen(s string) int {
	n := 0
	for _, c := range s {
		if !unicode.IsUpper(c) {
			break
		}
		n++
	}
	return n
}

// lowerFirst lowercases the first letter of s.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// upperFirst uppercases the first letter of s.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// toUpperCamelCase converts snake_case or lowercase names to UpperCamelCase.
func toUpperCamelCase(s string) string {
	if !strings.Contains(s, "_") {
		return upperFirst(s)
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(upperFirst(strings.ToLower(p)))
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

// toLowerCamelCase converts snake_case or capitalized names to
// lowerCamelCase.
func toLowerCamelCase(s string) string {
	return lowerFirst(toUpperCamelCase(s))
}
