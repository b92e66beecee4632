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
	"sort"
	"sync"

	"github.com/AleutianAI/objstyle/services/stylecheck/decl"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Indentation styles accepted by the formatting rules.
const (
	IndentSpaces = "spaces"
	IndentTabs   = "tabs"
)

// Settings carries the tunable parameters shared by all rules.
//
// Thread Safety: Treat as immutable after creation.
type Settings struct {
	// Prefix is the project's class prefix (e.g., "ABC"). When empty, the
	// prefix rules fall back to requiring any two-letter uppercase prefix.
	Prefix string

	// Indentation is either IndentSpaces or IndentTabs.
	Indentation string

	// IndentWidth is the number of spaces per indentation level. Used for
	// tab conversion when Indentation is IndentSpaces.
	IndentWidth int

	// MaxLineLength is the maximum allowed line length in characters.
	MaxLineLength int
}

// DefaultSettings returns the settings used when no configuration is found.
func DefaultSettings() Settings {
	return Settings{
		Indentation:   IndentSpaces,
		IndentWidth:   4,
		MaxLineLength: 100,
	}
}

// =============================================================================
// RULE INTERFACE
// =============================================================================

// Rule is a single independent style predicate.
//
// Description:
//
//	A rule inspects one extracted file and returns zero or more
//	diagnostics. Rules must not mutate the file and must not depend on
//	the output of other rules.
//
// Thread Safety: Implementations must be safe for concurrent Check calls.
type Rule interface {
	// ID returns the stable rule identifier (e.g., "class-prefix").
	ID() string

	// Description returns a one-line human-readable description.
	Description() string

	// DefaultSeverity returns the severity used when no policy overrides it.
	DefaultSeverity() Severity

	// Check runs the rule against an extracted file.
	Check(ctx context.Context, file *decl.File, settings Settings) []Diagnostic
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry manages the set of enabled rules.
//
// Thread Safety: Safe for concurrent use after initialization.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// DefaultRegistry creates a registry with all built-in rules.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, rule := range builtinRules() {
		r.Register(rule)
	}
	return r
}

// builtinRules returns one instance of every built-in rule.
func builtinRules() []Rule {
	return []Rule{
		// Naming
		&ClassPrefixRule{},
		&ClassCamelCaseRule{},
		&ProtocolNamingRule{},
		&CategoryNamingRule{},
		&MethodLowerCamelRule{},
		&MethodNoGetPrefixRule{},
		&VariableLowerCamelRule{},
		&IvarUnderscorePrefixRule{},
		&ConstantPrefixRule{},
		&EnumMemberPrefixRule{},
		// Formatting
		&IndentationRule{},
		&LineLengthRule{},
		&TrailingWhitespaceRule{},
		&FinalNewlineRule{},
		&BraceSameLineRule{},
	}
}

// Register adds or replaces a rule by its ID.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
}

// Get returns the rule with the given ID, or nil.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Get(id string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[id]
}

// Remove deletes a rule by ID. Removing an unknown ID is a no-op.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, id)
}

// All returns all registered rules sorted by ID.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		out = append(out, rule)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// IDs returns all registered rule IDs sorted alphabetically.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) IDs() []string {
	rules := r.All()
	ids := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID()
	}
	return ids
}

// CheckAll runs every registered rule against the file and returns the
// combined diagnostics sorted by file, line, column, and rule ID.
//
// Thread Safety: Safe for concurrent use.
func (r *Registry) CheckAll(ctx context.Context, file *decl.File, settings Settings) []Diagnostic {
	var diags []Diagnostic
	for _, rule := range r.All() {
		if ctx.Err() != nil {
			break
		}
		diags = append(diags, rule.Check(ctx, file, settings)...)
	}
	SortDiagnostics(diags)
	return diags
}

// SortDiagnostics orders diagnostics by file, line, column, then rule ID.
//
// The ordering is total, so repeated runs over the same input produce
// byte-identical reports.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.Rule < b.Rule
	})
}
