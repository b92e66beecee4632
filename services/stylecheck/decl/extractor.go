// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package decl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AleutianAI/objstyle/services/stylecheck/token"
)

// File size constants for input validation.
const (
	// DefaultMaxFileSize is the maximum file size the extractor accepts (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// ErrFileTooLarge is returned when input content exceeds the maximum file size.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// File bundles the raw source, its token stream, and the extracted
// declarations for a single input file.
//
// Thread Safety: Treat as immutable after extraction.
type File struct {
	// Path is the file path, relative to the lint root when possible.
	Path string `json:"path"`

	// Content is the raw source bytes.
	Content []byte `json:"-"`

	// Lines holds the source split into lines without terminators.
	Lines []string `json:"-"`

	// Tokens is the flat token stream.
	Tokens []token.Token `json:"-"`

	// Decls are the extracted declarations in source order.
	Decls []Decl `json:"decls"`

	// Notes records declaration sites the extractor could not fully
	// understand. Extraction continues past them.
	Notes []string `json:"notes,omitempty"`
}

// ExtractorOption configures an Extractor instance.
type ExtractorOption func(*Extractor)

// WithMaxFileSize sets the maximum file size the extractor will accept.
func WithMaxFileSize(bytes int64) ExtractorOption {
	return func(e *Extractor) {
		if bytes > 0 {
			e.maxFileSize = bytes
		}
	}
}

// Extractor identifies declarations in an Objective-C token stream.
//
// Description:
//
//	The extractor walks the flat token stream produced by the token
//	package and records every declaration site a style rule might care
//	about. It does not build an AST and does not resolve types; it only
//	needs names and locations.
//
// Thread Safety: Safe for concurrent use. Each Extract call keeps its
// state on the stack.
type Extractor struct {
	maxFileSize int64
	lexer       *token.Lexer
}

// NewExtractor creates an extractor with the given options.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		maxFileSize: DefaultMaxFileSize,
		lexer:       token.NewLexer(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract lexes content and extracts all declarations.
//
// Description:
//
//	Runs the lexer and then a single forward pass over the token stream.
//	Malformed sites are recorded in File.Notes and skipped; Extract only
//	fails outright for oversized input or a canceled context.
//
// Inputs:
//
//	ctx - Context for cancellation. Checked periodically during the walk.
//	content - Raw source bytes.
//	filePath - Path of the file, used for locations in diagnostics.
//
// Outputs:
//
//	*File - The extraction result. Never nil on success.
//	error - Non-nil if the input was rejected or the context ended.
//
// Thread Safety: Safe for concurrent use.
func (e *Extractor) Extract(ctx context.Context, content []byte, filePath string) (*File, error) {
	ctx, span := startExtractSpan(ctx, filePath, len(content))
	defer span.End()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		recordExtractMetrics(ctx, time.Since(start), 0, false)
		return nil, fmt.Errorf("extract canceled before start: %w", err)
	}
	if int64(len(content)) > e.maxFileSize {
		recordExtractMetrics(ctx, time.Since(start), 0, false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), e.maxFileSize)
	}

	f := &File{
		Path:    filePath,
		Content: content,
		Lines:   token.Lines(content),
		Tokens:  e.lexer.Lex(content),
		Decls:   make([]Decl, 0, 32),
	}

	p := &parser{toks: f.Tokens, file: f, ctx: ctx}
	if err := p.run(); err != nil {
		recordExtractMetrics(ctx, time.Since(start), len(f.Decls), false)
		return nil, err
	}

	setExtractSpanResult(span, len(f.Decls), len(f.Notes))
	recordExtractMetrics(ctx, time.Since(start), len(f.Decls), true)
	return f, nil
}

// =============================================================================
// TOKEN WALK
// =============================================================================

// ctxCheckInterval is how many tokens to process between context checks.
const ctxCheckInterval = 4096

type parser struct {
	toks []token.Token
	i    int
	file *File
	ctx  context.Context

	// container is the class or protocol whose body we are inside.
	container     string
	containerKind Kind
}

func (p *parser) run() error {
	for p.i < len(p.toks) {
		if p.i%ctxCheckInterval == 0 {
			if err := p.ctx.Err(); err != nil {
				return fmt.Errorf("extract canceled: %w", err)
			}
		}

		t := p.toks[p.i]
		switch {
		case t.Kind == token.KindPreproc:
			p.handlePreproc(t)
			p.i++

		case t.IsDirective("@interface"):
			p.handleInterface()

		case t.IsDirective("@implementation"):
			p.handleImplementation()

		case t.IsDirective("@protocol"):
			p.handleProtocol()

		case t.IsDirective("@property") && p.container != "":
			p.handleProperty()

		case t.IsDirective("@synthesize") || t.IsDirective("@dynamic") || t.IsDirective("@class"):
			p.i++
			p.skipToSemicolon()

		case t.IsDirective("@end"):
			p.container = ""
			p.containerKind = KindUnknown
			p.i++

		case (t.IsPunct("-") || t.IsPunct("+")) && p.container != "":
			p.handleMethod(t.IsPunct("+"))

		case t.IsIdent("typedef"):
			p.handleTypedef(t)

		case t.IsIdent("enum") && p.container == "":
			p.handleEnum(t, "")

		case (t.IsIdent("static") || t.IsIdent("extern") || t.IsIdent("const")) && p.container == "":
			p.handleFileScopeDecl(t)

		case t.IsPunct("{"):
			// A body we are not interested in (plain C function, block).
			// Attribute it to a function when the shape matches.
			p.noteFunctionBeforeBrace()
			p.skipBalanced("{", "}")

		default:
			p.i++
		}
	}
	return nil
}

// handlePreproc records #define constants.
func (p *parser) handlePreproc(t token.Token) {
	text := t.Text
	rest, ok := strings.CutPrefix(strings.TrimLeft(text, " \t#"), "define")
	if !ok {
		return
	}
	rest = strings.TrimLeft(rest, " \t")
	end := 0
	for end < len(rest) && (rest[end] == '_' ||
		(rest[end] >= 'a' && rest[end] <= 'z') ||
		(rest[end] >= 'A' && rest[end] <= 'Z') ||
		(end > 0 && rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	if end == 0 {
		p.note(t, "#define without a name")
		return
	}
	p.add(Decl{
		Name:     rest[:end],
		Kind:     KindConstant,
		FilePath: p.file.Path,
		Line:     t.Line,
		Col:      t.Col,
		IsMacro:  true,
	})
}

// handleInterface parses "@interface Name ..." headers.
func (p *parser) handleInterface() {
	at := p.toks[p.i]
	p.i++ // consume @interface

	name, ok := p.ident()
	if !ok {
		p.note(at, "@interface without a class name")
		return
	}

	d := Decl{
		Name:     name.Text,
		Kind:     KindClass,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	}

	if p.isPunct("(") {
		p.i++
		if cat, ok := p.ident(); ok {
			d.Kind = KindCategory
			d.CategoryName = cat.Text
		} else {
			d.Kind = KindExtension
		}
		d.Receiver = name.Text
		p.skipToPunct(")")
	} else if p.isPunct(":") {
		p.i++
		if super, ok := p.ident(); ok {
			d.Superclass = super.Text
		}
	}

	d.Protocols = p.protocolList()
	p.add(d)

	p.container = name.Text
	p.containerKind = KindClass

	if p.isPunct("{") {
		p.handleIvarBlock(name.Text)
	}
}

// handleImplementation parses "@implementation Name" headers.
func (p *parser) handleImplementation() {
	at := p.toks[p.i]
	p.i++

	name, ok := p.ident()
	if !ok {
		p.note(at, "@implementation without a class name")
		return
	}

	d := Decl{
		Name:     name.Text,
		Kind:     KindClass,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	}
	if p.isPunct("(") {
		p.i++
		if cat, ok := p.ident(); ok {
			d.Kind = KindCategory
			d.CategoryName = cat.Text
			d.Receiver = name.Text
		}
		p.skipToPunct(")")
	}
	p.add(d)

	p.container = name.Text
	p.containerKind = KindClass
}

// handleProtocol parses "@protocol Name ..." and skips forward declarations.
func (p *parser) handleProtocol() {
	at := p.toks[p.i]
	p.i++

	name, ok := p.ident()
	if !ok {
		p.note(at, "@protocol without a name")
		return
	}

	// "@protocol Foo, Bar;" is a forward declaration, not a definition.
	if p.isPunct(";") || p.isPunct(",") {
		p.skipToSemicolon()
		return
	}

	d := Decl{
		Name:     name.Text,
		Kind:     KindProtocol,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	}
	d.Protocols = p.protocolList()
	p.add(d)

	p.container = name.Text
	p.containerKind = KindProtocol
}

// handleIvarBlock parses the "{ ... }" instance variable block.
func (p *parser) handleIvarBlock(class string) {
	p.i++ // consume {
	depth := 1
	stmt := make([]token.Token, 0, 8)

	for p.i < len(p.toks) && depth > 0 {
		t := p.toks[p.i]
		switch {
		case t.IsPunct("{"):
			depth++
		case t.IsPunct("}"):
			depth--
		case t.IsPunct(";") && depth == 1:
			if name, ok := lastDeclName(stmt); ok {
				p.add(Decl{
					Name:     name.Text,
					Kind:     KindIvar,
					FilePath: p.file.Path,
					Line:     name.Line,
					Col:      name.Col,
					Receiver: class,
				})
			}
			stmt = stmt[:0]
		default:
			if depth == 1 {
				stmt = append(stmt, t)
			}
		}
		p.i++
	}
}

// handleProperty parses "@property (attrs) Type name;".
func (p *parser) handleProperty() {
	p.i++ // consume @property

	if p.isPunct("(") {
		p.skipBalanced("(", ")")
	}

	stmt := make([]token.Token, 0, 8)
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.IsPunct(";") {
			p.i++
			break
		}
		if t.Kind == token.KindDirective || t.IsPunct("{") {
			break
		}
		stmt = append(stmt, t)
		p.i++
	}

	name, ok := propertyName(stmt)
	if !ok {
		if len(stmt) > 0 {
			p.note(stmt[0], "@property without a name")
		}
		return
	}
	p.add(Decl{
		Name:     name.Text,
		Kind:     KindProperty,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
		Receiver: p.container,
	})
}

// handleMethod parses "- (Type)segment:(Type)arg ..." declarations.
func (p *parser) handleMethod(classMethod bool) {
	sign := p.toks[p.i]
	p.i++

	if p.isPunct("(") {
		p.skipBalanced("(", ")") // return type
	}

	var segments []string
	var first *token.Token
	sawColon := false

	for p.i < len(p.toks) {
		seg, ok := p.ident()
		if !ok {
			break
		}
		if first == nil {
			t := seg
			first = &t
		}
		segments = append(segments, seg.Text)

		if !p.isPunct(":") {
			break
		}
		sawColon = true
		p.i++
		if p.isPunct("(") {
			p.skipBalanced("(", ")") // parameter type
		}
		p.ident() // parameter name, optional
	}

	if len(segments) == 0 {
		p.note(sign, "method declaration without a selector")
		p.skipToSemicolonOrBody()
		return
	}

	name := segments[0]
	if sawColon {
		name = strings.Join(segments, ":") + ":"
	}
	p.add(Decl{
		Name:          name,
		Kind:          KindMethod,
		FilePath:      p.file.Path,
		Line:          first.Line,
		Col:           first.Col,
		Receiver:      p.container,
		Selector:      segments,
		IsClassMethod: classMethod,
	})

	p.skipToSemicolonOrBody()
}

// handleTypedef parses typedef declarations, including NS_ENUM/NS_OPTIONS.
func (p *parser) handleTypedef(t token.Token) {
	p.i++ // consume typedef

	if p.i < len(p.toks) && (p.toks[p.i].IsIdent("NS_ENUM") || p.toks[p.i].IsIdent("NS_OPTIONS")) {
		p.handleMacroEnum()
		return
	}
	if p.i < len(p.toks) && p.toks[p.i].IsIdent("enum") {
		p.handleEnum(p.toks[p.i], "typedef")
		return
	}

	stmt := make([]token.Token, 0, 8)
	for p.i < len(p.toks) {
		tk := p.toks[p.i]
		if tk.IsPunct(";") {
			p.i++
			break
		}
		if tk.IsPunct("{") {
			// typedef struct { ... } Name;
			p.skipBalanced("{", "}")
			continue
		}
		stmt = append(stmt, tk)
		p.i++
	}

	name, ok := typedefName(stmt)
	if !ok {
		p.note(t, "typedef without a name")
		return
	}
	p.add(Decl{
		Name:     name.Text,
		Kind:     KindTypedef,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	})
}

// handleMacroEnum parses "NS_ENUM(NSInteger, Name) { ... }".
func (p *parser) handleMacroEnum() {
	macro := p.toks[p.i]
	p.i++ // consume NS_ENUM / NS_OPTIONS

	if !p.isPunct("(") {
		p.note(macro, macro.Text+" without an argument list")
		return
	}
	p.i++
	p.ident() // underlying type
	if p.isPunct(",") {
		p.i++
	}
	name, ok := p.ident()
	p.skipToPunct(")")
	if !ok {
		p.note(macro, macro.Text+" without a type name")
		return
	}

	p.add(Decl{
		Name:     name.Text,
		Kind:     KindEnum,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	})
	if p.isPunct("{") {
		p.enumMembers(name.Text)
	}
	p.skipToSemicolon()
}

// handleEnum parses "enum [Tag] { ... } [Name];".
func (p *parser) handleEnum(at token.Token, origin string) {
	p.i++ // consume enum

	tag, hasTag := p.ident()

	if !p.isPunct("{") {
		// "enum Foo variable;" is a use, not a definition.
		p.skipToSemicolon()
		return
	}

	enumName := ""
	if hasTag {
		enumName = tag.Text
	}

	p.enumMembers(enumName)

	// A trailing identifier names the typedef'd enum.
	if name, ok := p.ident(); ok {
		d := Decl{
			Name:     name.Text,
			Kind:     KindEnum,
			FilePath: p.file.Path,
			Line:     name.Line,
			Col:      name.Col,
		}
		p.add(d)
	} else if hasTag {
		p.add(Decl{
			Name:     tag.Text,
			Kind:     KindEnum,
			FilePath: p.file.Path,
			Line:     tag.Line,
			Col:      tag.Col,
		})
	} else if origin == "typedef" {
		p.note(at, "anonymous typedef enum")
	}
	p.skipToSemicolon()
}

// enumMembers parses "{ A, B = 1, C }" and records each member.
func (p *parser) enumMembers(enumType string) {
	if !p.isPunct("{") {
		return
	}
	p.i++
	expectName := true
	depth := 1

	for p.i < len(p.toks) && depth > 0 {
		t := p.toks[p.i]
		switch {
		case t.IsPunct("{") || t.IsPunct("("):
			depth++
		case t.IsPunct(")"):
			depth--
		case t.IsPunct("}"):
			depth--
		case t.IsPunct(","):
			if depth == 1 {
				expectName = true
			}
		case t.IsPunct("="):
			expectName = false
		case t.Kind == token.KindIdent && depth == 1 && expectName:
			p.add(Decl{
				Name:     t.Text,
				Kind:     KindEnumMember,
				FilePath: p.file.Path,
				Line:     t.Line,
				Col:      t.Col,
				EnumType: enumType,
			})
			expectName = false
		}
		p.i++
	}
}

// handleFileScopeDecl parses static/extern/const declarations at file scope.
func (p *parser) handleFileScopeDecl(t token.Token) {
	stmt := make([]token.Token, 0, 12)
	isFunc := false

	for p.i < len(p.toks) {
		tk := p.toks[p.i]
		if tk.IsPunct(";") {
			p.i++
			break
		}
		if tk.IsPunct("=") {
			// Initializer; the name is complete.
			p.skipToSemicolon()
			break
		}
		if tk.IsPunct("{") {
			isFunc = true
			p.skipBalanced("{", "}")
			break
		}
		if tk.IsPunct("(") {
			// A parameter list after the name marks a function.
			if len(stmt) > 0 && stmt[len(stmt)-1].Kind == token.KindIdent {
				isFunc = true
			}
			p.skipBalanced("(", ")")
			continue
		}
		if tk.Kind == token.KindDirective {
			break
		}
		stmt = append(stmt, tk)
		p.i++
	}

	name, ok := lastDeclName(stmt)
	if !ok {
		p.note(t, "unparsed file-scope declaration")
		return
	}

	d := Decl{
		Name:     name.Text,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	}
	for _, tk := range stmt {
		switch {
		case tk.IsIdent("static"):
			d.IsStatic = true
		case tk.IsIdent("extern"):
			d.IsExtern = true
		}
	}

	switch {
	case isFunc:
		d.Kind = KindFunction
	case containsIdent(stmt, "const"):
		d.Kind = KindConstant
	default:
		d.Kind = KindVariable
	}
	p.add(d)
}

// noteFunctionBeforeBrace records a plain C function definition whose body
// starts at the current "{" token.
func (p *parser) noteFunctionBeforeBrace() {
	// Shape: ... ident ( ... ) {
	j := p.i - 1
	if j < 0 || !p.toks[j].IsPunct(")") {
		return
	}
	depth := 1
	j--
	for j >= 0 && depth > 0 {
		switch {
		case p.toks[j].IsPunct(")"):
			depth++
		case p.toks[j].IsPunct("("):
			depth--
		}
		j--
	}
	if j < 0 || p.toks[j].Kind != token.KindIdent {
		return
	}
	name := p.toks[j]
	if isDeclQualifier(name.Text) {
		return
	}
	p.add(Decl{
		Name:     name.Text,
		Kind:     KindFunction,
		FilePath: p.file.Path,
		Line:     name.Line,
		Col:      name.Col,
	})
}

// =============================================================================
// PARSER PRIMITIVES
// =============================================================================

func (p *parser) isPunct(ch string) bool {
	return p.i < len(p.toks) && p.toks[p.i].IsPunct(ch)
}

// ident consumes and returns the next token when it is an identifier.
func (p *parser) ident() (token.Token, bool) {
	if p.i < len(p.toks) && p.toks[p.i].Kind == token.KindIdent {
		t := p.toks[p.i]
		p.i++
		return t, true
	}
	return token.Token{}, false
}

// protocolList parses "<A, B>" and returns the protocol names.
func (p *parser) protocolList() []string {
	if !p.isPunct("<") {
		return nil
	}
	p.i++
	var names []string
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.IsPunct(">") {
			p.i++
			break
		}
		if t.Kind == token.KindIdent {
			names = append(names, t.Text)
		}
		p.i++
	}
	return names
}

// skipBalanced consumes from the current open token through its match.
func (p *parser) skipBalanced(open, close string) {
	if !p.isPunct(open) {
		return
	}
	depth := 0
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.IsPunct(open) {
			depth++
		} else if t.IsPunct(close) {
			depth--
			if depth == 0 {
				p.i++
				return
			}
		}
		p.i++
	}
}

func (p *parser) skipToPunct(ch string) {
	for p.i < len(p.toks) {
		if p.toks[p.i].IsPunct(ch) {
			p.i++
			return
		}
		p.i++
	}
}

func (p *parser) skipToSemicolon() {
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.IsPunct(";") {
			p.i++
			return
		}
		if t.Kind == token.KindDirective || t.IsPunct("{") {
			return
		}
		p.i++
	}
}

// skipToSemicolonOrBody ends a method declaration: either at ";" or by
// consuming the "{ ... }" definition body.
func (p *parser) skipToSemicolonOrBody() {
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		if t.IsPunct(";") {
			p.i++
			return
		}
		if t.IsPunct("{") {
			p.skipBalanced("{", "}")
			return
		}
		if t.Kind == token.KindDirective {
			return
		}
		p.i++
	}
}

func (p *parser) add(d Decl) {
	p.file.Decls = append(p.file.Decls, d)
}

func (p *parser) note(t token.Token, msg string) {
	p.file.Notes = append(p.file.Notes, fmt.Sprintf("%s:%d:%d: %s", p.file.Path, t.Line, t.Col, msg))
}

// =============================================================================
// NAME RESOLUTION HELPERS
// =============================================================================

// lastDeclName finds the declared identifier in a C-style declaration
// statement: the last identifier, skipping array brackets and bitfields.
func lastDeclName(stmt []token.Token) (token.Token, bool) {
	for j := len(stmt) - 1; j >= 0; j-- {
		t := stmt[j]
		if t.Kind == token.KindIdent && !isDeclQualifier(t.Text) {
			return t, true
		}
		if t.IsPunct("]") {
			// Skip the array size expression.
			depth := 1
			j--
			for j >= 0 && depth > 0 {
				if stmt[j].IsPunct("]") {
					depth++
				} else if stmt[j].IsPunct("[") {
					depth--
				}
				j--
			}
			j++
		}
	}
	return token.Token{}, false
}

// propertyName finds the declared name in a property statement, handling
// block properties like "void (^completion)(void)".
func propertyName(stmt []token.Token) (token.Token, bool) {
	for j := 0; j < len(stmt)-1; j++ {
		if stmt[j].IsPunct("^") && stmt[j+1].Kind == token.KindIdent {
			return stmt[j+1], true
		}
	}
	return lastDeclName(stmt)
}

// typedefName finds the new type name in a typedef statement, handling
// function pointers like "void (*Callback)(int)".
func typedefName(stmt []token.Token) (token.Token, bool) {
	for j := 0; j < len(stmt)-1; j++ {
		if (stmt[j].IsPunct("*") || stmt[j].IsPunct("^")) &&
			stmt[j+1].Kind == token.KindIdent &&
			j > 0 && stmt[j-1].IsPunct("(") {
			return stmt[j+1], true
		}
	}
	return lastDeclName(stmt)
}

func containsIdent(stmt []token.Token, name string) bool {
	for _, t := range stmt {
		if t.IsIdent(name) {
			return true
		}
	}
	return false
}

// isDeclQualifier reports whether an identifier is a qualifier rather
// than a plausible declared name.
func isDeclQualifier(s string) bool {
	switch s {
	case "const", "static", "extern", "volatile", "restrict", "inline",
		"signed", "unsigned", "struct", "union", "void":
		return true
	}
	return false
}
