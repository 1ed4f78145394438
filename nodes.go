package onia

import (
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"
)

// A Parser consumes input from a Context and produces a Result.
//
// Parsers are immutable once constructed and may be shared between any number of
// grammars. Besides Parse, every Parser carries metadata used for diagnostics and by
// tools that need to recover the structure of a grammar.
type Parser interface {
	// Parse input at ctx.
	Parse(ctx Context) Result
	// Kind of combinator that constructed the parser.
	Kind() Kind
	// Name of the parser kind, eg. "[Parser sequence]".
	Name() string
	// Expected is the caller supplied label, if any.
	Expected() string
	// Export returns the immediate children of the parser.
	//
	// Primitives and Func parsers have no children. Map, Optional, Many and Lazy have
	// exactly one. Sequence and Any return all of their alternatives, in order. A Lazy
	// whose factory has not yet produced a parser exports a nil child.
	Export() []Parser
	// String returns the literal or pattern source for primitives, and a grammar
	// rendering for everything else.
	String() string
}

// Kind identifies the combinator that constructed a Parser.
type Kind int

// Parser kinds.
const (
	KindAlpha Kind = iota
	KindRegex
	KindSequence
	KindAny
	KindOptional
	KindMany
	KindMap
	KindLazy
	KindFunc
)

var kindNames = [...]string{
	KindAlpha:    "alpha",
	KindRegex:    "regex",
	KindSequence: "sequence",
	KindAny:      "any",
	KindOptional: "optional",
	KindMany:     "many",
	KindMap:      "map",
	KindLazy:     "lazy",
	KindFunc:     "func",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Metadata shared by all parsers.
type meta struct {
	kind     Kind
	expected string
	carry    bool
}

func newMeta(kind Kind, options []Option) meta {
	m := meta{kind: kind, carry: true}
	for _, option := range options {
		option(&m)
	}
	return m
}

func (m *meta) Kind() Kind       { return m.kind }
func (m *meta) Name() string     { return "[Parser " + m.kind.String() + "]" }
func (m *meta) Expected() string { return m.expected }

// Failure formatted with this parser's name.
func (m *meta) fail(ctx Context, expected ...string) Result {
	return failure(m.Name(), ctx, expected...)
}

// "..."
type alpha struct {
	meta
	literal string
}

// Alpha matches literal exactly at the current index.
//
// The failure label defaults to the literal itself.
func Alpha(literal string, options ...Option) Parser {
	return &alpha{meta: newMeta(KindAlpha, options), literal: literal}
}

func (a *alpha) Parse(ctx Context) Result {
	end := ctx.Index + len(a.literal)
	if ctx.Index >= 0 && end <= len(ctx.Text) && ctx.Text[ctx.Index:end] == a.literal {
		return Success(ctx.At(end), a.literal)
	}
	label := a.expected
	if label == "" {
		label = a.literal
	}
	return a.fail(ctx, label)
}

func (a *alpha) Export() []Parser { return nil }
func (a *alpha) String() string   { return a.literal }

// /.../
type regex struct {
	meta
	source string
	re     *regexp.Regexp
}

// Regex matches a regular expression anchored at the current index.
//
// A match that starts later in the input does not count. The pattern only sees the input from
// the current index onwards, so zero-width assertions treat the index as the start of the
// text: `^` and `\A` match at every index, and `\b` matches before a word character even when
// the preceding byte is one too. Regex panics if pattern does not compile, see CompileRegex
// for the non-panicking form.
func Regex(pattern string, options ...Option) Parser {
	p, err := CompileRegex(pattern, options...)
	if err != nil {
		panic(err)
	}
	return p
}

// CompileRegex is like Regex but returns an error if pattern is invalid.
func CompileRegex(pattern string, options ...Option) (Parser, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return &regex{meta: newMeta(KindRegex, options), source: pattern, re: re}, nil
}

func (r *regex) Parse(ctx Context) Result {
	if ctx.Index >= 0 && ctx.Index <= len(ctx.Text) {
		if loc := r.re.FindStringIndex(ctx.Text[ctx.Index:]); loc != nil {
			end := ctx.Index + loc[1]
			return Success(ctx.At(end), ctx.Text[ctx.Index:end])
		}
	}
	label := r.expected
	if label == "" {
		label = r.source
	}
	return r.fail(ctx, label)
}

func (r *regex) Export() []Parser { return nil }
func (r *regex) String() string   { return r.source }

// <parser> <parser> ...
type sequence struct {
	meta
	parsers []Parser
}

// Sequence applies parsers one after the other, each at the context left by the previous.
//
// The value is a []any holding every child's value in order. The first child failure fails
// the whole sequence at the failing context. An empty sequence always succeeds.
func Sequence(parsers []Parser, options ...Option) Parser {
	return &sequence{meta: newMeta(KindSequence, options), parsers: append([]Parser(nil), parsers...)}
}

func (s *sequence) Parse(ctx Context) Result {
	values := make([]any, 0, len(s.parsers))
	next := ctx
	for _, p := range s.parsers {
		res := parse(p, next)
		if !res.OK() {
			return s.fail(res.Context, s.expected, res.Expected)
		}
		values = append(values, res.Value)
		next = res.Context
	}
	return Success(next, values)
}

func (s *sequence) Export() []Parser { return append([]Parser(nil), s.parsers...) }
func (s *sequence) String() string   { return Describe(s) }

// <parser> | <parser> ...
type disjunction struct {
	meta
	parsers []Parser
}

// Any tries each parser at the same context and returns the first success.
//
// If every alternative fails, the failure that progressed furthest is reported; on ties
// the earliest alternative wins. An empty Any always fails.
func Any(parsers []Parser, options ...Option) Parser {
	return &disjunction{meta: newMeta(KindAny, options), parsers: append([]Parser(nil), parsers...)}
}

func (d *disjunction) Parse(ctx Context) Result {
	var (
		furthest Result
		failed   bool
	)
	for _, p := range d.parsers {
		res := parse(p, ctx)
		if res.OK() {
			return res
		}
		if !failed || res.Context.Index > furthest.Context.Index {
			furthest = res
			failed = true
		}
	}
	if !failed {
		return d.fail(ctx, d.expected)
	}
	return d.fail(furthest.Context, d.expected, furthest.Expected)
}

func (d *disjunction) Export() []Parser { return append([]Parser(nil), d.parsers...) }
func (d *disjunction) String() string   { return Describe(d) }

// [ <parser> ]
type optional struct {
	meta
	parser Parser
}

// Optional applies parser if it matches, otherwise succeeds with nil without consuming.
//
// See Carry for dropping the value of a matched parser. Optional never fails.
func Optional(parser Parser, options ...Option) Parser {
	return &optional{meta: newMeta(KindOptional, options), parser: parser}
}

func (o *optional) Parse(ctx Context) Result {
	res := parse(o.parser, ctx)
	if !res.OK() {
		return Success(ctx, nil)
	}
	if !o.carry {
		return Success(res.Context, nil)
	}
	return Success(res.Context, res.Value)
}

func (o *optional) Export() []Parser { return []Parser{o.parser} }
func (o *optional) String() string   { return Describe(o) }

// { <parser> }
type repetition struct {
	meta
	parser Parser
}

// Many applies parser repeatedly until it fails, collecting the values into a []any.
//
// The result is positioned where the last successful match ended. A match that consumes no
// input also ends the repetition and its value is discarded, as repeating it could never
// progress. Many never fails.
func Many(parser Parser, options ...Option) Parser {
	return &repetition{meta: newMeta(KindMany, options), parser: parser}
}

func (r *repetition) Parse(ctx Context) Result {
	values := []any{}
	next := ctx
	for {
		res := parse(r.parser, next)
		if !res.OK() || res.Context.Index <= next.Index {
			break
		}
		values = append(values, res.Value)
		next = res.Context
	}
	return Success(next, values)
}

func (r *repetition) Export() []Parser { return []Parser{r.parser} }
func (r *repetition) String() string   { return Describe(r) }

// A Transform reshapes the value produced by a parser.
//
// bound is the parser whose value is being transformed, so a Transform may use
// bound.Export() to recover the structure that produced value. Returning an error fails the
// enclosing Map.
type Transform func(bound Parser, value any) (any, error)

type mapper struct {
	meta
	parser    Parser
	transform Transform
}

// Map applies transform to the value of parser.
//
// A nil transform passes values through unchanged.
func Map(parser Parser, transform Transform, options ...Option) Parser {
	return &mapper{meta: newMeta(KindMap, options), parser: parser, transform: transform}
}

func (m *mapper) Parse(ctx Context) Result {
	res := parse(m.parser, ctx)
	if !res.OK() {
		return m.fail(res.Context, m.expected, res.Expected)
	}
	if m.transform == nil {
		return res
	}
	value, err := m.transform(m.parser, res.Value)
	if err != nil {
		return m.fail(res.Context, m.expected, err.Error())
	}
	return Success(res.Context, value)
}

func (m *mapper) Export() []Parser { return []Parser{m.parser} }
func (m *mapper) String() string   { return Describe(m) }

type lazy struct {
	meta
	factory func() Parser
	lock    sync.Mutex
	parser  atomic.Pointer[Parser]
}

// Lazy defers construction of a parser until it is first used.
//
// factory is called on the first call to Parse or Export, and the first non-nil parser it
// returns is reused from then on. A nil result is not kept, so rendering or exporting a rule
// before the variable it refers to is assigned is harmless. This allows rules to refer to
// themselves, or to rules declared later:
//
//	var expr onia.Parser
//	group := onia.Sequence([]onia.Parser{open, onia.Lazy(func() onia.Parser { return expr }), close})
//	expr = onia.Any([]onia.Parser{number, group})
func Lazy(factory func() Parser, options ...Option) Parser {
	return &lazy{meta: newMeta(KindLazy, options), factory: factory}
}

// Resolved parser, or nil if the factory has not produced one yet.
func (l *lazy) resolve() Parser {
	if p := l.parser.Load(); p != nil {
		return *p
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if p := l.parser.Load(); p != nil {
		return *p
	}
	p := l.factory()
	if p != nil {
		l.parser.Store(&p)
	}
	return p
}

func (l *lazy) Parse(ctx Context) Result {
	p := l.resolve()
	if p == nil {
		panic(fmt.Sprintf("%s factory returned nil", l.Name()))
	}
	res := parse(p, ctx)
	if !res.OK() && l.expected != "" {
		return l.fail(res.Context, l.expected, res.Expected)
	}
	return res
}

func (l *lazy) Export() []Parser { return []Parser{l.resolve()} }
func (l *lazy) String() string   { return Describe(l) }

type function struct {
	meta
	fn func(ctx Context) Result
}

// Func wraps a hand-written parsing function as a Parser.
//
// fn must uphold the progress invariant: a successful Result may not be positioned before
// ctx.
func Func(fn func(ctx Context) Result, options ...Option) Parser {
	return &function{meta: newMeta(KindFunc, options), fn: fn}
}

func (f *function) Parse(ctx Context) Result { return f.fn(ctx) }
func (f *function) Export() []Parser         { return nil }
func (f *function) String() string           { return Describe(f) }
