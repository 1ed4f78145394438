// Package ebnf builds onia parsers from EBNF grammars.
//
// The grammar syntax is as defined by "golang.org/x/exp/ebnf":
//
//	Production  = name "=" [ Expression ] "." .
//	Expression  = Alternative { "|" Alternative } .
//	Alternative = Term { Term } .
//	Term        = name | token [ "…" token ] | Group | Option | Repetition .
//	Group       = "(" Expression ")" .
//	Option      = "[" Expression "]" .
//	Repetition  = "{" Expression "}" .
//
// Each production becomes a Lazy parser labelled with the production's name, so productions
// may refer to each other in any order. Alternatives become Any, sequences Sequence, options
// Optional and repetitions Many. Tokens are matched literally and ranges ("a" … "z") match a
// single rune.
//
// Productions whose names start with a lower-case letter are lexical: their value is the
// matched text as a single string. All other productions produce nested []any values.
package ebnf

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/alecthomas/onia"
)

// A BuildOption modifies how a grammar is translated.
type BuildOption func(b *builder) error

// Skip drops the values of the named productions from enclosing sequences.
//
// This is typically used for whitespace and punctuation. A sequence left with a single value
// after skipping produces that value directly.
func Skip(productions ...string) BuildOption {
	return func(b *builder) error {
		for _, name := range productions {
			rule, ok := b.rules[name]
			if !ok {
				return fmt.Errorf("unknown production %q", name)
			}
			b.skip[rule] = true
		}
		return nil
	}
}

type builder struct {
	rules map[string]onia.Parser
	skip  map[onia.Parser]bool
}

// Build a parser for the production start of grammar.
func Build(grammar string, start string, options ...BuildOption) (onia.Parser, error) {
	g, err := ebnf.Parse("<grammar>", strings.NewReader(grammar))
	if err != nil {
		return nil, err
	}
	if err = ebnf.Verify(g, start); err != nil {
		return nil, err
	}
	b := &builder{
		rules: map[string]onia.Parser{},
		skip:  map[onia.Parser]bool{},
	}
	for _, name := range names(g) {
		production := g[name]
		b.rules[name] = onia.Lazy(func() onia.Parser { return b.production(production) }, onia.Expect(name))
	}
	for _, option := range options {
		if err = option(b); err != nil {
			return nil, err
		}
	}
	return b.rules[start], nil
}

// MustBuild is like Build but panics on error.
func MustBuild(grammar string, start string, options ...BuildOption) onia.Parser {
	p, err := Build(grammar, start, options...)
	if err != nil {
		panic(err)
	}
	return p
}

func names(g ebnf.Grammar) []string {
	out := make([]string, 0, len(g))
	for name := range g {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (b *builder) production(production *ebnf.Production) onia.Parser {
	body := b.expression(production.Expr)
	if isLexical(production.Name.String) {
		return onia.Map(body, text)
	}
	return body
}

func (b *builder) expression(expr ebnf.Expression) onia.Parser {
	switch n := expr.(type) {
	case ebnf.Alternative:
		parsers := make([]onia.Parser, len(n))
		for i, an := range n {
			parsers[i] = b.expression(an)
		}
		return onia.Any(parsers)

	case ebnf.Sequence:
		parsers := make([]onia.Parser, len(n))
		skipping := false
		for i, sn := range n {
			parsers[i] = b.expression(sn)
			skipping = skipping || b.skipped(parsers[i])
		}
		if !skipping {
			return onia.Sequence(parsers)
		}
		return onia.Map(onia.Sequence(parsers), b.prune)

	case *ebnf.Group:
		return b.expression(n.Body)

	case *ebnf.Option:
		return onia.Optional(b.expression(n.Body))

	case *ebnf.Repetition:
		return onia.Many(b.expression(n.Body))

	case *ebnf.Name:
		return b.rules[n.String]

	case *ebnf.Token:
		return onia.Alpha(n.String)

	case *ebnf.Range:
		label := fmt.Sprintf("%q…%q", n.Begin.String, n.End.String)
		return onia.Regex("["+classRune(n.Begin.String)+"-"+classRune(n.End.String)+"]", onia.Expect(label))

	case nil:
		return onia.Sequence(nil)
	}
	panic(fmt.Sprintf("unsupported EBNF expression %T", expr))
}

// Whether values produced by p should be dropped from sequences.
func (b *builder) skipped(p onia.Parser) bool {
	if b.skip[p] {
		return true
	}
	switch p.Kind() {
	case onia.KindOptional, onia.KindMany:
		return b.skipped(p.Export()[0])
	}
	return false
}

// Remove the values of skipped children from a sequence.
func (b *builder) prune(bound onia.Parser, value any) (any, error) {
	values, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence but got %T", value)
	}
	out := make([]any, 0, len(values))
	for i, child := range bound.Export() {
		if !b.skipped(child) {
			out = append(out, values[i])
		}
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// Concatenate all strings in a value produced by a lexical production.
func text(bound onia.Parser, value any) (any, error) {
	out := &strings.Builder{}
	var walk func(v any)
	walk = func(v any) {
		switch v := v.(type) {
		case string:
			out.WriteString(v)
		case []any:
			for _, e := range v {
				walk(e)
			}
		}
	}
	walk(value)
	return out.String(), nil
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

// Render a single rune for use inside a regexp character class.
func classRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return string(r)
	}
	return fmt.Sprintf(`\x{%x}`, r)
}
