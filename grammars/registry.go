// Package grammars contains ready made onia grammars and a registry to look them up by name.
package grammars

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/alecthomas/onia"
)

// ErrUnknownGrammar is returned by Registry.Lookup for names that are not registered.
var ErrUnknownGrammar = errors.New("unknown grammar")

// A Grammar is a named parser.
type Grammar struct {
	Name        string
	Description string
	// Example input the grammar accepts.
	Example string
	Parser  onia.Parser
}

// Registry of grammars by name.
type Registry struct {
	grammars map[string]Grammar
}

// NewRegistry creates a Registry containing grammars.
//
// It panics if two grammars share a name.
func NewRegistry(grammars ...Grammar) *Registry {
	r := &Registry{grammars: map[string]Grammar{}}
	for _, g := range grammars {
		if err := r.Register(g); err != nil {
			panic(err)
		}
	}
	return r
}

// Default registry containing every grammar in this package.
var Default = NewRegistry(
	Grammar{
		Name:        "arithmetic",
		Description: "Evaluate + - * / over numbers left to right, with parentheses.",
		Example:     "(2 * (3 + 4)) - (5 / (2 + 3))",
		Parser:      Arithmetic(),
	},
	Grammar{
		Name:        "sum",
		Description: "A single addition or subtraction of two integers.",
		Example:     "123 + 321",
		Parser:      Sum(),
	},
	Grammar{
		Name:        "list",
		Description: "A parenthesised, comma separated list of items.",
		Example:     "(1, 2,  3)",
		Parser:      List(),
	},
	Grammar{
		Name:        "expr",
		Description: "Arithmetic syntax tree built from an EBNF grammar.",
		Example:     "1 + 2 * (3 - 4)",
		Parser:      Expr(),
	},
)

// Register a grammar.
func (r *Registry) Register(g Grammar) error {
	if g.Name == "" {
		return errors.New("grammar has no name")
	}
	if g.Parser == nil {
		return fmt.Errorf("grammar %q has no parser", g.Name)
	}
	if _, ok := r.grammars[g.Name]; ok {
		return fmt.Errorf("grammar %q is already registered", g.Name)
	}
	r.grammars[g.Name] = g
	return nil
}

// Lookup a grammar by name.
//
// If no grammar is registered under name the error wraps ErrUnknownGrammar and, where
// possible, suggests the closest registered name.
func (r *Registry) Lookup(name string) (Grammar, error) {
	if g, ok := r.grammars[name]; ok {
		return g, nil
	}
	if suggestion := closest(name, r.Names()); suggestion != "" {
		return Grammar{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownGrammar, name, suggestion)
	}
	return Grammar{}, fmt.Errorf("%w %q", ErrUnknownGrammar, name)
}

// Names of all registered grammars, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.grammars))
	for name := range r.grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All registered grammars, sorted by name.
func (r *Registry) All() []Grammar {
	out := make([]Grammar, 0, len(r.grammars))
	for _, name := range r.Names() {
		out = append(out, r.grammars[name])
	}
	return out
}

// Closest candidate to target, or "" if nothing is close.
//
// Candidates containing the characters of target in order are preferred, followed by the
// candidate with the smallest edit distance.
func closest(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, distance := "", len(target)/2+1
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(target, candidate); d < distance {
			best, distance = candidate, d
		}
	}
	return best
}
