package onia

import (
	"bytes"
	"fmt"
)

type stringerVisitor struct {
	bytes.Buffer
	active map[Parser]bool
}

// Describe renders the grammar rooted at p in an EBNF-like notation.
//
//	"lit"     literal
//	/re/      regular expression
//	a b       sequence
//	a | b     alternatives
//	[ a ]     optional
//	{ a }     repetition
//
// Map is transparent. A labelled Lazy parser below the root is rendered as a reference to its
// label, and recursion through an unlabelled Lazy, or one not yet resolvable, as "...".
func Describe(p Parser) string {
	s := &stringerVisitor{active: map[Parser]bool{}}
	s.visit(p, true)
	return s.String()
}

// Rules renders every labelled Lazy rule reachable from p as "label = body .", one per
// line, in the order they are first reached.
func Rules(p Parser) string {
	out := &bytes.Buffer{}
	_ = Visit(p, func(n Parser, next func() error) error {
		if n.Kind() == KindLazy && n.Expected() != "" {
			fmt.Fprintf(out, "%s = %s .\n", n.Expected(), Describe(n))
		}
		return next()
	})
	return out.String()
}

func (s *stringerVisitor) visit(p Parser, root bool) {
	if p == nil {
		fmt.Fprint(s, "<nil>")
		return
	}
	switch p.Kind() {
	case KindAlpha:
		fmt.Fprintf(s, "%q", p.String())

	case KindRegex:
		fmt.Fprintf(s, "/%s/", p.String())

	case KindSequence:
		for i, child := range p.Export() {
			if i > 0 {
				fmt.Fprint(s, " ")
			}
			s.group(child)
		}

	case KindAny:
		for i, child := range p.Export() {
			if i > 0 {
				fmt.Fprint(s, " | ")
			}
			s.group(child)
		}

	case KindOptional:
		fmt.Fprint(s, "[ ")
		s.visit(p.Export()[0], false)
		fmt.Fprint(s, " ]")

	case KindMany:
		fmt.Fprint(s, "{ ")
		s.visit(p.Export()[0], false)
		fmt.Fprint(s, " }")

	case KindMap:
		s.visit(p.Export()[0], false)

	case KindLazy:
		if label := p.Expected(); label != "" && !root {
			fmt.Fprint(s, label)
			return
		}
		child := p.Export()[0]
		if s.active[p] || child == nil {
			fmt.Fprint(s, "...")
			return
		}
		s.active[p] = true
		s.visit(child, root)
		delete(s.active, p)

	default:
		if label := p.Expected(); label != "" {
			fmt.Fprintf(s, "<%s>", label)
		} else {
			fmt.Fprint(s, "<func>")
		}
	}
}

// Visit a child of a sequence or alternation, bracketing it if it is itself a list.
func (s *stringerVisitor) group(p Parser) {
	inner := p
	for inner != nil && inner.Kind() == KindMap {
		inner = inner.Export()[0]
	}
	if inner != nil && (inner.Kind() == KindSequence || inner.Kind() == KindAny) && len(inner.Export()) > 1 {
		fmt.Fprint(s, "( ")
		s.visit(p, false)
		fmt.Fprint(s, " )")
		return
	}
	s.visit(p, false)
}
