package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/repr"

	"github.com/alecthomas/onia"
)

type railroadCmd struct {
	GrammarSource `embed:""`
}

func (c *railroadCmd) Help() string {
	return `
Generates an HTML page of railroad diagrams, one per named rule of the grammar. The page
expects railroad-diagrams.{css,js} from https://github.com/tabatkins/railroad-diagrams
alongside it.
`
}

func (c *railroadCmd) Run(e *env) error {
	parser, err := c.load(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(e.Stdout, railroad(c.Grammar, parser))
	return err
}

// A rule to draw a diagram for.
type rule struct {
	name   string
	parser onia.Parser
}

// Collect the root and every labelled Lazy reachable from it.
func rules(name string, root onia.Parser) []rule {
	if root.Kind() == onia.KindLazy && root.Expected() != "" {
		name = root.Expected()
	}
	out := []rule{{name, root}}
	_ = onia.Visit(root, func(p onia.Parser, next func() error) error {
		if p != root && p.Kind() == onia.KindLazy && p.Expected() != "" {
			out = append(out, rule{p.Expected(), p})
		}
		return next()
	})
	return out
}

func railroad(name string, root onia.Parser) string {
	s := &strings.Builder{}
	s.WriteString(`<!DOCTYPE html>
<style>
body {
	background-color: hsl(30,20%, 95%);
}
h1 {
	font-family: sans-serif;
	font-size: 1em;
}
</style>
<link rel='stylesheet' href='railroad-diagrams.css'>
<script src='railroad-diagrams.js'></script>
<body>
`)
	for _, r := range rules(name, root) {
		fmt.Fprintf(s, "<h1 id=%q>%s</h1>\n", r.name, r.name)
		s.WriteString("<script>\n")
		s.WriteString("Diagram(")
		g := &diagram{active: map[onia.Parser]bool{}}
		g.generate(r.parser, true)
		s.WriteString(g.String())
		s.WriteString(").addTo();\n")
		s.WriteString("</script>\n")
	}
	s.WriteString("</body>\n")
	return s.String()
}

type diagram struct {
	strings.Builder
	active map[onia.Parser]bool
}

// Write "open child, child, ...)", or Skip() if there are no children.
func (d *diagram) list(open string, children []onia.Parser) {
	if len(children) == 0 {
		d.WriteString("Skip()")
		return
	}
	d.WriteString(open)
	for i, child := range children {
		if i > 0 {
			d.WriteString(", ")
		}
		d.generate(child, false)
	}
	d.WriteString(")")
}

func (d *diagram) generate(p onia.Parser, root bool) {
	switch p.Kind() {
	case onia.KindAlpha:
		fmt.Fprintf(d, "Terminal(%q)", p.String())

	case onia.KindRegex:
		fmt.Fprintf(d, "Terminal(%q)", "/"+p.String()+"/")

	case onia.KindSequence:
		d.list("Sequence(", p.Export())

	case onia.KindAny:
		d.list("Choice(0, ", p.Export())

	case onia.KindOptional:
		d.list("Optional(", p.Export())

	case onia.KindMany:
		d.list("ZeroOrMore(", p.Export())

	case onia.KindMap:
		d.generate(p.Export()[0], root)

	case onia.KindLazy:
		if label := p.Expected(); label != "" && !root {
			fmt.Fprintf(d, "NonTerminal(%q, {href:\"#%s\"})", label, label)
			return
		}
		child := p.Export()[0]
		if d.active[p] || child == nil {
			d.WriteString(`NonTerminal("...")`)
			return
		}
		d.active[p] = true
		d.generate(child, root)
		delete(d.active, p)

	case onia.KindFunc:
		label := p.Expected()
		if label == "" {
			label = "func"
		}
		fmt.Fprintf(d, "NonTerminal(%q)", label)

	default:
		panic(repr.String(p))
	}
}
