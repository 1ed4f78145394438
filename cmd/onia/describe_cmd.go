package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/onia"
)

type grammarsCmd struct{}

func (c *grammarsCmd) Run(e *env) error {
	w := tabwriter.NewWriter(e.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range e.Registry.All() {
		fmt.Fprintf(w, "%s\t%s\t%q\n", g.Name, g.Description, g.Example)
	}
	return w.Flush()
}

type describeCmd struct {
	GrammarSource `embed:""`
}

func (c *describeCmd) Run(e *env) error {
	parser, err := c.load(e)
	if err != nil {
		return err
	}
	// Grammars without named rules are rendered inline.
	if rules := onia.Rules(parser); rules != "" {
		_, err = fmt.Fprint(e.Stdout, rules)
		return err
	}
	_, err = fmt.Fprintln(e.Stdout, onia.Describe(parser))
	return err
}
