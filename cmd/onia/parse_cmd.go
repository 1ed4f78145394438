package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/repr"
	"gopkg.in/yaml.v3"

	"github.com/alecthomas/onia"
)

type parseCmd struct {
	GrammarSource `embed:""`
	Input         []string `arg:"" optional:"" help:"Inputs to parse, each separately (read from stdin if omitted)."`
	Trace         bool     `help:"Trace the parse to stderr."`
	Strict        bool     `help:"Fail if input remains after parsing."`
	Format        string   `enum:"repr,json,yaml" default:"repr" help:"Output format (${enum})."`
}

func (c *parseCmd) Help() string {
	return `
Parses each input with the selected grammar and prints the produced value.

  onia parse arithmetic "1 + 2 * 3"
  onia parse --ebnf=calc.ebnf --skip=ws Expr "1 + 2"
`
}

func (c *parseCmd) Run(e *env) error {
	parser, err := c.load(e)
	if err != nil {
		return err
	}
	inputs := c.Input
	if len(inputs) == 0 {
		data, err := io.ReadAll(e.Stdin)
		if err != nil {
			return err
		}
		inputs = []string{strings.TrimRight(string(data), "\r\n")}
	}
	options := []onia.ParseOption{onia.AllowTrailing(!c.Strict)}
	if c.Trace {
		options = append(options, onia.Trace(e.Stderr))
	}
	for _, input := range inputs {
		value, err := onia.Run(input, parser, options...)
		if err != nil {
			return fmt.Errorf("%q: %w", input, err)
		}
		if err = c.write(e.Stdout, value); err != nil {
			return err
		}
	}
	return nil
}

func (c *parseCmd) write(w io.Writer, value any) error {
	switch c.Format {
	case "json":
		return json.NewEncoder(w).Encode(value)
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, repr.String(value, repr.Indent("  ")))
		return err
	}
}
