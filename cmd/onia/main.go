// Package main is a command-line tool for running and inspecting onia grammars.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/alecthomas/onia"
	"github.com/alecthomas/onia/ebnf"
	"github.com/alecthomas/onia/grammars"
)

var version string = "dev"

// CLI is the command-line grammar.
type CLI struct {
	Version  kong.VersionFlag
	Parse    parseCmd    `cmd:"" help:"Parse input with a grammar."`
	Grammars grammarsCmd `cmd:"" help:"List the built-in grammars."`
	Describe describeCmd `cmd:"" help:"Print the rules of a grammar."`
	Railroad railroadCmd `cmd:"" help:"Generate an HTML railroad diagram of a grammar."`
}

// Shared state bound into every command.
type env struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Registry *grammars.Registry
}

// GrammarSource selects the grammar a command operates on.
type GrammarSource struct {
	Grammar string   `arg:"" help:"Name of a built-in grammar, or of the start production with --ebnf."`
	EBNF    string   `type:"existingfile" placeholder:"FILE" help:"Build the grammar from an EBNF file."`
	Skip    []string `placeholder:"PRODUCTION" help:"Productions of the EBNF grammar whose values are dropped."`
}

func (g *GrammarSource) load(e *env) (onia.Parser, error) {
	if g.EBNF == "" {
		grammar, err := e.Registry.Lookup(g.Grammar)
		if err != nil {
			return nil, err
		}
		return grammar.Parser, nil
	}
	source, err := os.ReadFile(g.EBNF)
	if err != nil {
		return nil, err
	}
	parser, err := ebnf.Build(string(source), g.Grammar, ebnf.Skip(g.Skip...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.EBNF, err)
	}
	return parser, nil
}

func main() {
	kctx := kong.Parse(&CLI{},
		kong.Description(`A command-line tool for onia grammars.`),
		kong.Vars{"version": version},
	)
	err := kctx.Run(&env{
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Registry: grammars.Default,
	})
	kctx.FatalIfErrorf(err)
}
