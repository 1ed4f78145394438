package grammars

import (
	"github.com/alecthomas/onia"
	"github.com/alecthomas/onia/ebnf"
)

// Sum parses a single binary addition or subtraction such as "123 + 321" into
// []any{123, "+", 321}. The operands are not evaluated.
func Sum() onia.Parser {
	digits := onia.Map(onia.Regex(`[0-9]+`, onia.Expect("digits")), onia.Int())
	ws := onia.Optional(onia.Regex(`\s+`), onia.Carry(false))
	return onia.Map(
		onia.Sequence([]onia.Parser{digits, ws, onia.Regex(`[+\-]`, onia.Expect("operator")), ws, digits}),
		onia.Filter(),
		onia.Expect("sum"),
	)
}

// List parses a parenthesised, comma separated list of items such as "(1, 2,  3)" into
// []any{"1", "2", "3"}. Items are any run of characters other than whitespace, commas and
// parentheses.
func List() onia.Parser {
	item := onia.Regex(`[^,()\s]+`, onia.Expect("item"))
	separator := onia.Regex(`\s*,\s*`, onia.Expect(","))
	return onia.Map(
		onia.Sequence([]onia.Parser{
			onia.Alpha("("),
			onia.Optional(onia.Sequence([]onia.Parser{
				item,
				onia.Many(onia.Map(onia.Sequence([]onia.Parser{separator, item}), onia.Pop())),
			})),
			onia.Alpha(")"),
		}),
		onia.Pipe(onia.Filter("(", ")"), onia.Shift(), onia.Flatten()),
		onia.Expect("list"),
	)
}

const exprGrammar = `
Expr = Term { ws ("+" | "-") ws Term } .
Term = Factor { ws ("*" | "/") ws Factor } .
Factor = number | "(" ws Expr ws ")" .
number = digit { digit } .
digit = "0" … "9" .
ws = { " " | "\t" } .
`

// Expr parses arithmetic into a syntax tree of nested slices, built from an EBNF grammar:
//
//	Expr = Term { ws ("+" | "-") ws Term } .
//	Term = Factor { ws ("*" | "/") ws Factor } .
//	Factor = number | "(" ws Expr ws ")" .
//
// Whitespace is dropped from the tree and numbers are left as strings.
func Expr() onia.Parser {
	return ebnf.MustBuild(exprGrammar, "Expr", ebnf.Skip("ws"))
}
