// Package onia builds recursive-descent parsers out of small composable functions.
//
// Parsers operate directly on a string: there is no separate lexing step. Each Parser takes
// an immutable Context (the input and a byte offset) and returns a Result that is either a
// success carrying a value and the advanced Context, or a failure carrying a trail of what
// was expected and the Context where matching stopped.
//
// The building blocks are:
//
//   - Alpha("...") matches a literal.
//   - Regex(`...`) matches a regular expression anchored at the current offset.
//   - Sequence(parsers) matches each parser in turn, producing a []any.
//   - Any(parsers) matches the first alternative that succeeds.
//   - Optional(parser) matches parser or nothing.
//   - Many(parser) matches parser zero or more times, producing a []any.
//   - Map(parser, transform) reshapes the value of parser.
//   - Lazy(factory) defers construction, for recursive rules.
//
// Here's a grammar for comma separated lists of numbers in parentheses:
//
//	number := onia.Map(onia.Regex(`[0-9]+`, onia.Expect("number")), onia.Int())
//	comma := onia.Alpha(",")
//	list := onia.Map(
//		onia.Sequence([]onia.Parser{
//			onia.Alpha("("),
//			number,
//			onia.Many(onia.Map(onia.Sequence([]onia.Parser{comma, number}), onia.Pop())),
//			onia.Alpha(")"),
//		}),
//		onia.Pipe(onia.Filter("(", ")"), onia.Flatten()),
//	)
//	value, err := onia.Run("(1,2,3)", list) // []any{1, 2, 3}
//
// Failures are recoverable by any enclosing Any, Optional or Many. A failure that reaches Run
// is returned as a *ParseError whose message is the failure's trail. Running the grammar above
// on "(1,2" fails with:
//
//	1:5: [Parser map]([Parser sequence]([Parser alpha]())))
//
// There is no memoisation of intermediate results, so heavily ambiguous grammars can take
// exponential time.
package onia
