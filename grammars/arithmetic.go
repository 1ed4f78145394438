package grammars

import (
	"fmt"
	"strings"

	"github.com/alecthomas/onia"
)

// Arithmetic evaluates expressions over floating point numbers with + - * / and
// parentheses, producing a float64.
//
// Operators are applied strictly left to right: "1 + 2 * 3" is 9.
func Arithmetic() onia.Parser {
	var expression, term onia.Parser

	number := onia.Map(onia.Regex(`\d*\.?\d*`, onia.Expect("digit")), onia.Float(), onia.Expect("digit"))
	whitespace := onia.Optional(onia.Alpha(" ", onia.Expect("whitespace")), onia.Carry(false))
	operator := onia.Regex(`[+\-*/]`, onia.Expect("operator"))

	parentheses := onia.Lazy(func() onia.Parser {
		return onia.Map(
			onia.Sequence([]onia.Parser{onia.Alpha("("), expression, onia.Alpha(")")}),
			onia.Fn(func(values []any) any { return values[1] }),
			onia.Expect("parentheses"),
		)
	})
	operand := onia.Any([]onia.Parser{parentheses, number})

	term = onia.Map(
		onia.Sequence([]onia.Parser{
			operand,
			onia.Many(onia.Sequence([]onia.Parser{whitespace, operator, whitespace, operand}, onia.Expect("term"))),
		}),
		fold("+-*/"),
		onia.Expect("term"),
	)
	expression = onia.Lazy(func() onia.Parser {
		return onia.Map(
			onia.Sequence([]onia.Parser{
				term,
				onia.Many(onia.Sequence([]onia.Parser{whitespace, operator, whitespace, term}, onia.Expect("expression"))),
			}),
			fold("+-"),
			onia.Expect("expression"),
		)
	})
	return expression
}

// fold reduces [first, [[_, op, _, operand]...]] left to right, applying only the operators
// in ops. Other operators leave the accumulator unchanged.
func fold(ops string) onia.Transform {
	return func(bound onia.Parser, value any) (any, error) {
		values, ok := value.([]any)
		if !ok || len(values) != 2 {
			return nil, fmt.Errorf("expected [operand, rest] but got %v", value)
		}
		acc, ok := values[0].(float64)
		if !ok {
			return nil, fmt.Errorf("expected a number but got %T", values[0])
		}
		rest, _ := values[1].([]any)
		for _, r := range rest {
			step, ok := r.([]any)
			if !ok || len(step) != 4 {
				return nil, fmt.Errorf("malformed operation %v", r)
			}
			op, _ := step[1].(string)
			next, ok := step[3].(float64)
			if !ok {
				return nil, fmt.Errorf("expected a number but got %T", step[3])
			}
			if !strings.Contains(ops, op) {
				continue
			}
			switch op {
			case "+":
				acc += next
			case "-":
				acc -= next
			case "*":
				acc *= next
			case "/":
				acc /= next
			}
		}
		return acc, nil
	}
}
