package onia

import "fmt"

// Run applies parser to text from its first byte and returns the produced value.
//
// If the parser fails the returned error is a *ParseError, whose Message() is the
// failure's expected trail and whose Position() is where matching stopped.
func Run(text string, parser Parser, options ...ParseOption) (any, error) {
	config := &parseConfig{allowTrailing: true}
	for _, option := range options {
		option(config)
	}
	ctx := Context{Text: text}
	if config.trace != nil {
		ctx.trace = &tracer{w: config.trace}
	}
	res := parse(parser, ctx)
	if !res.OK() {
		return nil, res.Err()
	}
	if !config.allowTrailing && !res.Context.EOF() {
		return nil, &TrailingError{Remaining: res.Context.Rest(), Pos: res.Context.Position()}
	}
	return res.Value, nil
}

// RunAs is like Run but asserts the produced value is of type T.
//
// A nil value converts to the zero value of T.
func RunAs[T any](text string, parser Parser, options ...ParseOption) (T, error) {
	var zero T
	value, err := Run(text, parser, options...)
	if err != nil || value == nil {
		return zero, err
	}
	out, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%s produced %T, not %T", parser.Name(), value, zero)
	}
	return out, nil
}

// MustRun is like Run but panics on error.
func MustRun(text string, parser Parser, options ...ParseOption) any {
	value, err := Run(text, parser, options...)
	if err != nil {
		panic(err)
	}
	return value
}
