package onia

import "strings"

// Result of applying a Parser to a Context.
//
// A successful Result carries the produced Value and the Context after the match. A failed
// Result carries a human readable Expected trail and the Context where matching stopped.
type Result struct {
	Context  Context
	Value    any
	Expected string

	ok bool
}

// Success creates a successful Result.
func Success(ctx Context, value any) Result {
	return Result{Context: ctx, Value: value, ok: true}
}

// Failure creates a failed Result.
//
// Empty labels are dropped and the remainder joined into "(label, label...)".
func Failure(ctx Context, expected ...string) Result {
	return failure("", ctx, expected...)
}

func failure(name string, ctx Context, expected ...string) Result {
	labels := make([]string, 0, len(expected))
	for _, label := range expected {
		if label != "" {
			labels = append(labels, label)
		}
	}
	return Result{Context: ctx, Expected: name + "(" + strings.Join(labels, ", ") + ")"}
}

// OK returns true if the Result is a success.
func (r Result) OK() bool { return r.ok }

// Err converts a failed Result into a *ParseError, or returns nil on success.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	return &ParseError{Expected: r.Expected, Pos: r.Context.Position()}
}
