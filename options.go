package onia

import "io"

// An Option modifies a Parser at construction time.
type Option func(m *meta)

// Expect sets the label a parser reports in its failures.
func Expect(label string) Option {
	return func(m *meta) {
		m.expected = label
	}
}

// Carry controls whether Optional yields the value of its parser.
//
// With Carry(false) the token is still consumed but the value is always nil. This lets a
// grammar require input to be present for the cursor to advance while excluding it from the
// produced value. Other combinators ignore it.
func Carry(carry bool) Option {
	return func(m *meta) {
		m.carry = carry
	}
}

// A ParseOption modifies how Run applies a Parser.
type ParseOption func(p *parseConfig)

type parseConfig struct {
	trace         io.Writer
	allowTrailing bool
}

// Trace the parse to "w".
func Trace(w io.Writer) ParseOption {
	return func(p *parseConfig) {
		p.trace = w
	}
}

// AllowTrailing tokens without erroring.
//
// This is the default. With AllowTrailing(false), input remaining after a successful parse is
// reported as a *TrailingError.
func AllowTrailing(ok bool) ParseOption {
	return func(p *parseConfig) {
		p.allowTrailing = ok
	}
}
