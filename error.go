package onia

import (
	"fmt"
)

// Error represents an error while parsing.
//
// The error will contain positional information.
type Error interface {
	error
	// Unadorned message.
	Message() string
	// Position error occurred.
	Position() Position
}

// ParseError is returned by Run when the top-level parser fails.
//
// Expected is the failure's diagnostic trail, eg. "[Parser sequence](term, [Parser alpha](+))".
type ParseError struct {
	Expected string
	Pos      Position
}

var _ Error = &ParseError{}

func (p *ParseError) Error() string      { return fmt.Sprintf("%s: %s", p.Pos, p.Expected) }
func (p *ParseError) Message() string    { return p.Expected }
func (p *ParseError) Position() Position { return p.Pos }

// Errorf creates a new Error at the given position.
func Errorf(pos Position, format string, args ...interface{}) Error {
	return &ParseError{Expected: fmt.Sprintf(format, args...), Pos: pos}
}

// TrailingError is returned by Run when AllowTrailing(false) is set and input remains after a
// successful parse.
type TrailingError struct {
	Remaining string
	Pos       Position
}

var _ Error = &TrailingError{}

func (t *TrailingError) Error() string      { return fmt.Sprintf("%s: %s", t.Pos, t.Message()) }
func (t *TrailingError) Message() string    { return fmt.Sprintf("unexpected trailing input %q", t.Remaining) }
func (t *TrailingError) Position() Position { return t.Pos }
