package onia

import (
	"fmt"
	"strings"
)

// Position of a Context in its text.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) GoString() string {
	return fmt.Sprintf("Position{Offset: %d, Line: %d, Column: %d}", p.Offset, p.Line, p.Column)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Context is an immutable parse position: the full input and a byte offset into it.
//
// Callers may construct a Context with an out of range Index, in which case every
// primitive parser fails at it.
type Context struct {
	Text  string
	Index int

	trace *tracer
}

// At returns a copy of the context positioned at index.
func (c Context) At(index int) Context {
	c.Index = index
	return c
}

// Advance returns a copy of the context moved forward by n bytes.
func (c Context) Advance(n int) Context {
	return c.At(c.Index + n)
}

// Rest returns the input remaining from Index, or "" if Index is out of range.
func (c Context) Rest() string {
	if c.Index < 0 || c.Index > len(c.Text) {
		return ""
	}
	return c.Text[c.Index:]
}

// EOF returns true if the context has consumed all of its input.
func (c Context) EOF() bool {
	return c.Index >= len(c.Text)
}

// Position computes the 1-based line and column of Index.
//
// Indices outside the text are clamped for line and column purposes, but Offset
// always reports the raw Index.
func (c Context) Position() Position {
	index := c.Index
	if index < 0 {
		index = 0
	} else if index > len(c.Text) {
		index = len(c.Text)
	}
	consumed := c.Text[:index]
	line := strings.Count(consumed, "\n") + 1
	column := index + 1
	if nl := strings.LastIndexByte(consumed, '\n'); nl >= 0 {
		column = index - nl
	}
	return Position{Offset: c.Index, Line: line, Column: column}
}

func (c Context) String() string {
	return fmt.Sprintf("%s %q", c.Position(), peek(c, 16))
}

// peek returns up to n bytes of upcoming input.
func peek(c Context, n int) string {
	rest := c.Rest()
	if len(rest) > n {
		return rest[:n] + "…"
	}
	return rest
}
