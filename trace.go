package onia

import (
	"fmt"
	"io"
	"strings"
)

type tracer struct {
	w      io.Writer
	indent int
}

// Apply p to ctx, tracing the call if the context is being traced.
//
// Combinators must invoke their children through parse rather than calling Parse directly.
func parse(p Parser, ctx Context) Result {
	if ctx.trace == nil {
		return p.Parse(ctx)
	}
	return ctx.trace.parse(p, ctx)
}

func (t *tracer) parse(p Parser, ctx Context) Result {
	prefix := strings.Repeat(" ", t.indent)
	fmt.Fprintf(t.w, "%s%q %s\n", prefix, peek(ctx, 10), traceLabel(p))
	t.indent += 2
	res := p.Parse(ctx)
	t.indent -= 2
	if res.OK() {
		start, end := clamp(ctx.Index, ctx.Text), clamp(res.Context.Index, ctx.Text)
		if end < start {
			end = start
		}
		fmt.Fprintf(t.w, "%s= %d %q\n", prefix, res.Context.Index, ctx.Text[start:end])
	} else {
		fmt.Fprintf(t.w, "%s! %d %s\n", prefix, res.Context.Index, res.Expected)
	}
	return res
}

func traceLabel(p Parser) string {
	switch p.Kind() {
	case KindAlpha:
		return fmt.Sprintf("%s %q", p.Name(), p.String())
	case KindRegex:
		return fmt.Sprintf("%s /%s/", p.Name(), p.String())
	}
	if label := p.Expected(); label != "" {
		return p.Name() + " " + label
	}
	return p.Name()
}

func clamp(index int, text string) int {
	if index < 0 {
		return 0
	}
	if index > len(text) {
		return len(text)
	}
	return index
}
