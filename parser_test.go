package onia

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	foo = Alpha("foo", Expect("foo"))
	bar = Alpha("bar", Expect("bar"))
)

func at(text string, index int) Context {
	return Context{Text: text, Index: index}
}

func assertSuccess(t *testing.T, res Result, value any, index int) {
	t.Helper()
	require.True(t, res.OK(), "expected success but got %s", res.Expected)
	assert.Equal(t, value, res.Value)
	assert.Equal(t, index, res.Context.Index)
}

func assertFailure(t *testing.T, res Result, expected string, index int) {
	t.Helper()
	require.False(t, res.OK(), "expected failure but got %#v", res.Value)
	assert.Equal(t, expected, res.Expected)
	assert.Equal(t, index, res.Context.Index)
}

func TestSuccessAndFailure(t *testing.T) {
	ctx := at("foo", 1)

	res := Success(ctx, nil)
	assert.True(t, res.OK())
	assert.Nil(t, res.Value)
	assert.Equal(t, ctx, res.Context)
	assert.NoError(t, res.Err())

	res = Success(ctx, "value")
	assert.Equal(t, "value", res.Value)

	assertFailure(t, Failure(ctx), "()", 1)
	assertFailure(t, Failure(ctx, "value"), "(value)", 1)
	assertFailure(t, Failure(ctx, "", "a", "", "b"), "(a, b)", 1)
}

func TestAlpha(t *testing.T) {
	parser := Alpha("o")
	assertSuccess(t, parser.Parse(at("o", 0)), "o", 1)
	assert.Equal(t, "o", parser.String())

	assertSuccess(t, Alpha("foo").Parse(at("foo", 0)), "foo", 3)
	assertSuccess(t, Alpha("bar").Parse(at("foo bar", 4)), "bar", 7)
}

func TestAlphaFailure(t *testing.T) {
	parser := Alpha("o", Expect("foobar"))
	assertFailure(t, parser.Parse(at("o", 1)), "[Parser alpha](foobar)", 1)
	assertFailure(t, parser.Parse(at("o", -1)), "[Parser alpha](foobar)", -1)
	assertFailure(t, parser.Parse(at("", 0)), "[Parser alpha](foobar)", 0)
	assertFailure(t, parser.Parse(at("o", 5)), "[Parser alpha](foobar)", 5)

	assertFailure(t, Alpha("foo").Parse(at("fo", 0)), "[Parser alpha](foo)", 0)
}

func TestRegex(t *testing.T) {
	parser := Regex(`[0-9]+`)
	assert.Equal(t, `[0-9]+`, parser.String())
	assertSuccess(t, parser.Parse(at("01", 0)), "01", 2)
	assertSuccess(t, parser.Parse(at("01", 1)), "1", 2)

	single := Regex(`[0-9]`)
	assertSuccess(t, single.Parse(at("01", 0)), "0", 1)
	assertSuccess(t, single.Parse(at("01", 1)), "1", 2)

	empty := Regex(`[0-9]*`)
	assertSuccess(t, empty.Parse(at("ab", 2)), "", 2)
}

func TestRegexIsAnchored(t *testing.T) {
	parser := Regex(`[0-9]`, Expect("number"))
	assertFailure(t, parser.Parse(at("a1", 0)), "[Parser regex](number)", 0)
	assertFailure(t, parser.Parse(at("", 0)), "[Parser regex](number)", 0)
	assertFailure(t, parser.Parse(at("1", -1)), "[Parser regex](number)", -1)
	assertFailure(t, parser.Parse(at("1", 2)), "[Parser regex](number)", 2)

	alternation := Regex(`a|ab`)
	assertSuccess(t, alternation.Parse(at("xab", 1)), "a", 2)

	assertFailure(t, Regex(`[a-z]+`).Parse(at("1", 0)), "[Parser regex]([a-z]+)", 0)
}

func TestRegexAssertionsStartAtIndex(t *testing.T) {
	assertSuccess(t, Regex(`\b\w`).Parse(at("ab", 1)), "b", 2)
	assertSuccess(t, Regex(`^b`).Parse(at("ab", 1)), "b", 2)
	assertFailure(t, Regex(`b$`).Parse(at("abc", 1)), "[Parser regex](b$)", 1)
}

func TestCompileRegexError(t *testing.T) {
	_, err := CompileRegex(`[a-`)
	require.Error(t, err)
	assert.Panics(t, func() { Regex(`(`) })
}

func TestSequence(t *testing.T) {
	assertSuccess(t, Sequence(nil).Parse(at("foo", 0)), []any{}, 0)
	assertSuccess(t, Sequence([]Parser{}).Parse(at("foo", 2)), []any{}, 2)
	assertSuccess(t, Sequence([]Parser{foo, bar}).Parse(at("foobar", 0)), []any{"foo", "bar"}, 6)
	assertSuccess(t, Sequence([]Parser{Alpha("a"), Alpha("b")}).Parse(at("ab", 0)), []any{"a", "b"}, 2)
}

func TestSequenceFailure(t *testing.T) {
	assertFailure(t, Sequence([]Parser{foo, bar}).Parse(at("foo", 0)),
		"[Parser sequence]([Parser alpha](bar))", 3)
	assertFailure(t, Sequence([]Parser{foo, bar}, Expect("asa")).Parse(at("foo", 0)),
		"[Parser sequence](asa, [Parser alpha](bar))", 3)
	assertFailure(t, Sequence([]Parser{foo, bar}).Parse(at("bar", 0)),
		"[Parser sequence]([Parser alpha](foo))", 0)
}

func TestSequenceOwnsItsParsers(t *testing.T) {
	parsers := []Parser{foo, bar}
	parser := Sequence(parsers)
	parsers[1] = foo
	assertSuccess(t, parser.Parse(at("foobar", 0)), []any{"foo", "bar"}, 6)
}

func TestAny(t *testing.T) {
	assertSuccess(t, Any([]Parser{foo}).Parse(at("foo", 0)), "foo", 3)
	assertSuccess(t, Any([]Parser{foo, bar}).Parse(at("bar", 0)), "bar", 3)
	assertSuccess(t, Any([]Parser{foo, bar}).Parse(at("foo bar", 0)), "foo", 3)
	assertSuccess(t, Any([]Parser{Alpha("bar"), Alpha("foo")}).Parse(at("foo", 0)), "foo", 3)
}

func TestAnyFailure(t *testing.T) {
	assertFailure(t, Any(nil, Expect("nothing")).Parse(at("foo", 0)), "[Parser any](nothing)", 0)
	assertFailure(t, Any(nil).Parse(at("foo", 2)), "[Parser any]()", 2)
	assertFailure(t, Any([]Parser{bar, foo}, Expect("bar foo")).Parse(at("foo bar", 1)),
		"[Parser any](bar foo, [Parser alpha](bar))", 1)
}

func TestAnyReportsFurthestFailure(t *testing.T) {
	short := Alpha("x")
	long := Sequence([]Parser{Alpha("a"), Alpha("b")})

	res := Any([]Parser{short, long}).Parse(at("ac", 0))
	assertFailure(t, res, "[Parser any]([Parser sequence]([Parser alpha](b)))", 1)

	res = Any([]Parser{long, short}).Parse(at("ac", 0))
	assertFailure(t, res, "[Parser any]([Parser sequence]([Parser alpha](b)))", 1)
}

func TestAnyTieKeepsEarliest(t *testing.T) {
	res := Any([]Parser{Alpha("x"), Alpha("y")}).Parse(at("z", 0))
	assertFailure(t, res, "[Parser any]([Parser alpha](x))", 0)

	res = Any([]Parser{Alpha("y"), Alpha("x")}).Parse(at("z", 0))
	assertFailure(t, res, "[Parser any]([Parser alpha](y))", 0)
}

func TestMany(t *testing.T) {
	parser := Many(foo)
	assertSuccess(t, parser.Parse(at("", 0)), []any{}, 0)
	assertSuccess(t, parser.Parse(at("foo", 0)), []any{"foo"}, 3)
	assertSuccess(t, parser.Parse(at("foofoofoo", 0)), []any{"foo", "foo", "foo"}, 9)
	assertSuccess(t, parser.Parse(at("foofoofoo", 1)), []any{}, 1)
	assertSuccess(t, parser.Parse(at("bar", 0)), []any{}, 0)
	assertSuccess(t, parser.Parse(at("foobar", 0)), []any{"foo"}, 3)

	assertSuccess(t, Many(Alpha("x")).Parse(at("xxxy", 0)), []any{"x", "x", "x"}, 3)
}

func TestManyStopsOnZeroWidthMatch(t *testing.T) {
	assertSuccess(t, Many(Optional(Alpha("x"))).Parse(at("xxy", 0)), []any{"x", "x"}, 2)
	assertSuccess(t, Many(Regex(`a*`)).Parse(at("b", 0)), []any{}, 0)
	assertSuccess(t, Many(Sequence(nil)).Parse(at("", 0)), []any{}, 0)
}

func TestOptional(t *testing.T) {
	assertSuccess(t, Optional(foo).Parse(at("", 0)), nil, 0)
	assertSuccess(t, Optional(foo).Parse(at("foo", 0)), "foo", 3)
	assertSuccess(t, Optional(Map(Regex(`\d`, Expect("digit")), Int())).Parse(at("0", 0)), 0, 1)
	assertSuccess(t, Optional(foo, Carry(false)).Parse(at("foo", 0)), nil, 3)
	assertSuccess(t, Optional(foo, Carry(false)).Parse(at("bar", 0)), nil, 0)
}

func TestMap(t *testing.T) {
	var seen any
	parser := Map(foo, func(bound Parser, value any) (any, error) {
		seen = value
		return nil, nil
	})
	assertSuccess(t, parser.Parse(at("foo", 0)), nil, 3)
	assert.Equal(t, "foo", seen)

	assertSuccess(t, Map(foo, nil).Parse(at("foo", 0)), "foo", 3)
}

func TestMapFailure(t *testing.T) {
	called := false
	parser := Map(foo, func(bound Parser, value any) (any, error) {
		called = true
		return value, nil
	}, Expect("nothing"))
	assertFailure(t, parser.Parse(at("", 0)), "[Parser map](nothing, [Parser alpha](foo))", 0)
	assert.False(t, called)

	parser = Map(foo, func(bound Parser, value any) (any, error) {
		panic("not implemented")
	}, Expect("foobar"))
	assertFailure(t, parser.Parse(at("bar", 0)), "[Parser map](foobar, [Parser alpha](foo))", 0)
}

func TestMapTransformError(t *testing.T) {
	parser := Map(foo, func(bound Parser, value any) (any, error) {
		return nil, errors.New("boom")
	}, Expect("foobar"))
	assertFailure(t, parser.Parse(at("foo", 0)), "[Parser map](foobar, boom)", 3)
}

func TestMapBindsChild(t *testing.T) {
	seq := Sequence([]Parser{foo, bar})
	var bound Parser
	parser := Map(seq, func(b Parser, value any) (any, error) {
		bound = b
		return value, nil
	})
	_ = parser.Parse(at("foobar", 0))
	assert.Equal(t, seq, bound)
}

func TestLazyDefersConstruction(t *testing.T) {
	invoked := false
	mock := Func(func(ctx Context) Result {
		invoked = true
		return Success(ctx, "test")
	})
	created := false
	parser := Lazy(func() Parser {
		created = true
		return mock
	})
	assert.False(t, created)
	assert.False(t, invoked)

	assertSuccess(t, parser.Parse(at("", 0)), "test", 0)
	assert.True(t, created)
	assert.True(t, invoked)
}

func TestLazyCreatesParserOnce(t *testing.T) {
	count := 0
	parser := Lazy(func() Parser {
		count++
		return foo
	})
	for i := 0; i < 5; i++ {
		_ = parser.Parse(at("foo", i%2))
	}
	_ = parser.Export()
	assert.Equal(t, 1, count)
}

func TestLazyRenderedBeforeDefinition(t *testing.T) {
	var expr Parser
	ref := Lazy(func() Parser { return expr })
	assert.Equal(t, "...", fmt.Sprintf("%s", ref))
	assert.Equal(t, []Parser{nil}, ref.Export())

	expr = Alpha("x")
	assertSuccess(t, ref.Parse(at("x", 0)), "x", 1)
	assert.Equal(t, `"x"`, ref.String())
}

func TestLazyNilFactoryPanics(t *testing.T) {
	parser := Lazy(func() Parser { return nil })
	assert.PanicsWithValue(t, "[Parser lazy] factory returned nil", func() { parser.Parse(at("x", 0)) })
}

func TestLazyConcurrentParse(t *testing.T) {
	var (
		count  int32
		nested Parser
	)
	ref := Lazy(func() Parser {
		atomic.AddInt32(&count, 1)
		return nested
	})
	nested = Any([]Parser{
		Map(Sequence([]Parser{Alpha("("), ref, Alpha(")")}), func(bound Parser, value any) (any, error) {
			return value.([]any)[1].(int) + 1, nil
		}),
		Map(Alpha("x"), func(bound Parser, value any) (any, error) { return 0, nil }),
	})

	const workers = 16
	var wg sync.WaitGroup
	depths := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := strings.Repeat("(", i) + "x" + strings.Repeat(")", i)
			depths[i], errs[i] = RunAs[int](input, ref, AllowTrailing(false))
		}(i)
	}
	wg.Wait()
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, i, depths[i])
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
}

func TestLazyFailure(t *testing.T) {
	transparent := Lazy(func() Parser { return foo })
	assertFailure(t, transparent.Parse(at("bar", 0)), "[Parser alpha](foo)", 0)

	labelled := Lazy(func() Parser { return foo }, Expect("rule"))
	assertFailure(t, labelled.Parse(at("bar", 0)), "[Parser lazy](rule, [Parser alpha](foo))", 0)
}

func TestLazyRecursion(t *testing.T) {
	var nested Parser
	ref := Lazy(func() Parser { return nested })
	nested = Any([]Parser{
		Map(Sequence([]Parser{Alpha("("), ref, Alpha(")")}), func(bound Parser, value any) (any, error) {
			return value.([]any)[1].(int) + 1, nil
		}),
		Map(Alpha("x"), func(bound Parser, value any) (any, error) { return 0, nil }),
	})
	depth, err := RunAs[int]("((((x))))", nested)
	require.NoError(t, err)
	assert.Equal(t, 4, depth)
}

func TestFunc(t *testing.T) {
	parser := Func(func(ctx Context) Result {
		if ctx.EOF() {
			return Success(ctx, "eof")
		}
		return Failure(ctx, "end of input")
	}, Expect("eof"))
	assertSuccess(t, parser.Parse(at("ab", 2)), "eof", 2)
	assertFailure(t, parser.Parse(at("ab", 1)), "(end of input)", 1)
	assert.Equal(t, KindFunc, parser.Kind())
}

func TestNames(t *testing.T) {
	tests := []struct {
		parser Parser
		name   string
	}{
		{Alpha(""), "[Parser alpha]"},
		{Regex(``), "[Parser regex]"},
		{Sequence(nil), "[Parser sequence]"},
		{Any(nil), "[Parser any]"},
		{Optional(foo), "[Parser optional]"},
		{Many(foo), "[Parser many]"},
		{Map(foo, nil), "[Parser map]"},
		{Lazy(func() Parser { return foo }), "[Parser lazy]"},
		{Func(func(ctx Context) Result { return Success(ctx, nil) }), "[Parser func]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.name, test.parser.Name())
			assert.Equal(t, "", test.parser.Expected())
		})
	}
	assert.Equal(t, "label", Many(foo, Expect("label")).Expected())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestExport(t *testing.T) {
	assert.Equal(t, []Parser{foo, bar}, Sequence([]Parser{foo, bar}).Export())
	assert.Equal(t, []Parser{foo, bar}, Any([]Parser{foo, bar}).Export())
	assert.Equal(t, []Parser{foo}, Many(foo).Export())
	assert.Equal(t, []Parser{foo}, Optional(foo).Export())
	assert.Equal(t, []Parser{bar}, Map(bar, nil).Export())
	assert.Equal(t, []Parser{bar}, Lazy(func() Parser { return bar }).Export())
	assert.Empty(t, foo.Export())
	assert.Empty(t, Regex(`x`).Export())
}

func TestProgressInvariant(t *testing.T) {
	parsers := []Parser{
		foo,
		Regex(`[a-z]*`),
		Sequence([]Parser{Optional(foo), Many(bar)}),
		Any([]Parser{bar, Optional(foo)}),
		Many(Any([]Parser{foo, bar})),
		Map(Many(Regex(`o+|f`)), Join()),
		Lazy(func() Parser { return Optional(Sequence([]Parser{foo, bar})) }),
	}
	inputs := []string{"", "foo", "foobar", "barfoo", "fofoo", "xyz"}
	for _, p := range parsers {
		for _, input := range inputs {
			for index := 0; index <= len(input); index++ {
				res := p.Parse(at(input, index))
				if res.OK() {
					assert.GreaterOrEqual(t, res.Context.Index, index, "%s on %q at %d", p, input, index)
				}
			}
		}
	}
}

func TestTotality(t *testing.T) {
	for _, input := range []string{"", "foo", "bar", "xyz"} {
		for index := -1; index <= len(input)+1; index++ {
			assert.True(t, Many(foo).Parse(at(input, index)).OK())
			assert.True(t, Optional(foo).Parse(at(input, index)).OK())
			assert.False(t, Any(nil).Parse(at(input, index)).OK())
			res := Sequence(nil).Parse(at(input, index))
			assert.True(t, res.OK())
			assert.Equal(t, at(input, index), res.Context)
		}
	}
}
