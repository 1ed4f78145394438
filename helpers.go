package onia

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Int converts a string value to an int.
//
// Leading whitespace is skipped, then an optional sign and as many decimal digits as are
// present are used, and anything following them is ignored. "0.12" converts to 0.
func Int() Transform {
	return func(bound Parser, value any) (any, error) {
		s := strings.TrimLeft(stringOf(value), " \t\r\n")
		end := 0
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		digits := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == digits {
			return nil, fmt.Errorf("%q is not an integer", stringOf(value))
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return nil, err
		}
		return n, nil
	}
}

// Float converts a string value to a float64.
func Float() Transform {
	return func(bound Parser, value any) (any, error) {
		n, err := strconv.ParseFloat(strings.TrimSpace(stringOf(value)), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", stringOf(value))
		}
		return n, nil
	}
}

// Shift selects the first element of a slice value, or nil if it is empty.
func Shift() Transform {
	return func(bound Parser, value any) (any, error) {
		values, err := sliceOf(value)
		if err != nil || len(values) == 0 {
			return nil, err
		}
		return values[0], nil
	}
}

// Pop selects the last element of a slice value, or nil if it is empty.
func Pop() Transform {
	return func(bound Parser, value any) (any, error) {
		values, err := sliceOf(value)
		if err != nil || len(values) == 0 {
			return nil, err
		}
		return values[len(values)-1], nil
	}
}

// Join concatenates the string forms of the elements of a slice value.
//
// nil elements contribute nothing.
func Join() Transform {
	return func(bound Parser, value any) (any, error) {
		values, err := sliceOf(value)
		if err != nil {
			return nil, err
		}
		out := strings.Builder{}
		for _, v := range values {
			out.WriteString(stringOf(v))
		}
		return out.String(), nil
	}
}

// Flatten a slice of slices by one level.
//
// Elements that are not slices are kept as is.
func Flatten() Transform {
	return func(bound Parser, value any) (any, error) {
		values, err := sliceOf(value)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(values))
		for _, v := range values {
			if inner, err := sliceOf(v); err == nil && v != nil {
				out = append(out, inner...)
				continue
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Expand wraps the value in a single element slice.
func Expand() Transform {
	return func(bound Parser, value any) (any, error) {
		return []any{value}, nil
	}
}

// Filter removes elements of a slice value whose string form matches the string form of any
// of values. nil elements are always removed.
//
// A Parser's string form is its String(), with Lazy parsers replaced by the parser they
// resolve to, so passing a literal parser removes the tokens it matched regardless of their
// position. The string forms of values are computed on first use, so values may include Lazy
// rules that are not yet defined:
//
//	onia.Map(onia.Sequence([]onia.Parser{open, word, close}), onia.Filter(open, close))
func Filter(values ...any) Transform {
	var (
		once   sync.Once
		lookup map[string]bool
	)
	return func(bound Parser, value any) (any, error) {
		once.Do(func() {
			lookup = map[string]bool{}
			for _, v := range values {
				if s := stringOf(v); s != "" {
					lookup[s] = true
				}
			}
		})
		haystack, err := sliceOf(value)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(haystack))
		for _, v := range haystack {
			if v == nil || lookup[stringOf(v)] {
				continue
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Zip pairs each element of a slice value with the child of the bound parser at the same
// position, and replaces it with the result of mapper.
//
// Combined with Map over a Sequence, this allows values to be transformed depending on which
// rule produced them. Children without a corresponding value receive nil.
func Zip(mapper func(child Parser, value any) (any, error)) Transform {
	return func(bound Parser, value any) (any, error) {
		values, err := sliceOf(value)
		if err != nil {
			return nil, err
		}
		children := bound.Export()
		out := make([]any, len(children))
		for i, child := range children {
			var v any
			if i < len(values) {
				v = values[i]
			}
			if out[i], err = mapper(child, v); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

// Pipe composes transforms left to right.
//
// Each transform receives the same bound parser. The first error stops the pipe.
func Pipe(fns ...Transform) Transform {
	return func(bound Parser, value any) (any, error) {
		var err error
		for _, fn := range fns {
			if value, err = fn(bound, value); err != nil {
				return nil, err
			}
		}
		return value, nil
	}
}

// Fn adapts a typed function to a Transform.
//
// A value that is not of type A fails the transform.
func Fn[A, B any](fn func(A) B) Transform {
	return func(bound Parser, value any) (any, error) {
		a, ok := value.(A)
		if !ok && value != nil {
			return nil, fmt.Errorf("expected %T but got %T", a, value)
		}
		return fn(a), nil
	}
}

// Convert any slice into a []any.
func sliceOf(value any) ([]any, error) {
	switch value := value.(type) {
	case []any:
		return value, nil
	case nil:
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a slice but got %T", value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func stringOf(value any) string {
	switch value := value.(type) {
	case nil:
		return ""
	case string:
		return value
	case Parser:
		for value != nil && value.Kind() == KindLazy {
			value = value.Export()[0]
		}
		if value == nil {
			return ""
		}
		return value.String()
	case []any:
		parts := make([]string, len(value))
		for i, v := range value {
			parts[i] = stringOf(v)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(value)
}
