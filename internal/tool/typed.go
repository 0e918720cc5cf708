package tool

import (
	"encoding/json"

	"github.com/mna/toolrun/internal/value"
)

// Typed is a compile-time-parameterised wrapper that adapts a Tool's
// Value-level contract to native Go input/output types via JSON
// serialisation, per spec.md §4.1.
type Typed[In, Out any] struct {
	tool Tool
}

// NewTyped wraps an existing Value-level Tool with a native In/Out view.
func NewTyped[In, Out any](t Tool) Typed[In, Out] {
	return Typed[In, Out]{tool: t}
}

// Invoke serialises in, invokes the underlying tool, and deserialises its
// result. Serialisation failures on either side become error Values per
// spec.md §4.1; input-decoding failure is reported without running the
// underlying tool.
func (t Typed[In, Out]) Invoke(in In, env Environment) (Out, error) {
	var zero Out

	encoded, err := encodeValue(in)
	if err != nil {
		return zero, NewErr("Input encode failed", err.Error())
	}

	result, err := t.tool.Invoke(encoded, env)
	if err != nil {
		return zero, err
	}

	out, err := decodeValue[Out](result)
	if err != nil {
		return zero, NewErr("Result decode failed", err.Error())
	}
	return out, nil
}

func encodeValue(v any) (value.Value, error) {
	if val, ok := v.(value.Value); ok {
		return val, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return value.Value{}, err
	}
	var out value.Value
	if err := out.UnmarshalJSON(b); err != nil {
		return value.Value{}, err
	}
	return out, nil
}

func decodeValue[T any](v value.Value) (T, error) {
	var zero T
	if _, ok := any(zero).(value.Value); ok {
		return any(v).(T), nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// pureFn is a function that never fails.
type pureFn[In, Out any] func(In) Out

// fallibleFn is a function with no environment access that may fail.
type fallibleFn[In, Out any] func(In) (Out, error)

// dynamicFn is a function with environment access that may fail. All three
// factory shapes of spec.md §4.1 are adapters over this one.
type dynamicFn[In, Out any] func(In, Environment) (Out, error)

type fnTool[In, Out any] struct {
	fn dynamicFn[In, Out]
}

func (f fnTool[In, Out]) Invoke(input value.Value, env Environment) (value.Value, error) {
	in, err := decodeValue[In](input)
	if err != nil {
		return value.Value{}, NewErr("JSON input decode failed", err.Error())
	}

	out, err := f.fn(in, env)
	if err != nil {
		// If err already carries a structured error Value (the common case
		// for dynamic tools that call other tools), propagate it unchanged
		// per spec.md §7 ("propagated as-is; not wrapped"). Otherwise
		// synthesise the conventional {error, description} shape.
		return value.Value{}, NewErrValue(AsValue(err))
	}

	outVal, err := encodeValue(out)
	if err != nil {
		return value.Value{}, NewErr("JSON encode failed", err.Error())
	}
	return outVal, nil
}

// Dynamic builds a Tool from a function with environment access that may
// fail.
func Dynamic[In, Out any](fn dynamicFn[In, Out]) Tool {
	return fnTool[In, Out]{fn: fn}
}

// Fallible builds a Tool from a function with no environment access that
// may fail. It is defined as an adapter over Dynamic.
func Fallible[In, Out any](fn fallibleFn[In, Out]) Tool {
	return Dynamic(func(in In, _ Environment) (Out, error) {
		return fn(in)
	})
}

// Pure builds a Tool from a function that never fails and does not use the
// environment. It is defined as an adapter over Dynamic.
func Pure[In, Out any](fn pureFn[In, Out]) Tool {
	return Dynamic(func(in In, _ Environment) (Out, error) {
		return fn(in), nil
	})
}
