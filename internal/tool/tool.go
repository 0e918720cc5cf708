// Package tool defines the uniform invocation contract every component in
// this runtime is built from: a Tool takes a Value and an Environment and
// returns a Value or an error Value (spec.md §4.1).
package tool

import "github.com/mna/toolrun/internal/value"

// Environment resolves names to owned Tool handles. It is the capability a
// Tool receives alongside its input so that it may look up and invoke other
// tools. Defined here (rather than in internal/environment) to avoid an
// import cycle: environment.Environment implementations need to hand out
// Tools, and Tools need to accept an Environment.
type Environment interface {
	// Get resolves name to an owned Tool handle, or reports NotFound (via a
	// nil Tool and ok=false) if no such tool exists in this environment.
	Get(name string) (Tool, bool)
}

// Tool is the single-capability contract every component exposes.
type Tool interface {
	// Invoke runs the tool against input in env, returning either a result
	// Value or an error Value. Neither channel carries anything but Values:
	// errors are data, not exceptions (spec.md §7).
	Invoke(input value.Value, env Environment) (value.Value, error)
}

// Err wraps an error Value so it can travel through Go's error-returning
// APIs without losing its structured payload. Callers that need the
// Value back should use AsValue.
type Err struct {
	Value value.Value
}

func (e *Err) Error() string {
	if tag, ok := e.Value.Get("error"); ok {
		if s, ok := tag.AsString(); ok {
			return s
		}
	}
	return e.Value.String()
}

// NewErr builds a Go error from a conventional {error, description} Value.
func NewErr(tag, description string) error {
	return &Err{Value: value.ErrorValue(tag, description)}
}

// NewErrValue wraps an arbitrary error Value (not necessarily with the
// conventional tag/description shape) as a Go error.
func NewErrValue(v value.Value) error {
	return &Err{Value: v}
}

// AsValue extracts the error Value carried by err, if any; otherwise it
// synthesises a generic error Value from err.Error().
func AsValue(err error) value.Value {
	if err == nil {
		return value.Null
	}
	if e, ok := err.(*Err); ok {
		return e.Value
	}
	return value.ErrorValue("error", err.Error())
}

// Func adapts a plain Go function into a Tool.
type Func func(input value.Value, env Environment) (value.Value, error)

func (f Func) Invoke(input value.Value, env Environment) (value.Value, error) {
	return f(input, env)
}
