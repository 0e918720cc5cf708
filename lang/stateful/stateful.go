// Package stateful implements the persistent binder+evaluator pair of
// spec.md §4.8, grounded on original_source's
// gossyp_lang/src/script/stateful_eval.rs: a binding table and activation
// record that survive across calls, suitable for driving a REPL
// incrementally.
package stateful

import (
	"sync"

	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/binder"
	"github.com/mna/toolrun/lang/evaluator"
)

// Evaluator is a stateful binder+evaluator pair: variable names and slot
// values accumulated by one call are visible to the next, while tools from
// the environment passed to each call are always resolvable. A single
// mutex protects both the binding table and the activation record, since
// every operation touches both together.
type Evaluator struct {
	mu      sync.Mutex
	binding binder.Environment
	record  *evaluator.ActivationRecord
}

// New builds an empty stateful evaluator.
func New() *Evaluator {
	return &Evaluator{
		binding: binder.NewRoot(nil),
		record:  &evaluator.ActivationRecord{},
	}
}

// Bind binds script against this evaluator's persistent root combined with
// a fresh tool-backed view of env (spec.md §4.8's primary/secondary rule:
// new allocations land in the persistent root, tool lookups fall through to
// env).
func (e *Evaluator) Bind(script ast.Script, env tool.Environment) (binder.Script, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	combined := binder.Combined{Primary: e.binding, Secondary: binder.NewRoot(env)}
	return binder.BindScript(script, combined)
}

// Evaluate runs an already-bound script against this evaluator's persistent
// activation record.
func (e *Evaluator) Evaluate(bound binder.Script, env tool.Environment) (value.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return evaluator.EvalStatement(bound, env, e.record)
}

// EvaluateUnbound binds then evaluates script in one atomic operation.
func (e *Evaluator) EvaluateUnbound(script ast.Script, env tool.Environment) (value.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	combined := binder.Combined{Primary: e.binding, Secondary: binder.NewRoot(env)}
	bound, err := binder.BindScript(script, combined)
	if err != nil {
		return value.Value{}, err
	}
	return evaluator.EvalStatement(bound, env, e.record)
}

// Tool adapts an Evaluator to the tool.Tool contract: input is a pre-parsed
// script, serialised per lang/ast.ToValue (spec.md §4.8's "Tool facade that
// accepts a pre-parsed script as its Value input").
type Tool struct {
	eval *Evaluator
}

// NewTool wraps a fresh Evaluator as a Tool.
func NewTool() Tool { return Tool{eval: New()} }

func (t Tool) Invoke(input value.Value, env tool.Environment) (value.Value, error) {
	script, err := ast.FromValue(input)
	if err != nil {
		return value.Value{}, err
	}
	return t.eval.EvaluateUnbound(script, env)
}
