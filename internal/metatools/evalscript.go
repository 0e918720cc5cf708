package metatools

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/binder"
	"github.com/mna/toolrun/lang/evaluator"
)

// EvalScript is the `eval-script` meta-tool of spec.md §6: input is the
// parse tree (as produced by ParseScript / lang/ast.ToValue), output is an
// array of per-statement result Values or an error Value. It binds and
// evaluates against a stack-local activation record, unlike the persistent
// lang/stateful.Evaluator create-evaluator-with-state builds.
var EvalScript = tool.Dynamic(func(in value.Value, env tool.Environment) (value.Value, error) {
	script, err := ast.FromValue(in)
	if err != nil {
		return value.Value{}, err
	}

	bound, err := binder.BindScript(script, binder.NewRoot(env))
	if err != nil {
		if berr, ok := err.(*binder.Error); ok {
			return value.Value{}, tool.NewErrValue(berr.Value())
		}
		return value.Value{}, err
	}

	record := &evaluator.ActivationRecord{}
	return evaluator.EvalStatement(bound, env, record)
})
