package metatools

import (
	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/stateful"
)

// CreateEvaluatorWithState is the `create-evaluator-with-state` factory
// tool of spec.md §4.8/§6: input a String name, it builds a fresh stateful
// evaluator, places it inside an ephemeral static environment under a
// fixed local name, then uses the caller's own define-tool to copy it
// under the requested name into the caller's environment. Grounded on
// original_source's create_evaluator_with_state_tool
// (gossyp_lang/src/script/stateful_eval.rs), with the source_name/
// target_name arguments in the order its sibling LexTool::invoke_json uses
// (source = the fixed local name, target = the caller-requested name) —
// the original's own call passes them reversed, which would look up the
// requested name inside an environment that never defines it.
var CreateEvaluatorWithState = tool.Dynamic(func(name string, caller tool.Environment) (value.Value, error) {
	defineTool, ok := caller.Get(environment.DefineTool)
	if !ok {
		return value.Value{}, tool.NewErr("Could not retrieve define-tool", "no define-tool in caller environment")
	}

	statefulEnv := environment.NewStatic(
		environment.BasicFrom(environment.NamedTool{Name: "stateful-eval", Tool: stateful.NewTool()}),
		environment.NewEmpty(),
	)

	input := value.Object(
		[2]any{"source_name", value.String("stateful-eval")},
		[2]any{"target_name", value.String(name)},
	)
	_, err := defineTool.Invoke(input, statefulEnv)
	if err != nil {
		return value.Value{}, err
	}
	return value.Null, nil
})
