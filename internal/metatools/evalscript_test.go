package metatools_test

import (
	"testing"

	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/metatools"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalScriptRunsVarAndCommand(t *testing.T) {
	host := environment.NewDynamic()
	host.Define("add-one", tool.Pure(func(x int64) int64 { return x + 1 }))

	in := value.ObjectOf(map[string]value.Value{
		"kind": value.String("Sequence"),
		"stmts": value.Array([]value.Value{
			value.ObjectOf(map[string]value.Value{
				"kind":  value.String("Var"),
				"name":  value.String("x"),
				"value": value.ObjectOf(map[string]value.Value{"kind": value.String("Number"), "name": value.String("41")}),
			}),
			value.ObjectOf(map[string]value.Value{
				"kind": value.String("RunCommand"),
				"expr": value.ObjectOf(map[string]value.Value{
					"kind":   value.String("Apply"),
					"callee": value.ObjectOf(map[string]value.Value{"kind": value.String("Identifier"), "name": value.String("add-one")}),
					"args":   value.ObjectOf(map[string]value.Value{"kind": value.String("Identifier"), "name": value.String("x")}),
				}),
			}),
		}),
	})

	out, err := metatools.EvalScript.Invoke(in, host)
	require.NoError(t, err)
	assert.NotEqual(t, value.KindNull, out.Kind())
}
