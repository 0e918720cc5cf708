package evaluator_test

import (
	"testing"

	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/binder"
	"github.com/mna/toolrun/lang/evaluator"
	"github.com/mna/toolrun/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identTok(name string) token.Token { return token.Token{Kind: token.IDENT, Text: name} }

func run(t *testing.T, script ast.Script, host tool.Environment) (value.Value, error) {
	t.Helper()
	env := binder.NewRoot(host)
	bound, err := binder.BindScript(script, env)
	require.NoError(t, err)
	rec := &evaluator.ActivationRecord{}
	return evaluator.EvalStatement(bound, host, rec)
}

func TestRunCommandInvokesTool(t *testing.T) {
	ts := environment.BasicFrom(environment.NamedTool{Name: "greet", Tool: tool.Pure(func(struct{}) string { return "hi" })})
	host := environment.NewStatic(ts, environment.NewEmpty())

	script := &ast.Sequence{Stmts: []ast.Script{&ast.RunCommand{Expr: &ast.Ident{Tok: identTok("greet")}}}}
	got, err := run(t, script, host)
	require.NoError(t, err)
	arr, ok := got.AsArray()
	require.True(t, ok)
	require.Len(t, arr, 1)
	s, ok := arr[0].AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)
}

func TestVarThenReadBack(t *testing.T) {
	host := environment.NewEmpty()
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.Var{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "41"}}},
		&ast.Assign{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "42"}}},
		&ast.RunCommand{Expr: &ast.Ident{Tok: identTok("x")}},
	}}
	got, err := run(t, script, host)
	require.NoError(t, err)
	arr, _ := got.AsArray()
	require.Len(t, arr, 3)
	n, ok := arr[2].AsNumber()
	require.True(t, ok)
	assert.Equal(t, int64(42), n.I)
}

func TestIfBranchesOnTruth(t *testing.T) {
	host := environment.NewEmpty()
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.If{
			Cond: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}},
			Then: &ast.RunCommand{Expr: &ast.StringLit{Tok: token.Token{Kind: token.STRING, Text: `"yes"`}}},
			Else: &ast.RunCommand{Expr: &ast.StringLit{Tok: token.Token{Kind: token.STRING, Text: `"no"`}}},
		},
	}}
	got, err := run(t, script, host)
	require.NoError(t, err)
	arr, _ := got.AsArray()
	s, _ := arr[0].AsString()
	assert.Equal(t, "yes", s)
}

func TestLetIsBoundButNotEvaluated(t *testing.T) {
	host := environment.NewEmpty()
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.Let{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}}},
	}}
	_, err := run(t, script, host)
	require.Error(t, err)
	val := tool.AsValue(err)
	tag, _ := val.Get("error")
	s, _ := tag.AsString()
	assert.Equal(t, "StatementNotImplemented", s)
}

func TestIndexIntoArray(t *testing.T) {
	host := environment.NewEmpty()
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.RunCommand{Expr: &ast.Index{
			Target: &ast.ArrayLit{Elems: []ast.Expression{
				&ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "10"}},
				&ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "20"}},
			}},
			Key: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}},
		}},
	}}
	got, err := run(t, script, host)
	require.NoError(t, err)
	arr, _ := got.AsArray()
	n, _ := arr[0].AsNumber()
	assert.Equal(t, int64(20), n.I)
}

func TestIndexOutOfBoundsErrors(t *testing.T) {
	host := environment.NewEmpty()
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.RunCommand{Expr: &ast.Index{
			Target: &ast.ArrayLit{Elems: []ast.Expression{
				&ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "10"}},
			}},
			Key: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "5"}},
		}},
	}}
	_, err := run(t, script, host)
	require.Error(t, err)
	val := tool.AsValue(err)
	tag, _ := val.Get("error")
	s, _ := tag.AsString()
	assert.Equal(t, "IndexOutOfBounds", s)
}

func TestAppliedToolSeesHostSiblings(t *testing.T) {
	echo := tool.Dynamic(func(in value.Value, env tool.Environment) (value.Value, error) {
		_, hasSibling := env.Get("sibling")
		return value.Bool(hasSibling), nil
	})
	defineName := tool.Pure(func(struct{}) string { return "defined" })
	ts := environment.BasicFrom(
		environment.NamedTool{Name: "echo", Tool: echo},
		environment.NamedTool{Name: "sibling", Tool: defineName},
	)
	host := environment.NewStatic(ts, environment.NewEmpty())

	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.RunCommand{Expr: &ast.Apply{
			Callee: &ast.Ident{Tok: identTok("echo")},
			Args:   &ast.TupleLit{},
		}},
	}}
	got, err := run(t, script, host)
	require.NoError(t, err)
	arr, _ := got.AsArray()
	b, _ := arr[0].AsBool()
	assert.True(t, b, "tool invocation should still see host-defined siblings")
}
