package binder_test

import (
	"testing"

	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/binder"
	"github.com/mna/toolrun/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identTok(name string) token.Token { return token.Token{Kind: token.IDENT, Text: name} }

func TestBindLetAllocatesSlotAndWrapsAllocateVariables(t *testing.T) {
	env := binder.NewRoot(environment.NewEmpty())
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.Let{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}}},
	}}

	bound, err := binder.BindScript(script, env)
	require.NoError(t, err)
	alloc, ok := bound.(*binder.AllocateVariables)
	require.True(t, ok)
	assert.Equal(t, uint32(1), alloc.N)
}

func TestBindDuplicateNameErrors(t *testing.T) {
	env := binder.NewRoot(environment.NewEmpty())
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.Let{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}}},
		&ast.Let{Name: identTok("x"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "2"}}},
	}}

	_, err := binder.BindScript(script, env)
	require.Error(t, err)
	var berr *binder.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "VariableNameAlreadyInUse", berr.Tag)
}

func TestBindIdentifierResolvesToToolOrErrors(t *testing.T) {
	ts := environment.BasicFrom(environment.NamedTool{Name: "greet", Tool: tool.Pure(func(struct{}) string { return "hi" })})
	host := environment.NewStatic(ts, environment.NewEmpty())
	env := binder.NewRoot(host)

	script := &ast.Sequence{Stmts: []ast.Script{&ast.RunCommand{Expr: &ast.Ident{Tok: identTok("greet")}}}}
	bound, err := binder.BindScript(script, env)
	require.NoError(t, err)
	seq := bound.(*binder.Sequence)
	cmd := seq.Stmts[0].(*binder.RunCommand)
	_, ok := cmd.Expr.(*binder.ToolExpr)
	assert.True(t, ok)

	script2 := &ast.Sequence{Stmts: []ast.Script{&ast.RunCommand{Expr: &ast.Ident{Tok: identTok("missing")}}}}
	_, err2 := binder.BindScript(script2, env)
	require.Error(t, err2)
}

func TestVariableShadowsToolOfSameName(t *testing.T) {
	ts := environment.BasicFrom(environment.NamedTool{Name: "test", Tool: tool.Pure(func(struct{}) string { return "Success" })})
	host := environment.NewStatic(ts, environment.NewEmpty())
	env := binder.NewRoot(host)

	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.Let{Name: identTok("test"), Value: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}}},
		&ast.RunCommand{Expr: &ast.Ident{Tok: identTok("test")}},
	}}
	bound, err := binder.BindScript(script, env)
	require.NoError(t, err)
	alloc := bound.(*binder.AllocateVariables)
	seq := alloc.Body.(*binder.Sequence)
	cmd := seq.Stmts[1].(*binder.RunCommand)
	v, ok := cmd.Expr.(*binder.VariableExpr)
	require.True(t, ok)
	assert.Equal(t, uint32(0), v.Slot)
}

func TestChildScopeSlotsDisjointButRootCursorDoesNotRewind(t *testing.T) {
	env := binder.NewRoot(environment.NewEmpty())

	root := env.AllocateSlot()
	child := env.CreateChild()
	childSlot := child.AllocateSlot()
	afterChild := env.AllocateSlot()

	assert.Equal(t, uint32(0), root)
	assert.Equal(t, uint32(1), childSlot)
	assert.Equal(t, uint32(2), afterChild)
}

func TestFieldAccessRequiresIdentifierRHS(t *testing.T) {
	env := binder.NewRoot(environment.NewEmpty())
	script := &ast.Sequence{Stmts: []ast.Script{
		&ast.RunCommand{Expr: &ast.FieldAccess{
			Target: &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "2"}},
			Field:  &ast.NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: "1"}},
		}},
	}}
	_, err := binder.BindScript(script, env)
	require.Error(t, err)
	var berr *binder.Error
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "FieldMustBeIdentifier", berr.Tag)
}
