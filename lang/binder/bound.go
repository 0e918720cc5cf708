package binder

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/token"
)

// Script is a bound statement node, parallel to ast.Script (spec.md §3's
// "Bound tree").
type Script interface {
	boundScriptNode()
}

// Expression is a bound expression node, parallel to ast.Expression.
type Expression interface {
	boundExpressionNode()
}

type (
	// AllocateVariables wraps Body, reserving slots [0, N) in the
	// activation record before Body runs. Inserted by BindScript whenever
	// binding Body allocated new slots.
	AllocateVariables struct {
		N    uint32
		Body Script
	}

	RunCommand struct{ Expr Expression }
	Sequence   struct{ Stmts []Script }

	// Let mirrors Var in bound shape; spec.md leaves Let's evaluation
	// unimplemented at the core-slice level (§4.7), so it is bound but
	// evaluated as StatementNotImplemented.
	Let struct {
		Slot uint32
		Expr Expression
		Tok  token.Token
	}

	Var struct {
		Slot uint32
		Expr Expression
		Tok  token.Token
	}

	Assign struct {
		Slot uint32
		Expr Expression
		Tok  token.Token
	}

	Loop struct{ Body Script }

	While struct {
		Cond Expression
		Body Script
	}

	Using struct {
		Expr Expression
		Body Script
	}

	If struct {
		Cond Expression
		Then Script
		Else Script // nil if no else clause
	}

	Def struct {
		Tok     token.Token
		Pattern []token.Token
		Body    Script
	}

	// For is bound analogously to While: Iter in the enclosing scope,
	// Slot/Body in a child scope.
	For struct {
		Slot uint32
		Iter Expression
		Body Script
	}
)

func (*AllocateVariables) boundScriptNode() {}
func (*RunCommand) boundScriptNode()        {}
func (*Sequence) boundScriptNode()          {}
func (*Let) boundScriptNode()               {}
func (*Var) boundScriptNode()               {}
func (*Assign) boundScriptNode()            {}
func (*Loop) boundScriptNode()              {}
func (*While) boundScriptNode()             {}
func (*Using) boundScriptNode()             {}
func (*If) boundScriptNode()                {}
func (*Def) boundScriptNode()               {}
func (*For) boundScriptNode()               {}

type (
	// ValueExpr is a literal already decoded to a Value at bind time.
	ValueExpr struct {
		Value value.Value
		Tok   token.Token
	}

	// ToolExpr carries an owned tool handle resolved at bind time, plus
	// the original token for diagnostics.
	ToolExpr struct {
		Tool tool.Tool
		Tok  token.Token
	}

	// VariableExpr reads activation-record slot Slot.
	VariableExpr struct {
		Slot uint32
		Tok  token.Token
	}

	// FieldExpr names a field on the right-hand side of a FieldAccess;
	// only valid there (spec.md §3). The evaluator treats FieldAccess as
	// reserved/unimplemented, so this node is produced but never consumed.
	FieldExpr struct {
		Target Expression
		Name   string
		Tok    token.Token
	}

	ArrayExpr struct{ Elems []Expression }
	TupleExpr struct{ Elems []Expression }

	MapPair struct {
		Key   Expression
		Value Expression
	}
	MapExpr struct{ Pairs []MapPair }

	IndexExpr struct {
		Target Expression
		Key    Expression
	}

	ApplyExpr struct {
		Callee Expression
		Args   Expression
	}
)

func (*ValueExpr) boundExpressionNode()    {}
func (*ToolExpr) boundExpressionNode()     {}
func (*VariableExpr) boundExpressionNode() {}
func (*FieldExpr) boundExpressionNode()    {}
func (*ArrayExpr) boundExpressionNode()    {}
func (*TupleExpr) boundExpressionNode()    {}
func (*MapExpr) boundExpressionNode()      {}
func (*IndexExpr) boundExpressionNode()    {}
func (*ApplyExpr) boundExpressionNode()    {}
