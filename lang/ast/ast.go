// Package ast defines the parse tree of spec.md §3/§4.5: Script and
// Expression node kinds, trimmed from the teacher's ast package down to the
// grammar's own node set, and without the teacher's Format/Walk/Visitor
// machinery, which this closed, fixed parse tree has no use for.
package ast

import "github.com/mna/toolrun/lang/token"

// Script is one of the statement productions of spec.md §4.5.
type Script interface {
	scriptNode()
}

// Expression is one of the expression productions of spec.md §4.5.
type Expression interface {
	expressionNode()
}

type (
	// RunCommand is a bare expression used as a statement: `Command`.
	RunCommand struct {
		Expr Expression
	}

	// Sequence is zero or more statements run in order.
	Sequence struct {
		Stmts []Script
	}

	// Let declares an immutable-by-convention binding. The binder treats Let
	// and Var identically for slot allocation; spec.md draws no semantic
	// distinction beyond naming.
	Let struct {
		Name  token.Token
		Value Expression
	}

	// Var declares a binding.
	Var struct {
		Name  token.Token
		Value Expression
	}

	// Assign rebinds an existing name.
	Assign struct {
		Name  token.Token
		Value Expression
	}

	// Loop runs Body forever (termination is the body's problem; this
	// runtime has no explicit break/continue since spec.md does not name
	// them among the grammar's statement forms).
	Loop struct {
		Body Script
	}

	// While runs Body repeatedly while Cond is truthy.
	While struct {
		Cond Expression
		Body Script
	}

	// Using runs Body with Expr's result threaded in as a tool-contextual
	// resource. Mirrors a with/using-block shape; the exact resource
	// protocol is left to the evaluator.
	Using struct {
		Expr Expression
		Body Script
	}

	// If runs Then if Cond is truthy, else Else (which may be nil).
	If struct {
		Cond Expression
		Then Script
		Else Script
	}

	// Def declares a tool-valued binding built from a parameter pattern and
	// a body script.
	Def struct {
		Name    token.Token
		Pattern []token.Token
		Body    Script
	}

	// For iterates Iter, binding each element to Name in turn and running
	// Body. The grammar names "For" among the statement forms without
	// giving its production; this is the binder/evaluator's chosen shape:
	// `for x in expr { ... }`.
	For struct {
		Name token.Token
		Iter Expression
		Body Script
	}
)

func (*RunCommand) scriptNode() {}
func (*Sequence) scriptNode()   {}
func (*Let) scriptNode()        {}
func (*Var) scriptNode()        {}
func (*Assign) scriptNode()     {}
func (*Loop) scriptNode()       {}
func (*While) scriptNode()      {}
func (*Using) scriptNode()      {}
func (*If) scriptNode()         {}
func (*Def) scriptNode()        {}
func (*For) scriptNode()        {}

type (
	// StringLit is a still-quoted string literal; unescaping happens in the
	// binder (lang/binder), mirroring spec.md's "String(token, still-quoted)".
	StringLit struct {
		Tok token.Token
	}

	// NumberLit is a still-textual number literal (decimal, exponent,
	// leading-dot, or 0x hex); parsing to a Number happens in the
	// binder (lang/binder).
	NumberLit struct {
		Tok token.Token
	}

	// ArrayLit is `[ ... ]`.
	ArrayLit struct {
		Elems []Expression
	}

	// TupleLit is `( a, b, ... )`; a single-element parenthesized
	// expression is not a tuple (see parser), and `()` is the empty tuple.
	TupleLit struct {
		Elems []Expression
	}

	// MapPair is one key:value entry of a MapLit.
	MapPair struct {
		Key   Expression
		Value Expression
	}

	// MapLit is `{ k: v, ... }`.
	MapLit struct {
		Pairs []MapPair
	}

	// Ident is a bare identifier reference.
	Ident struct {
		Tok token.Token
	}

	// Index is `lhs[rhs]`.
	Index struct {
		Target Expression
		Key    Expression
	}

	// FieldAccess is `lhs.rhs`; Field must be an Identifier per the grammar.
	FieldAccess struct {
		Target Expression
		Field  Expression
	}

	// Apply is `callee(args...)`; Args is the lone argument expression for a
	// single-argument call (not wrapped in a one-element Tuple — a tool
	// applied to a single value receives that value, not a 1-array) and a
	// TupleLit for zero or 2+ arguments.
	Apply struct {
		Callee Expression
		Args   Expression
	}
)

func (*StringLit) expressionNode()   {}
func (*NumberLit) expressionNode()   {}
func (*ArrayLit) expressionNode()    {}
func (*TupleLit) expressionNode()    {}
func (*MapLit) expressionNode()      {}
func (*Ident) expressionNode()       {}
func (*Index) expressionNode()       {}
func (*FieldAccess) expressionNode() {}
func (*Apply) expressionNode()       {}
