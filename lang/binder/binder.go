// Package binder implements the name-resolution and slot-allocation pass
// of spec.md §4.6: it turns an ast.Script/ast.Expression parse tree into a
// BoundScript/BoundExpression tree, ready for lang/evaluator. Structurally
// it follows original_source's binding_environment.rs (VariableBindingEnvironment,
// ChildBindingEnvironment, the tool/variable/(primary,secondary) combinator
// variants) translated into a small Go interface hierarchy, since
// bind_statement.rs itself only ever bound RunCommand/Sequence — the
// fuller statement binding here is spec.md's own §4.6 text.
package binder

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/ast"
)

// Error is a bind-time failure: a short tag plus an optional description
// (for name errors, the offending name).
type Error struct {
	Tag         string
	Description string
}

func (e *Error) Error() string { return e.Tag }

// Value renders the error as the Value shape §7 specifies for script
// binding errors.
func (e *Error) Value() value.Value {
	o := value.NewObject()
	o.Set("error", value.String(e.Tag))
	if e.Description != "" {
		o.Set("description", value.String(e.Description))
	}
	return o
}

// Environment is the binding-environment interface of spec.md §4.6.
type Environment interface {
	AllocateSlot() uint32
	AllocateNamed(name string) (uint32, error)
	Lookup(name string) LookupResult
	CurrentSlotCount() uint32
	CreateChild() Environment
}

// LookupKind discriminates the three Lookup outcomes.
type LookupKind int

const (
	NotFound LookupKind = iota
	FoundVariable
	FoundTool
)

// LookupResult is the outcome of Environment.Lookup.
type LookupResult struct {
	Kind LookupKind
	Slot uint32
	Tool tool.Tool
}

// rootTable is the shared slot cursor for one binding session; every
// AllocateSlot call, however deeply nested the calling scope, delegates up
// to this single counter, per spec.md's "slot indices are unique within
// one activation record" invariant.
type rootTable struct {
	nextSlot uint32
}

func (r *rootTable) allocateSlot() uint32 {
	s := r.nextSlot
	r.nextSlot++
	return s
}

// scope is one level of name→slot bindings, consulted child-first. host is
// consulted only by the root scope (nil in child scopes), matching
// ToolBindingEnvironment vs. ChildBindingEnvironment in original_source.
type scope struct {
	root   *rootTable
	names  map[string]uint32
	parent *scope
	host   tool.Environment
}

// NewRoot builds the outermost binding environment, backed by host for
// tool lookups that miss every scope's variable names.
func NewRoot(host tool.Environment) Environment {
	return &scope{root: &rootTable{}, names: map[string]uint32{}, host: host}
}

func (s *scope) AllocateSlot() uint32 { return s.root.allocateSlot() }

func (s *scope) AllocateNamed(name string) (uint32, error) {
	if _, ok := s.names[name]; ok {
		return 0, &Error{Tag: "VariableNameAlreadyInUse", Description: name}
	}
	slot := s.AllocateSlot()
	s.names[name] = slot
	return slot, nil
}

func (s *scope) Lookup(name string) LookupResult {
	for cur := s; cur != nil; cur = cur.parent {
		if slot, ok := cur.names[name]; ok {
			return LookupResult{Kind: FoundVariable, Slot: slot}
		}
		if cur.parent == nil && cur.host != nil {
			if t, ok := cur.host.Get(name); ok {
				return LookupResult{Kind: FoundTool, Tool: t}
			}
		}
	}
	return LookupResult{Kind: NotFound}
}

func (s *scope) CurrentSlotCount() uint32 { return s.root.nextSlot }

func (s *scope) CreateChild() Environment {
	return &scope{root: s.root, names: map[string]uint32{}, parent: s}
}

// Combined layers a primary (mutations go here) over a secondary
// (read-only fallback for lookups and slot-count reporting), per
// spec.md §4.6's "stateful binding" and original_source's
// `(primary, secondary)` BindingEnvironment tuple impl.
type Combined struct {
	Primary   Environment
	Secondary Environment
}

func (c Combined) AllocateSlot() uint32                   { return c.Primary.AllocateSlot() }
func (c Combined) AllocateNamed(name string) (uint32, error) { return c.Primary.AllocateNamed(name) }

func (c Combined) Lookup(name string) LookupResult {
	if r := c.Primary.Lookup(name); r.Kind != NotFound {
		return r
	}
	return c.Secondary.Lookup(name)
}

func (c Combined) CurrentSlotCount() uint32 {
	p, s := c.Primary.CurrentSlotCount(), c.Secondary.CurrentSlotCount()
	if p > s {
		return p
	}
	return s
}

func (c Combined) CreateChild() Environment {
	return Combined{Primary: c.Primary.CreateChild(), Secondary: c.Secondary}
}

// BindScript binds a top-level script against env, wrapping the result in
// AllocateVariables if new slots were reserved, per §4.6's Emission rule.
func BindScript(s ast.Script, env Environment) (Script, error) {
	before := env.CurrentSlotCount()
	bound, err := bindStatement(s, env)
	if err != nil {
		return nil, err
	}
	after := env.CurrentSlotCount()
	if after > before {
		return &AllocateVariables{N: after, Body: bound}, nil
	}
	return bound, nil
}

func bindStatement(s ast.Script, env Environment) (Script, error) {
	switch n := s.(type) {
	case *ast.RunCommand:
		e, err := bindExpression(n.Expr, env)
		if err != nil {
			return nil, err
		}
		return &RunCommand{Expr: e}, nil

	case *ast.Sequence:
		out := make([]Script, len(n.Stmts))
		for i, st := range n.Stmts {
			b, err := bindStatement(st, env)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return &Sequence{Stmts: out}, nil

	case *ast.Let:
		slot, err := env.AllocateNamed(n.Name.Text)
		if err != nil {
			return nil, err
		}
		e, err := bindExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		return &Let{Slot: slot, Expr: e, Tok: n.Name}, nil

	case *ast.Var:
		slot, err := env.AllocateNamed(n.Name.Text)
		if err != nil {
			return nil, err
		}
		e, err := bindExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		return &Var{Slot: slot, Expr: e, Tok: n.Name}, nil

	case *ast.Assign:
		r := env.Lookup(n.Name.Text)
		if r.Kind != FoundVariable {
			return nil, &Error{Tag: "WasExpectingAVariable", Description: n.Name.Text}
		}
		e, err := bindExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		return &Assign{Slot: r.Slot, Expr: e, Tok: n.Name}, nil

	case *ast.If:
		cond, err := bindExpression(n.Cond, env)
		if err != nil {
			return nil, err
		}
		thenChild := env.CreateChild()
		then, err := bindStatement(n.Then, thenChild)
		if err != nil {
			return nil, err
		}
		var elseBound Script
		if n.Else != nil {
			elseChild := env.CreateChild()
			elseBound, err = bindStatement(n.Else, elseChild)
			if err != nil {
				return nil, err
			}
		}
		return &If{Cond: cond, Then: then, Else: elseBound}, nil

	case *ast.Loop:
		child := env.CreateChild()
		body, err := bindStatement(n.Body, child)
		if err != nil {
			return nil, err
		}
		return &Loop{Body: body}, nil

	case *ast.While:
		cond, err := bindExpression(n.Cond, env)
		if err != nil {
			return nil, err
		}
		child := env.CreateChild()
		body, err := bindStatement(n.Body, child)
		if err != nil {
			return nil, err
		}
		return &While{Cond: cond, Body: body}, nil

	case *ast.Using:
		e, err := bindExpression(n.Expr, env)
		if err != nil {
			return nil, err
		}
		child := env.CreateChild()
		body, err := bindStatement(n.Body, child)
		if err != nil {
			return nil, err
		}
		return &Using{Expr: e, Body: body}, nil

	case *ast.Def:
		child := env.CreateChild()
		for _, p := range n.Pattern {
			if _, err := child.AllocateNamed(p.Text); err != nil {
				return nil, err
			}
		}
		body, err := bindStatement(n.Body, child)
		if err != nil {
			return nil, err
		}
		return &Def{Tok: n.Name, Pattern: n.Pattern, Body: body}, nil

	case *ast.For:
		child := env.CreateChild()
		slot, err := child.AllocateNamed(n.Name.Text)
		if err != nil {
			return nil, err
		}
		iter, err := bindExpression(n.Iter, env)
		if err != nil {
			return nil, err
		}
		body, err := bindStatement(n.Body, child)
		if err != nil {
			return nil, err
		}
		return &For{Slot: slot, Iter: iter, Body: body}, nil

	default:
		return nil, &Error{Tag: "StatementNotImplemented"}
	}
}

func bindExpression(e ast.Expression, env Environment) (Expression, error) {
	switch n := e.(type) {
	case *ast.StringLit:
		v, err := decodeStringLiteral(n.Tok.Text)
		if err != nil {
			return nil, err
		}
		return &ValueExpr{Value: v, Tok: n.Tok}, nil

	case *ast.NumberLit:
		v, err := decodeNumberLiteral(n.Tok.Text)
		if err != nil {
			return nil, err
		}
		return &ValueExpr{Value: v, Tok: n.Tok}, nil

	case *ast.Ident:
		r := env.Lookup(n.Tok.Text)
		switch r.Kind {
		case FoundVariable:
			return &VariableExpr{Slot: r.Slot, Tok: n.Tok}, nil
		case FoundTool:
			return &ToolExpr{Tool: r.Tool, Tok: n.Tok}, nil
		default:
			return nil, &Error{Tag: "ExpressionDoesNotEvaluateToTool", Description: n.Tok.Text}
		}

	case *ast.ArrayLit:
		elems, err := bindExpressions(n.Elems, env)
		if err != nil {
			return nil, err
		}
		return &ArrayExpr{Elems: elems}, nil

	case *ast.TupleLit:
		elems, err := bindExpressions(n.Elems, env)
		if err != nil {
			return nil, err
		}
		return &TupleExpr{Elems: elems}, nil

	case *ast.MapLit:
		pairs := make([]MapPair, len(n.Pairs))
		for i, p := range n.Pairs {
			k, err := bindExpression(p.Key, env)
			if err != nil {
				return nil, err
			}
			v, err := bindExpression(p.Value, env)
			if err != nil {
				return nil, err
			}
			pairs[i] = MapPair{Key: k, Value: v}
		}
		return &MapExpr{Pairs: pairs}, nil

	case *ast.Index:
		target, err := bindExpression(n.Target, env)
		if err != nil {
			return nil, err
		}
		key, err := bindExpression(n.Key, env)
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Target: target, Key: key}, nil

	case *ast.FieldAccess:
		target, err := bindExpression(n.Target, env)
		if err != nil {
			return nil, err
		}
		ident, ok := n.Field.(*ast.Ident)
		if !ok {
			return nil, &Error{Tag: "FieldMustBeIdentifier"}
		}
		return &FieldExpr{Target: target, Name: ident.Tok.Text, Tok: ident.Tok}, nil

	case *ast.Apply:
		callee, err := bindExpression(n.Callee, env)
		if err != nil {
			return nil, err
		}
		args, err := bindExpression(n.Args, env)
		if err != nil {
			return nil, err
		}
		return &ApplyExpr{Callee: callee, Args: args}, nil

	default:
		return nil, &Error{Tag: "ExpressionNotImplemented"}
	}
}

func bindExpressions(exprs []ast.Expression, env Environment) ([]Expression, error) {
	out := make([]Expression, len(exprs))
	for i, e := range exprs {
		b, err := bindExpression(e, env)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
