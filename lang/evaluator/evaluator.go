// Package evaluator implements the tree-walking evaluator of spec.md §4.7
// over the bound tree produced by lang/binder. It is grounded on
// original_source's evaluate_expression.rs/evaluate_statement.rs, and
// replaces the teacher's bytecode lang/machine+lang/compiler entirely,
// since spec.md's Non-goals explicitly forbid a VM/bytecode design; the
// one idiom kept from the teacher is lang/machine.go's "single execution
// context threaded through recursive calls", here walking bound nodes
// instead of dispatching opcodes.
package evaluator

import (
	"github.com/mna/toolrun/internal/environment"
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/binder"
)

// ActivationRecord is the contiguous growable Value array of spec.md §3,
// indexed by slot number.
type ActivationRecord struct {
	slots []value.Value
}

// Allocate extends the record to at least n entries, filling new entries
// with Null, per AllocateVariables' contract.
func (a *ActivationRecord) Allocate(n uint32) {
	for uint32(len(a.slots)) < n {
		a.slots = append(a.slots, value.Null)
	}
}

// Get reads slot i; the binder guarantees i is always in range by the time
// the evaluator runs.
func (a *ActivationRecord) Get(i uint32) value.Value { return a.slots[i] }

// Set writes slot i.
func (a *ActivationRecord) Set(i uint32, v value.Value) { a.slots[i] = v }

func scriptError(tag string, extra ...[2]string) value.Value {
	o := value.NewObject()
	o.Set("error", value.String(tag))
	for _, kv := range extra {
		o.Set(kv[0], value.String(kv[1]))
	}
	return o
}

// isolatedEnv builds the per-invocation environment handed to a tool
// called from script evaluation (Tool-node and Apply evaluation): a fresh
// empty Dynamic layered over host, so the callee's own definitions never
// leak back into host, while lookups that miss fall through to host. This
// is the chosen resolution of spec.md §9's Open Question, matching
// gossyp's "commands_can_access_parent_environment" and
// "commands_have_own_environment" test pair.
func isolatedEnv(host tool.Environment) tool.Environment {
	return environment.NewLayered(environment.NewDynamic(), host)
}

// EvalExpression evaluates a bound expression against host and record.
func EvalExpression(expr binder.Expression, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	switch n := expr.(type) {
	case *binder.ValueExpr:
		return n.Value, nil

	case *binder.ToolExpr:
		return n.Tool.Invoke(value.Null, isolatedEnv(host))

	case *binder.VariableExpr:
		return record.Get(n.Slot), nil

	case *binder.ArrayExpr:
		return evalList(n.Elems, host, record)

	case *binder.TupleExpr:
		return evalList(n.Elems, host, record)

	case *binder.MapExpr:
		return evalMap(n.Pairs, host, record)

	case *binder.IndexExpr:
		return evalIndex(n, host, record)

	case *binder.ApplyExpr:
		return evalApply(n, host, record)

	case *binder.FieldExpr:
		return value.Value{}, tool.NewErrValue(scriptError("ExpressionNotImplemented"))

	default:
		return value.Value{}, tool.NewErrValue(scriptError("ExpressionNotImplemented"))
	}
}

func evalList(elems []binder.Expression, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		v, err := EvalExpression(e, host, record)
		if err != nil {
			return value.Value{}, err
		}
		out[i] = v
	}
	return value.Array(out), nil
}

func evalMap(pairs []binder.MapPair, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	result := value.NewObject()
	for _, p := range pairs {
		k, err := EvalExpression(p.Key, host, record)
		if err != nil {
			return value.Value{}, err
		}
		key, ok := k.AsString()
		if !ok {
			return value.Value{}, tool.NewErrValue(scriptError("MapKeysMustEvaluateToAString"))
		}
		v, err := EvalExpression(p.Value, host, record)
		if err != nil {
			return value.Value{}, err
		}
		result.Set(key, v)
	}
	return result, nil
}

func evalIndex(n *binder.IndexExpr, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	lhs, err := EvalExpression(n.Target, host, record)
	if err != nil {
		return value.Value{}, err
	}
	rhs, err := EvalExpression(n.Key, host, record)
	if err != nil {
		return value.Value{}, err
	}

	switch lhs.Kind() {
	case value.KindArray:
		num, ok := rhs.AsNumber()
		if !ok {
			return value.Value{}, tool.NewErrValue(scriptError("ArrayIndexMustBeANumber"))
		}
		arr, _ := lhs.AsArray()
		i, ok := nonNegativeIndex(num)
		if !ok || i >= len(arr) {
			return value.Value{}, tool.NewErrValue(scriptError("IndexOutOfBounds"))
		}
		return arr[i], nil

	case value.KindString:
		num, ok := rhs.AsNumber()
		if !ok {
			return value.Value{}, tool.NewErrValue(scriptError("ArrayIndexMustBeANumber"))
		}
		s, _ := lhs.AsString()
		runes := []rune(s)
		i, ok := nonNegativeIndex(num)
		if !ok || i >= len(runes) {
			return value.Value{}, tool.NewErrValue(scriptError("IndexOutOfBounds"))
		}
		return value.String(string(runes[i])), nil

	case value.KindObject:
		key, ok := rhs.AsString()
		if !ok {
			return value.Value{}, tool.NewErrValue(scriptError("MapIndexMustBeAString"))
		}
		v, ok := lhs.Get(key)
		if !ok {
			return value.Value{}, tool.NewErrValue(scriptError("ObjectValueNotPresent"))
		}
		return v, nil

	default:
		return value.Value{}, tool.NewErrValue(scriptError("IndexMustApplyToAnArrayOrAMap"))
	}
}

func nonNegativeIndex(n value.Number) (int, bool) {
	switch n.Kind {
	case value.NumInt:
		if n.I < 0 {
			return 0, false
		}
		return int(n.I), true
	case value.NumUint:
		return int(n.U), true
	case value.NumFloat:
		if n.F < 0 {
			return 0, false
		}
		return int(n.F), true
	default:
		return 0, false
	}
}

func evalApply(n *binder.ApplyExpr, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	toolExpr, ok := n.Callee.(*binder.ToolExpr)
	if !ok {
		return value.Value{}, tool.NewErrValue(scriptError("ExpressionDoesNotEvaluateToTool"))
	}
	args, err := EvalExpression(n.Args, host, record)
	if err != nil {
		return value.Value{}, err
	}
	return toolExpr.Tool.Invoke(args, isolatedEnv(host))
}

// EvalStatement evaluates a bound statement against host and record.
func EvalStatement(s binder.Script, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	switch n := s.(type) {
	case *binder.AllocateVariables:
		record.Allocate(n.N)
		return EvalStatement(n.Body, host, record)

	case *binder.RunCommand:
		return EvalExpression(n.Expr, host, record)

	case *binder.Sequence:
		out := make([]value.Value, len(n.Stmts))
		for i, st := range n.Stmts {
			v, err := EvalStatement(st, host, record)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = v
		}
		return value.Array(out), nil

	case *binder.Var:
		return evalAssignment(n.Slot, n.Expr, host, record)

	case *binder.Assign:
		return evalAssignment(n.Slot, n.Expr, host, record)

	case *binder.If:
		cond, err := EvalExpression(n.Cond, host, record)
		if err != nil {
			return value.Value{}, err
		}
		if cond.Truth() {
			return EvalStatement(n.Then, host, record)
		}
		if n.Else != nil {
			return EvalStatement(n.Else, host, record)
		}
		return value.Null, nil

	case *binder.Let, *binder.Loop, *binder.While, *binder.Using, *binder.Def, *binder.For:
		// Not required for the core slice (spec.md §4.7); these need
		// machinery (tool-valued closures for Def, a resource protocol for
		// Using, unbounded iteration with no break/continue in the grammar
		// for Loop/While/For) this runtime does not yet define.
		return value.Value{}, tool.NewErrValue(scriptError("StatementNotImplemented"))

	default:
		return value.Value{}, tool.NewErrValue(scriptError("StatementNotImplemented"))
	}
}

func evalAssignment(slot uint32, expr binder.Expression, host tool.Environment, record *ActivationRecord) (value.Value, error) {
	v, err := EvalExpression(expr, host, record)
	if err != nil {
		return value.Value{}, err
	}
	record.Set(slot, v)
	return v, nil
}
