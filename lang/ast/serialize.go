package ast

import (
	"github.com/mna/toolrun/internal/tool"
	"github.com/mna/toolrun/internal/value"
	"github.com/mna/toolrun/lang/token"
)

// ToValue renders a parse tree as a Value, the wire shape returned by
// parse-script (spec.md §6, "a serialisation of the parse tree"). Every node
// is an object tagged by "kind".
func ToValue(s Script) value.Value {
	switch n := s.(type) {
	case *RunCommand:
		return node("RunCommand", "expr", exprToValue(n.Expr))
	case *Sequence:
		stmts := make([]value.Value, len(n.Stmts))
		for i, st := range n.Stmts {
			stmts[i] = ToValue(st)
		}
		return node("Sequence", "stmts", value.Array(stmts))
	case *Let:
		return namedNode("Let", n.Name, "value", exprToValue(n.Value))
	case *Var:
		return namedNode("Var", n.Name, "value", exprToValue(n.Value))
	case *Assign:
		return namedNode("Assign", n.Name, "value", exprToValue(n.Value))
	case *Loop:
		return node("Loop", "body", ToValue(n.Body))
	case *While:
		o := node("While", "cond", exprToValue(n.Cond))
		o.Set("body", ToValue(n.Body))
		return o
	case *Using:
		o := node("Using", "expr", exprToValue(n.Expr))
		o.Set("body", ToValue(n.Body))
		return o
	case *If:
		o := node("If", "cond", exprToValue(n.Cond))
		o.Set("then", ToValue(n.Then))
		if n.Else != nil {
			o.Set("else", ToValue(n.Else))
		}
		return o
	case *Def:
		o := namedNode("Def", n.Name, "body", ToValue(n.Body))
		pat := make([]value.Value, len(n.Pattern))
		for i, p := range n.Pattern {
			pat[i] = value.String(p.Text)
		}
		o.Set("pattern", value.Array(pat))
		return o
	case *For:
		o := namedNode("For", n.Name, "iter", exprToValue(n.Iter))
		o.Set("body", ToValue(n.Body))
		return o
	default:
		return value.Null
	}
}

func exprToValue(e Expression) value.Value {
	switch n := e.(type) {
	case *StringLit:
		return namedNode("String", n.Tok, "", value.Value{})
	case *NumberLit:
		return namedNode("Number", n.Tok, "", value.Value{})
	case *ArrayLit:
		return node("Array", "elems", exprListToValue(n.Elems))
	case *TupleLit:
		return node("Tuple", "elems", exprListToValue(n.Elems))
	case *MapLit:
		pairs := make([]value.Value, len(n.Pairs))
		for i, p := range n.Pairs {
			pairs[i] = value.Array([]value.Value{exprToValue(p.Key), exprToValue(p.Value)})
		}
		return node("Map", "pairs", value.Array(pairs))
	case *Ident:
		return namedNode("Identifier", n.Tok, "", value.Value{})
	case *Index:
		o := node("Index", "target", exprToValue(n.Target))
		o.Set("key", exprToValue(n.Key))
		return o
	case *FieldAccess:
		o := node("FieldAccess", "target", exprToValue(n.Target))
		o.Set("field", exprToValue(n.Field))
		return o
	case *Apply:
		o := node("Apply", "callee", exprToValue(n.Callee))
		o.Set("args", exprToValue(n.Args))
		return o
	default:
		return value.Null
	}
}

func exprListToValue(elems []Expression) value.Value {
	out := make([]value.Value, len(elems))
	for i, e := range elems {
		out[i] = exprToValue(e)
	}
	return value.Array(out)
}

func node(kind, field string, v value.Value) value.Value {
	o := value.NewObject()
	o.Set("kind", value.String(kind))
	if field != "" {
		o.Set(field, v)
	}
	return o
}

func namedNode(kind string, tok token.Token, field string, v value.Value) value.Value {
	o := node(kind, field, v)
	o.Set("name", value.String(tok.Text))
	return o
}

// FromValue parses a Value built by ToValue back into a Script. Malformed
// input produces a tool error carrying "ParseTreeDecodeFailed".
func FromValue(v value.Value) (Script, error) {
	kind, body, err := nodeKind(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "RunCommand":
		e, err := exprField(body, "expr")
		if err != nil {
			return nil, err
		}
		return &RunCommand{Expr: e}, nil

	case "Sequence":
		raw, ok := body.Get("stmts")
		if !ok {
			return nil, decodeErr("missing stmts")
		}
		arr, _ := raw.AsArray()
		out := make([]Script, len(arr))
		for i, e := range arr {
			s, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return &Sequence{Stmts: out}, nil

	case "Let", "Var", "Assign":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		e, err := exprField(body, "value")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "Let":
			return &Let{Name: name, Value: e}, nil
		case "Var":
			return &Var{Name: name, Value: e}, nil
		default:
			return &Assign{Name: name, Value: e}, nil
		}

	case "Loop":
		b, err := scriptField(body, "body")
		if err != nil {
			return nil, err
		}
		return &Loop{Body: b}, nil

	case "While":
		c, err := exprField(body, "cond")
		if err != nil {
			return nil, err
		}
		b, err := scriptField(body, "body")
		if err != nil {
			return nil, err
		}
		return &While{Cond: c, Body: b}, nil

	case "Using":
		e, err := exprField(body, "expr")
		if err != nil {
			return nil, err
		}
		b, err := scriptField(body, "body")
		if err != nil {
			return nil, err
		}
		return &Using{Expr: e, Body: b}, nil

	case "If":
		c, err := exprField(body, "cond")
		if err != nil {
			return nil, err
		}
		then, err := scriptField(body, "then")
		if err != nil {
			return nil, err
		}
		n := &If{Cond: c, Then: then}
		if raw, ok := body.Get("else"); ok {
			elseBody, err := FromValue(raw)
			if err != nil {
				return nil, err
			}
			n.Else = elseBody
		}
		return n, nil

	case "Def":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		b, err := scriptField(body, "body")
		if err != nil {
			return nil, err
		}
		raw, ok := body.Get("pattern")
		if !ok {
			return nil, decodeErr("missing pattern")
		}
		arr, _ := raw.AsArray()
		pattern := make([]token.Token, len(arr))
		for i, e := range arr {
			s, ok := e.AsString()
			if !ok {
				return nil, decodeErr("pattern entry not a string")
			}
			pattern[i] = token.Token{Kind: token.IDENT, Text: s}
		}
		return &Def{Name: name, Pattern: pattern, Body: b}, nil

	case "For":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		iter, err := exprField(body, "iter")
		if err != nil {
			return nil, err
		}
		b, err := scriptField(body, "body")
		if err != nil {
			return nil, err
		}
		return &For{Name: name, Iter: iter, Body: b}, nil

	default:
		return nil, decodeErr("unknown script kind " + kind)
	}
}

func exprFromValue(v value.Value) (Expression, error) {
	kind, body, err := nodeKind(v)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "String":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		return &StringLit{Tok: token.Token{Kind: token.STRING, Text: name.Text}}, nil

	case "Number":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		return &NumberLit{Tok: token.Token{Kind: token.NUMBER, Text: name.Text}}, nil

	case "Identifier":
		name, err := nameField(body)
		if err != nil {
			return nil, err
		}
		return &Ident{Tok: token.Token{Kind: token.IDENT, Text: name.Text}}, nil

	case "Array":
		elems, err := exprListFromValue(body, "elems")
		if err != nil {
			return nil, err
		}
		return &ArrayLit{Elems: elems}, nil

	case "Tuple":
		elems, err := exprListFromValue(body, "elems")
		if err != nil {
			return nil, err
		}
		return &TupleLit{Elems: elems}, nil

	case "Map":
		raw, ok := body.Get("pairs")
		if !ok {
			return nil, decodeErr("missing pairs")
		}
		arr, _ := raw.AsArray()
		pairs := make([]MapPair, len(arr))
		for i, pv := range arr {
			kv, ok := pv.AsArray()
			if !ok || len(kv) != 2 {
				return nil, decodeErr("malformed map pair")
			}
			k, err := exprFromValue(kv[0])
			if err != nil {
				return nil, err
			}
			val, err := exprFromValue(kv[1])
			if err != nil {
				return nil, err
			}
			pairs[i] = MapPair{Key: k, Value: val}
		}
		return &MapLit{Pairs: pairs}, nil

	case "Index":
		target, err := exprField(body, "target")
		if err != nil {
			return nil, err
		}
		key, err := exprField(body, "key")
		if err != nil {
			return nil, err
		}
		return &Index{Target: target, Key: key}, nil

	case "FieldAccess":
		target, err := exprField(body, "target")
		if err != nil {
			return nil, err
		}
		field, err := exprField(body, "field")
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Target: target, Field: field}, nil

	case "Apply":
		callee, err := exprField(body, "callee")
		if err != nil {
			return nil, err
		}
		args, err := exprField(body, "args")
		if err != nil {
			return nil, err
		}
		return &Apply{Callee: callee, Args: args}, nil

	default:
		return nil, decodeErr("unknown expression kind " + kind)
	}
}

func exprListFromValue(body value.Value, field string) ([]Expression, error) {
	raw, ok := body.Get(field)
	if !ok {
		return nil, decodeErr("missing " + field)
	}
	arr, _ := raw.AsArray()
	out := make([]Expression, len(arr))
	for i, e := range arr {
		ex, err := exprFromValue(e)
		if err != nil {
			return nil, err
		}
		out[i] = ex
	}
	return out, nil
}

func nodeKind(v value.Value) (string, value.Value, error) {
	if v.Kind() != value.KindObject {
		return "", value.Value{}, decodeErr("node is not an object")
	}
	raw, ok := v.Get("kind")
	if !ok {
		return "", value.Value{}, decodeErr("missing kind")
	}
	kind, ok := raw.AsString()
	if !ok {
		return "", value.Value{}, decodeErr("kind is not a string")
	}
	return kind, v, nil
}

func nameField(body value.Value) (token.Token, error) {
	raw, ok := body.Get("name")
	if !ok {
		return token.Token{}, decodeErr("missing name")
	}
	s, ok := raw.AsString()
	if !ok {
		return token.Token{}, decodeErr("name is not a string")
	}
	return token.Token{Kind: token.IDENT, Text: s}, nil
}

func exprField(body value.Value, field string) (Expression, error) {
	raw, ok := body.Get(field)
	if !ok {
		return nil, decodeErr("missing " + field)
	}
	return exprFromValue(raw)
}

func scriptField(body value.Value, field string) (Script, error) {
	raw, ok := body.Get(field)
	if !ok {
		return nil, decodeErr("missing " + field)
	}
	return FromValue(raw)
}

func decodeErr(msg string) error {
	o := value.NewObject()
	o.Set("error", value.String("ParseTreeDecodeFailed"))
	o.Set("description", value.String(msg))
	return tool.NewErrValue(o)
}
