package value

import "fmt"

// typeRank orders the six kinds for cross-type comparison, per spec.md
// §4.9: Array < Bool < Null < Number < Object < String.
func typeRank(k Kind) int {
	switch k {
	case KindArray:
		return 0
	case KindBool:
		return 1
	case KindNull:
		return 2
	case KindNumber:
		return 3
	case KindObject:
		return 4
	case KindString:
		return 5
	default:
		return 6
	}
}

// Compare orders v and w, returning -1, 0, or 1. Cross-type comparisons use
// the type-rank table above; same-type comparisons use the per-kind rule
// (array: lexicographic with length tiebreak; bool: false<true; number: see
// compareNumbers; object: key list lexicographic then element-wise; string:
// code-point order).
func Compare(v, w Value) int {
	if v.kind != w.kind {
		rv, rw := typeRank(v.kind), typeRank(w.kind)
		if rv < rw {
			return -1
		}
		return 1
	}

	switch v.kind {
	case KindNull:
		return 0
	case KindBool:
		return boolCompare(v.b, w.b)
	case KindNumber:
		c, _ := compareNumbers(v.n, w.n)
		return c
	case KindString:
		return stringCompare(v.s, w.s)
	case KindArray:
		return compareArrays(v.a, w.a)
	case KindObject:
		return compareObjects(v.o, w.o)
	default:
		return 0
	}
}

func boolCompare(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareArrays(a, b []Value) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return 0
}

func compareObjects(a, b *object) int {
	n := len(a.keys)
	if len(b.keys) < n {
		n = len(b.keys)
	}
	for i := 0; i < n; i++ {
		if c := stringCompare(a.keys[i], b.keys[i]); c != 0 {
			return c
		}
	}
	if len(a.keys) != len(b.keys) {
		if len(a.keys) < len(b.keys) {
			return -1
		}
		return 1
	}
	for _, k := range a.keys {
		if c := Compare(a.values[k], b.values[k]); c != 0 {
			return c
		}
	}
	return 0
}

// compareNumbers implements gossyp's CompareTool::compare_number: try the
// integer path first, then unsigned, then float.
func compareNumbers(a, b Number) (int, error) {
	if ai, aok := a.asI64(); aok {
		if bi, bok := b.asI64(); bok {
			return cmpInt64(ai, bi), nil
		}
	}
	if au, aok := a.asU64(); aok {
		if bu, bok := b.asU64(); bok {
			return cmpUint64(au, bu), nil
		}
	}
	af, aok := a.asF64()
	bf, bok := b.asF64()
	if aok && bok {
		return cmpFloat64(af, bf), nil
	}
	return 0, fmt.Errorf("value: numbers do not have a common representation")
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (n Number) asI64() (int64, bool) {
	switch n.Kind {
	case NumInt:
		return n.I, true
	case NumUint:
		if n.U <= (1<<63 - 1) {
			return int64(n.U), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (n Number) asU64() (uint64, bool) {
	switch n.Kind {
	case NumUint:
		return n.U, true
	case NumInt:
		if n.I >= 0 {
			return uint64(n.I), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (n Number) asF64() (float64, bool) {
	switch n.Kind {
	case NumFloat:
		return n.F, true
	case NumInt:
		return float64(n.I), true
	case NumUint:
		return float64(n.U), true
	default:
		return 0, false
	}
}
