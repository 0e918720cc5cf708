package regexpat

// nfaTrans is a single non-epsilon edge, labelled with an inclusive code
// point range.
type nfaTrans struct {
	lo, hi rune
	to     int
}

// nfaState is one state of the Thompson NFA. patternIndex is >= 0 only on
// an accepting state, and identifies which rule (in insertion order)
// accepted.
type nfaState struct {
	trans        []nfaTrans
	eps          []int
	patternIndex int
}

// nfaBuilder accumulates states while compiling Pattern trees via Thompson's
// construction, the classic way of turning a regex syntax tree into an NFA
// with epsilon transitions.
type nfaBuilder struct {
	states []nfaState
}

func newNFABuilder() *nfaBuilder {
	return &nfaBuilder{}
}

func (b *nfaBuilder) newState() int {
	b.states = append(b.states, nfaState{patternIndex: -1})
	return len(b.states) - 1
}

func (b *nfaBuilder) addEps(from, to int) {
	b.states[from].eps = append(b.states[from].eps, to)
}

func (b *nfaBuilder) addTrans(from int, lo, hi rune, to int) {
	b.states[from].trans = append(b.states[from].trans, nfaTrans{lo: lo, hi: hi, to: to})
}

// fragment is a piece of NFA with one start and one accept state, per
// Thompson's construction.
type fragment struct {
	start, accept int
}

// build compiles p into a fragment, recursively composing sub-fragments.
func (b *nfaBuilder) build(p Pattern) fragment {
	switch v := p.(type) {
	case Epsilon:
		s := b.newState()
		a := b.newState()
		b.addEps(s, a)
		return fragment{start: s, accept: a}

	case Match:
		s := b.newState()
		cur := s
		for _, r := range v.Runes {
			next := b.newState()
			b.addTrans(cur, r, r, next)
			cur = next
		}
		return fragment{start: s, accept: cur}

	case MatchRange:
		s := b.newState()
		a := b.newState()
		b.addTrans(s, v.Lo, v.Hi, a)
		return fragment{start: s, accept: a}

	case MatchAny:
		s := b.newState()
		a := b.newState()
		for _, alt := range v.Alternatives {
			f := b.build(alt)
			b.addEps(s, f.start)
			b.addEps(f.accept, a)
		}
		return fragment{start: s, accept: a}

	case MatchAll:
		if len(v.Sequence) == 0 {
			return b.build(Epsilon{})
		}
		first := b.build(v.Sequence[0])
		prev := first.accept
		start := first.start
		for _, sub := range v.Sequence[1:] {
			f := b.build(sub)
			b.addEps(prev, f.start)
			prev = f.accept
		}
		return fragment{start: start, accept: prev}

	case Repeat:
		// only Min=0, Max=1 is produced by the parser (the '?' operator).
		inner := b.build(v.Inner)
		s := b.newState()
		a := b.newState()
		b.addEps(s, inner.start)
		b.addEps(inner.accept, a)
		if v.Min == 0 {
			b.addEps(s, a)
		}
		return fragment{start: s, accept: a}

	case RepeatInfinite:
		inner := b.build(v.Inner)
		s := b.newState()
		a := b.newState()
		b.addEps(s, inner.start)
		b.addEps(inner.accept, a)
		b.addEps(inner.accept, inner.start)
		if v.Min == 0 {
			b.addEps(s, a)
		}
		return fragment{start: s, accept: a}

	default:
		// unreachable for the closed Pattern set above.
		s := b.newState()
		return fragment{start: s, accept: s}
	}
}

// buildRules compiles a priority-ordered list of patterns into a single NFA
// with one root start state epsilon-branching into each rule's fragment.
// The rule's accept state is tagged with its index so the DFA can recover,
// for any accepting configuration, the earliest (lowest-index) rule that
// matched - spec.md §4.4's "ties broken by declaration order" contract.
func buildRules(patterns []Pattern) (root int, b *nfaBuilder) {
	b = newNFABuilder()
	root = b.newState()
	for i, p := range patterns {
		f := b.build(p)
		b.addEps(root, f.start)
		b.states[f.accept].patternIndex = i
	}
	return root, b
}
