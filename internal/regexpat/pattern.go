// Package regexpat implements the mini-regex language of spec.md §4.4: a
// regex-to-pattern-tree compiler, a pattern-tree-to-DFA builder, and a
// DFA-driven longest-match tokenizer. It is the engine behind the
// lex-script meta-tool (internal/metatools).
//
// The regex dialect and the pattern tree shape are ported from
// gossyp's LexTool (original_source/src/lex/lex_tool.rs), which built a
// concordance::Pattern<char> from the same grammar; here the pattern tree
// is compiled further, all the way down to a deterministic finite
// automaton, since this runtime has no equivalent of the concordance
// crate to hand off to.
package regexpat

// Pattern is the regex pattern tree of spec.md §4.4.
type Pattern interface {
	isPattern()
}

type (
	// Epsilon matches the empty string.
	Epsilon struct{}

	// Match matches an exact sequence of code points.
	Match struct{ Runes []rune }

	// MatchRange matches any single code point in [Lo, Hi] inclusive.
	MatchRange struct{ Lo, Hi rune }

	// MatchAny matches any one of Alternatives (regex alternation or a
	// character class expanded to a set of ranges).
	MatchAny struct{ Alternatives []Pattern }

	// MatchAll matches Sequence in order (concatenation).
	MatchAll struct{ Sequence []Pattern }

	// Repeat matches Inner repeated between Min and Max times inclusive. Used
	// for the '?' operator (Min=0, Max=1).
	Repeat struct {
		Min, Max int
		Inner    Pattern
	}

	// RepeatInfinite matches Inner repeated Min or more times, with no upper
	// bound. Used for '*' (Min=0) and '+' (Min=1).
	RepeatInfinite struct {
		Min   int
		Inner Pattern
	}
)

func (Epsilon) isPattern()        {}
func (Match) isPattern()          {}
func (MatchRange) isPattern()     {}
func (MatchAny) isPattern()       {}
func (MatchAll) isPattern()       {}
func (Repeat) isPattern()         {}
func (RepeatInfinite) isPattern() {}

// minCodePoint and maxCodePoint bound the full Unicode code point range,
// used for '.'.
const (
	minCodePoint rune = 0x000000
	maxCodePoint rune = 0x10ffff
)

// ParsePattern compiles a regex string into a Pattern, following
// gossyp's LexTool::pattern_for_string/pattern_for_chars.
func ParsePattern(regex string) Pattern {
	return patternForChars([]rune(regex))
}

func specialChar(c rune) rune {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case '\\':
		return '\\'
	case 'w':
		return ' '
	default:
		return c
	}
}

// whitespacePattern mirrors gossyp's special_character_pattern('w') case:
// "any Unicode whitespace" expanded as a MatchAny of code points and
// ranges from the Unicode White_Space property.
func whitespacePattern() Pattern {
	return MatchAny{Alternatives: []Pattern{
		Match{Runes: []rune{0x0020}}, // space
		Match{Runes: []rune{0x0009}}, // tab
		Match{Runes: []rune{0x000a}}, // line feed
		Match{Runes: []rune{0x000d}}, // carriage return
		Match{Runes: []rune{0x0085}}, // next line
		Match{Runes: []rune{0x00a0}}, // no-break space
		Match{Runes: []rune{0x1680}}, // ogham space mark
		MatchRange{Lo: 0x2000, Hi: 0x200a}, // en quad .. hair space
		Match{Runes: []rune{0x2028}}, // line separator
		Match{Runes: []rune{0x2029}}, // paragraph separator
		Match{Runes: []rune{0x202f}}, // narrow no-break space
		Match{Runes: []rune{0x205f}}, // medium mathematical space
		Match{Runes: []rune{0x3000}}, // ideographic space
	}}
}

func specialPattern(c rune) Pattern {
	if c == 'w' {
		return whitespacePattern()
	}
	return Match{Runes: []rune{specialChar(c)}}
}

// getSubpattern finds the subpattern enclosed by the '(' at index start,
// returning the slice between the parens (exclusive), skipping over
// escapes and character-class interiors so that ')' inside either does not
// prematurely close the group.
func getSubpattern(regex []rune, start int) []rune {
	pos := start + 1
	depth := 1
	n := len(regex)

	for pos < n && depth > 0 {
		switch regex[pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return regex[start+1 : pos]
			}
		case '\\':
			pos++
		case '[':
			for pos < n && regex[pos] != ']' {
				if regex[pos] == '\\' {
					pos++
				}
				pos++
			}
		}
		pos++
	}
	return regex[start+1 : pos]
}

// joinMatches coalesces adjacent Match nodes into a single Match sequence,
// mirroring gossyp's LexTool::join_matches post-pass.
func joinMatches(pats []Pattern) []Pattern {
	out := make([]Pattern, 0, len(pats))
	for _, p := range pats {
		if m, ok := p.(Match); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(Match); ok {
				combined := append(append([]rune{}, prev.Runes...), m.Runes...)
				out[len(out)-1] = Match{Runes: combined}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func patternForChars(regex []rune) Pattern {
	var pattern []Pattern
	var orPositions []int

	pos := 0
	n := len(regex)

	for pos < n {
		switch regex[pos] {
		case '\\':
			pos++
			if pos < n {
				pattern = append(pattern, specialPattern(regex[pos]))
			}

		case '.':
			pattern = append(pattern, MatchRange{Lo: minCodePoint, Hi: maxCodePoint})

		case '*':
			if len(pattern) > 0 {
				last := pattern[len(pattern)-1]
				pattern[len(pattern)-1] = RepeatInfinite{Min: 0, Inner: last}
			}

		case '+':
			if len(pattern) > 0 {
				last := pattern[len(pattern)-1]
				pattern[len(pattern)-1] = RepeatInfinite{Min: 1, Inner: last}
			}

		case '?':
			if len(pattern) > 0 {
				last := pattern[len(pattern)-1]
				pattern[len(pattern)-1] = Repeat{Min: 0, Max: 1, Inner: last}
			}

		case '[':
			pos++
			negate := false
			if pos < n && regex[pos] == '^' {
				negate = true
				pos++
			}

			var ranges [][2]rune
			var lastChar *rune
			for pos < n && regex[pos] != ']' {
				next := regex[pos]
				if next == '\\' && pos+1 < n {
					pos++
					next = specialChar(regex[pos])
				}

				if next == '-' && lastChar != nil && pos < n-1 {
					pos++
					final := regex[pos]
					ranges[len(ranges)-1] = [2]rune{*lastChar, final}
					lastChar = nil
				} else {
					c := next
					lastChar = &c
					ranges = append(ranges, [2]rune{next, next})
				}
				pos++
			}

			if negate {
				pattern = append(pattern, negateRanges(ranges))
			} else if len(ranges) == 1 {
				pattern = append(pattern, MatchRange{Lo: ranges[0][0], Hi: ranges[0][1]})
			} else {
				alts := make([]Pattern, len(ranges))
				for i, r := range ranges {
					alts[i] = MatchRange{Lo: r[0], Hi: r[1]}
				}
				pattern = append(pattern, MatchAny{Alternatives: alts})
			}

		case '|':
			orPositions = append(orPositions, len(pattern))

		case '(':
			sub := getSubpattern(regex, pos)
			pattern = append(pattern, patternForChars(sub))
			pos += len(sub) + 1

		default:
			pattern = append(pattern, Match{Runes: []rune{regex[pos]}})
		}

		pos++
	}

	offset := 0
	for _, orPos := range orPositions {
		if orPos > 0 {
			actual := orPos - offset
			if actual >= 1 && actual < len(pattern) {
				left, right := pattern[actual-1], pattern[actual]
				pattern = append(pattern[:actual], pattern[actual+1:]...)
				pattern[actual-1] = MatchAny{Alternatives: []Pattern{left, right}}
				offset++
			}
		}
	}

	pattern = joinMatches(pattern)

	switch len(pattern) {
	case 0:
		return Epsilon{}
	case 1:
		return pattern[0]
	default:
		return MatchAll{Sequence: pattern}
	}
}

// negateRanges computes the complement of the given ranges over the full
// code-point space, splitting the excluded ranges out, per spec.md §4.4
// ("negation computes the complement over the full Unicode code-point
// range, split across excluded ranges").
func negateRanges(excluded [][2]rune) Pattern {
	// normalise and sort by Lo
	sorted := append([][2]rune{}, excluded...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j][0] < sorted[j-1][0]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var alts []Pattern
	cur := minCodePoint
	for _, r := range sorted {
		lo, hi := r[0], r[1]
		if lo > cur {
			alts = append(alts, MatchRange{Lo: cur, Hi: lo - 1})
		}
		if hi+1 > cur {
			cur = hi + 1
		}
	}
	if cur <= maxCodePoint {
		alts = append(alts, MatchRange{Lo: cur, Hi: maxCodePoint})
	}

	switch len(alts) {
	case 0:
		// matches nothing: an empty character class is modelled as a range
		// that can never match.
		return MatchRange{Lo: 1, Hi: 0}
	case 1:
		return alts[0]
	default:
		return MatchAny{Alternatives: alts}
	}
}
