package regexpat

import "unicode/utf8"

// Rule is one named match rule, as given to the lex-script meta-tool.
type Rule struct {
	Name  string
	Regex string
}

// Lexer is a compiled set of priority-ordered rules ready to tokenize
// strings, per spec.md §4.4.
type Lexer struct {
	names []string
	dfa   *DFA
}

// Compile parses every rule's regex into a Pattern and determinizes the
// combined set into a single DFA.
func Compile(rules []Rule) *Lexer {
	patterns := make([]Pattern, len(rules))
	names := make([]string, len(rules))
	for i, r := range rules {
		patterns[i] = ParsePattern(r.Regex)
		names[i] = r.Name
	}
	return &Lexer{names: names, dfa: BuildDFA(patterns)}
}

// Token is one emitted lexer match: the rule name, the matched text, and
// its byte offsets into the original string.
type Token struct {
	Name    string
	Matched string
	Start   int
	End     int
}

// Tokenize runs the DFA forward from the start of input, repeatedly
// emitting the longest accepted match (earliest rule wins ties) and
// advancing past it, per spec.md §4.4 steps 1-3. If no accept is seen from
// some position, tokenizing stops there and the remainder is returned as
// Rest (step 4: undefined behaviour at the spec level; this implementation
// chooses to stop rather than skip or panic).
func (l *Lexer) Tokenize(input string) (tokens []Token, rest string) {
	runes := []rune(input)
	byteOffsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		byteOffsets[i] = pos
		pos += utf8.RuneLen(r)
	}
	byteOffsets[len(runes)] = pos

	i := 0
	for i < len(runes) {
		length, patternIdx, ok := l.dfa.Match(runes[i:])
		if !ok {
			return tokens, input[byteOffsets[i]:]
		}
		start := byteOffsets[i]
		end := byteOffsets[i+length]
		tokens = append(tokens, Token{
			Name:    l.names[patternIdx],
			Matched: input[start:end],
			Start:   start,
			End:     end,
		})
		if length == 0 {
			// a zero-width accept could loop forever; advance one code point.
			i++
			continue
		}
		i += length
	}
	return tokens, ""
}
