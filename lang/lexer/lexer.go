// Package lexer turns script source text into lang/token.Token values,
// bridging internal/regexpat's generic DFA tokenizer (the engine the
// lex-script meta-tool also drives) to this specific grammar's fixed token
// set (spec.md §4.5/§6).
package lexer

import (
	"strings"
	"sync"

	"github.com/mna/toolrun/internal/regexpat"
	"github.com/mna/toolrun/lang/token"
)

var metaChars = "\\.*+?|()[]"

func escapeLiteral(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if strings.ContainsRune(metaChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// rules builds the fixed rule set for this grammar: identifiers (keyword
// reclassification happens after lexing, via token.Keywords), numbers,
// strings, whitespace, comments, and every symbol spelling, longest first
// so greedy DFA matching combined with earliest-rule-wins tie-breaking
// prefers e.g. "==" over two "=" symbols (spec.md §4.5).
func rules() []regexpat.Rule {
	// internal/regexpat's '|' joins only the single atoms on either side, so
	// multi-atom alternatives are grouped; and a '-' before ']' reads as a
	// range, so the identifier class lists its literal '-' first.
	rs := []regexpat.Rule{
		{Name: "ident", Regex: `[a-zA-Z_][-a-zA-Z0-9_]*`},
		{Name: "hexnumber", Regex: `0(x|X)[0-9a-fA-F]+`},
		{Name: "number", Regex: `([0-9]+(\.[0-9]+)?((e|E)(\+|-)?[0-9]+)?)|(\.[0-9]+((e|E)(\+|-)?[0-9]+)?)`},
		{Name: "string", Regex: `"((\\.)|[^"\\])*"`},
		{Name: "comment", Regex: `//[^\n]*`},
		{Name: "newline", Regex: `\n`},
		// Excludes \n: \w (internal/regexpat's whitespace class) matches it
		// too, and under longest-match a run like "\n  " would otherwise beat
		// the single-character "newline" rule and swallow the statement
		// separator into a WHITESPACE token.
		{Name: "whitespace", Regex: `[ \t\r]+`},
	}
	for _, sym := range token.Symbols {
		rs = append(rs, regexpat.Rule{Name: "symbol:" + sym.Text, Regex: escapeLiteral(sym.Text)})
	}
	return rs
}

var (
	lexerOnce sync.Once
	sharedLex *regexpat.Lexer
)

func shared() *regexpat.Lexer {
	lexerOnce.Do(func() { sharedLex = regexpat.Compile(rules()) })
	return sharedLex
}

// Error reports source text that no rule could consume.
type Error struct {
	Rest string
}

func (e *Error) Error() string { return "no lexical rule matches remaining input: " + e.Rest }

// Tokenize lexes src into a token stream, reclassifying identifier-shaped
// spans that match a reserved word, and resolving symbol spellings to
// their Kind via the "symbol:<text>" rule-name convention rules() builds.
func Tokenize(src string) ([]token.Token, error) {
	raw, rest := shared().Tokenize(src)
	if rest != "" {
		return nil, &Error{Rest: rest}
	}

	out := make([]token.Token, len(raw))
	for i, t := range raw {
		out[i] = token.Token{
			Kind:  kindOf(t),
			Text:  t.Matched,
			Start: token.Pos(t.Start),
			End:   token.Pos(t.End),
		}
	}
	return out, nil
}

func kindOf(t regexpat.Token) token.Kind {
	return KindForRuleName(t.Name, t.Matched)
}

// KindForRuleName maps a lex rule name (one of rules()' own names, the
// convention a lex-script caller is expected to follow when it wants its
// output consumable by lang/parser) plus the matched text to a Kind.
// Exported so internal/metatools' parse-script can decode a generic
// lex-tool output array the same way this package's own Tokenize does.
func KindForRuleName(name, matched string) token.Kind {
	switch name {
	case "ident":
		if kw, ok := token.Keywords[matched]; ok {
			return kw
		}
		return token.IDENT
	case "hexnumber":
		return token.HEXNUMBER
	case "number":
		return token.NUMBER
	case "string":
		return token.STRING
	case "comment":
		return token.COMMENT
	case "newline":
		return token.NEWLINE
	case "whitespace":
		return token.WHITESPACE
	default:
		for _, sym := range token.Symbols {
			if name == "symbol:"+sym.Text {
				return sym.Kind
			}
		}
		return token.ILLEGAL
	}
}

// Rules exposes the fixed rule set as lex-script symbols, so
// create-evaluator-with-state-style wiring (or a caller) can rebuild this
// grammar's lexer purely through lex-script instead of lang/lexer.Tokenize
// directly.
func Rules() []regexpat.Rule { return rules() }
