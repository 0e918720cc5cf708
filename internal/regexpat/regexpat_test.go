package regexpat_test

import (
	"testing"

	"github.com/mna/toolrun/internal/regexpat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatternLiteralSequence(t *testing.T) {
	p := regexpat.ParsePattern("abc")
	m, ok := p.(regexpat.Match)
	require.True(t, ok)
	assert.Equal(t, []rune("abc"), m.Runes)
}

func TestParsePatternAlternationAndStar(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "ab-star", Regex: "(a|b)*"},
	})
	toks, rest := l.Tokenize("ababba")
	require.Empty(t, rest)
	require.Len(t, toks, 1)
	assert.Equal(t, "ababba", toks[0].Matched)
}

func TestLexerLongestMatchWins(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "ident", Regex: "[a-z]+"},
		{Name: "single-a", Regex: "a"},
	})
	toks, rest := l.Tokenize("abc")
	require.Empty(t, rest)
	require.Len(t, toks, 1)
	assert.Equal(t, "ident", toks[0].Name)
	assert.Equal(t, "abc", toks[0].Matched)
}

func TestLexerEarlierRuleWinsTies(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "keyword-if", Regex: "if"},
		{Name: "ident", Regex: "[a-z]+"},
	})
	toks, rest := l.Tokenize("if")
	require.Empty(t, rest)
	require.Len(t, toks, 1)
	assert.Equal(t, "keyword-if", toks[0].Name)
}

func TestLexerByteOffsetsAcrossMultibyte(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "word", Regex: "[a-zA-Z]+"},
		{Name: "any", Regex: "."},
	})
	toks, rest := l.Tokenize("café x")
	require.Empty(t, rest)
	require.True(t, len(toks) >= 3)
	assert.Equal(t, "caf", toks[0].Matched)
	assert.Equal(t, 0, toks[0].Start)
	assert.Equal(t, 3, toks[0].End)
	// the 'é' is a single code point but 2 bytes in UTF-8.
	assert.Equal(t, "é", toks[1].Matched)
	assert.Equal(t, 3, toks[1].Start)
	assert.Equal(t, 5, toks[1].End)
}

func TestWhitespaceSpecialClassMatchesUnicodeSpace(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "ws", Regex: `\w+`},
		{Name: "word", Regex: "[a-z]+"},
	})
	toks, rest := l.Tokenize("ab  \tcd")
	require.Empty(t, rest)
	require.Len(t, toks, 3)
	assert.Equal(t, "ab", toks[0].Matched)
	assert.Equal(t, "ws", toks[1].Name)
	assert.Equal(t, "cd", toks[2].Matched)
}

func TestCharacterClassRangeAndNegation(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "digits", Regex: "[0-9]+"},
		{Name: "non-digit", Regex: "[^0-9]+"},
	})
	toks, rest := l.Tokenize("123abc456")
	require.Empty(t, rest)
	require.Len(t, toks, 3)
	assert.Equal(t, "123", toks[0].Matched)
	assert.Equal(t, "non-digit", toks[1].Name)
	assert.Equal(t, "abc", toks[1].Matched)
	assert.Equal(t, "456", toks[2].Matched)
}

func TestOptionalOperator(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "colour", Regex: "colou?r"},
	})
	for _, in := range []string{"color", "colour"} {
		toks, rest := l.Tokenize(in)
		require.Empty(t, rest)
		require.Len(t, toks, 1)
		assert.Equal(t, in, toks[0].Matched)
	}
}

func TestNoMatchStopsAndReturnsRest(t *testing.T) {
	l := regexpat.Compile([]regexpat.Rule{
		{Name: "digits", Regex: "[0-9]+"},
	})
	toks, rest := l.Tokenize("12#34")
	require.Len(t, toks, 1)
	assert.Equal(t, "12", toks[0].Matched)
	assert.Equal(t, "#34", rest)
}
