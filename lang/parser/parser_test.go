package parser_test

import (
	"testing"

	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/parser"
	"github.com/mna/toolrun/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text}
}

func identToks(names ...string) []token.Token {
	var out []token.Token
	for i, n := range names {
		if i > 0 {
			out = append(out, tok(token.COMMA, ","))
		}
		out = append(out, tok(token.IDENT, n))
	}
	return out
}

func TestParseLet(t *testing.T) {
	toks := []token.Token{
		tok(token.LET, "let"), tok(token.IDENT, "x"), tok(token.EQ, "="), tok(token.NUMBER, "1"),
	}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	s := seq.(*ast.Sequence)
	require.Len(t, s.Stmts, 1)
	let, ok := s.Stmts[0].(*ast.Let)
	require.True(t, ok)
	assert.Equal(t, "x", let.Name.Text)
}

func TestParseAssignVsCommand(t *testing.T) {
	toks := []token.Token{tok(token.IDENT, "x"), tok(token.EQ, "="), tok(token.NUMBER, "2")}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	_, ok := seq.(*ast.Sequence).Stmts[0].(*ast.Assign)
	assert.True(t, ok)

	toks2 := []token.Token{tok(token.IDENT, "print"), tok(token.STRING, `"hi"`)}
	seq2, err := parser.ParseScript(toks2)
	require.NoError(t, err)
	cmd, ok := seq2.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	require.True(t, ok)
	apply, ok := cmd.Expr.(*ast.Apply)
	require.True(t, ok)
	lit, ok := apply.Args.(*ast.StringLit)
	require.True(t, ok)
	assert.Equal(t, `"hi"`, lit.Tok.Text)
}

func TestApplyThenExtraArgIsParseError(t *testing.T) {
	toks := []token.Token{
		tok(token.IDENT, "f"), tok(token.LPAREN, "("), tok(token.IDENT, "x"), tok(token.RPAREN, ")"),
		tok(token.IDENT, "y"),
	}
	_, err := parser.ParseScript(toks)
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
}

func TestFieldAccessLeftAssociative(t *testing.T) {
	toks := []token.Token{
		tok(token.IDENT, "a"), tok(token.DOT, "."), tok(token.IDENT, "b"), tok(token.DOT, "."), tok(token.IDENT, "c"),
	}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	cmd := seq.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	outer, ok := cmd.Expr.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "c", outer.Field.(*ast.Ident).Tok.Text)
	inner, ok := outer.Target.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "b", inner.Field.(*ast.Ident).Tok.Text)
}

func TestParenSingleVsTuple(t *testing.T) {
	toks := []token.Token{tok(token.LPAREN, "("), tok(token.IDENT, "x"), tok(token.RPAREN, ")")}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	cmd := seq.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	_, ok := cmd.Expr.(*ast.Ident)
	assert.True(t, ok)

	toks2 := []token.Token{
		tok(token.LPAREN, "("), tok(token.IDENT, "x"), tok(token.COMMA, ","), tok(token.IDENT, "y"), tok(token.RPAREN, ")"),
	}
	seq2, err := parser.ParseScript(toks2)
	require.NoError(t, err)
	cmd2 := seq2.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	tuple, ok := cmd2.Expr.(*ast.TupleLit)
	require.True(t, ok)
	assert.Len(t, tuple.Elems, 2)

	toks3 := []token.Token{tok(token.LPAREN, "("), tok(token.RPAREN, ")")}
	seq3, err := parser.ParseScript(toks3)
	require.NoError(t, err)
	cmd3 := seq3.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	tuple3, ok := cmd3.Expr.(*ast.TupleLit)
	require.True(t, ok)
	assert.Empty(t, tuple3.Elems)
}

func TestIfElseBlock(t *testing.T) {
	toks := []token.Token{
		tok(token.IF, "if"), tok(token.IDENT, "cond"),
		tok(token.LBRACE, "{"), tok(token.IDENT, "x"), tok(token.EQ, "="), tok(token.NUMBER, "1"), tok(token.RBRACE, "}"),
		tok(token.ELSE, "else"),
		tok(token.LBRACE, "{"), tok(token.IDENT, "x"), tok(token.EQ, "="), tok(token.NUMBER, "2"), tok(token.RBRACE, "}"),
	}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	ifStmt, ok := seq.(*ast.Sequence).Stmts[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
}

func TestDefParamList(t *testing.T) {
	toks := append([]token.Token{tok(token.DEF, "def"), tok(token.IDENT, "f"), tok(token.LPAREN, "(")},
		append(identToks("a", "b"), tok(token.RPAREN, ")"), tok(token.LBRACE, "{"), tok(token.RBRACE, "}"))...)
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	def, ok := seq.(*ast.Sequence).Stmts[0].(*ast.Def)
	require.True(t, ok)
	assert.Equal(t, "f", def.Name.Text)
	require.Len(t, def.Pattern, 2)
	assert.Equal(t, "a", def.Pattern[0].Text)
	assert.Equal(t, "b", def.Pattern[1].Text)
}

func TestMapLiteral(t *testing.T) {
	toks := []token.Token{
		tok(token.LBRACE, "{"), tok(token.STRING, `"k"`), tok(token.COLON, ":"), tok(token.NUMBER, "1"), tok(token.RBRACE, "}"),
	}
	seq, err := parser.ParseScript(toks)
	require.NoError(t, err)
	cmd := seq.(*ast.Sequence).Stmts[0].(*ast.RunCommand)
	m, ok := cmd.Expr.(*ast.MapLit)
	require.True(t, ok)
	require.Len(t, m.Pairs, 1)
}
