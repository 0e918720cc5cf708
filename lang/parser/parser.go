// Package parser implements the recursive-descent parser of spec.md §4.5,
// turning the lex-script token array into the ast.Script parse tree.
// Structurally it follows the teacher's lang/parser package (a cursor over
// a token stream with accept/expect helpers), adapted to a grammar that is
// closed and fixed rather than extensible.
package parser

import (
	"fmt"

	"github.com/mna/toolrun/lang/ast"
	"github.com/mna/toolrun/lang/token"
)

// Error is the parse error shape of spec.md §4.5/§7: a human message plus
// the token stream remaining from the point of failure, for diagnostics.
type Error struct {
	Message   string
	Remaining []token.Token
}

func (e *Error) Error() string { return e.Message }

// Parser is a cursor over a pre-lexed token stream. Whitespace and Comment
// tokens are skipped transparently by peek/advance; Newline tokens remain
// visible since they separate statements at the top level.
type Parser struct {
	toks []token.Token
	pos  int
}

// New builds a Parser over toks, typically the lex-script tool's output
// translated into lang/token.Token values.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

func (p *Parser) skipInvisible() {
	for p.pos < len(p.toks) && !p.toks[p.pos].IsVisible() {
		p.pos++
	}
}

func (p *Parser) peek() token.Token {
	p.skipInvisible()
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) accept(kind token.Kind) (token.Token, bool) {
	if p.peek().Kind == kind {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if t, ok := p.accept(kind); ok {
		return t, nil
	}
	got := p.peek()
	return token.Token{}, p.errf("expected %s, got %s", kind, got.Kind)
}

func (p *Parser) errf(format string, args ...any) error {
	return &Error{
		Message:   fmt.Sprintf(format, args...),
		Remaining: append([]token.Token{}, p.toks[p.pos:]...),
	}
}

func (p *Parser) skipNewlines() {
	for {
		if _, ok := p.accept(token.NEWLINE); !ok {
			return
		}
	}
}

// ParseScript parses the full token stream as a sequence of statements
// until EOF, per the top-level Statement* grammar.
func ParseScript(toks []token.Token) (ast.Script, error) {
	p := New(toks)
	var stmts []ast.Script
	p.skipNewlines()
	for p.peek().Kind != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	return &ast.Sequence{Stmts: stmts}, nil
}

// parseStatement implements the Statement production of spec.md §4.5.
func (p *Parser) parseStatement() (ast.Script, error) {
	p.skipNewlines()

	switch p.peek().Kind {
	case token.LET:
		return p.parseLet()
	case token.VAR:
		return p.parseVar()
	case token.DEF:
		return p.parseDef()
	case token.IF:
		return p.parseIf()
	case token.USING:
		return p.parseUsing()
	case token.WHILE:
		return p.parseWhile()
	case token.LOOP:
		return p.parseLoop()
	case token.FOR:
		return p.parseFor()
	default:
		return p.parseCommandOrAssign()
	}
}

func (p *Parser) parseLet() (ast.Script, error) {
	p.advance() // "let"
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name, Value: val}, nil
}

func (p *Parser) parseVar() (ast.Script, error) {
	p.advance() // "var"
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQ); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Value: val}, nil
}

func (p *Parser) parseBlock() (ast.Script, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Script
	p.skipNewlines()
	for p.peek().Kind != token.RBRACE {
		if p.peek().Kind == token.EOF {
			return nil, p.errf("unexpected end of file inside block")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	p.advance() // "}"
	return &ast.Sequence{Stmts: stmts}, nil
}

func (p *Parser) parseIf() (ast.Script, error) {
	p.advance() // "if"
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody ast.Script
	p.skipNewlines()
	if _, ok := p.accept(token.ELSE); ok {
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBody}, nil
}

func (p *Parser) parseUsing() (ast.Script, error) {
	p.advance() // "using"
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Using{Expr: expr, Body: body}, nil
}

func (p *Parser) parseWhile() (ast.Script, error) {
	p.advance() // "while"
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseLoop() (ast.Script, error) {
	p.advance() // "loop"
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Body: body}, nil
}

func (p *Parser) parseFor() (ast.Script, error) {
	p.advance() // "for"
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iter, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Name: name, Iter: iter, Body: body}, nil
}

func (p *Parser) parseDef() (ast.Script, error) {
	p.advance() // "def"
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var pattern []token.Token
	if p.peek().Kind != token.RPAREN {
		for {
			param, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			pattern = append(pattern, param)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Def{Name: name, Pattern: pattern, Body: body}, nil
}

// parseCommandOrAssign distinguishes Command from Assign by lookahead,
// per spec.md §4.5: after the leading Identifier, "=" means Assign.
func (p *Parser) parseCommandOrAssign() (ast.Script, error) {
	if p.peek().Kind == token.IDENT {
		save := p.pos
		name := p.advance()
		if _, ok := p.accept(token.EQ); ok {
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Name: name, Value: val}, nil
		}
		p.pos = save
	}
	return p.parseCommand()
}

// parseCommand implements `Command := Expression [ Expression ]`: an
// invocation with an optional trailing argument. A command whose leading
// expression is already an Apply refuses a trailing argument.
func (p *Parser) parseCommand() (ast.Script, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case token.NEWLINE, token.EOF, token.RBRACE:
		return &ast.RunCommand{Expr: expr}, nil
	}

	if _, isApply := expr.(*ast.Apply); isApply {
		return nil, p.errf("unexpected %s after command", p.peek().Kind)
	}

	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch p.peek().Kind {
	case token.NEWLINE, token.EOF, token.RBRACE:
	default:
		return nil, p.errf("unexpected %s after command", p.peek().Kind)
	}

	return &ast.RunCommand{Expr: &ast.Apply{Callee: expr, Args: arg}}, nil
}

// applyArgs builds the Args expression of an Apply from a parsed argument
// list: a single argument is passed as-is (not wrapped in a one-element
// Tuple), matching gossyp's apply(&(tool, parameters)), which passes the
// lone parameter expression directly rather than a single-element tuple.
func applyArgs(args []ast.Expression) ast.Expression {
	if len(args) == 1 {
		return args[0]
	}
	return &ast.TupleLit{Elems: args}
}

// parseExpression implements `Expression := Primary ExprRhs*`.
func (p *Parser) parseExpression() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Kind {
		case token.DOT:
			p.advance()
			// The grammar writes "." Expression, but spec.md's invariant
			// restricts the right-hand side to an Identifier; parsing just
			// the identifier (rather than a full recursive Expression) keeps
			// "." left-associative with the rest of ExprRhs, e.g. a.b.c binds
			// as (a.b).c, not a.(b.c).
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, p.errf("field access right-hand side must be an identifier")
			}
			expr = &ast.FieldAccess{Target: expr, Field: &ast.Ident{Tok: name}}

		case token.LBRACK:
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACK); err != nil {
				return nil, err
			}
			expr = &ast.Index{Target: expr, Key: idx}

		case token.LPAREN:
			args, err := p.parseArrayBody(token.LPAREN, token.RPAREN)
			if err != nil {
				return nil, err
			}
			expr = &ast.Apply{Callee: expr, Args: applyArgs(args)}

		default:
			return expr, nil
		}
	}
}

// parsePrimary implements the Primary production.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.peek().Kind {
	case token.LBRACK:
		elems, err := p.parseArrayBody(token.LBRACK, token.RBRACK)
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLit{Elems: elems}, nil

	case token.LPAREN:
		elems, err := p.parseArrayBody(token.LPAREN, token.RPAREN)
		if err != nil {
			return nil, err
		}
		if len(elems) == 1 {
			return elems[0], nil
		}
		return &ast.TupleLit{Elems: elems}, nil

	case token.LBRACE:
		return p.parseMapBody()

	case token.IDENT:
		return &ast.Ident{Tok: p.advance()}, nil

	case token.NUMBER, token.HEXNUMBER:
		return &ast.NumberLit{Tok: p.advance()}, nil

	case token.STRING:
		return &ast.StringLit{Tok: p.advance()}, nil

	default:
		return nil, p.errf("unexpected %s", p.peek().Kind)
	}
}

// parseArrayBody implements `ArrayBody := ( Expression ( "," Expression )* )?`
// between a pair of brackets, with newlines ignored within.
func (p *Parser) parseArrayBody(open, close token.Kind) ([]ast.Expression, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var elems []ast.Expression
	if p.peek().Kind != close {
		for {
			p.skipNewlines()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			p.skipNewlines()
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			p.skipNewlines()
		}
	}
	p.skipNewlines()
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return elems, nil
}

// parseMapBody implements `MapBody := ( Expression ":" Expression ( "," ... )* )?`.
func (p *Parser) parseMapBody() (ast.Expression, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	p.skipNewlines()

	var pairs []ast.MapPair
	if p.peek().Kind != token.RBRACE {
		for {
			p.skipNewlines()
			key, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			val, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, ast.MapPair{Key: key, Value: val})
			p.skipNewlines()
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			p.skipNewlines()
		}
	}
	p.skipNewlines()
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.MapLit{Pairs: pairs}, nil
}
