package parser

import (
	"fmt"
	"strings"

	cerrors "github.com/bootc/pdbquery/compiler/errors"
	"github.com/bootc/pdbquery/compiler/lexer"
)

// Parser is a hand-rolled recursive-descent parser over a token slice, with
// a precedence-climbing expression parser for the four-tier operator
// ladder (OR, AND, comparison, NOT). There is no LALR table to build: this
// grammar is small enough that a table automaton buys nothing an example
// repo in the pack demonstrates, and every comparable grammar in the pack
// (the teacher's compiler/parser, oarkflow/sqlparser) is hand-rolled the
// same way.
type Parser struct {
	tokens  []lexer.Token
	current int
	file    string
}

// New creates a Parser over a token stream produced by lexer.ScanTokens.
func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// Parse parses the `query` start symbol: an optional expression. Empty
// input (only an EOF token) yields a Query with a nil Expr.
func (p *Parser) Parse() (*Query, error) {
	if p.check(lexer.EOF) {
		return &Query{}, nil
	}
	expr, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.EOF) {
		return nil, p.errorAtCurrent(fmt.Sprintf("unexpected token %s", p.peek().Lexeme))
	}
	return &Query{Expr: expr}, nil
}

// ParseIdentifierPath parses the alternate start symbol `identifier_path`,
// used by query_fact_contents to compile a bare dotted path with no
// surrounding comparison.
func (p *Parser) ParseIdentifierPath() (*IdentifierPath, error) {
	path, err := p.parseIdentifierPath()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.EOF) {
		return nil, p.errorAtCurrent(fmt.Sprintf("unexpected token %s", p.peek().Lexeme))
	}
	return path, nil
}

// precedence tiers, lowest to highest, per spec: OR < AND < comparison < NOT.
type precedence int

const (
	precOr precedence = iota
	precAnd
	precComparison
	precUnary
)

func (p *Parser) parseExpr(min precedence) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case min <= precOr && p.check(lexer.OR):
			p.advance()
			right, err := p.parseExpr(precAnd)
			if err != nil {
				return nil, err
			}
			left = &OrExpression{Left: left, Right: right}
		case min <= precAnd && p.check(lexer.AND):
			p.advance()
			right, err := p.parseExpr(precComparison)
			if err != nil {
				return nil, err
			}
			left = &AndExpression{Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// parseUnary handles NOT (highest precedence, right-associative) and falls
// through to a primary production otherwise.
func (p *Parser) parseUnary() (Node, error) {
	if p.check(lexer.NOT) {
		p.advance()
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpression{Expr: child}, nil
	}
	return p.parsePrimary()
}

// parsePrimary dispatches across the primary productions of `expr`:
// parenthesized groups, resource expressions, subqueries, and the
// comparison_expr / identifier_path alternatives, which share a common
// identifier_path prefix and so must be disambiguated by lookahead.
func (p *Parser) parsePrimary() (Node, error) {
	switch {
	case p.check(lexer.LPAREN):
		p.advance()
		inner, err := p.parseExpr(precOr)
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(lexer.RPAREN, "expected ')'"); err != nil {
			return nil, err
		}
		return &ParenthesizedExpression{Expr: inner}, nil

	case p.check(lexer.EXPORTED):
		return p.parseResource(true)

	case p.check(lexer.HASH):
		return p.parseSubquery()

	case p.isResourceStart():
		return p.parseResource(false)

	default:
		path, err := p.parseIdentifierPath()
		if err != nil {
			return nil, err
		}
		if op, ok := p.cmpOp(); ok {
			p.advance()
			right, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			return &Comparison{Operator: op, Left: path, Right: right}, nil
		}
		return &RegexpNodeMatch{Path: path}, nil
	}
}

// isResourceStart reports whether the upcoming tokens look like
// `STRING [ identifier ]`, the shape unique to resource_expr, so it can be
// distinguished from a plain identifier_path/comparison_expr without
// backtracking.
func (p *Parser) isResourceStart() bool {
	if !p.check(lexer.STRING) {
		return false
	}
	return p.checkAt(1, lexer.LBRACK)
}

func (p *Parser) parseResource(exported bool) (Node, error) {
	if exported {
		if _, err := p.consume(lexer.EXPORTED, "expected '@@'"); err != nil {
			return nil, err
		}
	}
	typeTok, err := p.consume(lexer.STRING, "expected resource type")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.LBRACK, "expected '['"); err != nil {
		return nil, err
	}
	title, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RBRACK, "expected ']'"); err != nil {
		return nil, err
	}

	res := &Resource{Type: typeTok.Lexeme, Title: title, Exported: exported}
	if p.check(lexer.LBRACE) {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		res.Params = block
	}
	return res, nil
}

func (p *Parser) parseSubquery() (Node, error) {
	if _, err := p.consume(lexer.HASH, "expected '#'"); err != nil {
		return nil, err
	}
	endpointTok, err := p.consume(lexer.STRING, "expected subquery endpoint")
	if err != nil {
		return nil, err
	}

	if p.check(lexer.LBRACE) {
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &Subquery{Endpoint: endpointTok.Lexeme, Expr: block}, nil
	}

	if _, err := p.consume(lexer.DOT, "expected '.' or '{' after subquery endpoint"); err != nil {
		return nil, err
	}
	path, err := p.parseIdentifierPath()
	if err != nil {
		return nil, err
	}
	op, ok := p.cmpOp()
	if !ok {
		return nil, p.errorAtCurrent("expected comparison operator in subquery")
	}
	p.advance()
	right, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	cmp := &Comparison{Operator: op, Left: path, Right: right}
	return &Subquery{Endpoint: endpointTok.Lexeme, Expr: cmp}, nil
}

func (p *Parser) parseBlock() (*BlockExpression, error) {
	if _, err := p.consume(lexer.LBRACE, "expected '{'"); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr(precOr)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RBRACE, "expected '}'"); err != nil {
		return nil, err
	}
	return &BlockExpression{Expr: inner}, nil
}

func (p *Parser) parseIdentifierPath() (*IdentifierPath, error) {
	first, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	path := NewIdentifierPath(first)
	for p.check(lexer.DOT) {
		p.advance()
		next, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		path.Append(next)
	}
	return path, nil
}

func (p *Parser) parseIdentifier() (Node, error) {
	switch {
	case p.check(lexer.STRING):
		tok := p.advance()
		return &Identifier{Name: tok.Literal}, nil
	case p.check(lexer.NUMBER):
		tok := p.advance()
		return &Identifier{Name: tok.Literal}, nil
	case p.check(lexer.MATCH):
		p.advance()
		tok, err := p.consume(lexer.STRING, "expected regex pattern after '~'")
		if err != nil {
			return nil, err
		}
		return &RegexpIdentifier{Name: tok.Literal.(string)}, nil
	case p.check(lexer.ASTERISK):
		p.advance()
		return &RegexpIdentifier{Name: ".*"}, nil
	default:
		return nil, p.errorAtCurrent("expected identifier")
	}
}

func (p *Parser) parseLiteral() (Node, error) {
	switch {
	case p.check(lexer.BOOLEAN):
		tok := p.advance()
		return &Literal{Kind: LiteralBool, Bool: tok.Literal.(bool)}, nil
	case p.check(lexer.STRING):
		tok := p.advance()
		return &Literal{Kind: LiteralString, Str: tok.Literal.(string)}, nil
	case p.check(lexer.NUMBER):
		tok := p.advance()
		return &Literal{Kind: LiteralInt, Int: tok.Literal.(int64)}, nil
	case p.check(lexer.FLOAT):
		tok := p.advance()
		return &Literal{Kind: LiteralFloat, Flt: tok.Literal.(float64)}, nil
	case p.check(lexer.AT):
		p.advance()
		tok, err := p.consume(lexer.STRING, "expected date string after '@'")
		if err != nil {
			return nil, err
		}
		return &Date{Raw: tok.Literal.(string)}, nil
	default:
		return nil, p.errorAtCurrent("expected literal")
	}
}

// cmpOp reports whether the current token is one of the eight comparison
// operators and, if so, its surface text.
func (p *Parser) cmpOp() (string, bool) {
	switch p.peek().Type {
	case lexer.EQUALS:
		return "=", true
	case lexer.NOTEQUALS:
		return "!=", true
	case lexer.MATCH:
		return "~", true
	case lexer.NOTMATCH:
		return "!~", true
	case lexer.LESSTHAN:
		return "<", true
	case lexer.LESSTHANEQ:
		return "<=", true
	case lexer.GREATERTHAN:
		return ">", true
	case lexer.GREATERTHANEQ:
		return ">=", true
	default:
		return "", false
	}
}

// --- token stream helpers ---

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) checkAt(offset int, t lexer.TokenType) bool {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return false
	}
	return p.tokens[idx].Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.tokens[p.current]
	if tok.Type != lexer.EOF {
		p.current++
	}
	return tok
}

func (p *Parser) consume(t lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAtCurrent(message)
}

func (p *Parser) errorAtCurrent(message string) error {
	tok := p.peek()
	var sb strings.Builder
	sb.WriteString(message)
	if tok.Type != lexer.EOF {
		sb.WriteString(fmt.Sprintf(" (got %q)", tok.Lexeme))
	} else {
		sb.WriteString(" (got end of input)")
	}
	return ParseError{
		Message: sb.String(),
		Location: cerrors.SourceLocation{
			File:   p.file,
			Offset: tok.Start,
			Line:   tok.Line,
			Column: tok.Column,
		},
	}
}
