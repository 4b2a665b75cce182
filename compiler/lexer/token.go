package lexer

import (
	"fmt"

	cerrors "github.com/bootc/pdbquery/compiler/errors"
)

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	LPAREN TokenType = iota
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	EQUALS
	NOTEQUALS
	MATCH
	NOTMATCH
	LESSTHAN
	LESSTHANEQ
	GREATERTHAN
	GREATERTHANEQ
	ASTERISK
	HASH
	DOT
	NOT
	AND
	OR
	EXPORTED
	AT
	BOOLEAN
	NUMBER
	FLOAT
	STRING
	EOF
)

func (t TokenType) String() string {
	switch t {
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACK:
		return "LBRACK"
	case RBRACK:
		return "RBRACK"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case EQUALS:
		return "EQUALS"
	case NOTEQUALS:
		return "NOTEQUALS"
	case MATCH:
		return "MATCH"
	case NOTMATCH:
		return "NOTMATCH"
	case LESSTHAN:
		return "LESSTHAN"
	case LESSTHANEQ:
		return "LESSTHANEQ"
	case GREATERTHAN:
		return "GREATERTHAN"
	case GREATERTHANEQ:
		return "GREATERTHANEQ"
	case ASTERISK:
		return "ASTERISK"
	case HASH:
		return "HASH"
	case DOT:
		return "DOT"
	case NOT:
		return "NOT"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case EXPORTED:
		return "EXPORTED"
	case AT:
		return "AT"
	case BOOLEAN:
		return "BOOLEAN"
	case NUMBER:
		return "NUMBER"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is a single lexical token: a kind, an optional typed value, and a
// source position. Literal holds string, int64, float64 or bool depending
// on Type; it is nil for tokens with no associated value.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
	File    string
	Start   int
	End     int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d:%d]", t.Type, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Line, t.Column)
}

// LexError is a fatal lexical error: an unrecognized character at a given
// byte offset. There is no recovery; lexing stops at the first error.
type LexError struct {
	Message  string
	Location cerrors.SourceLocation
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Offset is a convenience accessor for the byte offset of the error.
func (e LexError) Offset() int {
	return e.Location.Offset
}
