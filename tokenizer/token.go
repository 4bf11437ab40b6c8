package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Literals and names
	NUMBER     TokenType = iota // 12, 3.5, 1e10
	IDENTIFIER                  // x, total_1
	KEYWORD                     // let, if, else, while, print, true, false, not, and, or

	// Relational operators
	EQ // ==
	NE // !=
	LE // <=
	GE // >=

	ASSIGN // =
	LT     // <
	GT     // >

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	MULT  // *
	DIV   // /

	// Delimiters
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }
	SEMI   // ;
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case NUMBER:
		return "NUMBER"
	case IDENTIFIER:
		return "IDENTIFIER"
	case KEYWORD:
		return "KEYWORD"
	case EQ:
		return "EQ"
	case NE:
		return "NE"
	case LE:
		return "LE"
	case GE:
		return "GE"
	case ASSIGN:
		return "ASSIGN"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case MULT:
		return "MULT"
	case DIV:
		return "DIV"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case SEMI:
		return "SEMI"
	default:
		return "UNKNOWN"
	}
}

// IsRelational reports whether the token type is one of the comparison operators.
func (t TokenType) IsRelational() bool {
	switch t {
	case EQ, NE, LE, GE, LT, GT:
		return true
	default:
		return false
	}
}

// Keywords is the fixed set of reserved words.
var Keywords = map[string]struct{}{
	"let":   {},
	"if":    {},
	"else":  {},
	"while": {},
	"print": {},
	"true":  {},
	"false": {},
	"not":   {},
	"and":   {},
	"or":    {},
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	_, ok := Keywords[word]
	return ok
}

// Position represents a position in the source code.
// Line and Column are 1-based (Column counts runes), Offset is the 0-based byte offset.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// Is reports whether the token is the given keyword.
func (t Token) Is(keyword string) bool {
	return t.Type == KEYWORD && t.Value == keyword
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// LexError is returned when the input at Position matches no lexical pattern.
type LexError struct {
	Position Position
	Char     rune
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s %q at offset %d (line %d, column %d)", ErrUnexpectedCharacter, e.Char, e.Position.Offset, e.Position.Line, e.Position.Column)
}

func (e *LexError) Unwrap() error {
	return ErrUnexpectedCharacter
}
