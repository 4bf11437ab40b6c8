package translator

import (
	"errors"
	"fmt"

	"github.com/shibukawa/tacc/tokenizer"
)

// Sentinel errors
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrNestingTooDeep  = errors.New("nesting too deep")
)

// ParseError reports a required token kind that was absent, or a statement or
// expression that started with a token that begins no valid production.
type ParseError struct {
	// Expected describes what the grammar required: a token kind ("SEMI"), a
	// keyword ("while") or a production ("factor", "statement").
	Expected string
	// Found is the offending token, nil when the input ended.
	Found *tokenizer.Token
}

func (e *ParseError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("syntax error: expected %s, found end of input", e.Expected)
	}

	return fmt.Sprintf("syntax error: expected %s, found %s %q at %s",
		e.Expected, e.Found.Type, e.Found.Value, e.Found.Position)
}

func (e *ParseError) Unwrap() error {
	if e.Found == nil {
		return ErrUnexpectedEOF
	}

	return ErrUnexpectedToken
}

// DepthError reports nesting of blocks, parentheses, not or unary minus beyond the limit.
type DepthError struct {
	Limit    int
	Position tokenizer.Position
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: more than %d levels at %s", ErrNestingTooDeep, e.Limit, e.Position)
}

func (e *DepthError) Unwrap() error {
	return ErrNestingTooDeep
}
