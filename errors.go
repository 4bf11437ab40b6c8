package tacc

import (
	"errors"

	"github.com/shibukawa/tacc/tokenizer"
	"github.com/shibukawa/tacc/translator"
)

// Common errors used throughout the tacc package
var (
	// ErrEmptySource is returned by RequireSource for blank input.
	ErrEmptySource = errors.New("source is empty")
)

// ErrorKind classifies a compile error.
type ErrorKind string

const (
	// ErrorKindNone means err is nil or not a compile error.
	ErrorKindNone ErrorKind = ""
	// ErrorKindLex is a *tokenizer.LexError.
	ErrorKindLex ErrorKind = "lex"
	// ErrorKindParse is a *translator.ParseError.
	ErrorKindParse ErrorKind = "parse"
	// ErrorKindDepth is a *translator.DepthError.
	ErrorKindDepth ErrorKind = "depth"
)

// Label returns the display prefix of the error kind.
func (k ErrorKind) Label() string {
	switch k {
	case ErrorKindLex:
		return "Lex Error"
	case ErrorKindParse:
		return "Syntax Error"
	case ErrorKindDepth:
		return "Nesting Error"
	default:
		return "Error"
	}
}

// KindOf classifies err.
func KindOf(err error) ErrorKind {
	var (
		lexErr   *tokenizer.LexError
		parseErr *translator.ParseError
		depthErr *translator.DepthError
	)

	switch {
	case err == nil:
		return ErrorKindNone
	case errors.As(err, &lexErr):
		return ErrorKindLex
	case errors.As(err, &parseErr):
		return ErrorKindParse
	case errors.As(err, &depthErr):
		return ErrorKindDepth
	default:
		return ErrorKindNone
	}
}

// IsCompileError reports whether err came from tokenizing or translating source.
func IsCompileError(err error) bool {
	return KindOf(err) != ErrorKindNone
}

// PositionOf returns the source position a compile error points at. A parse
// error at end of input has no position.
func PositionOf(err error) (tokenizer.Position, bool) {
	var (
		lexErr   *tokenizer.LexError
		parseErr *translator.ParseError
		depthErr *translator.DepthError
	)

	switch {
	case errors.As(err, &lexErr):
		return lexErr.Position, true
	case errors.As(err, &parseErr):
		if parseErr.Found == nil {
			return tokenizer.Position{}, false
		}

		return parseErr.Found.Position, true
	case errors.As(err, &depthErr):
		return depthErr.Position, true
	default:
		return tokenizer.Position{}, false
	}
}
