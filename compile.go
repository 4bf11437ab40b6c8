package tacc

import (
	"strings"

	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/tokenizer"
	"github.com/shibukawa/tacc/translator"
)

// CompileOptions configures one compilation.
type CompileOptions struct {
	// MaxDepth limits nesting; zero or less means translator.DefaultMaxDepth.
	MaxDepth int
	// Trace receives rule entries and token matches when set.
	Trace translator.TraceFunc
}

// Compile tokenizes and translates source into three-address code.
// Errors are *tokenizer.LexError, *translator.ParseError or *translator.DepthError;
// no partial instruction sequence is returned with an error.
// Empty source yields an empty sequence, not an error.
func Compile(source string) ([]intermediate.Instruction, error) {
	return CompileWithOptions(source, CompileOptions{})
}

// CompileWithOptions is Compile with explicit options. Every call owns its own
// state, so concurrent calls need no locking.
func CompileWithOptions(source string, opts CompileOptions) ([]intermediate.Instruction, error) {
	tokens, err := tokenizer.Tokenize(source)
	if err != nil {
		return nil, err
	}

	return translator.Translate(tokens, translator.Options{
		MaxDepth: opts.MaxDepth,
		Trace:    opts.Trace,
	})
}

// RequireSource rejects blank source before it reaches Compile.
func RequireSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptySource
	}

	return nil
}
