package formatter

import (
	"fmt"
	"strings"

	"github.com/shibukawa/tacc/tokenizer"
)

// SourceFormatter formats programs with go fmt style: one statement per line,
// blocks indented, single spaces around binary operators.
type SourceFormatter struct {
	indentSize int
}

// NewSourceFormatter creates a new source formatter
func NewSourceFormatter() *SourceFormatter {
	return &SourceFormatter{
		indentSize: 4, // 4 spaces for indentation
	}
}

// Format formats a program. Only lexical errors are reported; the token stream
// does not have to parse, so a half-written program still formats.
func (f *SourceFormatter) Format(source string) (string, error) {
	tokens, err := tokenizer.Tokenize(source)
	if err != nil {
		return "", fmt.Errorf("failed to tokenize source: %w", err)
	}

	return f.formatTokens(tokens), nil
}

// formatTokens lays tokens out line by line. A single blank line between
// statements in the input is kept; longer runs collapse to one.
func (f *SourceFormatter) formatTokens(tokens []tokenizer.Token) string {
	var (
		result      strings.Builder
		line        strings.Builder
		indentLevel int
		lastLine    int // source line of the previous token
		prev        *tokenizer.Token
		prevUnary   bool
		opened      bool // the last written line opened a block
	)

	flush := func() {
		if line.Len() == 0 {
			return
		}

		result.WriteString(strings.Repeat(" ", indentLevel*f.indentSize))
		result.WriteString(line.String())
		result.WriteString("\n")
		line.Reset()
	}

	for i, token := range tokens {
		if line.Len() == 0 {
			if prev != nil && token.Position.Line > lastLine+1 && !opened && token.Type != tokenizer.RBRACE {
				result.WriteString("\n")
			}

			opened = false
		}

		unary := token.Type == tokenizer.MINUS && !endsOperand(prev)

		switch token.Type {
		case tokenizer.LBRACE:
			if line.Len() > 0 {
				line.WriteString(" ")
			}

			line.WriteString("{")
			flush()

			indentLevel++
			opened = true
		case tokenizer.RBRACE:
			flush()

			if indentLevel > 0 {
				indentLevel--
			}

			line.WriteString("}")

			if next := i + 1; next >= len(tokens) || !tokens[next].Is("else") {
				flush()
			}
		case tokenizer.SEMI:
			line.WriteString(";")
			flush()
		default:
			if line.Len() > 0 && f.needsSpaceBefore(prev, token, prevUnary) {
				line.WriteString(" ")
			}

			line.WriteString(token.Value)
		}

		prev = &tokens[i]
		prevUnary = unary
		lastLine = token.Position.Line
	}

	flush()

	return result.String()
}

// needsSpaceBefore decides the separator between two tokens on the same line.
func (f *SourceFormatter) needsSpaceBefore(prev *tokenizer.Token, token tokenizer.Token, prevUnary bool) bool {
	if prev == nil {
		return false
	}

	switch {
	case token.Type == tokenizer.RPAREN:
		return false
	case prev.Type == tokenizer.LPAREN:
		return false
	case prevUnary:
		return false
	case token.Type == tokenizer.LPAREN:
		return !prev.Is("print") && prev.Type != tokenizer.IDENTIFIER
	default:
		return true
	}
}

// endsOperand reports whether token can end an operand, which makes a
// following '-' binary.
func endsOperand(token *tokenizer.Token) bool {
	if token == nil {
		return false
	}

	switch token.Type {
	case tokenizer.NUMBER, tokenizer.IDENTIFIER, tokenizer.RPAREN:
		return true
	case tokenizer.KEYWORD:
		return token.Value == "true" || token.Value == "false"
	default:
		return false
	}
}
