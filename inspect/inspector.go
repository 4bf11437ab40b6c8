package inspect

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/tokenizer"
	"github.com/shibukawa/tacc/translator"
)

// Inspect tokenizes a program and returns a summarized view suitable for JSON.
// Lexical errors are always returned. Translation errors are returned in Strict
// mode and otherwise recorded as a note next to the token-level findings.
func Inspect(r io.Reader, opt InspectOptions) (InspectResult, error) {
	var res InspectResult

	b, err := io.ReadAll(r)
	if err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}

	tokens, err := tokenizer.Tokenize(string(b))
	if err != nil {
		return res, fmt.Errorf("tokenize: %w", err)
	}

	res.Tokens = len(tokens)
	res.Variables = collectVariables(tokens)
	res.Diagnostics = checkDelimiters(tokens)

	res.Literals, err = collectLiterals(tokens)
	if err != nil {
		return res, err
	}

	instructions, err := translator.Translate(tokens, translator.Options{MaxDepth: opt.MaxDepth})
	if err != nil {
		if opt.Strict {
			return res, fmt.Errorf("translate: %w", err)
		}

		res.Notes = append(res.Notes, "not translated: "+err.Error())
	} else {
		summary := intermediate.Stats(instructions)
		res.Instructions = &summary
	}

	for _, v := range res.Variables {
		if v.Assignments == 0 {
			res.Notes = append(res.Notes, fmt.Sprintf("variable %s is read but never assigned", v.Name))
		}
	}

	return res, nil
}

// collectVariables lists identifiers in order of first appearance. An identifier
// directly followed by '=' is an assignment target, anything else is a read.
func collectVariables(tokens []tokenizer.Token) []Variable {
	var variables []Variable

	index := map[string]int{}

	for i, token := range tokens {
		if token.Type != tokenizer.IDENTIFIER {
			continue
		}

		n, ok := index[token.Value]
		if !ok {
			n = len(variables)
			index[token.Value] = n
			variables = append(variables, Variable{Name: token.Value, FirstSeen: token.Position.String()})
		}

		v := &variables[n]

		if i > 0 && tokens[i-1].Is("let") {
			v.Declared = true
		}

		if i+1 < len(tokens) && tokens[i+1].Type == tokenizer.ASSIGN {
			v.Assignments++
		} else {
			v.Reads++
		}
	}

	return variables
}

// collectLiterals lists numeric literals with their canonical decimal value,
// so 1e3 and 1000.0 both normalize to 1000.
func collectLiterals(tokens []tokenizer.Token) ([]NumberLiteral, error) {
	var literals []NumberLiteral

	for _, token := range tokens {
		if token.Type != tokenizer.NUMBER {
			continue
		}

		d, err := decimal.NewFromString(token.Value)
		if err != nil {
			return nil, fmt.Errorf("number literal %q at %s: %w", token.Value, token.Position, err)
		}

		literals = append(literals, NumberLiteral{
			Text:       token.Value,
			Normalized: d.String(),
			Position:   token.Position.String(),
		})
	}

	return literals, nil
}

// checkDelimiters matches braces and parentheses with a stack. A closer that
// does not match the innermost opener is reported and skipped; openers left on
// the stack are reported as unclosed at their own position.
func checkDelimiters(tokens []tokenizer.Token) []Diagnostic {
	var (
		stack       []tokenizer.Token
		diagnostics []Diagnostic
	)

	for _, token := range tokens {
		switch token.Type {
		case tokenizer.LBRACE, tokenizer.LPAREN:
			stack = append(stack, token)
		case tokenizer.RBRACE, tokenizer.RPAREN:
			if len(stack) == 0 || !pairs(stack[len(stack)-1].Type, token.Type) {
				diagnostics = append(diagnostics, Diagnostic{
					Kind:      "unmatched",
					Delimiter: token.Value,
					Position:  token.Position.String(),
				})

				continue
			}

			stack = stack[:len(stack)-1]
		}
	}

	for _, open := range stack {
		diagnostics = append(diagnostics, Diagnostic{
			Kind:      "unclosed",
			Delimiter: open.Value,
			Position:  open.Position.String(),
		})
	}

	return diagnostics
}

func pairs(open, closing tokenizer.TokenType) bool {
	return (open == tokenizer.LBRACE && closing == tokenizer.RBRACE) ||
		(open == tokenizer.LPAREN && closing == tokenizer.RPAREN)
}
