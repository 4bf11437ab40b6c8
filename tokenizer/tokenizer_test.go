package tokenizer

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, token := range tokens {
		types = append(types, token.Type)
	}

	return types
}

func tokenValues(tokens []Token) []string {
	values := make([]string, 0, len(tokens))
	for _, token := range tokens {
		values = append(values, token.Value)
	}

	return values
}

func TestTokenIterator(t *testing.T) {
	src := "let x = 1 + 2 * 3; print(x);"
	tokenizer := NewTokenizer(src)

	expectedTypes := []TokenType{
		KEYWORD, IDENTIFIER, ASSIGN, NUMBER, PLUS, NUMBER, MULT, NUMBER, SEMI,
		KEYWORD, LPAREN, IDENTIFIER, RPAREN, SEMI,
	}

	var actualTypes []TokenType
	for token, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		actualTypes = append(actualTypes, token.Type)
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestIteratorEarlyTermination(t *testing.T) {
	tokenizer := NewTokenizer("let x = 1 + 2 * 3;")

	count := 0
	for _, err := range tokenizer.Tokens() {
		assert.NoError(t, err)

		count++
		if count >= 3 {
			break
		}
	}

	assert.Equal(t, 3, count)
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "empty",
			input:    "",
			expected: []TokenType{},
		},
		{
			name:     "whitespace only",
			input:    " \t\r\n  ",
			expected: []TokenType{},
		},
		{
			name:     "declaration",
			input:    "let x = 10;",
			expected: []TokenType{KEYWORD, IDENTIFIER, ASSIGN, NUMBER, SEMI},
		},
		{
			name:     "two character operators before their prefixes",
			input:    "== != <= >= = < >",
			expected: []TokenType{EQ, NE, LE, GE, ASSIGN, LT, GT},
		},
		{
			name:     "operators without spaces",
			input:    "a<=b==c",
			expected: []TokenType{IDENTIFIER, LE, IDENTIFIER, EQ, IDENTIFIER},
		},
		{
			name:     "arithmetic",
			input:    "+-*/",
			expected: []TokenType{PLUS, MINUS, MULT, DIV},
		},
		{
			name:     "delimiters",
			input:    "(){};",
			expected: []TokenType{LPAREN, RPAREN, LBRACE, RBRACE, SEMI},
		},
		{
			name:     "if else block",
			input:    "if (a) { } else { }",
			expected: []TokenType{KEYWORD, LPAREN, IDENTIFIER, RPAREN, LBRACE, RBRACE, KEYWORD, LBRACE, RBRACE},
		},
		{
			name:     "triple equals splits greedily",
			input:    "===",
			expected: []TokenType{EQ, ASSIGN},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, tokenTypes(tokens))
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		types    []TokenType
	}{
		{"integer", "42", []string{"42"}, []TokenType{NUMBER}},
		{"fraction", "3.14", []string{"3.14"}, []TokenType{NUMBER}},
		{"exponent", "1e10", []string{"1e10"}, []TokenType{NUMBER}},
		{"signed exponent", "2.5E-3", []string{"2.5E-3"}, []TokenType{NUMBER}},
		{"positive exponent", "7e+2", []string{"7e+2"}, []TokenType{NUMBER}},
		{"dangling exponent is an identifier", "1e", []string{"1", "e"}, []TokenType{NUMBER, IDENTIFIER}},
		{"exponent sign without digits", "1e+x", []string{"1", "e", "+", "x"}, []TokenType{NUMBER, IDENTIFIER, PLUS, IDENTIFIER}},
		{"leading zeros kept verbatim", "007", []string{"007"}, []TokenType{NUMBER}},
		{"number then identifier", "3abc", []string{"3", "abc"}, []TokenType{NUMBER, IDENTIFIER}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, tokenValues(tokens))
			assert.Equal(t, tt.types, tokenTypes(tokens))
		})
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tokens, err := Tokenize("let if else while print true false not and or letter _x iffy X1 Let")
	assert.NoError(t, err)

	expected := []TokenType{
		KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD, KEYWORD,
		IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER, IDENTIFIER,
	}
	assert.Equal(t, expected, tokenTypes(tokens))
	assert.True(t, tokens[0].Is("let"))
	assert.False(t, tokens[10].Is("letter"))
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("let x = 1;\n  print(x);")
	assert.NoError(t, err)

	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Position)
	assert.Equal(t, Position{Line: 1, Column: 5, Offset: 4}, tokens[1].Position)
	assert.Equal(t, Position{Line: 1, Column: 10, Offset: 9}, tokens[4].Position)
	assert.Equal(t, Position{Line: 2, Column: 3, Offset: 13}, tokens[5].Position)
	assert.Equal(t, "2:3", tokens[5].Position.String())
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		char   rune
		offset int
		line   int
		column int
	}{
		{"at sign", "let x = 1 @ 2;", '@', 10, 1, 11},
		{"lone bang", "x = !y;", '!', 4, 1, 5},
		{"dot without leading digits", "x = .5;", '.', 4, 1, 5},
		{"trailing dot", "x = 1.;", '.', 5, 1, 6},
		{"second line", "x = 1;\ny = #;", '#', 11, 2, 5},
		{"non ascii", "x = é;", 'é', 4, 1, 5},
		{"form feed is not whitespace", "x\f", '\f', 1, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			assert.Error(t, err)
			assert.Zero(t, tokens)
			assert.True(t, errors.Is(err, ErrUnexpectedCharacter))

			var lexErr *LexError
			assert.True(t, errors.As(err, &lexErr))
			assert.Equal(t, tt.char, lexErr.Char)
			assert.Equal(t, tt.offset, lexErr.Position.Offset)
			assert.Equal(t, tt.line, lexErr.Position.Line)
			assert.Equal(t, tt.column, lexErr.Position.Column)
		})
	}
}

func TestLexErrorMessage(t *testing.T) {
	_, err := Tokenize("let x = 1 @ 2;")
	assert.EqualError(t, err, `unexpected character '@' at offset 10 (line 1, column 11)`)
}

func TestIteratorStopsAfterError(t *testing.T) {
	var values []string

	var errs []error

	for token, err := range NewTokenizer("a $ b").Tokens() {
		if err != nil {
			errs = append(errs, err)
			continue
		}

		values = append(values, token.Value)
	}

	assert.Equal(t, []string{"a"}, values)
	assert.Equal(t, 1, len(errs))
}

func TestTokenString(t *testing.T) {
	tokens, err := Tokenize("while")
	assert.NoError(t, err)
	assert.Equal(t, "KEYWORD: while", tokens[0].String())
	assert.Equal(t, "UNKNOWN", TokenType(99).String())
	assert.True(t, LE.IsRelational())
	assert.False(t, ASSIGN.IsRelational())
}
