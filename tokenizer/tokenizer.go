package tokenizer

import (
	"iter"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer converts source text into tokens.
type Tokenizer struct {
	input string
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Tokenize returns the whole token sequence of input, or the first *LexError.
func Tokenize(input string) ([]Token, error) {
	return NewTokenizer(input).AllTokens()
}

// Tokens returns an iterator of tokens. Whitespace is skipped.
// The iterator stops after yielding the first error.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		s := &scanner{
			input:  t.input,
			line:   1,
			column: 1,
		}

		for !s.eof() {
			token, ok, err := s.next()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if !ok {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, len(t.input)/2+1)

	for token, err := range t.Tokens() {
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

var twoCharOperators = []struct {
	text      string
	tokenType TokenType
}{
	{"==", EQ},
	{"!=", NE},
	{"<=", LE},
	{">=", GE},
}

var oneCharOperators = map[byte]TokenType{
	'=': ASSIGN,
	'<': LT,
	'>': GT,
	'+': PLUS,
	'-': MINUS,
	'*': MULT,
	'/': DIV,
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	';': SEMI,
}

// scanner holds the cursor state of one tokenization.
type scanner struct {
	input  string
	offset int
	line   int
	column int
}

func (s *scanner) eof() bool {
	return s.offset >= len(s.input)
}

func (s *scanner) peekAt(i int) byte {
	if s.offset+i >= len(s.input) {
		return 0
	}

	return s.input[s.offset+i]
}

func (s *scanner) position() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

// next matches one pattern at the cursor. ok is false when only whitespace was consumed.
// Patterns are tried in priority order: whitespace, number, word, two-character
// operators, one-character operators.
func (s *scanner) next() (Token, bool, error) {
	c := s.input[s.offset]

	switch {
	case isSpace(c):
		s.skipWhitespace()
		return Token{}, false, nil
	case isDigit(c):
		return s.emit(NUMBER, s.numberLength()), true, nil
	case isIdentStart(c):
		return s.readWord(), true, nil
	}

	for _, op := range twoCharOperators {
		if c == op.text[0] && s.peekAt(1) == op.text[1] {
			return s.emit(op.tokenType, 2), true, nil
		}
	}

	if tokenType, ok := oneCharOperators[c]; ok {
		return s.emit(tokenType, 1), true, nil
	}

	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])

	return Token{}, false, &LexError{Position: s.position(), Char: r}
}

// emit builds a token from the next length bytes and advances past them.
func (s *scanner) emit(tokenType TokenType, length int) Token {
	token := Token{
		Type:     tokenType,
		Value:    s.input[s.offset : s.offset+length],
		Position: s.position(),
	}
	s.advance(length)

	return token
}

func (s *scanner) advance(length int) {
	for range length {
		if s.input[s.offset] == '\n' {
			s.line++
			s.column = 1
		} else {
			s.column++
		}

		s.offset++
	}
}

func (s *scanner) skipWhitespace() {
	n := 0
	for isSpace(s.peekAt(n)) {
		n++
	}

	s.advance(n)
}

// numberLength measures \d+(\.\d+)?([eE][+-]?\d+)? at the cursor.
// The fraction and exponent are only taken when digits follow them.
func (s *scanner) numberLength() int {
	n := 0
	for isDigit(s.peekAt(n)) {
		n++
	}

	// Decimal part
	if s.peekAt(n) == '.' && isDigit(s.peekAt(n+1)) {
		n++
		for isDigit(s.peekAt(n)) {
			n++
		}
	}

	// Exponential part
	if c := s.peekAt(n); c == 'e' || c == 'E' {
		m := n + 1
		if sign := s.peekAt(m); sign == '+' || sign == '-' {
			m++
		}

		if isDigit(s.peekAt(m)) {
			n = m
			for isDigit(s.peekAt(n)) {
				n++
			}
		}
	}

	return n
}

// readWord reads identifiers and keywords
func (s *scanner) readWord() Token {
	n := 1
	for isIdentPart(s.peekAt(n)) {
		n++
	}

	token := s.emit(IDENTIFIER, n)
	if IsKeyword(token.Value) {
		token.Type = KEYWORD
	}

	return token
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
