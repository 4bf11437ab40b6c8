package translator

import (
	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/tokenizer"
)

// DefaultMaxDepth limits nesting of blocks, parentheses, not and unary minus.
const DefaultMaxDepth = 256

// Options configures a translation.
type Options struct {
	// MaxDepth is the nesting limit; zero or less means DefaultMaxDepth.
	MaxDepth int
	// Trace, when set, receives every rule entry and token match.
	Trace TraceFunc
}

// Translate parses tokens with a single-pass recursive descent and returns the
// three-address code emitted along the way. The first error aborts translation
// and no partial sequence is returned.
func Translate(tokens []tokenizer.Token, opts ...Options) ([]intermediate.Instruction, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}

	p := &parser{
		tokens:   tokens,
		emitter:  intermediate.NewEmitter(intermediate.WithReserved(identifiers(tokens)...)),
		maxDepth: opt.MaxDepth,
		trace:    opt.Trace,
	}

	if err := p.program(); err != nil {
		return nil, err
	}

	return p.emitter.Finish(), nil
}

// identifiers lists the user identifiers generated names must stay clear of.
func identifiers(tokens []tokenizer.Token) []string {
	var names []string

	for _, token := range tokens {
		if token.Type == tokenizer.IDENTIFIER {
			names = append(names, token.Value)
		}
	}

	return names
}

// parser holds the state of one translation: cursor, emitter and nesting depth.
type parser struct {
	tokens   []tokenizer.Token
	pos      int
	emitter  *intermediate.Emitter
	depth    int
	maxDepth int
	trace    TraceFunc
	level    int
}

// current returns the lookahead token, nil at end of input.
func (p *parser) current() *tokenizer.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}

	return &p.tokens[p.pos]
}

func (p *parser) at(tokenType tokenizer.TokenType) bool {
	token := p.current()
	return token != nil && token.Type == tokenType
}

func (p *parser) atKeyword(keyword string) bool {
	token := p.current()
	return token != nil && token.Is(keyword)
}

func (p *parser) atRelational() bool {
	token := p.current()
	return token != nil && token.Type.IsRelational()
}

// here returns the "line:column" of the lookahead token, or of the last token at end of input.
func (p *parser) here() string {
	if token := p.current(); token != nil {
		return token.Position.String()
	}

	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Position.String()
	}

	return ""
}

func (p *parser) errorf(expected string) error {
	var found *tokenizer.Token

	if token := p.current(); token != nil {
		copied := *token
		found = &copied
	}

	return &ParseError{Expected: expected, Found: found}
}

// eat consumes the lookahead when it has the expected kind.
func (p *parser) eat(tokenType tokenizer.TokenType) (tokenizer.Token, error) {
	if !p.at(tokenType) {
		return tokenizer.Token{}, p.errorf(tokenType.String())
	}

	return p.advance(), nil
}

// eatKeyword consumes the lookahead when it is the given keyword.
func (p *parser) eatKeyword(keyword string) (tokenizer.Token, error) {
	if !p.atKeyword(keyword) {
		return tokenizer.Token{}, p.errorf(keyword)
	}

	return p.advance(), nil
}

func (p *parser) advance() tokenizer.Token {
	token := p.tokens[p.pos]
	p.pos++

	if p.trace != nil {
		p.trace(TraceEvent{Kind: TraceMatch, Token: token, Depth: p.level})
	}

	return token
}

// rule reports entry into a grammar rule; the returned function reports the exit.
func (p *parser) rule(name string) func() {
	if p.trace != nil {
		p.trace(TraceEvent{Kind: TraceEnter, Rule: name, Depth: p.level})
	}

	p.level++

	return func() { p.level-- }
}

// nest guards recursion through blocks, parentheses, not and unary minus.
func (p *parser) nest() error {
	p.depth++
	if p.depth > p.maxDepth {
		var position tokenizer.Position
		if token := p.current(); token != nil {
			position = token.Position
		} else if len(p.tokens) > 0 {
			position = p.tokens[len(p.tokens)-1].Position
		}

		return &DepthError{Limit: p.maxDepth, Position: position}
	}

	return nil
}

func (p *parser) unnest() {
	p.depth--
}

func (p *parser) atStatementStart() bool {
	return p.at(tokenizer.KEYWORD) || p.at(tokenizer.IDENTIFIER)
}

// program := stmt*
// Translation stops at the first token that cannot start a statement; the rest is ignored.
func (p *parser) program() error {
	defer p.rule("Program")()

	return p.stmtList()
}

func (p *parser) stmtList() error {
	defer p.rule("StmtList")()

	for p.atStatementStart() {
		if err := p.stmt(); err != nil {
			return err
		}
	}

	return nil
}

// block := '{' stmt* '}'
func (p *parser) block() error {
	defer p.rule("Block")()

	if _, err := p.eat(tokenizer.LBRACE); err != nil {
		return err
	}

	if err := p.nest(); err != nil {
		return err
	}
	defer p.unnest()

	if err := p.stmtList(); err != nil {
		return err
	}

	_, err := p.eat(tokenizer.RBRACE)

	return err
}

// stmt := decl | printStmt | ifStmt | whileStmt | assign
func (p *parser) stmt() error {
	defer p.rule("Stmt")()

	switch {
	case p.atKeyword("let"):
		return p.decl()
	case p.at(tokenizer.IDENTIFIER):
		return p.assign()
	case p.atKeyword("print"):
		return p.printStmt()
	case p.atKeyword("if"):
		return p.ifStmt()
	case p.atKeyword("while"):
		return p.whileStmt()
	default:
		return p.errorf("statement")
	}
}

// decl := 'let' IDENTIFIER '=' expr ';'
func (p *parser) decl() error {
	defer p.rule("Decl")()

	let, err := p.eatKeyword("let")
	if err != nil {
		return err
	}

	return p.assignment(let.Position.String())
}

// assign := IDENTIFIER '=' expr ';'
func (p *parser) assign() error {
	defer p.rule("Assign")()

	return p.assignment(p.here())
}

func (p *parser) assignment(pos string) error {
	name, err := p.eat(tokenizer.IDENTIFIER)
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.ASSIGN); err != nil {
		return err
	}

	value, err := p.expr()
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.SEMI); err != nil {
		return err
	}

	p.emitter.EmitAssign(name.Value, value, pos)

	return nil
}

// printStmt := 'print' '(' cond ')' ';'
// A condition is accepted so boolean values can be printed; every expr is also a cond.
func (p *parser) printStmt() error {
	defer p.rule("PrintStmt")()

	keyword, err := p.eatKeyword("print")
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.LPAREN); err != nil {
		return err
	}

	value, err := p.cond()
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.RPAREN); err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.SEMI); err != nil {
		return err
	}

	p.emitter.EmitPrint(value, keyword.Position.String())

	return nil
}

// ifStmt := 'if' '(' cond ')' block ('else' block)?
//
//	    c = <cond>
//	    if_false c goto Lelse
//	    <then>
//	    goto Lend
//	Lelse:
//	    <else>
//	Lend:
func (p *parser) ifStmt() error {
	defer p.rule("IfStmt")()

	keyword, err := p.eatKeyword("if")
	if err != nil {
		return err
	}

	pos := keyword.Position.String()

	if _, err := p.eat(tokenizer.LPAREN); err != nil {
		return err
	}

	condition, err := p.cond()
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.RPAREN); err != nil {
		return err
	}

	elseLabel := p.emitter.NewLabel()
	endLabel := p.emitter.NewLabel()

	p.emitter.EmitIfFalse(condition, elseLabel, pos)

	if err := p.block(); err != nil {
		return err
	}

	p.emitter.EmitGoto(endLabel, pos)
	p.emitter.EmitLabel(elseLabel, pos)

	if p.atKeyword("else") {
		p.advance()

		if err := p.block(); err != nil {
			return err
		}
	}

	p.emitter.EmitLabel(endLabel, pos)

	return nil
}

// whileStmt := 'while' '(' cond ')' block
//
//	Lstart:
//	    c = <cond>
//	    if_false c goto Lend
//	    <body>
//	    goto Lstart
//	Lend:
func (p *parser) whileStmt() error {
	defer p.rule("WhileStmt")()

	keyword, err := p.eatKeyword("while")
	if err != nil {
		return err
	}

	pos := keyword.Position.String()
	startLabel := p.emitter.NewLabel()
	endLabel := p.emitter.NewLabel()

	p.emitter.EmitLabel(startLabel, pos)

	if _, err := p.eat(tokenizer.LPAREN); err != nil {
		return err
	}

	condition, err := p.cond()
	if err != nil {
		return err
	}

	if _, err := p.eat(tokenizer.RPAREN); err != nil {
		return err
	}

	p.emitter.EmitIfFalse(condition, endLabel, pos)

	if err := p.block(); err != nil {
		return err
	}

	p.emitter.EmitGoto(startLabel, pos)
	p.emitter.EmitLabel(endLabel, pos)

	return nil
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (intermediate.Operand, error) {
	defer p.rule("Expr")()

	left, err := p.term()
	if err != nil {
		return intermediate.Operand{}, err
	}

	return p.exprTail(left)
}

func (p *parser) exprTail(left intermediate.Operand) (intermediate.Operand, error) {
	for p.at(tokenizer.PLUS) || p.at(tokenizer.MINUS) {
		op := p.advance()

		right, err := p.term()
		if err != nil {
			return intermediate.Operand{}, err
		}

		left = p.emitter.EmitBinary(op.Value, left, right, op.Position.String())
	}

	return left, nil
}

// term := factor (('*' | '/') factor)*
func (p *parser) term() (intermediate.Operand, error) {
	defer p.rule("Term")()

	left, err := p.factor()
	if err != nil {
		return intermediate.Operand{}, err
	}

	return p.termTail(left)
}

func (p *parser) termTail(left intermediate.Operand) (intermediate.Operand, error) {
	for p.at(tokenizer.MULT) || p.at(tokenizer.DIV) {
		op := p.advance()

		right, err := p.factor()
		if err != nil {
			return intermediate.Operand{}, err
		}

		left = p.emitter.EmitBinary(op.Value, left, right, op.Position.String())
	}

	return left, nil
}

// factor := '-' factor | IDENTIFIER | NUMBER | '(' expr ')'
func (p *parser) factor() (intermediate.Operand, error) {
	defer p.rule("Factor")()

	switch {
	case p.at(tokenizer.MINUS):
		op := p.advance()

		if err := p.nest(); err != nil {
			return intermediate.Operand{}, err
		}
		defer p.unnest()

		operand, err := p.factor()
		if err != nil {
			return intermediate.Operand{}, err
		}

		return p.emitter.EmitUnary("-", operand, op.Position.String()), nil
	case p.at(tokenizer.IDENTIFIER):
		return intermediate.Name(p.advance().Value), nil
	case p.at(tokenizer.NUMBER):
		return intermediate.Literal(p.advance().Value), nil
	case p.at(tokenizer.LPAREN):
		p.advance()

		if err := p.nest(); err != nil {
			return intermediate.Operand{}, err
		}
		defer p.unnest()

		value, err := p.expr()
		if err != nil {
			return intermediate.Operand{}, err
		}

		if _, err := p.eat(tokenizer.RPAREN); err != nil {
			return intermediate.Operand{}, err
		}

		return value, nil
	default:
		return intermediate.Operand{}, p.errorf("factor")
	}
}

// cond := orExpr
func (p *parser) cond() (intermediate.Operand, error) {
	defer p.rule("Cond")()

	return p.orExpr()
}

// orExpr := andExpr ('or' andExpr)*
func (p *parser) orExpr() (intermediate.Operand, error) {
	defer p.rule("OrExpr")()

	left, err := p.andExpr()
	if err != nil {
		return intermediate.Operand{}, err
	}

	for p.atKeyword("or") {
		op := p.advance()

		right, err := p.andExpr()
		if err != nil {
			return intermediate.Operand{}, err
		}

		left = p.emitter.EmitBinary("or", left, right, op.Position.String())
	}

	return left, nil
}

// andExpr := notExpr ('and' notExpr)*
func (p *parser) andExpr() (intermediate.Operand, error) {
	defer p.rule("AndExpr")()

	left, err := p.notExpr()
	if err != nil {
		return intermediate.Operand{}, err
	}

	for p.atKeyword("and") {
		op := p.advance()

		right, err := p.notExpr()
		if err != nil {
			return intermediate.Operand{}, err
		}

		left = p.emitter.EmitBinary("and", left, right, op.Position.String())
	}

	return left, nil
}

// notExpr := 'not' notExpr | relExpr
func (p *parser) notExpr() (intermediate.Operand, error) {
	defer p.rule("NotExpr")()

	if !p.atKeyword("not") {
		return p.relExpr()
	}

	op := p.advance()

	if err := p.nest(); err != nil {
		return intermediate.Operand{}, err
	}
	defer p.unnest()

	operand, err := p.notExpr()
	if err != nil {
		return intermediate.Operand{}, err
	}

	return p.emitter.EmitUnary("not", operand, op.Position.String()), nil
}

// relExpr := boolPrimary (relop boolPrimary)?
// Relational operators do not chain: "a < b < c" leaves the second "<" unconsumed.
func (p *parser) relExpr() (intermediate.Operand, error) {
	defer p.rule("RelExpr")()

	left, err := p.boolPrimary()
	if err != nil {
		return intermediate.Operand{}, err
	}

	if !p.atRelational() {
		return left, nil
	}

	op := p.advance()

	right, err := p.boolPrimary()
	if err != nil {
		return intermediate.Operand{}, err
	}

	return p.emitter.EmitBinary(op.Value, left, right, op.Position.String()), nil
}

// boolPrimary := 'true' | 'false' | '(' cond ')' | expr
// A parenthesized condition followed by an arithmetic operator continues as the
// left operand of term/expr, so "(a + 1) * 2 < b" parses as arithmetic.
func (p *parser) boolPrimary() (intermediate.Operand, error) {
	defer p.rule("BoolPrimary")()

	switch {
	case p.atKeyword("true"), p.atKeyword("false"):
		return intermediate.Literal(p.advance().Value), nil
	case p.at(tokenizer.LPAREN):
		p.advance()

		if err := p.nest(); err != nil {
			return intermediate.Operand{}, err
		}

		value, err := p.cond()

		p.unnest()

		if err != nil {
			return intermediate.Operand{}, err
		}

		if _, err := p.eat(tokenizer.RPAREN); err != nil {
			return intermediate.Operand{}, err
		}

		value, err = p.termTail(value)
		if err != nil {
			return intermediate.Operand{}, err
		}

		return p.exprTail(value)
	default:
		return p.expr()
	}
}
