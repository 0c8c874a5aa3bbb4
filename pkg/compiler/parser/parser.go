// Package parser provides syntax analysis for minilang source code.
package parser

import (
	"fmt"
	"strconv"

	"github.com/zurustar/minilang/pkg/compiler/ast"
	"github.com/zurustar/minilang/pkg/compiler/lexer"
	"github.com/zurustar/minilang/pkg/compiler/token"
	"github.com/zurustar/minilang/pkg/value"
)

// Precedence levels for operators.
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // ==
	LESSGREATER // <
	SUM         // + -
	PRODUCT     // * /
	EXPONENT    // ^ (right associative)
	PREFIX      // -X or !X
)

var precedences = map[token.TokenType]int{
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALS,
	token.LT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.CARET:    EXPONENT,
}

var binaryOps = map[token.TokenType]ast.BinaryOp{
	token.PLUS:     ast.OpPlus,
	token.MINUS:    ast.OpMinus,
	token.ASTERISK: ast.OpTimes,
	token.SLASH:    ast.OpDivide,
	token.CARET:    ast.OpExponent,
	token.AND:      ast.OpAnd,
	token.OR:       ast.OpOr,
	token.EQ:       ast.OpEqual,
	token.LT:       ast.OpLessThan,
}

// ParserError is a syntax error at a 1-based source position.
type ParserError struct {
	Message string
	Line    int
	Column  int
	Lexical bool // raised at an illegal character
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parser parses minilang source code into an AST.
type Parser struct {
	l      *lexer.Lexer
	errors []error
	depth  int // brace depth at curToken, used to resynchronise after errors

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// New creates a new Parser.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.INPUT, p.parseInputExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for tt := range binaryOps {
		p.registerInfix(tt, p.parseInfixExpression)
	}

	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram parses every function definition in the source.
// After a syntax error the parser skips to the end of the enclosing
// function and continues, so one call reports errors from every function.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		fn := p.parseFunction()
		if fn != nil {
			program.Funcs = append(program.Funcs, fn)
		} else {
			p.skipFunction()
		}
		p.nextToken()
	}

	return program, p.errors
}

// skipFunction advances to the brace closing the current function.
func (p *Parser) skipFunction() {
	for !p.curTokenIs(token.EOF) && !(p.curTokenIs(token.RBRACE) && p.depth == 0) {
		p.nextToken()
	}
}

func (p *Parser) parseFunction() *ast.Func {
	fn := &ast.Func{ReturnType: value.Void}

	switch p.curToken.Type {
	case token.NUM, token.BOOL, token.VOID:
		rt, err := value.ParseReturnType(p.curToken.Literal)
		if err != nil {
			p.errorAt(p.curToken, "%s", err)
			return nil
		}
		fn.ReturnType = rt
		p.nextToken()
	}

	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, "expected function name, got %s", describe(p.curToken))
		return nil
	}
	fn.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFunctionParameters()
	if !ok {
		return nil
	}
	fn.Params = params

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	body := &ast.Block{}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.RETURN) {
		if p.curTokenIs(token.EOF) {
			p.errorAt(p.curToken, "unexpected end of input in function %s", fn.Name)
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		body.Stmts = append(body.Stmts, stmt)
		p.nextToken()
	}
	fn.Body = body

	if p.curTokenIs(token.RETURN) {
		if !p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			fn.ReturnExpr = p.parseExpression(LOWEST)
			if fn.ReturnExpr == nil {
				return nil
			}
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		if !p.peekTokenIs(token.RBRACE) {
			p.errorAt(p.peekToken, "return must be the last statement of function %s", fn.Name)
			return nil
		}
		p.nextToken()
	}

	return fn
}

func (p *Parser) parseFunctionParameters() ([]ast.Param, bool) {
	params := []ast.Param{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		p.nextToken()
		if !p.curTokenIs(token.NUM) && !p.curTokenIs(token.BOOL) {
			p.errorAt(p.curToken, "expected parameter type, got %s", describe(p.curToken))
			return nil, false
		}
		t, _ := value.ParseSourceType(p.curToken.Literal)
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		params = append(params, ast.Param{Name: p.curToken.Literal, Type: t})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseStatement parses one statement. On success curToken is the last
// token of the statement.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVarDeclaration()
	case token.PRINT:
		return p.parsePrintStatement()
	case token.LBRACE:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignStatement()
		}
		if p.peekTokenIs(token.LPAREN) {
			return p.parseCallStatement()
		}
		p.errorAt(p.peekToken, "expected = or ( after %s, got %s", p.curToken.Literal, describe(p.peekToken))
		return nil
	case token.RETURN:
		p.errorAt(p.curToken, "return must be the last statement of a function")
		return nil
	default:
		p.errorAt(p.curToken, "unexpected %s at start of statement", describe(p.curToken))
		return nil
	}
}

func (p *Parser) parseVarDeclaration() ast.Stmt {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	init := p.parseExpression(LOWEST)
	if init == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.Let(name, init)
}

func (p *Parser) parseAssignStatement() ast.Stmt {
	name := p.curToken.Literal
	p.nextToken() // consume name
	p.nextToken() // consume =
	e := p.parseExpression(LOWEST)
	if e == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.Assign(name, e)
}

func (p *Parser) parsePrintStatement() ast.Stmt {
	p.nextToken()
	e := p.parseExpression(LOWEST)
	if e == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.PrintS(e)
}

func (p *Parser) parseCallStatement() ast.Stmt {
	name := p.curToken.Literal
	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return ast.CallS(name, args...)
}

func (p *Parser) parseBlockStatement() *ast.Block {
	block := &ast.Block{Stmts: []ast.Stmt{}}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorAt(p.curToken, "unexpected end of input, expected }")
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
	}

	return block
}

func (p *Parser) parseCondition() ast.Expr {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return cond
}

func (p *Parser) parseIfStatement() ast.Stmt {
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	p.nextToken()
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	var els ast.Stmt
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		if els = p.parseStatement(); els == nil {
			return nil
		}
	}
	return ast.IfS(cond, then, els)
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return ast.WhileS(cond, body)
}

func (p *Parser) parseSwitchStatement() ast.Stmt {
	scrutinee := p.parseCondition()
	if scrutinee == nil || !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	var cases []ast.Case
	for p.curTokenIs(token.CASE) {
		p.nextToken()
		lit, ok := p.parseCaseLiteral()
		if !ok || !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		body := p.parseStatement()
		if body == nil {
			return nil
		}
		cases = append(cases, ast.Case{Value: lit, Body: body})
		p.nextToken()
	}

	var defaultCase ast.Stmt
	if p.curTokenIs(token.DEFAULT) {
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		if defaultCase = p.parseStatement(); defaultCase == nil {
			return nil
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, "expected case, default or } in switch, got %s", describe(p.curToken))
		return nil
	}
	return ast.NewSwitch(scrutinee, cases, defaultCase)
}

// parseCaseLiteral parses ["-"] NUMBER | true | false.
func (p *Parser) parseCaseLiteral() (value.Value, bool) {
	switch p.curToken.Type {
	case token.TRUE:
		return value.Bool(true), true
	case token.FALSE:
		return value.Bool(false), true
	case token.MINUS:
		if !p.expectPeek(token.NUMBER) {
			return value.Value{}, false
		}
		f, ok := p.parseNumber(p.curToken)
		return value.Num(-f), ok
	case token.NUMBER:
		f, ok := p.parseNumber(p.curToken)
		return value.Num(f), ok
	}
	p.errorAt(p.curToken, "expected literal after case, got %s", describe(p.curToken))
	return value.Value{}, false
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(p.curToken, "unexpected %s in expression", describe(p.curToken))
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expr {
	name := p.curToken.Literal
	if !p.peekTokenIs(token.LPAREN) {
		return ast.Var(name)
	}
	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return ast.CallE(name, args...)
}

func (p *Parser) parseNumberLiteral() ast.Expr {
	f, ok := p.parseNumber(p.curToken)
	if !ok {
		return nil
	}
	return ast.Num(f)
}

func (p *Parser) parseNumber(tok token.Token) (float64, bool) {
	f, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorAt(tok, "could not parse %q as number", tok.Literal)
		return 0, false
	}
	return f, true
}

func (p *Parser) parseBooleanLiteral() ast.Expr {
	return ast.Bool(p.curTokenIs(token.TRUE))
}

// parseInputExpression parses input<num> or input<bool>.
func (p *Parser) parseInputExpression() ast.Expr {
	if !p.expectPeek(token.LT) {
		return nil
	}
	p.nextToken()
	if !p.curTokenIs(token.NUM) && !p.curTokenIs(token.BOOL) {
		p.errorAt(p.curToken, "expected num or bool in input<...>, got %s", describe(p.curToken))
		return nil
	}
	t, _ := value.ParseSourceType(p.curToken.Literal)
	if !p.expectPeek(token.GT) {
		return nil
	}
	return ast.Input(t)
}

// parsePrefixExpression parses -X and !X. The operand binds tighter than
// * and / but looser than ^, so -x^2 is -(x^2). A minus applied directly
// to a numeric literal folds into a negative literal.
func (p *Parser) parsePrefixExpression() ast.Expr {
	op := ast.OpNegate
	if p.curTokenIs(token.BANG) {
		op = ast.OpNot
	}

	p.nextToken()
	sub := p.parseExpression(PRODUCT)
	if sub == nil {
		return nil
	}

	if lit, ok := sub.(*ast.NumLeaf); ok && op == ast.OpNegate {
		return ast.Num(-lit.Value)
	}
	return &ast.UnaryExpr{Op: op, Sub: sub}
}

func (p *Parser) parseInfixExpression(left ast.Expr) ast.Expr {
	op := binaryOps[p.curToken.Type]
	precedence := p.curPrecedence()
	if op == ast.OpExponent {
		precedence--
	}

	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return ast.Binary(op, left, right)
}

func (p *Parser) parseGroupedExpression() ast.Expr {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseExpressionList parses a comma separated list; curToken is the
// opening delimiter on entry and end on success.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expr, bool) {
	list := []ast.Expr{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	e := p.parseExpression(LOWEST)
	if e == nil {
		return nil, false
	}
	list = append(list, e)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		if e = p.parseExpression(LOWEST); e == nil {
			return nil, false
		}
		list = append(list, e)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

// Helper functions
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorAt(p.peekToken, "expected %s, got %s", t, describe(p.peekToken))
	return false
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()

	switch p.curToken.Type {
	case token.LBRACE:
		p.depth++
	case token.RBRACE:
		if p.depth > 0 {
			p.depth--
		}
	}
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) errorAt(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParserError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Lexical: tok.Type == token.ILLEGAL,
	})
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ILLEGAL:
		return fmt.Sprintf("illegal character %q", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
