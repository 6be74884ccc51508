package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/lexer"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch {
	case p.match(lexer.IF):
		return p.parseIfStmt()
	case p.match(lexer.WHILE):
		return p.parseWhileStmt()
	case p.match(lexer.FOR):
		return p.parseForStmt()
	case p.match(lexer.RETURN):
		return p.parseReturnStmt()
	case p.match(lexer.PRINT):
		return p.parsePrintStmt()
	case p.match(lexer.BREAK):
		return p.parseBreakStmt()
	case p.match(lexer.LEFT_BRACE):
		return p.parseBlockBody()
	default:
		return p.parseExpressionStmt()
	}
}

// parseBlockBody assumes the opening '{' has already been consumed (by
// match(LEFT_BRACE) in the caller) and parses declarations until the
// matching '}'.
func (p *Parser) parseBlockBody() (*ast.BlockStmt, error) {
	tok := p.previous()
	var stmts []ast.Statement
	for !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			p.recordError(err)
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(lexer.RIGHT_BRACE, "expected '}' to close block"); err != nil {
		return nil, err
	}
	return &ast.BlockStmt{Token: tok, Statements: stmts}, nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	tok := p.previous()
	if _, err := p.consume(lexer.LEFT_PAREN, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Statement
	if p.match(lexer.ELSE) {
		elseBranch, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Token: tok, Condition: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	tok := p.previous()
	if _, err := p.consume(lexer.LEFT_PAREN, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Token: tok, Condition: cond, Body: body}, nil
}

// parseForStmt desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr } }`, per spec §4.2.
func (p *Parser) parseForStmt() (ast.Statement, error) {
	forTok := p.previous()
	if _, err := p.consume(lexer.LEFT_PAREN, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Statement
	var err error
	switch {
	case p.match(lexer.SEMICOLON):
		initializer = nil
	case p.match(lexer.LET):
		initializer, err = p.parseLetStmt()
	default:
		initializer, err = p.parseExpressionStmt()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expression
	if !p.check(lexer.SEMICOLON) {
		condition, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after for condition"); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.check(lexer.RIGHT_PAREN) {
		increment, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.RIGHT_PAREN, "expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.BlockStmt{Token: forTok, Statements: []ast.Statement{body, &ast.ExpressionStmt{Expr: increment}}}
	}
	if condition == nil {
		condition = &ast.BooleanLiteral{Value: true}
	}
	loop := ast.Statement(&ast.WhileStmt{Token: forTok, Condition: condition, Body: body})
	if initializer != nil {
		loop = &ast.BlockStmt{Token: forTok, Statements: []ast.Statement{initializer, loop}}
	}
	return loop, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	tok := p.previous()
	var value ast.Expression
	var err error
	if !p.check(lexer.SEMICOLON) {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Token: tok, Value: value}, nil
}

func (p *Parser) parsePrintStmt() (*ast.PrintStmt, error) {
	tok := p.previous()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after print statement"); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Token: tok, Value: value}, nil
}

func (p *Parser) parseBreakStmt() (*ast.BreakStmt, error) {
	tok := p.previous()
	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after 'break'"); err != nil {
		return nil, err
	}
	return &ast.BreakStmt{Token: tok}, nil
}

func (p *Parser) parseExpressionStmt() (*ast.ExpressionStmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.SEMICOLON, "expected ';' after expression"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr}, nil
}
