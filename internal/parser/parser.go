// Package parser implements a recursive-descent parser that turns a Vela
// token stream into a Program AST, following the precedence chain of
// spec §4.2: assignment → or → and → equality → comparison → addition →
// multiplication → unary → call/get/index → primary.
package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

// Parser consumes a fixed token slice produced by the lexer.
type Parser struct {
	tokens     []lexer.Token
	current    int
	firstError *errors.Error

	// currentLetType is non-nil only while parsing a `let`'s initializer
	// expression. parseIntegerLiteral and parseFloatLiteral consult it to
	// resolve the one context-sensitive rule in the grammar: every
	// integer/float literal anywhere inside a let's initializer takes the
	// narrower width (i32/f32) when the declaration (or, for an Array<T>
	// declaration, its element type T) asked for it, instead of the
	// default (i64/f64). Literals outside a let initializer always keep
	// the default width — see spec §9's open question, preserved as-is.
	currentLetType *types.Annotation
}

// New constructs a Parser over tokens (as produced by lexer.Scan).
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses source into a Program, scanning it first. It returns the
// first parse error encountered; the parser still synchronizes and keeps
// going internally so later declarations are exercised for diagnostics,
// but only the first failure is surfaced to the caller.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Scan(source)
	if err != nil {
		return nil, err
	}
	p := New(tokens)
	program := p.ParseProgram()
	if p.firstError != nil {
		return program, p.firstError
	}
	return program, nil
}

// ParseProgram parses every declaration until EOF.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.isAtEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			p.recordError(err)
			p.synchronize()
			continue
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
	}
	return program
}

func (p *Parser) recordError(err error) {
	if p.firstError == nil {
		if e, ok := err.(*errors.Error); ok {
			p.firstError = e
		} else {
			p.firstError = errors.NewParserError(p.peek().Pos, p.peek().Lexeme, err.Error())
		}
	}
}

// --- token stream primitives -------------------------------------------

func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.EOF }

func (p *Parser) peek() lexer.Token { return p.tokens[p.current] }

func (p *Parser) previous() lexer.Token { return p.tokens[p.current-1] }

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return t == lexer.EOF
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	tok := p.peek()
	return lexer.Token{}, errors.NewParserError(tok.Pos, tok.Lexeme, message)
}

func (p *Parser) consumeIdent(message string) (*ast.Identifier, error) {
	tok, err := p.consume(lexer.IDENT, message)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Token: tok, Value: tok.Lexeme}, nil
}

func (p *Parser) consumeType(message string) (*types.Annotation, lexer.Token, error) {
	tok, err := p.consume(lexer.TYPE, message)
	if err != nil {
		return nil, tok, err
	}
	return tok.TypeAnnotation, tok, nil
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so one parse error doesn't cascade into dozens.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.STRUCT, lexer.TRAIT, lexer.IMPL, lexer.FN, lexer.LET,
			lexer.IF, lexer.WHILE, lexer.FOR, lexer.RETURN, lexer.PRINT, lexer.BREAK, lexer.ENUM:
			return
		}
		p.advance()
	}
}
