// Package ast defines the Vela abstract syntax tree: every statement and
// expression the parser can produce, plus the two closed interfaces
// (Expression, Statement) the resolver and evaluator visit.
package ast

import (
	"bytes"

	"github.com/velalang/vela/internal/lexer"
)

// Node is implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces exactly one value when visited by
// the evaluator.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action. Only Return produces a
// value on the evaluator's operand stack; every other statement leaves the
// stack depth unchanged.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of the tree: a single translation unit's top-level
// declarations and statements, in source order.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

// Identifier names a variable, function, struct, trait, or field.
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() lexer.Position  { return i.Token.Pos }
