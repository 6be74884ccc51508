package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

// IntegerLiteral is an integer constant. Its Annotation defaults to I64,
// but the parser narrows it to I32 when the enclosing `let` declared i32
// (spec §4.2's one context-sensitive parsing rule).
type IntegerLiteral struct {
	Token      lexer.Token
	Value      int64
	Annotation *types.Annotation
}

func (l *IntegerLiteral) expressionNode()      {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *IntegerLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *IntegerLiteral) String() string       { return strconv.FormatInt(l.Value, 10) }

// FloatLiteral is a floating-point constant, defaulting to F64 and
// narrowed to F32 the same way IntegerLiteral is narrowed to I32.
type FloatLiteral struct {
	Token      lexer.Token
	Value      float64
	Annotation *types.Annotation
}

func (l *FloatLiteral) expressionNode()      {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *FloatLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *FloatLiteral) String() string       { return strconv.FormatFloat(l.Value, 'g', -1, 64) }

// StringLiteral is a double-quoted string with no escape processing.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (l *StringLiteral) expressionNode()      {}
func (l *StringLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *StringLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *StringLiteral) String() string       { return "\"" + l.Value + "\"" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (l *BooleanLiteral) expressionNode()      {}
func (l *BooleanLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *BooleanLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *BooleanLiteral) String() string       { return strconv.FormatBool(l.Value) }

// UnitLiteral is the `()` value expression.
type UnitLiteral struct {
	Token lexer.Token
}

func (l *UnitLiteral) expressionNode()      {}
func (l *UnitLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *UnitLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *UnitLiteral) String() string       { return "()" }

// ArrayLiteral is a bracketed list of element expressions.
type ArrayLiteral struct {
	Token    lexer.Token // '['
	Elements []Expression
}

func (l *ArrayLiteral) expressionNode()      {}
func (l *ArrayLiteral) TokenLiteral() string { return l.Token.Lexeme }
func (l *ArrayLiteral) Pos() lexer.Position  { return l.Token.Pos }
func (l *ArrayLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Variable is a bare identifier used as a value-producing expression
// (includes `self`, which is bound like any other name by the resolver).
type Variable struct {
	Name *Identifier
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Name.TokenLiteral() }
func (v *Variable) Pos() lexer.Position  { return v.Name.Pos() }
func (v *Variable) String() string       { return v.Name.Value }

// Assign is `name = value`, right-associative and lowest precedence.
type Assign struct {
	Token lexer.Token // '='
	Name  *Identifier
	Value Expression
}

func (a *Assign) expressionNode()      {}
func (a *Assign) TokenLiteral() string { return a.Token.Lexeme }
func (a *Assign) Pos() lexer.Position  { return a.Token.Pos }
func (a *Assign) String() string       { return a.Name.Value + " = " + a.Value.String() }

// Binary is an arithmetic or comparison expression. Operator.Type decides
// the operation; arithmetic's result annotation equals the left operand's.
type Binary struct {
	Operator lexer.Token
	Left     Expression
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Operator.Lexeme }
func (b *Binary) Pos() lexer.Position  { return b.Operator.Pos }
func (b *Binary) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(b.Left.String())
	out.WriteString(" " + b.Operator.Lexeme + " ")
	out.WriteString(b.Right.String())
	out.WriteString(")")
	return out.String()
}

// Logical is `and`/`or`, which short-circuit and never evaluate Right
// unless the result still depends on it.
type Logical struct {
	Operator lexer.Token
	Left     Expression
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Operator.Lexeme }
func (l *Logical) Pos() lexer.Position  { return l.Operator.Pos }
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator.Lexeme + " " + l.Right.String() + ")"
}

// Unary is `-x` or `!x`.
type Unary struct {
	Operator lexer.Token
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Operator.Lexeme }
func (u *Unary) Pos() lexer.Position  { return u.Operator.Pos }
func (u *Unary) String() string       { return "(" + u.Operator.Lexeme + u.Right.String() + ")" }

// Grouping is a parenthesized expression kept only so String() can
// round-trip source faithfully; it carries no evaluation semantics beyond
// its inner expression.
type Grouping struct {
	Token lexer.Token // '('
	Inner Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return g.Token.Lexeme }
func (g *Grouping) Pos() lexer.Position  { return g.Token.Pos }
func (g *Grouping) String() string       { return "(" + g.Inner.String() + ")" }

// Call is `callee(args...)`: a user-function call, a struct constructor
// call, or a built-in such as `print`'s sibling `assert`.
type Call struct {
	Paren  lexer.Token // ')'
	Callee Expression
	Args   []Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }
func (c *Call) Pos() lexer.Position  { return c.Callee.Pos() }
func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Get is `object.name`: a field read or a bound-method reference, parsed
// as Call(Get(...), args) when immediately followed by `(`.
type Get struct {
	Dot    lexer.Token
	Object Expression
	Name   *Identifier
}

func (g *Get) expressionNode()      {}
func (g *Get) TokenLiteral() string { return g.Dot.Lexeme }
func (g *Get) Pos() lexer.Position  { return g.Object.Pos() }
func (g *Get) String() string       { return g.Object.String() + "." + g.Name.Value }

// Set is `object.name = value`, the assignment form of Get.
type Set struct {
	Dot    lexer.Token
	Object Expression
	Name   *Identifier
	Value  Expression
}

func (s *Set) expressionNode()      {}
func (s *Set) TokenLiteral() string { return s.Dot.Lexeme }
func (s *Set) Pos() lexer.Position  { return s.Object.Pos() }
func (s *Set) String() string {
	return s.Object.String() + "." + s.Name.Value + " = " + s.Value.String()
}

// Index is `object[index]`, an array element read.
type Index struct {
	Bracket lexer.Token // '['
	Object  Expression
	Idx     Expression
}

func (i *Index) expressionNode()      {}
func (i *Index) TokenLiteral() string { return i.Bracket.Lexeme }
func (i *Index) Pos() lexer.Position  { return i.Object.Pos() }
func (i *Index) String() string       { return i.Object.String() + "[" + i.Idx.String() + "]" }

// SetArrayElement is `object[index] = value`, the assignment form of Index.
type SetArrayElement struct {
	Bracket lexer.Token
	Object  Expression
	Idx     Expression
	Value   Expression
}

func (s *SetArrayElement) expressionNode()      {}
func (s *SetArrayElement) TokenLiteral() string { return s.Bracket.Lexeme }
func (s *SetArrayElement) Pos() lexer.Position  { return s.Object.Pos() }
func (s *SetArrayElement) String() string {
	return s.Object.String() + "[" + s.Idx.String() + "] = " + s.Value.String()
}

// EnumPath is `Ident::Ident(::Ident)*`. Enums are parsed but not
// evaluated (spec §9); evaluating one is an internal error until enum
// support lands.
type EnumPath struct {
	Token    lexer.Token // first identifier
	Segments []*Identifier
}

func (e *EnumPath) expressionNode()      {}
func (e *EnumPath) TokenLiteral() string { return e.Token.Lexeme }
func (e *EnumPath) Pos() lexer.Position  { return e.Token.Pos }
func (e *EnumPath) String() string {
	parts := make([]string, len(e.Segments))
	for i, s := range e.Segments {
		parts[i] = s.Value
	}
	return strings.Join(parts, "::")
}
