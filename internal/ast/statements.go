package ast

import (
	"strings"

	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/types"
)

// Param is a single `name: type` pair shared by function parameters and
// struct fields.
type Param struct {
	Name       *Identifier
	Annotation *types.Annotation
}

func (p *Param) String() string { return p.Name.Value + ": " + p.Annotation.String() }

// BlockStmt is `{ statement* }`. Evaluating it opens a new environment
// frame enclosing the current one and removes it on exit.
type BlockStmt struct {
	Token      lexer.Token // '{'
	Statements []Statement
}

func (b *BlockStmt) statementNode()      {}
func (b *BlockStmt) TokenLiteral() string { return b.Token.Lexeme }
func (b *BlockStmt) Pos() lexer.Position  { return b.Token.Pos }
func (b *BlockStmt) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStmt is an expression evaluated purely for its side effects;
// its value is discarded.
type ExpressionStmt struct {
	Expr Expression
}

func (e *ExpressionStmt) statementNode()      {}
func (e *ExpressionStmt) TokenLiteral() string { return e.Expr.TokenLiteral() }
func (e *ExpressionStmt) Pos() lexer.Position  { return e.Expr.Pos() }
func (e *ExpressionStmt) String() string       { return e.Expr.String() + ";" }

// LetStmt is `let name: type (= expr)? ;`. When the source omitted the
// initializer, the parser has already synthesized one from the
// declared type's default value (spec §4.2), so Initializer is never nil.
type LetStmt struct {
	Token       lexer.Token // 'let'
	Name        *Identifier
	Annotation  *types.Annotation
	Initializer Expression
	// Synthesized is true when the parser supplied the default-value
	// initializer because the source had none.
	Synthesized bool
}

func (l *LetStmt) statementNode()      {}
func (l *LetStmt) TokenLiteral() string { return l.Token.Lexeme }
func (l *LetStmt) Pos() lexer.Position  { return l.Token.Pos }
func (l *LetStmt) String() string {
	s := "let " + l.Name.Value + ": " + l.Annotation.String()
	if !l.Synthesized {
		s += " = " + l.Initializer.String()
	}
	return s + ";"
}

// FunctionStmt is a top-level `fn`, and is also reused (unattached to the
// top-level environment) for method bodies inside `impl` blocks.
type FunctionStmt struct {
	Token      lexer.Token // 'fn'
	Name       *Identifier
	Params     []*Param
	ReturnType *types.Annotation
	Body       *BlockStmt
}

func (f *FunctionStmt) statementNode()      {}
func (f *FunctionStmt) TokenLiteral() string { return f.Token.Lexeme }
func (f *FunctionStmt) Pos() lexer.Position  { return f.Token.Pos }
func (f *FunctionStmt) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return "fn " + f.Name.Value + "(" + strings.Join(params, ", ") + ") -> " +
		f.ReturnType.String() + " " + f.Body.String()
}

// StructStmt declares an aggregate type's fields.
type StructStmt struct {
	Token  lexer.Token // 'struct'
	Name   *Identifier
	Fields []*Param
}

func (s *StructStmt) statementNode()      {}
func (s *StructStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *StructStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *StructStmt) String() string {
	fields := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = f.String()
	}
	return "struct " + s.Name.Value + " { " + strings.Join(fields, ", ") + " }"
}

// TraitSignature is one `fn NAME(params) -> type;` line inside a trait
// body — a signature with no body.
type TraitSignature struct {
	Name       *Identifier
	Params     []*Param
	ReturnType *types.Annotation
}

func (s *TraitSignature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return "fn " + s.Name.Value + "(" + strings.Join(params, ", ") + ") -> " + s.ReturnType.String()
}

// TraitStmt declares a named set of method signatures.
type TraitStmt struct {
	Token      lexer.Token // 'trait'
	Name       *Identifier
	Signatures []*TraitSignature
}

func (t *TraitStmt) statementNode()      {}
func (t *TraitStmt) TokenLiteral() string { return t.Token.Lexeme }
func (t *TraitStmt) Pos() lexer.Position  { return t.Token.Pos }
func (t *TraitStmt) String() string {
	sigs := make([]string, len(t.Signatures))
	for i, s := range t.Signatures {
		sigs[i] = s.String() + ";"
	}
	return "trait " + t.Name.Value + " { " + strings.Join(sigs, " ") + " }"
}

// ImplStmt attaches methods to a struct. TraitName is nil for a plain
// `impl NAME { ... }`, and set for `impl TRAIT for NAME { ... }` (whose
// methods must additionally conform to the trait's declared signatures).
type ImplStmt struct {
	Token      lexer.Token // 'impl'
	StructName *Identifier
	TraitName  *Identifier
	Methods    []*FunctionStmt
}

func (i *ImplStmt) statementNode()      {}
func (i *ImplStmt) TokenLiteral() string { return i.Token.Lexeme }
func (i *ImplStmt) Pos() lexer.Position  { return i.Token.Pos }
func (i *ImplStmt) String() string {
	head := "impl "
	if i.TraitName != nil {
		head += i.TraitName.Value + " for "
	}
	head += i.StructName.Value + " { "
	methods := make([]string, len(i.Methods))
	for idx, m := range i.Methods {
		methods[idx] = m.String()
	}
	return head + strings.Join(methods, " ") + " }"
}

// EnumStmt is parsed but never evaluated (spec §9 design notes).
type EnumStmt struct {
	Token    lexer.Token // 'enum'
	Name     *Identifier
	Variants []*Identifier
}

func (e *EnumStmt) statementNode()      {}
func (e *EnumStmt) TokenLiteral() string { return e.Token.Lexeme }
func (e *EnumStmt) Pos() lexer.Position  { return e.Token.Pos }
func (e *EnumStmt) String() string {
	variants := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		variants[i] = v.Value
	}
	return "enum " + e.Name.Value + " { " + strings.Join(variants, ", ") + " }"
}

// IfStmt is `if (cond) then (else else)?`.
type IfStmt struct {
	Token     lexer.Token // 'if'
	Condition Expression
	Then      Statement
	Else      Statement // nil if no else branch
}

func (s *IfStmt) statementNode()      {}
func (s *IfStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *IfStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *IfStmt) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// WhileStmt is `while (cond) body`. `for` loops are desugared into this
// form by the parser (spec §4.2) and never reach the evaluator as a
// distinct node.
type WhileStmt struct {
	Token     lexer.Token // 'while'
	Condition Expression
	Body      Statement
}

func (s *WhileStmt) statementNode()      {}
func (s *WhileStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *WhileStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *WhileStmt) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}

// ReturnStmt is `return expr? ;`. Value is nil when the statement has no
// expression, in which case the evaluator returns Unit.
type ReturnStmt struct {
	Token lexer.Token // 'return'
	Value Expression
}

func (s *ReturnStmt) statementNode()      {}
func (s *ReturnStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *ReturnStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// PrintStmt is `print expr ;`.
type PrintStmt struct {
	Token lexer.Token // 'print'
	Value Expression
}

func (s *PrintStmt) statementNode()      {}
func (s *PrintStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *PrintStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *PrintStmt) String() string       { return "print " + s.Value.String() + ";" }

// BreakStmt is `break ;`.
type BreakStmt struct {
	Token lexer.Token // 'break'
}

func (s *BreakStmt) statementNode()      {}
func (s *BreakStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *BreakStmt) Pos() lexer.Position  { return s.Token.Pos }
func (s *BreakStmt) String() string       { return "break;" }
