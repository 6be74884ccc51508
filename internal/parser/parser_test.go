package parser_test

import (
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/types"
)

func TestParseLetStmtWithInitializer(t *testing.T) {
	program, err := parser.Parse(`let i: i64 = 0;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	let, ok := program.Statements[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", program.Statements[0])
	}
	if let.Name.Value != "i" || let.Annotation.Kind != types.I64 {
		t.Fatalf("unexpected let: name=%s annotation=%v", let.Name.Value, let.Annotation)
	}
}

func TestParseLetStmtSynthesizesDefaultInitializer(t *testing.T) {
	program, err := parser.Parse(`let i: i32;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	let := program.Statements[0].(*ast.LetStmt)
	lit, ok := let.Initializer.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("expected a synthesized IntegerLiteral initializer, got %T", let.Initializer)
	}
	if lit.Value != 0 {
		t.Fatalf("expected synthesized default 0, got %d", lit.Value)
	}
}

func TestParseIntegerLiteralDefaultsToI64OutsideLetContext(t *testing.T) {
	program, err := parser.Parse(`print 5;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := program.Statements[0].(*ast.PrintStmt)
	lit := p.Value.(*ast.IntegerLiteral)
	if lit.Annotation.Kind != types.I64 {
		t.Fatalf("expected a bare integer literal to default to i64, got %v", lit.Annotation)
	}
}

func TestParseIntegerLiteralNarrowsToI32InsideI32Let(t *testing.T) {
	program, err := parser.Parse(`let x: i32 = 5;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	let := program.Statements[0].(*ast.LetStmt)
	lit := let.Initializer.(*ast.IntegerLiteral)
	if lit.Annotation.Kind != types.I32 {
		t.Fatalf("expected the literal to narrow to i32 inside an i32 let, got %v", lit.Annotation)
	}
}

func TestParseCallChainedOffGet(t *testing.T) {
	program, err := parser.Parse(`s.greet("vela");`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	exprStmt := program.Statements[0].(*ast.ExpressionStmt)
	call, ok := exprStmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", exprStmt.Expr)
	}
	get, ok := call.Callee.(*ast.Get)
	if !ok {
		t.Fatalf("expected the callee to be a *ast.Get, got %T", call.Callee)
	}
	if get.Name.Value != "greet" {
		t.Fatalf("expected method name 'greet', got %s", get.Name.Value)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(call.Args))
	}
}

func TestParseAssignmentRetargetsGetIntoSet(t *testing.T) {
	program, err := parser.Parse(`s.x = 100;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	exprStmt := program.Statements[0].(*ast.ExpressionStmt)
	set, ok := exprStmt.Expr.(*ast.Set)
	if !ok {
		t.Fatalf("expected *ast.Set, got %T", exprStmt.Expr)
	}
	if set.Name.Value != "x" {
		t.Fatalf("expected field name 'x', got %s", set.Name.Value)
	}
}

func TestParseAssignmentRetargetsIndexIntoSetArrayElement(t *testing.T) {
	program, err := parser.Parse(`a[0] = 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	exprStmt := program.Statements[0].(*ast.ExpressionStmt)
	if _, ok := exprStmt.Expr.(*ast.SetArrayElement); !ok {
		t.Fatalf("expected *ast.SetArrayElement, got %T", exprStmt.Expr)
	}
}

func TestParseInvalidAssignmentTargetIsAnError(t *testing.T) {
	_, err := parser.Parse(`1 = 2;`)
	if err == nil {
		t.Fatal("expected an error assigning to a literal")
	}
}

func TestParseFunctionDeclaration(t *testing.T) {
	program, err := parser.Parse(`fn f(a: i32, b: f64) -> bool { return false; }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	fn := program.Statements[0].(*ast.FunctionStmt)
	if fn.Name.Value != "f" {
		t.Fatalf("expected function name 'f', got %s", fn.Name.Value)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Params))
	}
	if fn.Params[0].Annotation.Kind != types.I32 || fn.Params[1].Annotation.Kind != types.F64 {
		t.Fatalf("unexpected parameter annotations: %v, %v", fn.Params[0].Annotation, fn.Params[1].Annotation)
	}
	if fn.ReturnType.Kind != types.Bool {
		t.Fatalf("expected bool return type, got %v", fn.ReturnType)
	}
}

func TestParseStructWithTrailingComma(t *testing.T) {
	program, err := parser.Parse(`struct S { x: i32, y: bool, }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	s := program.Statements[0].(*ast.StructStmt)
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
}

func TestParseImplForTraitAttachesMethods(t *testing.T) {
	program, err := parser.Parse(`
		trait Greeter { fn greet(name: String) -> String; }
		struct S { x: i32, }
		impl Greeter for S {
			fn greet(name: String) -> String { return name; }
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	impl := program.Statements[2].(*ast.ImplStmt)
	if impl.TraitName == nil || impl.TraitName.Value != "Greeter" {
		t.Fatalf("expected trait name 'Greeter', got %v", impl.TraitName)
	}
	if impl.StructName.Value != "S" {
		t.Fatalf("expected struct name 'S', got %s", impl.StructName.Value)
	}
	if len(impl.Methods) != 1 {
		t.Fatalf("expected 1 method, got %d", len(impl.Methods))
	}
}

func TestParseWhileAndIfStatements(t *testing.T) {
	program, err := parser.Parse(`
		let b: bool = true;
		while (b) {
			if (b) { b = false; } else { b = true; }
		}
	`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	while, ok := program.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", program.Statements[1])
	}
	block := while.Body.(*ast.BlockStmt)
	ifStmt, ok := block.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", block.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("expected an else branch to be parsed")
	}
}

func TestParseArrayLiteral(t *testing.T) {
	program, err := parser.Parse(`let a: Array<i32> = [1,2,3];`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	let := program.Statements[0].(*ast.LetStmt)
	arr, ok := let.Initializer.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected *ast.ArrayLiteral, got %T", let.Initializer)
	}
	if len(arr.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Elements))
	}
}

func TestParseSurfacesFirstErrorOnly(t *testing.T) {
	_, err := parser.Parse(`let x: i32 = ; let y: i32 = ;`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	// The first bad initializer's ';' is at column 14; the second is at 29.
	pe, ok := err.(*errors.Error)
	if !ok || pe.Pos.Column != 14 {
		t.Fatalf("expected the first error (column 14) to be surfaced, got %#v", err)
	}
}
