package resolver_test

import (
	"testing"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/resolver"
)

func parseOrFail(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return program
}

func TestResolveSameScopeReadRecordsDepthZero(t *testing.T) {
	program := parseOrFail(t, `let x: i32 = 1; print x;`)
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(locals) != 1 {
		t.Fatalf("expected exactly one recorded local, got %d: %v", len(locals), locals)
	}
	for _, depth := range locals {
		if depth != 0 {
			t.Fatalf("expected depth 0 (same scope as the declaration), got %d", depth)
		}
	}
}

func TestResolveNestedBlockRecordsDepth(t *testing.T) {
	program := parseOrFail(t, `
		let x: i32 = 1;
		{
			print x;
		}
	`)
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(locals) != 1 {
		t.Fatalf("expected exactly one recorded local, got %d: %v", len(locals), locals)
	}
	for _, depth := range locals {
		if depth != 1 {
			t.Fatalf("expected depth 1 (one enclosing block away), got %d", depth)
		}
	}
}

func TestResolveRejectsReadFromOwnInitializer(t *testing.T) {
	program := parseOrFail(t, `let x: i32 = x;`)
	_, err := resolver.Resolve(program)
	if err == nil {
		t.Fatal("expected an error reading a variable from its own initializer")
	}
}

func TestResolveRejectsTopLevelReturn(t *testing.T) {
	program := parseOrFail(t, `return 1;`)
	_, err := resolver.Resolve(program)
	if err == nil {
		t.Fatal("expected an error for a top-level return")
	}
}

func TestResolveAllowsReturnInsideFunction(t *testing.T) {
	program := parseOrFail(t, `fn f() -> i64 { return 1; }`)
	if _, err := resolver.Resolve(program); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveFunctionParameterShadowsOuterScope(t *testing.T) {
	program := parseOrFail(t, `
		let x: i32 = 1;
		fn f(x: i32) -> i32 {
			return x;
		}
	`)
	locals, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// The parameter `x` inside f's body resolves one scope up from the
	// body's own block (to the function's parameter scope), never
	// reaching past it to the global `x` two scopes further out.
	for _, depth := range locals {
		if depth != 1 {
			t.Fatalf("expected the parameter read to resolve at depth 1, got %d", depth)
		}
	}
}

func TestResolveImplMethodBindsSelf(t *testing.T) {
	program := parseOrFail(t, `
		struct S { x: i32, }
		impl S {
			fn getX() -> i32 {
				return self.x;
			}
		}
	`)
	if _, err := resolver.Resolve(program); err != nil {
		t.Fatalf("unexpected error resolving a method body referencing self: %v", err)
	}
}
