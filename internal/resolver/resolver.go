// Package resolver implements the static scope-analysis pass of spec §4.3:
// for every identifier use-site it records how many enclosing lexical
// scopes separate it from its declaration, so the evaluator can jump
// straight to the right environment frame instead of searching name by
// name up the whole chain. It also enforces the two static rules spec.md
// names: no reading a variable from its own initializer, and no `return`
// outside a function body.
package resolver

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
)

// Locals maps each Variable/Assign use-site to the number of enclosing
// scopes to walk (0 = the current/innermost scope) to find its
// declaration. Top-level names are tracked too (in the outermost scope),
// so a use-site absent from Locals is one whose name had not been
// declared yet at that point of the walk (such as a top-level binding
// declared later in the program) or is genuinely undefined; the evaluator
// treats both the same way, by asking
// the environment to walk its full chain, and reports UndefinedVariable
// if that fails too.
type Locals map[ast.Expression]int

// Resolver walks a Program once, front to back, maintaining a stack of
// lexical scopes that mirrors the frame chain the evaluator will build at
// runtime.
type Resolver struct {
	scopes        []map[string]bool
	locals        Locals
	functionDepth int
}

// New creates a Resolver with an empty (but present) global scope.
func New() *Resolver {
	return &Resolver{scopes: []map[string]bool{{}}, locals: Locals{}}
}

// Resolve runs the resolver over program and returns the completed Locals
// table, or the first static error encountered.
func Resolve(program *ast.Program) (Locals, error) {
	r := New()
	if err := r.resolveStatements(program.Statements); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string) { r.scopes[len(r.scopes)-1][name] = false }
func (r *Resolver) define(name string)  { r.scopes[len(r.scopes)-1][name] = true }

func (r *Resolver) resolveLocal(expr ast.Expression, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any tracked scope: left unresolved. The evaluator will
	// fall back to a full chain walk and report UndefinedVariable if the
	// name really doesn't exist anywhere.
}

func (r *Resolver) resolveStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		err := r.resolveStatements(s.Statements)
		r.endScope()
		return err

	case *ast.ExpressionStmt:
		return r.resolveExpr(s.Expr)

	case *ast.LetStmt:
		r.declare(s.Name.Value)
		if err := r.resolveExpr(s.Initializer); err != nil {
			return err
		}
		r.define(s.Name.Value)
		return nil

	case *ast.FunctionStmt:
		r.declare(s.Name.Value)
		r.define(s.Name.Value)
		return r.resolveFunction(s)

	case *ast.StructStmt:
		r.declare(s.Name.Value)
		r.define(s.Name.Value)
		return nil

	case *ast.TraitStmt:
		r.declare(s.Name.Value)
		r.define(s.Name.Value)
		return nil

	case *ast.ImplStmt:
		for _, m := range s.Methods {
			r.beginScope()
			r.declare("self")
			r.define("self")
			err := r.resolveFunction(m)
			r.endScope()
			if err != nil {
				return err
			}
		}
		return nil

	case *ast.EnumStmt:
		r.declare(s.Name.Value)
		r.define(s.Name.Value)
		return nil

	case *ast.IfStmt:
		if err := r.resolveExpr(s.Condition); err != nil {
			return err
		}
		if err := r.resolveStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		if err := r.resolveExpr(s.Condition); err != nil {
			return err
		}
		return r.resolveStmt(s.Body)

	case *ast.ReturnStmt:
		if r.functionDepth == 0 {
			return errors.NewParserError(s.Pos(), s.TokenLiteral(), "'return' is not allowed at the top level")
		}
		if s.Value != nil {
			return r.resolveExpr(s.Value)
		}
		return nil

	case *ast.PrintStmt:
		return r.resolveExpr(s.Value)

	case *ast.BreakStmt:
		return nil

	default:
		return errors.NewInternalErrorf("resolver: unhandled statement type %T", stmt)
	}
}

// resolveFunction pushes the parameter scope and resolves the body (whose
// own BlockStmt case pushes a second, nested scope) — two frames per call,
// matching the evaluator's call-dispatch-then-Block sequence.
func (r *Resolver) resolveFunction(fn *ast.FunctionStmt) error {
	r.functionDepth++
	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param.Name.Value)
		r.define(param.Name.Value)
	}
	err := r.resolveStmt(fn.Body)
	r.endScope()
	r.functionDepth--
	return err
}

func (r *Resolver) resolveExpr(expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.Variable:
		if scope := r.scopes[len(r.scopes)-1]; scope != nil {
			if defined, declared := scope[e.Name.Value]; declared && !defined {
				return errors.NewParserError(e.Pos(), e.Name.Value,
					"can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(expr, e.Name.Value)
		return nil

	case *ast.Assign:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		r.resolveLocal(expr, e.Name.Value)
		return nil

	case *ast.Binary:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)

	case *ast.Logical:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)

	case *ast.Unary:
		return r.resolveExpr(e.Right)

	case *ast.Grouping:
		return r.resolveExpr(e.Inner)

	case *ast.Call:
		if err := r.resolveExpr(e.Callee); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := r.resolveExpr(a); err != nil {
				return err
			}
		}
		return nil

	case *ast.Get:
		return r.resolveExpr(e.Object)

	case *ast.Set:
		if err := r.resolveExpr(e.Object); err != nil {
			return err
		}
		return r.resolveExpr(e.Value)

	case *ast.Index:
		if err := r.resolveExpr(e.Object); err != nil {
			return err
		}
		return r.resolveExpr(e.Idx)

	case *ast.SetArrayElement:
		if err := r.resolveExpr(e.Object); err != nil {
			return err
		}
		if err := r.resolveExpr(e.Idx); err != nil {
			return err
		}
		return r.resolveExpr(e.Value)

	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			if err := r.resolveExpr(el); err != nil {
				return err
			}
		}
		return nil

	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral,
		*ast.UnitLiteral, *ast.EnumPath:
		return nil

	default:
		return errors.NewInternalErrorf("resolver: unhandled expression type %T", expr)
	}
}
