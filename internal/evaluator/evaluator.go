// Package evaluator implements the stack-based tree-walking evaluator of
// spec §4.4: it executes a resolved Program against a frame-indexed
// runtime.Environment, maintaining the operand stack invariant that every
// expression visit pushes exactly one TypedValue.
package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/errors"
	"github.com/velalang/vela/internal/resolver"
	"github.com/velalang/vela/internal/runtime"
	"github.com/velalang/vela/internal/types"
)

// Evaluator holds the state named in spec §4.4: the current frame index,
// the operand stack, the environment's frame vector, and the resolver's
// locals table.
type Evaluator struct {
	env     *runtime.Environment
	current int
	stack   []runtime.TypedValue
	locals  resolver.Locals
	out     io.Writer

	// pendingArrayElem carries the element type of the `let` currently
	// being evaluated, the same "consult the enclosing let" trick the
	// parser uses for integer/float literal widths — it gives an empty
	// synthesized ArrayLiteral (from an uninitialized `let a: Array<T>;`)
	// the correct element annotation instead of defaulting to Unit.
	pendingArrayElem *types.Annotation
}

// New builds an Evaluator with a fresh root environment frame.
func New(locals resolver.Locals) *Evaluator {
	return &Evaluator{
		env:     runtime.NewEnvironment(),
		current: 0,
		locals:  locals,
		out:     os.Stdout,
	}
}

// SetOutput redirects `print` output; tests use this to capture output for
// golden comparisons instead of writing to the real stdout.
func (e *Evaluator) SetOutput(w io.Writer) { e.out = w }

// Run executes every top-level statement in program in order. The first
// error — including a stray Break that escaped every loop — terminates
// the run.
func Run(program *ast.Program, locals resolver.Locals) error {
	e := New(locals)
	return e.Run(program)
}

func (e *Evaluator) Run(program *ast.Program) error {
	for _, stmt := range program.Statements {
		if err := e.execStmt(stmt); err != nil {
			return e.convertEscapedSignal(err)
		}
	}
	return nil
}

// convertEscapedSignal turns a ControlFlow signal that reached the top
// level — which only happens for Break, since the resolver already
// rejects a top-level Return — into a genuine RuntimeError. A bare Break
// escaping every enclosing While is the "unhandled at top level is an
// error" case spec §4.4 calls out.
func (e *Evaluator) convertEscapedSignal(err error) error {
	if errors.IsBreak(err) {
		return errors.NewRuntimeErrorf(errors.GenericError, types.Position{}, "'break' outside of any loop")
	}
	if _, ok := errors.AsReturn(err); ok {
		return errors.NewInternalErrorf("'return' escaped to the top level")
	}
	return err
}

// push and pop implement the LIFO operand stack. Every successful
// expression visit calls push exactly once; every recursive sub-expression
// evaluation is immediately popped back off by evalValue, so the net stack
// effect at each nesting level is the single push documented in §8's
// testable properties.
func (e *Evaluator) push(tv runtime.TypedValue) { e.stack = append(e.stack, tv) }

func (e *Evaluator) pop() (runtime.TypedValue, error) {
	if len(e.stack) == 0 {
		return runtime.TypedValue{}, errors.NewInternalError("operand stack underflow")
	}
	tv := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return tv, nil
}

// evalValue evaluates expr for its value: it runs the expression's own
// push, then immediately pops the result back off for the caller to use.
func (e *Evaluator) evalValue(expr ast.Expression) (runtime.TypedValue, error) {
	if err := e.evalExpr(expr); err != nil {
		return runtime.TypedValue{}, err
	}
	return e.pop()
}

func (e *Evaluator) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}
