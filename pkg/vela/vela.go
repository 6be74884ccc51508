// Package vela is the embeddable public facade of the interpreter: a thin
// shell over the internal lexer/parser/resolver/evaluator pipeline so a
// host program (including cmd/vela) never needs to import internal/...
// packages directly.
package vela

import (
	"io"
	"os"

	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/evaluator"
	"github.com/velalang/vela/internal/lexer"
	"github.com/velalang/vela/internal/parser"
	"github.com/velalang/vela/internal/resolver"
)

// Tokenize scans source into its full token stream, or the first
// ParserError the scanner encountered.
func Tokenize(source string) ([]lexer.Token, error) {
	return lexer.Scan(source)
}

// Parse scans and parses source into a Program, or the first ParserError
// encountered while doing so.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// Resolve runs the scope-depth resolution pass over an already-parsed
// program, returning the Variable/Assign → depth table the evaluator
// needs.
func Resolve(program *ast.Program) (resolver.Locals, error) {
	return resolver.Resolve(program)
}

// Runner drives Tokenize → Parse → Resolve → evaluate and lets a caller
// redirect `print` output before running.
type Runner struct {
	out io.Writer
}

// NewRunner returns a Runner that writes `print` output to os.Stdout
// until SetOutput is called.
func NewRunner() *Runner {
	return &Runner{out: os.Stdout}
}

// SetOutput redirects `print` output, e.g. to a bytes.Buffer in tests.
func (r *Runner) SetOutput(w io.Writer) { r.out = w }

// Run parses, resolves, and evaluates source in one call, returning the
// first error from whichever stage fails.
func (r *Runner) Run(source string) error {
	program, err := parser.Parse(source)
	if err != nil {
		return err
	}
	locals, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	return r.RunResolved(program, locals)
}

// RunResolved evaluates a program that the caller already parsed and
// resolved itself — the CLI host uses this so it can print tokens/AST
// between those stages without running the pipeline twice.
func (r *Runner) RunResolved(program *ast.Program, locals resolver.Locals) error {
	e := evaluator.New(locals)
	e.SetOutput(r.out)
	return e.Run(program)
}

// Run is the package-level convenience form of Runner.Run, writing
// `print` output to os.Stdout.
func Run(source string) error {
	return NewRunner().Run(source)
}
