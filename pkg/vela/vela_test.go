package vela_test

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/velalang/vela/pkg/vela"
)

func TestTokenizeReturnsTokenStreamTerminatedByEOF(t *testing.T) {
	tokens, err := vela.Tokenize(`let i: i64 = 0;`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Lexeme != "" {
		t.Fatalf("expected the stream to end in EOF, got %v", tokens)
	}
}

func TestTokenizePropagatesFirstScanError(t *testing.T) {
	_, err := vela.Tokenize(`"unterminated`)
	if err == nil {
		t.Fatal("expected a scan error for an unterminated string")
	}
}

func TestParsePropagatesFirstParseError(t *testing.T) {
	_, err := vela.Parse(`let x: i32 = ;`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestResolveReturnsLocalsForAWellFormedProgram(t *testing.T) {
	program, err := vela.Parse(`let x: i32 = 1; { print x; }`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	locals, err := vela.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(locals) != 1 {
		t.Fatalf("expected exactly one recorded local, got %d", len(locals))
	}
}

func TestRunnerRedirectsPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	runner := vela.NewRunner()
	runner.SetOutput(&buf)
	if err := runner.Run(`print 7;`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.String() != "7\n" {
		t.Fatalf("expected \"7\\n\", got %q", buf.String())
	}
}

func TestRunnerRunResolvedMatchesRun(t *testing.T) {
	program, err := vela.Parse(`print 1 + 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	locals, err := vela.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var buf bytes.Buffer
	runner := vela.NewRunner()
	runner.SetOutput(&buf)
	if err := runner.RunResolved(program, locals); err != nil {
		t.Fatalf("RunResolved: %v", err)
	}
	if buf.String() != "2\n" {
		t.Fatalf("expected \"2\\n\", got %q", buf.String())
	}
}

func TestPackageLevelRunReturnsFirstPipelineError(t *testing.T) {
	err := vela.Run(`let i: i64 = 0; i = 100.00;`)
	if err == nil {
		t.Fatal("expected the type-mismatch error to propagate out of Run")
	}
}

// TestRunGoldenOutput snapshots the print output of a representative
// program exercising most of the language: arithmetic, structs, traits,
// arrays, and control flow in one script.
func TestRunGoldenOutput(t *testing.T) {
	const source = `
		struct Counter { value: i32, }
		trait Incrementable { fn increment() -> i32; }
		impl Incrementable for Counter {
			fn increment() -> i32 {
				self.value = self.value + 1;
				return self.value;
			}
		}

		let c: Counter = Counter();
		print c.increment();
		print c.increment();

		let a: Array<i32> = [1, 2, 3];
		let sum: i32 = a[0] + a[1] + a[2];
		print sum;

		let i: i32 = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`
	var buf bytes.Buffer
	runner := vela.NewRunner()
	runner.SetOutput(&buf)
	if err := runner.Run(source); err != nil {
		t.Fatalf("Run: %v", err)
	}
	snaps.MatchSnapshot(t, "combined_program_output", buf.String())
}
