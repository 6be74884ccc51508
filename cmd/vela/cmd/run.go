package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velalang/vela/internal/resolver"
	"github.com/velalang/vela/pkg/vela"
)

var (
	printAST    bool
	printTokens bool
)

var runCmd = &cobra.Command{
	Use:   "run <path>",
	Short: "Run a Vela source file",
	Long: `Run executes a Vela program from a file.

Examples:
  vela run script.vl
  vela run --print-tokens script.vl
  vela run --print-ast script.vl`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&printAST, "print-ast", false, "print the parsed program before running it")
	runCmd.Flags().BoolVar(&printTokens, "print-tokens", false, "print the token stream before running it")
}

func runFile(_ *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	source := string(content)

	if printTokens {
		tokens, err := vela.Tokenize(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			return err
		}
		for _, tok := range tokens {
			fmt.Printf("%-14s %q @%d:%d\n", tok.Type, tok.Lexeme, tok.Pos.Line, tok.Pos.Column)
		}
	}

	program, err := vela.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return err
	}

	if printAST {
		fmt.Println(program.String())
	}

	var locals resolver.Locals
	locals, err = vela.Resolve(program)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return err
	}

	runner := vela.NewRunner()
	if err := runner.RunResolved(program, locals); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return err
	}
	return nil
}
