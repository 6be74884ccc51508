package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"
)

var rootCmd = &cobra.Command{
	Use:     "vela",
	Short:   "Vela interpreter",
	Long:    `vela is the command-line host for the Vela tree-walking interpreter: a small statically-typed scripting language with primitives, fixed-length arrays, structs with methods, traits, and first-class functions.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
