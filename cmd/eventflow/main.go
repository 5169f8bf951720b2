// Command eventflow compiles and runs event-interpreter program documents.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tocque/eventflow/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "eventflow",
	Short: "A dense-array event interpreter for data-driven program documents",
	Long: `eventflow compiles event-interpreter program documents (YAML or TOML) into a
flat, ID-indexed array of execution steps and runs them.

Features:
  • Two-pass compilation: flow analysis then node generation
  • Run-fusing of straight-line and mergeable-loop stretches into one step
  • YAML/TOML program documents with named expression/built-in references`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file path (.toml)")

	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewCompileCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
