package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tocque/eventflow/app"
	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/loader"
	"github.com/tocque/eventflow/service"
)

// CheckCommand represents the `check` subcommand: discovers and compiles
// every matching program document under the given roots, for CI use.
// Grounded on pyscn's cmd/pyscn/check.go exit-code convention: 0 for a
// clean batch, 1 when any document failed to compile.
type CheckCommand struct {
	configFile string
	include    []string
	exclude    []string
	quiet      bool
}

// NewCheckCommand creates a new check command.
func NewCheckCommand() *CheckCommand {
	return &CheckCommand{}
}

// CreateCobraCommand creates the cobra command for batch-checking documents.
func (c *CheckCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Compile every program document under the given paths",
		Long: `Discover program documents under the given paths and compile each one,
without running any of them. Designed for CI: exits 1 if any document
fails to compile.

Examples:
  # Check every document under the current directory
  eventflow check .

  # Check with custom include/exclude globs
  eventflow check --include "**/*.yaml" --exclude "**/fixtures/**" docs/`,
		Args: cobra.ArbitraryArgs,
		RunE: c.run,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringSliceVar(&c.include, "include", nil, "Glob patterns to include (defaults from config)")
	cmd.Flags().StringSliceVar(&c.exclude, "exclude", nil, "Glob patterns to exclude (defaults from config)")
	cmd.Flags().BoolVarP(&c.quiet, "quiet", "q", false, "Only print a summary line")

	return cmd
}

func (c *CheckCommand) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}

	w, err := newWiring(c.configFile)
	if err != nil {
		return err
	}

	include := c.include
	if include == nil {
		include = w.cfg.Discovery.IncludePatterns
	}
	exclude := c.exclude
	if exclude == nil {
		exclude = w.cfg.Discovery.ExcludePatterns
	}

	var progress domain.ProgressReporter
	if !c.quiet {
		progress = service.NewProgressReporter()
	}

	uc := app.NewCheckUseCase(loader.NewFSDiscoverer(), w.loader, w.registry.Builtins(), progress)
	results, err := uc.Execute(domain.CheckRequest{
		Paths:           args,
		IncludePatterns: include,
		ExcludePatterns: exclude,
	})
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != "" {
			failed++
			if !c.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %s\n", r.Path, r.Err)
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d checked, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("eventflow: %d of %d program documents failed to compile", failed, len(results))
	}
	return nil
}

// NewCheckCmd creates and returns the check cobra command.
func NewCheckCmd() *cobra.Command {
	return NewCheckCommand().CreateCobraCommand()
}
