package main

import (
	"github.com/spf13/cobra"

	"github.com/tocque/eventflow/app"
	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/service"
)

// RunCommand represents the `run` subcommand: compiles and executes a
// single program document once. Grounded on pyscn's cmd/pyscn command
// structs (configFile/output fields plus a CreateCobraCommand/runX pair).
type RunCommand struct {
	configFile string
	stepLimit  int
	trace      bool
	format     string
}

// NewRunCommand creates a new run command.
func NewRunCommand() *RunCommand {
	return &RunCommand{format: string(domain.OutputFormatText)}
}

// CreateCobraCommand creates the cobra command for running a program.
func (c *RunCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <document>",
		Short: "Compile and execute a program document",
		Long: `Compile a program document (YAML or TOML) and execute its main block once.

Examples:
  # Run a program and print its return value
  eventflow run hello.yaml

  # Run with a step-count ceiling
  eventflow run hello.yaml --step-limit 10000

  # Print a full execution trace instead of just the result
  eventflow run hello.yaml --trace --format json`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().IntVar(&c.stepLimit, "step-limit", 0, "Maximum steps to dispatch (0 = unlimited)")
	cmd.Flags().BoolVar(&c.trace, "trace", false, "Print a full execution trace instead of the return value")
	cmd.Flags().StringVar(&c.format, "format", string(domain.OutputFormatText), "Output format: text, json, yaml")

	return cmd
}

func (c *RunCommand) run(cmd *cobra.Command, args []string) error {
	w, err := newWiring(c.configFile)
	if err != nil {
		return err
	}

	stepLimit := c.stepLimit
	if !cmd.Flags().Changed("step-limit") {
		stepLimit = w.cfg.Engine.StepLimit
	}
	trace := c.trace || w.cfg.Engine.Trace
	format := c.format
	if !cmd.Flags().Changed("format") {
		format = w.cfg.Output.Format
	}

	uc := app.NewRunUseCase(w.loader, w.registry.Builtins(), service.NewTraceFormatter())
	req := domain.RunRequest{
		Path:         args[0],
		Args:         map[string]any{},
		Env:          map[string]any{},
		StepLimit:    stepLimit,
		Trace:        trace,
		OutputFormat: domain.OutputFormat(format),
		Output:       cmd.OutOrStdout(),
	}
	return uc.Execute(cmd.Context(), req)
}

// NewRunCmd creates and returns the run cobra command.
func NewRunCmd() *cobra.Command {
	return NewRunCommand().CreateCobraCommand()
}
