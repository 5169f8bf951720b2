package main

import (
	"github.com/spf13/cobra"

	"github.com/tocque/eventflow/app"
	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/service"
)

// CompileCommand represents the `compile` subcommand: compiles a program
// document and renders its CFG without running it.
type CompileCommand struct {
	configFile string
	format     string
}

// NewCompileCommand creates a new compile command.
func NewCompileCommand() *CompileCommand {
	return &CompileCommand{format: string(domain.OutputFormatText)}
}

// CreateCobraCommand creates the cobra command for compiling a program.
func (c *CompileCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <document>",
		Short: "Compile a program document and render its control-flow graph",
		Long: `Compile a program document into its dense, ID-indexed step array and render
the resulting control-flow graph without executing it.

Examples:
  # Print a text summary of the compiled graph
  eventflow compile hello.yaml

  # Render as Graphviz DOT
  eventflow compile hello.yaml --format dot > hello.dot`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&c.format, "format", string(domain.OutputFormatText), "Output format: text, json, yaml, dot")

	return cmd
}

func (c *CompileCommand) run(cmd *cobra.Command, args []string) error {
	w, err := newWiring(c.configFile)
	if err != nil {
		return err
	}

	format := c.format
	if !cmd.Flags().Changed("format") {
		format = w.cfg.Output.Format
	}

	uc := app.NewCompileUseCase(w.loader, w.registry.Builtins(), service.NewCFGFormatter())
	req := domain.CompileRequest{
		Path:         args[0],
		OutputFormat: domain.OutputFormat(format),
		Output:       cmd.OutOrStdout(),
	}
	return uc.Execute(req)
}

// NewCompileCmd creates and returns the compile cobra command.
func NewCompileCmd() *cobra.Command {
	return NewCompileCommand().CreateCobraCommand()
}
