package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tocque/eventflow/internal/config"
)

// InitCommand represents the init command: writes a starter config file.
type InitCommand struct {
	force      bool
	configPath string
}

// NewInitCommand creates a new init command.
func NewInitCommand() *InitCommand {
	return &InitCommand{configPath: "eventflow.toml"}
}

// CreateCobraCommand creates the cobra command for configuration scaffolding.
func (i *InitCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter eventflow configuration file",
		Long: `Write a TOML configuration file with eventflow's default settings:
engine step limit, output format, and document-discovery glob patterns.

Examples:
  eventflow init
  eventflow init --config myproject.toml
  eventflow init --force`,
		RunE: i.run,
	}
	cmd.Flags().BoolVarP(&i.force, "force", "f", false, "Overwrite an existing configuration file")
	cmd.Flags().StringVarP(&i.configPath, "config", "c", "eventflow.toml", "Configuration file path")
	return cmd
}

func (i *InitCommand) run(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(i.configPath)
	if err != nil {
		return fmt.Errorf("eventflow: failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !i.force {
		return fmt.Errorf("eventflow: configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("eventflow: failed to create directory: %w", err)
	}

	data, err := config.DefaultConfig().MarshalTOML()
	if err != nil {
		return fmt.Errorf("eventflow: failed to render default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("eventflow: failed to write configuration file: %w", err)
	}

	rel, err := filepath.Rel(".", path)
	if err != nil {
		rel = path
	}
	fmt.Fprintf(cmd.OutOrStdout(), "configuration file created: %s\n", rel)
	return nil
}

// NewInitCmd creates and returns the init cobra command.
func NewInitCmd() *cobra.Command {
	return NewInitCommand().CreateCobraCommand()
}
