// Package config loads eventflow's run-time configuration: the step
// limit guard, default output format, and program-file discovery patterns
// used by the `check` subcommand's glob. Configuration comes from (in
// ascending priority) built-in defaults, a TOML config file, and CLI
// flags — the same layering pyscn's internal/config applies, rebuilt here
// around eventflow's much smaller settings surface with spf13/viper doing
// the file binding instead of a hand-rolled TOML reader.
package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/tocque/eventflow/domain"
)

// Config is eventflow's full run-time configuration.
type Config struct {
	// Engine holds execution-engine settings.
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" toml:"engine"`

	// Output holds output-formatting settings.
	Output OutputConfig `mapstructure:"output" yaml:"output" toml:"output"`

	// Discovery holds program-file discovery settings for `check`.
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery" toml:"discovery"`
}

// EngineConfig controls the stepping engine.
type EngineConfig struct {
	// StepLimit bounds the number of steps a single Exec/Call may
	// dispatch before failing with a step-limit error. 0 means unlimited.
	StepLimit int `mapstructure:"step_limit" yaml:"step_limit" toml:"step_limit"`

	// Trace controls whether `run` records and prints a full execution
	// trace rather than just the final result.
	Trace bool `mapstructure:"trace" yaml:"trace" toml:"trace"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	// Format selects how compiled programs and traces are rendered:
	// text, json, yaml, or (compiled programs only) dot.
	Format string `mapstructure:"format" yaml:"format" toml:"format"`
}

// DiscoveryConfig controls which files `check` considers.
type DiscoveryConfig struct {
	// IncludePatterns are doublestar glob patterns selecting program
	// documents to check.
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns are doublestar glob patterns excluding matches from
	// IncludePatterns.
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`
}

// DefaultConfig returns eventflow's built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			StepLimit: domain.DefaultStepLimit,
			Trace:     false,
		},
		Output: OutputConfig{
			Format: string(domain.DefaultOutputFormat),
		},
		Discovery: DiscoveryConfig{
			IncludePatterns: []string{"**/*.yaml", "**/*.yml"},
			ExcludePatterns: []string{"**/*_test.yaml"},
		},
	}
}

// Load reads configuration from configPath (a .toml file) if non-empty,
// layering it over DefaultConfig via viper. An empty configPath returns
// the default configuration untouched.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.SetDefault("engine.step_limit", cfg.Engine.StepLimit)
	v.SetDefault("engine.trace", cfg.Engine.Trace)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("discovery.include_patterns", cfg.Discovery.IncludePatterns)
	v.SetDefault("discovery.exclude_patterns", cfg.Discovery.ExcludePatterns)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("eventflow: failed to read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("eventflow: failed to parse config %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports a config error if any setting is out of range.
func (c *Config) Validate() error {
	if c.Engine.StepLimit < 0 {
		return fmt.Errorf("eventflow: engine.step_limit must be >= 0, got %d", c.Engine.StepLimit)
	}
	switch domain.OutputFormat(c.Output.Format) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatDOT:
	default:
		return fmt.Errorf("eventflow: unsupported output.format %q", c.Output.Format)
	}
	return nil
}

// MarshalTOML renders the config as TOML, used by `eventflow init` to
// write out a starter config file.
func (c *Config) MarshalTOML() ([]byte, error) {
	return toml.Marshal(c)
}
