package main

import (
	"github.com/tocque/eventflow/internal/builtins"
	"github.com/tocque/eventflow/internal/config"
	"github.com/tocque/eventflow/internal/loader"
)

// wiring holds the collaborators every subcommand compiles against,
// assembled once from the resolved configuration. Grounded on pyscn's
// cmd/pyscn config_helper.go/utils.go pattern of small, shared command
// helpers rather than a DI container.
type wiring struct {
	cfg      *config.Config
	registry *builtins.Registry
	loader   *loader.Loader
}

func newWiring(configPath string) (*wiring, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	registry := builtins.NewStandardRegistry()
	return &wiring{
		cfg:      cfg,
		registry: registry,
		loader:   loader.New(registry.Expressions()),
	}, nil
}
