// Package mcp exposes eventflow's run/compile/check operations as MCP
// tools over mark3labs/mcp-go, grounded on pyscn's mcp package: a
// Dependencies struct aggregating shared services, a RegisterTools
// function wiring mcp.NewTool definitions to handler functions, and
// handlers that parse request.Params.Arguments by hand rather than
// through a schema-bound struct.
package mcp

import (
	"github.com/tocque/eventflow/app"
	"github.com/tocque/eventflow/internal/builtins"
	"github.com/tocque/eventflow/internal/config"
	"github.com/tocque/eventflow/internal/loader"
	"github.com/tocque/eventflow/service"
)

// Dependencies aggregates the shared services every MCP handler compiles
// and runs program documents against.
type Dependencies struct {
	cfg      *config.Config
	registry *builtins.Registry
	loader   *loader.Loader
}

// NewDependencies constructs the dependency set. A nil cfg falls back to
// config.DefaultConfig().
func NewDependencies(cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	registry := builtins.NewStandardRegistry()
	return &Dependencies{
		cfg:      cfg,
		registry: registry,
		loader:   loader.New(registry.Expressions()),
	}
}

func (d *Dependencies) runUseCase() *app.RunUseCase {
	return app.NewRunUseCase(d.loader, d.registry.Builtins(), service.NewTraceFormatter())
}

func (d *Dependencies) compileUseCase() *app.CompileUseCase {
	return app.NewCompileUseCase(d.loader, d.registry.Builtins(), service.NewCFGFormatter())
}

func (d *Dependencies) checkUseCase() *app.CheckUseCase {
	return app.NewCheckUseCase(loader.NewFSDiscoverer(), d.loader, d.registry.Builtins(), nil)
}
