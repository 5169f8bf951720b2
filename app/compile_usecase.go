package app

import (
	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/interpreter"
)

// CompileUseCase compiles a program document without running it, for CFG
// inspection (`eventflow compile`). Same constructor-injected shape as
// RunUseCase, grounded on pyscn's app use-case family.
type CompileUseCase struct {
	loader   domain.ProgramLoader
	builtins domain.BuiltinResolver
	cfg      domain.CFGFormatter
}

// NewCompileUseCase creates a new compile use case.
func NewCompileUseCase(loader domain.ProgramLoader, builtins domain.BuiltinResolver, cfg domain.CFGFormatter) *CompileUseCase {
	return &CompileUseCase{loader: loader, builtins: builtins, cfg: cfg}
}

// Execute loads and compiles req.Path's main block, writing the resulting
// CFG to req.Output. Global functions are compiled too (so a bad global
// still fails compilation) but only main's graph is rendered, matching
// what a host actually calls.
func (uc *CompileUseCase) Execute(req domain.CompileRequest) error {
	if req.Path == "" {
		return domain.NewInvalidInputError("path is required", nil)
	}
	if req.Output == nil {
		return domain.NewInvalidInputError("output writer is required", nil)
	}

	doc, err := uc.loader.Load(req.Path)
	if err != nil {
		return domain.NewLoadError(req.Path, err)
	}

	in, err := interpreter.New(uc.builtins, doc, 0)
	if err != nil {
		return domain.NewCompileError(req.Path, err)
	}

	return uc.cfg.Format(req.Output, req.OutputFormat, in.Main().Document())
}
