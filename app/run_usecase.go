package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/interpreter"
)

// RunUseCase orchestrates loading a program document, compiling it and
// executing it once, then formatting the result. Grounded on pyscn's
// app/complexity_usecase.go constructor-injected-interface shape: a use
// case holds nothing but collaborator interfaces and exposes a single
// Execute(ctx, request) error entry point.
type RunUseCase struct {
	loader   domain.ProgramLoader
	builtins domain.BuiltinResolver
	trace    domain.TraceFormatter
}

// NewRunUseCase creates a new run use case.
func NewRunUseCase(loader domain.ProgramLoader, builtins domain.BuiltinResolver, trace domain.TraceFormatter) *RunUseCase {
	return &RunUseCase{loader: loader, builtins: builtins, trace: trace}
}

// Execute loads, compiles and runs req.Path's program document, writing
// either the returned value or a full execution trace to req.Output.
func (uc *RunUseCase) Execute(ctx context.Context, req domain.RunRequest) error {
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

	in, err := interpreter.New(uc.builtins, doc, req.StepLimit)
	if err != nil {
		return domain.NewCompileError(req.Path, err)
	}

	if req.Trace {
		trace, err := in.ExecTraced(ctx, req.Args, req.Env)
		if err != nil {
			return err
		}
		return uc.trace.Format(req.Output, req.OutputFormat, trace)
	}

	result, err := in.Exec(ctx, req.Args, req.Env)
	if err != nil {
		if errors.Is(err, interpreter.ErrExit) {
			fmt.Fprintln(req.Output, "exited")
			return nil
		}
		return err
	}
	fmt.Fprintf(req.Output, "%v\n", result)
	return nil
}
