package interpreter

import (
	"context"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/engine"
)

// Executable is one compiled program: a named, dense array of engine.Step
// values ready to run from any valid program counter. It keeps a back
// reference to the owning Interpreter so an ExternCall encountered while
// running it can dispatch into the Interpreter's other compiled globals.
type Executable struct {
	name    string
	interp  *Interpreter
	program []engine.Step
	nodes   []*domain.FlowNode
	deadIDs map[int]bool
}

// Name returns the executable's name ("main", or a global function's name).
func (e *Executable) Name() string {
	return e.name
}

// Len reports the number of addressable steps in the compiled program.
func (e *Executable) Len() int {
	return len(e.program)
}

// Document returns the CompiledProgram view of this executable, suitable
// for a CFGFormatter to render.
func (e *Executable) Document() *domain.CompiledProgram {
	return &domain.CompiledProgram{
		Name:    e.name,
		Nodes:   e.nodes,
		DeadIDs: e.deadIDs,
	}
}

// Exec runs this executable from step 0 with a fresh scope built from args
// and env, returning its Return value. If the program hit an Exit
// statement instead, Exec returns ErrExit.
func (e *Executable) Exec(ctx context.Context, args, env map[string]any) (any, error) {
	scope := domain.NewScope(args, env)
	frame := engine.NewFrame(scope)
	value, exited, err := engine.Run(ctx, e.program, frame, e.interp, e.interp.stepLimit, nil)
	if err != nil {
		return nil, err
	}
	if exited {
		return nil, ErrExit
	}
	return value, nil
}

// ExecTraced runs this executable like Exec but records every dispatched
// step, including ones taken inside called global functions: ctx carries the
// observer down so Interpreter.Call attaches it to the frame it dispatches
// for each ExternCall too, rather than tracing only this top frame.
func (e *Executable) ExecTraced(ctx context.Context, args, env map[string]any) (*domain.ExecutionTrace, error) {
	trace := &domain.ExecutionTrace{}
	observe := func(pc int, op domain.Opcode) {
		trace.Steps = append(trace.Steps, domain.TraceStep{PC: pc, Opcode: op})
	}
	ctx = withObserver(ctx, observe)

	scope := domain.NewScope(args, env)
	frame := engine.NewFrame(scope)
	value, exited, err := engine.Run(ctx, e.program, frame, e.interp, e.interp.stepLimit, observe)
	if err != nil {
		return nil, err
	}
	trace.Result = value
	trace.Exited = exited
	return trace, nil
}

// StepNode runs exactly one step at the given program counter against an
// explicit scope, without looping to completion. This is the building
// block a host would use to single-step a program under its own control —
// e.g. across a persisted Snapshot's resumption point — while Exec serves
// the common run-to-completion case.
func (e *Executable) StepNode(ctx context.Context, id int, scope *domain.Scope) (domain.Opcode, error) {
	if id < 0 || id >= len(e.program) {
		return domain.Opcode{}, domain.NewStepOutOfRangeError(id, len(e.program))
	}
	return e.program[id](ctx, scope)
}
