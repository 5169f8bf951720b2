// Package interpreter is the façade a host program drives: it compiles a
// ProgramDocument's main block and global functions once, then executes
// them, dispatching ExternCall opcodes back into the compiled globals to
// form a genuine call stack. Everything it does is built out of
// internal/flow, internal/codegen and internal/engine — this package adds
// no execution semantics of its own beyond wiring those three passes
// together and giving global-function calls somewhere to land.
package interpreter

import (
	"context"
	"errors"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/codegen"
	"github.com/tocque/eventflow/internal/engine"
	"github.com/tocque/eventflow/internal/flow"
)

// ErrExit is returned by Exec (and by a global-function Call made on its
// behalf) when the program reached an Exit statement. It is a sentinel
// rather than a special zero value because "no return value" and "exited"
// must remain distinguishable, and because an explicit error return is the
// idiomatic Go way to surface that distinction up an arbitrarily deep call
// stack without every intermediate layer needing its own exited-bool field.
var ErrExit = errors.New("eventflow: execution halted by an exit statement")

// observerContextKey is the ctx key ExecTraced uses to carry its
// engine.StepObserver down into Call-dispatched global functions, so a trace
// records steps taken inside them too rather than just the top frame's.
type observerContextKey struct{}

func withObserver(ctx context.Context, observe engine.StepObserver) context.Context {
	return context.WithValue(ctx, observerContextKey{}, observe)
}

func observerFromContext(ctx context.Context) engine.StepObserver {
	observe, _ := ctx.Value(observerContextKey{}).(engine.StepObserver)
	return observe
}

// Interpreter holds every compiled Executable belonging to one
// ProgramDocument: the main entry point plus every named global function an
// ExternCall statement may invoke.
type Interpreter struct {
	builtins  domain.BuiltinResolver
	main      *Executable
	globals   map[string]*Executable
	stepLimit int
}

// New compiles doc's main block and every global function eagerly. A
// compile failure anywhere — an unresolved built-in name, a duplicate
// label, a break outside any loop — fails the whole call: there is no
// partially-usable Interpreter. stepLimit bounds every Exec/Call this
// Interpreter performs (0 means unlimited).
func New(builtins domain.BuiltinResolver, doc *domain.ProgramDocument, stepLimit int) (*Interpreter, error) {
	in := &Interpreter{
		builtins:  builtins,
		globals:   make(map[string]*Executable),
		stepLimit: stepLimit,
	}

	main, err := in.compile("main", doc.Main)
	if err != nil {
		return nil, err
	}
	in.main = main

	for name, block := range doc.Globals {
		exe, err := in.compile(name, block)
		if err != nil {
			return nil, err
		}
		in.globals[name] = exe
	}

	return in, nil
}

func (in *Interpreter) compile(name string, block domain.Block) (*Executable, error) {
	graph, nodes, err := flow.Analyze(block)
	if err != nil {
		return nil, err
	}
	program, dead, err := codegen.Generate(graph, nodes, in.builtins)
	if err != nil {
		return nil, err
	}
	return &Executable{
		name:    name,
		interp:  in,
		program: program,
		nodes:   nodes,
		deadIDs: dead,
	}, nil
}

// Compile lowers and compiles block into a standalone Executable under the
// given name. The result can call this Interpreter's global functions but is
// not itself registered as one.
func (in *Interpreter) Compile(name string, block domain.Block) (*Executable, error) {
	return in.compile(name, block)
}

// Main returns the compiled entry-point executable.
func (in *Interpreter) Main() *Executable {
	return in.main
}

// Global looks up a compiled global function by name.
func (in *Interpreter) Global(name string) (*Executable, error) {
	exe, ok := in.globals[name]
	if !ok {
		return nil, domain.NewUnknownGlobalError(name)
	}
	return exe, nil
}

// Exec runs the main program from its entry step with the given arguments
// and environment. It returns ErrExit, not a result, if the program exited
// rather than returned.
func (in *Interpreter) Exec(ctx context.Context, args, env map[string]any) (any, error) {
	return in.main.Exec(ctx, args, env)
}

// ExecTraced runs the main program like Exec, additionally recording every
// dispatched step (including steps taken inside called global functions) to
// build an ExecutionTrace for the service layer's trace formatter.
func (in *Interpreter) ExecTraced(ctx context.Context, args, env map[string]any) (*domain.ExecutionTrace, error) {
	return in.main.ExecTraced(ctx, args, env)
}

// Call implements engine.CallDispatcher: it resolves name against the
// compiled globals and runs a fresh frame for it, forming one level of the
// call stack. The ExternCall's own return value is discarded by the
// engine — spec §5 notes the current language has no receiver syntax for
// a global call's result — so only the exited flag and any error need to
// propagate back to the caller's Step.
func (in *Interpreter) Call(ctx context.Context, name string, params map[string]any, env map[string]any) (any, bool, error) {
	exe, err := in.Global(name)
	if err != nil {
		return nil, false, err
	}
	scope := domain.NewScope(params, env)
	frame := engine.NewFrame(scope)
	return engine.Run(ctx, exe.program, frame, in, in.stepLimit, observerFromContext(ctx))
}
