package domain

import (
	"context"
	"io"
)

// OutputFormat selects how a compiled program or an execution trace is
// rendered by the service layer.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatDOT  OutputFormat = "dot"
)

// ProgramDocument is the on-disk shape a program is loaded from: a named
// Block plus any global function blocks it may call.
type ProgramDocument struct {
	Main    Block            `yaml:"main"`
	Globals map[string]Block `yaml:"globals"`
}

// ProgramLoader reads a ProgramDocument from a path, resolving named
// expression/built-in references against a registry.
type ProgramLoader interface {
	Load(path string) (*ProgramDocument, error)
}

// DocumentDiscoverer finds program document paths under a set of roots,
// used by CheckUseCase to walk a directory tree of documents.
type DocumentDiscoverer interface {
	Discover(root string, include, exclude []string) ([]string, error)
}

// CompiledProgram is what CompileUseCase hands to a formatter: the labelled
// flow-node arena alongside the set of node IDs that fused runs left dead,
// enough to render a CFG dump.
type CompiledProgram struct {
	Name      string
	Nodes     []*FlowNode
	DeadIDs   map[int]bool
}

// CFGFormatter renders a compiled program's flow graph.
type CFGFormatter interface {
	Format(w io.Writer, format OutputFormat, program *CompiledProgram) error
}

// TraceStep is one recorded step of an execution, used by TraceFormatter.
type TraceStep struct {
	PC     int
	Opcode Opcode
}

// ExecutionTrace is the full record of one top-level Exec call.
type ExecutionTrace struct {
	Steps  []TraceStep
	Result any
	Exited bool
}

// TraceFormatter renders an execution trace.
type TraceFormatter interface {
	Format(w io.Writer, format OutputFormat, trace *ExecutionTrace) error
}

// ProgressReporter reports progress across a batch of program files, e.g.
// for `eventflow check` over a glob of documents.
type ProgressReporter interface {
	Start(total int)
	Advance(name string, ok bool)
	Finish()
}

// RunRequest is the input to RunUseCase.Execute: a program document path
// plus the arguments and shared environment it is invoked with.
type RunRequest struct {
	Path         string
	Args         map[string]any
	Env          map[string]any
	StepLimit    int
	Trace        bool
	OutputFormat OutputFormat
	Output       io.Writer
}

// CompileRequest is the input to CompileUseCase.Execute: a program document
// path to compile without running it, for CFG inspection.
type CompileRequest struct {
	Path         string
	OutputFormat OutputFormat
	Output       io.Writer
}

// CheckRequest is the input to CheckUseCase.Execute: a set of root paths to
// discover program documents under, validated by compiling each one.
type CheckRequest struct {
	Paths           []string
	IncludePatterns []string
	ExcludePatterns []string
	OutputFormat    OutputFormat
	Output          io.Writer
}

// CheckResult summarises one discovered document's compile outcome.
type CheckResult struct {
	Path  string
	Steps int
	Dead  int
	Err   string
}

// BuiltinResolver resolves a built-in function name to its implementation,
// used by the node-generation pass to bind NodeNormal/builtIn=true calls
// and by ExternCall is explicitly excluded (external calls resolve at
// dispatch time through the interpreter's global table instead).
type BuiltinResolver interface {
	Resolve(name string) (BuiltInFunction, error)
}

// ExpressionResolver resolves a named expression reference from a program
// document into a live Expression, used by the loader.
type ExpressionResolver interface {
	Resolve(ctx context.Context, ref string) (Expression, error)
}
