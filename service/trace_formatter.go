package service

import (
	"fmt"
	"io"

	"github.com/tocque/eventflow/domain"
)

// TraceFormatterImpl renders an ExecutionTrace as text, JSON or YAML. Same
// format-switch idiom as CFGFormatterImpl; DOT is not meaningful for a
// linear step trace so it is left unsupported.
type TraceFormatterImpl struct{}

// NewTraceFormatter creates a new trace formatter.
func NewTraceFormatter() *TraceFormatterImpl {
	return &TraceFormatterImpl{}
}

func (f *TraceFormatterImpl) Format(w io.Writer, format domain.OutputFormat, trace *domain.ExecutionTrace) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(w, trace)
	case domain.OutputFormatJSON:
		return WriteJSON(w, trace)
	case domain.OutputFormatYAML:
		return WriteYAML(w, trace)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *TraceFormatterImpl) writeText(w io.Writer, trace *domain.ExecutionTrace) error {
	fmt.Fprint(w, FormatMainHeader("Execution trace"))
	fmt.Fprint(w, FormatLabel("Steps recorded", len(trace.Steps)))
	fmt.Fprint(w, FormatLabel("Exited early", trace.Exited))
	fmt.Fprintln(w)

	fmt.Fprint(w, FormatSectionHeader("STEPS"))
	for i, step := range trace.Steps {
		fmt.Fprintf(w, "%4d  pc=%-6d %s", i, step.PC, step.Opcode.Kind)
		switch step.Opcode.Kind {
		case domain.OpMove:
			fmt.Fprintf(w, " -> %d", step.Opcode.Next)
		case domain.OpCall:
			fmt.Fprintf(w, " %s(%v) -> %d", step.Opcode.CallName, step.Opcode.CallParams, step.Opcode.Next)
		case domain.OpReturn:
			fmt.Fprintf(w, " %v", step.Opcode.Value)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, FormatLabel("Result", trace.Result))
	return nil
}
