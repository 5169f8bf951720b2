package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/builtins"
	"github.com/tocque/eventflow/interpreter"
)

func tracedHelloProgram(t *testing.T) *domain.ExecutionTrace {
	t.Helper()
	doc := &domain.ProgramDocument{
		Main: domain.Block{
			{Kind: domain.StmtCall, Name: "echo", BuiltIn: true, Params: map[string]domain.Value{
				"value": {Literal: "hi"},
			}},
			{Kind: domain.StmtReturn, Value: &domain.Value{Literal: "ok"}},
		},
	}
	in, err := interpreter.New(builtins.NewStandardRegistry().Builtins(), doc, 0)
	require.NoError(t, err)
	trace, err := in.ExecTraced(context.Background(), nil, nil)
	require.NoError(t, err)
	return trace
}

func TestTraceFormatterTextListsStepsAndResult(t *testing.T) {
	trace := tracedHelloProgram(t)
	var buf bytes.Buffer
	err := NewTraceFormatter().Format(&buf, domain.OutputFormatText, trace)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Execution trace")
	assert.Contains(t, out, "STEPS")
	assert.Contains(t, out, "ok")
}

func TestTraceFormatterJSONContainsSteps(t *testing.T) {
	trace := tracedHelloProgram(t)
	var buf bytes.Buffer
	err := NewTraceFormatter().Format(&buf, domain.OutputFormatJSON, trace)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "Steps") || strings.Contains(buf.String(), "steps"))
}

func TestTraceFormatterRejectsDOT(t *testing.T) {
	trace := tracedHelloProgram(t)
	var buf bytes.Buffer
	err := NewTraceFormatter().Format(&buf, domain.OutputFormatDOT, trace)
	assert.Error(t, err)
}
