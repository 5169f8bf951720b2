package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/builtins"
)

func helloDoc() *domain.ProgramDocument {
	return &domain.ProgramDocument{
		Main: domain.Block{
			{Kind: domain.StmtReturn, Value: &domain.Value{Literal: "ok"}},
		},
	}
}

func TestRunUseCaseRequiresPath(t *testing.T) {
	uc := NewRunUseCase(&stubLoader{}, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})
	err := uc.Execute(context.Background(), domain.RunRequest{Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestRunUseCaseRequiresOutput(t *testing.T) {
	uc := NewRunUseCase(&stubLoader{}, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})
	err := uc.Execute(context.Background(), domain.RunRequest{Path: "prog.yaml"})
	assert.Error(t, err)
}

func TestRunUseCaseWritesReturnedValue(t *testing.T) {
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{"prog.yaml": helloDoc()}}
	uc := NewRunUseCase(loader, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})

	var out bytes.Buffer
	err := uc.Execute(context.Background(), domain.RunRequest{Path: "prog.yaml", Output: &out})
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out.String())
}

func TestRunUseCaseWritesExitedOnErrExit(t *testing.T) {
	doc := &domain.ProgramDocument{
		Main: domain.Block{{Kind: domain.StmtExit}},
	}
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{"prog.yaml": doc}}
	uc := NewRunUseCase(loader, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})

	var out bytes.Buffer
	err := uc.Execute(context.Background(), domain.RunRequest{Path: "prog.yaml", Output: &out})
	require.NoError(t, err)
	assert.Equal(t, "exited\n", out.String())
}

func TestRunUseCaseDelegatesToTraceFormatterWhenRequested(t *testing.T) {
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{"prog.yaml": helloDoc()}}
	trace := &stubTraceFormatter{}
	uc := NewRunUseCase(loader, builtins.NewStandardRegistry().Builtins(), trace)

	var out bytes.Buffer
	err := uc.Execute(context.Background(), domain.RunRequest{
		Path: "prog.yaml", Output: &out, Trace: true, OutputFormat: domain.OutputFormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, "trace rendered\n", out.String())
	assert.Equal(t, "ok", trace.trace.Result)
	assert.Equal(t, domain.OutputFormatJSON, trace.format)
}

func TestRunUseCaseFailsOnLoadError(t *testing.T) {
	uc := NewRunUseCase(&stubLoader{}, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})
	err := uc.Execute(context.Background(), domain.RunRequest{Path: "missing.yaml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestRunUseCaseFailsOnCompileError(t *testing.T) {
	badDoc := &domain.ProgramDocument{
		Main: domain.Block{
			{Kind: domain.StmtCall, Name: "does-not-exist", BuiltIn: true},
		},
	}
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{"prog.yaml": badDoc}}
	uc := NewRunUseCase(loader, builtins.NewStandardRegistry().Builtins(), &stubTraceFormatter{})

	err := uc.Execute(context.Background(), domain.RunRequest{Path: "prog.yaml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}
