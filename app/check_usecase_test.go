package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/builtins"
)

func TestCheckUseCaseRequiresAtLeastOnePath(t *testing.T) {
	uc := NewCheckUseCase(&stubDiscoverer{}, &stubLoader{}, builtins.NewStandardRegistry().Builtins(), nil)
	_, err := uc.Execute(domain.CheckRequest{})
	assert.Error(t, err)
}

func TestCheckUseCaseFailsWhenNothingIsDiscovered(t *testing.T) {
	uc := NewCheckUseCase(&stubDiscoverer{byRoot: map[string][]string{"root": nil}}, &stubLoader{}, builtins.NewStandardRegistry().Builtins(), nil)
	_, err := uc.Execute(domain.CheckRequest{Paths: []string{"root"}})
	assert.Error(t, err)
}

func TestCheckUseCaseReportsPerFileResults(t *testing.T) {
	discoverer := &stubDiscoverer{byRoot: map[string][]string{
		"root": {"good.yaml", "bad.yaml"},
	}}
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{
		"good.yaml": helloDoc(),
	}}
	progress := &stubProgress{}
	uc := NewCheckUseCase(discoverer, loader, builtins.NewStandardRegistry().Builtins(), progress)

	results, err := uc.Execute(domain.CheckRequest{Paths: []string{"root"}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byPath := make(map[string]domain.CheckResult, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}
	assert.Empty(t, byPath["good.yaml"].Err)
	assert.NotEmpty(t, byPath["bad.yaml"].Err)
	assert.Equal(t, 2, progress.total)
	assert.True(t, progress.finished)
	assert.Len(t, progress.advanced, 2)
}

func TestCheckUseCaseDedupesPathsSeenFromMultipleRoots(t *testing.T) {
	discoverer := &stubDiscoverer{byRoot: map[string][]string{
		"a": {"shared.yaml"},
		"b": {"shared.yaml"},
	}}
	loader := &stubLoader{docs: map[string]*domain.ProgramDocument{"shared.yaml": helloDoc()}}
	uc := NewCheckUseCase(discoverer, loader, builtins.NewStandardRegistry().Builtins(), nil)

	results, err := uc.Execute(domain.CheckRequest{Paths: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
