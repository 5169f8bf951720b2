package builtins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesRegisteredBuiltin(t *testing.T) {
	r := NewRegistry()
	r.RegisterFunc("double", Func(func(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
		return 42, nil
	}))

	fn, err := r.Builtins().Resolve("double")
	require.NoError(t, err)
	v, err := fn.Call(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestRegistryResolveFailsForUnknownBuiltin(t *testing.T) {
	r := NewRegistry()
	_, err := r.Builtins().Resolve("missing")
	assert.Error(t, err)
}

func TestRegistryResolvesRegisteredExpression(t *testing.T) {
	r := NewRegistry()
	r.RegisterExpr("greeting", Literal("hi"))

	expr, err := r.Expressions().Resolve(context.Background(), "greeting")
	require.NoError(t, err)
	v, err := expr.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestRegistryExpressionResolveFailsForUnknownRef(t *testing.T) {
	r := NewRegistry()
	_, err := r.Expressions().Resolve(context.Background(), "missing")
	assert.Error(t, err)
}

func TestNewStandardRegistryHasTheStandardTables(t *testing.T) {
	r := NewStandardRegistry()

	_, err := r.Builtins().Resolve("echo")
	assert.NoError(t, err)
	_, err = r.Expressions().Resolve(context.Background(), "true")
	assert.NoError(t, err)
}

func TestRegisterFuncReplacesExistingEntry(t *testing.T) {
	r := NewStandardRegistry()
	r.RegisterFunc("noop", Func(func(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
		return "overridden", nil
	}))

	fn, err := r.Builtins().Resolve("noop")
	require.NoError(t, err)
	v, err := fn.Call(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "overridden", v)
}
