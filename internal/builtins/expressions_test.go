package builtins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocque/eventflow/domain"
)

func TestStandardExpressionsTrueAndFalse(t *testing.T) {
	exprs := StandardExpressions()

	v, err := exprs["true"].Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = exprs["false"].Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}

func TestLocalReadsScopeLocalByName(t *testing.T) {
	scope := domain.NewScope(nil, nil)
	scope.Local["count"] = 7

	v, err := Local("count").Eval(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestArgReadsScopeArgsByName(t *testing.T) {
	scope := domain.NewScope(map[string]any{"name": "ada"}, nil)

	v, err := Arg("name").Eval(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, "ada", v)
}

func TestLiteralAlwaysReturnsTheSameValueRegardlessOfScope(t *testing.T) {
	expr := Literal(99)

	v, err := expr.Eval(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}
