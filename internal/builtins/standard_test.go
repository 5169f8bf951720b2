package builtins

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSumsNumericParams(t *testing.T) {
	fn := Standard()["add"]
	v, err := fn.Call(context.Background(), map[string]any{"a": 2.0, "b": 3.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestAddFailsOnNonNumericParam(t *testing.T) {
	fn := Standard()["add"]
	_, err := fn.Call(context.Background(), map[string]any{"a": "not a number", "b": 3.0}, nil)
	assert.Error(t, err)
}

func TestSubSubtractsNumericParams(t *testing.T) {
	fn := Standard()["sub"]
	v, err := fn.Call(context.Background(), map[string]any{"a": 5.0, "b": 3.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestConcatJoinsParamsAsStrings(t *testing.T) {
	fn := Standard()["concat"]
	v, err := fn.Call(context.Background(), map[string]any{"a": "foo", "b": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, "foo1", v)
}

func TestEnvGetReadsSharedEnv(t *testing.T) {
	fn := Standard()["env.get"]
	v, err := fn.Call(context.Background(), map[string]any{"name": "STAGE"}, map[string]any{"STAGE": "prod"})
	require.NoError(t, err)
	assert.Equal(t, "prod", v)
}

func TestEnvGetReturnsNilForMissingKey(t *testing.T) {
	fn := Standard()["env.get"]
	v, err := fn.Call(context.Background(), map[string]any{"name": "MISSING"}, map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNoopReturnsNilWithoutError(t *testing.T) {
	fn := Standard()["noop"]
	v, err := fn.Call(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
