package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tocque/eventflow/domain"
)

type stubDispatcher struct {
	value  any
	exited bool
	err    error
	calls  []string
	onCall func()
}

func (s *stubDispatcher) Call(ctx context.Context, name string, params map[string]any, env map[string]any) (any, bool, error) {
	s.calls = append(s.calls, name)
	if s.onCall != nil {
		s.onCall()
	}
	return s.value, s.exited, s.err
}

func TestRunFollowsMoveOpcodesToReturn(t *testing.T) {
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Move(1), nil
		},
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Return("done"), nil
		},
	}
	value, exited, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), &stubDispatcher{}, 0, nil)
	require.NoError(t, err)
	assert.False(t, exited)
	assert.Equal(t, "done", value)
}

func TestRunPropagatesExit(t *testing.T) {
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Exit(), nil
		},
	}
	value, exited, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), &stubDispatcher{}, 0, nil)
	require.NoError(t, err)
	assert.True(t, exited)
	assert.Nil(t, value)
}

func TestRunAdvancesPCBeforeDispatchingCall(t *testing.T) {
	var pcAtCallTime int
	frame := NewFrame(domain.NewScope(nil, nil))
	dispatcher := &stubDispatcher{onCall: func() { pcAtCallTime = frame.PC }}
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Call("globalFn", nil, 2), nil
		},
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			t.Fatal("step 1 should never be reached: Call's Next skips it")
			return domain.Opcode{}, nil
		},
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Return("after call"), nil
		},
	}
	value, _, err := Run(context.Background(), program, frame, dispatcher, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "after call", value)
	assert.Equal(t, []string{"globalFn"}, dispatcher.calls)
	assert.Equal(t, 2, pcAtCallTime, "the PC must already point past the call when the callee runs")
}

func TestRunPropagatesExitFromDispatchedCall(t *testing.T) {
	dispatcher := &stubDispatcher{exited: true}
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Call("globalFn", nil, 1), nil
		},
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			t.Fatal("should not reach the step after an exited call")
			return domain.Opcode{}, nil
		},
	}
	_, exited, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), dispatcher, 0, nil)
	require.NoError(t, err)
	assert.True(t, exited)
}

func TestRunEnforcesStepLimit(t *testing.T) {
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Move(0), nil
		},
	}
	_, _, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), &stubDispatcher{}, 3, nil)
	assert.Error(t, err)
}

func TestRunObservesEveryDispatchedStep(t *testing.T) {
	var observed []domain.OpcodeKind
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Move(1), nil
		},
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Return(nil), nil
		},
	}
	_, _, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), &stubDispatcher{}, 0, func(pc int, op domain.Opcode) {
		observed = append(observed, op.Kind)
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.OpcodeKind{domain.OpMove, domain.OpReturn}, observed)
}

func TestRunReportsOutOfRangePC(t *testing.T) {
	program := []Step{
		func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Move(5), nil
		},
	}
	_, _, err := Run(context.Background(), program, NewFrame(domain.NewScope(nil, nil)), &stubDispatcher{}, 0, nil)
	assert.Error(t, err)
}
