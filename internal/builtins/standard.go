package builtins

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tocque/eventflow/domain"
)

// Standard returns the built-in table used when no host-specific registry
// is supplied: a handful of functions enough to express the example
// programs in spec §8 (hello world, counters, environment lookups) without
// pulling in any evaluation engine of its own.
func Standard() map[string]domain.BuiltInFunction {
	return map[string]domain.BuiltInFunction{
		"echo":     Func(echo),
		"log":      Func(log),
		"add":      Func(add),
		"sub":      Func(sub),
		"concat":   Func(concat),
		"env.get":  Func(envGet),
		"noop":     Func(noop),
	}
}

// echo writes params["value"] to stdout followed by a newline.
func echo(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	fmt.Println(params["value"])
	return nil, nil
}

// log writes params["level"] and params["message"] to stderr.
func log(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	level, _ := params["level"].(string)
	if level == "" {
		level = "info"
	}
	fmt.Fprintf(os.Stderr, "[%s] %v\n", level, params["message"])
	return nil, nil
}

// add returns the sum of params["a"] and params["b"] as float64.
func add(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	a, b, err := numericPair(params)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

// sub returns params["a"] minus params["b"] as float64.
func sub(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	a, b, err := numericPair(params)
	if err != nil {
		return nil, err
	}
	return a - b, nil
}

// concat joins params["a"] and params["b"] as strings.
func concat(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%v%v", params["a"], params["b"])
	return b.String(), nil
}

// envGet reads params["name"] out of the frame's shared environment map.
func envGet(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	name, _ := params["name"].(string)
	return env[name], nil
}

// noop does nothing; useful as a placeholder built-in call in tests.
func noop(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	return nil, nil
}

func numericPair(params map[string]any) (float64, float64, error) {
	a, ok := toNumber(params["a"])
	if !ok {
		return 0, 0, fmt.Errorf("eventflow: parameter %q is not numeric", "a")
	}
	b, ok := toNumber(params["b"])
	if !ok {
		return 0, 0, fmt.Errorf("eventflow: parameter %q is not numeric", "b")
	}
	return a, b, nil
}

func toNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
