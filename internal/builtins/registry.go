// Package builtins is a small standard library of host callables: the
// built-in functions a Call statement may invoke by name, and the named
// expressions a loaded program document may reference. Neither expression
// evaluation nor built-in implementation is part of the interpreter proper
// (spec §1 keeps both external collaborators) — this package is simply one
// concrete, minimal host that is enough to run the example programs and
// the test suite without requiring every caller to write their own.
package builtins

import (
	"context"
	"fmt"

	"github.com/tocque/eventflow/domain"
)

// Func adapts a plain function to domain.BuiltInFunction.
type Func func(ctx context.Context, params map[string]any, env map[string]any) (any, error)

// Call implements domain.BuiltInFunction.
func (f Func) Call(ctx context.Context, params map[string]any, env map[string]any) (any, error) {
	return f(ctx, params, env)
}

// Registry is a name-keyed table of built-in functions and named
// expressions. Its Builtins and Expressions views implement
// domain.BuiltinResolver and domain.ExpressionResolver respectively — two
// separate views rather than one type implementing both interfaces,
// since both interfaces name their single method Resolve with
// incompatible signatures.
type Registry struct {
	functions   map[string]domain.BuiltInFunction
	expressions map[string]domain.Expression
}

// NewRegistry returns a Registry with nothing registered.
func NewRegistry() *Registry {
	return &Registry{
		functions:   make(map[string]domain.BuiltInFunction),
		expressions: make(map[string]domain.Expression),
	}
}

// NewStandardRegistry returns a Registry pre-populated with the functions
// and expressions in this package's Standard table.
func NewStandardRegistry() *Registry {
	r := NewRegistry()
	for name, fn := range Standard() {
		r.RegisterFunc(name, fn)
	}
	for name, expr := range StandardExpressions() {
		r.RegisterExpr(name, expr)
	}
	return r
}

// RegisterFunc adds or replaces a built-in function.
func (r *Registry) RegisterFunc(name string, fn domain.BuiltInFunction) {
	r.functions[name] = fn
}

// RegisterExpr adds or replaces a named expression.
func (r *Registry) RegisterExpr(name string, expr domain.Expression) {
	r.expressions[name] = expr
}

// Builtins returns the domain.BuiltinResolver view of this registry.
func (r *Registry) Builtins() domain.BuiltinResolver {
	return builtinView{r}
}

// Expressions returns the domain.ExpressionResolver view of this registry.
func (r *Registry) Expressions() domain.ExpressionResolver {
	return exprView{r}
}

type builtinView struct{ r *Registry }

func (b builtinView) Resolve(name string) (domain.BuiltInFunction, error) {
	fn, ok := b.r.functions[name]
	if !ok {
		return nil, domain.NewUnknownBuiltInError(name)
	}
	return fn, nil
}

type exprView struct{ r *Registry }

func (e exprView) Resolve(ctx context.Context, ref string) (domain.Expression, error) {
	expr, ok := e.r.expressions[ref]
	if !ok {
		return nil, fmt.Errorf("eventflow: unknown expression reference %q", ref)
	}
	return expr, nil
}
