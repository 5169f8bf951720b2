package builtins

import (
	"context"

	"github.com/tocque/eventflow/domain"
)

// ExprFunc adapts a plain function to domain.Expression.
type ExprFunc func(ctx context.Context, scope *domain.Scope) (any, error)

// Eval implements domain.Expression.
func (f ExprFunc) Eval(ctx context.Context, scope *domain.Scope) (any, error) {
	return f(ctx, scope)
}

// StandardExpressions returns the named expressions a loaded program
// document may reference by string: only the constants "true" and "false".
// These are deliberately tiny: real expression evaluation is out of scope
// (spec §1). Variable and argument lookup is available to Go callers through
// the Local and Arg constructors, which are not registered by name.
func StandardExpressions() map[string]domain.Expression {
	return map[string]domain.Expression{
		"true":  ExprFunc(alwaysTrue),
		"false": ExprFunc(alwaysFalse),
	}
}

func alwaysTrue(ctx context.Context, scope *domain.Scope) (any, error) {
	return true, nil
}

func alwaysFalse(ctx context.Context, scope *domain.Scope) (any, error) {
	return false, nil
}

// Local looks up a name in the running scope's Local table.
func Local(name string) domain.Expression {
	return ExprFunc(func(ctx context.Context, scope *domain.Scope) (any, error) {
		return scope.Local[name], nil
	})
}

// Arg looks up a name in the running scope's Args table.
func Arg(name string) domain.Expression {
	return ExprFunc(func(ctx context.Context, scope *domain.Scope) (any, error) {
		return scope.Args[name], nil
	})
}

// Literal wraps a fixed value as an Expression.
func Literal(value any) domain.Expression {
	return ExprFunc(func(ctx context.Context, scope *domain.Scope) (any, error) {
		return value, nil
	})
}
