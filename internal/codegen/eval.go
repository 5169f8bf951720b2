package codegen

import (
	"context"
	"reflect"

	"github.com/tocque/eventflow/domain"
)

func evalExpr(ctx context.Context, scope *domain.Scope, expr domain.Expression) (any, error) {
	if expr == nil {
		return true, nil
	}
	v, err := expr.Eval(ctx, scope)
	if err != nil {
		return nil, domain.NewExpressionFaultError(err)
	}
	return v, nil
}

func evalValue(ctx context.Context, scope *domain.Scope, v *domain.Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	if v.Expr != nil {
		return evalExpr(ctx, scope, v.Expr)
	}
	return v.Literal, nil
}

func evalParams(ctx context.Context, scope *domain.Scope, params map[string]domain.Value) (map[string]any, error) {
	out := make(map[string]any, len(params))
	for name, v := range params {
		if v.Expr != nil {
			value, err := evalExpr(ctx, scope, v.Expr)
			if err != nil {
				return nil, err
			}
			out[name] = value
		} else {
			out[name] = v.Literal
		}
	}
	return out, nil
}

// truthy follows the host's natural boolean coercion: nil, false, a zero
// number and an empty string/collection are falsy; everything else is
// truthy. Expressions are opaque, so this is necessarily a best-effort
// default rather than a language-defined rule (spec §6: "truthiness
// follows the host's natural boolean coercion").
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case float32:
		return x != 0
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Map, reflect.Array:
			return rv.Len() != 0
		case reflect.Ptr, reflect.Interface:
			return !rv.IsNil()
		}
		return true
	}
}

// strictEqual implements switch's strict equality comparison between a
// pattern value and a branch condition value.
func strictEqual(a, b any) bool {
	switch x := a.(type) {
	case float64:
		if y, ok := toFloat(b); ok {
			return x == y
		}
		return false
	case int:
		if y, ok := toFloat(b); ok {
			return float64(x) == y
		}
		return false
	default:
		return reflect.DeepEqual(a, b)
	}
}

func toFloat(v any) (float64, bool) {
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

// chooseIf evaluates an If node's branches in declared order and returns
// the FlowNode execution should move to: the first truthy branch's body,
// the otherwise block, or the node's own successor.
func chooseIf(ctx context.Context, scope *domain.Scope, n *domain.FlowNode) (*domain.FlowNode, error) {
	for _, branch := range n.Branches {
		v, err := evalExpr(ctx, scope, branch.Condition)
		if err != nil {
			return nil, err
		}
		if truthy(v) {
			return branch.Body, nil
		}
	}
	if n.Otherwise != nil {
		return n.Otherwise, nil
	}
	return n.Next, nil
}

// chooseSwitch evaluates a Switch node's pattern once, then its branch
// conditions in order, comparing each for strict equality. First match
// wins; there is no fallthrough.
func chooseSwitch(ctx context.Context, scope *domain.Scope, n *domain.FlowNode) (*domain.FlowNode, error) {
	pattern, err := evalExpr(ctx, scope, n.Pattern)
	if err != nil {
		return nil, err
	}
	for _, branch := range n.Branches {
		v, err := evalExpr(ctx, scope, branch.Condition)
		if err != nil {
			return nil, err
		}
		if strictEqual(pattern, v) {
			return branch.Body, nil
		}
	}
	if n.Otherwise != nil {
		return n.Otherwise, nil
	}
	return n.Next, nil
}

// chooseLoop evaluates a Loop head: the iterator (if present) runs for its
// side effect, then the condition (absent condition means always true)
// decides whether to move to the body or fall out to the successor. This
// single node serves as the per-iteration check (when reached via the
// body's fall-through back edge) and, for a loop with no initializer and no
// skipInitialCheck, as the initial check too, in which case the iterator
// also runs once before that first check. A LoopInitializer never moves
// here on entry: loopInitializerTarget checks the condition itself.
func chooseLoop(ctx context.Context, scope *domain.Scope, n *domain.FlowNode) (*domain.FlowNode, error) {
	if n.Iter != nil {
		if _, err := evalExpr(ctx, scope, n.Iter); err != nil {
			return nil, err
		}
	}
	cond, err := evalExpr(ctx, scope, n.Cond)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return n.Body, nil
	}
	return n.Next, nil
}

// loopInitializerTarget evaluates the initializer for its side effect and
// returns where execution should move next: the loop body directly
// (skipInitialCheck, do-while), or — for the normal for-loop shape — the
// body or the loop's successor depending on the condition alone. The
// condition is evaluated here rather than by moving to the loop head node,
// because the loop head's own step (chooseLoop) always runs the iterator
// before checking the condition, which is only correct for the per-
// iteration back-edge: a for(init; cond; iter) loop must check cond once,
// unconditionally, before ever running iter the first time.
func loopInitializerTarget(ctx context.Context, scope *domain.Scope, n *domain.FlowNode) (*domain.FlowNode, error) {
	if _, err := evalExpr(ctx, scope, n.Init); err != nil {
		return nil, err
	}
	if n.Main.SkipInitialCheck {
		return n.Main.Body, nil
	}
	cond, err := evalExpr(ctx, scope, n.Main.Cond)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return n.Main.Body, nil
	}
	return n.Main.Next, nil
}
