// Package codegen implements the node-generation pass: it translates a
// labelled control-flow graph into a dense array of engine.Step closures,
// one per node ID, fusing runs of mergeable nodes into a single step where
// possible. See internal/flow for the pass that produces the graph this
// package consumes.
package codegen

import (
	"context"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/engine"
)

// generator holds the state threaded through one Generate call: the
// eagerly-resolved built-in table, and the ownership map used to decide,
// at fused-step run time, whether a transition stays inside the current
// fused run or escapes it.
type generator struct {
	builtins map[*domain.FlowNode]domain.BuiltInFunction
	owner    map[*domain.FlowNode]int
}

// Generate compiles a labelled node arena (as produced by flow.Label) into
// a dense program indexed by node ID, plus the set of IDs that were fused
// away into another entry's step (kept only for diagnostics/CFG dumps —
// they are never stepped to by normal dispatch).
func Generate(graph *domain.FlowNode, nodes []*domain.FlowNode, resolve domain.BuiltinResolver) ([]engine.Step, map[int]bool, error) {
	g := &generator{
		builtins: make(map[*domain.FlowNode]domain.BuiltInFunction),
		owner:    make(map[*domain.FlowNode]int),
	}

	if err := g.resolveBuiltins(nodes, resolve); err != nil {
		return nil, nil, err
	}

	program := make([]engine.Step, len(nodes))
	for _, n := range nodes {
		program[n.ID] = g.baseStep(n)
	}

	p := &partitioner{gen: g, visited: make(map[*domain.FlowNode]bool), runs: make(map[int]bool)}
	p.processEntry(graph)

	for entryID := range p.runs {
		program[entryID] = g.fusedStep(nodes[entryID])
	}

	dead := make(map[int]bool)
	for _, n := range nodes {
		if eid, ok := g.owner[n]; ok && eid != n.ID {
			dead[n.ID] = true
		}
	}

	return program, dead, nil
}

// resolveBuiltins binds every builtIn=true Call statement to its
// implementation eagerly, at compile time, per spec §4.2/§7: an unresolved
// built-in name fails the whole compile rather than surfacing at run time.
func (g *generator) resolveBuiltins(nodes []*domain.FlowNode, resolve domain.BuiltinResolver) error {
	for _, n := range nodes {
		if n.Kind != domain.NodeNormal || n.Stmt == nil || n.Stmt.Kind != domain.StmtCall {
			continue
		}
		fn, err := resolve.Resolve(n.Stmt.Name)
		if err != nil {
			return err
		}
		g.builtins[n] = fn
	}
	return nil
}

func (g *generator) evalNormal(ctx context.Context, scope *domain.Scope, n *domain.FlowNode) error {
	stmt := n.Stmt
	switch stmt.Kind {
	case domain.StmtExpression:
		_, err := evalExpr(ctx, scope, stmt.Expr)
		return err
	case domain.StmtCall:
		params, err := evalParams(ctx, scope, stmt.Params)
		if err != nil {
			return err
		}
		fn := g.builtins[n]
		_, err = fn.Call(ctx, params, scope.Env)
		return err
	default:
		return domain.NewUnknownStatementError(stmt.Kind)
	}
}

// baseStep emits the straightforward, non-fused translation of a single
// node. Every node in the arena gets one of these, whether or not it ends
// up overridden by a fused step at its own ID: a node absorbed into
// another entry's fused run keeps its standalone step reachable only
// through direct stepNode(id) probing.
func (g *generator) baseStep(n *domain.FlowNode) engine.Step {
	switch n.Kind {
	case domain.NodeNormal:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			if err := g.evalNormal(ctx, scope, n); err != nil {
				return domain.Opcode{}, err
			}
			return domain.Move(n.Next.EntryID()), nil
		}

	case domain.NodeExternCall:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			params, err := evalParams(ctx, scope, n.CallParams)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Call(n.CallName, params, n.Next.EntryID()), nil
		}

	case domain.NodeReturn:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			v, err := evalValue(ctx, scope, n.ReturnValue)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Return(v), nil
		}

	case domain.NodeExit:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Exit(), nil
		}

	case domain.NodeJump:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Move(n.Next.EntryID()), nil
		}

	case domain.NodeIf:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			target, err := chooseIf(ctx, scope, n)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Move(target.EntryID()), nil
		}

	case domain.NodeSwitch:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			target, err := chooseSwitch(ctx, scope, n)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Move(target.EntryID()), nil
		}

	case domain.NodeLoop:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			target, err := chooseLoop(ctx, scope, n)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Move(target.EntryID()), nil
		}

	case domain.NodeLoopInitializer:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			target, err := loopInitializerTarget(ctx, scope, n)
			if err != nil {
				return domain.Opcode{}, err
			}
			return domain.Move(target.EntryID()), nil
		}

	default:
		return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
			return domain.Opcode{}, domain.NewUnknownFlowNodeError(n.Kind)
		}
	}
}
