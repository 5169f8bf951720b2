package codegen

import (
	"context"

	"github.com/tocque/eventflow/domain"
	"github.com/tocque/eventflow/internal/engine"
)

// partitioner walks a compiled graph once, deciding which nodes can be
// absorbed into a preceding node's fused step (owner) and which must remain
// individually dispatched step boundaries. A node is visited at most once,
// either as a run's entry or as one of its members. A node that no entry's
// walk reaches (for example the successor of a trailing ExternCall, or a
// non-mergeable loop under a LoopInitializer absorbed as a run member) belongs to no run
// and keeps the base step Generate gave it.
type partitioner struct {
	gen     *generator
	visited map[*domain.FlowNode]bool
	runs    map[int]bool // entry IDs whose fused run absorbed more than themselves
}

// processBlockNodes treats every element of a Block's Nodes list as a
// potential run entry. Elements already owned by an earlier sibling's fused
// run are skipped (processEntry is a no-op on an already-visited node);
// everything else becomes the start of its own run.
func (p *partitioner) processBlockNodes(nodes []*domain.FlowNode) {
	for _, n := range nodes {
		p.processEntry(n)
	}
}

// processEntry considers n as a standalone step boundary: it marks
// everything n's own step can absorb (markOwned), registers a fused step if
// more than one node was absorbed, then recurses into whatever sub-blocks
// were left unabsorbed so they get their own run entries.
func (p *partitioner) processEntry(n *domain.FlowNode) {
	if n == nil || p.visited[n] {
		return
	}

	if n.Kind == domain.NodeBlock {
		p.visited[n] = true
		if len(n.Nodes) > 0 {
			p.processBlockNodes(n.Nodes)
		} else {
			p.processEntry(n.Next)
		}
		return
	}

	var owned []*domain.FlowNode
	p.markOwned(n, n.EntryID(), &owned)
	if len(owned) > 1 {
		p.runs[n.EntryID()] = true
	}
	p.descendNonMergeable(n)
}

// markOwned absorbs n into the run identified by entryID and, for the node
// kinds where that is safe, recurses into n's structural continuations. A
// non-mergeable node is absorbed only as the run's own entry; reached as a
// continuation it is left for processEntry, so it starts a run of its own.
//
// Normal/Jump nodes always continue into Next: there is no loop hazard, so
// chaining a run of straight-line statements together is always safe.
// If/Switch/Loop continue into their children only when n.Mergeable, per
// the invariant that a mergeable composite has no ExternCall reachable
// anywhere beneath it — so the whole subtree, however large, can run to
// completion inside one Go-native call with no need to surface an opcode
// mid-way. LoopInitializer is always mergeable itself (the initializer
// expression alone can never block on a host call) regardless of whether
// its wrapped loop is, so it checks Main.Mergeable explicitly rather than
// its own flag before deciding whether to absorb Main too.
func (p *partitioner) markOwned(n *domain.FlowNode, entryID int, owned *[]*domain.FlowNode) {
	if n == nil || p.visited[n] {
		return
	}
	if len(*owned) > 0 && !n.Mergeable {
		return
	}
	p.visited[n] = true
	p.gen.owner[n] = entryID
	*owned = append(*owned, n)

	switch n.Kind {
	case domain.NodeBlock:
		if len(n.Nodes) > 0 {
			p.markOwned(n.Nodes[0], entryID, owned)
		} else {
			p.markOwned(n.Next, entryID, owned)
		}

	case domain.NodeNormal, domain.NodeJump:
		p.markOwned(n.Next, entryID, owned)

	case domain.NodeExternCall, domain.NodeReturn, domain.NodeExit:
		// Terminal for this run: an ExternCall must surface as an opcode to
		// the host, and Return/Exit end the frame.

	case domain.NodeIf, domain.NodeSwitch:
		if n.Mergeable {
			for _, branch := range n.Branches {
				p.markOwned(branch.Body, entryID, owned)
			}
			p.markOwned(n.Otherwise, entryID, owned)
			p.markOwned(n.Next, entryID, owned)
		}

	case domain.NodeLoop:
		if n.Mergeable {
			p.markOwned(n.Body, entryID, owned)
			p.markOwned(n.Next, entryID, owned)
		}

	case domain.NodeLoopInitializer:
		if n.Main.Mergeable {
			p.markOwned(n.Main, entryID, owned)
		}
	}
}

// descendNonMergeable registers fresh run entries for every structural
// child markOwned declined to absorb because n (or, for LoopInitializer,
// n.Main) was not mergeable.
func (p *partitioner) descendNonMergeable(n *domain.FlowNode) {
	switch n.Kind {
	case domain.NodeIf, domain.NodeSwitch:
		if !n.Mergeable {
			for _, branch := range n.Branches {
				p.processEntry(branch.Body)
			}
			p.processEntry(n.Otherwise)
			p.processEntry(n.Next)
		}

	case domain.NodeLoop:
		if !n.Mergeable {
			p.processEntry(n.Body)
			p.processEntry(n.Next)
		}

	case domain.NodeLoopInitializer:
		if !n.Main.Mergeable {
			p.processEntry(n.Main)
		}
	}
}

// fusedStep builds the "inner interpreter" for one fused run: starting at
// entry, it keeps resolving each node's successor in a flat Go loop —
// never recursing — and checks the precomputed owner map before following
// that successor. A target owned by this same run is inlined; anything
// else (including a mergeable loop's own back-edge, which is owned by
// itself) is still inlined as long as ownership matches, so a whole
// mergeable loop runs to completion in this one call without ever
// returning to the stepper in between iterations. The first target that
// belongs to a different run (or to no run at all) ends the step with the
// ordinary Move opcode that would have been produced anyway.
func (g *generator) fusedStep(entry *domain.FlowNode) engine.Step {
	entryID := entry.EntryID()

	return func(ctx context.Context, scope *domain.Scope) (domain.Opcode, error) {
		n := entry
		for {
			var next *domain.FlowNode

			switch n.Kind {
			case domain.NodeBlock:
				if len(n.Nodes) > 0 {
					next = n.Nodes[0]
				} else {
					next = n.Next
				}

			case domain.NodeNormal:
				if err := g.evalNormal(ctx, scope, n); err != nil {
					return domain.Opcode{}, err
				}
				next = n.Next

			case domain.NodeJump:
				next = n.Next

			case domain.NodeExternCall:
				params, err := evalParams(ctx, scope, n.CallParams)
				if err != nil {
					return domain.Opcode{}, err
				}
				return domain.Call(n.CallName, params, n.Next.EntryID()), nil

			case domain.NodeReturn:
				v, err := evalValue(ctx, scope, n.ReturnValue)
				if err != nil {
					return domain.Opcode{}, err
				}
				return domain.Return(v), nil

			case domain.NodeExit:
				return domain.Exit(), nil

			case domain.NodeIf:
				target, err := chooseIf(ctx, scope, n)
				if err != nil {
					return domain.Opcode{}, err
				}
				next = target

			case domain.NodeSwitch:
				target, err := chooseSwitch(ctx, scope, n)
				if err != nil {
					return domain.Opcode{}, err
				}
				next = target

			case domain.NodeLoop:
				target, err := chooseLoop(ctx, scope, n)
				if err != nil {
					return domain.Opcode{}, err
				}
				next = target

			case domain.NodeLoopInitializer:
				target, err := loopInitializerTarget(ctx, scope, n)
				if err != nil {
					return domain.Opcode{}, err
				}
				next = target

			default:
				return domain.Opcode{}, domain.NewUnknownFlowNodeError(n.Kind)
			}

			if owner, ok := g.owner[next]; next == nil || !ok || owner != entryID {
				return domain.Move(next.EntryID()), nil
			}
			// This transition stays inside the fused run and never passes
			// back through engine.Run's own dispatch loop, so it has to
			// charge the step budget itself: otherwise a mergeable loop
			// with no ExternCall in its body would spin here forever,
			// immune to stepLimit.
			if err := engine.Tick(ctx); err != nil {
				return domain.Opcode{}, err
			}
			n = next
		}
	}
}
