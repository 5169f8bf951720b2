package flow

import "github.com/tocque/eventflow/domain"

// labeller runs the post-order labelling walk: IDs are assigned in
// first-visit order, starting from 0, and every node that consumes a new ID
// is appended to a dense arena in the same order, so arena[i].ID == i.
//
// Block nodes never consume their own ID; they adopt the ID of their first
// contained node (or, if empty, of their trailing successor), per spec
// invariant 2.
type labeller struct {
	counter int
	arena   []*domain.FlowNode
	visited map[*domain.FlowNode]bool
}

// Label assigns dense IDs to every reachable node in graph and returns the
// resulting ID-indexed arena.
func Label(graph *domain.FlowNode) []*domain.FlowNode {
	l := &labeller{visited: make(map[*domain.FlowNode]bool)}
	l.visit(graph)
	return l.arena
}

func (l *labeller) assign(n *domain.FlowNode) {
	n.ID = l.counter
	l.counter++
	l.arena = append(l.arena, n)
}

func (l *labeller) visit(n *domain.FlowNode) {
	if n == nil || l.visited[n] {
		return
	}
	l.visited[n] = true

	switch n.Kind {
	case domain.NodeBlock:
		if len(n.Nodes) == 0 {
			l.visit(n.Next)
			if n.Next != nil {
				n.ID = n.Next.ID
			}
			return
		}
		for _, child := range n.Nodes {
			l.visit(child)
		}
		n.ID = n.Nodes[0].ID
		l.visit(n.Next)

	case domain.NodeIf, domain.NodeSwitch:
		l.assign(n)
		for _, branch := range n.Branches {
			l.visit(branch.Body)
		}
		l.visit(n.Otherwise)
		l.visit(n.Next)

	case domain.NodeLoopInitializer:
		l.assign(n)
		l.visit(n.Main)

	case domain.NodeLoop:
		l.assign(n)
		l.visit(n.Body)
		l.visit(n.Next)

	case domain.NodeReturn, domain.NodeExit:
		l.assign(n)

	case domain.NodeJump:
		l.assign(n)
		l.visit(n.Next)

	default: // NodeNormal, NodeExternCall
		l.assign(n)
		l.visit(n.Next)
	}
}
