// Package flow lowers a statement Block into a labelled control-flow graph:
// an arena of domain.FlowNode values addressable by dense integer ID.
//
// The lowering mirrors the recursive right-to-left walk pyscn's CFGBuilder
// (internal/analyzer/cfg_builder.go in the teacher repo) uses to thread
// basic-block successors while building a Python CFG: a loop/label stack
// tracks the break/continue targets currently in scope, and each statement
// is converted to a node whose successor is already known before the node
// is built, so there is no later fix-up pass to rewire "next" pointers.
package flow

import "github.com/tocque/eventflow/domain"

// Builder lowers a statement tree into an (unlabelled) CFG rooted in a
// Block node. Call Analyze for the common case of lowering plus labelling.
type Builder struct {
	labels    map[string]*domain.FlowNode
	loopStack []*domain.FlowNode
}

// NewBuilder creates a fresh Builder. A Builder is not reentrant across
// concurrent Build calls; construct one per compile.
func NewBuilder() *Builder {
	return &Builder{
		labels: make(map[string]*domain.FlowNode),
	}
}

// Build lowers root into a CFG whose trailing fall-off-the-end path reaches
// an implicit Return node, per spec invariant 3.
func (b *Builder) Build(root domain.Block) (*domain.FlowNode, error) {
	implicitReturn := &domain.FlowNode{Kind: domain.NodeReturn, Mergeable: true}
	return b.lowerBlock(root, implicitReturn)
}

// Analyze lowers and labels root in one step, returning both the root Block
// node of the CFG (needed by codegen's run-fusing pass to walk block
// structure) and the dense, ID-indexed node arena ready for node-generation.
func Analyze(root domain.Block) (graph *domain.FlowNode, nodes []*domain.FlowNode, err error) {
	b := NewBuilder()
	graph, err = b.Build(root)
	if err != nil {
		return nil, nil, err
	}
	nodes = Label(graph)
	return graph, nodes, nil
}

// lowerBlock converts an ordered statement sequence into a Block FlowNode.
// It walks right to left: the node built for statement i+1 (or the caller's
// successor, for the last statement) becomes the successor for statement i,
// so every node is constructed already knowing its true "next".
func (b *Builder) lowerBlock(stmts domain.Block, successor *domain.FlowNode) (*domain.FlowNode, error) {
	nodes := make([]*domain.FlowNode, len(stmts))
	succ := successor
	mergeable := true
	for i := len(stmts) - 1; i >= 0; i-- {
		node, err := b.lowerStatement(stmts[i], succ)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
		succ = node
		mergeable = mergeable && node.Mergeable
	}
	return &domain.FlowNode{
		Kind:      domain.NodeBlock,
		Nodes:     nodes,
		Next:      successor,
		Mergeable: mergeable,
	}, nil
}

func (b *Builder) lowerStatement(stmt *domain.Statement, successor *domain.FlowNode) (*domain.FlowNode, error) {
	switch stmt.Kind {
	case domain.StmtExpression:
		return &domain.FlowNode{Kind: domain.NodeNormal, Stmt: stmt, Next: successor, Mergeable: true}, nil

	case domain.StmtCall:
		if stmt.BuiltIn {
			return &domain.FlowNode{Kind: domain.NodeNormal, Stmt: stmt, Next: successor, Mergeable: true}, nil
		}
		return &domain.FlowNode{
			Kind:       domain.NodeExternCall,
			CallName:   stmt.Name,
			CallParams: stmt.Params,
			Next:       successor,
			Mergeable:  false,
		}, nil

	case domain.StmtReturn:
		return &domain.FlowNode{Kind: domain.NodeReturn, ReturnValue: stmt.Value, Mergeable: true}, nil

	case domain.StmtIf:
		return b.lowerIf(stmt, successor)

	case domain.StmtSwitch:
		return b.lowerSwitch(stmt, successor)

	case domain.StmtLoop:
		return b.lowerLoop(stmt, successor)

	case domain.StmtBreak:
		return b.lowerBreak(stmt)

	case domain.StmtContinue:
		return b.lowerContinue()

	case domain.StmtExit:
		return &domain.FlowNode{Kind: domain.NodeExit, Mergeable: true}, nil

	default:
		return nil, domain.NewUnknownStatementError(stmt.Kind)
	}
}

func (b *Builder) lowerIf(stmt *domain.Statement, successor *domain.FlowNode) (*domain.FlowNode, error) {
	node := &domain.FlowNode{Kind: domain.NodeIf, Next: successor, Mergeable: true}
	for _, branch := range stmt.Branches {
		body, err := b.lowerBlock(branch.Body, successor)
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, domain.FlowBranch{Condition: branch.Condition, Body: body})
		node.Mergeable = node.Mergeable && body.Mergeable
	}
	if len(stmt.Otherwise) > 0 {
		otherwise, err := b.lowerBlock(stmt.Otherwise, successor)
		if err != nil {
			return nil, err
		}
		node.Otherwise = otherwise
		node.Mergeable = node.Mergeable && otherwise.Mergeable
	}
	return node, nil
}

// lowerSwitch lowers a Switch statement. Every branch body (and the
// otherwise block, if present) uses the outer successor directly: there is
// no fallthrough between cases. See spec §9 open question #1.
func (b *Builder) lowerSwitch(stmt *domain.Statement, successor *domain.FlowNode) (*domain.FlowNode, error) {
	node := &domain.FlowNode{Kind: domain.NodeSwitch, Pattern: stmt.Pattern, Next: successor, Mergeable: true}
	for _, branch := range stmt.Branches {
		body, err := b.lowerBlock(branch.Body, successor)
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, domain.FlowBranch{Condition: branch.Condition, Body: body})
		node.Mergeable = node.Mergeable && body.Mergeable
	}
	if len(stmt.Otherwise) > 0 {
		otherwise, err := b.lowerBlock(stmt.Otherwise, successor)
		if err != nil {
			return nil, err
		}
		node.Otherwise = otherwise
		node.Mergeable = node.Mergeable && otherwise.Mergeable
	}
	return node, nil
}

func (b *Builder) lowerLoop(stmt *domain.Statement, successor *domain.FlowNode) (*domain.FlowNode, error) {
	loopNode := &domain.FlowNode{
		Kind:             domain.NodeLoop,
		Next:             successor,
		Init:             stmt.Init,
		Cond:             stmt.Cond,
		Iter:             stmt.Iter,
		Label:            stmt.Label,
		SkipInitialCheck: stmt.SkipInitialCheck,
	}

	if stmt.Label != "" {
		if _, exists := b.labels[stmt.Label]; exists {
			return nil, domain.NewDuplicateLabelError(stmt.Label)
		}
		b.labels[stmt.Label] = loopNode
	}
	b.loopStack = append(b.loopStack, loopNode)

	// The body's successor is the loop head itself: falling off the end of
	// the body returns control to the condition/iterator check.
	body, err := b.lowerBlock(stmt.Body, loopNode)

	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	if stmt.Label != "" {
		delete(b.labels, stmt.Label)
	}
	if err != nil {
		return nil, err
	}

	loopNode.Body = body
	loopNode.Mergeable = body.Mergeable

	switch {
	case stmt.Init != nil:
		return &domain.FlowNode{Kind: domain.NodeLoopInitializer, Main: loopNode, Mergeable: true}, nil
	case stmt.SkipInitialCheck:
		// Do-while entry bypasses the first condition check: the
		// statement's node is the loop body directly.
		return body, nil
	default:
		return loopNode, nil
	}
}

func (b *Builder) lowerBreak(stmt *domain.Statement) (*domain.FlowNode, error) {
	var target *domain.FlowNode
	if stmt.BreakLabel != "" {
		lp, ok := b.labels[stmt.BreakLabel]
		if !ok {
			return nil, domain.NewUnknownLabelError(stmt.BreakLabel)
		}
		target = lp
	} else {
		if len(b.loopStack) == 0 {
			return nil, domain.NewNoEnclosingLoopError("break")
		}
		target = b.loopStack[len(b.loopStack)-1]
	}
	return &domain.FlowNode{Kind: domain.NodeJump, Next: target.Next, Mergeable: true}, nil
}

func (b *Builder) lowerContinue() (*domain.FlowNode, error) {
	if len(b.loopStack) == 0 {
		return nil, domain.NewNoEnclosingLoopError("continue")
	}
	target := b.loopStack[len(b.loopStack)-1]
	return &domain.FlowNode{Kind: domain.NodeJump, Next: target, IsContinue: true, Mergeable: true}, nil
}
