package service

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tocque/eventflow/domain"
)

// CFGFormatterImpl renders a CompiledProgram as text, JSON, YAML or DOT.
// Grounded on pyscn's service/analyze_formatter.go format-switch: one
// exported Format method dispatching to a private writer per
// domain.OutputFormat, text and DOT hand-rolled in the same style as
// format_utils.go's text helpers, JSON/YAML delegating to WriteJSON/WriteYAML.
type CFGFormatterImpl struct{}

// NewCFGFormatter creates a new CFG formatter.
func NewCFGFormatter() *CFGFormatterImpl {
	return &CFGFormatterImpl{}
}

func (f *CFGFormatterImpl) Format(w io.Writer, format domain.OutputFormat, program *domain.CompiledProgram) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(w, program)
	case domain.OutputFormatJSON:
		return WriteJSON(w, cfgDocument(program))
	case domain.OutputFormatYAML:
		return WriteYAML(w, cfgDocument(program))
	case domain.OutputFormatDOT:
		return f.writeDOT(w, program)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// cfgNode and cfgDocument give the flat, ID-indexed arena a serialisable
// shape for JSON/YAML: a node's edges by entry ID rather than pointer.
type cfgNode struct {
	ID        int    `json:"id" yaml:"id"`
	Kind      string `json:"kind" yaml:"kind"`
	Mergeable bool   `json:"mergeable" yaml:"mergeable"`
	Dead      bool   `json:"dead" yaml:"dead"`
	Edges     []int  `json:"edges,omitempty" yaml:"edges,omitempty"`
}

type cfgDoc struct {
	Name  string    `json:"name" yaml:"name"`
	Nodes []cfgNode `json:"nodes" yaml:"nodes"`
}

func cfgDocument(program *domain.CompiledProgram) cfgDoc {
	doc := cfgDoc{Name: program.Name}
	for _, n := range program.Nodes {
		if n == nil || n.Kind == domain.NodeBlock {
			continue
		}
		doc.Nodes = append(doc.Nodes, cfgNode{
			ID:        n.ID,
			Kind:      n.Kind.String(),
			Mergeable: n.Mergeable,
			Dead:      program.DeadIDs[n.ID],
			Edges:     edgesOf(n),
		})
	}
	return doc
}

// edgesOf lists the entry IDs a node can transfer control to.
func edgesOf(n *domain.FlowNode) []int {
	var out []int
	add := func(target *domain.FlowNode) {
		if target != nil {
			out = append(out, target.EntryID())
		}
	}
	switch n.Kind {
	case domain.NodeNormal, domain.NodeJump:
		add(n.Next)
	case domain.NodeIf, domain.NodeSwitch:
		for _, b := range n.Branches {
			add(b.Body)
		}
		add(n.Otherwise)
		add(n.Next)
	case domain.NodeLoop:
		add(n.Body)
		add(n.Next)
	case domain.NodeLoopInitializer:
		add(n.Main)
	case domain.NodeExternCall:
		add(n.Next)
	}
	return out
}

func (f *CFGFormatterImpl) writeText(w io.Writer, program *domain.CompiledProgram) error {
	fmt.Fprint(w, FormatMainHeader(fmt.Sprintf("Control-flow graph: %s", program.Name)))
	fmt.Fprint(w, FormatLabel("Steps", len(program.Nodes)))
	fmt.Fprint(w, FormatLabel("Dead steps", len(program.DeadIDs)))
	fmt.Fprintln(w)

	fmt.Fprint(w, FormatSectionHeader("NODES"))
	for _, n := range program.Nodes {
		if n == nil || n.Kind == domain.NodeBlock {
			continue
		}
		marker := " "
		if program.DeadIDs[n.ID] {
			marker = "x"
		}
		merge := ""
		if n.Mergeable {
			merge = " (mergeable)"
		}
		edges := edgesOf(n)
		edgeStrs := make([]string, len(edges))
		for i, e := range edges {
			edgeStrs[i] = fmt.Sprintf("%d", e)
		}
		fmt.Fprintf(w, "[%s] %4d  %-16s%s", marker, n.ID, n.Kind.String(), merge)
		if len(edgeStrs) > 0 {
			fmt.Fprintf(w, " -> %s", strings.Join(edgeStrs, ", "))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (f *CFGFormatterImpl) writeDOT(w io.Writer, program *domain.CompiledProgram) error {
	fmt.Fprintf(w, "digraph %q {\n", program.Name)
	fmt.Fprintln(w, "  rankdir=TB;")
	fmt.Fprintln(w, "  node [shape=box, fontname=\"monospace\"];")

	ids := make([]int, 0, len(program.Nodes))
	for _, n := range program.Nodes {
		if n != nil && n.Kind != domain.NodeBlock {
			ids = append(ids, n.ID)
		}
	}
	sort.Ints(ids)

	byID := make(map[int]*domain.FlowNode, len(program.Nodes))
	for _, n := range program.Nodes {
		if n != nil && n.Kind != domain.NodeBlock {
			byID[n.ID] = n
		}
	}

	for _, id := range ids {
		n := byID[id]
		style := ""
		if program.DeadIDs[id] {
			style = ", style=dashed, color=gray"
		}
		fmt.Fprintf(w, "  n%d [label=%q%s];\n", id, n.Kind.String(), style)
	}
	for _, id := range ids {
		n := byID[id]
		for _, e := range edgesOf(n) {
			fmt.Fprintf(w, "  n%d -> n%d;\n", id, e)
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}
