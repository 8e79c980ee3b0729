package report

import (
	"slices"

	"github.com/matzehuels/factoryflow/pkg/factory"
	"github.com/matzehuels/factoryflow/pkg/network"
)

// =============================================================================
// Types
// =============================================================================

// Report is the read-only result of one analysis run.
type Report struct {
	RunID string `json:"run_id,omitempty"`
	Label string `json:"label"`

	// Nodes describes the compacted graph, in node order.
	Nodes []Node `json:"nodes"`

	// Entities describes every component that received a node, including the
	// ones compaction folded into another node, in node order.
	Entities []Entity `json:"entities"`

	ItemsInput     []factory.Item `json:"items_input"`
	ItemsOutput    []factory.Item `json:"items_output"`
	EntitiesInput  []string       `json:"entities_input"`
	EntitiesOutput []string       `json:"entities_output"`
	Bottlenecks    []string       `json:"entities_bottleneck"`

	Diagnostics []network.Diagnostic `json:"diagnostics,omitempty"`

	// Warnings lists blueprint entities that could not be placed. Build
	// leaves it empty; the caller that decoded the blueprint fills it in.
	Warnings []string `json:"warnings,omitempty"`
}

// Node is one vertex of the compacted graph.
type Node struct {
	ID       string      `json:"id"` // component ID
	Name     string      `json:"name"`
	Kind     string      `json:"kind"`
	Position factory.Vec `json:"position"`
	Virtual  bool        `json:"virtual,omitempty"`

	// Purpose. Carries is set for transport nodes whose purpose is known;
	// Inputs and Outputs for assemblers with a recipe.
	Carries []string       `json:"carries,omitempty"`
	Recipe  string         `json:"recipe,omitempty"`
	Inputs  []factory.Item `json:"inputs,omitempty"`
	Outputs []factory.Item `json:"outputs,omitempty"`

	Flow       []factory.Item `json:"flow"`
	Rate       float64        `json:"rate,omitempty"`
	Usage      *float64       `json:"usage_rate,omitempty"`
	Bottleneck bool           `json:"bottleneck,omitempty"`

	Parents          []string `json:"parents"`
	Children         []string `json:"children"`
	OriginalParents  []string `json:"original_parents"`
	OriginalChildren []string `json:"original_children"`
	Subsumed         []string `json:"subsumed,omitempty"`
}

// Entity annotates one placed component. Entities folded away by compaction
// inherit flow, usage and input/output flags from the node that absorbed
// them but keep their own original neighbors.
type Entity struct {
	ID         string         `json:"entity_number"`
	Name       string         `json:"name"`
	Node       string         `json:"node"` // ID of the node carrying this entity
	Flow       []factory.Item `json:"transported_items"`
	Usage      *float64       `json:"usage_rate,omitempty"`
	Bottleneck bool           `json:"bottleneck,omitempty"`
	Input      bool           `json:"input,omitempty"`
	Output     bool           `json:"output,omitempty"`
	Parents    []string       `json:"parents"`
	Children   []string       `json:"children"`
}

// =============================================================================
// Building
// =============================================================================

// Build summarizes an analysed network. It only reads from net.
func Build(net *network.Network, label, runID string) *Report {
	r := &Report{
		RunID:          runID,
		Label:          label,
		Nodes:          []Node{},
		Entities:       []Entity{},
		ItemsInput:     []factory.Item{},
		ItemsOutput:    []factory.Item{},
		EntitiesInput:  []string{},
		EntitiesOutput: []string{},
		Bottlenecks:    []string{},
		Diagnostics:    net.Diagnostics(),
	}

	for _, n := range net.Nodes() {
		nr := nodeReport(net, n)
		r.Nodes = append(r.Nodes, nr)

		isRoot, isLeaf := len(n.Parents) == 0, len(n.Children) == 0
		members := append([]network.NodeID{n.ID}, n.Subsumed...)
		for _, id := range members {
			m, err := net.Node(id)
			if err != nil {
				continue
			}
			e := Entity{
				ID:         m.Component.ID,
				Name:       m.Component.Name,
				Node:       nr.ID,
				Flow:       nr.Flow,
				Usage:      nr.Usage,
				Bottleneck: nr.Bottleneck,
				Input:      isRoot,
				Output:     isLeaf,
				Parents:    orEmpty(m.OriginalParents),
				Children:   orEmpty(m.OriginalChildren),
			}
			r.Entities = append(r.Entities, e)
			if isRoot {
				r.EntitiesInput = append(r.EntitiesInput, e.ID)
			}
			if isLeaf {
				r.EntitiesOutput = append(r.EntitiesOutput, e.ID)
			}
			if e.Bottleneck {
				r.Bottlenecks = append(r.Bottlenecks, e.ID)
			}
		}

		if isRoot {
			r.ItemsInput = mergeItems(r.ItemsInput, nr.Flow)
		}
		if isLeaf {
			r.ItemsOutput = mergeItems(r.ItemsOutput, nr.Flow)
		}
	}
	return r
}

func nodeReport(net *network.Network, n *network.Node) Node {
	c := n.Component
	nr := Node{
		ID:               c.ID,
		Name:             c.Name,
		Kind:             c.Kind.String(),
		Position:         c.Position,
		Virtual:          c.Virtual,
		Flow:             n.Flow.Items(),
		Parents:          componentIDs(net, n.Parents),
		Children:         componentIDs(net, n.Children),
		OriginalParents:  orEmpty(n.OriginalParents),
		OriginalChildren: orEmpty(n.OriginalChildren),
		Subsumed:         componentIDs(net, n.Subsumed),
		Bottleneck:       n.IsBottleneck(),
	}
	if len(nr.Subsumed) == 0 {
		nr.Subsumed = nil
	}
	if items, ok := n.Carries(); ok {
		nr.Carries = items
	}
	if c.Recipe != nil {
		nr.Recipe = c.Recipe.Name
		nr.Inputs = slices.Clone(n.Inputs)
		nr.Outputs = slices.Clone(n.Outputs)
	}
	if rate, ok := n.Capacity(); ok {
		nr.Rate = rate
	}
	if usage, ok := n.Saturation(); ok {
		nr.Usage = &usage
	}
	return nr
}

func componentIDs(net *network.Network, ids []network.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, err := net.Node(id); err == nil {
			out = append(out, n.Component.ID)
		}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}

// mergeItems adds the amounts of add into acc by item name, keeping first
// occurrence order.
func mergeItems(acc, add []factory.Item) []factory.Item {
	for _, it := range add {
		i := slices.IndexFunc(acc, func(a factory.Item) bool { return a.Name == it.Name })
		if i < 0 {
			acc = append(acc, it)
			continue
		}
		acc[i].Amount += it.Amount
	}
	return acc
}

// =============================================================================
// Queries
// =============================================================================

// Node returns the node report for a component ID.
func (r *Report) Node(id string) (Node, bool) {
	for _, n := range r.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Entity returns the entity report for a component ID.
func (r *Report) Entity(id string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// BottleneckNodes returns the saturated nodes of the compacted graph,
// ordered by descending usage.
func (r *Report) BottleneckNodes() []Node {
	var out []Node
	for _, n := range r.Nodes {
		if n.Bottleneck {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b Node) int {
		return compareUsage(b.Usage, a.Usage)
	})
	return out
}

// ByUsage returns every node with a finite rate, busiest first.
func (r *Report) ByUsage() []Node {
	var out []Node
	for _, n := range r.Nodes {
		if n.Usage != nil {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b Node) int {
		return compareUsage(b.Usage, a.Usage)
	})
	return out
}

func compareUsage(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
