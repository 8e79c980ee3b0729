package network

import (
	"errors"
	"fmt"

	"github.com/matzehuels/factoryflow/pkg/factory"
)

var (
	// ErrStructural is returned by [Network.Compact] when a node selected for
	// removal does not have exactly one parent and at most one child. Such a
	// graph cannot be spliced without losing edges.
	ErrStructural = errors.New("structural graph error")

	// ErrUnknownNode is returned by [Network.Node] for IDs outside the arena.
	ErrUnknownNode = errors.New("unknown node")
)

// epsilon absorbs floating-point noise in rate comparisons.
const epsilon = 1e-9

// DefaultUnboundedRate is the request rate used for sinks without a
// throughput limit.
const DefaultUnboundedRate = 10000

// Options configures [Analyze] and [Network.Allocate].
type Options struct {
	// UnboundedRate is the rate requested from sinks that have no rate of
	// their own (containers). Zero means [DefaultUnboundedRate].
	UnboundedRate float64
}

func (o Options) unboundedRate() float64 {
	if o.UnboundedRate > 0 {
		return o.UnboundedRate
	}
	return DefaultUnboundedRate
}

// Network is the node graph of one layout. It is created by [Build] and
// mutated in place by [Network.Compact], [Network.PropagatePurpose] and
// [Network.Allocate].
//
// A Network is owned by a single analysis run and is not safe for
// concurrent use.
type Network struct {
	arena  []*Node
	order  []NodeID   // surviving nodes, first row-major occurrence
	cells  [][]NodeID // node per grid cell, NoNode when empty
	width  int
	height int

	diags     []Diagnostic
	diagSeen  map[string]bool
	compacted bool
}

// Analyze runs the whole engine over grid: build, compact, propagate
// purposes and allocate flow. Only a structural graph error aborts; all
// other problems are reported through [Network.Diagnostics].
func Analyze(grid factory.Grid, opts Options) (*Network, error) {
	n := Build(grid)
	if err := n.Compact(); err != nil {
		return n, err
	}
	n.PropagatePurpose()
	n.Allocate(opts)
	return n, nil
}

// Nodes returns the surviving nodes in grid order. Removed nodes are
// excluded.
func (n *Network) Nodes() []*Node {
	nodes := make([]*Node, len(n.order))
	for i, id := range n.order {
		nodes[i] = n.arena[id]
	}
	return nodes
}

// Len returns the number of surviving nodes.
func (n *Network) Len() int { return len(n.order) }

// Node returns the node with the given ID, removed or not.
func (n *Network) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(n.arena) {
		return nil, fmt.Errorf("node %d: %w", id, ErrUnknownNode)
	}
	return n.arena[id], nil
}

// Lookup returns the node built for the component with the given ID.
func (n *Network) Lookup(componentID string) (*Node, bool) {
	for _, node := range n.arena {
		if node.Component.ID == componentID {
			return node, true
		}
	}
	return nil, false
}

// NodeAt returns the node occupying grid cell (x, y), or nil. The node may
// have been removed by compaction.
func (n *Network) NodeAt(x, y int) *Node {
	if x < 0 || x >= n.width || y < 0 || y >= n.height {
		return nil
	}
	if id := n.cells[y][x]; id != NoNode {
		return n.arena[id]
	}
	return nil
}

// Roots returns surviving nodes without parents: the graph's sources.
func (n *Network) Roots() []*Node {
	var roots []*Node
	for _, id := range n.order {
		if len(n.arena[id].Parents) == 0 {
			roots = append(roots, n.arena[id])
		}
	}
	return roots
}

// Leaves returns surviving nodes without children: the graph's sinks.
func (n *Network) Leaves() []*Node {
	var leaves []*Node
	for _, id := range n.order {
		if len(n.arena[id].Children) == 0 {
			leaves = append(leaves, n.arena[id])
		}
	}
	return leaves
}

// Bottlenecks returns every saturated surviving node followed by the nodes
// it subsumed during compaction.
func (n *Network) Bottlenecks() []*Node {
	var out []*Node
	for _, id := range n.order {
		node := n.arena[id]
		if !node.IsBottleneck() {
			continue
		}
		out = append(out, node)
		for _, sub := range node.Subsumed {
			out = append(out, n.arena[sub])
		}
	}
	return out
}

func (n *Network) link(parent, child NodeID) {
	n.arena[parent].Children = append(n.arena[parent].Children, child)
	n.arena[child].Parents = append(n.arena[child].Parents, parent)
}
