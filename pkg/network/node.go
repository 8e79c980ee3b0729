package network

import (
	"fmt"
	"slices"

	"github.com/matzehuels/factoryflow/pkg/factory"
)

// NodeID addresses a node inside its [Network]. IDs are dense indices into
// the network's arena and stay valid for the network's lifetime.
type NodeID int

// NoNode is returned where a lookup finds nothing.
const NoNode NodeID = -1

// Node is the graph vertex built from one component.
//
// Edges are stored on both endpoints: if A lists B in Children, B lists A in
// Parents. Nodes are never deleted; compaction flags them Removed and
// records them in the Subsumed list of the node that absorbed them.
type Node struct {
	ID        NodeID
	Component *factory.Component

	Parents  []NodeID
	Children []NodeID

	// Component IDs of the neighbors before compaction.
	OriginalParents  []string
	OriginalChildren []string

	Removed  bool
	Subsumed []NodeID

	// Fixed recipe I/O; assemblers only.
	Inputs  []factory.Item
	Outputs []factory.Item

	// Flow is the realized throughput accumulated by the allocator.
	Flow Flow

	carries []string // transport purpose; meaningful when known is set
	known   bool
	down    map[string]bool // items already flooded towards children
	up      map[string]bool // items already flooded towards parents
}

func newNode(id NodeID, c *factory.Component) *Node {
	n := &Node{ID: id, Component: c}
	if c.Kind == factory.KindAssembler && c.Recipe != nil {
		n.Inputs = slices.Clone(c.Recipe.Ingredients)
		n.Outputs = []factory.Item{c.Recipe.Result}
	}
	return n
}

// IsAssembler reports whether the node has fixed recipe I/O semantics.
func (n *Node) IsAssembler() bool { return n.Component.Kind == factory.KindAssembler }

// Carries returns the item kinds a transport node is expected to carry.
// The boolean is false while the purpose is undetermined. Assemblers always
// report false; use Inputs and Outputs instead.
func (n *Node) Carries() ([]string, bool) {
	if n.IsAssembler() || !n.known {
		return nil, false
	}
	return slices.Clone(n.carries), true
}

func (n *Node) carriesItem(item string) bool {
	return n.known && slices.Contains(n.carries, item)
}

// addCarries unions items into the transport purpose and reports whether
// anything changed.
func (n *Node) addCarries(items []string) bool {
	changed := !n.known
	n.known = true
	for _, it := range items {
		if !slices.Contains(n.carries, it) {
			n.carries = append(n.carries, it)
			changed = true
		}
	}
	return changed
}

// Capacity returns the node's throughput rate, or false if unbounded.
func (n *Node) Capacity() (float64, bool) {
	if !n.Component.Bounded() {
		return 0, false
	}
	return n.Component.Rate, true
}

// headroom returns the remaining capacity; ok is false for unbounded nodes.
func (n *Node) headroom() (float64, bool) {
	rate, ok := n.Capacity()
	if !ok {
		return 0, false
	}
	return rate - n.Flow.Total(), true
}

// Saturation returns total flow ÷ rate. The boolean is false for unbounded
// components, including assemblers without a recipe.
func (n *Node) Saturation() (float64, bool) {
	rate, ok := n.Capacity()
	if !ok {
		return 0, false
	}
	return n.Flow.Total() / rate, true
}

// IsBottleneck reports whether the node runs at full capacity.
func (n *Node) IsBottleneck() bool {
	r, ok := n.Saturation()
	return ok && r >= 1-epsilon
}

func (n *Node) String() string {
	sub := ""
	if len(n.Subsumed) > 0 {
		sub = fmt.Sprintf(" [+%d]", len(n.Subsumed))
	}
	return fmt.Sprintf("%s [%d > %d]%s", n.Component, len(n.Parents), len(n.Children), sub)
}

func removeFirst(ids []NodeID, id NodeID) []NodeID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
