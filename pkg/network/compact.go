package network

import (
	"fmt"

	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Compact removes pass-through belts and splices their neighbors together.
//
// A belt is removed when it has exactly one parent with the same component
// name and at most one child. The removed node is appended to the parent's
// Subsumed list together with everything it had already absorbed, so the
// surviving node of a chain of N belts subsumes the other N-1.
//
// The parent and child IDs of every node are captured in OriginalParents and
// OriginalChildren before any splice. Compacting an already compacted
// network is a no-op.
func (n *Network) Compact() error {
	if n.compacted {
		return nil
	}
	for _, id := range n.order {
		node := n.arena[id]
		node.OriginalParents = n.componentIDs(node.Parents)
		node.OriginalChildren = n.componentIDs(node.Children)
	}

	for _, id := range n.order {
		if !n.removable(id) {
			continue
		}
		if err := n.remove(id); err != nil {
			return err
		}
	}

	kept := n.order[:0]
	for _, id := range n.order {
		if !n.arena[id].Removed {
			kept = append(kept, id)
		}
	}
	n.order = kept
	n.compacted = true
	return nil
}

func (n *Network) removable(id NodeID) bool {
	node := n.arena[id]
	if node.Removed || node.Component.Kind != factory.KindBelt {
		return false
	}
	if len(node.Parents) != 1 || len(node.Children) > 1 {
		return false
	}
	return n.arena[node.Parents[0]].Component.Name == node.Component.Name
}

// remove splices a single-parent node out of the graph.
func (n *Network) remove(id NodeID) error {
	node := n.arena[id]
	if len(node.Children) > 1 || len(node.Parents) != 1 {
		return fmt.Errorf("remove %s: %d parents, %d children: %w",
			node.Component, len(node.Parents), len(node.Children), ErrStructural)
	}
	node.Removed = true

	parentID := node.Parents[0]
	parent := n.arena[parentID]
	parent.Children = removeFirst(parent.Children, id)
	if len(node.Children) == 1 {
		childID := node.Children[0]
		child := n.arena[childID]
		child.Parents = removeFirst(child.Parents, id)
		// A ring of belts would otherwise collapse into a self-loop.
		if childID != parentID {
			n.link(parentID, childID)
		}
	}

	parent.Subsumed = append(parent.Subsumed, node.Subsumed...)
	parent.Subsumed = append(parent.Subsumed, id)
	node.Subsumed = nil
	node.Parents = nil
	node.Children = nil
	return nil
}

func (n *Network) componentIDs(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = n.arena[id].Component.ID
	}
	return out
}
