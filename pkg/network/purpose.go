package network

import (
	"slices"

	"github.com/matzehuels/factoryflow/pkg/factory"
)

// PropagatePurpose determines which items every transport node carries.
//
// Assembler purposes are fixed by their recipe. Transport purposes are
// derived in three passes over the assemblers, in node order:
//
//  1. Every assembler with a recipe pushes its result down to its children.
//  2. Every assembler with exactly one ingredient pushes it up to all of its
//     parents.
//  3. Every assembler with several ingredients looks at what its parents
//     already output. Ingredients nobody supplies are pushed up to the
//     parents without a purpose or, if there are none, to the first parent
//     connected to a graph source without passing through another
//     assembler. When neither exists a [DiagUnresolvedPurpose] diagnostic is
//     recorded.
//
// A push unions the items into each transport node it reaches and keeps
// flooding in the same direction until it meets an assembler, a dead end or
// a node that has already forwarded every item. Running it again is a no-op.
func (n *Network) PropagatePurpose() {
	var single, multi []NodeID
	for _, id := range n.order {
		node := n.arena[id]
		if !node.IsAssembler() || node.Component.Recipe == nil {
			continue
		}
		items := factory.ItemNames(node.Outputs)
		for _, child := range node.Children {
			n.pushDown(child, items)
		}
		switch len(node.Inputs) {
		case 0:
		case 1:
			single = append(single, id)
		default:
			multi = append(multi, id)
		}
	}

	for _, id := range single {
		node := n.arena[id]
		items := factory.ItemNames(node.Inputs)
		for _, parent := range node.Parents {
			n.pushUp(parent, items)
		}
	}

	for _, id := range multi {
		n.resolveSuppliers(id)
	}
}

// pushDown is a purpose push received from a parent.
func (n *Network) pushDown(id NodeID, items []string) {
	node := n.arena[id]
	if node.IsAssembler() {
		return
	}
	fresh := unseen(&node.down, items)
	node.addCarries(items)
	if len(fresh) == 0 {
		return
	}
	for _, child := range node.Children {
		n.pushDown(child, fresh)
	}
}

// pushUp is a purpose push received from a child.
func (n *Network) pushUp(id NodeID, items []string) {
	node := n.arena[id]
	if node.IsAssembler() {
		return
	}
	fresh := unseen(&node.up, items)
	node.addCarries(items)
	if len(fresh) == 0 {
		return
	}
	for _, parent := range node.Parents {
		n.pushUp(parent, fresh)
	}
}

// unseen marks items in seen and returns the ones that were not marked yet.
func unseen(seen *map[string]bool, items []string) []string {
	if *seen == nil {
		*seen = make(map[string]bool, len(items))
	}
	var fresh []string
	for _, it := range items {
		if !(*seen)[it] {
			(*seen)[it] = true
			fresh = append(fresh, it)
		}
	}
	return fresh
}

func (n *Network) resolveSuppliers(id NodeID) {
	node := n.arena[id]

	supplied := make(map[string]bool)
	for _, parent := range node.Parents {
		for _, it := range n.outputs(parent, make(map[NodeID]bool)) {
			supplied[it] = true
		}
	}
	var needed []string
	for _, in := range node.Inputs {
		if !supplied[in.Name] {
			needed = append(needed, in.Name)
		}
	}
	if len(needed) == 0 {
		return
	}

	var free []NodeID
	for _, parent := range node.Parents {
		p := n.arena[parent]
		if !p.IsAssembler() && !p.known {
			free = append(free, parent)
		}
	}
	if len(free) > 0 {
		for _, parent := range free {
			n.pushUp(parent, needed)
		}
		return
	}

	for _, parent := range node.Parents {
		if n.connectedToInput(parent, make(map[NodeID]bool)) {
			n.pushUp(parent, needed)
			return
		}
	}

	n.diagnose(DiagUnresolvedPurpose, node.Component.ID,
		"no parent of %s can supply %v", node.Component.Name, needed)
}

// outputs returns the items a node emits. An undetermined transport node
// asks its parents and adopts their answer when it is not empty.
func (n *Network) outputs(id NodeID, visiting map[NodeID]bool) []string {
	node := n.arena[id]
	if node.IsAssembler() {
		return factory.ItemNames(node.Outputs)
	}
	if node.known {
		return slices.Clone(node.carries)
	}
	if visiting[id] {
		return nil
	}
	visiting[id] = true

	var items []string
	for _, parent := range node.Parents {
		for _, it := range n.outputs(parent, visiting) {
			if !slices.Contains(items, it) {
				items = append(items, it)
			}
		}
	}
	if len(items) > 0 {
		node.addCarries(items)
	}
	return items
}

// connectedToInput reports whether a graph source can be reached upstream
// of id without passing through an assembler.
func (n *Network) connectedToInput(id NodeID, visiting map[NodeID]bool) bool {
	node := n.arena[id]
	if node.IsAssembler() {
		return false
	}
	if len(node.Parents) == 0 {
		return true
	}
	if visiting[id] {
		return false
	}
	visiting[id] = true
	for _, parent := range node.Parents {
		if n.connectedToInput(parent, visiting) {
			return true
		}
	}
	return false
}
