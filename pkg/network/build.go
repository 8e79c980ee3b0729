package network

import (
	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Build walks every cell of grid and creates one node per component, wiring
// parent/child edges with each component kind's adjacency rule.
//
// The walk is a depth-first visit memoized by cell. A node is registered in
// the memo before its neighbors are visited, so belt loops terminate.
// Components with an unknown kind get no node and produce a
// [DiagUnknownComponent] diagnostic.
func Build(grid factory.Grid) *Network {
	w, h := grid.Width(), grid.Height()
	n := &Network{width: w, height: h, cells: make([][]NodeID, h)}
	for y := range n.cells {
		n.cells[y] = make([]NodeID, w)
		for x := range n.cells[y] {
			n.cells[y][x] = NoNode
		}
	}

	b := &builder{grid: grid, net: n}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.visit(factory.Vec{X: x, Y: y})
		}
	}

	seen := make(map[NodeID]bool, len(n.arena))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if id := n.cells[y][x]; id != NoNode && !seen[id] {
				seen[id] = true
				n.order = append(n.order, id)
			}
		}
	}
	return n
}

type builder struct {
	grid factory.Grid
	net  *Network
}

func (b *builder) inBounds(p factory.Vec) bool {
	return p.X >= 0 && p.X < b.net.width && p.Y >= 0 && p.Y < b.net.height
}

func (b *builder) register(p factory.Vec, id NodeID) {
	if b.inBounds(p) {
		b.net.cells[p.Y][p.X] = id
	}
}

// visit returns the node for the component at p, creating and wiring it on
// first visit.
func (b *builder) visit(p factory.Vec) (NodeID, bool) {
	if !b.inBounds(p) {
		return NoNode, false
	}
	if id := b.net.cells[p.Y][p.X]; id != NoNode {
		return id, true
	}
	c := b.grid.At(p.X, p.Y)
	if c == nil {
		return NoNode, false
	}

	switch c.Kind {
	case factory.KindBelt:
		id := b.create(c, p)
		b.linkAhead(id, c, p)
		return id, true

	case factory.KindUndergroundBelt:
		id := b.create(c, p)
		if c.Side == factory.SideOutput {
			b.linkAhead(id, c, p)
		} else {
			b.linkTunnel(id, c, p)
		}
		return id, true

	case factory.KindInserter:
		id := b.create(c, p)
		if drop, ok := b.visit(p.Add(c.DropOffset())); ok && canHandle(b.net.arena[drop].Component) {
			b.net.link(id, drop)
		}
		if pick, ok := b.visit(p.Add(c.PickupOffset())); ok && canHandle(b.net.arena[pick].Component) {
			b.net.link(pick, id)
		}
		return id, true

	case factory.KindAssembler:
		id := b.newNode(c)
		for _, cell := range c.Cells() {
			if b.inBounds(cell) && b.grid.At(cell.X, cell.Y) == c {
				b.register(cell, id)
			}
		}
		return id, true

	case factory.KindSplitter:
		if p != c.Position && b.grid.At(c.Position.X, c.Position.Y) == c {
			return b.visit(c.Position)
		}
		id := b.create(c, p)
		if lane := p.Add(c.SplitterLaneOffset()); b.inBounds(lane) && b.grid.At(lane.X, lane.Y) == c {
			b.register(lane, id)
		}
		for _, off := range c.SplitterDropOffsets() {
			if child, ok := b.visit(p.Add(off)); ok && splitterFeeds(c, b.net.arena[child].Component) {
				b.net.link(id, child)
			}
		}
		return id, true

	case factory.KindContainer:
		return b.create(c, p), true
	}

	b.net.diagnose(DiagUnknownComponent, c.ID, "%s of type %q not supported", c.Name, c.Type)
	return NoNode, false
}

func (b *builder) newNode(c *factory.Component) NodeID {
	id := NodeID(len(b.net.arena))
	b.net.arena = append(b.net.arena, newNode(id, c))
	return id
}

// create allocates a node and registers it at p before any neighbor is
// visited.
func (b *builder) create(c *factory.Component, p factory.Vec) NodeID {
	id := b.newNode(c)
	b.register(p, id)
	return id
}

// linkAhead connects a belt-like node to the belt-like component in front
// of it.
func (b *builder) linkAhead(id NodeID, c *factory.Component, p factory.Vec) {
	child, ok := b.visit(p.Add(c.Facing.Ahead()))
	if ok && beltFeeds(c, b.net.arena[child].Component) {
		b.net.link(id, child)
	}
}

// linkTunnel connects the entry of an underground belt to the first exit of
// the same name within its maximum distance. Facing is not checked.
func (b *builder) linkTunnel(id NodeID, c *factory.Component, p factory.Vec) {
	step := c.Facing.Ahead()
	for i := 1; i <= c.MaxDistance; i++ {
		child, ok := b.visit(p.Add(step.Scale(i)))
		if !ok {
			continue
		}
		cc := b.net.arena[child].Component
		if cc.Kind == factory.KindUndergroundBelt && cc.Name == c.Name && cc.Side == factory.SideOutput {
			b.net.link(id, child)
			return
		}
	}
}

// beltFeeds reports whether a belt facing src.Facing can push onto dst.
func beltFeeds(src, dst *factory.Component) bool {
	switch {
	case dst.Kind == factory.KindBelt,
		dst.Kind == factory.KindUndergroundBelt && dst.Side == factory.SideInput,
		dst.Kind == factory.KindSplitter:
		return !src.Facing.Opposes(dst.Facing)
	}
	return false
}

// splitterFeeds reports whether a splitter can push onto dst. Tunnel entries
// and other splitters must face the same way.
func splitterFeeds(src, dst *factory.Component) bool {
	switch {
	case dst.Kind == factory.KindBelt:
		return !src.Facing.Opposes(dst.Facing)
	case dst.Kind == factory.KindUndergroundBelt && dst.Side == factory.SideInput,
		dst.Kind == factory.KindSplitter:
		return src.Facing == dst.Facing
	}
	return false
}

// canHandle reports whether an inserter can pick up from or drop onto c.
func canHandle(c *factory.Component) bool {
	switch c.Kind {
	case factory.KindBelt, factory.KindUndergroundBelt, factory.KindContainer,
		factory.KindAssembler, factory.KindSplitter:
		return true
	}
	return false
}
