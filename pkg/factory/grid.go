package factory

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned by [Layout.Place] when a component's anchor
// cell lies outside the grid.
var ErrOutOfBounds = errors.New("component anchor out of bounds")

// Grid is the read-only view of a positioned layout consumed by the graph
// builder.
//
// At returns nil for empty cells and for coordinates outside the grid.
// Multi-cell components must be returned identically from every cell they
// occupy.
type Grid interface {
	Width() int
	Height() int
	At(x, y int) *Component
}

// Layout is an in-memory [Grid].
// The zero value is not usable; create one with [NewLayout].
type Layout struct {
	width, height int
	cells         [][]*Component
	components    []*Component
}

// NewLayout creates an empty width×height layout.
func NewLayout(width, height int) *Layout {
	cells := make([][]*Component, height)
	for y := range cells {
		cells[y] = make([]*Component, width)
	}
	return &Layout{width: width, height: height, cells: cells}
}

// Width returns the number of columns.
func (l *Layout) Width() int { return l.width }

// Height returns the number of rows.
func (l *Layout) Height() int { return l.height }

// InBounds reports whether (x, y) lies inside the grid.
func (l *Layout) InBounds(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

// At returns the component occupying (x, y), or nil.
func (l *Layout) At(x, y int) *Component {
	if !l.InBounds(x, y) {
		return nil
	}
	return l.cells[y][x]
}

// Components returns placed components in placement order.
func (l *Layout) Components() []*Component { return l.components }

// Place registers c on every footprint cell that lies inside the grid.
// Cells outside the grid are skipped silently; the anchor itself must be in
// bounds. A later placement overwrites earlier ones on shared cells.
func (l *Layout) Place(c *Component) error {
	if !l.InBounds(c.Position.X, c.Position.Y) {
		return fmt.Errorf("%s at (%d, %d): %w", c.Name, c.Position.X, c.Position.Y, ErrOutOfBounds)
	}
	for _, cell := range c.Cells() {
		if l.InBounds(cell.X, cell.Y) {
			l.cells[cell.Y][cell.X] = c
		}
	}
	l.components = append(l.components, c)
	return nil
}

// FillDropTargets places a synthetic container on every empty, in-bounds
// cell that an inserter drops onto, so that every inserter has a concrete
// downstream component. newContainer builds the container for the inserter
// that needs it. It returns the containers that were added.
//
// Only drop cells are filled: the pickup side of an inserter is served by
// the container another inserter dropped into.
func (l *Layout) FillDropTargets(newContainer func(inserter *Component, at Vec) *Component) []*Component {
	var added []*Component
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			c := l.cells[y][x]
			if c == nil || c.Kind != KindInserter {
				continue
			}
			drop := c.Position.Add(c.DropOffset())
			if !l.InBounds(drop.X, drop.Y) || l.cells[drop.Y][drop.X] != nil {
				continue
			}
			box := newContainer(c, drop)
			box.Position = drop
			box.Offsets = nil
			box.Virtual = true
			l.cells[drop.Y][drop.X] = box
			l.components = append(l.components, box)
			added = append(added, box)
		}
	}
	return added
}
