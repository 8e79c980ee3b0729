package factory

import "fmt"

// Kind is the closed set of component categories the graph engine understands.
type Kind int

const (
	// KindUnknown marks a component whose type has no wiring rule. The graph
	// builder reports it as a diagnostic and gives it no node.
	KindUnknown Kind = iota
	KindBelt
	KindUndergroundBelt
	KindSplitter
	KindInserter
	KindAssembler
	KindContainer
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindBelt:            "belt",
	KindUndergroundBelt: "underground-belt",
	KindSplitter:        "splitter",
	KindInserter:        "inserter",
	KindAssembler:       "assembler",
	KindContainer:       "container",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsBeltLike reports whether k moves items along a lane (belts, underground
// belts and splitters).
func (k Kind) IsBeltLike() bool {
	return k == KindBelt || k == KindUndergroundBelt || k == KindSplitter
}

// BeltSide distinguishes the two halves of an underground belt pair.
type BeltSide int

const (
	SideNone BeltSide = iota
	SideInput
	SideOutput
)

func (s BeltSide) String() string {
	switch s {
	case SideInput:
		return "input"
	case SideOutput:
		return "output"
	}
	return ""
}

// ParseBeltSide converts the blueprint "type" field of an underground belt.
func ParseBeltSide(s string) BeltSide {
	switch s {
	case "input":
		return SideInput
	case "output":
		return SideOutput
	}
	return SideNone
}

// Component is a placed production element. It is created by the catalog and
// never mutated once placed on a [Layout].
type Component struct {
	ID       string    // entity number from the blueprint, or "<n>_virtual"
	Name     string    // prototype name, e.g. "fast-transport-belt"
	Type     string    // raw prototype type, e.g. "transport-belt"
	Kind     Kind      // wiring category
	Facing   Direction // cardinal facing
	Position Vec       // anchor cell
	Offsets  []Vec     // footprint relative to Position; nil means a single cell

	// Rate is the throughput in items per second. Zero means unbounded.
	// For assemblers it is the output rate of the configured recipe.
	Rate float64

	Reach         int      // inserter drop distance in cells (1 when unset)
	Side          BeltSide // underground belt half
	MaxDistance   int      // underground belt search distance
	CraftingSpeed float64  // assembler crafting speed
	Recipe        *Recipe  // assembler recipe; nil when none is set
	Virtual       bool     // synthetic container inserted by the layout
}

// Bounded reports whether the component has a finite throughput.
func (c *Component) Bounded() bool { return c.Rate > 0 }

// Cells returns the absolute cells occupied by the component.
func (c *Component) Cells() []Vec {
	if len(c.Offsets) == 0 {
		return []Vec{c.Position}
	}
	cells := make([]Vec, len(c.Offsets))
	for i, o := range c.Offsets {
		cells[i] = c.Position.Add(o)
	}
	return cells
}

// craftTime is the wall-clock time of one craft.
func (c *Component) craftTime() float64 {
	if c.Recipe == nil || c.CraftingSpeed <= 0 {
		return 0
	}
	t := c.Recipe.Time
	if t <= 0 {
		t = 1
	}
	return t / c.CraftingSpeed
}

// OutputRate returns the number of result items produced per second at full
// usage, or 0 if the component has no recipe.
func (c *Component) OutputRate() float64 {
	t := c.craftTime()
	if t == 0 {
		return 0
	}
	return c.Recipe.Result.Amount / t
}

// NominalRate returns the per-second consumption of ingredient at full usage.
func (c *Component) NominalRate(ingredient string) float64 {
	t := c.craftTime()
	if t == 0 {
		return 0
	}
	it, ok := c.Recipe.Ingredient(ingredient)
	if !ok {
		return 0
	}
	return it.Amount / t
}

// DropOffset returns the offset of the cell an inserter drops items onto.
// Inserters are encoded facing the opposite way of belts, so the drop cell
// lies behind the facing direction.
func (c *Component) DropOffset() Vec {
	reach := c.Reach
	if reach <= 0 {
		reach = 1
	}
	return c.Facing.Ahead().Neg().Scale(reach)
}

// PickupOffset returns the offset of the cell an inserter picks items from.
func (c *Component) PickupOffset() Vec {
	return c.DropOffset().Neg()
}

// SplitterLaneOffset returns the offset of a splitter's second cell.
func (c *Component) SplitterLaneOffset() Vec {
	switch c.Facing {
	case East, West:
		return Vec{0, -1}
	default:
		return Vec{-1, 0}
	}
}

// SplitterDropOffsets returns the two cells a splitter feeds, relative to
// its anchor.
func (c *Component) SplitterDropOffsets() [2]Vec {
	switch c.Facing {
	case East:
		return [2]Vec{{1, -1}, {1, 0}}
	case South:
		return [2]Vec{{-1, 1}, {0, 1}}
	case West:
		return [2]Vec{{-1, -1}, {-1, 0}}
	default:
		return [2]Vec{{-1, -1}, {0, -1}}
	}
}

// String returns "id name [x, y]".
func (c *Component) String() string {
	return fmt.Sprintf("%s %s [%d, %d]", c.ID, c.Name, c.Position.X, c.Position.Y)
}

// AssemblerOffsets is the 3×3 footprint of an assembler around its center.
var AssemblerOffsets = []Vec{
	{0, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, 0}, {1, -1},
	{-1, 1}, {-1, 0}, {-1, -1},
}
