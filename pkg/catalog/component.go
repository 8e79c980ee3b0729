package catalog

import (
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Fallbacks for prototypes missing a field, taken from the tier-1 entities.
const (
	defaultBeltSpeed     = 0.03125
	defaultRotationSpeed = 0.014
	defaultCraftingSpeed = 0.5
	defaultMaxDistance   = 5

	ticksPerSecond = 60
	itemsPerTile   = 4
	beltLanes      = 2

	longHandedReach = 2
)

// Placement is a named entity at a grid position, as read from a blueprint.
type Placement struct {
	ID       string
	Name     string
	Position factory.Vec
	Facing   factory.Direction
	Recipe   string           // assemblers only
	Side     factory.BeltSide // underground belts only
	Virtual  bool
}

// Component builds the component for p. It fails with a NOT_FOUND error if
// the entity name is unknown. An unknown recipe leaves Recipe nil; callers
// detect it by comparing p.Recipe with the result.
func (c *Catalog) Component(p Placement) (*factory.Component, error) {
	proto, ok := c.prototypes[p.Name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "entity %q not found in catalog", p.Name)
	}

	comp := &factory.Component{
		ID:       p.ID,
		Name:     p.Name,
		Type:     proto.Type,
		Kind:     kindByType[proto.Type],
		Facing:   p.Facing,
		Position: p.Position,
		Virtual:  p.Virtual,
	}

	switch comp.Kind {
	case factory.KindBelt:
		comp.Rate = BeltRate(proto.Speed)
	case factory.KindUndergroundBelt:
		comp.Rate = BeltRate(proto.Speed)
		comp.Side = p.Side
		comp.MaxDistance = proto.MaxDistance
		if comp.MaxDistance <= 0 {
			comp.MaxDistance = defaultMaxDistance
		}
	case factory.KindSplitter:
		comp.Rate = BeltRate(proto.Speed)
		comp.Offsets = []factory.Vec{{}, comp.SplitterLaneOffset()}
	case factory.KindInserter:
		comp.Rate = c.InserterRate(proto)
		comp.Reach = 1
		if proto.Name == "long-handed-inserter" {
			comp.Reach = longHandedReach
		}
	case factory.KindAssembler:
		comp.Offsets = factory.AssemblerOffsets
		comp.CraftingSpeed = proto.CraftingSpeed
		if comp.CraftingSpeed <= 0 {
			comp.CraftingSpeed = defaultCraftingSpeed
		}
		if r, ok := c.recipes[p.Recipe]; ok && p.Recipe != "" {
			comp.Recipe = r
		}
		comp.Rate = comp.OutputRate()
	}
	return comp, nil
}

// BeltRate converts a belt speed in tiles per tick into items per second.
// A non-positive speed falls back to the tier-1 belt.
func BeltRate(speed float64) float64 {
	if speed <= 0 {
		speed = defaultBeltSpeed
	}
	return speed * ticksPerSecond * itemsPerTile * beltLanes
}

// InserterRate returns the items per second an inserter moves under the
// catalog's capacity bonus.
func (c *Catalog) InserterRate(p Prototype) float64 {
	rot := p.RotationSpeed
	if rot <= 0 {
		rot = defaultRotationSpeed
	}
	return rot * ticksPerSecond * capacityMultiplier(p.Name, c.opts.InserterCapacityBonus)
}

// capacityMultiplier returns the hand size of an inserter at a bonus level.
func capacityMultiplier(name string, bonus int) float64 {
	if name == "stack-inserter" || name == "stack-filter-inserter" {
		m := 2 + bonus
		for _, level := range []int{5, 6, 7} {
			if bonus >= level {
				m++
			}
		}
		return float64(m)
	}
	switch {
	case bonus >= 7:
		return 3
	case bonus >= 2:
		return 2
	}
	return 1
}
