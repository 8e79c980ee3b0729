package blueprint

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/factoryflow/pkg/catalog"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Entities substituted before lookup. Infinity chests behave like plain
// chests for throughput purposes.
var substitutes = map[string]string{
	"infinity-chest": "iron-chest",
}

// virtualContainer names the prototype used for synthetic drop targets.
const virtualContainer = "wooden-chest"

// Layout resolves every entity against cat and places it on a grid.
//
// Positions are floored to tiles and shifted so that every occupied cell,
// footprints included, has non-negative coordinates. Entities missing from
// the catalog, entities with a diagonal direction and assemblers with an
// unknown recipe produce warnings; only the first two are skipped. Empty
// inserter drop cells receive a virtual container with the ID "<n>_virtual".
func (b *Blueprint) Layout(cat *catalog.Catalog) (*factory.Layout, []string, error) {
	var (
		warnings []string
		comps    []*factory.Component
	)
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	for _, e := range b.Entities {
		name := e.Name
		if sub, ok := substitutes[name]; ok {
			name = sub
		}
		facing, err := factory.ParseDirection(e.Direction)
		if err != nil {
			warnf("entity %d (%s): %v", e.Number, name, err)
			continue
		}
		c, err := cat.Component(catalog.Placement{
			ID:       strconv.Itoa(e.Number),
			Name:     name,
			Position: factory.Vec{X: int(math.Floor(e.Position.X)), Y: int(math.Floor(e.Position.Y))},
			Facing:   facing,
			Recipe:   e.Recipe,
			Side:     factory.ParseBeltSide(e.Type),
		})
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				warnf("entity %s not found in catalog", name)
				continue
			}
			return nil, warnings, err
		}
		if e.Recipe != "" && c.Recipe == nil {
			warnf("no recipe found for %s", e.Recipe)
		}
		comps = append(comps, c)
	}

	if len(comps) == 0 {
		warnf("no entities in the blueprint %s", b.Label)
		return factory.NewLayout(0, 0), warnings, nil
	}

	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, c := range comps {
		for _, cell := range c.Cells() {
			minX, minY = min(minX, cell.X), min(minY, cell.Y)
			maxX, maxY = max(maxX, cell.X), max(maxY, cell.Y)
		}
	}

	shift := factory.Vec{X: -minX, Y: -minY}
	layout := factory.NewLayout(maxX-minX+1, maxY-minY+1)
	for _, c := range comps {
		c.Position = c.Position.Add(shift)
		if err := layout.Place(c); err != nil {
			return nil, warnings, errors.Wrap(errors.ErrCodeInternal, err, "place entity %s", c.ID)
		}
	}

	layout.FillDropTargets(func(ins *factory.Component, at factory.Vec) *factory.Component {
		id := ins.ID + "_virtual"
		box, err := cat.Component(catalog.Placement{ID: id, Name: virtualContainer, Position: at, Virtual: true})
		if err != nil {
			box = &factory.Component{ID: id, Name: virtualContainer, Type: catalog.TypeContainer, Kind: factory.KindContainer}
		}
		return box
	})

	return layout, warnings, nil
}
