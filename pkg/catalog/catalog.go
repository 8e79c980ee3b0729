package catalog

import (
	"maps"
	"slices"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

// Prototype type strings, as used by the game data.
const (
	TypeTransportBelt     = "transport-belt"
	TypeUndergroundBelt   = "underground-belt"
	TypeSplitter          = "splitter"
	TypeInserter          = "inserter"
	TypeAssembler         = "assembling-machine"
	TypeContainer         = "container"
	TypeLogisticContainer = "logistic-container"
	TypeInfinityContainer = "infinity-container"
	TypeFurnace           = "furnace"
)

var kindByType = map[string]factory.Kind{
	TypeTransportBelt:     factory.KindBelt,
	TypeUndergroundBelt:   factory.KindUndergroundBelt,
	TypeSplitter:          factory.KindSplitter,
	TypeInserter:          factory.KindInserter,
	TypeAssembler:         factory.KindAssembler,
	TypeContainer:         factory.KindContainer,
	TypeLogisticContainer: factory.KindContainer,
	TypeInfinityContainer: factory.KindContainer,
}

// Prototype holds the static data of one entity kind. Only the fields
// relevant to its Type are set.
type Prototype struct {
	Name          string  `toml:"name" json:"name"`
	Type          string  `toml:"type" json:"type"`
	Speed         float64 `toml:"speed,omitempty" json:"speed,omitempty"`                   // belts: tiles per tick
	RotationSpeed float64 `toml:"rotation_speed,omitempty" json:"rotation_speed,omitempty"` // inserters: turns per tick
	CraftingSpeed float64 `toml:"crafting_speed,omitempty" json:"crafting_speed,omitempty"` // assemblers
	MaxDistance   int     `toml:"max_distance,omitempty" json:"max_distance,omitempty"`     // underground belts
}

// Options carries the game settings that change derived rates.
type Options struct {
	// InserterCapacityBonus is the inserter capacity bonus research level,
	// from 0 to 7.
	InserterCapacityBonus int
}

// Catalog is an immutable set of prototypes and recipes. It is safe for
// concurrent use.
type Catalog struct {
	prototypes map[string]Prototype
	recipes    map[string]*factory.Recipe
	opts       Options
}

// New builds a catalog. Later entries with the same name replace earlier
// ones.
func New(prototypes []Prototype, recipes []factory.Recipe, opts Options) (*Catalog, error) {
	if err := errors.ValidateCapacityBonus(opts.InserterCapacityBonus); err != nil {
		return nil, err
	}
	c := &Catalog{
		prototypes: make(map[string]Prototype, len(prototypes)),
		recipes:    make(map[string]*factory.Recipe, len(recipes)),
		opts:       opts,
	}
	for _, p := range prototypes {
		if p.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "prototype without a name")
		}
		c.prototypes[p.Name] = p
	}
	for i := range recipes {
		r := recipes[i]
		if r.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "recipe without a name")
		}
		if r.Result.Name == "" {
			r.Result.Name = r.Name
		}
		if r.Result.Amount == 0 {
			r.Result.Amount = 1
		}
		c.recipes[r.Name] = &r
	}
	return c, nil
}

// WithOptions returns a catalog sharing c's data but deriving rates with
// opts.
func (c *Catalog) WithOptions(opts Options) (*Catalog, error) {
	if err := errors.ValidateCapacityBonus(opts.InserterCapacityBonus); err != nil {
		return nil, err
	}
	cp := *c
	cp.opts = opts
	return &cp, nil
}

// Options returns the settings rates are derived with.
func (c *Catalog) Options() Options { return c.opts }

// Prototype looks up an entity prototype by name.
func (c *Catalog) Prototype(name string) (Prototype, bool) {
	p, ok := c.prototypes[name]
	return p, ok
}

// Recipe looks up a recipe by name. The returned recipe must not be
// modified.
func (c *Catalog) Recipe(name string) (*factory.Recipe, bool) {
	r, ok := c.recipes[name]
	return r, ok
}

// Prototypes returns the prototype names in sorted order.
func (c *Catalog) Prototypes() []string {
	return slices.Sorted(maps.Keys(c.prototypes))
}

// Recipes returns the recipe names in sorted order.
func (c *Catalog) Recipes() []string {
	return slices.Sorted(maps.Keys(c.recipes))
}
