package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

func TestDefault(t *testing.T) {
	cat, err := Default(Options{})
	require.NoError(t, err)

	p, ok := cat.Prototype("fast-transport-belt")
	require.True(t, ok)
	assert.Equal(t, TypeTransportBelt, p.Type)

	r, ok := cat.Recipe("iron-gear-wheel")
	require.True(t, ok)
	assert.Equal(t, []factory.Item{{Name: "iron-plate", Amount: 2}}, r.Ingredients)
	assert.Equal(t, factory.Item{Name: "iron-gear-wheel", Amount: 1}, r.Result)
	assert.Contains(t, cat.Recipes(), "electronic-circuit")
	assert.Contains(t, cat.Prototypes(), "assembling-machine-2")
}

func TestDefaultRejectsBadBonus(t *testing.T) {
	_, err := Default(Options{InserterCapacityBonus: 8})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestBeltRate(t *testing.T) {
	assert.InDelta(t, 15.0, BeltRate(0.03125), 1e-9)
	assert.InDelta(t, 30.0, BeltRate(0.0625), 1e-9)
	assert.InDelta(t, 45.0, BeltRate(0.09375), 1e-9)
	assert.InDelta(t, 15.0, BeltRate(0), 1e-9)
}

func TestInserterRate(t *testing.T) {
	tests := []struct {
		name  string
		proto string
		bonus int
		want  float64
	}{
		{"basic", "inserter", 0, 0.84},
		{"basic bonus 2", "inserter", 2, 1.68},
		{"basic bonus 7", "inserter", 7, 2.52},
		{"fast", "fast-inserter", 0, 2.4},
		{"stack", "stack-inserter", 0, 4.8},
		{"stack bonus 4", "stack-inserter", 4, 14.4},
		{"stack bonus 7", "stack-inserter", 7, 28.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := Default(Options{InserterCapacityBonus: tt.bonus})
			require.NoError(t, err)
			p, ok := cat.Prototype(tt.proto)
			require.True(t, ok)
			assert.InDelta(t, tt.want, cat.InserterRate(p), 1e-9)
		})
	}
}

func TestComponent(t *testing.T) {
	cat, err := Default(Options{})
	require.NoError(t, err)

	t.Run("belt", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "1", Name: "transport-belt", Facing: factory.East})
		require.NoError(t, err)
		assert.Equal(t, factory.KindBelt, c.Kind)
		assert.InDelta(t, 15.0, c.Rate, 1e-9)
		assert.True(t, c.Bounded())
	})

	t.Run("long-handed inserter", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "2", Name: "long-handed-inserter", Facing: factory.East})
		require.NoError(t, err)
		assert.Equal(t, factory.KindInserter, c.Kind)
		assert.Equal(t, factory.Vec{X: -2, Y: 0}, c.DropOffset())
	})

	t.Run("assembler with recipe", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "3", Name: "assembling-machine-1", Recipe: "iron-gear-wheel"})
		require.NoError(t, err)
		assert.Equal(t, factory.KindAssembler, c.Kind)
		require.NotNil(t, c.Recipe)
		assert.Len(t, c.Offsets, 9)
		assert.InDelta(t, 1.0, c.Rate, 1e-9)
		assert.InDelta(t, 2.0, c.NominalRate("iron-plate"), 1e-9)
	})

	t.Run("assembler with unknown recipe", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "4", Name: "assembling-machine-1", Recipe: "nope"})
		require.NoError(t, err)
		assert.Nil(t, c.Recipe)
		assert.Zero(t, c.Rate)
	})

	t.Run("underground belt", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "5", Name: "fast-underground-belt", Side: factory.SideOutput})
		require.NoError(t, err)
		assert.Equal(t, factory.KindUndergroundBelt, c.Kind)
		assert.Equal(t, factory.SideOutput, c.Side)
		assert.Equal(t, 7, c.MaxDistance)
	})

	t.Run("splitter footprint", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "6", Name: "splitter", Facing: factory.East, Position: factory.Vec{X: 3, Y: 3}})
		require.NoError(t, err)
		assert.Equal(t, []factory.Vec{{X: 3, Y: 3}, {X: 3, Y: 2}}, c.Cells())
	})

	t.Run("chest is unbounded", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "7", Name: "logistic-chest-requester"})
		require.NoError(t, err)
		assert.Equal(t, factory.KindContainer, c.Kind)
		assert.False(t, c.Bounded())
	})

	t.Run("furnace is unknown kind", func(t *testing.T) {
		c, err := cat.Component(Placement{ID: "8", Name: "stone-furnace"})
		require.NoError(t, err)
		assert.Equal(t, factory.KindUnknown, c.Kind)
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, err := cat.Component(Placement{ID: "9", Name: "rocket-silo"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	})
}

const rawDump = `{
  "transport-belt": {
    "transport-belt": {"name": "transport-belt", "type": "transport-belt", "speed": 0.03125}
  },
  "assembling-machine": {
    "assembling-machine-2": {"name": "assembling-machine-2", "type": "assembling-machine", "crafting_speed": 0.75}
  },
  "recipe": {
    "iron-gear-wheel": {"ingredients": [["iron-plate", 2]]},
    "electronic-circuit": {
      "ingredients": [["iron-plate", 1], ["copper-cable", 3]],
      "normal": {"ingredients": [["iron-plate", 1], ["copper-cable", 3]], "energy_required": 0.5}
    },
    "lubricant-thing": {
      "ingredients": [{"name": "lubricant", "amount": 20, "type": "fluid"}, {"name": "iron-plate", "amount": 1, "type": "item"}],
      "result_count": 3
    }
  }
}`

func TestLoadRaw(t *testing.T) {
	cat, err := LoadRaw(strings.NewReader(rawDump), Options{})
	require.NoError(t, err)

	p, ok := cat.Prototype("assembling-machine-2")
	require.True(t, ok)
	assert.InDelta(t, 0.75, p.CraftingSpeed, 1e-9)

	gear, ok := cat.Recipe("iron-gear-wheel")
	require.True(t, ok)
	assert.InDelta(t, 1.0, gear.Time, 1e-9, "energy_required defaults to 1")
	assert.Equal(t, factory.Item{Name: "iron-gear-wheel", Amount: 1}, gear.Result)

	circuit, ok := cat.Recipe("electronic-circuit")
	require.True(t, ok)
	assert.InDelta(t, 0.5, circuit.Time, 1e-9, "normal block wins")
	assert.Len(t, circuit.Ingredients, 2)

	lube, ok := cat.Recipe("lubricant-thing")
	require.True(t, ok)
	assert.Equal(t, []factory.Item{{Name: "iron-plate", Amount: 1}}, lube.Ingredients)
	assert.InDelta(t, 3.0, lube.Result.Amount, 1e-9)
}

func TestLoadRawErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "nope"},
		{"no recipes", `{"transport-belt": {}}`},
		{"bad pair", `{"recipe": {"x": {"ingredients": [["a"]]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRaw(strings.NewReader(tt.in), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidCatalog))
		})
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "mod.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[prototype]]
name = "modded-belt"
type = "transport-belt"
speed = 0.125

[[recipe]]
name = "widget"
time = 2
result = { name = "widget", amount = 1 }
ingredients = [{ name = "iron-plate", amount = 1 }]
`), 0o644))

	cat, err := Open(tomlPath, Options{})
	require.NoError(t, err)
	c, err := cat.Component(Placement{ID: "1", Name: "modded-belt"})
	require.NoError(t, err)
	assert.InDelta(t, 60.0, c.Rate, 1e-9)

	jsonPath := filepath.Join(dir, "data-raw.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(rawDump), 0o644))
	cat, err = Open(jsonPath, Options{})
	require.NoError(t, err)
	_, ok := cat.Recipe("electronic-circuit")
	assert.True(t, ok)

	_, err = Open(filepath.Join(dir, "missing.toml"), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}
