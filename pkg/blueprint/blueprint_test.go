package blueprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factoryflow/pkg/catalog"
	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

// gearFactory: chest → inserter → gear assembler → inserter → chest.
const gearFactory = `{
  "blueprint": {
    "label": "gears",
    "item": "blueprint",
    "entities": [
      {"entity_number": 1, "name": "infinity-chest", "position": {"x": 0.5, "y": 0.5}},
      {"entity_number": 2, "name": "inserter", "position": {"x": 1.5, "y": 0.5}, "direction": 6},
      {"entity_number": 3, "name": "assembling-machine-1", "position": {"x": 3.5, "y": 0.5}, "recipe": "iron-gear-wheel"},
      {"entity_number": 4, "name": "inserter", "position": {"x": 5.5, "y": 0.5}, "direction": 6},
      {"entity_number": 5, "name": "wooden-chest", "position": {"x": 6.5, "y": 0.5}}
    ]
  }
}`

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default(catalog.Options{})
	require.NoError(t, err)
	return cat
}

func TestDecodeJSON(t *testing.T) {
	bp, err := Decode(gearFactory)
	require.NoError(t, err)
	assert.Equal(t, "gears", bp.Label)
	require.Len(t, bp.Entities, 5)
	assert.Equal(t, "iron-gear-wheel", bp.Entities[2].Recipe)
	require.NotNil(t, bp.Entities[1].Direction)
	assert.Equal(t, 6, *bp.Entities[1].Direction)
	assert.Nil(t, bp.Entities[0].Direction)
}

func TestExchangeString(t *testing.T) {
	bp, err := Decode(gearFactory)
	require.NoError(t, err)

	s, err := Encode(bp)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "0"))

	again, err := Decode(s + "\n")
	require.NoError(t, err)
	assert.Equal(t, bp, again)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidBlueprint},
		{"bad version", "1eNq", errors.ErrCodeInvalidBlueprint},
		{"bad base64", "0!!!!", errors.ErrCodeInvalidBlueprint},
		{"not zlib", "0aGVsbG8=", errors.ErrCodeInvalidBlueprint},
		{"bad json", "{nope", errors.ErrCodeInvalidBlueprint},
		{"missing blueprint", `{"foo": 1}`, errors.ErrCodeInvalidBlueprint},
		{"book", `{"blueprint_book": {"blueprints": []}}`, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestDecodeDefaultsLabel(t *testing.T) {
	bp, err := Decode(`{"blueprint": {"entities": []}}`)
	require.NoError(t, err)
	assert.Equal(t, "No label", bp.Label)
}

func TestLayout(t *testing.T) {
	bp, err := Decode(gearFactory)
	require.NoError(t, err)

	grid, warnings, err := bp.Layout(mustCatalog(t))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// The assembler footprint reaches one row above the other entities.
	assert.Equal(t, 7, grid.Width())
	assert.Equal(t, 3, grid.Height())

	chest := grid.At(0, 1)
	require.NotNil(t, chest)
	assert.Equal(t, "iron-chest", chest.Name, "infinity chests are substituted")

	asm := grid.At(3, 1)
	require.NotNil(t, asm)
	assert.Equal(t, factory.KindAssembler, asm.Kind)
	assert.Same(t, asm, grid.At(2, 0))
	assert.Same(t, asm, grid.At(4, 2))

	ins := grid.At(1, 1)
	require.NotNil(t, ins)
	assert.Equal(t, factory.West, ins.Facing)
	assert.Equal(t, factory.Vec{X: 2, Y: 1}, ins.Position.Add(ins.DropOffset()))
	assert.Len(t, grid.Components(), 5)
}

func TestLayoutVirtualContainer(t *testing.T) {
	bp, err := Decode(`{"blueprint": {"entities": [
		{"entity_number": 7, "name": "inserter", "position": {"x": 0.5, "y": 0.5}, "direction": 6},
		{"entity_number": 8, "name": "transport-belt", "position": {"x": 2.5, "y": 0.5}, "direction": 2}
	]}}`)
	require.NoError(t, err)

	grid, _, err := bp.Layout(mustCatalog(t))
	require.NoError(t, err)

	box := grid.At(1, 0)
	require.NotNil(t, box)
	assert.Equal(t, "7_virtual", box.ID)
	assert.True(t, box.Virtual)
	assert.Equal(t, factory.KindContainer, box.Kind)
}

func TestLayoutWarnings(t *testing.T) {
	bp, err := Decode(`{"blueprint": {"label": "odd", "entities": [
		{"entity_number": 1, "name": "rocket-silo", "position": {"x": 0, "y": 0}},
		{"entity_number": 2, "name": "transport-belt", "position": {"x": 1, "y": 0}, "direction": 3},
		{"entity_number": 3, "name": "assembling-machine-2", "position": {"x": 5.5, "y": 5.5}, "recipe": "unobtainium"}
	]}}`)
	require.NoError(t, err)

	grid, warnings, err := bp.Layout(mustCatalog(t))
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "rocket-silo")
	assert.Contains(t, warnings[1], "unsupported direction")
	assert.Contains(t, warnings[2], "unobtainium")
	assert.Equal(t, 3, grid.Width())
}

func TestLayoutEmpty(t *testing.T) {
	bp, err := Decode(`{"blueprint": {"label": "void", "entities": []}}`)
	require.NoError(t, err)

	grid, warnings, err := bp.Layout(mustCatalog(t))
	require.NoError(t, err)
	assert.Zero(t, grid.Width())
	assert.Equal(t, []string{"no entities in the blueprint void"}, warnings)
}
