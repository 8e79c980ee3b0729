package report_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factoryflow/pkg/factory"
	"github.com/matzehuels/factoryflow/pkg/network"
	"github.com/matzehuels/factoryflow/pkg/report"
)

// gearLine is a gear assembler feeding a chest through three belts:
//
//	asm -> ins1 -> b1 -> b2 -> b3 -> ins2 -> sink
func gearLine(t *testing.T) *network.Network {
	t.Helper()
	gear := &factory.Recipe{
		Name:        "iron-gear-wheel",
		Ingredients: []factory.Item{{Name: "iron-plate", Amount: 2}},
		Result:      factory.Item{Name: "iron-gear-wheel", Amount: 1},
		Time:        0.5,
	}
	asm := &factory.Component{
		ID: "asm", Name: "assembling-machine-1", Kind: factory.KindAssembler,
		Position: factory.Vec{X: 1, Y: 1}, Offsets: factory.AssemblerOffsets,
		CraftingSpeed: 0.5, Recipe: gear,
	}
	asm.Rate = asm.OutputRate()

	comps := []*factory.Component{
		asm,
		{ID: "ins1", Name: "inserter", Kind: factory.KindInserter, Facing: factory.West,
			Position: factory.Vec{X: 3, Y: 1}, Rate: 100},
		{ID: "ins2", Name: "inserter", Kind: factory.KindInserter, Facing: factory.West,
			Position: factory.Vec{X: 7, Y: 1}, Rate: 0.84},
		{ID: "sink", Name: "wooden-chest", Kind: factory.KindContainer,
			Position: factory.Vec{X: 8, Y: 1}},
	}
	for i, id := range []string{"b1", "b2", "b3"} {
		comps = append(comps, &factory.Component{
			ID: id, Name: "transport-belt", Kind: factory.KindBelt, Facing: factory.East,
			Position: factory.Vec{X: 4 + i, Y: 1}, Rate: 15,
		})
	}

	l := factory.NewLayout(9, 3)
	for _, c := range comps {
		require.NoError(t, l.Place(c))
	}
	net, err := network.Analyze(l, network.Options{})
	require.NoError(t, err)
	return net
}

func TestBuild(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "run-1")

	assert.Equal(t, "gears", r.Label)
	assert.Equal(t, "run-1", r.RunID)
	assert.Len(t, r.Nodes, 5)
	assert.Len(t, r.Entities, 7)

	assert.Equal(t, []string{"asm"}, r.EntitiesInput)
	assert.Equal(t, []string{"sink"}, r.EntitiesOutput)
	assert.Equal(t, []string{"ins2"}, r.Bottlenecks)

	require.Len(t, r.ItemsInput, 1)
	assert.Equal(t, "iron-gear-wheel", r.ItemsInput[0].Name)
	assert.InDelta(t, 0.84, r.ItemsInput[0].Amount, 1e-9)
	require.Len(t, r.ItemsOutput, 1)
	assert.InDelta(t, 0.84, r.ItemsOutput[0].Amount, 1e-9)
	assert.Empty(t, r.Diagnostics)
}

func TestBuildNodes(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "")

	belt, ok := r.Node("b1")
	require.True(t, ok)
	assert.Equal(t, "belt", belt.Kind)
	assert.Equal(t, []string{"iron-gear-wheel"}, belt.Carries)
	assert.Equal(t, []string{"ins1"}, belt.Parents)
	assert.Equal(t, []string{"ins2"}, belt.Children)
	assert.Equal(t, []string{"b2"}, belt.OriginalChildren)
	assert.Equal(t, []string{"b2", "b3"}, belt.Subsumed)
	require.NotNil(t, belt.Usage)
	assert.InDelta(t, 0.84/15, *belt.Usage, 1e-9)
	assert.False(t, belt.Bottleneck)

	asm, ok := r.Node("asm")
	require.True(t, ok)
	assert.Equal(t, "iron-gear-wheel", asm.Recipe)
	assert.Equal(t, []factory.Item{{Name: "iron-plate", Amount: 2}}, asm.Inputs)
	assert.Empty(t, asm.Carries)

	sink, ok := r.Node("sink")
	require.True(t, ok)
	assert.Nil(t, sink.Usage, "containers are unbounded")

	_, ok = r.Node("b2")
	assert.False(t, ok, "compacted belts are not graph nodes")
}

func TestBuildSubsumedEntities(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "")

	b2, ok := r.Entity("b2")
	require.True(t, ok)
	assert.Equal(t, "b1", b2.Node)
	assert.Equal(t, []string{"b1"}, b2.Parents)
	assert.Equal(t, []string{"b3"}, b2.Children)
	require.Len(t, b2.Flow, 1)
	assert.InDelta(t, 0.84, b2.Flow[0].Amount, 1e-9)
	require.NotNil(t, b2.Usage)
	assert.InDelta(t, 0.84/15, *b2.Usage, 1e-9)
	assert.False(t, b2.Input)
	assert.False(t, b2.Output)

	_, ok = r.Entity("nope")
	assert.False(t, ok)
}

func TestBottleneckNodesAndUsage(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "")

	bn := r.BottleneckNodes()
	require.Len(t, bn, 1)
	assert.Equal(t, "ins2", bn[0].ID)

	byUsage := r.ByUsage()
	require.NotEmpty(t, byUsage)
	assert.Equal(t, "ins2", byUsage[0].ID)
	assert.Equal(t, "asm", byUsage[1].ID)
	for i := 1; i < len(byUsage); i++ {
		assert.GreaterOrEqual(t, *byUsage[i-1].Usage, *byUsage[i].Usage)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "run-1")

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(r, &buf))
	assert.Contains(t, buf.String(), `"entities_bottleneck": [`)

	got, err := report.ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, r, got)

	data, err := report.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"label": "gears"`)
}

func TestFileRoundTrip(t *testing.T) {
	r := report.Build(gearLine(t), "gears", "run-2")
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, report.WriteFile(r, path))
	got, err := report.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Entities, got.Entities)

	_, err = report.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := report.ReadJSON(bytes.NewBufferString("{not json"))
	assert.Error(t, err)
}
