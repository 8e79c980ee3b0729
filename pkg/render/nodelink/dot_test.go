package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/factoryflow/pkg/factory"
	"github.com/matzehuels/factoryflow/pkg/report"
)

func usage(v float64) *float64 { return &v }

func sampleReport() *report.Report {
	return &report.Report{
		Label: "gears",
		Nodes: []report.Node{
			{ID: "1", Name: "assembling-machine-1", Kind: "assembler", Recipe: "iron-gear-wheel",
				Flow: []factory.Item{{Name: "iron-gear-wheel", Amount: 0.84}}, Usage: usage(0.84),
				Children: []string{"2"}},
			{ID: "2", Name: "inserter", Kind: "inserter", Bottleneck: true, Usage: usage(1),
				Flow: []factory.Item{{Name: "iron-gear-wheel", Amount: 0.84}},
				Parents: []string{"1"}, Children: []string{"3"}, Subsumed: []string{"9"}},
			{ID: "3", Name: "wooden-chest", Kind: "container", Virtual: true, Parents: []string{"2"}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{})

	for _, want := range []string{
		"digraph G {",
		`label="gears";`,
		`"1" [label="assembling-machine-1 #1", penwidth=2];`,
		`"2" [label="inserter #2", fillcolor=black, fontcolor=white];`,
		`"1" -> "2";`,
		`"2" -> "3";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("virtual container should be dashed")
	}
	if strings.Count(dot, "->") != 2 {
		t.Errorf("want 2 edges, got %d", strings.Count(dot, "->"))
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sampleReport(), Options{Detailed: true})

	for _, want := range []string{
		`recipe: iron-gear-wheel`,
		`iron-gear-wheel: 0.84/s`,
		`usage: 84%`,
		`usage: 100%`,
		`+1 compacted`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q", want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(ToDOT(sampleReport(), Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
