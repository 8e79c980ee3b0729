package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/factoryflow/pkg/factory"
	"github.com/matzehuels/factoryflow/pkg/report"
)

const gearFactory = `{"blueprint": {"label": "gears", "entities": [
  {"entity_number": 1, "name": "infinity-chest", "position": {"x": 0.5, "y": 0.5}},
  {"entity_number": 2, "name": "inserter", "position": {"x": 1.5, "y": 0.5}, "direction": 6},
  {"entity_number": 3, "name": "assembling-machine-1", "position": {"x": 3.5, "y": 0.5}, "recipe": "iron-gear-wheel"},
  {"entity_number": 4, "name": "inserter", "position": {"x": 5.5, "y": 0.5}, "direction": 6},
  {"entity_number": 5, "name": "wooden-chest", "position": {"x": 6.5, "y": 0.5}}
]}}`

// isolate keeps config and cache lookups inside temp directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("FACTORYFLOW_CACHE_DIR", "")
	t.Setenv("FACTORYFLOW_REDIS_URL", "")
}

func usage(v float64) *float64 { return &v }

func sampleReport() *report.Report {
	return &report.Report{
		Label: "sample",
		Nodes: []report.Node{
			{ID: "1", Name: "iron-chest", Kind: "container", Children: []string{"2"}},
			{ID: "2", Name: "inserter", Kind: "inserter", Rate: 0.83, Usage: usage(1), Bottleneck: true,
				Flow: []factory.Item{{Name: "iron-plate", Amount: 0.83}}, Parents: []string{"1"}},
			{ID: "3", Name: "transport-belt", Kind: "belt", Rate: 15, Usage: usage(0.5),
				Subsumed: []string{"4", "5"}},
		},
		Bottlenecks: []string{"2"},
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"dot", []string{"dot"}},
		{"svg, dot,json", []string{"svg", "dot", "json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "designs/smelter.txt", "designs/smelter"},
		{"", "-", "stdin"},
		{"out/graph.svg", "smelter.txt", "out/graph"},
		{"out/graph", "smelter.txt", "out/graph"},
		{"out/graph.v2", "smelter.txt", "out/graph.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestReportName(t *testing.T) {
	if got := reportName("designs/smelter.txt"); got != "smelter.report.json" {
		t.Errorf("reportName = %q", got)
	}
	if got := reportName("-"); got != "stdin.report.json" {
		t.Errorf("reportName(-) = %q", got)
	}
}

func TestReadBlueprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bp.txt")
	if err := os.WriteFile(path, []byte(gearFactory), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := readBlueprint(path)
	if err != nil || got != gearFactory {
		t.Errorf("readBlueprint = %q, %v", got, err)
	}
	if _, err := readBlueprint(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestCacheDir(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	c.Config.Cache.Dir = "/srv/cache"
	if dir, _ := c.cacheDir(); dir != "/srv/cache" {
		t.Errorf("configured dir ignored: %q", dir)
	}
}

func TestFormatItems(t *testing.T) {
	if got := formatItems(nil); got != "-" {
		t.Errorf("formatItems(nil) = %q", got)
	}
	got := formatItems([]factory.Item{{Name: "iron-plate", Amount: 7.5}, {Name: "copper-plate", Amount: 2}})
	if got != "iron-plate 7.50, copper-plate 2.00" {
		t.Errorf("formatItems = %q", got)
	}
}

func TestSummaryAndTable(t *testing.T) {
	r := sampleReport()

	line := summaryLine(r, true)
	for _, want := range []string{"3 nodes", "1 bottlenecks", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("summary %q missing %q", line, want)
		}
	}

	tbl := usageTable(r, 1)
	if !strings.Contains(tbl, "inserter") || !strings.Contains(tbl, "100%") {
		t.Errorf("table missing busiest node:\n%s", tbl)
	}
	if strings.Contains(tbl, "transport-belt") {
		t.Errorf("table should be limited to one row:\n%s", tbl)
	}
}

func TestNodeListModel(t *testing.T) {
	m := newNodeListModel(sampleReport())

	sel, ok := m.Selected()
	if !ok || sel.ID != "2" {
		t.Fatalf("busiest node should be selected first, got %v", sel.ID)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(NodeListModel)
	if sel, _ := m.Selected(); sel.ID != "3" {
		t.Errorf("down should move to the next busiest node, got %s", sel.ID)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	m = next.(NodeListModel)
	if len(m.visible) != 1 || m.Cursor != 0 {
		t.Errorf("bottleneck filter: %d visible, cursor %d", len(m.visible), m.Cursor)
	}

	view := m.View()
	if !strings.Contains(view, "sample") || !strings.Contains(view, "iron-plate 0.83") {
		t.Errorf("view missing title or detail:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "gears.txt")
	if err := os.WriteFile(path, []byte(gearFactory), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "reports")

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"analyze", "--no-cache", "-o", out, path})
	if err := root.Execute(); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	r, err := report.ReadFile(filepath.Join(out, "gears.report.json"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if r.Label != "gears" {
		t.Errorf("label = %q", r.Label)
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "gears.txt")
	if err := os.WriteFile(path, []byte(gearFactory), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"render", "-f", "dot", "--detailed", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gears.dot"))
	if err != nil {
		t.Fatalf("dot not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("unexpected dot output: %q", data)
	}
}

func TestRenderCommandRejectsFormat(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render", "-f", "pdf", "x.txt"})
	if err := root.Execute(); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		c := New(&bytes.Buffer{}, log.InfoLevel)
		root := c.RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"completion", shell})
		if err := root.Execute(); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(out.String(), "factoryflow") {
			t.Errorf("%s script does not mention factoryflow", shell)
		}
	}
}

func TestCompleteBlueprintFiles(t *testing.T) {
	exts, directive := completeBlueprintFiles(nil, nil, "")
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v", directive)
	}
	if len(exts) == 0 || exts[0] != "txt" {
		t.Errorf("extensions = %v", exts)
	}
}
