package motion

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/slidemotion/pkg/errors"
)

func sampleGraph() Graph {
	return Graph{
		ID:        "g1",
		Archetype: ArchetypeProcess,
		Nodes: []Node{
			{ID: "a", Data: NodeData{Label: "Plan", Icon: "clipboard"}},
			{ID: "b", Data: NodeData{Label: "Build", SubLabel: "in sprints", Variant: VariantPrimary}},
			{ID: "c", Data: NodeData{Label: "Ship", Value: "99%"}},
		},
		Edges: []Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "c", Animated: true},
		},
		Metadata: &Metadata{Title: "Delivery"},
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := sampleGraph()
	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"subLabel": "in sprints"`)) {
		t.Errorf("expected camelCase subLabel in output:\n%s", data)
	}
	if bytes.Contains(data, []byte(`"position"`)) {
		t.Errorf("unset position should be omitted:\n%s", data)
	}

	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Title() != "Delivery" {
		t.Errorf("Title() = %q, want Delivery", back.Title())
	}
	if len(back.Nodes) != 3 || len(back.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(back.Nodes), len(back.Edges))
	}
	if !back.Edges[1].Animated {
		t.Error("animated flag lost")
	}
}

func TestUnmarshalNumericValue(t *testing.T) {
	data := []byte(`{"id":"s","archetype":"statistic","nodes":[{"id":"n","data":{"label":"Users","value":42}}],"edges":[]}`)
	g, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if g.Nodes[0].Data.Value != "42" {
		t.Errorf("value = %q, want 42", g.Nodes[0].Data.Value)
	}
	if v, ok := g.Nodes[0].Data.Value.Float(); !ok || v != 42 {
		t.Errorf("Float() = %v, %v", v, ok)
	}
}

func TestUnmarshalYAML(t *testing.T) {
	data := []byte(`
id: tree
archetype: hierarchy
nodes:
  - id: root
    data:
      label: CEO
  - id: cto
    data:
      label: CTO
      variant: accent
edges:
  - id: e1
    source: root
    target: cto
`)
	g, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if g.Archetype != ArchetypeHierarchy {
		t.Errorf("archetype = %q", g.Archetype)
	}
	if g.Nodes[1].Data.Variant != VariantAccent {
		t.Errorf("variant = %q", g.Nodes[1].Data.Variant)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"graph.json", "graph.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(sampleGraph(), path); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if got.ID != "g1" || len(got.Nodes) != 3 {
				t.Errorf("unexpected graph: %+v", got)
			}
		})
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(bad); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestClone(t *testing.T) {
	g := sampleGraph()
	g.Nodes[0].Position = &Point{X: 1, Y: 2}
	c := g.Clone()
	c.Nodes[0].Position.X = 100
	c.Nodes[1].Data.Label = "changed"
	c.Metadata.Title = "other"

	if g.Nodes[0].Position.X != 1 {
		t.Error("clone shares position pointer")
	}
	if g.Nodes[1].Data.Label != "Build" {
		t.Error("clone shares nodes slice")
	}
	if g.Title() != "Delivery" {
		t.Error("clone shares metadata")
	}
}

func TestNodeDataText(t *testing.T) {
	tests := []struct {
		data NodeData
		want string
	}{
		{NodeData{Label: "A"}, "A"},
		{NodeData{Label: "A", SubLabel: "b"}, "A b"},
		{NodeData{Label: "A", Description: "long text"}, "A long text"},
		{NodeData{SubLabel: "only"}, "only"},
		{NodeData{}, ""},
	}
	for _, tt := range tests {
		if got := tt.data.Text(); got != tt.want {
			t.Errorf("Text(%+v) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(g *Graph)
		kinds []IssueKind
	}{
		{"valid", func(g *Graph) {}, nil},
		{"unknown archetype", func(g *Graph) { g.Archetype = "venn" }, []IssueKind{IssueUnknownArchetype}},
		{"duplicate node", func(g *Graph) { g.Nodes[2].ID = "a" }, []IssueKind{IssueDuplicateNode, IssueDanglingEdge}},
		{"dangling edge", func(g *Graph) { g.Edges[0].Target = "zzz" }, []IssueKind{IssueDanglingEdge}},
		{"self loop", func(g *Graph) { g.Edges[0].Target = "a" }, []IssueKind{IssueSelfLoop}},
		{"duplicate edge", func(g *Graph) { g.Edges = append(g.Edges, Edge{ID: "e3", Source: "a", Target: "b"}) }, []IssueKind{IssueDuplicateEdge}},
		{"bad variant", func(g *Graph) { g.Nodes[0].Data.Variant = "rainbow" }, []IssueKind{IssueUnknownVariant}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGraph()
			tt.mod(&g)
			issues := Check(g)
			if len(issues) != len(tt.kinds) {
				t.Fatalf("Check() = %v, want kinds %v", issues, tt.kinds)
			}
			for i, kind := range tt.kinds {
				if issues[i].Kind != kind {
					t.Errorf("issue[%d].Kind = %s, want %s", i, issues[i].Kind, kind)
				}
			}
		})
	}
}

func TestUsableEdges(t *testing.T) {
	g := sampleGraph()
	g.Edges = append(g.Edges,
		Edge{ID: "bad", Source: "a", Target: "ghost"},
		Edge{ID: "dup", Source: "a", Target: "b"},
	)
	kept, dropped := UsableEdges(g)
	if len(kept) != 2 {
		t.Errorf("kept %d edges, want 2", len(kept))
	}
	if len(dropped) != 2 {
		t.Fatalf("dropped %d edges, want 2", len(dropped))
	}
	if dropped[0].ElementID != "bad" || dropped[1].ElementID != "dup" {
		t.Errorf("dropped = %v", dropped)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(sampleGraph()); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}

	g := sampleGraph()
	g.Archetype = "venn"
	if err := Validate(g); !errors.Is(err, errors.ErrCodeInvalidArchetype) {
		t.Errorf("unknown archetype: code = %v", errors.GetCode(err))
	}

	g = sampleGraph()
	g.Edges[0].Source = "nope"
	if err := Validate(g); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("dangling edge: code = %v", errors.GetCode(err))
	}

	g = sampleGraph()
	g.Nodes[0].ID = ""
	if err := Validate(g); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("empty node id: code = %v", errors.GetCode(err))
	}
}

func TestArchetypeValid(t *testing.T) {
	for _, a := range Archetypes {
		if !a.Valid() {
			t.Errorf("%s should be valid", a)
		}
	}
	if Archetype("flowchart").Valid() {
		t.Error("flowchart should not be valid")
	}
	if len(Archetypes) != 18 {
		t.Errorf("len(Archetypes) = %d, want 18", len(Archetypes))
	}
}
