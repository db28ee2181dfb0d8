package timing

import (
	"fmt"
	"testing"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

func nodes(labels ...string) []Element {
	out := make([]Element, len(labels))
	for i, l := range labels {
		out[i] = Element{Type: SourceNode, ID: fmt.Sprintf("n%d", i), Text: l}
	}
	return out
}

func indexes(links []Link) []int {
	out := make([]int, len(links))
	for i, l := range links {
		out[i] = l.Target.TokenIndex
	}
	return out
}

func TestInfer(t *testing.T) {
	tests := []struct {
		name      string
		narration string
		targets   []Element
		want      []int
	}{
		{
			name:      "keywords",
			narration: "First we plan the work. Then we build it. Finally we ship.",
			targets:   nodes("Plan", "Build", "Ship"),
			want:      []int{2, 7, 11},
		},
		{
			name:      "plural keyword",
			narration: "We talk about servers and then clients",
			targets:   nodes("Server", "Client"),
			want:      []int{3, 6},
		},
		{
			name:      "sentence starts",
			narration: "One thing. Another thing. A third.",
			targets:   nodes("x", "y", "z"),
			want:      []int{0, 2, 4},
		},
		{
			name:      "even share",
			narration: "a b c d e f",
			targets:   nodes("", "", ""),
			want:      []int{0, 2, 4},
		},
		{
			name:      "more targets than words",
			narration: "hello world",
			targets:   nodes("", "", ""),
			want:      []int{0, 1, 1},
		},
		{
			name:      "keyword behind cursor is not reused",
			narration: "Deploy then test. Deploy again.",
			targets:   nodes("Test", "Deploy"),
			want:      []int{2, 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := indexes(Infer(alignment.Tokenize(nil, tt.narration), tt.targets))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Infer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInferMonotonic(t *testing.T) {
	narration := "Ship it now. Then plan. Build later, and plan again before we ship."
	links := Infer(alignment.Tokenize(nil, narration), nodes("Plan", "Build", "Ship", "Review", "Plan"))
	for i := 1; i < len(links); i++ {
		if links[i].Target.TokenIndex < links[i-1].Target.TokenIndex {
			t.Errorf("index decreases at %d: %v", i, indexes(links))
		}
	}
}

func TestInferLinkShape(t *testing.T) {
	links := Infer(alignment.Tokenize(nil, "one two"), []Element{{Type: SourceEdge, ID: "e1"}})
	if len(links) != 1 {
		t.Fatalf("got %d links", len(links))
	}
	l := links[0]
	if l.ID != "auto:e1" || l.Origin != OriginAuto || l.Source.Type != SourceEdge || l.Animation != DefaultAnimation {
		t.Errorf("link = %+v", l)
	}
}

func TestInferEmpty(t *testing.T) {
	if got := Infer(alignment.Tokens{}, nodes("a")); got != nil {
		t.Errorf("no tokens: got %v", got)
	}
	if got := Infer(alignment.Tokenize(nil, "hi"), nil); got != nil {
		t.Errorf("no targets: got %v", got)
	}
}

func TestTargetsFromGraph(t *testing.T) {
	g := motion.Graph{
		Nodes: []motion.Node{
			{ID: "a", Data: motion.NodeData{Label: "Alpha"}},
			{ID: "b", Data: motion.NodeData{Label: "Beta"}},
		},
		Edges: []motion.Edge{{ID: "ab", Source: "a", Target: "b", Label: "then"}},
	}
	got := TargetsFromGraph(g)
	want := []Element{
		{Type: SourceNode, ID: "a", Text: "Alpha"},
		{Type: SourceNode, ID: "b", Text: "Beta"},
		{Type: SourceEdge, ID: "ab", Text: "then"},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("TargetsFromGraph() = %v, want %v", got, want)
	}
}

func TestTargetsFromGraphEdgeKeys(t *testing.T) {
	g := motion.Graph{
		Nodes: []motion.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []motion.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
			{Source: "c", Target: "missing"},
		},
	}
	got := TargetsFromGraph(g)
	if len(got) != 5 || got[3].ID != "a->b" || got[4].ID != "b->c" {
		t.Fatalf("TargetsFromGraph() = %v", got)
	}

	tl := Resolve(Input{Tokens: alignment.Tokenize(nil, "a then b then c"), Targets: got})
	for _, id := range []string{"a->b", "b->c"} {
		if _, ok := tl.Entry(id); !ok {
			t.Errorf("no timeline entry for edge %s", id)
		}
	}
}
