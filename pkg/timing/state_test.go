package timing

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

func sampleState() State {
	g := motion.Graph{
		ID:        "g",
		Archetype: motion.ArchetypeProcess,
		Nodes: []motion.Node{
			{ID: "plan", Data: motion.NodeData{Label: "Plan"}},
			{ID: "build", Data: motion.NodeData{Label: "Build"}},
			{ID: "ship", Data: motion.NodeData{Label: "Ship"}},
		},
	}
	return New("First we plan the work. Then we build it. Finally we ship.", nil, TargetsFromGraph(g))
}

func TestNew(t *testing.T) {
	s := sampleState()
	m := s.Timeline.Meta
	if m.Version != 1 || m.Status != StatusReady || m.Stale {
		t.Errorf("meta = %+v", m)
	}
	if m.TargetCount != 3 || m.AutoLinkCount != 3 || m.ActiveLinkCount != 3 || m.ManualLinkCount != 0 {
		t.Errorf("counts = %+v", m)
	}
	if m.TokenSource != string(alignment.SourceEstimate) {
		t.Errorf("token source = %s, want estimate", m.TokenSource)
	}
}

func TestApplyStalenessTrigger(t *testing.T) {
	s := sampleState()
	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "build"}, Target: TokenTarget{TokenIndex: 7}}})
	if s.Timeline.Meta.Stale {
		t.Fatal("fresh link should not be stale")
	}

	for _, edited := range []string{
		"First we plan the work. Then we build it. Finally we ship it.",
		"First we plan the work. Then we build it. Finally ship.",
	} {
		next := Apply(s, SetNarration{Narration: edited})
		if !next.Timeline.Meta.Stale || next.Timeline.Meta.Status != StatusStale {
			t.Errorf("%q: meta = %+v, want stale", edited, next.Timeline.Meta)
		}

		rebound := Apply(next, Rebind{})
		if rebound.Timeline.Meta.Stale {
			t.Errorf("%q: rebind should clear staleness", edited)
		}
		if rebound.Version() != next.Version()+1 {
			t.Errorf("rebind version = %d, want %d", rebound.Version(), next.Version()+1)
		}
	}

	// Same word count, different words: not stale.
	same := Apply(s, SetNarration{Narration: "First we plan the work. Then we build it. Finally we launch."})
	if same.Timeline.Meta.Stale {
		t.Error("equal word count should not be stale")
	}
}

func TestApplyUpsertKeepsOtherLinksStale(t *testing.T) {
	s := sampleState()
	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "build"}, Target: TokenTarget{TokenIndex: 7}}})
	s = Apply(s, SetNarration{Narration: "So first we plan the work. Then we build it. Finally we ship."})
	if !s.Timeline.Meta.Stale {
		t.Fatal("narration change should make the timeline stale")
	}

	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "ship"}, Target: TokenTarget{TokenIndex: 12}}})
	if !s.Timeline.Meta.Stale || s.Timeline.Meta.Status != StatusStale {
		t.Fatalf("meta = %+v: build is still bound to the old narration", s.Timeline.Meta)
	}
	if e, _ := s.Timeline.Entry("build"); e.TokenWord == "build" {
		t.Fatalf("build entry word = %q, want a shifted word", e.TokenWord)
	}

	s = Apply(s, Rebind{})
	if s.Timeline.Meta.Stale {
		t.Error("rebind should clear staleness")
	}
}

func TestApplyUpsertOnlyLinkRebinds(t *testing.T) {
	s := sampleState()
	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "build"}, Target: TokenTarget{TokenIndex: 7}}})
	s = Apply(s, SetNarration{Narration: "So first we plan the work. Then we build it. Finally we ship."})

	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "build"}, Target: TokenTarget{TokenIndex: 8}}})
	if s.Timeline.Meta.Stale {
		t.Errorf("meta = %+v: re-authoring the only link should clear staleness", s.Timeline.Meta)
	}
}

func TestApplyVersioning(t *testing.T) {
	s := sampleState()
	v := s.Version()

	link := Link{ID: "l1", Source: Source{Type: SourceNode, ID: "ship"}, Target: TokenTarget{TokenIndex: 9}}
	s = Apply(s, UpsertLink{Link: link})
	if s.Version() != v+1 {
		t.Fatalf("upsert version = %d, want %d", s.Version(), v+1)
	}

	tests := []struct {
		name string
		edit Edit
	}{
		{"same link again", UpsertLink{Link: link}},
		{"remove unknown", RemoveLink{SourceID: "nope"}},
		{"same narration", SetNarration{Narration: s.Narration}},
		{"same targets", SetTargets{Targets: s.Targets}},
		{"rebind fresh", Rebind{}},
		{"invalid link", UpsertLink{Link: Link{Source: Source{Type: "sound", ID: "x"}}}},
		{"nil edit", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Apply(s, tt.edit)
			if next.Version() != s.Version() {
				t.Errorf("version moved from %d to %d", s.Version(), next.Version())
			}
		})
	}

	s2 := Apply(s, RemoveLink{SourceID: "ship"})
	if s2.Version() != s.Version()+1 || len(s2.Links) != 0 {
		t.Errorf("remove: version %d, links %d", s2.Version(), len(s2.Links))
	}
	e, _ := s2.Timeline.Entry("ship")
	if e.Origin != OriginAuto {
		t.Errorf("removed manual link should fall back to auto, got %s", e.Origin)
	}
}

func TestApplyUpsertReplacesBySource(t *testing.T) {
	s := sampleState()
	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "plan"}, Target: TokenTarget{TokenIndex: 1}}})
	if len(s.Links) != 1 || s.Links[0].ID == "" {
		t.Fatalf("links = %+v", s.Links)
	}
	id := s.Links[0].ID

	s = Apply(s, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "plan"}, Target: TokenTarget{TokenIndex: 3}}})
	if len(s.Links) != 1 {
		t.Fatalf("upsert should replace, links = %+v", s.Links)
	}
	if s.Links[0].ID != id {
		t.Errorf("replacement should keep id %s, got %s", id, s.Links[0].ID)
	}
	if s.Links[0].Origin != OriginManual || s.Links[0].Animation.Preset != PresetFadeUp {
		t.Errorf("link = %+v", s.Links[0])
	}
	e, _ := s.Timeline.Entry("plan")
	if *e.TokenIndex != 3 || e.Origin != OriginManual {
		t.Errorf("entry = %+v", e)
	}
}

func TestApplyDoesNotMutatePrev(t *testing.T) {
	s := Apply(sampleState(), UpsertLink{Link: Link{ID: "a", Source: Source{Type: SourceNode, ID: "plan"}}})
	before, _ := json.Marshal(s)

	Apply(s, UpsertLink{Link: Link{ID: "a", Source: Source{Type: SourceNode, ID: "plan"}, Target: TokenTarget{TokenIndex: 2}}})
	Apply(s, RemoveLink{SourceID: "plan"})
	Apply(s, SetTargets{Targets: nil})
	Apply(s, ClearLinks{})

	after, _ := json.Marshal(s)
	if string(before) != string(after) {
		t.Errorf("prev state mutated:\n%s\n%s", before, after)
	}
}

func TestApplySetTargets(t *testing.T) {
	s := sampleState()
	s = Apply(s, SetTargets{Targets: []Element{{Type: SourceHeading, ID: "h1", Text: "Shipping"}}})
	if s.Timeline.Meta.TargetCount != 1 || s.Timeline.Meta.AutoLinkCount != 1 {
		t.Errorf("meta = %+v", s.Timeline.Meta)
	}
	e, ok := s.Timeline.Entry("h1")
	if !ok || e.SourceType != SourceHeading {
		t.Errorf("entry = %+v", e)
	}
}

func TestApplyAlignmentSwitchesSource(t *testing.T) {
	s := sampleState()
	a := &alignment.Alignment{
		Characters:                 []string{"h", "i"},
		CharacterStartTimesSeconds: []float64{0.2, 0.3},
		CharacterEndTimesSeconds:   []float64{0.3, 0.4},
	}
	s = Apply(s, SetNarration{Narration: "hi", Alignment: a})
	if s.Timeline.Meta.TokenSource != string(alignment.SourceAlignment) {
		t.Errorf("token source = %s", s.Timeline.Meta.TokenSource)
	}
	if s.Timeline.Entries[0].StartMs != 200 {
		t.Errorf("first entry starts at %d, want 200", s.Timeline.Entries[0].StartMs)
	}
}

func TestRefreshKeepsVersion(t *testing.T) {
	s := sampleState()
	s.Timeline.Entries = nil
	r := Refresh(s)
	if r.Version() != s.Version() || len(r.Timeline.Entries) != 3 {
		t.Errorf("refresh = version %d, %d entries", r.Version(), len(r.Timeline.Entries))
	}
}

func TestEditRequest(t *testing.T) {
	narration := "new text"
	tests := []struct {
		name    string
		req     EditRequest
		want    Edit
		wantErr bool
	}{
		{"upsert", EditRequest{Type: EditUpsertLink, Link: &Link{Source: Source{Type: SourceNode, ID: "a"}}}, UpsertLink{Link: Link{Source: Source{Type: SourceNode, ID: "a"}}}, false},
		{"upsert missing link", EditRequest{Type: EditUpsertLink}, nil, true},
		{"upsert invalid", EditRequest{Type: EditUpsertLink, Link: &Link{Source: Source{Type: SourceNode}}}, nil, true},
		{"remove", EditRequest{Type: EditRemoveLink, SourceID: "a"}, RemoveLink{SourceID: "a"}, false},
		{"remove missing id", EditRequest{Type: EditRemoveLink}, nil, true},
		{"clear", EditRequest{Type: EditClearLinks}, ClearLinks{}, false},
		{"narration", EditRequest{Type: EditSetNarration, Narration: &narration}, SetNarration{Narration: narration}, false},
		{"narration missing", EditRequest{Type: EditSetNarration}, nil, true},
		{"rebind", EditRequest{Type: EditRebind}, Rebind{}, false},
		{"unknown", EditRequest{Type: "undo"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Edit()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Edit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				code := errors.GetCode(err)
				if code != errors.ErrCodeInvalidInput && code != errors.ErrCodeInvalidLink {
					t.Errorf("code = %s", code)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Edit() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
