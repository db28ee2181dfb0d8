package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

func testPreview(t *testing.T) PreviewModel {
	t.Helper()
	g := motion.Graph{
		ID:        "launch",
		Archetype: motion.ArchetypeProcess,
		Nodes: []motion.Node{
			{ID: "plan", Data: motion.NodeData{Label: "Plan"}},
			{ID: "build", Data: motion.NodeData{Label: "Build"}},
		},
	}
	res, err := pipeline.NewRunner(nil, nil, nil).Layout(context.Background(), g, pipeline.Options{Engine: pipeline.EngineLayered})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	tl := timing.Resolve(timing.Input{
		Tokens:  alignment.Tokenize(nil, "first we plan and then we build"),
		Targets: timing.TargetsFromGraph(res.Graph),
		Version: 1,
	})
	ev, err := animation.New(res, tl, animation.Config{})
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	return NewPreviewModel(res.Graph, ev, tl)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m PreviewModel, msg tea.Msg) (PreviewModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(PreviewModel), cmd
}

func TestPreviewSeek(t *testing.T) {
	m := testPreview(t)
	last := m.lastFrame()
	if last <= 0 {
		t.Fatalf("lastFrame() = %d, want > 0", last)
	}

	m, _ = update(m, key("left"))
	if m.Frame != 0 {
		t.Errorf("left at start: frame = %d, want 0", m.Frame)
	}
	m, _ = update(m, key("right"))
	if m.Frame != 1 {
		t.Errorf("right: frame = %d, want 1", m.Frame)
	}
	m, _ = update(m, key("end"))
	if m.Frame != last {
		t.Errorf("end: frame = %d, want %d", m.Frame, last)
	}
	m, _ = update(m, key("right"))
	if m.Frame != last {
		t.Errorf("right at end: frame = %d, want %d", m.Frame, last)
	}
	m, _ = update(m, key("g"))
	if m.Frame != 0 {
		t.Errorf("g: frame = %d, want 0", m.Frame)
	}
}

func TestPreviewPlayback(t *testing.T) {
	m := testPreview(t)

	m, cmd := update(m, key(" "))
	if !m.Playing || cmd == nil {
		t.Fatal("space should start playback with a tick")
	}
	m, cmd = update(m, tickMsg{})
	if m.Frame != 1 || cmd == nil {
		t.Errorf("tick: frame = %d, cmd nil = %v", m.Frame, cmd == nil)
	}

	m, _ = update(m, key(" "))
	if m.Playing {
		t.Error("space should pause")
	}
	m, cmd = update(m, tickMsg{})
	if m.Frame != 1 || cmd != nil {
		t.Error("paused preview should ignore ticks")
	}

	m.Frame = m.lastFrame() - 1
	m.Playing = true
	m, cmd = update(m, tickMsg{})
	if m.Playing || m.Frame != m.lastFrame() || cmd != nil {
		t.Errorf("playback should stop at the last frame, got frame %d playing %v", m.Frame, m.Playing)
	}
}

func TestPreviewQuit(t *testing.T) {
	m := testPreview(t)
	_, cmd := update(m, key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPreviewView(t *testing.T) {
	m := testPreview(t)
	view := m.View()
	for _, want := range []string{"launch", "plan", "build", "process"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.Frame = m.lastFrame()
	if w := m.Word(); w != "build" {
		t.Errorf("Word() at end = %q, want %q", w, "build")
	}
	m.Frame = 0
	if w := m.Word(); w != "" {
		t.Errorf("Word() at start = %q, want empty", w)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("a-very-long-identifier", 8); got != "a-very-…" {
		t.Errorf("truncate() = %q", got)
	}
}
