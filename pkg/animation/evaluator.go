package animation

import (
	"math"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	DefaultFPS       = 30
	DefaultStaggerMs = 500
	DefaultRise      = 20.0

	// PopFrom is the scale a popping element starts at.
	PopFrom = 0.8

	MaxFPS = 240
)

// Config controls how a timeline plays back.
type Config struct {
	FPS       int     `json:"fps" toml:"fps"`
	StaggerMs int64   `json:"stagger_ms" toml:"stagger_ms"`
	Rise      float64 `json:"rise" toml:"rise"`
	Spring    Spring  `json:"spring" toml:"spring"`
}

// SetDefaults fills zero fields with defaults.
func (c *Config) SetDefaults() {
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.StaggerMs == 0 {
		c.StaggerMs = DefaultStaggerMs
	}
	if c.Rise == 0 {
		c.Rise = DefaultRise
	}
	c.Spring.SetDefaults()
}

// Validate checks the playback settings.
func (c Config) Validate() error {
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return errors.New(errors.ErrCodeInvalidConfig, "fps must be in 1..%d, got %d", MaxFPS, c.FPS)
	}
	if c.StaggerMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stagger_ms must not be negative")
	}
	return c.Spring.Validate()
}

// FrameMs returns the time of a frame in milliseconds.
func (c Config) FrameMs(frame int) int64 {
	return int64(math.Round(float64(frame) * 1000 / float64(c.FPS)))
}

// MsFrame returns the first frame at or after ms.
func (c Config) MsFrame(ms int64) int {
	return int(math.Ceil(float64(ms) * float64(c.FPS) / 1000))
}

// =============================================================================
// Styles
// =============================================================================

// Style is the visual state of one element at one instant.
type Style struct {
	Progress   float64 `json:"progress"`
	Opacity    float64 `json:"opacity"`
	Scale      float64 `json:"scale"`
	TranslateY float64 `json:"translate_y"`
}

// Visible reports whether the element draws at all.
func (s Style) Visible() bool { return s.Opacity > 0 }

// Hidden is the style of an element before its delay.
var Hidden = Style{Scale: 1}

// Settled is the resting style.
var Settled = Style{Progress: 1, Opacity: 1, Scale: 1}

// StyleFor maps spring progress to a style for the given preset. Opacity is
// clamped to [0, 1]; scale and translation follow the raw progress so the
// spring's overshoot shows. Unknown presets animate like fade-up.
func StyleFor(preset string, progress, rise float64) Style {
	op := math.Max(0, math.Min(1, progress))
	switch preset {
	case timing.PresetNone:
		if progress > 0 {
			return Settled
		}
		return Hidden
	case timing.PresetFade:
		return Style{Progress: progress, Opacity: op, Scale: 1}
	case timing.PresetPop:
		return Style{Progress: progress, Opacity: op, Scale: PopFrom + (1-PopFrom)*progress}
	default:
		return Style{Progress: progress, Opacity: op, Scale: 1, TranslateY: (1 - progress) * rise}
	}
}

// Delay returns when element index of a slide starts animating: the start of
// its timeline entry when it has one, else its place in the stagger.
func Delay(entry timing.Entry, ok bool, index int, stepMs int64) int64 {
	if ok {
		return entry.StartMs
	}
	return int64(index) * stepMs
}

// =============================================================================
// Evaluator
// =============================================================================

// ElementState is the evaluated state of one element.
type ElementState struct {
	ID      string            `json:"id"`
	Type    timing.SourceType `json:"type"`
	DelayMs int64             `json:"delay_ms"`
	Style   Style             `json:"style"`
}

// Frame is the evaluated state of every element at one frame.
type Frame struct {
	Frame      int            `json:"frame"`
	TimeMs     int64          `json:"time_ms"`
	Nodes      []ElementState `json:"nodes"`
	Edges      []ElementState `json:"edges"`
	Connectors []ElementState `json:"connectors,omitempty"`
}

// Node returns the state of a node.
func (f Frame) Node(id string) (ElementState, bool) {
	for _, s := range f.Nodes {
		if s.ID == id {
			return s, true
		}
	}
	return ElementState{}, false
}

type track struct {
	id      string
	typ     timing.SourceType
	delayMs int64
	preset  string

	// durationMs, when positive, is how long the spring takes to settle.
	durationMs int64
}

// Evaluator plays a timeline over a positioned graph. It holds no mutable
// state after construction, so one Evaluator may serve parallel frame
// workers and frames may be evaluated in any order.
type Evaluator struct {
	cfg        Config
	settleMs   float64
	nodes      []track
	edges      []track
	connectors []track
	endMs      int64
}

// New builds an evaluator. Elements with a timeline entry start at the
// entry's start_ms with its preset, and an entry's duration_ms stretches or
// compresses the spring so it settles in that time. The rest follow the index
// stagger in document order (nodes, then edges) on the configured spring.
// Connectors appear with the node they lead into, or with the last node for
// the return arrow.
func New(res layout.Result, tl timing.Timeline, cfg Config) (*Evaluator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Evaluator{cfg: cfg}
	if settle := cfg.Spring.SettleSeconds(); !math.IsInf(settle, 0) {
		e.settleMs = math.Ceil(settle * 1000)
	}
	index := 0
	add := func(id string, typ timing.SourceType) track {
		entry, ok := tl.Entry(id)
		t := track{id: id, typ: typ, delayMs: Delay(entry, ok, index, cfg.StaggerMs), preset: timing.PresetFadeUp}
		if ok {
			if entry.Animation.Preset != "" {
				t.preset = entry.Animation.Preset
			}
			t.durationMs = int64(entry.Animation.DurationMs)
		}
		index++
		e.endMs = max(e.endMs, t.delayMs+e.span(t))
		return t
	}

	delays := make(map[string]int64, len(res.Graph.Nodes))
	for _, n := range res.Graph.Nodes {
		t := add(n.ID, timing.SourceNode)
		delays[n.ID] = t.delayMs
		e.nodes = append(e.nodes, t)
	}
	for _, ep := range res.Edges {
		e.edges = append(e.edges, add(ep.ID, timing.SourceEdge))
	}
	for _, c := range res.Connectors {
		lead := c.After
		if c.Return || lead == "" {
			lead = c.Before
		}
		e.connectors = append(e.connectors, track{
			typ:     timing.SourceEdge,
			id:      connectorID(c),
			delayMs: delays[lead],
			preset:  timing.PresetFade,
		})
	}
	return e, nil
}

// span is how long a track animates after its delay.
func (e *Evaluator) span(t track) int64 {
	if t.durationMs > 0 {
		return t.durationMs
	}
	return int64(e.settleMs)
}

func connectorID(c layout.Connector) string {
	if c.Return {
		return c.Before + "->" + c.After + ":return"
	}
	return c.Before + "->" + c.After
}

// Config returns the evaluator's playback settings.
func (e *Evaluator) Config() Config { return e.cfg }

// DurationMs is the time by which every element has started and settled.
func (e *Evaluator) DurationMs() int64 { return e.endMs }

// DurationFrames is DurationMs in frames.
func (e *Evaluator) DurationFrames() int { return e.cfg.MsFrame(e.endMs) }

// Style evaluates a single element at time ms on the configured spring.
func (e *Evaluator) Style(preset string, delayMs, ms int64) Style {
	return e.style(track{preset: preset, delayMs: delayMs}, ms)
}

func (e *Evaluator) style(t track, ms int64) Style {
	if ms < t.delayMs {
		return Hidden
	}
	elapsed := float64(ms - t.delayMs)
	if t.durationMs > 0 && e.settleMs > 0 {
		elapsed *= e.settleMs / float64(t.durationMs)
	}
	p := e.cfg.Spring.Progress(elapsed / 1000)
	if ms == t.delayMs && t.preset == timing.PresetNone {
		p = 1
	}
	return StyleFor(t.preset, p, e.cfg.Rise)
}

// Frame evaluates every element at a frame number.
func (e *Evaluator) Frame(frame int) Frame {
	f := e.At(e.cfg.FrameMs(frame))
	f.Frame = frame
	return f
}

// At evaluates every element at time ms.
func (e *Evaluator) At(ms int64) Frame {
	return Frame{
		Frame:      e.cfg.MsFrame(ms),
		TimeMs:     ms,
		Nodes:      e.states(e.nodes, ms),
		Edges:      e.states(e.edges, ms),
		Connectors: e.states(e.connectors, ms),
	}
}

func (e *Evaluator) states(tracks []track, ms int64) []ElementState {
	out := make([]ElementState, len(tracks))
	for i, t := range tracks {
		out[i] = ElementState{ID: t.id, Type: t.typ, DelayMs: t.delayMs, Style: e.style(t, ms)}
	}
	return out
}
