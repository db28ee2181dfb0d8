package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// Preview styles
var (
	previewHiddenStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewEnterStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	previewSettledStyle = lipgloss.NewStyle().Foreground(colorGreen)
	previewWordStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

const previewBarWidth = 20

// previewCommand opens an interactive frame scrubber for a slide.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		in    inputFlags
		flags pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "preview [graph.json|graph.yaml]",
		Short: "Scrub through the animation of a slide in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slide, err := in.load(args[0])
			if err != nil {
				return err
			}
			m, err := c.newPreview(cmd.Context(), slide, flags)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	in.register(cmd)
	addLayoutFlags(cmd, &flags)
	addAnimationFlags(cmd, &flags)

	return cmd
}

func (c *CLI) newPreview(ctx context.Context, slide pipeline.Input, flags pipeline.Options) (PreviewModel, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return PreviewModel{}, err
	}
	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return PreviewModel{}, err
	}
	defer runner.Close()

	opts := mergeOptions(cfg.PipelineOptions(), flags)
	res, err := runner.Layout(ctx, slide.Graph, opts)
	if err != nil {
		return PreviewModel{}, fmt.Errorf("compute layout: %w", err)
	}
	tl, err := runner.Timeline(ctx, timing.Input{
		Manual:  slide.Links,
		Tokens:  slide.Tokens(),
		Targets: timing.TargetsFromGraph(res.Graph),
		Version: 1,
	}, opts)
	if err != nil {
		return PreviewModel{}, fmt.Errorf("resolve timeline: %w", err)
	}
	ev, err := animation.New(res, tl, opts.AnimationConfig())
	if err != nil {
		return PreviewModel{}, err
	}
	return NewPreviewModel(res.Graph, ev, tl), nil
}

// =============================================================================
// PreviewModel - Interactive frame scrubber
// =============================================================================

// PreviewModel is the bubbletea model for scrubbing through an animation.
type PreviewModel struct {
	Graph    motion.Graph
	Eval     *animation.Evaluator
	Timeline timing.Timeline
	Frame    int
	Playing  bool
}

// NewPreviewModel creates a preview positioned at frame 0.
func NewPreviewModel(g motion.Graph, ev *animation.Evaluator, tl timing.Timeline) PreviewModel {
	return PreviewModel{Graph: g, Eval: ev, Timeline: tl}
}

type tickMsg time.Time

func (m PreviewModel) lastFrame() int { return m.Eval.DurationFrames() }

func (m PreviewModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.Eval.Config().FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	fps := m.Eval.Config().FPS
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.seek(m.Frame + 1)
		case "left", "h":
			m.seek(m.Frame - 1)
		case "shift+right", "L":
			m.seek(m.Frame + fps)
		case "shift+left", "H":
			m.seek(m.Frame - fps)
		case "home", "g":
			m.seek(0)
		case "end", "G":
			m.seek(m.lastFrame())
		case " ":
			m.Playing = !m.Playing
			if m.Playing {
				if m.Frame >= m.lastFrame() {
					m.Frame = 0
				}
				return m, m.tick()
			}
		}
	case tickMsg:
		if !m.Playing {
			return m, nil
		}
		m.Frame++
		if m.Frame >= m.lastFrame() {
			m.Frame = m.lastFrame()
			m.Playing = false
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *PreviewModel) seek(frame int) {
	m.Frame = max(0, min(frame, m.lastFrame()))
	m.Playing = false
}

// Word returns the narration word spoken at the current frame, if any
// timeline entry has started by then.
func (m PreviewModel) Word() string {
	ms := m.Eval.Config().FrameMs(m.Frame)
	word := ""
	for _, e := range m.Timeline.Entries {
		if e.StartMs > ms {
			break
		}
		if e.TokenWord != "" {
			word = e.TokenWord
		}
	}
	return word
}

func (m PreviewModel) View() string {
	var b strings.Builder
	f := m.Eval.Frame(m.Frame)

	title := m.Graph.Title()
	if title == "" {
		title = m.Graph.ID
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(graphSummary(m.Graph)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ frame  shift ±1s  space play  g/G start/end  q quit"))
	b.WriteString("\n\n")

	last := m.lastFrame()
	b.WriteString(fmt.Sprintf("%s %s / %s  %s  %s\n\n",
		progressBar(float64(m.Frame)/float64(max(last, 1)), 40),
		StyleNumber.Render(fmt.Sprintf("%d", m.Frame)),
		StyleDim.Render(fmt.Sprintf("%d", last)),
		StyleValue.Render(fmt.Sprintf("%dms", f.TimeMs)),
		previewWordStyle.Render(m.Word())))

	for _, s := range f.Nodes {
		b.WriteString(elementLine(s))
	}
	for _, s := range f.Edges {
		b.WriteString(elementLine(s))
	}
	for _, s := range f.Connectors {
		b.WriteString(elementLine(s))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  timeline %s · %d entries", m.Timeline.Meta.Status, len(m.Timeline.Entries))))
	return b.String()
}

func elementLine(s animation.ElementState) string {
	style := previewHiddenStyle
	switch {
	case s.Style.Progress >= 1 || math.Abs(s.Style.Progress-1) < 0.01:
		style = previewSettledStyle
	case s.Style.Visible():
		style = previewEnterStyle
	}
	return fmt.Sprintf("  %-4s %s %s %s\n",
		StyleDim.Render(string(s.Type)),
		style.Render(fmt.Sprintf("%-24s", truncate(s.ID, 24))),
		progressBar(s.Style.Opacity, previewBarWidth),
		StyleDim.Render(fmt.Sprintf("delay %5dms  scale %.2f  dy %+.1f", s.DelayMs, s.Style.Scale, s.Style.TranslateY)))
}

// =============================================================================
// Helpers
// =============================================================================

func progressBar(fraction float64, width int) string {
	fraction = max(0, min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return StyleHighlight.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
