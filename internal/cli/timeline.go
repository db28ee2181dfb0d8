package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// tokenizeCommand prints the narration words with their timings.
func (c *CLI) tokenizeCommand() *cobra.Command {
	var (
		in     inputFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Split narration into timed words",
		Long: `Split narration into timed words.

With --alignment the words and their times come from the character alignment
of the synthesized speech. Without it every word gets an estimated slot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.narration == "" && in.narrationFile == "" && in.alignmentFile == "" {
				return fmt.Errorf("one of --narration, --narration-file or --alignment is required")
			}
			narration, a, err := in.loadNarration()
			if err != nil {
				return err
			}
			tokens := alignment.Tokenize(a, narration)
			loggerFromContext(cmd.Context()).Debug("tokenized narration",
				"words", tokens.Len(), "source", tokens.Source, "duration", tokens.Duration())
			if output != "" {
				if err := writeJSON(output, tokens); err != nil {
					return fmt.Errorf("write output %s: %w", output, err)
				}
				printSuccess("Tokenized %d words (%s)", tokens.Len(), tokens.Source)
				printFile(output)
				return nil
			}
			writeLine(tokensTable(tokens))
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.narration, "narration", "n", "", "narration text")
	cmd.Flags().StringVar(&in.narrationFile, "narration-file", "", "read the narration text from a file")
	cmd.Flags().StringVarP(&in.alignmentFile, "alignment", "a", "", "character alignment JSON from the speech synthesizer")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the tokens as JSON instead of printing a table")

	return cmd
}

// loadNarration reads the narration inputs without a graph.
func (f inputFlags) loadNarration() (string, *alignment.Alignment, error) {
	narration := f.narration
	if f.narrationFile != "" {
		data, err := os.ReadFile(f.narrationFile)
		if err != nil {
			return "", nil, fmt.Errorf("load narration: %w", err)
		}
		narration = string(data)
	}
	if f.alignmentFile == "" {
		return narration, nil, nil
	}
	a, err := alignment.ReadFile(f.alignmentFile)
	if err != nil {
		return "", nil, fmt.Errorf("load alignment: %w", err)
	}
	if err := a.Validate(); err != nil {
		return "", nil, err
	}
	return narration, &a, nil
}

// timelineCommand resolves the timeline of a slide.
func (c *CLI) timelineCommand() *cobra.Command {
	var (
		in       inputFlags
		output   string
		recorded int
	)

	cmd := &cobra.Command{
		Use:   "timeline [graph.json|graph.yaml]",
		Short: "Resolve when each element of a slide enters",
		Long: `Resolve when each element of a slide enters.

Manual links from --links take precedence; every other element is bound to
the narration word that mentions it, or to the next sentence start.

--recorded-tokens gives the narration word count the manual links were
authored against; a different live count marks the timeline stale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slide, err := in.load(args[0])
			if err != nil {
				return err
			}
			var rec *int
			if cmd.Flags().Changed("recorded-tokens") {
				rec = &recorded
			}
			return c.runTimeline(cmd.Context(), slide, rec, output)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the timeline as JSON instead of printing a table")
	cmd.Flags().IntVar(&recorded, "recorded-tokens", 0, "token count the manual links were authored against")

	return cmd
}

func (c *CLI) runTimeline(ctx context.Context, slide pipeline.Input, recorded *int, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, nil, loggerFromContext(ctx))
	opts := cfg.PipelineOptions()

	tl, err := runner.Timeline(ctx, timing.Input{
		Manual:             slide.Links,
		Tokens:             alignment.Tokenize(slide.Alignment, slide.Narration),
		Targets:            timing.TargetsFromGraph(slide.Graph),
		RecordedTokenCount: recorded,
		Version:            1,
	}, opts)
	if err != nil {
		return fmt.Errorf("resolve timeline: %w", err)
	}

	if output != "" {
		if err := writeJSON(output, tl); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Timeline %s", tl.Meta.Status)
		printFile(output)
		return nil
	}

	writeLine(timelineTable(tl))
	printTimelineMeta(tl.Meta)
	return nil
}

// =============================================================================
// Tables
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func tokensTable(tokens alignment.Tokens) string {
	t := newTable("#", "Word", "Start", "End")
	for _, w := range tokens.Words {
		t.Row(strconv.Itoa(w.Index), w.Word, formatSeconds(w.Start), formatSeconds(w.End))
	}
	return t.Render()
}

func timelineTable(tl timing.Timeline) string {
	t := newTable("Element", "Type", "Start", "Word", "Origin", "Preset")
	for _, e := range tl.Entries {
		word := "-"
		if e.TokenIndex != nil {
			word = fmt.Sprintf("%d %s", *e.TokenIndex, e.TokenWord)
		}
		t.Row(e.SourceID, string(e.SourceType), fmt.Sprintf("%dms", e.StartMs), word, string(e.Origin), e.Animation.Preset)
	}
	return t.Render()
}

func printTimelineMeta(m timing.Meta) {
	switch m.Status {
	case timing.StatusStale:
		printWarning("Timeline is stale: narration has %d words, links were authored against %d", m.LiveTokenCount, m.NarrationTokenCount)
	case timing.StatusPartial:
		printWarning("Timeline is partial")
	case timing.StatusEmpty:
		printInfo("Timeline is empty")
	default:
		printSuccess("Timeline is ready")
	}
	for _, e := range m.Errors {
		printDetail("%s", e)
	}
	printKeyValue("Targets", strconv.Itoa(m.TargetCount))
	printKeyValue("Manual", strconv.Itoa(m.ManualLinkCount))
	printKeyValue("Auto", strconv.Itoa(m.AutoLinkCount))
	printKeyValue("Tokens", fmt.Sprintf("%d (%s)", m.LiveTokenCount, m.TokenSource))
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 2, 64) + "s"
}

// graphSummary is a one-line description of a graph for status output.
func graphSummary(g motion.Graph) string {
	return fmt.Sprintf("%s · %d nodes · %d edges", g.Archetype, len(g.Nodes), len(g.Edges))
}
