package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// inputFlags locate the narration side of a slide. The graph itself is always
// the positional argument.
type inputFlags struct {
	narration     string
	narrationFile string
	alignmentFile string
	linksFile     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.narration, "narration", "n", "", "narration text")
	cmd.Flags().StringVar(&f.narrationFile, "narration-file", "", "read the narration text from a file")
	cmd.Flags().StringVarP(&f.alignmentFile, "alignment", "a", "", "character alignment JSON from the speech synthesizer")
	cmd.Flags().StringVarP(&f.linksFile, "links", "l", "", "manual timing links JSON")
	cmd.MarkFlagsMutuallyExclusive("narration", "narration-file")
}

// load reads the graph at graphPath together with the narration inputs.
func (f inputFlags) load(graphPath string) (pipeline.Input, error) {
	g, err := motion.ReadFile(graphPath)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("load graph %s: %w", graphPath, err)
	}
	in := pipeline.Input{Graph: g, Narration: f.narration}

	if f.narrationFile != "" {
		data, err := os.ReadFile(f.narrationFile)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("load narration: %w", err)
		}
		in.Narration = strings.TrimSpace(string(data))
	}
	if f.alignmentFile != "" {
		a, err := alignment.ReadFile(f.alignmentFile)
		if err != nil {
			return pipeline.Input{}, fmt.Errorf("load alignment: %w", err)
		}
		if err := a.Validate(); err != nil {
			return pipeline.Input{}, fmt.Errorf("load alignment %s: %w", f.alignmentFile, err)
		}
		in.Alignment = &a
	}
	if f.linksFile != "" {
		links, err := readLinks(f.linksFile)
		if err != nil {
			return pipeline.Input{}, err
		}
		in.Links = links
	}
	return in, nil
}

// readLinks reads a JSON array of manual links.
func readLinks(path string) ([]timing.Link, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}
	var links []timing.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("decode links %s: %w", path, err)
	}
	for i := range links {
		links[i].Origin = timing.OriginManual
	}
	return links, nil
}

// outputPath derives an output file next to the input when none is given.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeJSON writes v as indented JSON to path.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
