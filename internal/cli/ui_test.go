package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/slidemotion/pkg/layout"
)

// captureOutput redirects command output into a buffer for the rest of the
// test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestSlideStatsString(t *testing.T) {
	tests := []struct {
		name    string
		stats   slideStats
		want    []string
		notWant []string
	}{
		{
			name:  "fresh layout",
			stats: slideStats{family: layout.FamilyFlow, nodes: 3, computed: true},
			want:  []string{"flow", "3 nodes", iconFresh},
		},
		{
			name:  "cached render",
			stats: slideStats{nodes: 4, edges: 2, entries: 6, cached: true, computed: true},
			want:  []string{"4 nodes", "2 edges", "6 entries", iconCached},
		},
		{
			name:    "validation",
			stats:   slideStats{nodes: 2},
			want:    []string{"2 nodes"},
			notWant: []string{iconCached, iconFresh, "edges"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.stats.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("%q lacks %q", got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("%q should not contain %q", got, w)
				}
			}
		})
	}
}

func TestPrintLayoutWarnings(t *testing.T) {
	out := captureOutput(t)
	printLayoutWarnings([]layout.Warning{
		{Kind: layout.WarnDroppedEdge, ElementID: "e1", Message: `edge "e1": unknown target "ghost"`},
		{Kind: layout.WarnDroppedEdge, Message: "second"},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `unknown target "ghost"`) || !strings.Contains(lines[1], "second") {
		t.Errorf("warnings = %q", out.String())
	}
}
