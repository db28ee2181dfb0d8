package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/slidemotion/pkg/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
	iconSep     = " · "
)

// =============================================================================
// Status Output
// =============================================================================

// stdout receives all user-facing command output. Log lines and the spinner
// go to the logger's writer instead.
var stdout io.Writer = os.Stdout

func writeLine(line string) {
	fmt.Fprintln(stdout, line)
}

// successLine formats a success message with its icon.
func successLine(format string, args ...any) string {
	return styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...)
}

func printSuccess(format string, args ...any) {
	writeLine(successLine(format, args...))
}

func printError(format string, args ...any) {
	writeLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	writeLine(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	writeLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	writeLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file or directory.
func printFile(path string) {
	writeLine("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	writeLine(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printLayoutWarnings lists the degradations a layout recorded.
func printLayoutWarnings(ws []layout.Warning) {
	for _, w := range ws {
		printWarning("%s", w.Message)
	}
}

// =============================================================================
// Stats Display
// =============================================================================

// slideStats is the one-line summary printed after a command touches a slide.
type slideStats struct {
	family  layout.Family
	nodes   int
	edges   int
	entries int
	cached  bool
	// computed marks stats of a pipeline run; validation prints no cache state.
	computed bool
}

func (s slideStats) String() string {
	var parts []string
	if s.family != "" {
		parts = append(parts, StyleHighlight.Render(string(s.family)))
	}
	if s.nodes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", s.nodes)))
	}
	if s.edges > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", s.edges)))
	}
	if s.entries > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d entries", s.entries)))
	}
	if s.computed {
		if s.cached {
			parts = append(parts, styleCached.Render(iconCached))
		} else {
			parts = append(parts, styleComputed.Render(iconFresh))
		}
	}
	return "  " + strings.Join(parts, StyleDim.Render(iconSep))
}

func printStats(s slideStats) {
	writeLine(s.String())
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep suggests the command that usually follows.
func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	writeLine("")
}
