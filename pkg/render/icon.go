package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// DefaultIcon is drawn for unknown icon names.
const DefaultIcon = "box"

// IconFunc draws an icon into the square at (x, y) with side s.
type IconFunc func(buf *bytes.Buffer, x, y, s float64, color string)

// icons is the closed set of drawable icons. Paths are authored on a 24×24
// grid and scaled into place.
var icons = map[string]IconFunc{
	"box":       pathIcon("M4 4h16v16H4z"),
	"circle":    circleIcon,
	"check":     pathIcon("M4 12l5 5L20 6"),
	"cross":     pathIcon("M5 5l14 14M19 5L5 19"),
	"arrow":     pathIcon("M4 12h14M13 6l6 6-6 6"),
	"star":      pathIcon("M12 3l2.7 5.6 6.1.9-4.4 4.3 1 6.1L12 17l-5.4 2.9 1-6.1-4.4-4.3 6.1-.9z"),
	"user":      pathIcon("M12 12a4 4 0 1 0 0-8 4 4 0 0 0 0 8zM4 21c0-4 4-6 8-6s8 2 8 6"),
	"gear":      pathIcon("M12 8a4 4 0 1 0 0 8 4 4 0 0 0 0-8zM12 2v3M12 19v3M2 12h3M19 12h3M4.9 4.9l2.1 2.1M17 17l2.1 2.1M4.9 19.1L7 17M17 7l2.1-2.1"),
	"database":  pathIcon("M4 6c0-1.7 3.6-3 8-3s8 1.3 8 3-3.6 3-8 3-8-1.3-8-3zM4 6v12c0 1.7 3.6 3 8 3s8-1.3 8-3V6M4 12c0 1.7 3.6 3 8 3s8-1.3 8-3"),
	"cloud":     pathIcon("M7 18h10a4 4 0 0 0 .5-8A6 6 0 0 0 6 9a4.5 4.5 0 0 0 1 9z"),
	"chart":     pathIcon("M4 20V4M4 20h16M8 16v-5M12 16V8M16 16v-8"),
	"lightbulb": pathIcon("M9 18h6M10 21h4M12 3a6 6 0 0 0-3.5 10.9V16h7v-2.1A6 6 0 0 0 12 3z"),
	"code":      pathIcon("M8 7l-5 5 5 5M16 7l5 5-5 5"),
	"clock":     pathIcon("M12 3a9 9 0 1 0 0 18 9 9 0 0 0 0-18zM12 7v5l3 3"),
	"flag":      pathIcon("M5 21V4h11l-2 4 2 4H5"),
}

// Icon returns the draw function for name and whether name is known.
// Unknown names get the default icon.
func Icon(name string) (IconFunc, bool) {
	if f, ok := icons[strings.ToLower(name)]; ok {
		return f, true
	}
	return icons[DefaultIcon], false
}

// Icons lists the known icon names in sorted order.
func Icons() []string {
	names := make([]string, 0, len(icons))
	for n := range icons {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func pathIcon(d string) IconFunc {
	return func(buf *bytes.Buffer, x, y, s float64, color string) {
		fmt.Fprintf(buf, `    <path d="%s" transform="translate(%.1f %.1f) scale(%.3f)" fill="none" stroke="%s" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"/>`+"\n",
			d, x, y, s/24, color)
	}
}

func circleIcon(buf *bytes.Buffer, x, y, s float64, color string) {
	fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
		x+s/2, y+s/2, s*0.4, color)
}
