package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Text metrics relative to font size.
const (
	charWidthRatio  = 0.55
	lineHeightRatio = 1.25
	ellipsis        = "…"
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Wrap breaks s into lines of at most width units at the given font size,
// keeping at most maxLines lines. The last kept line gets an ellipsis when
// text was cut.
func Wrap(s string, width, fontSize float64, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}
	perLine := max(int(width/(fontSize*charWidthRatio)), 1)

	var lines []string
	cur := ""
	for _, w := range words {
		for utf8.RuneCountInString(w) > perLine {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:perLine]))
			w = string(r[perLine:])
		}
		switch {
		case cur == "":
			cur = w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= perLine:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) >= perLine {
			last = last[:max(perLine-1, 0)]
		}
		lines[maxLines-1] = string(last) + ellipsis
	}
	return lines
}

type textStyle struct {
	size   float64
	weight int
	color  string
	anchor string
	family string
}

// writeText writes lines as one <text> element with a <tspan> per line,
// starting with the first baseline at y.
func writeText(buf *bytes.Buffer, x, y float64, lines []string, st textStyle) float64 {
	if len(lines) == 0 {
		return y
	}
	anchor := st.anchor
	if anchor == "" {
		anchor = "start"
	}
	family := st.family
	if family == "" {
		family = "Inter, Helvetica, Arial, sans-serif"
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="%s" font-size="%.1f" font-weight="%d" fill="%s" text-anchor="%s">`,
		x, y, family, st.size, st.weight, st.color, anchor)
	lh := st.size * lineHeightRatio
	for i, l := range lines {
		dy := 0.0
		if i > 0 {
			dy = lh
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, x, dy, EscapeXML(l))
	}
	buf.WriteString("</text>\n")
	return y + float64(len(lines)-1)*lh + lh
}
