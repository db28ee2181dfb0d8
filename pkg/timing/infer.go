package timing

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/motion"
)

// AutoLinkPrefix prefixes the id of every inferred link.
const AutoLinkPrefix = "auto:"

// minKeywordLen is the shortest target word used for keyword matching.
const minKeywordLen = 3

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "that": true, "this": true, "are": true, "you": true,
	"our": true, "its": true, "was": true, "has": true, "have": true,
}

// TargetsFromGraph lists the animatable elements of a graph: its nodes, then
// its usable edges, in document order. Edges are keyed by motion.Edge.Key.
func TargetsFromGraph(g motion.Graph) []Element {
	edges, _ := motion.UsableEdges(g)
	out := make([]Element, 0, len(g.Nodes)+len(edges))
	for _, n := range g.Nodes {
		out = append(out, Element{Type: SourceNode, ID: n.ID, Text: n.Data.Text()})
	}
	for _, e := range edges {
		out = append(out, Element{Type: SourceEdge, ID: e.Key(), Text: e.Label})
	}
	return out
}

// Infer suggests one auto link per target, advancing through the narration in
// document order. Each target binds to the first word at or after the cursor
// that matches one of its keywords, else to the next sentence start, else to
// its even share of the narration. Token indexes never decrease from one
// target to the next. Without tokens there is nothing to bind and Infer
// returns nil.
func Infer(tokens alignment.Tokens, targets []Element) []Link {
	n := tokens.Len()
	if n == 0 || len(targets) == 0 {
		return nil
	}

	words := make([]string, n)
	for i, w := range tokens.Words {
		words[i] = normalize(w.Word)
	}
	starts := sentenceStarts(tokens.Words)

	links := make([]Link, 0, len(targets))
	cursor := 0
	for k, t := range targets {
		idx := matchKeyword(words, cursor, keywords(t.Text))
		if idx < 0 {
			idx = nextStart(starts, cursor)
		}
		if idx < 0 {
			idx = max(int(math.Round(float64(k)*float64(n)/float64(len(targets)))), cursor)
		}
		idx = min(idx, n-1)
		cursor = idx + 1

		links = append(links, Link{
			ID:        AutoLinkPrefix + t.ID,
			Source:    Source{Type: t.Type, ID: t.ID},
			Target:    TokenTarget{TokenIndex: idx},
			Animation: DefaultAnimation,
			Origin:    OriginAuto,
		})
	}
	return links
}

// normalize lowercases w and strips leading and trailing punctuation.
func normalize(w string) string {
	return strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}

// keywords returns the distinctive words of an element's text.
func keywords(text string) []string {
	var out []string
	for _, f := range strings.Fields(text) {
		w := normalize(f)
		if utf8.RuneCountInString(w) < minKeywordLen || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// matchKeyword returns the first index at or after from whose word equals a
// keyword or extends it (plural, gerund), or -1.
func matchKeyword(words []string, from int, kws []string) int {
	if len(kws) == 0 {
		return -1
	}
	for i := from; i < len(words); i++ {
		for _, kw := range kws {
			if words[i] == kw || (len(kw) > minKeywordLen && strings.HasPrefix(words[i], kw)) {
				return i
			}
		}
	}
	return -1
}

// sentenceStarts returns the index of the first word of every sentence.
func sentenceStarts(words []alignment.Word) []int {
	if len(words) == 0 {
		return nil
	}
	starts := []int{0}
	for i := 0; i < len(words)-1; i++ {
		if strings.ContainsAny(lastRune(words[i].Word), ".!?") {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func nextStart(starts []int, from int) int {
	for _, s := range starts {
		if s >= from {
			return s
		}
	}
	return -1
}

func lastRune(s string) string {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(r)
}
