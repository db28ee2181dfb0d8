package timing

import (
	"fmt"
	"math"
	"sort"

	"github.com/matzehuels/slidemotion/pkg/alignment"
)

// Input is everything one resolution depends on.
type Input struct {
	// Manual links, at most one per source id. When several share a source
	// id the last one wins.
	Manual []Link `json:"manual"`

	// Auto links. Nil means infer them from Tokens and Targets.
	Auto []Link `json:"auto,omitempty"`

	// Tokens are the live narration words.
	Tokens alignment.Tokens `json:"tokens"`

	// Targets are the slide's animatable elements. When empty, links are not
	// checked against them.
	Targets []Element `json:"targets,omitempty"`

	// RecordedTokenCount is the token count the manual links, or the
	// supplied auto links, were authored against. Nil means the live count.
	RecordedTokenCount *int `json:"recorded_token_count,omitempty"`

	// Version is copied into the meta.
	Version int `json:"version"`
}

// Resolve merges manual and auto links into one ordered timeline. It never
// fails: unusable links are dropped and reported in Meta.Errors.
func Resolve(in Input) Timeline {
	auto := in.Auto
	if auto == nil {
		auto = Infer(in.Tokens, in.Targets)
	}
	manual := dedupeManual(in.Manual)

	texts := make(map[string]string, len(in.Targets))
	for _, t := range in.Targets {
		texts[t.ID] = t.Text
	}
	checkTargets := len(in.Targets) > 0

	overridden := make(map[string]bool, len(manual))
	for _, l := range manual {
		overridden[l.Source.ID] = true
	}

	entries := make([]Entry, 0, len(manual)+len(auto))
	errs := make([]string, 0)
	used := make(map[string]bool, len(manual)+len(auto))

	add := func(l Link, origin Origin) {
		if used[l.Source.ID] {
			return
		}
		if checkTargets {
			if _, ok := texts[l.Source.ID]; !ok {
				errs = append(errs, fmt.Sprintf("link %s: unknown source %s %q", l.ID, l.Source.Type, l.Source.ID))
				return
			}
		}
		idx := l.Target.TokenIndex
		if idx < 0 || idx >= in.Tokens.Len() {
			errs = append(errs, fmt.Sprintf("link %s: token index %d out of range (narration has %d words)",
				l.ID, idx, in.Tokens.Len()))
			return
		}
		used[l.Source.ID] = true
		entries = append(entries, newEntry(l, origin, in.Tokens.Words[idx], texts[l.Source.ID]))
	}

	for _, l := range manual {
		add(l, OriginManual)
	}
	for _, l := range auto {
		if overridden[l.Source.ID] {
			continue
		}
		add(l, OriginAuto)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartMs < entries[j].StartMs
	})

	live := in.Tokens.Len()
	recorded := live
	if in.RecordedTokenCount != nil {
		recorded = *in.RecordedTokenCount
	}
	// Freshly inferred auto links always match the live narration.
	stale := recorded != live && (len(manual) > 0 || in.Auto != nil)

	meta := Meta{
		Version:             in.Version,
		Stale:               stale,
		Errors:              errs,
		NarrationTokenCount: recorded,
		LiveTokenCount:      live,
		TokenSource:         string(in.Tokens.Source),
		TargetCount:         len(in.Targets),
		ManualLinkCount:     len(manual),
		AutoLinkCount:       len(auto),
		ActiveLinkCount:     len(entries),
	}
	meta.Status = statusOf(meta)
	return Timeline{Entries: entries, Meta: meta}
}

// dedupeManual keeps the last manual link per source id, in the position of
// the first occurrence.
func dedupeManual(links []Link) []Link {
	pos := make(map[string]int, len(links))
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if i, ok := pos[l.Source.ID]; ok {
			out[i] = l
			continue
		}
		pos[l.Source.ID] = len(out)
		out = append(out, l)
	}
	return out
}

func newEntry(l Link, origin Origin, w alignment.Word, text string) Entry {
	idx := l.Target.TokenIndex
	start := toMs(w.Start)
	end := toMs(w.End)
	if l.Animation.DurationMs > 0 {
		end = start + int64(l.Animation.DurationMs)
	}
	return Entry{
		ID:         l.ID,
		Origin:     origin,
		SourceType: l.Source.Type,
		SourceID:   l.Source.ID,
		SourceText: text,
		TokenIndex: &idx,
		TokenWord:  w.Word,
		StartMs:    start,
		EndMs:      &end,
		Animation:  l.Animation,
	}
}

func toMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}

func statusOf(m Meta) Status {
	switch {
	case m.Stale:
		return StatusStale
	case len(m.Errors) > 0:
		return StatusPartial
	case m.ActiveLinkCount == 0:
		return StatusEmpty
	}
	return StatusReady
}
