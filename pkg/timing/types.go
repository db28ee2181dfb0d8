package timing

import (
	"github.com/matzehuels/slidemotion/pkg/errors"
)

// SourceType is the kind of visual element a link animates.
type SourceType string

// Source types.
const (
	SourceWord      SourceType = "word"
	SourceParagraph SourceType = "paragraph"
	SourceHeading   SourceType = "heading"
	SourceNode      SourceType = "node"
	SourceEdge      SourceType = "edge"
)

// Valid reports whether t is a known source type.
func (t SourceType) Valid() bool {
	switch t {
	case SourceWord, SourceParagraph, SourceHeading, SourceNode, SourceEdge:
		return true
	}
	return false
}

// Origin tells whether a link was authored or inferred.
type Origin string

// Link origins.
const (
	OriginManual Origin = "manual"
	OriginAuto   Origin = "auto"
)

// Animation presets understood by the evaluator.
const (
	PresetFadeUp = "fade-up"
	PresetFade   = "fade"
	PresetPop    = "pop"
	PresetNone   = "none"
)

// DefaultAnimation is applied to inferred links.
var DefaultAnimation = Animation{Preset: PresetFadeUp}

// Source identifies the animated element.
type Source struct {
	Type SourceType `json:"type" bson:"type"`
	ID   string     `json:"id" bson:"id"`
}

// TokenTarget points at a narration word by index.
type TokenTarget struct {
	TokenIndex int `json:"token_index" bson:"token_index"`
}

// Animation is the entrance animation of a linked element.
type Animation struct {
	Preset     string `json:"preset" bson:"preset"`
	DurationMs int    `json:"duration_ms,omitempty" bson:"duration_ms,omitempty"`
}

// Link binds a visual element to the narration word that triggers it.
type Link struct {
	ID        string      `json:"id" bson:"id"`
	Source    Source      `json:"source" bson:"source"`
	Target    TokenTarget `json:"target" bson:"target"`
	Animation Animation   `json:"animation" bson:"animation"`
	Origin    Origin      `json:"origin" bson:"origin"`
}

// Validate checks the fields an author controls.
func (l Link) Validate() error {
	if err := errors.ValidateIdentifier("link source", l.Source.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLink, err, "invalid link")
	}
	if !l.Source.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidLink, "link %q: unknown source type %q", l.ID, l.Source.Type)
	}
	if l.Target.TokenIndex < 0 {
		return errors.New(errors.ErrCodeInvalidLink, "link %q: negative token index %d", l.ID, l.Target.TokenIndex)
	}
	if l.Animation.DurationMs < 0 {
		return errors.New(errors.ErrCodeInvalidLink, "link %q: negative duration", l.ID)
	}
	return nil
}

// Element is an animatable element of a slide, in document order.
type Element struct {
	Type SourceType `json:"type" bson:"type"`
	ID   string     `json:"id" bson:"id"`
	Text string     `json:"text,omitempty" bson:"text,omitempty"`
}

// Entry is one resolved binding of the timeline.
type Entry struct {
	ID         string     `json:"id" bson:"id"`
	Origin     Origin     `json:"origin" bson:"origin"`
	SourceType SourceType `json:"source_type" bson:"source_type"`
	SourceID   string     `json:"source_id" bson:"source_id"`
	SourceText string     `json:"source_text,omitempty" bson:"source_text,omitempty"`
	TokenIndex *int       `json:"token_index,omitempty" bson:"token_index,omitempty"`
	TokenWord  string     `json:"token_word,omitempty" bson:"token_word,omitempty"`
	StartMs    int64      `json:"start_ms" bson:"start_ms"`
	EndMs      *int64     `json:"end_ms,omitempty" bson:"end_ms,omitempty"`
	Animation  Animation  `json:"animation" bson:"animation"`
}

// Status summarizes the health of a timeline.
type Status string

// Timeline statuses, in decreasing priority.
const (
	StatusStale   Status = "stale"
	StatusPartial Status = "partial"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
)

// Meta is the versioning and health record of a timeline.
type Meta struct {
	Version             int      `json:"version" bson:"version"`
	Status              Status   `json:"status" bson:"status"`
	Stale               bool     `json:"stale" bson:"stale"`
	Errors              []string `json:"errors" bson:"errors"`
	NarrationTokenCount int      `json:"narration_token_count" bson:"narration_token_count"`
	LiveTokenCount      int      `json:"live_token_count" bson:"live_token_count"`
	TokenSource         string   `json:"token_source" bson:"token_source"`
	TargetCount         int      `json:"target_count" bson:"target_count"`
	ManualLinkCount     int      `json:"manual_link_count" bson:"manual_link_count"`
	AutoLinkCount       int      `json:"auto_link_count" bson:"auto_link_count"`
	ActiveLinkCount     int      `json:"active_link_count" bson:"active_link_count"`
}

// Timeline is the ordered list of resolved entries plus its meta.
type Timeline struct {
	Entries []Entry `json:"entries" bson:"entries"`
	Meta    Meta    `json:"meta" bson:"meta"`
}

// Entry returns the entry for a source id.
func (t Timeline) Entry(sourceID string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.SourceID == sourceID {
			return e, true
		}
	}
	return Entry{}, false
}

// Delays maps source ids to their start times in milliseconds.
func (t Timeline) Delays() map[string]int64 {
	out := make(map[string]int64, len(t.Entries))
	for _, e := range t.Entries {
		out[e.SourceID] = e.StartMs
	}
	return out
}
