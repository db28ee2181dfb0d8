package timing

import (
	"slices"

	"github.com/google/uuid"

	"github.com/matzehuels/slidemotion/pkg/alignment"
)

// State is the persisted timing record of one slide: the inputs that drive
// resolution plus the last resolved timeline.
type State struct {
	Narration string               `json:"narration" bson:"narration"`
	Alignment *alignment.Alignment `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Targets   []Element            `json:"targets" bson:"targets"`
	Links     []Link               `json:"links" bson:"links"`

	// LinkedTokenCount is the narration token count the manual links were
	// last authored or rebound against.
	LinkedTokenCount int `json:"linked_token_count" bson:"linked_token_count"`

	Timeline Timeline `json:"timeline" bson:"timeline"`
}

// New creates a resolved state at version 1.
func New(narration string, a *alignment.Alignment, targets []Element) State {
	s := State{
		Narration: narration,
		Alignment: a,
		Targets:   slices.Clone(targets),
		Links:     []Link{},
	}
	s.LinkedTokenCount = s.Tokens().Len()
	s.Timeline = s.resolve(1)
	return s
}

// Tokens returns the live narration tokens of the state.
func (s State) Tokens() alignment.Tokens {
	return alignment.Tokenize(s.Alignment, s.Narration)
}

// Version returns the timeline version.
func (s State) Version() int { return s.Timeline.Meta.Version }

func (s State) resolve(version int) Timeline {
	recorded := s.LinkedTokenCount
	return Resolve(Input{
		Manual:             s.Links,
		Tokens:             s.Tokens(),
		Targets:            s.Targets,
		RecordedTokenCount: &recorded,
		Version:            version,
	})
}

func (s State) clone() State {
	out := s
	out.Targets = slices.Clone(s.Targets)
	out.Links = slices.Clone(s.Links)
	return out
}

// Edit is a change to a State. The set of edits is closed.
type Edit interface {
	// Validate reports whether the edit is well-formed.
	Validate() error
	// apply mutates s and reports whether anything changed.
	apply(s *State) bool
}

// Apply returns the state that results from applying edit to prev and
// re-resolving. prev is not modified. Invalid edits and edits that change
// nothing return prev unchanged, so the version only moves on real changes.
func Apply(prev State, edit Edit) State {
	if edit == nil || edit.Validate() != nil {
		return prev
	}
	next := prev.clone()
	if !edit.apply(&next) {
		return prev
	}
	next.Timeline = next.resolve(prev.Version() + 1)
	return next
}

// Refresh re-resolves s without bumping the version. Use it after loading a
// state whose timeline was produced by an older resolver.
func Refresh(s State) State {
	out := s.clone()
	out.Timeline = out.resolve(s.Version())
	return out
}

// =============================================================================
// Edits
// =============================================================================

// UpsertLink adds a manual link or replaces the manual link with the same
// source id. A missing id is generated, or taken from the replaced link.
// Upserting never clears staleness left by other manual links.
type UpsertLink struct {
	Link Link `json:"link"`
}

func (e UpsertLink) Validate() error { return e.Link.Validate() }

func (e UpsertLink) apply(s *State) bool {
	l := e.Link
	l.Origin = OriginManual
	if l.Animation.Preset == "" {
		l.Animation.Preset = DefaultAnimation.Preset
	}
	others := slices.ContainsFunc(s.Links, func(o Link) bool { return o.Source.ID != l.Source.ID })
	linked := s.linkedCount(others)

	for i, old := range s.Links {
		if old.Source.ID != l.Source.ID {
			continue
		}
		if l.ID == "" {
			l.ID = old.ID
		}
		if old == l && s.LinkedTokenCount == linked {
			return false
		}
		s.Links[i] = l
		s.LinkedTokenCount = linked
		return true
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.Links = append(s.Links, l)
	s.LinkedTokenCount = linked
	return true
}

// linkedCount is the token count to record after authoring a link. Other
// manual links keep the count they were authored against, so a stale
// timeline stays stale until Rebind.
func (s State) linkedCount(others bool) int {
	if others {
		return s.LinkedTokenCount
	}
	return s.Tokens().Len()
}

// RemoveLink deletes the manual link for a source id. The element falls back
// to its auto link.
type RemoveLink struct {
	SourceID string `json:"source_id"`
}

func (e RemoveLink) Validate() error { return nil }

func (e RemoveLink) apply(s *State) bool {
	i := slices.IndexFunc(s.Links, func(l Link) bool { return l.Source.ID == e.SourceID })
	if i < 0 {
		return false
	}
	s.Links = slices.Delete(s.Links, i, i+1)
	if len(s.Links) == 0 {
		s.LinkedTokenCount = s.Tokens().Len()
	}
	return true
}

// ClearLinks deletes every manual link.
type ClearLinks struct{}

func (ClearLinks) Validate() error { return nil }

func (ClearLinks) apply(s *State) bool {
	if len(s.Links) == 0 {
		return false
	}
	s.Links = []Link{}
	s.LinkedTokenCount = s.Tokens().Len()
	return true
}

// SetNarration replaces the narration text and its alignment. Manual links
// keep their token indexes; the timeline turns stale when the word count
// changes.
type SetNarration struct {
	Narration string               `json:"narration"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
}

func (e SetNarration) Validate() error { return nil }

func (e SetNarration) apply(s *State) bool {
	if s.Narration == e.Narration && sameAlignment(s.Alignment, e.Alignment) {
		return false
	}
	s.Narration = e.Narration
	s.Alignment = e.Alignment
	if len(s.Links) == 0 {
		s.LinkedTokenCount = s.Tokens().Len()
	}
	return true
}

// SetTargets replaces the slide's animatable elements.
type SetTargets struct {
	Targets []Element `json:"targets"`
}

func (e SetTargets) Validate() error { return nil }

func (e SetTargets) apply(s *State) bool {
	if slices.Equal(s.Targets, e.Targets) {
		return false
	}
	s.Targets = slices.Clone(e.Targets)
	return true
}

// Rebind accepts the current narration for the existing manual links,
// clearing staleness.
type Rebind struct{}

func (Rebind) Validate() error { return nil }

func (Rebind) apply(s *State) bool {
	live := s.Tokens().Len()
	if s.LinkedTokenCount == live {
		return false
	}
	s.LinkedTokenCount = live
	return true
}

func sameAlignment(a, b *alignment.Alignment) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.Characters, b.Characters) &&
		slices.Equal(a.CharacterStartTimesSeconds, b.CharacterStartTimesSeconds) &&
		slices.Equal(a.CharacterEndTimesSeconds, b.CharacterEndTimesSeconds)
}
