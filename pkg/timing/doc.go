// Package timing resolves which slide elements animate at which narration
// word.
//
// # Links
//
// A [Link] binds a visual element (node, edge, heading, paragraph or word) to
// a narration token index. Manual links are authored by dragging an element
// onto a word; auto links are inferred by [Infer] and regenerated on every
// resolution. For any source id a manual link always wins.
//
// # Resolution
//
// [Resolve] merges both link sets against the current word tokens and returns
// a [Timeline]: entries sorted by start time (ties keep manual-then-auto
// insertion order) and a [Meta] health record. Out-of-range token indexes and
// unknown sources drop the offending link and append a message to
// Meta.Errors; resolution itself never fails. Identical inputs produce
// byte-identical timelines.
//
// # Staleness and Versions
//
// A timeline remembers the narration token count its manual links were
// authored against. When the live narration has a different count the whole
// timeline is stale: start times may no longer match the audio and callers
// must re-resolve or rebind before trusting them for a render.
//
// [State] is the persisted per-slide record and [Apply] the only way to
// change it:
//
//	s := timing.New(narration, align, timing.TargetsFromGraph(g))
//	s = timing.Apply(s, timing.UpsertLink{Link: link})
//	s = timing.Apply(s, timing.SetNarration{Narration: edited})
//	if s.Timeline.Meta.Stale { ... }
//
// Apply is pure. The version increments only when an edit changes the links,
// the narration or the targets.
package timing
