// Package pkg provides the core libraries for slidemotion narrated diagram
// slides.
//
// # Overview
//
// Slidemotion turns a motion graph (an archetype plus nodes and edges) into
// a positioned, animated slide whose elements enter in step with the
// narration. The pkg directory is organized into three areas:
//
//  1. Domain logic: [motion], [sizing], [layout], [alignment], [timing], [animation]
//  2. Output: [render]
//  3. Infrastructure: [pipeline], [cache], [store], [config], [observability], [errors]
//
// # Architecture
//
// The typical data flow through slidemotion:
//
//	motion graph (JSON/YAML)        narration + character alignment
//	         ↓                                   ↓
//	    [layout] package                 [alignment] package
//	  (size nodes, pick family,          (timed words, or
//	   position for viewport)             estimated slots)
//	         ↓                                   ↓
//	         └──────────→ [timing] package ←─────┘
//	                 (manual + auto links → timeline)
//	                           ↓
//	                  [animation] package
//	                 (spring evaluation per frame)
//	                           ↓
//	                    [render] package
//	                   (SVG or JSON frames)
//
// # Quick Start
//
//	res, _ := layout.New().Layout(ctx, g, layout.Options{})
//	tokens := alignment.Tokenize(nil, "First we plan, then we build.")
//	tl := timing.Resolve(timing.Input{
//	    Tokens:  tokens,
//	    Targets: timing.TargetsFromGraph(res.Graph),
//	    Version: 1,
//	})
//	ev, _ := animation.New(res, tl, animation.Config{})
//	f := ev.Frame(30)
//	svg := render.RenderSVG(res, render.WithFrame(f))
//
// The [pipeline] package wraps these steps with caching and is shared by the
// CLI and the HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/timing/...         # Specific package
//
// Store and cache adapters test against MongoDB and Redis when
// SLIDEMOTION_TEST_MONGO_URI is set; the Redis cache uses miniredis.
//
// [motion]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/motion
// [sizing]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/sizing
// [layout]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/layout
// [alignment]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/alignment
// [timing]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/timing
// [animation]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/animation
// [render]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/slidemotion/pkg/errors
package pkg
