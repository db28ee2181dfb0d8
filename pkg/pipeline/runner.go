package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/slidemotion/pkg/animation"
	"github.com/matzehuels/slidemotion/pkg/cache"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/observability"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeTimeline = "timeline"
	keyTypeFrame    = "frame"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → timeline → frames pipeline with caching.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := opts.ValidateForFrames(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.LayoutWithCacheInfo(ctx, in.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(res.Graph.Nodes)
	result.Stats.EdgeCount = len(res.Edges)
	result.CacheInfo.LayoutHit = layoutHit
	if h, err := cache.HashJSON(res); err == nil {
		result.LayoutHash = h
	}

	r.Logger.Info("computed layout",
		"family", res.Family,
		"nodes", result.Stats.NodeCount,
		"warnings", len(res.Warnings),
		"duration", result.Stats.LayoutTime)

	// Stage 2: Timeline
	timelineStart := time.Now()
	tl, timelineHit, err := r.TimelineWithCacheInfo(ctx, timing.Input{
		Manual:  in.Links,
		Tokens:  in.Tokens(),
		Targets: timing.TargetsFromGraph(res.Graph),
		Version: 1,
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	result.Timeline = tl
	result.Stats.TimelineTime = time.Since(timelineStart)
	result.Stats.EntryCount = len(tl.Entries)
	result.CacheInfo.TimelineHit = timelineHit

	r.Logger.Info("resolved timeline",
		"entries", len(tl.Entries),
		"status", tl.Meta.Status,
		"duration", result.Stats.TimelineTime)

	// Stage 3: Frames
	renderStart := time.Now()
	frames, hits, err := r.FramesWithCacheInfo(ctx, res, tl, opts)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	result.Frames = frames
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.FrameCount = len(frames)
	result.CacheInfo.FrameHits = hits
	if ev, err := animation.New(res, tl, opts.AnimationConfig()); err == nil {
		result.Stats.DurationFrames = ev.DurationFrames()
	}

	r.Logger.Info("rendered frames",
		"format", opts.Format,
		"frames", len(frames),
		"cached", hits,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo positions a graph with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g motion.Graph, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}

	graphHash, err := cache.HashJSON(g)
	if err != nil {
		return layout.Result{}, false, fmt.Errorf("hash graph: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	var cached layout.Result
	if r.lookup(ctx, cacheKey, keyTypeLayout, opts.Refresh, &cached) {
		return cached, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(g.Archetype), len(g.Nodes))
	start := time.Now()
	res, err := GenerateLayout(ctx, g, opts)
	hooks.OnLayoutComplete(ctx, string(g.Archetype), string(res.Family), time.Since(start), err)
	if err != nil {
		return layout.Result{}, false, err
	}

	r.store(ctx, cacheKey, keyTypeLayout, res, cache.TTLLayout)
	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g motion.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// TimelineWithCacheInfo resolves a timeline with caching and returns cache hit info.
// Resolution never fails; errors come from the context only.
func (r *Runner) TimelineWithCacheInfo(ctx context.Context, in timing.Input, opts Options) (timing.Timeline, bool, error) {
	if err := ctx.Err(); err != nil {
		return timing.Timeline{}, false, err
	}

	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return timing.Timeline{}, false, fmt.Errorf("hash timeline input: %w", err)
	}
	cacheKey := r.Keyer.TimelineKey(inputHash)

	var cached timing.Timeline
	if r.lookup(ctx, cacheKey, keyTypeTimeline, opts.Refresh, &cached) {
		return cached, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnTimelineStart(ctx, len(in.Manual), in.Tokens.Len())
	start := time.Now()
	tl := timing.Resolve(in)
	hooks.OnTimelineComplete(ctx, string(tl.Meta.Status), time.Since(start))

	for _, msg := range tl.Meta.Errors {
		r.Logger.Warn("timeline", "error", msg)
	}
	if tl.Meta.Stale {
		r.Logger.Warn("timeline is stale; rebind manual links to the current narration",
			"recorded", tl.Meta.NarrationTokenCount,
			"live", tl.Meta.LiveTokenCount)
	}

	r.store(ctx, cacheKey, keyTypeTimeline, tl, cache.TTLTimeline)
	return tl, false, nil
}

// Timeline is a convenience wrapper that calls TimelineWithCacheInfo and discards the cache hit info.
func (r *Runner) Timeline(ctx context.Context, in timing.Input, opts Options) (timing.Timeline, error) {
	tl, _, err := r.TimelineWithCacheInfo(ctx, in, opts)
	return tl, err
}

// FramesWithCacheInfo renders the selected frames with caching and returns
// how many came from the cache. Frames are rendered by a bounded pool of
// workers and returned in frame order.
func (r *Runner) FramesWithCacheInfo(ctx context.Context, res layout.Result, tl timing.Timeline, opts Options) ([]Frame, int, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFrames(); err != nil {
		return nil, 0, err
	}

	ev, err := animation.New(res, tl, opts.AnimationConfig())
	if err != nil {
		return nil, 0, err
	}
	layoutHash, err := cache.HashJSON(res)
	if err != nil {
		return nil, 0, fmt.Errorf("hash layout: %w", err)
	}
	timelineHash, err := cache.HashJSON(tl)
	if err != nil {
		return nil, 0, fmt.Errorf("hash timeline: %w", err)
	}

	numbers := opts.FrameRange(ev.DurationFrames())
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format, len(numbers))
	start := time.Now()

	type frameResult struct {
		frame Frame
		hit   bool
		err   error
	}
	results := make([]frameResult, len(numbers))
	var wg sync.WaitGroup

	// Semaphore for the worker limit
	sem := make(chan struct{}, opts.Workers)

	for i, n := range numbers {
		wg.Add(1)
		go func(idx, frame int) {
			defer wg.Done()
			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			if err := ctx.Err(); err != nil {
				results[idx].err = err
				return
			}
			out := Frame{Frame: frame, TimeMs: ev.Config().FrameMs(frame), Format: opts.Format}
			cacheKey := r.Keyer.FrameKey(layoutHash, timelineHash, opts.FrameKeyOpts(frame))
			if data, ok := r.lookupRaw(ctx, cacheKey, keyTypeFrame, opts.Refresh); ok {
				out.Data = data
				results[idx] = frameResult{frame: out, hit: true}
				return
			}
			data, err := RenderFrame(res, ev, frame, opts)
			if err != nil {
				results[idx].err = err
				return
			}
			r.storeRaw(ctx, cacheKey, keyTypeFrame, data, cache.TTLFrame)
			out.Data = data
			results[idx] = frameResult{frame: out}
		}(i, n)
	}

	wg.Wait()

	frames := make([]Frame, 0, len(results))
	hits := 0
	for _, fr := range results {
		if fr.err != nil {
			hooks.OnRenderComplete(ctx, opts.Format, len(numbers), time.Since(start), fr.err)
			return nil, 0, fr.err
		}
		if fr.hit {
			hits++
		}
		frames = append(frames, fr.frame)
	}
	hooks.OnRenderComplete(ctx, opts.Format, len(numbers), time.Since(start), nil)

	r.Logger.Debug("rendered frames", "frames", len(frames), "cached", hits, "workers", opts.Workers)
	return frames, hits, nil
}

// Frames is a convenience wrapper that calls FramesWithCacheInfo and discards the cache hit info.
func (r *Runner) Frames(ctx context.Context, res layout.Result, tl timing.Timeline, opts Options) ([]Frame, error) {
	frames, _, err := r.FramesWithCacheInfo(ctx, res, tl, opts)
	return frames, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// =============================================================================
// Cache Helpers
// =============================================================================

// lookup decodes a cached JSON value into v. Undecodable entries count as misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool, v any) bool {
	data, ok := r.lookupRaw(ctx, key, keyType, refresh)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Debug("discarding cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (r *Runner) lookupRaw(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache get failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, key, keyType string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Debug("cache encode failed", "key", key, "error", err)
		return
	}
	r.storeRaw(ctx, key, keyType, data, ttl)
}

func (r *Runner) storeRaw(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
