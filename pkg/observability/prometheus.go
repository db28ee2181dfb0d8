package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "slidemotion"

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	layouts        *prometheus.CounterVec
	layoutSeconds  *prometheus.HistogramVec
	timelines      *prometheus.CounterVec
	timelineSecs   prometheus.Histogram
	renders        *prometheus.CounterVec
	renderedFrames *prometheus.CounterVec
	renderSeconds  *prometheus.HistogramVec
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestSeconds *prometheus.HistogramVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "layouts_total",
			Help: "Layouts computed, by archetype, family and result.",
		}, []string{"archetype", "family", "result"}),
		layoutSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "layout_duration_seconds",
			Help:    "Duration of layout computations.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"family"}),
		timelines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "timelines_total",
			Help: "Timelines resolved, by status.",
		}, []string{"status"}),
		timelineSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "timeline_duration_seconds",
			Help:    "Duration of timeline resolution.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "renders_total",
			Help: "Render runs, by format and result.",
		}, []string{"format", "result"}),
		renderedFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "rendered_frames_total",
			Help: "Frames rendered, by format.",
		}, []string{"format"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_duration_seconds",
			Help: "Duration of render runs.",
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_operations_total",
			Help: "Cache lookups and writes, by key type and operation.",
		}, []string{"key_type", "op"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests.",
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		h.layouts, h.layoutSeconds, h.timelines, h.timelineSecs,
		h.renders, h.renderedFrames, h.renderSeconds,
		h.cacheOps, h.cacheBytes, h.requests, h.requestSeconds,
	)
	return h
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, archetype, family string, d time.Duration, err error) {
	h.layouts.WithLabelValues(archetype, family, result(err)).Inc()
	h.layoutSeconds.WithLabelValues(family).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnTimelineStart(context.Context, int, int) {}

func (h *PrometheusHooks) OnTimelineComplete(_ context.Context, status string, d time.Duration) {
	h.timelines.WithLabelValues(status).Inc()
	h.timelineSecs.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, frames int, d time.Duration, err error) {
	h.renders.WithLabelValues(format, result(err)).Inc()
	if err == nil {
		h.renderedFrames.WithLabelValues(format).Add(float64(frames))
	}
	h.renderSeconds.WithLabelValues(format).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestSeconds.WithLabelValues(method, route).Observe(d.Seconds())
}

// Install registers h as the pipeline, cache and HTTP hooks.
func (h *PrometheusHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
