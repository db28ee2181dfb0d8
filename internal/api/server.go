// Package api implements the slidemotion HTTP service.
//
// The service exposes the layout engine, the narration tokenizer, the timing
// resolver and the frame renderer as JSON endpoints, plus a slide document
// store for the authoring UI:
//
//	POST /v1/layout            position a motion graph
//	POST /v1/tokenize          narration words with timings
//	POST /v1/timeline/resolve  resolve manual and auto links
//	POST /v1/timeline/apply    apply one edit to a timing state
//	POST /v1/frames            run the full pipeline and render frames
//	GET  /v1/slides            list stored slides
//	GET  /v1/slides/{id}       fetch a slide document
//	PUT  /v1/slides/{id}       save a slide, recomputing layout and timeline
//	DELETE /v1/slides/{id}     remove a slide
//	GET  /healthz              liveness and build info
//	GET  /metrics              Prometheus metrics
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/slidemotion/pkg/observability"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/store"
)

const (
	// maxBodyBytes bounds request bodies.
	maxBodyBytes = 8 << 20

	// requestTimeout bounds a single request, including frame rendering.
	requestTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults are the pipeline options requests start from.
	Defaults pipeline.Options

	// Gatherer serves /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// NewHandler builds the router for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.layout)
		r.Post("/tokenize", s.tokenize)
		r.Post("/timeline/resolve", s.resolveTimeline)
		r.Post("/timeline/apply", s.applyEdit)
		r.Post("/frames", s.frames)

		r.Route("/slides", func(r chi.Router) {
			r.Get("/", s.listSlides)
			r.Get("/{id}", s.getSlide)
			r.Put("/{id}", s.putSlide)
			r.Delete("/{id}", s.deleteSlide)
		})
	})
	return r
}

func (s *Server) metricsHandler() http.Handler {
	if s.Gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})
}

// observe reports every request to the HTTP hooks under its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves handler on addr until ctx is canceled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
