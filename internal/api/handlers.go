package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/slidemotion/pkg/alignment"
	"github.com/matzehuels/slidemotion/pkg/buildinfo"
	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/pipeline"
	"github.com/matzehuels/slidemotion/pkg/store"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// RequestOptions are the per-request overrides of the server defaults.
type RequestOptions struct {
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Engine      string  `json:"engine,omitempty"`
	Mode        string  `json:"mode,omitempty"`
	Strict      *bool   `json:"strict,omitempty"`
	FPS         int     `json:"fps,omitempty"`
	StaggerMs   int64   `json:"stagger_ms,omitempty"`
	Format      string  `json:"format,omitempty"`
	FrameStart  int     `json:"frame_start,omitempty"`
	FrameEnd    int     `json:"frame_end,omitempty"`
	FrameStep   int     `json:"frame_step,omitempty"`
	Title       bool    `json:"title,omitempty"`
	Transparent bool    `json:"transparent,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"`
}

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph   motion.Graph   `json:"graph"`
	Options RequestOptions `json:"options"`
}

// TokenizeRequest is the body of POST /v1/tokenize.
type TokenizeRequest struct {
	Narration string               `json:"narration"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
}

// ResolveRequest is the body of POST /v1/timeline/resolve. Targets default
// to the animatable elements of Graph.
type ResolveRequest struct {
	Narration          string               `json:"narration"`
	Alignment          *alignment.Alignment `json:"alignment,omitempty"`
	Links              []timing.Link        `json:"links,omitempty"`
	Targets            []timing.Element     `json:"targets,omitempty"`
	Graph              *motion.Graph        `json:"graph,omitempty"`
	RecordedTokenCount *int                 `json:"recorded_token_count,omitempty"`
	Version            int                  `json:"version,omitempty"`
}

// ApplyRequest is the body of POST /v1/timeline/apply.
type ApplyRequest struct {
	State timing.State       `json:"state"`
	Edit  timing.EditRequest `json:"edit"`
}

// FramesRequest is the body of POST /v1/frames.
type FramesRequest struct {
	Graph     motion.Graph         `json:"graph"`
	Narration string               `json:"narration"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
	Links     []timing.Link        `json:"links,omitempty"`
	Options   RequestOptions       `json:"options"`
}

// FrameResponse is one rendered frame. SVG frames carry markup, JSON frames
// carry the element states.
type FrameResponse struct {
	Frame  int             `json:"frame"`
	TimeMs int64           `json:"time_ms"`
	SVG    string          `json:"svg,omitempty"`
	State  json.RawMessage `json:"state,omitempty"`
}

// FramesResponse is the response of POST /v1/frames.
type FramesResponse struct {
	Layout         layout.Result   `json:"layout"`
	Timeline       timing.Timeline `json:"timeline"`
	DurationFrames int             `json:"duration_frames"`
	Frames         []FrameResponse `json:"frames"`
}

// SlideRequest is the body of PUT /v1/slides/{id}. Narration and Alignment
// replace the stored values when set; Edits are applied afterwards in order.
type SlideRequest struct {
	Graph     motion.Graph         `json:"graph"`
	Narration *string              `json:"narration,omitempty"`
	Alignment *alignment.Alignment `json:"alignment,omitempty"`
	Edits     []timing.EditRequest `json:"edits,omitempty"`
	Options   RequestOptions       `json:"options"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.Runner.Layout(r.Context(), req.Graph, s.options(req.Options))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) tokenize(w http.ResponseWriter, r *http.Request) {
	var req TokenizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Alignment != nil {
		if err := req.Alignment.Validate(); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, alignment.Tokenize(req.Alignment, req.Narration))
}

func (s *Server) resolveTimeline(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if !s.decode(w, r, &req) {
		return
	}
	targets := req.Targets
	if len(targets) == 0 && req.Graph != nil {
		targets = timing.TargetsFromGraph(*req.Graph)
	}
	version := req.Version
	if version == 0 {
		version = 1
	}
	tl, err := s.Runner.Timeline(r.Context(), timing.Input{
		Manual:             req.Links,
		Tokens:             alignment.Tokenize(req.Alignment, req.Narration),
		Targets:            targets,
		RecordedTokenCount: req.RecordedTokenCount,
		Version:            version,
	}, s.options(RequestOptions{}))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

func (s *Server) applyEdit(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !s.decode(w, r, &req) {
		return
	}
	edit, err := req.Edit.Edit()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timing.Apply(req.State, edit))
}

func (s *Server) frames(w http.ResponseWriter, r *http.Request) {
	var req FramesRequest
	if !s.decode(w, r, &req) {
		return
	}
	result, err := s.Runner.Execute(r.Context(), pipeline.Input{
		Graph:     req.Graph,
		Narration: req.Narration,
		Alignment: req.Alignment,
		Links:     req.Links,
	}, s.options(req.Options))
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := FramesResponse{
		Layout:         result.Layout,
		Timeline:       result.Timeline,
		DurationFrames: result.Stats.DurationFrames,
		Frames:         make([]FrameResponse, 0, len(result.Frames)),
	}
	for _, f := range result.Frames {
		fr := FrameResponse{Frame: f.Frame, TimeMs: f.TimeMs}
		if f.Format == pipeline.FormatJSON {
			fr.State = json.RawMessage(f.Data)
		} else {
			fr.SVG = string(f.Data)
		}
		resp.Frames = append(resp.Frames, fr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listSlides(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"slides": ids})
}

func (s *Server) getSlide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	slide, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if slide == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "slide %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, slide)
}

// putSlide lays out the graph, carries the stored timing state forward
// through the edits implied by the request and saves the result.
func (s *Server) putSlide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSlideID(id); err != nil {
		s.writeError(w, err)
		return
	}
	var req SlideRequest
	if !s.decode(w, r, &req) {
		return
	}

	edits := make([]timing.Edit, 0, len(req.Edits))
	for _, er := range req.Edits {
		e, err := er.Edit()
		if err != nil {
			s.writeError(w, err)
			return
		}
		edits = append(edits, e)
	}

	res, err := s.Runner.Layout(r.Context(), req.Graph, s.options(req.Options))
	if err != nil {
		s.writeError(w, err)
		return
	}

	prev, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	targets := timing.TargetsFromGraph(res.Graph)

	var slide *store.Slide
	if prev == nil {
		narration := ""
		if req.Narration != nil {
			narration = *req.Narration
		}
		slide = store.NewSlide(id, req.Graph, timing.New(narration, req.Alignment, targets))
	} else {
		slide = prev
		slide.Graph = req.Graph
		slide.State = timing.Apply(slide.State, timing.SetTargets{Targets: targets})
		if req.Narration != nil {
			slide.State = timing.Apply(slide.State, timing.SetNarration{Narration: *req.Narration, Alignment: req.Alignment})
		}
	}
	for _, e := range edits {
		slide.State = timing.Apply(slide.State, e)
	}
	slide.Layout = &res

	if err := s.Store.Put(r.Context(), slide); err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusOK
	if prev == nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, slide)
}

func (s *Server) deleteSlide(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

// options layers request overrides over the server defaults.
func (s *Server) options(o RequestOptions) pipeline.Options {
	opts := s.Defaults
	opts.Logger = s.Logger
	if o.Width > 0 {
		opts.Width = o.Width
	}
	if o.Height > 0 {
		opts.Height = o.Height
	}
	if o.Engine != "" {
		opts.Engine = o.Engine
	}
	if o.Mode != "" {
		opts.Mode = o.Mode
	}
	if o.Strict != nil {
		opts.Strict = *o.Strict
	}
	if o.FPS > 0 {
		opts.FPS = o.FPS
	}
	if o.StaggerMs > 0 {
		opts.StaggerMs = o.StaggerMs
	}
	if o.Format != "" {
		opts.Format = o.Format
	}
	opts.FrameStart = o.FrameStart
	opts.FrameEnd = o.FrameEnd
	opts.FrameStep = o.FrameStep
	opts.Title = o.Title
	opts.Transparent = o.Transparent
	opts.Refresh = o.Refresh
	return opts
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	} else {
		s.Logger.Debug("request rejected", "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
