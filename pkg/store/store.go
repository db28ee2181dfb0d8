// Package store persists slide documents.
//
// A slide document bundles everything the authoring UI edits for one slide:
// the motion graph, its last computed layout and the timing state (narration,
// alignment, manual links and the resolved timeline). Two backends are
// provided:
//   - file: JSON files in a directory, for the CLI and single-node servers
//   - mongo: a MongoDB collection, for shared deployments
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses ~/.config/slidemotion/slides/
//	if err != nil {
//	    return err
//	}
//	slide := store.NewSlide("intro", g, timing.New(narration, nil, timing.TargetsFromGraph(g)))
//	if err := st.Put(ctx, slide); err != nil {
//	    return err
//	}
//
//	slide, err = st.Get(ctx, "intro")
//	if err != nil {
//	    return err
//	}
//	if slide == nil {
//	    // Slide not found
//	}
package store

import (
	"context"
	"time"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

// Slide is one persisted slide document.
type Slide struct {
	ID        string         `json:"id" bson:"_id"`
	Graph     motion.Graph   `json:"graph" bson:"graph"`
	Layout    *layout.Result `json:"layout,omitempty" bson:"layout,omitempty"`
	State     timing.State   `json:"state" bson:"state"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// NewSlide creates an unsaved slide document.
func NewSlide(id string, g motion.Graph, state timing.State) *Slide {
	return &Slide{ID: id, Graph: g, State: state}
}

// touch stamps the modification times before a write.
func (s *Slide) touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// Store is the interface for slide storage backends.
type Store interface {
	// Get retrieves a slide by ID.
	// Returns nil, nil if the slide doesn't exist.
	Get(ctx context.Context, id string) (*Slide, error)

	// Put creates or replaces a slide and stamps its timestamps.
	Put(ctx context.Context, slide *Slide) error

	// Delete removes a slide. Deleting a missing slide is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored slides in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend.
	Close() error
}

func validate(s *Slide) error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "slide is nil")
	}
	return errors.ValidateSlideID(s.ID)
}
