package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/slidemotion/pkg/errors"
	"github.com/matzehuels/slidemotion/pkg/layout"
	"github.com/matzehuels/slidemotion/pkg/motion"
	"github.com/matzehuels/slidemotion/pkg/timing"
)

func testSlide(t *testing.T, id string) *Slide {
	t.Helper()
	g := motion.Graph{
		ID:        id,
		Archetype: motion.ArchetypeProcess,
		Nodes: []motion.Node{
			{ID: "a", Data: motion.NodeData{Label: "Plan"}},
			{ID: "b", Data: motion.NodeData{Label: "Ship", Value: "42"}},
		},
	}
	res, err := layout.New().Layout(context.Background(), g, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := NewSlide(id, g, timing.New("we plan and then we ship", nil, timing.TargetsFromGraph(g)))
	s.Layout = &res
	return s
}

func TestFileStoreRoundTrip(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return created }

	slide := testSlide(t, "intro")
	if err := st.Put(ctx, slide); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, err := st.Get(ctx, "intro")
	if err != nil || got == nil {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if got.Graph.Nodes[1].Data.Value != "42" || got.Layout == nil || got.Layout.Family != layout.FamilyFlow {
		t.Errorf("slide not restored: %+v", got)
	}
	if got.State.Version() != 1 || len(got.State.Timeline.Entries) != 2 {
		t.Errorf("timing state not restored: %+v", got.State.Timeline.Meta)
	}
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(created) {
		t.Errorf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	// A later write keeps the creation time.
	later := created.Add(time.Hour)
	st.now = func() time.Time { return later }
	got.State = timing.Apply(got.State, timing.ClearLinks{})
	if err := st.Put(ctx, got); err != nil {
		t.Fatal(err)
	}
	again, err := st.Get(ctx, "intro")
	if err != nil {
		t.Fatal(err)
	}
	if !again.CreatedAt.Equal(created) || !again.UpdatedAt.Equal(later) {
		t.Errorf("timestamps after update = %v / %v", again.CreatedAt, again.UpdatedAt)
	}
}

func TestFileStoreMissing(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(context.Background(), "nope")
	if err != nil || got != nil {
		t.Errorf("Get(missing) = %v, %v; want nil, nil", got, err)
	}
	if err := st.Delete(context.Background(), "nope"); err != nil {
		t.Errorf("Delete(missing) error: %v", err)
	}
}

func TestFileStoreListAndDelete(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, id := range []string{"s2", "s1", "s3"} {
		if err := st.Put(ctx, testSlide(t, id)); err != nil {
			t.Fatal(err)
		}
	}
	// Stray files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != "s1" || ids[2] != "s3" {
		t.Errorf("List() = %v", ids)
	}

	if err := st.Delete(ctx, "s2"); err != nil {
		t.Fatal(err)
	}
	ids, _ = st.List(ctx)
	if len(ids) != 2 {
		t.Errorf("List() after delete = %v", ids)
	}
	if st.Path() != dir {
		t.Errorf("Path() = %s", st.Path())
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	tests := []string{"", "../etc/passwd", "a/b", ".hidden"}
	for _, id := range tests {
		if _, err := st.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Get(%q) error = %v", id, err)
		}
		if err := st.Put(ctx, &Slide{ID: id}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Put(%q) error = %v", id, err)
		}
	}
	if err := st.Put(ctx, nil); err == nil {
		t.Error("Put(nil) should fail")
	}
}
