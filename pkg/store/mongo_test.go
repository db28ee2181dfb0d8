package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoTestURI names the server used by the MongoDB store tests. The tests
// are skipped when it is unset.
const mongoTestURI = "SLIDEMOTION_TEST_MONGO_URI"

func newTestMongoStore(t *testing.T) *MongoStore {
	t.Helper()
	uri := os.Getenv(mongoTestURI)
	if uri == "" {
		t.Skipf("%s not set", mongoTestURI)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := fmt.Sprintf("slidemotion_test_%d", time.Now().UnixNano())
	st := NewMongoStoreFromClient(client, db)
	require.NoError(t, st.EnsureIndexes(ctx))
	t.Cleanup(func() {
		_ = client.Database(db).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return st
}

func TestMongoStoreRoundTrip(t *testing.T) {
	st := newTestMongoStore(t)
	ctx := context.Background()

	slide := testSlide(t, "intro")
	require.NoError(t, st.Put(ctx, slide))

	got, err := st.Get(ctx, "intro")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "intro", got.ID)
	require.Len(t, got.Graph.Nodes, 2)
	require.NotNil(t, got.Layout)
	require.Equal(t, slide.Layout.Family, got.Layout.Family)
	require.Equal(t, slide.State.Timeline.Meta.Version, got.State.Timeline.Meta.Version)
	require.Len(t, got.State.Timeline.Entries, len(slide.State.Timeline.Entries))

	missing, err := st.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMongoStoreListAndDelete(t *testing.T) {
	st := newTestMongoStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, st.Put(ctx, testSlide(t, id)))
	}
	// Replacing keeps one document per id.
	require.NoError(t, st.Put(ctx, testSlide(t, "a")))

	ids, err := st.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, ids)

	require.NoError(t, st.Delete(ctx, "b"))
	require.NoError(t, st.Delete(ctx, "b"))

	ids, err = st.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c"}, ids)
	require.NoError(t, st.Close())
}
