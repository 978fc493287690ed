package segments_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/segments"
)

func TestMemoryStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()
		store := segments.NewMemoryStore()

		seg := segments.New(uuid.New(), "beta-testers")
		seg.Description = "opted into early builds"
		require.NoError(t, store.Create(ctx, seg))

		got, err := store.Segment(ctx, seg.ID)
		require.NoError(t, err)
		assert.Equal(t, seg.ID, got.ID)
		assert.Equal(t, "beta-testers", got.Name)
		assert.Equal(t, "opted into early builds", got.Description)
	})

	t.Run("rejects invalid segments", func(t *testing.T) {
		t.Parallel()
		store := segments.NewMemoryStore()

		err := store.Create(ctx, segments.Segment{ID: uuid.New()})
		assert.ErrorIs(t, err, segments.ErrInvalidSegment)
	})

	t.Run("same name twice is allowed", func(t *testing.T) {
		t.Parallel()
		store := segments.NewMemoryStore()
		projectID := uuid.New()

		require.NoError(t, store.Create(ctx, segments.New(projectID, "beta-testers")))
		assert.NoError(t, store.Create(ctx, segments.New(projectID, "beta-testers")),
			"segment names are not unique")
	})
}

func TestMemoryStoreUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("updates fields, keeps identity", func(t *testing.T) {
		t.Parallel()
		store := segments.NewMemoryStore()
		projectID := uuid.New()

		seg := segments.New(projectID, "beta-testers")
		require.NoError(t, store.Create(ctx, seg))

		changed := seg
		changed.Name = "early-adopters"
		changed.Description = "renamed"
		changed.ProjectID = uuid.New() // must be ignored
		require.NoError(t, store.Update(ctx, changed))

		got, err := store.Segment(ctx, seg.ID)
		require.NoError(t, err)
		assert.Equal(t, "early-adopters", got.Name)
		assert.Equal(t, "renamed", got.Description)
		assert.Equal(t, projectID, got.ProjectID, "a segment never moves between projects")
	})

	t.Run("missing segment", func(t *testing.T) {
		t.Parallel()
		store := segments.NewMemoryStore()

		err := store.Update(ctx, segments.New(uuid.New(), "beta-testers"))
		assert.ErrorIs(t, err, segments.ErrSegmentNotFound)
	})
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := segments.NewMemoryStore()
	seg := segments.New(uuid.New(), "beta-testers")
	require.NoError(t, store.Create(ctx, seg))

	require.NoError(t, store.Delete(ctx, seg.ID))
	_, err := store.Segment(ctx, seg.ID)
	assert.ErrorIs(t, err, segments.ErrSegmentNotFound)

	assert.ErrorIs(t, store.Delete(ctx, seg.ID), segments.ErrSegmentNotFound)
}

func TestMemoryStoreByProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := segments.NewMemoryStore()
	projectID := uuid.New()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		require.NoError(t, store.Create(ctx, segments.New(projectID, name)))
	}
	require.NoError(t, store.Create(ctx, segments.New(uuid.New(), "elsewhere")))

	list, err := store.ByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	count, err := store.CountByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	empty, err := store.ByProject(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
