package features_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/features"
)

func TestMemoryStoreCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()

		f := features.New(uuid.New(), "dark-mode")
		f.Description = "toggles the dark theme"
		require.NoError(t, store.Create(ctx, f))

		got, err := store.Feature(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)
		assert.Equal(t, "dark-mode", got.Name)
		assert.Equal(t, "toggles the dark theme", got.Description)
		assert.Equal(t, features.TypeStandard, got.Type)
	})

	t.Run("rejects invalid features", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()

		err := store.Create(ctx, features.Feature{ID: uuid.New()})
		assert.ErrorIs(t, err, features.ErrInvalidFeature)
	})

	t.Run("duplicate names are case-insensitive", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()
		projectID := uuid.New()

		require.NoError(t, store.Create(ctx, features.New(projectID, "dark-mode")))

		dup := features.New(projectID, "Dark-Mode")
		assert.ErrorIs(t, store.Create(ctx, dup), features.ErrDuplicateName)

		// The same name in another project is fine.
		assert.NoError(t, store.Create(ctx, features.New(uuid.New(), "dark-mode")))
	})
}

func TestMemoryStoreUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("updates fields, keeps identity", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()
		projectID := uuid.New()

		f := features.New(projectID, "dark-mode")
		require.NoError(t, store.Create(ctx, f))

		changed := f
		changed.Name = "dark-theme"
		changed.DefaultEnabled = true
		changed.ProjectID = uuid.New() // must be ignored
		require.NoError(t, store.Update(ctx, changed))

		got, err := store.Feature(ctx, f.ID)
		require.NoError(t, err)
		assert.Equal(t, "dark-theme", got.Name)
		assert.True(t, got.DefaultEnabled)
		assert.Equal(t, projectID, got.ProjectID, "a feature never moves between projects")
	})

	t.Run("rejects a name collision", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()
		projectID := uuid.New()

		require.NoError(t, store.Create(ctx, features.New(projectID, "dark-mode")))
		other := features.New(projectID, "beta-banner")
		require.NoError(t, store.Create(ctx, other))

		other.Name = "DARK-MODE"
		assert.ErrorIs(t, store.Update(ctx, other), features.ErrDuplicateName)
	})

	t.Run("keeping its own name is not a collision", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()

		f := features.New(uuid.New(), "dark-mode")
		require.NoError(t, store.Create(ctx, f))

		f.Description = "updated"
		assert.NoError(t, store.Update(ctx, f))
	})

	t.Run("missing feature", func(t *testing.T) {
		t.Parallel()
		store := features.NewMemoryStore()

		err := store.Update(ctx, features.New(uuid.New(), "dark-mode"))
		assert.ErrorIs(t, err, features.ErrFeatureNotFound)
	})
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := features.NewMemoryStore()
	f := features.New(uuid.New(), "dark-mode")
	require.NoError(t, store.Create(ctx, f))

	require.NoError(t, store.Delete(ctx, f.ID))
	_, err := store.Feature(ctx, f.ID)
	assert.ErrorIs(t, err, features.ErrFeatureNotFound)

	assert.ErrorIs(t, store.Delete(ctx, f.ID), features.ErrFeatureNotFound)
}

func TestMemoryStoreByProject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := features.NewMemoryStore()
	projectID := uuid.New()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		require.NoError(t, store.Create(ctx, features.New(projectID, name)))
	}
	require.NoError(t, store.Create(ctx, features.New(uuid.New(), "elsewhere")))

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
