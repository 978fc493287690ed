package projects_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/projects"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()
		p := projects.NewProject(uuid.New(), "web")

		require.NoError(t, store.Create(ctx, p))

		got, err := store.Project(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "web", got.Name)
	})

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()

		_, err := store.Project(ctx, uuid.New())
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
	})

	t.Run("update keeps created at", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()
		p := projects.NewProject(uuid.New(), "web")
		require.NoError(t, store.Create(ctx, p))

		created, err := store.Project(ctx, p.ID)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)
		p.Name = "web v2"
		p.HideDisabledFlags = true
		require.NoError(t, store.Update(ctx, p))

		got, err := store.Project(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "web v2", got.Name)
		assert.True(t, got.HideDisabledFlags)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
		assert.True(t, got.UpdatedAt.After(created.UpdatedAt))
	})

	t.Run("update missing project", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()

		err := store.Update(ctx, projects.NewProject(uuid.New(), "ghost"))
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()
		p := projects.NewProject(uuid.New(), "web")
		require.NoError(t, store.Create(ctx, p))

		require.NoError(t, store.Delete(ctx, p.ID))
		_, err := store.Project(ctx, p.ID)
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
		assert.ErrorIs(t, store.Delete(ctx, p.ID), projects.ErrProjectNotFound)
	})

	t.Run("list by organisation", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()
		orgID := uuid.New()

		p1 := projects.NewProject(orgID, "web")
		p2 := projects.NewProject(orgID, "mobile")
		other := projects.NewProject(uuid.New(), "intranet")
		require.NoError(t, store.Create(ctx, p1))
		require.NoError(t, store.Create(ctx, p2))
		require.NoError(t, store.Create(ctx, other))

		list, err := store.ByOrganisation(ctx, orgID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("rejects invalid project", func(t *testing.T) {
		t.Parallel()
		store := projects.NewMemoryStore()

		err := store.Create(ctx, projects.Project{ID: uuid.New()})
		assert.ErrorIs(t, err, projects.ErrInvalidProject)
	})
}
