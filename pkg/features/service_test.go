package features_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/features"
	"github.com/flagkit/flagkit/pkg/projects"
	"github.com/flagkit/flagkit/pkg/realtime"
)

type fixture struct {
	store    *features.MemoryStore
	projects *projects.MemoryStore
	svc      *features.Service
	project  projects.Project
}

func newFixture(t *testing.T, opts ...features.ServiceOption) *fixture {
	t.Helper()

	store := features.NewMemoryStore()
	projectStore := projects.NewMemoryStore()
	project := projects.NewProject(uuid.New(), "mobile-app")
	require.NoError(t, projectStore.Create(context.Background(), project))

	return &fixture{
		store:    store,
		projects: projectStore,
		svc:      features.NewService(store, projectStore, opts...),
		project:  project,
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { features.NewService(nil, projects.NewMemoryStore()) })
	assert.Panics(t, func() { features.NewService(features.NewMemoryStore(), nil) })
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates with defaults", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		created, err := fx.svc.Create(ctx, features.Feature{
			ProjectID: fx.project.ID,
			Name:      "  dark-mode  ",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "dark-mode", created.Name)
		assert.Equal(t, features.TypeStandard, created.Type)

		got, err := fx.store.Feature(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		_, err := fx.svc.Create(ctx, features.New(uuid.New(), "dark-mode"))
		assert.ErrorIs(t, err, projects.ErrProjectNotFound)
	})

	t.Run("enforces the lower case rule", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		_, err := fx.svc.Create(ctx, features.New(fx.project.ID, "Dark-Mode"))
		assert.ErrorIs(t, err, features.ErrInvalidName)
	})

	t.Run("enforces the project name regex", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.project.FeatureNameRegex = "[a-z_]+"
		require.NoError(t, fx.projects.Update(ctx, fx.project))

		_, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		assert.ErrorIs(t, err, features.ErrInvalidName)

		_, err = fx.svc.Create(ctx, features.New(fx.project.ID, "dark_mode"))
		assert.NoError(t, err)
	})

	t.Run("enforces the feature limit", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.project.MaxFeaturesAllowed = 1
		require.NoError(t, fx.projects.Update(ctx, fx.project))

		_, err := fx.svc.Create(ctx, features.New(fx.project.ID, "first"))
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, features.New(fx.project.ID, "second"))
		assert.ErrorIs(t, err, features.ErrLimitReached)
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		_, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		assert.ErrorIs(t, err, features.ErrDuplicateName)
	})
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("re-validates the name", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		created, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		require.NoError(t, err)

		created.Name = "Dark-Mode"
		_, err = fx.svc.Update(ctx, *created)
		assert.ErrorIs(t, err, features.ErrInvalidName)

		created.Name = "dark-theme"
		updated, err := fx.svc.Update(ctx, *created)
		require.NoError(t, err)
		assert.Equal(t, "dark-theme", updated.Name)
		assert.Equal(t, fx.project.ID, updated.ProjectID)
	})

	t.Run("missing feature", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		_, err := fx.svc.Update(ctx, features.New(fx.project.ID, "dark-mode"))
		assert.ErrorIs(t, err, features.ErrFeatureNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fx := newFixture(t)
	created, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, created.ID))
	_, err = fx.svc.Feature(ctx, created.ID)
	assert.ErrorIs(t, err, features.ErrFeatureNotFound)

	assert.ErrorIs(t, fx.svc.Delete(ctx, created.ID), features.ErrFeatureNotFound)
}

func TestServicePublishesUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("publishes for realtime projects", func(t *testing.T) {
		t.Parallel()
		publisher := realtime.NewMemoryPublisher(8)
		defer publisher.Close()
		updates := publisher.Subscribe(ctx)

		fx := newFixture(t, features.WithPublisher(publisher))
		fx.project.EnableRealtimeUpdates = true
		require.NoError(t, fx.projects.Update(ctx, fx.project))

		created, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		require.NoError(t, err)

		select {
		case update := <-updates:
			assert.Equal(t, realtime.KindFeatures, update.Kind)
			assert.Equal(t, fx.project.ID, update.ProjectID)
		case <-time.After(time.Second):
			t.Fatal("no update published")
		}

		require.NoError(t, fx.svc.Delete(ctx, created.ID))
		select {
		case update := <-updates:
			assert.Equal(t, realtime.KindFeatures, update.Kind)
		case <-time.After(time.Second):
			t.Fatal("no update published for delete")
		}
	})

	t.Run("silent for projects without realtime", func(t *testing.T) {
		t.Parallel()
		publisher := realtime.NewMemoryPublisher(8)
		defer publisher.Close()
		updates := publisher.Subscribe(ctx)

		fx := newFixture(t, features.WithPublisher(publisher))

		_, err := fx.svc.Create(ctx, features.New(fx.project.ID, "dark-mode"))
		require.NoError(t, err)

		select {
		case update := <-updates:
			t.Fatalf("unexpected update: %+v", update)
		case <-time.After(50 * time.Millisecond):
		}
	})
}
