package permissions_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/organisations"
	"github.com/flagkit/flagkit/pkg/permissions"
)

// featureActions is the guard configuration of a feature endpoint family:
// explicit read mapping, per-action write keys, and a custom action left
// unmapped on purpose.
func featureActions() permissions.ActionMap {
	return permissions.ActionMap{
		permissions.ActionList:     permissions.ViewProject,
		permissions.ActionRetrieve: permissions.ViewProject,
		permissions.ActionCreate:   permissions.CreateFeature,
		permissions.ActionUpdate:   permissions.EditFeature,
		permissions.ActionDestroy:  permissions.DeleteFeature,
	}
}

const actionSegments = permissions.Action("segments")

var allFeatureActions = []permissions.Action{
	permissions.ActionList,
	permissions.ActionRetrieve,
	permissions.ActionCreate,
	permissions.ActionUpdate,
	permissions.ActionDestroy,
	actionSegments,
}

type scopedResource struct {
	projectID uuid.UUID
}

func (r scopedResource) ParentProject() uuid.UUID { return r.projectID }

func TestEvaluatorHasPermission(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("organisation admin allowed every action", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		w.source.SetMembership(userID, w.org.ID, organisations.RoleAdmin)

		for _, action := range allFeatureActions {
			assert.True(t, eval.HasPermission(ctx, userID, action, w.project.ID),
				"org admin must pass %q", action)
		}
	})

	t.Run("project admin via direct grant allowed every action", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(userID, w.project.ID, true)))

		for _, action := range allFeatureActions {
			assert.True(t, eval.HasPermission(ctx, userID, action, w.project.ID),
				"project admin must pass %q", action)
		}
	})

	t.Run("project admin via group allowed every action", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID, groupID := uuid.New(), uuid.New()
		w.source.AddGroupMember(groupID, userID)
		require.NoError(t, w.source.PutGroupGrant(ctx,
			permissions.NewGroupGrant(groupID, w.project.ID, true)))

		for _, action := range allFeatureActions {
			assert.True(t, eval.HasPermission(ctx, userID, action, w.project.ID),
				"group-derived admin must pass %q", action)
		}
	})

	t.Run("view project grants reads only", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(userID, w.project.ID, false, permissions.ViewProject)))

		assert.True(t, eval.HasPermission(ctx, userID, permissions.ActionList, w.project.ID))
		assert.True(t, eval.HasPermission(ctx, userID, permissions.ActionRetrieve, w.project.ID))
		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionCreate, w.project.ID))
		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionUpdate, w.project.ID))
		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionDestroy, w.project.ID))
	})

	t.Run("create requires the create feature key", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(userID, w.project.ID, false, permissions.CreateFeature)))

		assert.True(t, eval.HasPermission(ctx, userID, permissions.ActionCreate, w.project.ID))
		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionDestroy, w.project.ID))
	})

	t.Run("destroy requires the delete feature key", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(userID, w.project.ID, false, permissions.DeleteFeature)))

		assert.True(t, eval.HasPermission(ctx, userID, permissions.ActionDestroy, w.project.ID))
		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionCreate, w.project.ID))
	})

	t.Run("unmapped action requires project admin", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())

		// Holding every key is still not admin.
		keyHolder := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(keyHolder, w.project.ID, false, permissions.Keys()...)))
		assert.False(t, eval.HasPermission(ctx, keyHolder, actionSegments, w.project.ID))

		admin := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(admin, w.project.ID, true)))
		assert.True(t, eval.HasPermission(ctx, admin, actionSegments, w.project.ID))
	})

	t.Run("grantless user denied reads", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())

		assert.False(t, eval.HasPermission(ctx, uuid.New(), permissions.ActionList, w.project.ID))
	})

	t.Run("unknown project denies", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		w.source.SetMembership(userID, w.org.ID, organisations.RoleAdmin)

		assert.False(t, eval.HasPermission(ctx, userID, permissions.ActionList, uuid.New()))
	})
}

func TestEvaluatorHasObjectPermission(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("nil object denies", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		w.source.SetMembership(userID, w.org.ID, organisations.RoleAdmin)

		assert.False(t, eval.HasObjectPermission(ctx, userID, permissions.ActionRetrieve, nil))
	})

	t.Run("object without a project denies", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		w.source.SetMembership(userID, w.org.ID, organisations.RoleAdmin)

		assert.False(t, eval.HasObjectPermission(ctx, userID, permissions.ActionRetrieve, scopedResource{}))
	})

	t.Run("decision follows the object's project", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(userID, w.project.ID, false, permissions.ViewProject)))

		inProject := scopedResource{projectID: w.project.ID}
		assert.True(t, eval.HasObjectPermission(ctx, userID, permissions.ActionRetrieve, inProject))
		assert.False(t, eval.HasObjectPermission(ctx, userID, permissions.ActionDestroy, inProject))

		elsewhere := scopedResource{projectID: uuid.New()}
		assert.False(t, eval.HasObjectPermission(ctx, userID, permissions.ActionRetrieve, elsewhere))
	})

	t.Run("collection and object decisions agree", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())

		orgAdmin := uuid.New()
		w.source.SetMembership(orgAdmin, w.org.ID, organisations.RoleAdmin)
		viewer := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(viewer, w.project.ID, false, permissions.ViewProject)))
		stranger := uuid.New()

		obj := scopedResource{projectID: w.project.ID}
		for _, userID := range []uuid.UUID{orgAdmin, viewer, stranger} {
			for _, action := range allFeatureActions {
				assert.Equal(t,
					eval.HasPermission(ctx, userID, action, w.project.ID),
					eval.HasObjectPermission(ctx, userID, action, obj),
					"user %s action %q", userID, action)
			}
		}
	})
}

func TestEvaluatorConfiguredMaps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		actions permissions.ActionMap
		grant   []permissions.Key
		action  permissions.Action
		want    bool
	}{
		{
			name:    "empty map denies list without a grant",
			actions: permissions.ActionMap{},
			action:  permissions.ActionList,
			want:    false,
		},
		{
			name:    "empty map allows list with the defaulted view key",
			actions: permissions.ActionMap{},
			grant:   []permissions.Key{permissions.ViewProject},
			action:  permissions.ActionList,
			want:    true,
		},
		{
			name:    "configured create allows the key holder",
			actions: permissions.ActionMap{permissions.ActionCreate: permissions.CreateFeature},
			grant:   []permissions.Key{permissions.CreateFeature},
			action:  permissions.ActionCreate,
			want:    true,
		},
		{
			name:    "unconfigured create denies even a full key set",
			actions: permissions.ActionMap{},
			grant:   permissions.Keys(),
			action:  permissions.ActionCreate,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := newWorld(t)
			eval := permissions.NewEvaluator(w.checker, tt.actions)
			userID := uuid.New()
			if len(tt.grant) > 0 {
				require.NoError(t, w.source.PutUserGrant(ctx,
					permissions.NewUserGrant(userID, w.project.ID, false, tt.grant...)))
			}

			assert.Equal(t, tt.want, eval.HasPermission(ctx, userID, tt.action, w.project.ID))
		})
	}
}

func TestEvaluationIsReadOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	w := newWorld(t)
	eval := permissions.NewEvaluator(w.checker, featureActions())
	userID := uuid.New()
	require.NoError(t, w.source.PutUserGrant(ctx,
		permissions.NewUserGrant(userID, w.project.ID, false, permissions.ViewProject)))

	before, err := w.source.UserGrantsByProject(ctx, w.project.ID)
	require.NoError(t, err)

	for range 10 {
		eval.HasPermission(ctx, userID, permissions.ActionList, w.project.ID)
		eval.HasPermission(ctx, uuid.New(), permissions.ActionDestroy, w.project.ID)
	}

	after, err := w.source.UserGrantsByProject(ctx, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "evaluation must never mutate grants")
}
