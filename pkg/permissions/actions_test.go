package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/permissions"
	"github.com/flagkit/flagkit/pkg/projects"
)

func newEvaluator(t *testing.T, actions permissions.ActionMap) *permissions.Evaluator {
	t.Helper()
	checker := permissions.NewChecker(
		projects.NewMemoryStore(),
		permissions.NewMemorySource(),
		permissions.NewMemorySource(),
	)
	return permissions.NewEvaluator(checker, actions)
}

func TestActionMapReadDefaults(t *testing.T) {
	t.Parallel()

	t.Run("list and retrieve default to view project", func(t *testing.T) {
		t.Parallel()
		eval := newEvaluator(t, nil)

		key, ok := eval.RequiredKey(permissions.ActionList)
		require.True(t, ok)
		assert.Equal(t, permissions.ViewProject, key)

		key, ok = eval.RequiredKey(permissions.ActionRetrieve)
		require.True(t, ok)
		assert.Equal(t, permissions.ViewProject, key)
	})

	t.Run("explicit mapping wins over the default", func(t *testing.T) {
		t.Parallel()
		eval := newEvaluator(t, permissions.ActionMap{
			permissions.ActionList: permissions.CreateFeature,
		})

		key, ok := eval.RequiredKey(permissions.ActionList)
		require.True(t, ok)
		assert.Equal(t, permissions.CreateFeature, key)

		// The other read action still gets the default.
		key, ok = eval.RequiredKey(permissions.ActionRetrieve)
		require.True(t, ok)
		assert.Equal(t, permissions.ViewProject, key)
	})

	t.Run("write actions stay unmapped unless configured", func(t *testing.T) {
		t.Parallel()
		eval := newEvaluator(t, nil)

		for _, action := range []permissions.Action{
			permissions.ActionCreate,
			permissions.ActionUpdate,
			permissions.ActionDestroy,
			permissions.Action("segments"),
		} {
			_, ok := eval.RequiredKey(action)
			assert.False(t, ok, "action %q must not be mapped", action)
		}
	})

	t.Run("callers map is never mutated", func(t *testing.T) {
		t.Parallel()

		actions := permissions.ActionMap{
			permissions.ActionCreate: permissions.CreateFeature,
		}
		newEvaluator(t, actions)

		assert.Len(t, actions, 1, "defaults must be applied to a copy")
		_, ok := actions[permissions.ActionList]
		assert.False(t, ok)
	})
}

func TestNewEvaluatorRequiresChecker(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		permissions.NewEvaluator(nil, nil)
	})
}
