package features_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/features"
	"github.com/flagkit/flagkit/pkg/projects"
)

func TestTypeValid(t *testing.T) {
	t.Parallel()

	assert.True(t, features.TypeStandard.Valid())
	assert.True(t, features.TypeMultivariate.Valid())
	assert.False(t, features.Type("").Valid())
	assert.False(t, features.Type("experiment").Valid())
}

func TestNew(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	f := features.New(projectID, "  dark-mode  ")

	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, projectID, f.ProjectID)
	assert.Equal(t, "dark-mode", f.Name, "names are trimmed")
	assert.Equal(t, features.TypeStandard, f.Type)
	assert.Equal(t, projectID, f.ParentProject())
	assert.False(t, f.CreatedAt.IsZero())
}

func TestFeatureValidate(t *testing.T) {
	t.Parallel()

	valid := features.New(uuid.New(), "dark-mode")
	require.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = uuid.Nil
	assert.ErrorIs(t, missingID.Validate(), features.ErrInvalidFeature)

	missingProject := valid
	missingProject.ProjectID = uuid.Nil
	assert.ErrorIs(t, missingProject.Validate(), features.ErrInvalidFeature)

	blankName := valid
	blankName.Name = "   "
	assert.ErrorIs(t, blankName.Validate(), features.ErrInvalidFeature)

	badType := valid
	badType.Type = "experiment"
	assert.ErrorIs(t, badType.Validate(), features.ErrInvalidFeature)
}

func TestValidateName(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		project := projects.NewProject(uuid.New(), "mobile-app")

		assert.ErrorIs(t, features.ValidateName("  ", &project), features.ErrInvalidName)
	})

	t.Run("lower case rule", func(t *testing.T) {
		t.Parallel()
		project := projects.NewProject(uuid.New(), "mobile-app")
		require.True(t, project.OnlyAllowLowerCaseFeatureNames, "the rule is on by default")

		assert.NoError(t, features.ValidateName("dark_mode", &project))
		assert.ErrorIs(t, features.ValidateName("Dark_Mode", &project), features.ErrInvalidName)

		project.OnlyAllowLowerCaseFeatureNames = false
		assert.NoError(t, features.ValidateName("Dark_Mode", &project))
	})

	t.Run("regex matches the whole name", func(t *testing.T) {
		t.Parallel()
		project := projects.NewProject(uuid.New(), "mobile-app")
		project.FeatureNameRegex = "[a-z_]+"

		assert.NoError(t, features.ValidateName("dark_mode", &project))
		assert.ErrorIs(t, features.ValidateName("dark-mode", &project), features.ErrInvalidName,
			"a partial match is not enough")
	})

	t.Run("anchored regex still works", func(t *testing.T) {
		t.Parallel()
		project := projects.NewProject(uuid.New(), "mobile-app")
		project.FeatureNameRegex = "^flag_[a-z]+$"

		assert.NoError(t, features.ValidateName("flag_search", &project))
		assert.ErrorIs(t, features.ValidateName("search", &project), features.ErrInvalidName)
	})

	t.Run("unparsable stored pattern rejects", func(t *testing.T) {
		t.Parallel()
		project := projects.NewProject(uuid.New(), "mobile-app")
		project.FeatureNameRegex = "(["

		assert.ErrorIs(t, features.ValidateName("dark_mode", &project), features.ErrInvalidName)
	})
}
