package features

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/projects"
)

// Type distinguishes plain boolean flags from multivariate ones.
type Type string

const (
	TypeStandard     Type = "standard"
	TypeMultivariate Type = "multivariate"
)

// Valid reports whether the type is one of the known feature types.
func (t Type) Valid() bool {
	return t == TypeStandard || t == TypeMultivariate
}

// Feature is a flag definition scoped to a project. State and values are
// configured per environment elsewhere; what lives here is the identity,
// the type, and the project-wide defaults.
type Feature struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Description string
	Type        Type
	// InitialValue seeds the feature's value in every environment.
	InitialValue string
	// DefaultEnabled seeds the feature's state in every environment.
	DefaultEnabled bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New returns a standard feature with a fresh ID.
func New(projectID uuid.UUID, name string) Feature {
	now := time.Now().UTC()
	return Feature{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		Type:      TypeStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParentProject reports the project the feature belongs to, which is what
// authorization decisions key on.
func (f Feature) ParentProject() uuid.UUID {
	return f.ProjectID
}

// Validate checks the feature is storable.
func (f Feature) Validate() error {
	if f.ID == uuid.Nil || f.ProjectID == uuid.Nil {
		return ErrInvalidFeature
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFeature)
	}
	if !f.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFeature, f.Type)
	}
	return nil
}

// ValidateName applies the owning project's naming rules: the lower-case
// restriction when the project opts in, and the project's name regex, which
// must match the whole name.
func ValidateName(name string, project *projects.Project) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if project.OnlyAllowLowerCaseFeatureNames && name != strings.ToLower(name) {
		return fmt.Errorf("%w: project allows lower case feature names only", ErrInvalidName)
	}
	if project.FeatureNameRegex != "" {
		re, err := regexp.Compile("^(?:" + project.FeatureNameRegex + ")$")
		if err != nil {
			// Unparsable patterns are rejected at project validation; a
			// stored one still must not let arbitrary names through.
			return fmt.Errorf("%w: invalid project name rule", ErrInvalidName)
		}
		if !re.MatchString(name) {
			return fmt.Errorf("%w: name must match %q", ErrInvalidName, project.FeatureNameRegex)
		}
	}
	return nil
}
