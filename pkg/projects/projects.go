package projects

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Limit defaults applied by NewProject. A zero limit is valid and means the
// resource is disabled, so the defaults are applied at construction rather
// than at read time.
const (
	DefaultMaxFeaturesAllowed         = 400
	DefaultMaxSegmentsAllowed         = 100
	DefaultMaxSegmentOverridesAllowed = 100
)

// Project belongs to exactly one organisation and carries the settings the
// rest of the platform reads: flag visibility rules, feature naming rules,
// realtime delivery, edge identity serving and resource limits.
type Project struct {
	ID             uuid.UUID
	OrganisationID uuid.UUID
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// HideDisabledFlags hides disabled flags from client SDKs.
	HideDisabledFlags bool
	// PreventFlagDefaults forces flag state to be set per environment
	// instead of inheriting a project-wide default.
	PreventFlagDefaults bool
	// EnableRealtimeUpdates opts the project into realtime change delivery.
	EnableRealtimeUpdates bool
	// EdgeEnabled marks the project's identities as eligible for the edge
	// identity store.
	EdgeEnabled bool

	// OnlyAllowLowerCaseFeatureNames restricts feature names to lower case.
	OnlyAllowLowerCaseFeatureNames bool
	// FeatureNameRegex optionally constrains feature names further. Empty
	// means no custom rule.
	FeatureNameRegex string

	MaxFeaturesAllowed         int
	MaxSegmentsAllowed         int
	MaxSegmentOverridesAllowed int
}

// NewProject returns a project with a fresh ID and default settings.
func NewProject(orgID uuid.UUID, name string) Project {
	now := time.Now().UTC()
	return Project{
		ID:                             uuid.New(),
		OrganisationID:                 orgID,
		Name:                           strings.TrimSpace(name),
		CreatedAt:                      now,
		UpdatedAt:                      now,
		OnlyAllowLowerCaseFeatureNames: true,
		MaxFeaturesAllowed:             DefaultMaxFeaturesAllowed,
		MaxSegmentsAllowed:             DefaultMaxSegmentsAllowed,
		MaxSegmentOverridesAllowed:     DefaultMaxSegmentOverridesAllowed,
	}
}

// Validate checks the project is storable. An unparsable FeatureNameRegex is
// rejected here so feature creation never trips over it later.
func (p Project) Validate() error {
	if p.ID == uuid.Nil || p.OrganisationID == uuid.Nil || p.Name == "" {
		return ErrInvalidProject
	}
	if p.MaxFeaturesAllowed < 0 || p.MaxSegmentsAllowed < 0 || p.MaxSegmentOverridesAllowed < 0 {
		return errors.Join(ErrInvalidProject, errors.New("limits must not be negative"))
	}
	if p.FeatureNameRegex != "" {
		if _, err := regexp.Compile(p.FeatureNameRegex); err != nil {
			return errors.Join(ErrInvalidProject, err)
		}
	}
	return nil
}
