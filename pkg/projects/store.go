package projects

import (
	"context"

	"github.com/google/uuid"
)

// Store persists projects. Absence is reported as ErrProjectNotFound.
type Store interface {
	Create(ctx context.Context, p Project) error
	Update(ctx context.Context, p Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	Project(ctx context.Context, id uuid.UUID) (*Project, error)
	ByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Project, error)
}

// ResourceCounter reports how many child resources of one kind a project
// holds. Feature and segment stores satisfy it; the details service uses it
// for derived totals and services use it to enforce project limits.
type ResourceCounter interface {
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}
