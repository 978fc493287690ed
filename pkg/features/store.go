package features

import (
	"context"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/projects"
)

// Store persists features. Absence is reported as ErrFeatureNotFound and a
// name collision within a project as ErrDuplicateName. CountByProject makes
// every store a projects.ResourceCounter.
type Store interface {
	Create(ctx context.Context, f Feature) error
	Update(ctx context.Context, f Feature) error
	Delete(ctx context.Context, id uuid.UUID) error
	Feature(ctx context.Context, id uuid.UUID) (*Feature, error)
	ByProject(ctx context.Context, projectID uuid.UUID) ([]Feature, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

// ProjectSource resolves the project whose settings govern validation and
// realtime delivery. The stores in the projects package satisfy it.
type ProjectSource interface {
	Project(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}
