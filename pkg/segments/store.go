package segments

import (
	"context"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/projects"
)

// Store persists segments. Absence is reported as ErrSegmentNotFound.
// CountByProject makes every store a projects.ResourceCounter.
type Store interface {
	Create(ctx context.Context, s Segment) error
	Update(ctx context.Context, s Segment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Segment(ctx context.Context, id uuid.UUID) (*Segment, error)
	ByProject(ctx context.Context, projectID uuid.UUID) ([]Segment, error)
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)
}

// ProjectSource resolves the project whose limits and realtime settings
// apply. The stores in the projects package satisfy it.
type ProjectSource interface {
	Project(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}
