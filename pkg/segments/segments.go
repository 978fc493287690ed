package segments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Segment is a named audience within a project. Targeting rules and
// overrides are configured per environment elsewhere; this package manages
// the segment's identity.
type Segment struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New returns a segment with a fresh ID.
func New(projectID uuid.UUID, name string) Segment {
	now := time.Now().UTC()
	return Segment{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ParentProject reports the project the segment belongs to, which is what
// authorization decisions key on.
func (s Segment) ParentProject() uuid.UUID {
	return s.ProjectID
}

// Validate checks the segment is storable.
func (s Segment) Validate() error {
	if s.ID == uuid.Nil || s.ProjectID == uuid.Nil {
		return ErrInvalidSegment
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSegment)
	}
	return nil
}
