package realtime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies what changed inside a project.
type Kind string

const (
	KindGrants   Kind = "grants"
	KindProject  Kind = "project"
	KindFeatures Kind = "features"
	KindSegments Kind = "segments"
)

// Update is a change notification scoped to a single project. Consumers use
// it as an invalidation hint and re-read state through the regular stores;
// the update itself carries no payload beyond what changed and when.
type Update struct {
	ProjectID uuid.UUID `json:"project_id"`
	Kind      Kind      `json:"kind"`
	At        time.Time `json:"at"`
}

// NewUpdate creates an update stamped with the current time.
func NewUpdate(projectID uuid.UUID, kind Kind) Update {
	return Update{
		ProjectID: projectID,
		Kind:      kind,
		At:        time.Now().UTC(),
	}
}

// Publisher delivers updates to interested consumers. Implementations must
// be safe for concurrent use and must not block the caller on slow
// consumers.
type Publisher interface {
	Publish(ctx context.Context, update Update) error
}
