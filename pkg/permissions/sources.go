package permissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/organisations"
	"github.com/flagkit/flagkit/pkg/projects"
)

// ProjectSource resolves a project to its organisation and settings. The
// stores in the projects package satisfy it.
type ProjectSource interface {
	Project(ctx context.Context, id uuid.UUID) (*projects.Project, error)
}

// MembershipSource looks up a user's membership in an organisation. Absence
// is organisations.ErrMembershipNotFound, not an error condition. The stores
// in the organisations package satisfy it, as do MemorySource and
// MongoSource here.
type MembershipSource interface {
	Membership(ctx context.Context, userID, orgID uuid.UUID) (*organisations.Membership, error)
}

// GrantSource supplies the grants evaluation unions. Both methods return an
// empty slice for users without grants; they never translate absence into an
// error.
type GrantSource interface {
	// UserGrants returns the user's direct grants on the project.
	UserGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error)
	// GroupGrants returns the grants held on the project by every group the
	// user is a member of.
	GroupGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error)
}

// GrantStore extends GrantSource with the management surface the Service
// validates and exposes.
type GrantStore interface {
	GrantSource

	// PutUserGrant inserts or replaces the user's grant on the project.
	PutUserGrant(ctx context.Context, grant UserGrant) error
	// PutGroupGrant inserts or replaces the group's grant on the project.
	PutGroupGrant(ctx context.Context, grant GroupGrant) error

	// DeleteUserGrant removes a grant by ID, returning the removed grant or
	// ErrGrantNotFound.
	DeleteUserGrant(ctx context.Context, id uuid.UUID) (*UserGrant, error)
	// DeleteGroupGrant removes a grant by ID, returning the removed grant or
	// ErrGrantNotFound.
	DeleteGroupGrant(ctx context.Context, id uuid.UUID) (*GroupGrant, error)

	UserGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]UserGrant, error)
	GroupGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]GroupGrant, error)
}
