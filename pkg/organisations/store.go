package organisations

import (
	"context"

	"github.com/google/uuid"
)

// Store persists organisations, memberships and permission groups.
//
// Absence is reported through the package sentinels, never through nil
// results, so callers can rely on errors.Is branching.
type Store interface {
	CreateOrganisation(ctx context.Context, org Organisation) error
	Organisation(ctx context.Context, id uuid.UUID) (*Organisation, error)
	DeleteOrganisation(ctx context.Context, id uuid.UUID) error

	// AddMember creates a membership. It fails with ErrAlreadyMember when the
	// user already belongs to the organisation; the role is changed with
	// UpdateMemberRole instead.
	AddMember(ctx context.Context, orgID, userID uuid.UUID, role Role) error
	Membership(ctx context.Context, userID, orgID uuid.UUID) (*Membership, error)
	Members(ctx context.Context, orgID uuid.UUID) ([]Membership, error)
	UpdateMemberRole(ctx context.Context, userID, orgID uuid.UUID, role Role) error
	// RemoveMember deletes the membership along with the user's group
	// memberships in that organisation.
	RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error

	CreateGroup(ctx context.Context, group Group) error
	Group(ctx context.Context, id uuid.UUID) (*Group, error)
	GroupsByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Group, error)
	DeleteGroup(ctx context.Context, id uuid.UUID) error

	// AddGroupMember adds a user to a group. The user must already be a
	// member of the group's organisation.
	AddGroupMember(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveGroupMember(ctx context.Context, groupID, userID uuid.UUID) error
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
	UserGroups(ctx context.Context, userID, orgID uuid.UUID) ([]Group, error)
}
