package organisations

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's role within an organisation. There are exactly two:
// admins hold every permission on everything the organisation owns, members
// hold only what their project grants give them.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// Organisation is the top-level tenant. Projects, permission groups and
// memberships all hang off an organisation.
type Organisation struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// NewOrganisation returns an organisation with a fresh ID.
func NewOrganisation(name string) Organisation {
	return Organisation{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the organisation is storable.
func (o Organisation) Validate() error {
	if o.ID == uuid.Nil || o.Name == "" {
		return ErrInvalidOrganisation
	}
	return nil
}

// Membership ties a user to an organisation with a role. A user holds at
// most one membership per organisation.
type Membership struct {
	UserID         uuid.UUID
	OrganisationID uuid.UUID
	Role           Role
	CreatedAt      time.Time
}

// IsAdmin reports whether the membership carries the admin role.
func (m Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Group is a named collection of users within one organisation. Groups exist
// so project permissions can be granted to many users at once.
type Group struct {
	ID             uuid.UUID
	OrganisationID uuid.UUID
	Name           string
	CreatedAt      time.Time
}

// NewGroup returns a group with a fresh ID belonging to the organisation.
func NewGroup(orgID uuid.UUID, name string) Group {
	return Group{
		ID:             uuid.New(),
		OrganisationID: orgID,
		Name:           strings.TrimSpace(name),
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate checks the group is storable.
func (g Group) Validate() error {
	if g.ID == uuid.Nil || g.OrganisationID == uuid.Nil || g.Name == "" {
		return ErrInvalidGroup
	}
	return nil
}
