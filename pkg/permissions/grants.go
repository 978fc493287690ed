package permissions

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Grant is the read shape evaluation works with: an admin flag plus a set of
// permission keys. Admin grants every action on the project regardless of
// the keys; keys are purely additive, there is no deny.
type Grant struct {
	Admin bool
	Keys  []Key
}

// UserGrant attaches a Grant to a single user on a project. A user holds at
// most one grant per project; PutUserGrant replaces the previous one.
type UserGrant struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Admin     bool
	Keys      []Key
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserGrant returns a grant with a fresh ID for the given user and
// project.
func NewUserGrant(userID, projectID uuid.UUID, admin bool, keys ...Key) UserGrant {
	now := time.Now().UTC()
	return UserGrant{
		ID:        uuid.New(),
		UserID:    userID,
		ProjectID: projectID,
		Admin:     admin,
		Keys:      keys,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Grant returns the read shape of the user grant.
func (g UserGrant) Grant() Grant {
	return Grant{Admin: g.Admin, Keys: slices.Clone(g.Keys)}
}

// GroupGrant attaches a Grant to a permission group on a project. Every
// member of the group holds the grant; a group holds at most one grant per
// project.
type GroupGrant struct {
	ID        uuid.UUID
	GroupID   uuid.UUID
	ProjectID uuid.UUID
	Admin     bool
	Keys      []Key
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroupGrant returns a grant with a fresh ID for the given group and
// project.
func NewGroupGrant(groupID, projectID uuid.UUID, admin bool, keys ...Key) GroupGrant {
	now := time.Now().UTC()
	return GroupGrant{
		ID:        uuid.New(),
		GroupID:   groupID,
		ProjectID: projectID,
		Admin:     admin,
		Keys:      keys,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Grant returns the read shape of the group grant.
func (g GroupGrant) Grant() Grant {
	return Grant{Admin: g.Admin, Keys: slices.Clone(g.Keys)}
}

// EffectiveGrant is what a user effectively holds on one project: the union
// of their direct grant and every grant of a group they belong to. The zero
// value is the empty grant, which is what users without any grant hold.
type EffectiveGrant struct {
	admin bool
	keys  map[Key]struct{}
}

// CombineGrants folds grants into an effective grant: Admin is the OR of
// all admin flags, the key set is the union of all key sets.
func CombineGrants(grants ...Grant) EffectiveGrant {
	eff := EffectiveGrant{}
	for _, g := range grants {
		eff.admin = eff.admin || g.Admin
		for _, k := range g.Keys {
			if eff.keys == nil {
				eff.keys = make(map[Key]struct{})
			}
			eff.keys[k] = struct{}{}
		}
	}
	return eff
}

// IsAdmin reports whether any contributing grant carried the admin flag.
func (g EffectiveGrant) IsAdmin() bool {
	return g.admin
}

// Has reports whether the key is in the effective set. Admin does not imply
// Has; callers check IsAdmin first.
func (g EffectiveGrant) Has(key Key) bool {
	_, ok := g.keys[key]
	return ok
}

// Keys returns the effective key set in sorted order.
func (g EffectiveGrant) Keys() []Key {
	keys := make([]Key, 0, len(g.keys))
	for k := range g.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Empty reports whether the grant conveys nothing at all.
func (g EffectiveGrant) Empty() bool {
	return !g.admin && len(g.keys) == 0
}
