package permissions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/organisations"
)

// MemorySource is a self-contained in-memory MembershipSource and
// GrantStore, with fixture helpers for memberships and group membership. It
// is safe for concurrent use and returns deep copies, so callers can never
// reach the shared state through a result.
type MemorySource struct {
	mu           sync.RWMutex
	memberships  map[uuid.UUID]map[uuid.UUID]organisations.Membership // orgID -> userID
	groupMembers map[uuid.UUID]map[uuid.UUID]struct{}                 // groupID -> userID set
	userGrants   map[uuid.UUID]UserGrant                              // by grant ID
	groupGrants  map[uuid.UUID]GroupGrant                             // by grant ID
}

// NewMemorySource creates an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		memberships:  make(map[uuid.UUID]map[uuid.UUID]organisations.Membership),
		groupMembers: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		userGrants:   make(map[uuid.UUID]UserGrant),
		groupGrants:  make(map[uuid.UUID]GroupGrant),
	}
}

// SetMembership records the user's membership role in the organisation,
// replacing any previous role.
func (s *MemorySource) SetMembership(userID, orgID uuid.UUID, role organisations.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memberships[orgID] == nil {
		s.memberships[orgID] = make(map[uuid.UUID]organisations.Membership)
	}
	s.memberships[orgID][userID] = organisations.Membership{
		UserID:         userID,
		OrganisationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
}

// RemoveMembership drops the user's membership in the organisation.
func (s *MemorySource) RemoveMembership(userID, orgID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memberships[orgID], userID)
}

// AddGroupMember puts the user into the group.
func (s *MemorySource) AddGroupMember(groupID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.groupMembers[groupID] == nil {
		s.groupMembers[groupID] = make(map[uuid.UUID]struct{})
	}
	s.groupMembers[groupID][userID] = struct{}{}
}

// RemoveGroupMember takes the user out of the group. Their group-derived
// grants stop applying on the next evaluation.
func (s *MemorySource) RemoveGroupMember(groupID, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groupMembers[groupID], userID)
}

// Membership implements MembershipSource.
func (s *MemorySource) Membership(ctx context.Context, userID, orgID uuid.UUID) (*organisations.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[orgID][userID]
	if !ok {
		return nil, organisations.ErrMembershipNotFound
	}
	return &m, nil
}

// UserGrants implements GrantSource.
func (s *MemorySource) UserGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []Grant
	for _, g := range s.userGrants {
		if g.UserID == userID && g.ProjectID == projectID {
			grants = append(grants, g.Grant())
		}
	}
	return grants, nil
}

// GroupGrants implements GrantSource: the grants of every group the user
// belongs to that holds one on the project.
func (s *MemorySource) GroupGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grants []Grant
	for _, g := range s.groupGrants {
		if g.ProjectID != projectID {
			continue
		}
		if _, ok := s.groupMembers[g.GroupID][userID]; ok {
			grants = append(grants, g.Grant())
		}
	}
	return grants, nil
}

// PutUserGrant implements GrantStore. A grant already held by the user on
// the project is replaced in place, keeping its ID and creation time.
func (s *MemorySource) PutUserGrant(ctx context.Context, grant UserGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant.Keys = slices.Clone(grant.Keys)
	now := time.Now().UTC()
	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = now
	}
	grant.UpdatedAt = now

	for id, existing := range s.userGrants {
		if existing.UserID == grant.UserID && existing.ProjectID == grant.ProjectID {
			grant.ID = existing.ID
			grant.CreatedAt = existing.CreatedAt
			s.userGrants[id] = grant
			return nil
		}
	}
	s.userGrants[grant.ID] = grant
	return nil
}

// PutGroupGrant implements GrantStore with the same replace semantics as
// PutUserGrant.
func (s *MemorySource) PutGroupGrant(ctx context.Context, grant GroupGrant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant.Keys = slices.Clone(grant.Keys)
	now := time.Now().UTC()
	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = now
	}
	grant.UpdatedAt = now

	for id, existing := range s.groupGrants {
		if existing.GroupID == grant.GroupID && existing.ProjectID == grant.ProjectID {
			grant.ID = existing.ID
			grant.CreatedAt = existing.CreatedAt
			s.groupGrants[id] = grant
			return nil
		}
	}
	s.groupGrants[grant.ID] = grant
	return nil
}

// DeleteUserGrant implements GrantStore.
func (s *MemorySource) DeleteUserGrant(ctx context.Context, id uuid.UUID) (*UserGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.userGrants[id]
	if !ok {
		return nil, ErrGrantNotFound
	}
	delete(s.userGrants, id)
	g.Keys = slices.Clone(g.Keys)
	return &g, nil
}

// DeleteGroupGrant implements GrantStore.
func (s *MemorySource) DeleteGroupGrant(ctx context.Context, id uuid.UUID) (*GroupGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groupGrants[id]
	if !ok {
		return nil, ErrGrantNotFound
	}
	delete(s.groupGrants, id)
	g.Keys = slices.Clone(g.Keys)
	return &g, nil
}

// UserGrantsByProject implements GrantStore.
func (s *MemorySource) UserGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]UserGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []UserGrant
	for _, g := range s.userGrants {
		if g.ProjectID == projectID {
			g.Keys = slices.Clone(g.Keys)
			list = append(list, g)
		}
	}
	slices.SortFunc(list, func(a, b UserGrant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list, nil
}

// GroupGrantsByProject implements GrantStore.
func (s *MemorySource) GroupGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]GroupGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []GroupGrant
	for _, g := range s.groupGrants {
		if g.ProjectID == projectID {
			g.Keys = slices.Clone(g.Keys)
			list = append(list, g)
		}
	}
	slices.SortFunc(list, func(a, b GroupGrant) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list, nil
}

var (
	_ MembershipSource = (*MemorySource)(nil)
	_ GrantStore       = (*MemorySource)(nil)
)
