package organisations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store. It is safe for
// concurrent use and useful for tests and single-process deployments.
type MemoryStore struct {
	mu           sync.RWMutex
	orgs         map[uuid.UUID]Organisation
	members      map[uuid.UUID]map[uuid.UUID]Membership // orgID -> userID -> membership
	groups       map[uuid.UUID]Group
	groupMembers map[uuid.UUID]map[uuid.UUID]struct{} // groupID -> userID set
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:         make(map[uuid.UUID]Organisation),
		members:      make(map[uuid.UUID]map[uuid.UUID]Membership),
		groups:       make(map[uuid.UUID]Group),
		groupMembers: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (s *MemoryStore) CreateOrganisation(ctx context.Context, org Organisation) error {
	if err := org.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}
	s.orgs[org.ID] = org
	return nil
}

func (s *MemoryStore) Organisation(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, ErrOrganisationNotFound
	}
	return &org, nil
}

func (s *MemoryStore) DeleteOrganisation(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[id]; !ok {
		return ErrOrganisationNotFound
	}
	delete(s.orgs, id)
	delete(s.members, id)
	for gid, g := range s.groups {
		if g.OrganisationID == id {
			delete(s.groups, gid)
			delete(s.groupMembers, gid)
		}
	}
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, orgID, userID uuid.UUID, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[orgID]; !ok {
		return ErrOrganisationNotFound
	}
	if _, ok := s.members[orgID][userID]; ok {
		return ErrAlreadyMember
	}
	if s.members[orgID] == nil {
		s.members[orgID] = make(map[uuid.UUID]Membership)
	}
	s.members[orgID][userID] = Membership{
		UserID:         userID,
		OrganisationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) Membership(ctx context.Context, userID, orgID uuid.UUID) (*Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[orgID][userID]
	if !ok {
		return nil, ErrMembershipNotFound
	}
	return &m, nil
}

func (s *MemoryStore) Members(ctx context.Context, orgID uuid.UUID) ([]Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Membership, 0, len(s.members[orgID]))
	for _, m := range s.members[orgID] {
		list = append(list, m)
	}
	return list, nil
}

func (s *MemoryStore) UpdateMemberRole(ctx context.Context, userID, orgID uuid.UUID, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[orgID][userID]
	if !ok {
		return ErrMembershipNotFound
	}
	m.Role = role
	s.members[orgID][userID] = m
	return nil
}

func (s *MemoryStore) RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[orgID][userID]; !ok {
		return ErrMembershipNotFound
	}
	delete(s.members[orgID], userID)

	// Membership in a group implies membership in its organisation.
	for gid, g := range s.groups {
		if g.OrganisationID == orgID {
			delete(s.groupMembers[gid], userID)
		}
	}
	return nil
}

func (s *MemoryStore) CreateGroup(ctx context.Context, group Group) error {
	if err := group.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[group.OrganisationID]; !ok {
		return ErrOrganisationNotFound
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	s.groups[group.ID] = group
	return nil
}

func (s *MemoryStore) Group(ctx context.Context, id uuid.UUID) (*Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return &g, nil
}

func (s *MemoryStore) GroupsByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []Group
	for _, g := range s.groups {
		if g.OrganisationID == orgID {
			list = append(list, g)
		}
	}
	return list, nil
}

func (s *MemoryStore) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return ErrGroupNotFound
	}
	delete(s.groups, id)
	delete(s.groupMembers, id)
	return nil
}

func (s *MemoryStore) AddGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return ErrGroupNotFound
	}
	if _, ok := s.members[g.OrganisationID][userID]; !ok {
		return ErrNotOrganisationMember
	}
	if s.groupMembers[groupID] == nil {
		s.groupMembers[groupID] = make(map[uuid.UUID]struct{})
	}
	s.groupMembers[groupID][userID] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return ErrGroupNotFound
	}
	delete(s.groupMembers[groupID], userID)
	return nil
}

func (s *MemoryStore) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.groups[groupID]; !ok {
		return nil, ErrGroupNotFound
	}
	list := make([]uuid.UUID, 0, len(s.groupMembers[groupID]))
	for id := range s.groupMembers[groupID] {
		list = append(list, id)
	}
	return list, nil
}

func (s *MemoryStore) UserGroups(ctx context.Context, userID, orgID uuid.UUID) ([]Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []Group
	for gid, g := range s.groups {
		if g.OrganisationID != orgID {
			continue
		}
		if _, ok := s.groupMembers[gid][userID]; ok {
			list = append(list, g)
		}
	}
	return list, nil
}

var _ Store = (*MemoryStore)(nil)
