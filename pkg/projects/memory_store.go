package projects

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store, safe for concurrent
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]Project
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[uuid.UUID]Project)}
}

func (s *MemoryStore) Create(ctx context.Context, p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	s.projects[p.ID] = p
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects[p.ID]
	if !ok {
		return ErrProjectNotFound
	}
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	s.projects[p.ID] = p
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return ErrProjectNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) Project(ctx context.Context, id uuid.UUID) (*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []Project
	for _, p := range s.projects {
		if p.OrganisationID == orgID {
			list = append(list, p)
		}
	}
	return list, nil
}

var _ Store = (*MemoryStore)(nil)
