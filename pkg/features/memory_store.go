package features

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store, safe for concurrent
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	features map[uuid.UUID]Feature
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{features: make(map[uuid.UUID]Feature)}
}

func (s *MemoryStore) Create(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(f.ProjectID, f.Name, uuid.Nil) {
		return ErrDuplicateName
	}

	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}
	s.features[f.ID] = f
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.features[f.ID]
	if !ok {
		return ErrFeatureNotFound
	}
	if s.nameTaken(current.ProjectID, f.Name, f.ID) {
		return ErrDuplicateName
	}

	f.ProjectID = current.ProjectID
	f.CreatedAt = current.CreatedAt
	f.UpdatedAt = time.Now().UTC()
	s.features[f.ID] = f
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.features[id]; !ok {
		return ErrFeatureNotFound
	}
	delete(s.features, id)
	return nil
}

func (s *MemoryStore) Feature(ctx context.Context, id uuid.UUID) (*Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.features[id]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	return &f, nil
}

func (s *MemoryStore) ByProject(ctx context.Context, projectID uuid.UUID) ([]Feature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []Feature
	for _, f := range s.features {
		if f.ProjectID == projectID {
			list = append(list, f)
		}
	}
	slices.SortFunc(list, func(a, b Feature) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list, nil
}

func (s *MemoryStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, f := range s.features {
		if f.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

// nameTaken reports whether another feature in the project already uses the
// name. Callers hold the lock.
func (s *MemoryStore) nameTaken(projectID uuid.UUID, name string, exclude uuid.UUID) bool {
	for _, f := range s.features {
		if f.ProjectID == projectID && f.ID != exclude && strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

var _ Store = (*MemoryStore)(nil)
