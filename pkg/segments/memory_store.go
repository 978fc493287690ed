package segments

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store, safe for concurrent
// use.
type MemoryStore struct {
	mu       sync.RWMutex
	segments map[uuid.UUID]Segment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{segments: make(map[uuid.UUID]Segment)}
}

func (s *MemoryStore) Create(ctx context.Context, seg Segment) error {
	if err := seg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if seg.CreatedAt.IsZero() {
		seg.CreatedAt = now
	}
	if seg.UpdatedAt.IsZero() {
		seg.UpdatedAt = now
	}
	s.segments[seg.ID] = seg
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, seg Segment) error {
	if err := seg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.segments[seg.ID]
	if !ok {
		return ErrSegmentNotFound
	}
	seg.ProjectID = current.ProjectID
	seg.CreatedAt = current.CreatedAt
	seg.UpdatedAt = time.Now().UTC()
	s.segments[seg.ID] = seg
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.segments[id]; !ok {
		return ErrSegmentNotFound
	}
	delete(s.segments, id)
	return nil
}

func (s *MemoryStore) Segment(ctx context.Context, id uuid.UUID) (*Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seg, ok := s.segments[id]
	if !ok {
		return nil, ErrSegmentNotFound
	}
	return &seg, nil
}

func (s *MemoryStore) ByProject(ctx context.Context, projectID uuid.UUID) ([]Segment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []Segment
	for _, seg := range s.segments {
		if seg.ProjectID == projectID {
			list = append(list, seg)
		}
	}
	slices.SortFunc(list, func(a, b Segment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return list, nil
}

func (s *MemoryStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, seg := range s.segments {
		if seg.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

var _ Store = (*MemoryStore)(nil)
