package permissions

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/realtime"
)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger for publish failures.
func WithServiceLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPublisher wires change notifications: every successful write publishes
// a grants update for the affected project. Without a publisher, writes are
// silent.
func WithPublisher(publisher realtime.Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// Service is the validated write surface for grants. Reads during evaluation
// go through Checker; admin UIs and provisioning code go through here so
// that no store ever holds a grant with unknown keys or a non-admin grant
// that conveys nothing.
type Service struct {
	store     GrantStore
	log       *slog.Logger
	publisher realtime.Publisher
}

// NewService creates the grant management service. The store is required;
// construction panics on nil.
func NewService(store GrantStore, opts ...ServiceOption) *Service {
	if store == nil {
		panic("permissions: GrantStore is required")
	}

	s := &Service{
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutUserGrant validates and upserts the user's grant on the project,
// replacing any previous one. Keys must come from the registry and are
// de-duplicated; a non-admin grant needs at least one key. A zero grant ID
// gets a fresh one.
func (s *Service) PutUserGrant(ctx context.Context, grant UserGrant) (*UserGrant, error) {
	if grant.UserID == uuid.Nil || grant.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and project are required", ErrInvalidGrant)
	}

	keys, err := normalizeKeys(grant.Admin, grant.Keys)
	if err != nil {
		return nil, err
	}
	grant.Keys = keys
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}

	if err := s.store.PutUserGrant(ctx, grant); err != nil {
		return nil, err
	}

	s.publish(ctx, grant.ProjectID)
	return &grant, nil
}

// PutGroupGrant validates and upserts the group's grant on the project with
// the same rules as PutUserGrant. Stores additionally reject groups from a
// different organisation than the project's (ErrOrganisationMismatch).
func (s *Service) PutGroupGrant(ctx context.Context, grant GroupGrant) (*GroupGrant, error) {
	if grant.GroupID == uuid.Nil || grant.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: group and project are required", ErrInvalidGrant)
	}

	keys, err := normalizeKeys(grant.Admin, grant.Keys)
	if err != nil {
		return nil, err
	}
	grant.Keys = keys
	if grant.ID == uuid.Nil {
		grant.ID = uuid.New()
	}

	if err := s.store.PutGroupGrant(ctx, grant); err != nil {
		return nil, err
	}

	s.publish(ctx, grant.ProjectID)
	return &grant, nil
}

// DeleteUserGrant revokes a grant by ID and returns what was removed.
// Revocation takes effect on the next evaluation; nothing is cached.
func (s *Service) DeleteUserGrant(ctx context.Context, id uuid.UUID) (*UserGrant, error) {
	grant, err := s.store.DeleteUserGrant(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, grant.ProjectID)
	return grant, nil
}

// DeleteGroupGrant revokes a group grant by ID and returns what was removed,
// withdrawing it from every member at once.
func (s *Service) DeleteGroupGrant(ctx context.Context, id uuid.UUID) (*GroupGrant, error) {
	grant, err := s.store.DeleteGroupGrant(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, grant.ProjectID)
	return grant, nil
}

// UserGrantsByProject lists every user grant on the project for admin
// surfaces.
func (s *Service) UserGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]UserGrant, error) {
	return s.store.UserGrantsByProject(ctx, projectID)
}

// GroupGrantsByProject lists every group grant on the project for admin
// surfaces.
func (s *Service) GroupGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]GroupGrant, error) {
	return s.store.GroupGrantsByProject(ctx, projectID)
}

func (s *Service) publish(ctx context.Context, projectID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.NewUpdate(projectID, realtime.KindGrants)); err != nil {
		s.log.WarnContext(ctx, "failed to publish grants update",
			slog.Any("project_id", projectID),
			slog.Any("error", err),
		)
	}
}

// normalizeKeys validates keys against the registry, drops duplicates, and
// sorts the result. Admin grants may carry an empty set; non-admin grants
// must name at least one key.
func normalizeKeys(admin bool, keys []Key) ([]Key, error) {
	seen := make(map[Key]struct{}, len(keys))
	normalized := make([]Key, 0, len(keys))
	for _, k := range keys {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, string(k))
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		normalized = append(normalized, k)
	}

	if !admin && len(normalized) == 0 {
		return nil, ErrEmptyGrant
	}

	slices.Sort(normalized)
	return normalized, nil
}
