package projects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Summary is the project read model served by listings: the project plus its
// edge migration state.
type Summary struct {
	Project
	MigrationStatus   MigrationStatus
	UseEdgeIdentities bool
}

// Details extends Summary with derived child counts, served on single
// project reads.
type Details struct {
	Summary
	TotalFeatures int
	TotalSegments int
}

// DetailsOption configures the details service.
type DetailsOption func(*DetailsService)

// WithMigrator wires the edge metadata reader. Without one every project
// reports NOT_APPLICABLE.
func WithMigrator(m IdentityMigrator) DetailsOption {
	return func(s *DetailsService) { s.migrator = m }
}

// WithEdgeRelease marks the time from which new projects are edge-by-default
// and skip the metadata lookup.
func WithEdgeRelease(t time.Time) DetailsOption {
	return func(s *DetailsService) { s.edgeReleaseAt = t }
}

func WithDetailsLogger(log *slog.Logger) DetailsOption {
	return func(s *DetailsService) {
		if log != nil {
			s.log = log
		}
	}
}

// DetailsService assembles the project read model from the project store,
// the feature and segment counters and the edge metadata store.
type DetailsService struct {
	store         Store
	features      ResourceCounter
	segments      ResourceCounter
	migrator      IdentityMigrator
	edgeReleaseAt time.Time
	log           *slog.Logger
}

// NewDetailsService creates the read model service. The counters come from
// the feature and segment stores.
func NewDetailsService(store Store, features, segments ResourceCounter, opts ...DetailsOption) *DetailsService {
	s := &DetailsService{
		store:    store,
		features: features,
		segments: segments,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Details returns the full read model for one project.
func (s *DetailsService) Details(ctx context.Context, id uuid.UUID) (*Details, error) {
	p, err := s.store.Project(ctx, id)
	if err != nil {
		return nil, err
	}

	totalFeatures, err := s.features.CountByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count features: %w", err)
	}
	totalSegments, err := s.segments.CountByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count segments: %w", err)
	}

	return &Details{
		Summary:       s.summarize(ctx, *p),
		TotalFeatures: totalFeatures,
		TotalSegments: totalSegments,
	}, nil
}

// List returns summaries for all projects of an organisation. Listings skip
// the child counts, those are only derived on single reads.
func (s *DetailsService) List(ctx context.Context, orgID uuid.UUID) ([]Summary, error) {
	list, err := s.store.ByOrganisation(ctx, orgID)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(list))
	for _, p := range list {
		summaries = append(summaries, s.summarize(ctx, p))
	}
	return summaries, nil
}

func (s *DetailsService) summarize(ctx context.Context, p Project) Summary {
	status := s.migrationStatus(ctx, p)
	return Summary{
		Project:           p,
		MigrationStatus:   status,
		UseEdgeIdentities: status == MigrationCompleted,
	}
}

func (s *DetailsService) migrationStatus(ctx context.Context, p Project) MigrationStatus {
	if s.migrator == nil {
		return MigrationNotApplicable
	}
	if s.edgeByDefault(p) {
		return MigrationCompleted
	}

	status, err := s.migrator.MigrationStatus(ctx, p.ID)
	if err != nil {
		// The read model stays available when the metadata store is down,
		// the project just reads as not yet migrated.
		s.log.WarnContext(ctx, "edge migration status unavailable",
			slog.Any("project_id", p.ID),
			slog.Any("error", err),
		)
		return MigrationNotStarted
	}
	return status
}

func (s *DetailsService) edgeByDefault(p Project) bool {
	return !s.edgeReleaseAt.IsZero() && !p.CreatedAt.Before(s.edgeReleaseAt)
}
