package features

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/projects"
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

// WithPublisher wires change notifications. Updates are only published for
// projects that opted into realtime delivery.
func WithPublisher(publisher realtime.Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// Service is the write surface for features. It resolves the owning project
// to apply its naming rules and feature limit, then persists through the
// store; reads pass straight through.
type Service struct {
	store     Store
	projects  ProjectSource
	log       *slog.Logger
	publisher realtime.Publisher
}

// NewService creates the feature service. Store and project source are
// required; construction panics on nil.
func NewService(store Store, projects ProjectSource, opts ...ServiceOption) *Service {
	if store == nil {
		panic("features: Store is required")
	}
	if projects == nil {
		panic("features: ProjectSource is required")
	}

	s := &Service{
		store:    store,
		projects: projects,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the feature against the project's naming rules and
// feature limit, then stores it. A zero ID gets a fresh one and an empty
// type defaults to standard.
func (s *Service) Create(ctx context.Context, f Feature) (*Feature, error) {
	project, err := s.projects.Project(ctx, f.ProjectID)
	if err != nil {
		return nil, err
	}

	f.Name = strings.TrimSpace(f.Name)
	if err := ValidateName(f.Name, project); err != nil {
		return nil, err
	}

	count, err := s.store.CountByProject(ctx, f.ProjectID)
	if err != nil {
		return nil, err
	}
	if count >= project.MaxFeaturesAllowed {
		return nil, ErrLimitReached
	}

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Type == "" {
		f.Type = TypeStandard
	}

	if err := s.store.Create(ctx, f); err != nil {
		return nil, err
	}

	s.publish(ctx, project)
	return &f, nil
}

// Update re-validates the name against the project's rules and stores the
// change. The feature's project never changes.
func (s *Service) Update(ctx context.Context, f Feature) (*Feature, error) {
	current, err := s.store.Feature(ctx, f.ID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Project(ctx, current.ProjectID)
	if err != nil {
		return nil, err
	}

	f.Name = strings.TrimSpace(f.Name)
	if err := ValidateName(f.Name, project); err != nil {
		return nil, err
	}
	f.ProjectID = current.ProjectID
	if f.Type == "" {
		f.Type = current.Type
	}

	if err := s.store.Update(ctx, f); err != nil {
		return nil, err
	}

	s.publish(ctx, project)
	return s.store.Feature(ctx, f.ID)
}

// Delete removes the feature.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := s.store.Feature(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		project, err := s.projects.Project(ctx, f.ProjectID)
		if err != nil {
			s.log.WarnContext(ctx, "skipping features update, project lookup failed",
				slog.Any("project_id", f.ProjectID),
				slog.Any("error", err),
			)
			return nil
		}
		s.publish(ctx, project)
	}
	return nil
}

// Feature fetches a single feature.
func (s *Service) Feature(ctx context.Context, id uuid.UUID) (*Feature, error) {
	return s.store.Feature(ctx, id)
}

// ByProject lists the project's features in creation order.
func (s *Service) ByProject(ctx context.Context, projectID uuid.UUID) ([]Feature, error) {
	return s.store.ByProject(ctx, projectID)
}

func (s *Service) publish(ctx context.Context, project *projects.Project) {
	if s.publisher == nil || !project.EnableRealtimeUpdates {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.NewUpdate(project.ID, realtime.KindFeatures)); err != nil {
		s.log.WarnContext(ctx, "failed to publish features update",
			slog.Any("project_id", project.ID),
			slog.Any("error", err),
		)
	}
}
