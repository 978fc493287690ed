package segments

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

// Service is the write surface for segments, enforcing the owning project's
// segment limit on creation.
type Service struct {
	store     Store
	projects  ProjectSource
	log       *slog.Logger
	publisher realtime.Publisher
}

// NewService creates the segment service. Store and project source are
// required; construction panics on nil.
func NewService(store Store, projects ProjectSource, opts ...ServiceOption) *Service {
	if store == nil {
		panic("segments: Store is required")
	}
	if projects == nil {
		panic("segments: ProjectSource is required")
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

// Create stores the segment if the project is below its segment limit. A
// zero ID gets a fresh one.
func (s *Service) Create(ctx context.Context, seg Segment) (*Segment, error) {
	project, err := s.projects.Project(ctx, seg.ProjectID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountByProject(ctx, seg.ProjectID)
	if err != nil {
		return nil, err
	}
	if count >= project.MaxSegmentsAllowed {
		return nil, ErrLimitReached
	}

	seg.Name = strings.TrimSpace(seg.Name)
	if seg.ID == uuid.Nil {
		seg.ID = uuid.New()
	}
	if err := seg.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, seg); err != nil {
		return nil, err
	}

	s.publish(ctx, project)
	return &seg, nil
}

// Update stores the change. The segment's project never changes.
func (s *Service) Update(ctx context.Context, seg Segment) (*Segment, error) {
	current, err := s.store.Segment(ctx, seg.ID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Project(ctx, current.ProjectID)
	if err != nil {
		return nil, err
	}

	seg.Name = strings.TrimSpace(seg.Name)
	seg.ProjectID = current.ProjectID
	if err := seg.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, seg); err != nil {
		return nil, err
	}

	s.publish(ctx, project)
	return s.store.Segment(ctx, seg.ID)
}

// Delete removes the segment.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	seg, err := s.store.Segment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.publisher != nil {
		project, err := s.projects.Project(ctx, seg.ProjectID)
		if err != nil {
			s.log.WarnContext(ctx, "skipping segments update, project lookup failed",
				slog.Any("project_id", seg.ProjectID),
				slog.Any("error", err),
			)
			return nil
		}
		s.publish(ctx, project)
	}
	return nil
}

// Segment fetches a single segment.
func (s *Service) Segment(ctx context.Context, id uuid.UUID) (*Segment, error) {
	return s.store.Segment(ctx, id)
}

// ByProject lists the project's segments in creation order.
func (s *Service) ByProject(ctx context.Context, projectID uuid.UUID) ([]Segment, error) {
	return s.store.ByProject(ctx, projectID)
}

func (s *Service) publish(ctx context.Context, project *projects.Project) {
	if s.publisher == nil || !project.EnableRealtimeUpdates {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.NewUpdate(project.ID, realtime.KindSegments)); err != nil {
		s.log.WarnContext(ctx, "failed to publish segments update",
			slog.Any("project_id", project.ID),
			slog.Any("error", err),
		)
	}
}
