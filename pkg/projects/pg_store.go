package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagkit/flagkit/pkg/organisations"
	"github.com/flagkit/flagkit/pkg/pg"
)

const projectColumns = `
	id, organisation_id, name, created_at, updated_at,
	hide_disabled_flags, prevent_flag_defaults, enable_realtime_updates, edge_enabled,
	only_allow_lower_case_feature_names, feature_name_regex,
	max_features_allowed, max_segments_allowed, max_segment_overrides_allowed
`

// PGStore is the PostgreSQL implementation of Store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store on top of an established connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.pool.Exec(ctx, query,
		p.ID, p.OrganisationID, p.Name, p.CreatedAt, p.UpdatedAt,
		p.HideDisabledFlags, p.PreventFlagDefaults, p.EnableRealtimeUpdates, p.EdgeEnabled,
		p.OnlyAllowLowerCaseFeatureNames, p.FeatureNameRegex,
		p.MaxFeaturesAllowed, p.MaxSegmentsAllowed, p.MaxSegmentOverridesAllowed,
	)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return organisations.ErrOrganisationNotFound
		}
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, p Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE projects SET
			name = $2,
			updated_at = now(),
			hide_disabled_flags = $3,
			prevent_flag_defaults = $4,
			enable_realtime_updates = $5,
			edge_enabled = $6,
			only_allow_lower_case_feature_names = $7,
			feature_name_regex = $8,
			max_features_allowed = $9,
			max_segments_allowed = $10,
			max_segment_overrides_allowed = $11
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Name,
		p.HideDisabledFlags, p.PreventFlagDefaults, p.EnableRealtimeUpdates, p.EdgeEnabled,
		p.OnlyAllowLowerCaseFeatureNames, p.FeatureNameRegex,
		p.MaxFeaturesAllowed, p.MaxSegmentsAllowed, p.MaxSegmentOverridesAllowed,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (s *PGStore) Project(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	var p Project
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OrganisationID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
		&p.HideDisabledFlags, &p.PreventFlagDefaults, &p.EnableRealtimeUpdates, &p.EdgeEnabled,
		&p.OnlyAllowLowerCaseFeatureNames, &p.FeatureNameRegex,
		&p.MaxFeaturesAllowed, &p.MaxSegmentsAllowed, &p.MaxSegmentOverridesAllowed,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("fetch project: %w", err)
	}
	return &p, nil
}

func (s *PGStore) ByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE organisation_id = $1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var list []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(
			&p.ID, &p.OrganisationID, &p.Name, &p.CreatedAt, &p.UpdatedAt,
			&p.HideDisabledFlags, &p.PreventFlagDefaults, &p.EnableRealtimeUpdates, &p.EdgeEnabled,
			&p.OnlyAllowLowerCaseFeatureNames, &p.FeatureNameRegex,
			&p.MaxFeaturesAllowed, &p.MaxSegmentsAllowed, &p.MaxSegmentOverridesAllowed,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

var _ Store = (*PGStore)(nil)
