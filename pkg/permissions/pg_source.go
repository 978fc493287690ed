package permissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagkit/flagkit/pkg/organisations"
	"github.com/flagkit/flagkit/pkg/pg"
	"github.com/flagkit/flagkit/pkg/projects"
)

// PGSource is the PostgreSQL GrantStore, backed by the user_project_grants
// and group_project_grants tables. Membership lookups stay with the
// organisations store; this source only owns grants.
type PGSource struct {
	pool *pgxpool.Pool
}

// NewPGSource creates a source on top of an established connection pool.
func NewPGSource(pool *pgxpool.Pool) *PGSource {
	return &PGSource{pool: pool}
}

func (s *PGSource) UserGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	query := `
		SELECT admin, permissions
		FROM user_project_grants
		WHERE user_id = $1 AND project_id = $2
	`
	return s.grants(ctx, query, userID, projectID)
}

func (s *PGSource) GroupGrants(ctx context.Context, userID, projectID uuid.UUID) ([]Grant, error) {
	query := `
		SELECT g.admin, g.permissions
		FROM group_project_grants g
		JOIN permission_group_members gm ON gm.group_id = g.group_id
		WHERE gm.user_id = $1 AND g.project_id = $2
	`
	return s.grants(ctx, query, userID, projectID)
}

func (s *PGSource) grants(ctx context.Context, query string, userID, projectID uuid.UUID) ([]Grant, error) {
	rows, err := s.pool.Query(ctx, query, userID, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch grants: %w", err)
	}
	defer rows.Close()

	var grants []Grant
	for rows.Next() {
		var (
			admin bool
			keys  []string
		)
		if err := rows.Scan(&admin, &keys); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, Grant{Admin: admin, Keys: toKeys(keys)})
	}
	return grants, rows.Err()
}

func (s *PGSource) PutUserGrant(ctx context.Context, grant UserGrant) error {
	now := time.Now().UTC()
	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = now
	}

	query := `
		INSERT INTO user_project_grants (id, user_id, project_id, admin, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, project_id) DO UPDATE SET
			admin = EXCLUDED.admin,
			permissions = EXCLUDED.permissions,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		grant.ID, grant.UserID, grant.ProjectID, grant.Admin, toStrings(grant.Keys), grant.CreatedAt, now,
	)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return projects.ErrProjectNotFound
		}
		return fmt.Errorf("put user grant: %w", err)
	}
	return nil
}

func (s *PGSource) PutGroupGrant(ctx context.Context, grant GroupGrant) error {
	now := time.Now().UTC()
	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = now
	}

	// The insert only succeeds when the group and project share an
	// organisation, enforced by the join rather than a separate read.
	query := `
		INSERT INTO group_project_grants (id, group_id, project_id, admin, permissions, created_at, updated_at)
		SELECT $1, g.id, p.id, $4, $5, $6, $7
		FROM permission_groups g
		JOIN projects p ON p.organisation_id = g.organisation_id
		WHERE g.id = $2 AND p.id = $3
		ON CONFLICT (group_id, project_id) DO UPDATE SET
			admin = EXCLUDED.admin,
			permissions = EXCLUDED.permissions,
			updated_at = EXCLUDED.updated_at
	`
	tag, err := s.pool.Exec(ctx, query,
		grant.ID, grant.GroupID, grant.ProjectID, grant.Admin, toStrings(grant.Keys), grant.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("put group grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.groupGrantFailure(ctx, grant)
	}
	return nil
}

// groupGrantFailure decomposes a zero-row group grant insert into the
// sentinel the caller can act on.
func (s *PGSource) groupGrantFailure(ctx context.Context, grant GroupGrant) error {
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM permission_groups WHERE id = $1)`, grant.GroupID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("put group grant: %w", err)
	}
	if !exists {
		return organisations.ErrGroupNotFound
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, grant.ProjectID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("put group grant: %w", err)
	}
	if !exists {
		return projects.ErrProjectNotFound
	}
	return ErrOrganisationMismatch
}

func (s *PGSource) DeleteUserGrant(ctx context.Context, id uuid.UUID) (*UserGrant, error) {
	query := `
		DELETE FROM user_project_grants WHERE id = $1
		RETURNING id, user_id, project_id, admin, permissions, created_at, updated_at
	`

	var (
		g    UserGrant
		keys []string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.UserID, &g.ProjectID, &g.Admin, &keys, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("delete user grant: %w", err)
	}
	g.Keys = toKeys(keys)
	return &g, nil
}

func (s *PGSource) DeleteGroupGrant(ctx context.Context, id uuid.UUID) (*GroupGrant, error) {
	query := `
		DELETE FROM group_project_grants WHERE id = $1
		RETURNING id, group_id, project_id, admin, permissions, created_at, updated_at
	`

	var (
		g    GroupGrant
		keys []string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.GroupID, &g.ProjectID, &g.Admin, &keys, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrGrantNotFound
		}
		return nil, fmt.Errorf("delete group grant: %w", err)
	}
	g.Keys = toKeys(keys)
	return &g, nil
}

func (s *PGSource) UserGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]UserGrant, error) {
	query := `
		SELECT id, user_id, project_id, admin, permissions, created_at, updated_at
		FROM user_project_grants
		WHERE project_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list user grants: %w", err)
	}
	defer rows.Close()

	var list []UserGrant
	for rows.Next() {
		var (
			g    UserGrant
			keys []string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.ProjectID, &g.Admin, &keys, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user grant: %w", err)
		}
		g.Keys = toKeys(keys)
		list = append(list, g)
	}
	return list, rows.Err()
}

func (s *PGSource) GroupGrantsByProject(ctx context.Context, projectID uuid.UUID) ([]GroupGrant, error) {
	query := `
		SELECT id, group_id, project_id, admin, permissions, created_at, updated_at
		FROM group_project_grants
		WHERE project_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list group grants: %w", err)
	}
	defer rows.Close()

	var list []GroupGrant
	for rows.Next() {
		var (
			g    GroupGrant
			keys []string
		)
		if err := rows.Scan(&g.ID, &g.GroupID, &g.ProjectID, &g.Admin, &keys, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan group grant: %w", err)
		}
		g.Keys = toKeys(keys)
		list = append(list, g)
	}
	return list, rows.Err()
}

func toStrings(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func toKeys(keys []string) []Key {
	if len(keys) == 0 {
		return nil
	}
	out := make([]Key, len(keys))
	for i, k := range keys {
		out[i] = Key(k)
	}
	return out
}

var _ GrantStore = (*PGSource)(nil)
