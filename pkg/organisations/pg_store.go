package organisations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagkit/flagkit/pkg/pg"
)

// PGStore is the PostgreSQL implementation of Store, backed by the schema in
// the migrations package.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store on top of an established connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) CreateOrganisation(ctx context.Context, org Organisation) error {
	if err := org.Validate(); err != nil {
		return err
	}

	if org.CreatedAt.IsZero() {
		org.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO organisations (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := s.pool.Exec(ctx, query, org.ID, org.Name, org.CreatedAt); err != nil {
		return fmt.Errorf("create organisation: %w", err)
	}
	return nil
}

func (s *PGStore) Organisation(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	query := `SELECT id, name, created_at FROM organisations WHERE id = $1`

	var org Organisation
	err := s.pool.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrOrganisationNotFound
		}
		return nil, fmt.Errorf("fetch organisation: %w", err)
	}
	return &org, nil
}

func (s *PGStore) DeleteOrganisation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM organisations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete organisation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrganisationNotFound
	}
	return nil
}

func (s *PGStore) AddMember(ctx context.Context, orgID, userID uuid.UUID, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	query := `
		INSERT INTO organisation_members (organisation_id, user_id, role, created_at)
		VALUES ($1, $2, $3, now())
	`
	if _, err := s.pool.Exec(ctx, query, orgID, userID, role); err != nil {
		switch {
		case pg.IsUniqueViolation(err):
			return ErrAlreadyMember
		case pg.IsForeignKeyViolation(err):
			return ErrOrganisationNotFound
		}
		return fmt.Errorf("add organisation member: %w", err)
	}
	return nil
}

func (s *PGStore) Membership(ctx context.Context, userID, orgID uuid.UUID) (*Membership, error) {
	query := `
		SELECT organisation_id, user_id, role, created_at
		FROM organisation_members
		WHERE organisation_id = $1 AND user_id = $2
	`

	var m Membership
	err := s.pool.QueryRow(ctx, query, orgID, userID).Scan(&m.OrganisationID, &m.UserID, &m.Role, &m.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("fetch membership: %w", err)
	}
	return &m, nil
}

func (s *PGStore) Members(ctx context.Context, orgID uuid.UUID) ([]Membership, error) {
	query := `
		SELECT organisation_id, user_id, role, created_at
		FROM organisation_members
		WHERE organisation_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var list []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.OrganisationID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (s *PGStore) UpdateMemberRole(ctx context.Context, userID, orgID uuid.UUID, role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	query := `
		UPDATE organisation_members SET role = $3
		WHERE organisation_id = $1 AND user_id = $2
	`
	tag, err := s.pool.Exec(ctx, query, orgID, userID, role)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (s *PGStore) RemoveMember(ctx context.Context, userID, orgID uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		DELETE FROM organisation_members
		WHERE organisation_id = $1 AND user_id = $2
	`, orgID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMembershipNotFound
	}

	// Membership in a group implies membership in its organisation.
	if _, err := tx.Exec(ctx, `
		DELETE FROM permission_group_members gm
		USING permission_groups g
		WHERE gm.group_id = g.id AND g.organisation_id = $1 AND gm.user_id = $2
	`, orgID, userID); err != nil {
		return fmt.Errorf("remove member group memberships: %w", err)
	}

	// A direct grant implies membership in the project's organisation, so
	// leaving the organisation revokes it.
	if _, err := tx.Exec(ctx, `
		DELETE FROM user_project_grants ug
		USING projects p
		WHERE ug.project_id = p.id AND p.organisation_id = $1 AND ug.user_id = $2
	`, orgID, userID); err != nil {
		return fmt.Errorf("remove member project grants: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *PGStore) CreateGroup(ctx context.Context, group Group) error {
	if err := group.Validate(); err != nil {
		return err
	}

	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO permission_groups (id, organisation_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := s.pool.Exec(ctx, query, group.ID, group.OrganisationID, group.Name, group.CreatedAt); err != nil {
		if pg.IsForeignKeyViolation(err) {
			return ErrOrganisationNotFound
		}
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (s *PGStore) Group(ctx context.Context, id uuid.UUID) (*Group, error) {
	query := `SELECT id, organisation_id, name, created_at FROM permission_groups WHERE id = $1`

	var g Group
	err := s.pool.QueryRow(ctx, query, id).Scan(&g.ID, &g.OrganisationID, &g.Name, &g.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("fetch group: %w", err)
	}
	return &g, nil
}

func (s *PGStore) GroupsByOrganisation(ctx context.Context, orgID uuid.UUID) ([]Group, error) {
	query := `
		SELECT id, organisation_id, name, created_at
		FROM permission_groups
		WHERE organisation_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var list []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.OrganisationID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (s *PGStore) DeleteGroup(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM permission_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (s *PGStore) AddGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	// The insert only succeeds when the user is a member of the group's
	// organisation, enforced by the join rather than a separate read.
	query := `
		INSERT INTO permission_group_members (group_id, user_id)
		SELECT g.id, m.user_id
		FROM permission_groups g
		JOIN organisation_members m
			ON m.organisation_id = g.organisation_id AND m.user_id = $2
		WHERE g.id = $1
		ON CONFLICT DO NOTHING
	`
	tag, err := s.pool.Exec(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.Group(ctx, groupID); err != nil {
			return err
		}
		// Re-adding an existing member is a no-op, mirror that here.
		var exists bool
		err := s.pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM permission_group_members
				WHERE group_id = $1 AND user_id = $2
			)
		`, groupID, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("add group member: %w", err)
		}
		if !exists {
			return ErrNotOrganisationMember
		}
	}
	return nil
}

func (s *PGStore) RemoveGroupMember(ctx context.Context, groupID, userID uuid.UUID) error {
	if _, err := s.Group(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM permission_group_members
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID); err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}
	return nil
}

func (s *PGStore) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.Group(ctx, groupID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT user_id FROM permission_group_members WHERE group_id = $1
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	defer rows.Close()

	list := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		list = append(list, id)
	}
	return list, rows.Err()
}

func (s *PGStore) UserGroups(ctx context.Context, userID, orgID uuid.UUID) ([]Group, error) {
	query := `
		SELECT g.id, g.organisation_id, g.name, g.created_at
		FROM permission_groups g
		JOIN permission_group_members gm ON gm.group_id = g.id
		WHERE g.organisation_id = $1 AND gm.user_id = $2
		ORDER BY g.created_at
	`

	rows, err := s.pool.Query(ctx, query, orgID, userID)
	if err != nil {
		return nil, fmt.Errorf("list user groups: %w", err)
	}
	defer rows.Close()

	var list []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.OrganisationID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

var _ Store = (*PGStore)(nil)
