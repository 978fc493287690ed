package features

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagkit/flagkit/pkg/pg"
	"github.com/flagkit/flagkit/pkg/projects"
)

const featureColumns = `
	id, project_id, name, description, type, initial_value, default_enabled,
	created_at, updated_at
`

// PGStore is the PostgreSQL implementation of Store. Name uniqueness per
// project is enforced case-insensitively by an index on lower(name).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store on top of an established connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = now
	}

	query := `
		INSERT INTO features (` + featureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, query,
		f.ID, f.ProjectID, f.Name, f.Description, string(f.Type), f.InitialValue, f.DefaultEnabled,
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		if pg.IsForeignKeyViolation(err) {
			return projects.ErrProjectNotFound
		}
		return fmt.Errorf("create feature: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, f Feature) error {
	if err := f.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE features SET
			name = $2,
			description = $3,
			type = $4,
			initial_value = $5,
			default_enabled = $6,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		f.ID, f.Name, f.Description, string(f.Type), f.InitialValue, f.DefaultEnabled,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("update feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFeatureNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete feature: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFeatureNotFound
	}
	return nil
}

func (s *PGStore) Feature(ctx context.Context, id uuid.UUID) (*Feature, error) {
	query := `SELECT ` + featureColumns + ` FROM features WHERE id = $1`

	f, err := scanFeature(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("fetch feature: %w", err)
	}
	return f, nil
}

func (s *PGStore) ByProject(ctx context.Context, projectID uuid.UUID) ([]Feature, error) {
	query := `SELECT ` + featureColumns + ` FROM features WHERE project_id = $1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	defer rows.Close()

	var list []Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		list = append(list, *f)
	}
	return list, rows.Err()
}

func (s *PGStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM features WHERE project_id = $1`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count features: %w", err)
	}
	return count, nil
}

type row interface {
	Scan(dest ...any) error
}

func scanFeature(r row) (*Feature, error) {
	var f Feature
	var typ string
	err := r.Scan(
		&f.ID, &f.ProjectID, &f.Name, &f.Description, &typ, &f.InitialValue, &f.DefaultEnabled,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	f.Type = Type(typ)
	return &f, nil
}

var _ Store = (*PGStore)(nil)
