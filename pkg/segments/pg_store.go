package segments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flagkit/flagkit/pkg/pg"
	"github.com/flagkit/flagkit/pkg/projects"
)

const segmentColumns = `id, project_id, name, description, created_at, updated_at`

// PGStore is the PostgreSQL implementation of Store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store on top of an established connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Create(ctx context.Context, seg Segment) error {
	if err := seg.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if seg.CreatedAt.IsZero() {
		seg.CreatedAt = now
	}
	if seg.UpdatedAt.IsZero() {
		seg.UpdatedAt = now
	}

	query := `
		INSERT INTO segments (` + segmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.pool.Exec(ctx, query,
		seg.ID, seg.ProjectID, seg.Name, seg.Description, seg.CreatedAt, seg.UpdatedAt,
	)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return projects.ErrProjectNotFound
		}
		return fmt.Errorf("create segment: %w", err)
	}
	return nil
}

func (s *PGStore) Update(ctx context.Context, seg Segment) error {
	if err := seg.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE segments SET
			name = $2,
			description = $3,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, seg.ID, seg.Name, seg.Description)
	if err != nil {
		return fmt.Errorf("update segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSegmentNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM segments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete segment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSegmentNotFound
	}
	return nil
}

func (s *PGStore) Segment(ctx context.Context, id uuid.UUID) (*Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE id = $1`

	var seg Segment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&seg.ID, &seg.ProjectID, &seg.Name, &seg.Description, &seg.CreatedAt, &seg.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrSegmentNotFound
		}
		return nil, fmt.Errorf("fetch segment: %w", err)
	}
	return &seg, nil
}

func (s *PGStore) ByProject(ctx context.Context, projectID uuid.UUID) ([]Segment, error) {
	query := `SELECT ` + segmentColumns + ` FROM segments WHERE project_id = $1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var list []Segment
	for rows.Next() {
		var seg Segment
		if err := rows.Scan(
			&seg.ID, &seg.ProjectID, &seg.Name, &seg.Description, &seg.CreatedAt, &seg.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		list = append(list, seg)
	}
	return list, rows.Err()
}

func (s *PGStore) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM segments WHERE project_id = $1`, projectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count segments: %w", err)
	}
	return count, nil
}

var _ Store = (*PGStore)(nil)
