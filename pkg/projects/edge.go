package projects

import (
	"context"

	"github.com/google/uuid"
)

// MigrationStatus reports where a project stands in its move to the edge
// identity store.
type MigrationStatus string

const (
	// MigrationNotApplicable means no edge metadata store is configured.
	MigrationNotApplicable MigrationStatus = "NOT_APPLICABLE"
	// MigrationNotStarted means the project has not begun migrating.
	MigrationNotStarted MigrationStatus = "MIGRATION_NOT_STARTED"
	// MigrationScheduled means a migration has been requested but not begun.
	MigrationScheduled MigrationStatus = "MIGRATION_SCHEDULED"
	// MigrationInProgress means identities are currently being copied.
	MigrationInProgress MigrationStatus = "MIGRATION_IN_PROGRESS"
	// MigrationCompleted means identities are served from the edge store.
	MigrationCompleted MigrationStatus = "MIGRATION_COMPLETED"
)

// IdentityMigrator reads per-project migration state from the edge metadata
// store. DynamoMigrator is the production implementation.
type IdentityMigrator interface {
	MigrationStatus(ctx context.Context, projectID uuid.UUID) (MigrationStatus, error)
}
