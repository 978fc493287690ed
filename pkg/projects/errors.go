package projects

import "errors"

var (
	// ErrProjectNotFound is returned when a project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidProject is returned when a project fails validation.
	ErrInvalidProject = errors.New("invalid project")

	// ErrMigrationStatusUnavailable is returned when the edge metadata store
	// cannot answer a status read.
	ErrMigrationStatusUnavailable = errors.New("edge migration status unavailable")
)
