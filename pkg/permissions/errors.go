package permissions

import "errors"

var (
	// ErrUnknownKey is returned when a grant names a key outside the registry.
	ErrUnknownKey = errors.New("unknown permission key")

	// ErrInvalidGrant is returned when a grant fails validation.
	ErrInvalidGrant = errors.New("invalid grant")

	// ErrEmptyGrant is returned when a non-admin grant carries no keys.
	ErrEmptyGrant = errors.New("grant must be admin or carry at least one permission")

	// ErrGrantNotFound is returned when a grant does not exist.
	ErrGrantNotFound = errors.New("grant not found")

	// ErrOrganisationMismatch is returned when a group grant pairs a group
	// with a project of a different organisation.
	ErrOrganisationMismatch = errors.New("group and project belong to different organisations")

	// ErrNoActorInContext is returned by the guard middleware when the
	// request context carries no acting user.
	ErrNoActorInContext = errors.New("no actor in context")

	// ErrInvalidProjectRef is returned by the guard middleware when the
	// project reference cannot be resolved from the request.
	ErrInvalidProjectRef = errors.New("invalid project reference")

	// ErrPermissionDenied is the middleware-level denial passed to error
	// handlers. Evaluation itself reports plain booleans.
	ErrPermissionDenied = errors.New("permission denied")
)
