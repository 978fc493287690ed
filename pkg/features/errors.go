package features

import "errors"

var (
	// ErrFeatureNotFound is returned when a feature does not exist.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrInvalidFeature is returned when a feature fails validation.
	ErrInvalidFeature = errors.New("invalid feature")

	// ErrInvalidName is returned when a name violates the project's naming
	// rules.
	ErrInvalidName = errors.New("invalid feature name")

	// ErrDuplicateName is returned when the project already has a feature
	// with the name. The comparison is case-insensitive.
	ErrDuplicateName = errors.New("feature name already in use")

	// ErrLimitReached is returned when creating a feature would exceed the
	// project's feature limit.
	ErrLimitReached = errors.New("project feature limit reached")
)
