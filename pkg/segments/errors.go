package segments

import "errors"

var (
	// ErrSegmentNotFound is returned when a segment does not exist.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInvalidSegment is returned when a segment fails validation.
	ErrInvalidSegment = errors.New("invalid segment")

	// ErrLimitReached is returned when creating a segment would exceed the
	// project's segment limit.
	ErrLimitReached = errors.New("project segment limit reached")
)
