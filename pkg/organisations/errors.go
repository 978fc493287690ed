package organisations

import "errors"

var (
	// ErrOrganisationNotFound is returned when an organisation does not exist.
	ErrOrganisationNotFound = errors.New("organisation not found")

	// ErrInvalidOrganisation is returned when an organisation fails validation.
	ErrInvalidOrganisation = errors.New("invalid organisation")

	// ErrMembershipNotFound is returned when a user holds no membership in an organisation.
	ErrMembershipNotFound = errors.New("organisation membership not found")

	// ErrAlreadyMember is returned when adding a user who is already a member.
	ErrAlreadyMember = errors.New("user is already an organisation member")

	// ErrInvalidRole is returned when a role is neither member nor admin.
	ErrInvalidRole = errors.New("invalid organisation role")

	// ErrGroupNotFound is returned when a permission group does not exist.
	ErrGroupNotFound = errors.New("permission group not found")

	// ErrInvalidGroup is returned when a group fails validation.
	ErrInvalidGroup = errors.New("invalid permission group")

	// ErrNotOrganisationMember is returned when adding a user to a group of an
	// organisation they do not belong to.
	ErrNotOrganisationMember = errors.New("user is not a member of the group's organisation")
)
