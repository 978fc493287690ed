package permissions

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/organisations"
	"github.com/flagkit/flagkit/pkg/projects"
)

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithCheckerLogger sets the logger for infrastructure failures. Ordinary
// denials are results, not events, and are never logged.
func WithCheckerLogger(log *slog.Logger) CheckerOption {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

// Checker answers the two questions every authorization decision reduces to:
// is the user an organisation admin, and what do they effectively hold on a
// project. It is stateless and safe for concurrent use; every call reads its
// sources fresh, so grant changes apply on the next evaluation.
//
// All boolean methods fail closed: a source failure reads as "no", logged at
// Warn, never as an error a caller could misinterpret as a grant.
type Checker struct {
	projects    ProjectSource
	memberships MembershipSource
	grants      GrantSource
	log         *slog.Logger
}

// NewChecker binds the checker to its sources. All three are required;
// construction panics on nil so miswiring fails at startup rather than at
// the first denied request.
func NewChecker(projects ProjectSource, memberships MembershipSource, grants GrantSource, opts ...CheckerOption) *Checker {
	if projects == nil {
		panic("permissions: ProjectSource is required")
	}
	if memberships == nil {
		panic("permissions: MembershipSource is required")
	}
	if grants == nil {
		panic("permissions: GrantSource is required")
	}

	c := &Checker{
		projects:    projects,
		memberships: memberships,
		grants:      grants,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsOrgAdmin reports whether the user holds the admin role in the
// organisation. No membership means false, it is not an error.
func (c *Checker) IsOrgAdmin(ctx context.Context, userID, orgID uuid.UUID) bool {
	m, err := c.memberships.Membership(ctx, userID, orgID)
	if err != nil {
		if !errors.Is(err, organisations.ErrMembershipNotFound) {
			c.log.WarnContext(ctx, "membership lookup failed, denying",
				slog.Any("user_id", userID),
				slog.Any("organisation_id", orgID),
				slog.Any("error", err),
			)
		}
		return false
	}
	return m.IsAdmin()
}

// EffectiveGrant resolves everything the user holds on the project: their
// direct grant unioned with the grants of every group they belong to. Users
// without grants get the empty grant. The result is computed fresh on every
// call; callers reuse it within one evaluation instead of calling twice.
func (c *Checker) EffectiveGrant(ctx context.Context, userID, projectID uuid.UUID) (EffectiveGrant, error) {
	direct, err := c.grants.UserGrants(ctx, userID, projectID)
	if err != nil {
		return EffectiveGrant{}, err
	}
	viaGroups, err := c.grants.GroupGrants(ctx, userID, projectID)
	if err != nil {
		return EffectiveGrant{}, err
	}
	return CombineGrants(append(direct, viaGroups...)...), nil
}

// IsProjectAdmin reports whether the user administers the project: either as
// an admin of the owning organisation or through an admin grant, direct or
// via a group.
func (c *Checker) IsProjectAdmin(ctx context.Context, userID, projectID uuid.UUID) bool {
	project, ok := c.project(ctx, projectID)
	if !ok {
		return false
	}
	if c.IsOrgAdmin(ctx, userID, project.OrganisationID) {
		return true
	}

	eff, ok := c.effectiveGrant(ctx, userID, projectID)
	return ok && eff.IsAdmin()
}

// HasProjectPermission reports whether the user may perform actions guarded
// by the key on the project. Organisation admins and project admins pass
// unconditionally; everyone else needs the key in their effective grant.
// The ordering is an invariant: admin checks run first so a missing key can
// never shadow admin access.
func (c *Checker) HasProjectPermission(ctx context.Context, userID uuid.UUID, key Key, projectID uuid.UUID) bool {
	project, ok := c.project(ctx, projectID)
	if !ok {
		return false
	}
	if c.IsOrgAdmin(ctx, userID, project.OrganisationID) {
		return true
	}

	eff, ok := c.effectiveGrant(ctx, userID, projectID)
	if !ok {
		return false
	}
	return eff.IsAdmin() || eff.Has(key)
}

func (c *Checker) project(ctx context.Context, projectID uuid.UUID) (*projects.Project, bool) {
	project, err := c.projects.Project(ctx, projectID)
	if err != nil {
		if !errors.Is(err, projects.ErrProjectNotFound) {
			c.log.WarnContext(ctx, "project lookup failed, denying",
				slog.Any("project_id", projectID),
				slog.Any("error", err),
			)
		}
		return nil, false
	}
	return project, true
}

func (c *Checker) effectiveGrant(ctx context.Context, userID, projectID uuid.UUID) (EffectiveGrant, bool) {
	eff, err := c.EffectiveGrant(ctx, userID, projectID)
	if err != nil {
		c.log.WarnContext(ctx, "grant resolution failed, denying",
			slog.Any("user_id", userID),
			slog.Any("project_id", projectID),
			slog.Any("error", err),
		)
		return EffectiveGrant{}, false
	}
	return eff, true
}
