package permissions

import (
	"context"

	"github.com/google/uuid"
)

// ProjectScoped is any resource that lives inside a project. Features and
// segments satisfy it; object-level checks derive their target project from
// it instead of a request parameter.
type ProjectScoped interface {
	ParentProject() uuid.UUID
}

// Evaluator decides whether a user may perform an action, either at the
// collection level (HasPermission) or against a loaded resource
// (HasObjectPermission). Both entry points run the same decision chain:
//
//  1. Admins of the owning organisation are allowed, always.
//  2. Project admins, direct or via a group grant, are allowed.
//  3. Actions mapped to a permission key are allowed iff the user's
//     effective grant contains the key.
//  4. Unmapped actions are allowed for project admins only.
//
// Every evaluation is stateless and terminates in a plain allow or deny;
// there is no error surface a caller could mistake for a grant.
type Evaluator struct {
	checker *Checker
	actions ActionMap
}

// NewEvaluator binds a checker to an endpoint family's action map. The map
// is copied with read defaults applied, so list and retrieve require
// ViewProject unless mapped explicitly; a nil map is a valid configuration
// that leaves every write action admin-only.
func NewEvaluator(checker *Checker, actions ActionMap) *Evaluator {
	if checker == nil {
		panic("permissions: Checker is required")
	}
	return &Evaluator{
		checker: checker,
		actions: actions.withReadDefaults(),
	}
}

// RequiredKey reports the permission key the action maps to, or false for
// unmapped actions, which require project admin.
func (e *Evaluator) RequiredKey(action Action) (Key, bool) {
	key, ok := e.actions[action]
	return key, ok
}

// HasPermission decides a collection-level request: may the user perform the
// action within the project.
func (e *Evaluator) HasPermission(ctx context.Context, userID uuid.UUID, action Action, projectID uuid.UUID) bool {
	if key, ok := e.actions[action]; ok {
		return e.checker.HasProjectPermission(ctx, userID, key, projectID)
	}
	return e.checker.IsProjectAdmin(ctx, userID, projectID)
}

// HasObjectPermission decides an object-level request: may the user perform
// the action on this specific resource. The decision chain is identical to
// HasPermission, only the project is derived from the object, so collection
// and object checks can never diverge in policy. A nil object or one without
// a project denies.
func (e *Evaluator) HasObjectPermission(ctx context.Context, userID uuid.UUID, action Action, obj ProjectScoped) bool {
	if obj == nil {
		return false
	}
	projectID := obj.ParentProject()
	if projectID == uuid.Nil {
		return false
	}
	return e.HasPermission(ctx, userID, action, projectID)
}
