// Package permissions decides whether a user may perform an action on a
// project. It is the authorization core of the platform: multi-level
// evaluation from organisation admin through project admin down to
// individual permission keys, with grants held directly or through
// permission groups.
//
// # Evaluation
//
// Checker answers point questions against live sources; nothing is cached,
// so a revoked grant is gone on the next request. The chain short-circuits
// in privilege order:
//
//  1. organisation admins pass everything,
//  2. project admins (direct or group admin grant) pass everything on the
//     project,
//  3. otherwise the union of the user's direct and group keys must contain
//     the required key.
//
// Infrastructure failures deny and log; they are never surfaced as grants.
//
// # Guarding endpoints
//
// Evaluator binds a Checker to an ActionMap, translating endpoint actions
// into required keys. Read actions (list, retrieve) default to ViewProject;
// actions left unmapped are project-admin only, so forgetting an entry locks
// an endpoint down instead of opening it up:
//
//	checker := permissions.NewChecker(projectStore, orgStore, source)
//	eval := permissions.NewEvaluator(checker, permissions.ActionMap{
//	    permissions.ActionCreate:  permissions.CreateFeature,
//	    permissions.ActionUpdate:  permissions.EditFeature,
//	    permissions.ActionDestroy: permissions.DeleteFeature,
//	})
//
//	if !eval.HasPermission(ctx, userID, permissions.ActionCreate, projectID) {
//	    // deny
//	}
//
// Or as chi middleware, with the actor placed in the request context by the
// authentication layer:
//
//	r.Route("/projects/{projectID}/features", func(r chi.Router) {
//	    r.With(permissions.Require(eval, permissions.ActionList, nil)).Get("/", listFeatures)
//	    r.With(permissions.Require(eval, permissions.ActionCreate, nil)).Post("/", createFeature)
//	})
//
// # Managing grants
//
// Service validates writes: keys must come from the registry, non-admin
// grants must carry at least one key, and one grant per (user, project) or
// (group, project) is enforced by upsert. Sources back evaluation from
// Postgres, MongoDB, or memory.
package permissions
