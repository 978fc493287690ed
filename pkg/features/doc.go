// Package features manages flag definitions within a project: identity,
// type, and the project-wide defaults environments inherit.
//
// The Service enforces what the owning project configured: naming rules
// (lower-case restriction, custom regex) and the feature limit. Stores keep
// names unique per project, case-insensitively.
//
//	svc := features.NewService(features.NewPGStore(pool), projectStore,
//		features.WithPublisher(publisher))
//
//	f, err := svc.Create(ctx, features.New(projectID, "dark-mode"))
//
// Permissions returns the evaluator feature endpoints are guarded with:
// reads require ViewProject, writes their per-action keys, and the custom
// "segments" action stays project-admin only:
//
//	eval := features.Permissions(checker)
//	r.With(permissions.Require(eval, permissions.ActionCreate, nil)).Post("/", create)
package features
