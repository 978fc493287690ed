// Package segments manages named audiences within a project. A segment is
// an identity that targeting rules and per-environment overrides hang off;
// this package owns its lifecycle and the project's segment limit.
//
//	svc := segments.NewService(segments.NewPGStore(pool), projectStore,
//		segments.WithPublisher(publisher))
//
//	seg, err := svc.Create(ctx, segments.New(projectID, "beta-testers"))
//
// Permissions returns the evaluator segment endpoints are guarded with.
// Unlike features, no write action has its own permission key: reads require
// ViewProject and every write requires project admin:
//
//	eval := segments.Permissions(checker)
//	r.With(permissions.Require(eval, permissions.ActionDestroy, nil)).Delete("/{id}", destroy)
package segments
