package segments

import "github.com/flagkit/flagkit/pkg/permissions"

// Actions is the guard configuration for segment endpoints. It maps nothing:
// list and retrieve fall back to the standard ViewProject default, and every
// write stays project-admin only. Segments shape targeting for all
// environments at once, so no per-action key unlocks them.
func Actions() permissions.ActionMap {
	return permissions.ActionMap{}
}

// Permissions builds the evaluator segment endpoints are guarded with.
func Permissions(checker *permissions.Checker) *permissions.Evaluator {
	return permissions.NewEvaluator(checker, Actions())
}
