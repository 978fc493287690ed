package features

import "github.com/flagkit/flagkit/pkg/permissions"

// ActionSegments is the custom action for listing a feature's segment
// overrides. It is deliberately absent from the action map: segment override
// data is sensitive enough that only project admins may read it.
const ActionSegments = permissions.Action("segments")

// Actions is the guard configuration for feature endpoints: reads require
// ViewProject, every write has its own key.
func Actions() permissions.ActionMap {
	return permissions.ActionMap{
		permissions.ActionList:     permissions.ViewProject,
		permissions.ActionRetrieve: permissions.ViewProject,
		permissions.ActionCreate:   permissions.CreateFeature,
		permissions.ActionUpdate:   permissions.EditFeature,
		permissions.ActionDestroy:  permissions.DeleteFeature,
	}
}

// Permissions builds the evaluator feature endpoints are guarded with.
func Permissions(checker *permissions.Checker) *permissions.Evaluator {
	return permissions.NewEvaluator(checker, Actions())
}
