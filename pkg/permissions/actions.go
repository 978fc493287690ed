package permissions

import "maps"

// Action names the operation a request attempts. Beyond the well-known CRUD
// actions below, endpoints register arbitrary custom actions such as
// "segments"; an action absent from the evaluator's map requires project
// admin.
type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDestroy  Action = "destroy"
)

// readActions are defaulted to ViewProject when an ActionMap leaves them
// unmapped: being able to read a project means being able to list and
// retrieve its resources.
var readActions = []Action{ActionList, ActionRetrieve}

// ActionMap configures which permission key each action requires. It is
// supplied per endpoint family at construction time; the evaluator copies it
// and never mutates the caller's map.
type ActionMap map[Action]Key

// withReadDefaults returns a defaulted copy: list and retrieve map to
// ViewProject unless the caller said otherwise.
func (m ActionMap) withReadDefaults() ActionMap {
	out := make(ActionMap, len(m)+len(readActions))
	maps.Copy(out, m)
	for _, a := range readActions {
		if _, ok := out[a]; !ok {
			out[a] = ViewProject
		}
	}
	return out
}
