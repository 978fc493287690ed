package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// ProjectID records the project identifier under the key "project_id".
// If id is nil, it returns an empty Attr.
func ProjectID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("project_id", id)
}

// OrganisationID records the organisation identifier under the key "organisation_id".
// If id is nil, it returns an empty Attr.
func OrganisationID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("organisation_id", id)
}

// GroupID records the permission group identifier under the key "group_id".
// If id is nil, it returns an empty Attr.
func GroupID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("group_id", id)
}

// Action records an endpoint action name under the key "action".
func Action(name string) slog.Attr {
	return slog.String("action", name)
}

// Permission records a permission key under the key "permission".
func Permission(key any) slog.Attr {
	return slog.Any("permission", key)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
