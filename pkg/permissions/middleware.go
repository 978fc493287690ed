package permissions

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ProjectResolver extracts the target project's ID from a request.
type ProjectResolver func(r *http.Request) (uuid.UUID, error)

// ProjectIDFromURLParam resolves the project from a chi URL parameter, e.g.
// /projects/{projectID}/features. Missing or malformed values resolve to
// ErrInvalidProjectRef.
func ProjectIDFromURLParam(param string) ProjectResolver {
	return func(r *http.Request) (uuid.UUID, error) {
		raw := chi.URLParam(r, param)
		if raw == "" {
			return uuid.Nil, fmt.Errorf("%w: missing %q url parameter", ErrInvalidProjectRef, param)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %q is not a project id", ErrInvalidProjectRef, raw)
		}
		return id, nil
	}
}

// ErrorHandler renders guard failures. The error is one of
// ErrNoActorInContext, ErrInvalidProjectRef, or ErrPermissionDenied.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareConfig struct {
	errorHandler ErrorHandler
}

// MiddlewareOption configures Require.
type MiddlewareOption func(*middlewareConfig)

// WithErrorHandler replaces the default denial responses, for APIs that
// render errors as JSON.
func WithErrorHandler(handler ErrorHandler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if handler != nil {
			c.errorHandler = handler
		}
	}
}

// Require guards a route subtree with one action: the actor comes from the
// request context, the project from the resolver, and the evaluator decides.
// A nil resolver defaults to ProjectIDFromURLParam("projectID").
//
// Authentication is the outer stack's job; a request without an actor is
// denied, never challenged.
func Require(eval *Evaluator, action Action, resolver ProjectResolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	if eval == nil {
		panic("permissions: Evaluator is required")
	}
	if resolver == nil {
		resolver = ProjectIDFromURLParam("projectID")
	}

	cfg := &middlewareConfig{errorHandler: defaultErrorHandler}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := ActorFromContext(r.Context())
			if !ok {
				cfg.errorHandler(w, r, ErrNoActorInContext)
				return
			}

			projectID, err := resolver(r)
			if err != nil {
				cfg.errorHandler(w, r, err)
				return
			}

			if !eval.HasPermission(r.Context(), userID, action, projectID) {
				cfg.errorHandler(w, r, ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoActorInContext):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidProjectRef):
		http.Error(w, "Invalid project reference", http.StatusBadRequest)
	case errors.Is(err, ErrPermissionDenied):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
