package permissions_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/permissions"
)

func withActor(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(permissions.WithActor(r.Context(), userID)))
		})
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// featureRouter guards a feature subtree the way a real API would: reads and
// destroys on the collection, actor injected by the outer stack.
func featureRouter(eval *permissions.Evaluator, actor uuid.UUID, opts ...permissions.MiddlewareOption) http.Handler {
	r := chi.NewRouter()
	if actor != uuid.Nil {
		r.Use(withActor(actor))
	}
	r.Route("/projects/{projectID}/features", func(r chi.Router) {
		r.With(permissions.Require(eval, permissions.ActionList, nil, opts...)).
			Get("/", okHandler)
		r.With(permissions.Require(eval, permissions.ActionDestroy, nil, opts...)).
			Delete("/", okHandler)
	})
	return r
}

func TestRequire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("passes an authorized request through", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		viewer := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(viewer, w.project.ID, false, permissions.ViewProject)))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/projects/"+w.project.ID.String()+"/features", nil)
		featureRouter(eval, viewer).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denies a missing permission with 403", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		viewer := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(viewer, w.project.ID, false, permissions.ViewProject)))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/projects/"+w.project.ID.String()+"/features", nil)
		featureRouter(eval, viewer).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("denies without an actor with 401", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/projects/"+w.project.ID.String()+"/features", nil)
		featureRouter(eval, uuid.Nil).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects an unparsable project reference with 400", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		userID := uuid.New()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid/features", nil)
		featureRouter(eval, userID).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())

		handler := permissions.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusTeapot)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/projects/"+w.project.ID.String()+"/features", nil)
		featureRouter(eval, uuid.New(), handler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Contains(t, rec.Body.String(), "permission denied")
	})

	t.Run("custom resolver", func(t *testing.T) {
		t.Parallel()
		w := newWorld(t)
		eval := permissions.NewEvaluator(w.checker, featureActions())
		viewer := uuid.New()
		require.NoError(t, w.source.PutUserGrant(ctx,
			permissions.NewUserGrant(viewer, w.project.ID, false, permissions.ViewProject)))

		fromHeader := func(r *http.Request) (uuid.UUID, error) {
			return uuid.Parse(r.Header.Get("X-Project-ID"))
		}

		guarded := permissions.Require(eval, permissions.ActionList, fromHeader)(http.HandlerFunc(okHandler))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/features", nil)
		req.Header.Set("X-Project-ID", w.project.ID.String())
		req = req.WithContext(permissions.WithActor(req.Context(), viewer))
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("requires an evaluator", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			permissions.Require(nil, permissions.ActionList, nil)
		})
	})
}

func TestProjectIDFromURLParam(t *testing.T) {
	t.Parallel()

	t.Run("missing parameter", func(t *testing.T) {
		t.Parallel()

		resolver := permissions.ProjectIDFromURLParam("projectID")
		req := httptest.NewRequest(http.MethodGet, "/features", nil)

		_, err := resolver(req)
		assert.ErrorIs(t, err, permissions.ErrInvalidProjectRef)
	})

	t.Run("malformed parameter", func(t *testing.T) {
		t.Parallel()

		resolver := permissions.ProjectIDFromURLParam("projectID")

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("projectID", "not-a-uuid")
		req := httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		_, err := resolver(req)
		assert.ErrorIs(t, err, permissions.ErrInvalidProjectRef)
	})

	t.Run("valid parameter", func(t *testing.T) {
		t.Parallel()

		projectID := uuid.New()
		resolver := permissions.ProjectIDFromURLParam("projectID")

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("projectID", projectID.String())
		req := httptest.NewRequest(http.MethodGet, "/projects/"+projectID.String(), nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		got, err := resolver(req)
		require.NoError(t, err)
		assert.Equal(t, projectID, got)
	})
}
