package permissions

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/flagkit/flagkit/pkg/logger"
)

// actorCtxKey is the context key for the acting user.
type actorCtxKey struct{}

// WithActor stores the acting user's ID in the context. The outer stack
// (session, API key, whatever authenticates requests) calls this once;
// evaluation only ever consumes it.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, userID)
}

// ActorFromContext retrieves the acting user's ID from the context.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(actorCtxKey{}).(uuid.UUID)
	return userID, ok
}

// LoggerExtractor exposes the acting user to the logging context, so every
// record emitted while handling a request carries user_id:
//
//	log := logger.New(logger.WithContextExtractors(permissions.LoggerExtractor()))
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if userID, ok := ActorFromContext(ctx); ok {
			return logger.UserID(userID), true
		}
		return slog.Attr{}, false
	}
}
