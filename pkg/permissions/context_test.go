package permissions_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flagkit/flagkit/pkg/logger"
	"github.com/flagkit/flagkit/pkg/permissions"
)

func TestActorContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		userID := uuid.New()
		ctx := permissions.WithActor(context.Background(), userID)

		got, ok := permissions.ActorFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, userID, got)
	})

	t.Run("absent actor", func(t *testing.T) {
		t.Parallel()

		_, ok := permissions.ActorFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("inner actor wins", func(t *testing.T) {
		t.Parallel()

		outer, inner := uuid.New(), uuid.New()
		ctx := permissions.WithActor(context.Background(), outer)
		ctx = permissions.WithActor(ctx, inner)

		got, ok := permissions.ActorFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, inner, got)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	t.Run("logs the actor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(permissions.LoggerExtractor()),
		)

		userID := uuid.New()
		ctx := permissions.WithActor(context.Background(), userID)
		log.InfoContext(ctx, "evaluated")

		assert.Contains(t, buf.String(), `"user_id":"`+userID.String()+`"`)
	})

	t.Run("silent without an actor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithContextExtractors(permissions.LoggerExtractor()),
		)

		log.InfoContext(context.Background(), "evaluated")

		assert.NotContains(t, buf.String(), "user_id")
	})
}
