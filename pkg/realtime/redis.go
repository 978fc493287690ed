package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultChannelPrefix = "flagkit"

// RedisClient is the subset of the go-redis API used by RedisPublisher.
// *redis.Client and any redis.UniversalClient satisfy it.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher broadcasts updates over Redis pub/sub so that consumers in
// other processes (SSE bridges, edge caches) can react to project changes.
// Each project gets its own channel: "<prefix>:project:<uuid>".
type RedisPublisher struct {
	client RedisClient
	prefix string
}

// RedisOption configures a RedisPublisher.
type RedisOption func(*RedisPublisher)

// WithChannelPrefix overrides the default "flagkit" channel prefix.
func WithChannelPrefix(prefix string) RedisOption {
	return func(p *RedisPublisher) {
		if prefix != "" {
			p.prefix = prefix
		}
	}
}

// NewRedisPublisher creates a publisher on top of a connected client.
// Panics if client is nil.
func NewRedisPublisher(client RedisClient, opts ...RedisOption) *RedisPublisher {
	if client == nil {
		panic("realtime: redis client is required")
	}

	p := &RedisPublisher{
		client: client,
		prefix: defaultChannelPrefix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish implements Publisher. The update is JSON-encoded and published to
// the project's channel; delivery to subscribers is fire-and-forget per
// Redis pub/sub semantics.
func (p *RedisPublisher) Publish(ctx context.Context, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	channel := p.Channel(update.ProjectID.String())
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish update: %w", err)
	}
	return nil
}

// Channel returns the pub/sub channel name for a project, for consumers
// that subscribe directly.
func (p *RedisPublisher) Channel(projectID string) string {
	return fmt.Sprintf("%s:project:%s", p.prefix, projectID)
}

var _ Publisher = (*RedisPublisher)(nil)
