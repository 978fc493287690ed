// Package realtime delivers project-scoped change notifications. Writes to
// grants, projects, features, and segments publish an Update; consumers use
// it as an invalidation hint and re-read state through the regular stores.
//
// Basic usage:
//
//	publisher := realtime.NewMemoryPublisher(16)
//	defer publisher.Close()
//
//	ctx := context.Background()
//	updates := publisher.Subscribe(ctx)
//
//	publisher.Publish(ctx, realtime.NewUpdate(projectID, realtime.KindFeatures))
//
//	for update := range updates {
//		fmt.Println(update.ProjectID, update.Kind)
//	}
//
// For cross-process delivery, RedisPublisher publishes the same updates as
// JSON over Redis pub/sub, one channel per project:
//
//	client, _ := redis.Connect(ctx, cfg)
//	publisher := realtime.NewRedisPublisher(client,
//		realtime.WithChannelPrefix("flags"))
//
// Publishing is best-effort everywhere: slow in-memory subscribers are
// dropped rather than blocking writers, and Redis pub/sub is
// fire-and-forget by design.
package realtime
