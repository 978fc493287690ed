// Package redis provides helpers for connecting to a Redis server, used here
// as the transport for realtime change notifications.
//
// The package wraps the go-redis client and adds a `Connect` that retries the
// initial connection using the supplied configuration, plus a health-check
// helper for liveness and readiness probes.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	checker := redis.Healthcheck(client)
//
// # Errors
//
// Sentinel errors (e.g. ErrNotReady) wrap the underlying go-redis errors via
// errors.Join for comparison with errors.Is.
package redis
