// Package mongo provides MongoDB connection management for deployments that
// keep access-control data in a document store.
//
// Configuration is environment-driven, the initial connection retries
// transient failures, and pool defaults suit small-to-medium workloads
// without manual tuning.
//
// # Usage
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "flagkit")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Client().Disconnect(ctx)
//
//	health := mongo.Healthcheck(db.Client())
//
// # Error Handling
//
// Connection failures wrap the package sentinels, so callers can branch with
// errors.Is and decide between retry and fail-fast at startup.
package mongo
