// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver: connection pooling with startup retries, embedded schema
// migrations via goose, a health check closure, and error classification
// helpers.
//
// # Architecture
//
// Three cooperating building blocks:
//
//   - Config – a declarative struct populated from environment variables via
//     github.com/caarlos0/env. It controls pool limits, health-check cadence
//     and the migrations bookkeeping table.
//
//   - Connect – opens a *pgxpool.Pool based on Config, retrying with a
//     growing backoff until the database becomes available.
//
//   - Migrate – runs goose migrations from an embedded filesystem against
//     the same pool, so the schema is current before the service serves
//     traffic.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	health := pg.Healthcheck(pool)
//
// # Error Handling
//
// Helpers such as [pg.IsUniqueViolation] and [pg.IsForeignKeyViolation]
// unwrap *pgconn.PgError so store code can translate constraint violations
// into domain sentinels without string matching.
package pg
