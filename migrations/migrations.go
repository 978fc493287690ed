// Package migrations holds the embedded PostgreSQL schema, applied with
// pg.Migrate at startup:
//
//	err := pg.Migrate(ctx, pool, migrations.FS, cfg, log)
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
