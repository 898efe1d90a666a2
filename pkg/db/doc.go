// Package db provides the PostgreSQL plumbing for the delivery record
// store: pooled connections with startup retry, a transaction helper,
// and goose-based schema migrations.
//
// # Usage
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := db.Migrate(ctx, pool, migrations.FS, cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
// Configuration is loaded from environment variables (see Config).
// Errors are wrapped with [errors.Join] so sentinel checks with
// [errors.Is] keep working alongside the driver error.
package db
