// Package pg loads role declarations from PostgreSQL using the pgx/v5
// driver.
//
// The package bundles everything a service needs to keep policy in the
// database: environment-driven connection configuration, a Connect helper
// with retry logic, an embedded goose migration that creates the roles
// table, and the Source adapter the authorization engine consumes.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//	    log.Fatal(err)
//	}
//
//	authz, err := rbac.New(ctx, pg.New(pool))
//
// Roles live in a single table, one row per role, with permissions and
// inherit lists as text arrays and claims as JSONB in the same shapes a
// policy file allows. The engine rebuilds from the table on demand; rows
// changed after construction are not visible until the caller builds a new
// authorizer.
package pg
