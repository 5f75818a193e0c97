// Package pg bootstraps the PostgreSQL connection pool backing the
// membership store. It wraps pgx/v5 pool construction with startup retry,
// applies goose SQL migrations from an embedded filesystem, and exposes
// the error classifiers the store layer needs (not-found point reads,
// unique-constraint races on the active-membership index).
//
// Typical startup sequence:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, membership.Migrations(), slog.Default()); err != nil {
//	    return err
//	}
package pg
