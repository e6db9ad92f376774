// Package migration applies versioned SQL schema changes to the planning
// SQLite database.
//
// Migration files follow the naming convention {version}_{description}.sql
// (for example "001_init.sql") and are embedded into the binary from the
// migrations directory. Applied versions are tracked in the schema_migrations
// table together with the sha256 checksum of the file that was executed, so
// an edited migration is detected instead of silently skipped.
//
// Example usage:
//
//	manager := migration.NewManager(
//		migration.NewFileScanner(migration.Files),
//		migration.NewSQLiteExecutor(db),
//		migration.Dir,
//		logger,
//	)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
