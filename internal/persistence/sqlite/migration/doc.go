// Package migration applies versioned schema changes to a SQLite database.
//
// Migration files are read from an fs.FS (normally an embed.FS compiled into
// the binary) and must be named {version}_{description}.sql, for example
// "001_initial_schema.sql". Applied versions are tracked in the
// schema_migrations table together with the checksum of the file that was
// applied, so an edited migration is reported instead of silently skipped.
//
// Example usage:
//
//	manager := NewManager(db, migrationsFS, logger)
//	if _, err := manager.Run(ctx); err != nil {
//		return err
//	}
package migration
