package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Mappings table - user overrides of the gesture to action bindings
		`CREATE TABLE IF NOT EXISTS mappings (
			gesture TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			percent INTEGER NOT NULL DEFAULT 0,
			require_confirmation INTEGER NOT NULL DEFAULT 0,
			enabled INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Dispatch history - audit log of every dispatch attempt
		`CREATE TABLE IF NOT EXISTS dispatch_history (
			id TEXT PRIMARY KEY,
			gesture TEXT NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_dispatch_history_created_at ON dispatch_history(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
