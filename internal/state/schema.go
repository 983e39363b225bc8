package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS catalogue_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			title TEXT NOT NULL,
			norm_title TEXT NOT NULL,
			orchestra TEXT NOT NULL DEFAULT '',
			singer TEXT NOT NULL DEFAULT '',
			composer TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			master TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			pianist TEXT NOT NULL DEFAULT '',
			bassist TEXT NOT NULL DEFAULT '',
			bandoneons TEXT NOT NULL DEFAULT '',
			strings TEXT NOT NULL DEFAULT '',
			genre TEXT NOT NULL DEFAULT '',
			grouping TEXT NOT NULL DEFAULT '',
			imported_at INTEGER NOT NULL,
			UNIQUE (source, row_index)
		);

		CREATE INDEX IF NOT EXISTS idx_catalogue_source ON catalogue_entries(source);
		CREATE INDEX IF NOT EXISTS idx_catalogue_norm_title ON catalogue_entries(norm_title);
		CREATE INDEX IF NOT EXISTS idx_catalogue_year ON catalogue_entries(year);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			folder TEXT NOT NULL,
			template TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			tagged INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			synced_at INTEGER
		);

		CREATE TABLE IF NOT EXISTS renames (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			old_name TEXT NOT NULL,
			new_name TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
