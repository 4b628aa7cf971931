package store

import "database/sql"

const ddl = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS apps (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    desktop_id TEXT NOT NULL UNIQUE,
    path       TEXT NOT NULL,
    name       TEXT NOT NULL,
    comment    TEXT NOT NULL DEFAULT '',
    exec       TEXT NOT NULL,
    icon_name  TEXT NOT NULL DEFAULT '',
    icon_path  TEXT NOT NULL DEFAULT '',
    terminal   INTEGER NOT NULL DEFAULT 0,
    generation INTEGER NOT NULL DEFAULT 0,
    indexed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS apps_name ON apps (name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Init creates the schema tables if they don't exist.
func Init(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}
