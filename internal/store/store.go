package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Meta keys.
const (
	MetaIconTheme  = "icon_theme"
	MetaGeneration = "generation"
)

// Store provides persistence for the application index.
type Store interface {
	// UpsertApp inserts or replaces the app with the same desktop ID and tags
	// it with the scan generation.
	UpsertApp(a App, generation int64) error
	// ListApps returns all apps sorted by name, case-insensitively.
	ListApps() ([]App, error)
	// SearchApps returns apps whose name or comment contains query.
	SearchApps(query string) ([]App, error)
	// GetApp returns the app with the given desktop ID, or false.
	GetApp(desktopID string) (App, bool, error)
	// PruneApps deletes apps not seen in the given generation and returns how many.
	PruneApps(generation int64) (int64, error)
	// NextGeneration increments and returns the scan generation counter.
	NextGeneration() (int64, error)
	// GetMeta returns a metadata value by key, or "" if not set.
	GetMeta(key string) (string, error)
	// SetMeta sets a metadata key-value pair.
	SetMeta(key, value string) error
	// Close closes the underlying database.
	Close() error
}

// SQLiteStore implements Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and initializes the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Init(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) UpsertApp(a App, generation int64) error {
	_, err := s.db.Exec(`
		INSERT INTO apps (desktop_id, path, name, comment, exec, icon_name, icon_path, terminal, generation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(desktop_id) DO UPDATE SET
			path = excluded.path,
			name = excluded.name,
			comment = excluded.comment,
			exec = excluded.exec,
			icon_name = excluded.icon_name,
			icon_path = excluded.icon_path,
			terminal = excluded.terminal,
			generation = excluded.generation,
			indexed_at = CURRENT_TIMESTAMP`,
		a.DesktopID, a.Path, a.Name, a.Comment, a.Exec, a.IconName, a.IconPath, a.Terminal, generation,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", a.DesktopID, err)
	}
	return nil
}

const selectApps = `
	SELECT id, desktop_id, path, name, comment, exec, icon_name, icon_path, terminal, indexed_at
	FROM apps`

func (s *SQLiteStore) ListApps() ([]App, error) {
	return s.queryApps(selectApps + " ORDER BY name COLLATE NOCASE, desktop_id")
}

func (s *SQLiteStore) SearchApps(query string) ([]App, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListApps()
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.queryApps(selectApps+`
		WHERE name LIKE ? ESCAPE '\' OR comment LIKE ? ESCAPE '\'
		ORDER BY name COLLATE NOCASE, desktop_id`, pattern, pattern)
}

func (s *SQLiteStore) GetApp(desktopID string) (App, bool, error) {
	apps, err := s.queryApps(selectApps+" WHERE desktop_id = ?", desktopID)
	if err != nil || len(apps) == 0 {
		return App{}, false, err
	}
	return apps[0], true, nil
}

func (s *SQLiteStore) PruneApps(generation int64) (int64, error) {
	res, err := s.db.Exec("DELETE FROM apps WHERE generation != ?", generation)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) NextGeneration() (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var current int64
	var value string
	err = tx.QueryRow("SELECT value FROM meta WHERE key = ?", MetaGeneration).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return 0, err
	default:
		if current, err = strconv.ParseInt(value, 10, 64); err != nil {
			return 0, fmt.Errorf("corrupt generation %q: %w", value, err)
		}
	}

	next := current + 1
	_, err = tx.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		MetaGeneration, strconv.FormatInt(next, 10),
	)
	if err != nil {
		return 0, err
	}
	return next, tx.Commit()
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (s *SQLiteStore) SetMeta(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryApps(query string, args ...any) ([]App, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []App
	for rows.Next() {
		var a App
		err := rows.Scan(
			&a.ID, &a.DesktopID, &a.Path, &a.Name, &a.Comment, &a.Exec,
			&a.IconName, &a.IconPath, &a.Terminal, &a.IndexedAt,
		)
		if err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
