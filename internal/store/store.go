package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS beans (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		roaster     TEXT NOT NULL,
		name        TEXT NOT NULL,
		roast_date  TEXT NOT NULL,
		buy_date    TEXT NOT NULL,
		country     TEXT NOT NULL DEFAULT '',
		process     TEXT NOT NULL DEFAULT '',
		varietal    TEXT NOT NULL DEFAULT '',
		altitude_m  INTEGER,
		notes       TEXT NOT NULL DEFAULT '',
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(roaster, name, roast_date)
	);

	CREATE TABLE IF NOT EXISTS grinders (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		name            TEXT NOT NULL UNIQUE,
		default_setting TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		active          INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		parameters  TEXT NOT NULL DEFAULT '',
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS shots (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		date             TEXT NOT NULL,
		bean_id          INTEGER NOT NULL REFERENCES beans(id),
		grinder_id       INTEGER REFERENCES grinders(id),
		profile_id       INTEGER REFERENCES profiles(id),
		dose_g           REAL NOT NULL,
		yield_g          REAL NOT NULL,
		ratio            REAL NOT NULL DEFAULT 0,
		time_seconds     INTEGER,
		temp_c           REAL,
		grind_setting    TEXT NOT NULL DEFAULT '',
		preinfusion_sec  INTEGER,
		preinfusion_bar  REAL,
		aroma            TEXT NOT NULL DEFAULT '',
		flavor           TEXT NOT NULL DEFAULT '',
		body             TEXT NOT NULL DEFAULT '',
		acidity          TEXT NOT NULL DEFAULT '',
		finish           TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		next_shot        TEXT NOT NULL DEFAULT '',
		rating           INTEGER,
		created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_shots_bean ON shots(bean_id);
	CREATE INDEX IF NOT EXISTS idx_shots_date ON shots(date);

	CREATE TABLE IF NOT EXISTS goals (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		type         TEXT NOT NULL,
		target_value REAL NOT NULL,
		due_date     TEXT,
		completed    INTEGER NOT NULL DEFAULT 0,
		completed_at TEXT,
		created_at   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('default_dose',       '18.0'),
		('default_ratio',      '2.0'),
		('default_yield',      '36.0'),
		('default_grinder_id', ''),
		('default_profile_id', ''),
		('autofill_last',      'true'),
		('trend_window_days',  '7');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/crema/crema.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "crema", "crema.db"), nil
}
