package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "people: person records with closeness-score state",
		SQL: `
CREATE TABLE people (
    id                    TEXT PRIMARY KEY,
    name                  TEXT NOT NULL,
    reading               TEXT,
    nickname              TEXT,
    relationship_status   TEXT NOT NULL DEFAULT 'unknown',
    relation              TEXT,
    address               TEXT,
    workplace             TEXT,
    school                TEXT,
    birthday              TEXT,

    -- Closeness-score lifecycle
    friend_score          INTEGER NOT NULL DEFAULT 20,
    floor                 INTEGER NOT NULL DEFAULT 0,
    last_interaction_date TEXT NOT NULL DEFAULT '',

    -- Flexible lists, stored as JSON text
    contacts              TEXT,
    relation_tags         TEXT,
    friend_groups         TEXT,
    favourites            TEXT,
    dislikes              TEXT,
    hobbies               TEXT,
    notes                 TEXT,
    events                TEXT,

    created_at            INTEGER NOT NULL,
    updated_at            INTEGER NOT NULL
);

CREATE INDEX idx_people_last_interaction ON people(last_interaction_date DESC);
CREATE INDEX idx_people_score            ON people(friend_score DESC);
`,
	},
	{
		Version:     2,
		Description: "daily_actions: per-day interaction ledger",
		SQL: `
CREATE TABLE daily_actions (
    day_key    TEXT NOT NULL,
    person_id  TEXT NOT NULL,
    called     INTEGER NOT NULL DEFAULT 0,
    talked     INTEGER NOT NULL DEFAULT 0,
    played     INTEGER NOT NULL DEFAULT 0,
    updated_at INTEGER NOT NULL,

    PRIMARY KEY (day_key, person_id)
);

CREATE INDEX idx_daily_actions_day ON daily_actions(day_key);
`,
	},
	{
		Version:     3,
		Description: "app_state: persisted markers (active day, reminder check, pin)",
		SQL: `
CREATE TABLE app_state (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
