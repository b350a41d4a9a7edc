package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Keys persisted in app_state.
const (
	StateActiveDay         = "active_day"
	StateLastReminderCheck = "last_reminder_check"
	StatePinHash           = "pin_hash"
)

// GetState returns the value for an app_state key, or "" if unset.
func (db *DB) GetState(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM app_state WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get state %s: %w", key, err)
	}
	return value, nil
}

// SetState writes an app_state key.
func (db *DB) SetState(key, value string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = ?, updated_at = ?
	`, key, value, now, value, now)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

// ScoreUpdate is one rollover-computed score change for a person.
type ScoreUpdate struct {
	PersonID            string
	FriendScore         int
	LastInteractionDate string
}

// CommitRollover atomically applies a day transition: score patches for
// every person with logged actions, removal of the old day's ledger,
// and the active-day marker moving to newKey.
//
// The marker doubles as an idempotence guard: if the active day no
// longer matches oldKey (or was never oldKey while set), another
// invocation already won, and this one is a no-op. Returns whether the
// transition was applied.
func (db *DB) CommitRollover(oldKey, newKey string, updates []ScoreUpdate) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin rollover: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRow("SELECT value FROM app_state WHERE key = ?", StateActiveDay).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("read active day: %w", err)
	}
	if current != "" && current != oldKey {
		return false, nil
	}

	now := time.Now().UnixMilli()
	for _, u := range updates {
		if _, err := tx.Exec(`
			UPDATE people SET friend_score = ?, last_interaction_date = ?, updated_at = ?
			WHERE id = ?
		`, u.FriendScore, u.LastInteractionDate, now, u.PersonID); err != nil {
			return false, fmt.Errorf("apply score update %s: %w", u.PersonID, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM daily_actions WHERE day_key = ?", oldKey); err != nil {
		return false, fmt.Errorf("clear old ledger: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO app_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = ?, updated_at = ?
	`, StateActiveDay, newKey, now, newKey, now); err != nil {
		return false, fmt.Errorf("advance active day: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit rollover: %w", err)
	}
	return true, nil
}
