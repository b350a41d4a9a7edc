package store

import (
	"fmt"
	"time"
)

// DayActions holds the interaction flags logged for one person on one
// calendar day.
type DayActions struct {
	Called bool `json:"called"`
	Talked bool `json:"talked"`
	Played bool `json:"played"`
}

// Any reports whether at least one action flag is set.
func (a DayActions) Any() bool {
	return a.Called || a.Talked || a.Played
}

// Action field names accepted by ToggleAction.
const (
	ActionCalled = "called"
	ActionTalked = "talked"
	ActionPlayed = "played"
)

// ToggleAction sets one action flag for a person under the given day
// key. It never touches the person's score or last interaction date;
// the rollover converts flags into score changes after the day ends.
func (db *DB) ToggleAction(dayKey, personID, field string, value bool) error {
	switch field {
	case ActionCalled, ActionTalked, ActionPlayed:
	default:
		return fmt.Errorf("unknown action field %q", field)
	}

	v := 0
	if value {
		v = 1
	}
	now := time.Now().UnixMilli()

	_, err := db.Exec(`
		INSERT INTO daily_actions (day_key, person_id, `+field+`, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day_key, person_id) DO UPDATE SET `+field+` = ?, updated_at = ?
	`, dayKey, personID, v, now, v, now)
	if err != nil {
		return fmt.Errorf("toggle action: %w", err)
	}
	return nil
}

// LedgerFor returns the logged actions for a day, keyed by person ID.
// A day with nothing logged yields an empty map.
func (db *DB) LedgerFor(dayKey string) (map[string]DayActions, error) {
	rows, err := db.Query(`
		SELECT person_id, called, talked, played FROM daily_actions WHERE day_key = ?
	`, dayKey)
	if err != nil {
		return nil, fmt.Errorf("ledger for %s: %w", dayKey, err)
	}
	defer rows.Close()

	ledger := make(map[string]DayActions)
	for rows.Next() {
		var personID string
		var called, talked, played int
		if err := rows.Scan(&personID, &called, &talked, &played); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		ledger[personID] = DayActions{
			Called: called != 0,
			Talked: talked != 0,
			Played: played != 0,
		}
	}
	return ledger, rows.Err()
}

// ClearLedger removes all ledger rows for a day. Used by the rollover
// inside its transaction; exposed for tests and manual repair.
func (db *DB) ClearLedger(dayKey string) error {
	if _, err := db.Exec("DELETE FROM daily_actions WHERE day_key = ?", dayKey); err != nil {
		return fmt.Errorf("clear ledger %s: %w", dayKey, err)
	}
	return nil
}
