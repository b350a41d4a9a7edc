package engine

import (
	"log"

	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
)

// CheckRollover compares the persisted active day key against the
// clock. If the calendar date advanced, it converts the old day's
// ledger into score changes and moves the marker. Reports whether a
// transition was applied.
//
// On first run there is no marker yet; today is adopted with nothing
// to convert.
func (e *Engine) CheckRollover() (bool, error) {
	today := score.DayKey(e.Clock.Now())

	active, err := e.DB.GetState(store.StateActiveDay)
	if err != nil {
		return false, err
	}
	if active == "" {
		return false, e.DB.SetState(store.StateActiveDay, today)
	}
	if active == today {
		return false, nil
	}
	return e.rollover(active, today)
}

// rollover turns the ledger for oldKey into per-person score updates
// and commits them together with the ledger clear and marker move in
// one transaction. The last interaction date is set to oldKey, the
// day the actions happened, not the day we noticed.
func (e *Engine) rollover(oldKey, newKey string) (bool, error) {
	ledger, err := e.DB.LedgerFor(oldKey)
	if err != nil {
		return false, err
	}

	var updates []store.ScoreUpdate
	for personID, actions := range ledger {
		if !actions.Any() {
			continue
		}
		delta := score.ActionDelta(actions)

		p, err := e.DB.GetPerson(personID)
		if err != nil {
			return false, err
		}
		if p == nil {
			// Person was deleted after logging; nothing to boost.
			continue
		}

		updates = append(updates, store.ScoreUpdate{
			PersonID:            personID,
			FriendScore:         score.Clamp(p.FriendScore + delta),
			LastInteractionDate: oldKey,
		})
	}

	applied, err := e.DB.CommitRollover(oldKey, newKey, updates)
	if err != nil {
		return false, err
	}
	if applied && len(updates) > 0 {
		log.Printf("rollover: %s -> %s, boosted %d people", oldKey, newKey, len(updates))
	}
	return applied, nil
}
