package engine

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
)

// How close a birthday has to be, and how long a silence has to last,
// before the scanner speaks up.
const (
	birthdayWindowDays = 7
	staleContactDays   = 21
)

// RunReminders performs the once-per-day reminder scan. The persisted
// last-checked marker is written whether or not anything fired, so the
// scan never repeats within the same calendar day.
func (e *Engine) RunReminders() error {
	now := e.Clock.Now()
	today := score.DayKey(now)

	last, err := e.DB.GetState(store.StateLastReminderCheck)
	if err != nil {
		return err
	}
	if last == today {
		return nil
	}

	msgs := e.ScanReminders(now)
	if len(msgs) > 0 && e.Notifier != nil {
		e.Notifier.Notify("Reminders", strings.Join(msgs, "\n"))
	}

	return e.DB.SetState(store.StateLastReminderCheck, today)
}

// ScanReminders builds the reminder batch for the given moment:
// birthdays within the next week and contacts gone quiet for three
// weeks or more. People with unparseable dates are skipped for that
// rule only.
func (e *Engine) ScanReminders(now time.Time) []string {
	people, err := e.DB.ListPeople("")
	if err != nil {
		log.Printf("reminders: list people: %v", err)
		return nil
	}

	var msgs []string
	for _, p := range people {
		if p.Birthday != "" {
			if bd, err := score.ParseDay(p.Birthday); err == nil {
				thisYear := time.Date(now.Year(), bd.Month(), bd.Day(), 0, 0, 0, 0, now.Location())
				daysUntil := score.FloorDays(thisYear.Sub(now))
				if daysUntil >= 0 && daysUntil <= birthdayWindowDays {
					msgs = append(msgs, fmt.Sprintf("%s's birthday is in %d days", p.Name, daysUntil))
				}
			}
		}

		if p.LastInteractionDate != "" {
			if last, err := score.ParseDay(p.LastInteractionDate); err == nil {
				daysSince := score.DaysBetween(last, now)
				if daysSince >= staleContactDays {
					msgs = append(msgs, fmt.Sprintf("No contact with %s for %d days", p.Name, daysSince))
				}
			}
		}
	}
	return msgs
}
