// Package engine runs the closeness-score lifecycle: the startup decay
// pass, the day-rollover poller that converts a finished day's action
// ledger into score changes, and the once-per-day reminder scan.
package engine

import (
	"log"
	"time"

	"github.com/lazypower/kinship/internal/notify"
	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
)

// DefaultPollInterval is how often the rollover poller compares the
// wall-clock date against the active day key.
const DefaultPollInterval = 60 * time.Second

// Engine coordinates the temporal parts of the score lifecycle.
type Engine struct {
	DB       *store.DB
	Notifier notify.Notifier
	Clock    Clock
	Interval time.Duration
	stopCh   chan struct{}
}

// New creates an Engine on the system clock with the default poll
// interval.
func New(db *store.DB, notifier notify.Notifier) *Engine {
	return &Engine{
		DB:       db,
		Notifier: notifier,
		Clock:    SystemClock(),
		Interval: DefaultPollInterval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the startup passes (decay, any pending day rollover, the
// daily reminder scan) and then launches the rollover poller. Every
// pass fails soft: a storage error is logged and the session carries on
// with in-memory state.
func (e *Engine) Start() {
	if updated, err := e.DecayAll(); err != nil {
		log.Printf("decay error: %v", err)
	} else if updated > 0 {
		log.Printf("decay: updated %d people", updated)
	}

	if applied, err := e.CheckRollover(); err != nil {
		log.Printf("rollover error: %v", err)
	} else if applied {
		log.Printf("rollover: applied pending day transition")
	}

	if err := e.RunReminders(); err != nil {
		log.Printf("reminder error: %v", err)
	}

	go func() {
		ticker := time.NewTicker(e.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := e.CheckRollover(); err != nil {
					log.Printf("rollover error: %v", err)
				}
				if err := e.RunReminders(); err != nil {
					log.Printf("reminder error: %v", err)
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutine.
func (e *Engine) Stop() {
	close(e.stopCh)
}

// DecayAll applies elapsed-day decay and the floor ratchet to every
// person, persisting only the people whose score or floor changed.
// Safe to run once per process start; the formula depends only on
// stored state, never on call count.
func (e *Engine) DecayAll() (int, error) {
	people, err := e.DB.ListPeople("")
	if err != nil {
		return 0, err
	}

	now := e.Clock.Now()
	updated := 0
	for _, p := range people {
		next := score.ApplyDecay(p, now)
		if next.FriendScore == p.FriendScore && next.Floor == p.Floor {
			continue
		}
		patch := store.PersonPatch{
			FriendScore: &next.FriendScore,
			Floor:       &next.Floor,
		}
		if err := e.DB.PatchPerson(p.ID, patch); err != nil {
			log.Printf("decay: patch %s: %v", p.ID, err)
			continue
		}
		updated++
	}
	return updated, nil
}
