// Package score holds the pure closeness-score model: action deltas,
// time-based decay, and the persistent floor (ratchet). Nothing in
// here touches storage; callers decide what to persist.
package score

import (
	"time"

	"github.com/lazypower/kinship/internal/store"
)

// Score deltas for the three daily interaction actions. Multiple
// actions logged on the same day are additive.
const (
	DeltaCalled = 5
	DeltaTalked = 10
	DeltaPlayed = 20
)

// GraceDays is how long a score holds steady after the last logged
// interaction. From day 15 on, the score drops by one per day.
const GraceDays = 14

// Clamp keeps a score inside [0,100].
func Clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// ActionDelta sums the deltas for every action flag set in a.
func ActionDelta(a store.DayActions) int {
	delta := 0
	if a.Called {
		delta += DeltaCalled
	}
	if a.Talked {
		delta += DeltaTalked
	}
	if a.Played {
		delta += DeltaPlayed
	}
	return delta
}

// FloorFor computes the new persistent floor from the score a person
// has reached, their previous floor, and their note count. The floor
// never decreases: historic highs ratchet it up (90→70, 70→50, 50→30)
// and every note entry is worth one floor point.
func FloorFor(reached, prevFloor, noteCount int) int {
	floor := prevFloor
	tier := 0
	switch {
	case reached >= 90:
		tier = 70
	case reached >= 70:
		tier = 50
	case reached >= 50:
		tier = 30
	}
	if tier > floor {
		floor = tier
	}
	if noteCount > floor {
		floor = noteCount
	}
	return floor
}

// ApplyDecay returns a copy of p with elapsed-day decay and the floor
// ratchet applied as of now.
//
// The floor is computed from the pre-decay score, then the score loses
// one point per day past the grace period, clamped to [0,100] and never
// below the new floor. The result depends only on the stored score and
// last interaction date, so a single call per process start is safe;
// calling again after persisting the decayed score would decay further,
// since days still count from the old interaction date.
func ApplyDecay(p store.Person, now time.Time) store.Person {
	p.Floor = FloorFor(p.FriendScore, p.Floor, len(p.Notes))

	if p.LastInteractionDate == "" {
		return p
	}
	last, err := ParseDay(p.LastInteractionDate)
	if err != nil {
		// Unparseable date: skip decay for this person, keep the floor.
		return p
	}

	daysSince := DaysBetween(last, now)
	if daysSince <= GraceDays {
		return p
	}

	decay := daysSince - GraceDays
	next := Clamp(p.FriendScore - decay)
	if next < p.Floor {
		next = p.Floor
	}
	p.FriendScore = next
	return p
}
