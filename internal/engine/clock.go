package engine

import "time"

// Clock abstracts wall-clock time so tests can drive day rollovers
// without waiting on real midnights.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }
