package pricing

import "time"

// Window is a closed interval of wall-clock time. Both bounds are
// inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether now falls inside the window.
func (w Window) Contains(now time.Time) bool {
	return !now.Before(w.Start) && !now.After(w.End)
}

// EarlyBirdActive reports whether the early-bird discount still applies at
// now. The cutoff instant itself qualifies.
func (c Config) EarlyBirdActive(now time.Time) bool {
	return !now.After(c.EarlyBirdEnd)
}

// WalkInActive reports whether the walk-in categories are purchasable at
// now.
func (c Config) WalkInActive(now time.Time) bool {
	return c.WalkInWindow.Contains(now)
}
