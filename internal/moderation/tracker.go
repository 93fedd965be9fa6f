package moderation

import (
	"sync"
	"time"
)

const (
	DefaultWarningThreshold = 3
	DefaultWarningWindow    = 24 * time.Hour
)

// WarningTracker keeps a rolling per-user count of recorded offenses.
// State is process-local by design, chat membership bounds the key space.
type WarningTracker struct {
	mu       sync.Mutex
	window   time.Duration
	offenses map[int64][]time.Time
	now      func() time.Time
}

func NewWarningTracker(window time.Duration) *WarningTracker {
	if window <= 0 {
		window = DefaultWarningWindow
	}
	return &WarningTracker{
		window:   window,
		offenses: make(map[int64][]time.Time),
		now:      time.Now,
	}
}

// Record registers an offense for the user and returns how many offenses the
// user has within the trailing window, including this one. Pruning happens
// lazily here, under the same lock as the append, so concurrent records for
// one user cannot lose events.
func (t *WarningTracker) Record(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	kept := t.offenses[userID][:0]
	for _, ts := range t.offenses[userID] {
		// events exactly one window old still count
		if now.Sub(ts) <= t.window {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now)
	t.offenses[userID] = kept
	return len(kept)
}
