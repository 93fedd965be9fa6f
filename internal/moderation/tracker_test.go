package moderation

import (
	"sync"
	"testing"
	"time"
)

func newTestTracker(window time.Duration) (*WarningTracker, *time.Time) {
	tracker := NewWarningTracker(window)
	current := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	tracker.now = func() time.Time { return current }
	return tracker, &current
}

func TestWarningTrackerSlidingWindow(t *testing.T) {
	t.Parallel()

	tracker, now := newTestTracker(24 * time.Hour)

	if got := tracker.Record(1); got != 1 {
		t.Fatalf("first record: got %d want 1", got)
	}
	*now = now.Add(1 * time.Hour)
	if got := tracker.Record(1); got != 2 {
		t.Fatalf("second record: got %d want 2", got)
	}
	*now = now.Add(1 * time.Hour)
	if got := tracker.Record(1); got != 3 {
		t.Fatalf("third record: got %d want 3", got)
	}
}

func TestWarningTrackerEvictsExpiredEvents(t *testing.T) {
	t.Parallel()

	tracker, now := newTestTracker(24 * time.Hour)

	tracker.Record(1)
	*now = now.Add(25 * time.Hour)
	if got := tracker.Record(1); got != 1 {
		t.Fatalf("expected expired event to be evicted, got count %d", got)
	}
}

func TestWarningTrackerKeepsEventExactlyOneWindowOld(t *testing.T) {
	t.Parallel()

	tracker, now := newTestTracker(24 * time.Hour)

	tracker.Record(1)
	*now = now.Add(24 * time.Hour)
	if got := tracker.Record(1); got != 2 {
		t.Fatalf("event exactly at the window boundary must still count, got %d", got)
	}
}

func TestWarningTrackerIndependentUsers(t *testing.T) {
	t.Parallel()

	tracker, _ := newTestTracker(24 * time.Hour)

	tracker.Record(1)
	tracker.Record(1)
	if got := tracker.Record(2); got != 1 {
		t.Fatalf("users must not share counts, got %d", got)
	}
	if got := tracker.Record(1); got != 3 {
		t.Fatalf("unexpected count for first user: %d", got)
	}
}

func TestWarningTrackerConcurrentRecords(t *testing.T) {
	t.Parallel()

	tracker := NewWarningTracker(24 * time.Hour)

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record(42)
		}()
	}
	wg.Wait()

	if got := tracker.Record(42); got != workers+1 {
		t.Fatalf("lost concurrent records: got %d want %d", got, workers+1)
	}
}
