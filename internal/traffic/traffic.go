package traffic

import (
	"sync"
	"time"
)

// retention bounds how far back outcomes are kept.
const retention = time.Hour

var defaultTracker Tracker

// Record records one query outcome (see observability.Outcome*).
func Record(outcome string) {
	defaultTracker.Record(outcome)
}

// Counts returns outcome counts within the window.
func Counts(window time.Duration) map[string]int {
	return defaultTracker.Counts(window)
}

// FailureRate returns (failed, total) within the window, where failed is every
// outcome listed in failing.
func FailureRate(window time.Duration, failing ...string) (failed, total int) {
	return defaultTracker.FailureRate(window, failing...)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

// Tracker keeps a sliding window of outcome timestamps per outcome label.
type Tracker struct {
	mu    sync.Mutex
	times map[string][]time.Time
}

// Record appends the current time under outcome and prunes old entries.
func (t *Tracker) Record(outcome string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.times == nil {
		t.times = make(map[string][]time.Time)
	}
	now := time.Now()
	t.times[outcome] = append(t.times[outcome], now)
	t.pruneLocked(now)
}

// Counts returns the number of outcomes per label not older than window.
func (t *Tracker) Counts(window time.Duration) map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := time.Now().Add(-window)
	counts := make(map[string]int, len(t.times))
	for outcome, times := range t.times {
		if n := countInWindow(times, cutoff); n > 0 {
			counts[outcome] = n
		}
	}
	return counts
}

// FailureRate returns (failed, total) within the window.
func (t *Tracker) FailureRate(window time.Duration, failing ...string) (failed, total int) {
	counts := t.Counts(window)
	for _, n := range counts {
		total += n
	}
	for _, outcome := range failing {
		failed += counts[outcome]
	}
	return failed, total
}

// Reset clears all recorded outcomes from the tracker.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times = nil
}

// countInWindow counts timestamps that are not before the cutoff time.
func countInWindow(times []time.Time, cutoff time.Time) int {
	n := 0
	for _, ts := range times {
		if !ts.Before(cutoff) {
			n++
		}
	}
	return n
}

// pruneLocked drops timestamps older than retention. Must be called with mutex held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-retention)
	for outcome, times := range t.times {
		i := 0
		for ; i < len(times) && times[i].Before(cutoff); i++ {
		}
		if i == len(times) {
			delete(t.times, outcome)
		} else if i > 0 {
			t.times[outcome] = append(times[:0], times[i:]...)
		}
	}
}
