package traffic

import (
	"testing"
	"time"
)

// TestCounts_Empty verifies that Counts returns no entries when nothing has
// been recorded.
func TestCounts_Empty(t *testing.T) {
	Reset()
	if c := Counts(time.Minute); len(c) != 0 {
		t.Errorf("Counts() = %v, want empty", c)
	}
}

// TestRecord_AndCounts verifies that Record increments the count for its label only.
func TestRecord_AndCounts(t *testing.T) {
	Reset()
	Record("answered")
	Record("answered")
	Record("failed")

	c := Counts(time.Minute)
	if c["answered"] != 2 || c["failed"] != 1 || len(c) != 2 {
		t.Errorf("Counts() = %v, want answered=2 failed=1", c)
	}
}

// TestFailureRate verifies that only the listed outcomes count as failures.
func TestFailureRate(t *testing.T) {
	Reset()
	Record("answered")
	Record("answered_with_weather_error")
	Record("failed")
	Record("answered")

	failed, total := FailureRate(time.Minute, "failed", "answered_with_weather_error")
	if failed != 2 || total != 4 {
		t.Errorf("FailureRate() = %d/%d, want 2/4", failed, total)
	}

	failed, total = FailureRate(time.Minute)
	if failed != 0 || total != 4 {
		t.Errorf("FailureRate() with no failing labels = %d/%d, want 0/4", failed, total)
	}
}

// TestCounts_WindowExcludesOld verifies that entries older than the window are
// not counted and entries older than retention are pruned.
func TestCounts_WindowExcludesOld(t *testing.T) {
	var tr Tracker
	now := time.Now()
	tr.times = map[string][]time.Time{
		"answered": {now.Add(-2 * retention), now.Add(-10 * time.Minute), now.Add(-time.Second)},
		"failed":   {now.Add(-2 * retention)},
	}

	if c := tr.Counts(time.Minute); c["answered"] != 1 || c["failed"] != 0 {
		t.Errorf("Counts(1m) = %v, want answered=1", c)
	}
	if c := tr.Counts(30 * time.Minute); c["answered"] != 2 {
		t.Errorf("Counts(30m) = %v, want answered=2", c)
	}

	tr.Record("answered")
	if n := len(tr.times["answered"]); n != 3 {
		t.Errorf("after prune len = %d, want 3", n)
	}
	if _, ok := tr.times["failed"]; ok {
		t.Error("fully expired label should be removed")
	}
}

// TestReset verifies that Reset clears all outcomes.
func TestReset(t *testing.T) {
	Record("answered")
	Reset()
	if _, total := FailureRate(time.Hour); total != 0 {
		t.Errorf("total after Reset = %d, want 0", total)
	}
}
