package sources

import (
	"testing"
	"time"
)

func newTestRegistry(start time.Time) (*Registry, *time.Time) {
	clock := start
	r := NewRegistry()
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestRegistry_ExcludedAfterThreeFailures(t *testing.T) {
	r, _ := newTestRegistry(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	r.MarkFailing("techblog")
	r.MarkFailing("techblog")

	if r.IsExcluded("techblog") {
		t.Error("Source should not be excluded after 2 failures")
	}

	r.MarkFailing("techblog")

	if !r.IsExcluded("techblog") {
		t.Error("Source should be excluded after 3 consecutive failures")
	}
}

func TestRegistry_EligibleAgainAfterCooldown(t *testing.T) {
	r, clock := newTestRegistry(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	r.MarkFailing("techblog")
	r.MarkFailing("techblog")
	r.MarkFailing("techblog")

	if !r.IsExcluded("techblog") {
		t.Fatal("Source should be excluded after 3 failures")
	}

	*clock = clock.Add(13 * time.Hour)

	if r.IsExcluded("techblog") {
		t.Error("Source should be eligible again after 12 hours without a fresh failure")
	}
}

func TestRegistry_OldFailureResetsCounter(t *testing.T) {
	r, clock := newTestRegistry(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	r.MarkFailing("techblog")
	r.MarkFailing("techblog")

	// A failure outside the 12h window restarts the count at 1.
	*clock = clock.Add(13 * time.Hour)
	r.MarkFailing("techblog")

	if got := r.FailureCount("techblog"); got != 1 {
		t.Errorf("Expected counter reset to 1 after stale failure, got %d", got)
	}

	if r.IsExcluded("techblog") {
		t.Error("Source should not be excluded after counter reset")
	}
}

func TestRegistry_MarkHealthyClearsState(t *testing.T) {
	r, _ := newTestRegistry(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	r.MarkFailing("techblog")
	r.MarkFailing("techblog")
	r.MarkHealthy("techblog")

	if got := r.FailureCount("techblog"); got != 0 {
		t.Errorf("Expected zero failures after MarkHealthy, got %d", got)
	}
}

func TestRegistry_ReliableSubset(t *testing.T) {
	r, _ := newTestRegistry(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	all := []Source{
		{ID: "healthy", Name: "Healthy"},
		{ID: "failing", Name: "Failing"},
	}

	r.MarkFailing("failing")
	r.MarkFailing("failing")
	r.MarkFailing("failing")

	subset := r.ReliableSubset(all)

	if len(subset) != 1 {
		t.Fatalf("Expected 1 reliable source, got %d", len(subset))
	}
	if subset[0].ID != "healthy" {
		t.Errorf("Expected 'healthy' to survive filtering, got %s", subset[0].ID)
	}
}

func TestRegistry_UnknownSourceIsNotExcluded(t *testing.T) {
	r, _ := newTestRegistry(time.Now())

	if r.IsExcluded("never-seen") {
		t.Error("Unknown sources should not be excluded")
	}
}
