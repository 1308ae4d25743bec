package sources

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// A source is excluded from fetch rounds once it accumulates this
	// many consecutive failures within the failure window.
	failureThreshold = 3

	// Failures older than this window are forgiven: the counter resets
	// on the next failure, and an excluded source becomes eligible
	// again once the window passes without a fresh failure.
	failureWindow = 12 * time.Hour
)

// Registry tracks per-source reliability state. Fetch goroutines report
// failures concurrently, so all state is mutex-protected.
type Registry struct {
	states map[string]*ReliabilityState
	mu     sync.Mutex
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		states: make(map[string]*ReliabilityState),
		now:    time.Now,
	}
}

// MarkFailing records a fetch failure. A failure within the window of
// the previous one increments the counter, otherwise the counter
// restarts at 1.
func (r *Registry) MarkFailing(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	state, ok := r.states[sourceID]
	if !ok {
		state = &ReliabilityState{}
		r.states[sourceID] = state
	}

	if !state.LastFailureAt.IsZero() && now.Sub(state.LastFailureAt) < failureWindow {
		state.ConsecutiveFailures++
	} else {
		state.ConsecutiveFailures = 1
	}
	state.LastFailureAt = now

	if state.ConsecutiveFailures == failureThreshold {
		slog.Warn("Source excluded after repeated failures",
			"source", sourceID,
			"failures", state.ConsecutiveFailures,
			"cooldown", failureWindow.String())
	}
}

// MarkHealthy clears the failure counter after a successful fetch.
func (r *Registry) MarkHealthy(sourceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[sourceID]; ok {
		state.ConsecutiveFailures = 0
		state.LastFailureAt = time.Time{}
	}
}

// IsExcluded reports whether a source has hit the failure threshold and
// is still inside the cooldown window.
func (r *Registry) IsExcluded(sourceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isExcludedLocked(sourceID)
}

func (r *Registry) isExcludedLocked(sourceID string) bool {
	state, ok := r.states[sourceID]
	if !ok {
		return false
	}
	if state.ConsecutiveFailures < failureThreshold {
		return false
	}
	return r.now().Sub(state.LastFailureAt) < failureWindow
}

// ReliableSubset filters out excluded sources before a fetch round, so
// batches are not wasted on origins that are down for extended periods.
func (r *Registry) ReliableSubset(candidates []Source) []Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Source, 0, len(candidates))
	for _, s := range candidates {
		if r.isExcludedLocked(s.ID) {
			slog.Debug("Skipping excluded source", "source", s.ID)
			continue
		}
		result = append(result, s)
	}
	return result
}

// FailureCount returns the current consecutive failure count for a
// source, for stats reporting.
func (r *Registry) FailureCount(sourceID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if state, ok := r.states[sourceID]; ok {
		return state.ConsecutiveFailures
	}
	return 0
}
