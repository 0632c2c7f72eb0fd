package store

import (
	"context"
	"sync"
)

// DefaultHistoryLimit caps retained results when no limit is configured.
const DefaultHistoryLimit = 100

// Memory implements Store in process memory. State lives for the process
// lifetime only and resets on restart. History is capped; the oldest
// entries are dropped first.
type Memory struct {
	mu      sync.Mutex
	events  int64
	results int64
	history []ResultRow
	limit   int
}

// NewMemory returns an in-memory Store retaining at most historyLimit results.
func NewMemory(historyLimit int) *Memory {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Memory{limit: historyLimit}
}

// RecordEvent counts an accepted delivery. The memory store does not dedupe
// deliveries; keeping a seen-ID set would grow without bound.
func (m *Memory) RecordEvent(_ context.Context, _ *EventRow) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events++
	return true, nil
}

func (m *Memory) RecordResult(_ context.Context, result *ResultRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results++
	m.history = append(m.history, *result)
	if len(m.history) > m.limit {
		m.history = append([]ResultRow(nil), m.history[len(m.history)-m.limit:]...)
	}
	return nil
}

func (m *Memory) RecentResults(_ context.Context, limit int) ([]ResultRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ResultRow, n)
	copy(out, m.history[len(m.history)-n:])
	return out, nil
}

func (m *Memory) EventCount(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events, nil
}

func (m *Memory) ResultCount(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results, nil
}

// Ping always succeeds; there is no backing connection to check.
func (m *Memory) Ping(_ context.Context) error {
	return nil
}
