// internal/pkg/ratelimit/memory.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often Incr walks every window to drop expired
// ones. Between sweeps a key is only checked when it is touched.
const sweepInterval = time.Minute

type window struct {
	count   int64
	expires time.Time
}

// Memory is a process-local Counter.
type Memory struct {
	mu        sync.Mutex
	windows   map[string]window
	now       func() time.Time
	nextSweep time.Time
}

func NewMemory() *Memory {
	return &Memory{windows: make(map[string]window), now: time.Now}
}

func (m *Memory) Incr(_ context.Context, key string, d time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(sweepInterval)
	}

	w, ok := m.windows[key]
	if !ok || !now.Before(w.expires) {
		w = window{expires: now.Add(d)}
	}
	w.count++
	m.windows[key] = w
	return w.count, nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, key)
	return nil
}

// sweep drops expired windows. Callers hold mu.
func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.expires) {
			delete(m.windows, k)
		}
	}
}
