// Package presence tracks heartbeats of UI surfaces, in process memory or in
// redis when several instances share one store.
package presence

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryTracker struct {
	mu   sync.RWMutex
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (t *MemoryTracker) Touch(_ context.Context, surface string) error {
	t.mu.Lock()
	t.seen[surface] = t.now()
	t.mu.Unlock()

	return nil
}

func (t *MemoryTracker) Busy(_ context.Context, surface string, window time.Duration) (bool, error) {
	t.mu.RLock()
	last, ok := t.seen[surface]
	t.mu.RUnlock()

	return ok && t.now().Sub(last) <= window, nil
}

func (t *MemoryTracker) Active(_ context.Context, window time.Duration) ([]string, error) {
	now := t.now()
	active := []string{}

	t.mu.Lock()
	defer t.mu.Unlock()

	for surface, last := range t.seen {
		if now.Sub(last) <= window {
			active = append(active, surface)
		} else {
			delete(t.seen, surface)
		}
	}
	sort.Strings(active)

	return active, nil
}
