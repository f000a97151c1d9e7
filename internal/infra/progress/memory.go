package progress

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker keeps progress trails in process memory. Suited to
// single-node deployments and tests; expired trails are evicted lazily on
// access and on write.
type MemoryTracker struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	trails map[string]*trail
}

type trail struct {
	entries   []Entry
	expiresAt time.Time
}

func NewMemoryTracker(ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryTracker{
		ttl:    ttl,
		now:    time.Now,
		trails: make(map[string]*trail),
	}
}

func (t *MemoryTracker) Emit(ctx context.Context, operationID, event string, payload any) error {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictLocked(now)
	tr := t.trails[operationID]
	if tr == nil {
		tr = &trail{}
		t.trails[operationID] = tr
	}
	tr.entries = append(tr.entries, Entry{Event: event, Payload: payload, At: now.UTC()})
	tr.expiresAt = now.Add(t.ttl)
	return nil
}

func (t *MemoryTracker) Snapshot(ctx context.Context, operationID string) ([]Entry, error) {
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	tr := t.trails[operationID]
	if tr == nil || !tr.expiresAt.After(now) {
		delete(t.trails, operationID)
		return nil, nil
	}
	out := make([]Entry, len(tr.entries))
	copy(out, tr.entries)
	return out, nil
}

var _ Tracker = (*MemoryTracker)(nil)

func (t *MemoryTracker) evictLocked(now time.Time) {
	for id, tr := range t.trails {
		if !tr.expiresAt.After(now) {
			delete(t.trails, id)
		}
	}
}
