package book

import (
	"context"
	"sync"
	"time"
)

// CachedStore serves ReadAll from memory while the cached copy is younger than the
// caller's staleness bound. Every successful write drops the cache.
type CachedStore struct {
	next Store
	now  func() time.Time

	mu       sync.Mutex
	rows     []Row
	loadedAt time.Time
	valid    bool
	// gen is bumped by every write; a read started under an older gen is not cached.
	gen uint64
}

func NewCachedStore(next Store) *CachedStore {
	return &CachedStore{next: next, now: time.Now}
}

func (c *CachedStore) ReadAll(ctx context.Context, maxStaleness time.Duration) ([]Row, error) {
	c.mu.Lock()
	if c.valid && maxStaleness > 0 && c.now().Sub(c.loadedAt) <= maxStaleness {
		out := make([]Row, len(c.rows))
		copy(out, c.rows)
		c.mu.Unlock()
		return out, nil
	}
	gen := c.gen
	c.mu.Unlock()

	rows, err := c.next.ReadAll(ctx, 0)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.rows = make([]Row, len(rows))
		copy(c.rows, rows)
		c.loadedAt = c.now()
		c.valid = true
	}
	c.mu.Unlock()
	return rows, nil
}

func (c *CachedStore) Append(ctx context.Context, row Row) (RowID, error) {
	id, err := c.next.Append(ctx, row)
	c.invalidate()
	return id, err
}

func (c *CachedStore) Replace(ctx context.Context, id RowID, row Row) error {
	err := c.next.Replace(ctx, id, row)
	c.invalidate()
	return err
}

func (c *CachedStore) Delete(ctx context.Context, id RowID) error {
	err := c.next.Delete(ctx, id)
	c.invalidate()
	return err
}

// Ping forwards to the wrapped store when it supports readiness checks.
func (c *CachedStore) Ping(ctx context.Context) error {
	if p, ok := c.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *CachedStore) invalidate() {
	c.mu.Lock()
	c.gen++
	c.valid = false
	c.rows = nil
	c.mu.Unlock()
}
