package book

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-process Store. Row ids are assigned incrementally and never reused.
type MemoryRepo struct {
	mu     sync.RWMutex
	rows   []Row
	nextID RowID
}

func NewMemoryRepo(seed ...Row) *MemoryRepo {
	r := &MemoryRepo{nextID: 1}
	for _, row := range seed {
		row.ID = r.nextID
		r.nextID++
		r.rows = append(r.rows, row)
	}
	return r
}

func (r *MemoryRepo) ReadAll(_ context.Context, _ time.Duration) ([]Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *MemoryRepo) Append(_ context.Context, row Row) (RowID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, row)
	return row.ID, nil
}

func (r *MemoryRepo) Replace(_ context.Context, id RowID, row Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrNotFound
	}
	row.ID = id
	r.rows[i] = row
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id RowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrNotFound
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
	return nil
}

func (r *MemoryRepo) Ping(context.Context) error { return nil }

func (r *MemoryRepo) index(id RowID) int {
	for i, row := range r.rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}
