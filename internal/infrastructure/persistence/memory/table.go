// Package memory implements the record-store repositories in process memory.
// It backs the dashboard when no database is configured and is the store
// used throughout the test suite.
package memory

import (
	"context"
	"sync"
	"time"
)

// Latency simulates round-trip delays of a remote record store.
// Zero values disable the delay.
type Latency struct {
	Read  time.Duration
	Write time.Duration
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// table is an insertion-ordered collection with high-water ID assignment:
// IDs are never reused after a delete.
type table[T any] struct {
	mu       sync.RWMutex
	rows     []T
	nextID   int
	latency  Latency
	id       func(T) int
	setID    func(*T, int)
	clone    func(T) T
	notFound error
}

func newTable[T any](latency Latency, id func(T) int, setID func(*T, int), clone func(T) T, notFound error) *table[T] {
	return &table[T]{
		nextID:   1,
		latency:  latency,
		id:       id,
		setID:    setID,
		clone:    clone,
		notFound: notFound,
	}
}

// seed loads rows keeping their IDs and moves the high-water mark past them.
func (t *table[T]) seed(rows []T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range rows {
		t.rows = append(t.rows, t.clone(r))
		if id := t.id(r); id >= t.nextID {
			t.nextID = id + 1
		}
	}
}

func (t *table[T]) indexOf(id int) int {
	for i, r := range t.rows {
		if t.id(r) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) all(ctx context.Context) ([]T, error) {
	return t.where(ctx, func(T) bool { return true })
}

func (t *table[T]) where(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := wait(ctx, t.latency.Read); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, t.clone(r))
		}
	}
	return out, nil
}

func (t *table[T]) get(ctx context.Context, id int) (T, error) {
	var zero T
	if err := wait(ctx, t.latency.Read); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := t.indexOf(id)
	if i < 0 {
		return zero, t.notFound
	}
	return t.clone(t.rows[i]), nil
}

func (t *table[T]) create(ctx context.Context, v T) (T, error) {
	var zero T
	if err := wait(ctx, t.latency.Write); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := t.clone(v)
	t.setID(&stored, t.nextID)
	t.nextID++
	t.rows = append(t.rows, stored)
	return t.clone(stored), nil
}

func (t *table[T]) update(ctx context.Context, id int, v T) (T, error) {
	var zero T
	if err := wait(ctx, t.latency.Write); err != nil {
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return zero, t.notFound
	}
	stored := t.clone(v)
	t.setID(&stored, id)
	t.rows[i] = stored
	return t.clone(stored), nil
}

func (t *table[T]) remove(ctx context.Context, id int) error {
	if err := wait(ctx, t.latency.Write); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return t.notFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}
