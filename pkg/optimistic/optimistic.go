// Package optimistic holds values that are updated locally before the server
// confirms the change and put back if it refuses.
package optimistic

import (
	"context"
	"sync"
)

// Cell is a value with optimistic, rollback-on-error updates. It is safe for
// concurrent use.
//
// Functions passed to Update and Mutate receive the current value and must
// return a new one without modifying the argument in place; a slice or map
// argument has to be copied first. Clone helps with slices.
type Cell[T any] struct {
	mu      sync.Mutex
	val     T
	version uint64
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{val: v}
}

func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(v)
}

// Update replaces the value with fn(current) and returns it.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(fn(c.val))
	return c.val
}

// Mutate shows apply(current) immediately, then runs commit. If commit fails
// the previous value is restored, unless another write has landed in the
// meantime, in which case that newer value is kept. commit's error is
// returned unchanged.
func (c *Cell[T]) Mutate(ctx context.Context, apply func(T) T, commit func(context.Context) error) error {
	prev, version := c.apply(apply)

	if err := commit(ctx); err != nil {
		c.rollback(prev, version)
		return err
	}
	return nil
}

// MutateReplace is Mutate for calls that answer with the authoritative value.
// On success that value replaces whatever the cell holds.
func (c *Cell[T]) MutateReplace(ctx context.Context, apply func(T) T, commit func(context.Context) (T, error)) error {
	prev, version := c.apply(apply)

	v, err := commit(ctx)
	if err != nil {
		c.rollback(prev, version)
		return err
	}

	c.Set(v)
	return nil
}

func (c *Cell[T]) apply(fn func(T) T) (prev T, version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev = c.val
	c.set(fn(c.val))
	return prev, c.version
}

func (c *Cell[T]) rollback(prev T, version uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version == version {
		c.set(prev)
	}
}

func (c *Cell[T]) set(v T) {
	c.val = v
	c.version++
}

// Clone returns a shallow copy of s that can be modified freely.
func Clone[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return append(S(make([]E, 0, len(s))), s...)
}
