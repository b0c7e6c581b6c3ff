// Package fetch sequences the backend calls behind a page: independent parallel fetches with
// their own error slots, fan-out-then-join over a list, a keyed tracker that drops stale
// results and short-lived flash messages.
package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Slot holds the outcome of one fetch.
type Slot[T any] struct {
	Value T
	Err   error
}

// OK reports whether the fetch succeeded.
func (s Slot[T]) OK() bool {
	return s.Err == nil
}

// Group runs independent fetches concurrently. A failing fetch records its error in its own
// slot and never cancels its siblings.
type Group struct {
	ctx context.Context
	eg  errgroup.Group
}

// NewGroup creates a group whose fetches receive ctx.
func NewGroup(ctx context.Context) *Group {
	return &Group{ctx: ctx}
}

// Into schedules fn on g and stores its result in slot. slot must not be read before Wait.
func Into[T any](g *Group, slot *Slot[T], fn func(context.Context) (T, error)) {
	g.eg.Go(func() error {
		v, err := fn(g.ctx)
		slot.Value, slot.Err = v, err
		return nil
	})
}

// Wait blocks until every scheduled fetch has finished.
func (g *Group) Wait() {
	_ = g.eg.Wait()
}
