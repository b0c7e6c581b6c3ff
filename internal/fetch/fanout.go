package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultFanOutLimit bounds the concurrent per-element fetches.
const DefaultFanOutLimit = 8

// Joined is the positional result of a fan-out: Values[i] and Errs[i] belong to items[i].
// A failed element leaves the zero value in Values.
type Joined[V any] struct {
	Values []V
	Errs   []error
}

// Failed returns the number of elements whose fetch failed.
func (j Joined[V]) Failed() int {
	n := 0
	for _, err := range j.Errs {
		if err != nil {
			n++
		}
	}
	return n
}

// FanOut runs fn for every item concurrently (at most limit at a time; limit <= 0 selects
// DefaultFanOutLimit) and joins the results by index, independent of completion order.
func FanOut[E, V any](ctx context.Context, items []E, limit int, fn func(context.Context, E) (V, error)) Joined[V] {
	out := Joined[V]{
		Values: make([]V, len(items)),
		Errs:   make([]error, len(items)),
	}
	if limit <= 0 {
		limit = DefaultFanOutLimit
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			v, err := fn(ctx, item)
			if err != nil {
				out.Errs[i] = err
				return nil
			}
			out.Values[i] = v
			return nil
		})
	}
	_ = g.Wait()
	return out
}
