// Package ident allocates contiguous zero-based identifiers for new vector
// records from a collection's live entity count.
package ident

import (
	"context"
	"fmt"
)

// Counter reads the live number of records stored in a collection.
type Counter interface {
	Count(ctx context.Context, collection string) (int, error)
}

// Allocator hands out id ranges for insertion batches.
//
// The count is read fresh per batch without any cross-request lock: two
// concurrent inserts into the same collection can observe the same count and
// allocate overlapping ids. Callers are expected not to write to one
// collection concurrently.
// TODO: replace with a store-side atomic counter to close the race.
type Allocator struct {
	counter Counter
}

// New creates an id allocator.
func New(counter Counter) *Allocator {
	return &Allocator{counter: counter}
}

// NextIDs returns count consecutive ids starting at the collection's current
// entity count.
func (a *Allocator) NextIDs(ctx context.Context, collection string, count int) ([]int64, error) {
	if count <= 0 {
		return nil, nil
	}

	current, err := a.counter.Count(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("read entity count %s: %w", collection, err)
	}

	ids := make([]int64, count)
	for i := range ids {
		ids[i] = int64(current + i)
	}
	return ids, nil
}
