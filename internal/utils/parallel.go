package utils

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapParallel applies fn to every item with at most limit calls in flight
// and returns the results in input order. The first error cancels the
// remaining calls and is returned.
func MapParallel[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]R, len(items))
	for i, item := range items {
		g.Go(func() error {
			result, err := fn(ctx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Batch splits items into consecutive slices of at most size elements.
func Batch[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
