// Package worker runs batches of independent jobs on a bounded pool of
// goroutines.
package worker

import (
	"context"
	"sync"
)

// DefaultPoolSize bounds concurrent jobs when callers pass a size <= 0.
const DefaultPoolSize = 8

// Each calls fn for every item with at most size calls in flight and waits
// for all of them. Items not yet started when ctx is done are skipped.
// fn receives the item's index so results can be written without locking.
func Each[T any](ctx context.Context, items []T, size int, fn func(ctx context.Context, i int, item T)) {
	if size <= 0 {
		size = DefaultPoolSize
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, size)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer func() { <-semaphore }()
			fn(ctx, i, item)
		}(i, item)
	}

	wg.Wait()
}
