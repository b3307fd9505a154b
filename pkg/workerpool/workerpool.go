// Package workerpool fetches per-height data with bounded concurrency.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// Heights calls fetch for every height in [from, to] on workerCount
// goroutines and returns the results in height order. The first error
// cancels the remaining fetches and is returned.
func Heights[R any](
	ctx context.Context,
	workerCount int,
	from, to uint32,
	fetch func(ctx context.Context, height uint32) (R, error),
) ([]R, error) {
	if to < from {
		return nil, nil
	}
	if workerCount <= 0 {
		return nil, errors.New("worker count must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]R, int(to-from)+1)
	heights := make(chan uint32, workerCount)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for range min(workerCount, len(results)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for height := range heights {
				if ctx.Err() != nil {
					continue
				}
				r, err := fetch(ctx, height)
				if err != nil {
					once.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[height-from] = r
			}
		}()
	}

feed:
	for h := uint64(from); h <= uint64(to); h++ {
		select {
		case <-ctx.Done():
			break feed
		case heights <- uint32(h):
		}
	}
	close(heights)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
