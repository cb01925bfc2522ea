// Package worker provides a bounded worker pool for fanning record
// processing out across goroutines in unattended runs.
package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Pool runs jobs of type T producing results of type R on a fixed number of
// goroutines. Result order is not guaranteed.
type Pool[T, R any] struct {
	size   int
	logger *slog.Logger
}

// NewPool creates a pool with the given number of workers. Sizes below one
// are clamped to one.
func NewPool[T, R any](size int, logger *slog.Logger) *Pool[T, R] {
	if size < 1 {
		size = 1
	}
	return &Pool[T, R]{size: size, logger: logger}
}

// Process consumes inputs until the channel closes or ctx is cancelled,
// invoking fn for each job. The returned channel is closed once all workers
// finish.
func (p *Pool[T, R]) Process(ctx context.Context, inputs <-chan T, fn func(context.Context, T) R) <-chan R {
	results := make(chan R)
	var wg sync.WaitGroup

	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case input, ok := <-inputs:
					if !ok {
						return
					}
					out := fn(ctx, input)
					select {
					case <-ctx.Done():
						return
					case results <- out:
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
