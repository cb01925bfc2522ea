package worker_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitefind/sitefind/internal/testutil"
	"github.com/sitefind/sitefind/internal/worker"
)

func TestProcess_AllInputsProcessed(t *testing.T) {
	pool := worker.NewPool[int, int](4, testutil.NopLogger())

	inputs := make(chan int)
	go func() {
		for i := 1; i <= 20; i++ {
			inputs <- i
		}
		close(inputs)
	}()

	var got []int
	for r := range pool.Process(context.Background(), inputs, func(_ context.Context, n int) int {
		return n * 2
	}) {
		got = append(got, r)
	}

	sort.Ints(got)
	assert.Len(t, got, 20)
	assert.Equal(t, 2, got[0])
	assert.Equal(t, 40, got[19])
}

func TestProcess_CancelledContextStops(t *testing.T) {
	pool := worker.NewPool[int, int](2, testutil.NopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := make(chan int) // never fed, never closed
	results := pool.Process(ctx, inputs, func(_ context.Context, n int) int { return n })

	_, open := <-results
	assert.False(t, open, "results channel must close after cancellation")
}

func TestProcess_SizeClamped(t *testing.T) {
	pool := worker.NewPool[int, int](0, testutil.NopLogger())

	inputs := make(chan int, 1)
	inputs <- 7
	close(inputs)

	var got []int
	for r := range pool.Process(context.Background(), inputs, func(_ context.Context, n int) int { return n }) {
		got = append(got, r)
	}
	assert.Equal(t, []int{7}, got)
}
