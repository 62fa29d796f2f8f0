package util

import (
	"context"
	"sync"
)

// Result is one element's outcome from Parallel.
type Result[R any] struct {
	Value R
	Err   error
}

// Parallel runs fn over inputs with at most workerLimit concurrent goroutines
// and returns one result per input, in input order. Elements fail
// independently; one element's error never stops the rest. Cancelling ctx
// abandons elements that have not started yet; they report the context error.
func Parallel[T, R any](ctx context.Context, inputs []T, workerLimit int, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(inputs))
	if len(inputs) == 0 {
		return results
	}

	if workerLimit <= 0 {
		workerLimit = 1
	}
	if workerLimit > len(inputs) {
		workerLimit = len(inputs)
	}

	tasks := make(chan int)

	wg := sync.WaitGroup{}
	for i := 0; i < workerLimit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				if err := ctx.Err(); err != nil {
					results[idx].Err = err
					continue
				}
				results[idx].Value, results[idx].Err = fn(ctx, inputs[idx])
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i := range inputs {
			tasks <- i
		}
	}()

	wg.Wait()
	return results
}
