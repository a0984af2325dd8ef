package tumble

import (
	"sync"

	"go.uber.org/multierr"
)

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		start, end := workerID*chunkSize, min((workerID+1)*chunkSize, dataSize)
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(start, end)
	}
	wg.Wait()
}

// taskErr is task for functions that can fail; all errors are combined
func taskErr[T any](workersCount int, data []T, fn func(data T) error) error {
	var (
		mu   sync.Mutex
		errs error
	)

	task(workersCount, data, func(d T) {
		if err := fn(d); err != nil {
			mu.Lock()
			errs = multierr.Append(errs, err)
			mu.Unlock()
		}
	})

	return errs
}
