package collect

import (
	"context"
	"sync"
)

// deviceFunc collects all records of one category from a single device.
type deviceFunc func(ctx context.Context, target DeviceTarget) ([]Record, error)

// fanOut runs fn for every target with a bounded worker pool. A failing
// device contributes a single error record; it never stops the others.
// Results keep the declared target order so output is stable.
func fanOut(ctx context.Context, targets []DeviceTarget, workers int, fn deviceFunc) []Record {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	perTarget := make([][]Record, len(targets))
	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			select {
			case <-ctx.Done():
				perTarget[i] = []Record{ErrorRecord(targets[i].Name, ctx.Err())}
				continue
			default:
			}
			records, err := fn(ctx, targets[i])
			if err != nil {
				perTarget[i] = []Record{ErrorRecord(targets[i].Name, err)}
				continue
			}
			perTarget[i] = records
		}
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go worker()
	}
	for i := range targets {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var out []Record
	for _, records := range perTarget {
		out = append(out, records...)
	}
	return out
}
