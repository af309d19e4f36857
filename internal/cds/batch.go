package cds

import (
	"context"
	"sync"

	"github.com/rtm0/era5stats/internal/era5"
)

// Job is one retrieval of a batch.
type Job struct {
	Dataset string
	Request Request
}

// RetrieveAll runs jobs with at most limit retrievals in flight and returns
// the fields in job order. The first failure cancels the remaining jobs and
// is returned.
func RetrieveAll(ctx context.Context, r Retriever, jobs []Job, limit int) ([]*era5.Field, error) {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, limit)
		fields   = make([]*era5.Field, len(jobs))
		errOnce  sync.Once
		firstErr error
	)
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			f, err := r.Retrieve(ctx, job.Dataset, job.Request)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			fields[i] = f
		}(i, job)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
