/*package thread contains functions useful for multi-threading.*/
package thread

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Set sets the number of OS threads Go code may run on at once. n = -1 uses
// every core.
func Set(n int) error {
	if n == -1 {
		n = runtime.NumCPU()
	}
	if n <= 0 {
		return fmt.Errorf("%d threads requested, but the thread count must "+
			"be positive or -1.", n)
	}
	runtime.GOMAXPROCS(n)
	return nil
}

// WorkerQueue runs f on every job in [0, jobs) using at most workers
// goroutines at a time. f is also told which worker slot, in [0, workers),
// is running it, so callers can give each worker its own buffers; no two
// running calls share a slot. The first error returned by f stops new jobs
// from starting and is returned once running jobs finish.
func WorkerQueue(
	ctx context.Context, workers, jobs int,
	f func(ctx context.Context, worker, job int) error,
) error {
	if workers <= 0 {
		return fmt.Errorf("WorkerQueue needs a positive number of workers, "+
			"but was given %d.", workers)
	}
	if jobs <= 0 {
		return nil
	}
	if workers > jobs {
		workers = jobs
	}

	slots := make(chan int, workers)
	for i := 0; i < workers; i++ {
		slots <- i
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for job := 0; job < jobs; job++ {
		if ctx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			worker := <-slots
			defer func() { slots <- worker }()
			return f(ctx, worker, job)
		})
	}
	return g.Wait()
}
