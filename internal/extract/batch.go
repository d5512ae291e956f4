package extract

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/linuxmatters/jivevec/internal/config"
)

// Result is the outcome of extracting one file in a batch
type Result struct {
	Path   string
	Vector Vector
	Err    error
}

// ExtractBatch extracts every path with the same configuration, running at
// most workers extractions at once. Results are returned in input order.
// onResult, when non-nil, is called once per finished file in completion
// order, never concurrently.
//
// A failed file does not stop the batch. Cancelling ctx stops scheduling new
// files; those left unscheduled report ctx.Err().
func (e *Extractor) ExtractBatch(ctx context.Context, paths []string, index, workers int, onResult func(Result)) []Result {
	if workers <= 0 {
		workers = config.DefaultWorkers
	}

	results := make([]Result, len(paths))
	scheduled := make([]bool, len(paths))

	var g errgroup.Group
	g.SetLimit(workers)

	var mu sync.Mutex
	report := func(r Result) {
		if onResult == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		onResult(r)
	}

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		scheduled[i] = true
		g.Go(func() error {
			r := Result{Path: path}
			if err := ctx.Err(); err != nil {
				r.Err = err
			} else {
				r.Vector, r.Err = e.Extract(path, index)
			}
			results[i] = r
			report(r)
			return nil
		})
	}
	_ = g.Wait()

	for i, path := range paths {
		if !scheduled[i] {
			results[i] = Result{Path: path, Err: ctx.Err()}
		}
	}
	return results
}
