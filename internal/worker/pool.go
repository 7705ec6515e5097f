// Package worker runs document analyses concurrently for batch mode.
package worker

import (
	"context"
	"sync"

	"github.com/nuxa17/verbum/internal/model"
)

// AnalyzeFunc analyzes one input file and returns its report.
type AnalyzeFunc func(ctx context.Context, path string) (*model.Report, error)

// Outcome is the result of analyzing one file.
type Outcome struct {
	Path   string
	Report *model.Report
	Err    error
}

// Pool fans a list of files out over a fixed number of workers.
type Pool struct {
	workers int
	run     AnalyzeFunc
}

// NewPool creates a pool. workers below 1 is clamped to 1.
func NewPool(workers int, run AnalyzeFunc) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, run: run}
}

// Process analyzes every path and returns outcomes in input order.
// One failing file does not stop the others; its outcome carries the
// error. Cancelling ctx stops dispatching and marks unprocessed files
// with the context error.
func (p *Pool) Process(ctx context.Context, paths []string) []Outcome {
	outcomes := make([]Outcome, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				report, err := p.run(ctx, paths[idx])
				outcomes[idx] = Outcome{Path: paths[idx], Report: report, Err: err}
			}
		}()
	}

	for i := range paths {
		select {
		case <-ctx.Done():
			outcomes[i] = Outcome{Path: paths[i], Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
