package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/roadmetrics/traffic.report/internal/monitoring"
)

// Pool fans a batch of detection logs out across workers. Each clip is
// processed whole by one worker; no engine state is shared.
type Pool struct {
	Runner  *Runner
	Workers int
}

// Run processes every path in the batch and returns the joined errors
// of the clips that failed. Cancellation stops workers between clips
// and mid-clip via the Runner's per-frame check.
func (p *Pool) Run(ctx context.Context, paths []string) error {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if _, err := p.Runner.RunFile(ctx, path); err != nil {
					monitoring.Logf("clip %s failed: %v", ClipName(path), err)
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			// Workers drain nothing further; the in-flight clips see
			// the cancellation on their next frame.
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	return errors.Join(errs...)
}
