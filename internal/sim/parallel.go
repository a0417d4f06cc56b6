package sim

import (
	"context"
	"sync"

	"github.com/san-kum/cylsim/internal/physics"
)

// minChunk is the smallest slice of particles worth a goroutine.
const minChunk = 256

// Factory builds a fresh simulator for one ensemble member.
type Factory func(seed int64) (*Simulator, error)

type Ensemble struct {
	factory   Factory
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			cfgCopy.Workers = 1

			s, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ParallelFor executes fn over [0, n) split into at most workers chunks.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// StepParallel advances sys once, split across workers.
func StepParallel(sys *physics.System, workers int) physics.Hits {
	var (
		mu    sync.Mutex
		total physics.Hits
	)
	ParallelFor(sys.Len(), minChunk, workers, func(start, end int) {
		h := sys.StepRange(start, end)
		mu.Lock()
		total = total.Add(h)
		mu.Unlock()
	})
	return total
}
