package aline

import (
	"context"
	"runtime"
	"sync"
)

// SequencePair is one input to AlignAll.
type SequencePair struct {
	Source []string
	Target []string
}

// BatchResult is the outcome for pairs[Index]: either Result or Err is set.
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// AlignAll aligns every pair with at most workers concurrent calls
// (workers < 1 selects GOMAXPROCS). Results are returned in input order.
// A failing pair does not stop the batch; its error is kept in its slot.
// When ctx is cancelled, pairs not yet started get ctx.Err() and AlignAll
// returns ctx.Err() after in-flight pairs finish.
func (a *Aligner) AlignAll(ctx context.Context, pairs []SequencePair, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]BatchResult, len(pairs))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range pairs {
		out[i].Index = i
		select {
		case <-ctx.Done():
			out[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return
			}
			out[i].Result, out[i].Err = a.Align(pairs[i].Source, pairs[i].Target)
		}(i)
	}
	wg.Wait()

	failed := 0
	for i := range out {
		if out[i].Err != nil {
			failed++
		}
	}
	a.log.Debug("aline: batch done", "pairs", len(pairs), "workers", workers, "failed", failed)

	return out, ctx.Err()
}
