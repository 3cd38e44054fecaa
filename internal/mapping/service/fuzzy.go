package service

import (
	"runtime"
	"sync"

	"sheetops/internal/mapping/model"
)

// Match finds, for every source tuple, the best scoring candidate. Results
// are in source order; Best is nil when the top score is below threshold or
// there are no candidates. Rows are scored on opt.Workers goroutines; the
// result does not depend on the worker count.
func Match(sources, candidates []model.KeyTuple, threshold float64, opt model.Options) []model.MatchResult {
	out := make([]model.MatchResult, len(sources))
	idx := buildIndex(candidates, opt)

	matchOne := func(i int) {
		out[i] = model.MatchResult{Source: i}
		ci, score := idx.best(keyText(sources[i], opt))
		if ci < 0 || score < threshold {
			return
		}
		out[i].Best = &model.MatchCandidate{Index: ci, Key: candidates[ci], Score: score}
	}

	workers := opt.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(sources) {
		workers = len(sources)
	}
	if workers <= 1 {
		for i := range sources {
			matchOne(i)
		}
		return out
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				matchOne(i)
			}
		}()
	}
	for i := range sources {
		rows <- i
	}
	close(rows)
	wg.Wait()
	return out
}
