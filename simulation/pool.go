package simulation

import (
	"runtime"
	"sync"
)

// runPaths distributes path indices across a bounded pool of worker
// goroutines and blocks until all paths are done. Workers write disjoint
// rows of the result, so ordering and scheduling do not affect the output.
func (s *Simulator) runPaths(nSims int, fn func(path int)) {
	workers := s.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > nSims {
		workers = nSims // don't spawn more workers than paths
	}

	jobs := make(chan int, nSims)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				fn(path)
			}
		}()
	}

	for path := 0; path < nSims; path++ {
		jobs <- path
	}
	close(jobs)
	wg.Wait()
}
