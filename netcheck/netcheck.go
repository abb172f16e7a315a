// Package netcheck runs quick network diagnostics from one host: a ping
// sweep over an address range, a TCP connect scan, and an HTTP
// reachability check. Probes fan out over a bounded worker pool and
// results come back in input order, so output is deterministic.
package netcheck

import (
	"sync"
	"time"
)

// Defaults used when members are omitted.
const (
	DefaultWorkers     = 64
	DefaultTimeout     = time.Second
	DefaultHTTPTimeout = 5 * time.Second
)

// runPool invokes work(i) for every index with at most workers in flight.
func runPool(workers, count int, work func(i int)) {
	if workers < 1 {
		workers = DefaultWorkers
	}

	var wg sync.WaitGroup

	sem := make(chan struct{}, workers)

	for i := 0; i < count; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			work(i)
		}(i)
	}

	wg.Wait()
}
