// Package parallel runs closures on a bounded set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func()
)

// Pool hands work to a fixed number of workers. With a single worker, Do
// runs the closure inline on the caller's goroutine.
type Pool struct {
	wg   sync.WaitGroup
	Do   WorkerFunc
	Wait WaitFunc
}

// Start launches numWorkers workers; values below 1 mean GOMAXPROCS.
// Wait must be called exactly once, after the last Do.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do: func(f func()) {
			f()
		},
		Wait: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		pool.wg.Add(numWorkers)
		for i := 0; i < numWorkers; i++ {
			go func() {
				defer pool.wg.Done()
				for f := range workChan {
					f()
				}
			}()
		}

		pool.Do = func(f func()) {
			workChan <- f
		}
		pool.Wait = sync.OnceFunc(func() {
			close(workChan)
			pool.wg.Wait()
		})
	}

	return pool
}
