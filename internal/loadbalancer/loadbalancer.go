// Package loadbalancer hands out [begin,end) index ranges to worker
// goroutines with a configurable batch size, the way spec.md §4.2
// requires: a single atomic cursor claims successive batches, so work
// within a batch runs on one goroutine but the order in which batches
// are claimed across goroutines is undefined. The dispatch loop
// itself (spawn runtime.GOMAXPROCS(0) workers, join with a
// sync.WaitGroup) mirrors the teacher's manual goroutine pools, e.g.
// sam/mark-duplicates.go's MarkDuplicates splits and
// filters/mark-optical-duplicates.go's sync.NewMap(16*runtime.GOMAXPROCS(0))
// sizing convention.
package loadbalancer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// LoadBalancer dispatches batches of work over a fixed total count.
type LoadBalancer struct {
	total uint64
	batch uint64
	next  uint64 // atomic cursor
}

// New creates a load balancer over [0,total) with the given batch
// size. A batch size of 0 defaults to a single batch covering the
// whole range.
func New(total, batch uint64) *LoadBalancer {
	if batch == 0 {
		batch = total
		if batch == 0 {
			batch = 1
		}
	}
	return &LoadBalancer{total: total, batch: batch}
}

// NewEvenAligned creates a load balancer whose batch size is forced
// even and whose batches start on even indices, required by spec.md
// §4.2 for passes that process read-graph edges in reverse-complement
// pairs (those come in pairs at positions 2i, 2i+1 and must never be
// split across batches).
func NewEvenAligned(total, batch uint64) *LoadBalancer {
	if batch%2 != 0 {
		batch++
	}
	return New(total, batch)
}

// GetNextBatch atomically claims the next [begin,end) interval,
// clamped to total. It returns false once the range is exhausted.
func (lb *LoadBalancer) GetNextBatch() (begin, end uint64, ok bool) {
	for {
		cur := atomic.LoadUint64(&lb.next)
		if cur >= lb.total {
			return 0, 0, false
		}
		nxt := cur + lb.batch
		if nxt > lb.total {
			nxt = lb.total
		}
		if atomic.CompareAndSwapUint64(&lb.next, cur, nxt) {
			return cur, nxt, true
		}
	}
}

// Reset rewinds the cursor so the same LoadBalancer can be reused for
// a second pass over the same range.
func (lb *LoadBalancer) Reset() {
	atomic.StoreUint64(&lb.next, 0)
}

// Run spawns threadCount worker goroutines (defaulting to
// runtime.GOMAXPROCS(0) when threadCount <= 0), each repeatedly
// claiming batches from the balancer and invoking work(begin, end,
// workerId) until the range is exhausted, then joins all of them.
// This is the "fan out, join" half of spec.md §5's pass model.
func Run(total, batch uint64, threadCount int, work func(begin, end uint64, workerId int)) {
	if threadCount <= 0 {
		threadCount = runtime.GOMAXPROCS(0)
	}
	lb := New(total, batch)
	var wg sync.WaitGroup
	for w := 0; w < threadCount; w++ {
		wg.Add(1)
		workerId := w
		go func() {
			defer wg.Done()
			for {
				begin, end, ok := lb.GetNextBatch()
				if !ok {
					return
				}
				work(begin, end, workerId)
			}
		}()
	}
	wg.Wait()
}

// RunEvenAligned is Run's counterpart for the strand-pair-safe
// variant (spec.md §4.2).
func RunEvenAligned(total, batch uint64, threadCount int, work func(begin, end uint64, workerId int)) {
	if threadCount <= 0 {
		threadCount = runtime.GOMAXPROCS(0)
	}
	if batch%2 != 0 {
		batch++
	}
	lb := NewEvenAligned(total, batch)
	var wg sync.WaitGroup
	for w := 0; w < threadCount; w++ {
		wg.Add(1)
		workerId := w
		go func() {
			defer wg.Done()
			for {
				begin, end, ok := lb.GetNextBatch()
				if !ok {
					return
				}
				if begin%2 != 0 {
					panic(fmt.Sprintf("loadbalancer: batch [%d,%d) is not even-aligned", begin, end))
				}
				work(begin, end, workerId)
			}
		}()
	}
	wg.Wait()
}
