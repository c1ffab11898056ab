package markergraph

import "sync/atomic"

func incrAtomic(counts []int64, k int64) {
	atomic.AddInt64(&counts[k], 1)
}

// decrAtomic decrements counts[k] and returns the post-decrement
// value, the same cursor idiom internal/arena.VarArray.StoreMultithreaded
// uses for the two-pass variable-length protocol.
func decrAtomic(counts []int64, k int64) int64 {
	return atomic.AddInt64(&counts[k], -1)
}
