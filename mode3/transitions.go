package mode3

import (
	"sync/atomic"
	"unsafe"

	"github.com/exascience/pargo/sync"

	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/internal/loadbalancer"
)

type segmentPair struct {
	source, target ids.SegmentId
}

// Hash implements github.com/exascience/pargo/sync.Hasher so segmentPair
// can be used as a key in a pargo sync.Map.
func (p segmentPair) Hash() uint64 {
	return uint64(p.source)*31 + uint64(p.target)
}

// transitionList is a lock-free, append-only list guarded by a
// compare-and-swap loop on an atomic pointer, the same handle idiom
// mark-duplicates.go's classifyFragment uses to merge concurrent
// writers to a shared sync.Map entry without taking a lock.
type transitionList struct {
	head unsafe.Pointer // *[]Transition
}

func (l *transitionList) append(t Transition) {
	for {
		oldPtr := atomic.LoadPointer(&l.head)
		var old []Transition
		if oldPtr != nil {
			old = *(*[]Transition)(oldPtr)
		}
		next := make([]Transition, len(old)+1)
		copy(next, old)
		next[len(old)] = t
		if atomic.CompareAndSwapPointer(&l.head, oldPtr, unsafe.Pointer(&next)) {
			return
		}
	}
}

func (l *transitionList) items() []Transition {
	ptr := atomic.LoadPointer(&l.head)
	if ptr == nil {
		return nil
	}
	return *(*[]Transition)(ptr)
}

// FindTransitions implements spec.md §4.7's transition step: for
// every oriented read, walk adjacent pseudo-path entries and record a
// transition under the key of the segment pair whenever the segment
// changes. Oriented reads are partitioned across goroutines by the
// load balancer; concurrent writers to the same segmentPair key merge
// through transitionMap's lock-free handle, mirroring
// sam/mark-duplicates.go's classifyFragment/classifyPair.
func FindTransitions(pseudoPaths [][]PseudoPathEntry, threads int) *sync.Map {
	transitionMap := sync.NewMap(16)

	loadbalancer.Run(uint64(len(pseudoPaths)), 1000, threads, func(begin, end uint64, _ int) {
		for r := begin; r < end; r++ {
			path := pseudoPaths[r]
			if len(path) < 2 {
				continue
			}
			orientedReadId := ids.FromValue(r)
			for i := 1; i < len(path); i++ {
				prev, cur := path[i-1], path[i]
				if prev.SegmentId == cur.SegmentId {
					continue
				}
				key := segmentPair{prev.SegmentId, cur.SegmentId}
				entry, _ := transitionMap.LoadOrStore(key, &transitionList{})
				entry.(*transitionList).append(Transition{
					OrientedReadId: orientedReadId,
					Previous:       prev,
					Current:        cur,
				})
			}
		}
	})
	return transitionMap
}
