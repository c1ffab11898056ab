// Package disjointset implements a lock-free union-find over a large
// number of elements, backed by atomically-swapped entry records
// instead of a native 128-bit compare-and-swap (Go has no portable
// 128-bit CAS). The approach is grounded on the teacher's handle
// pattern for lock-free classification in
// sam/mark-duplicates.go (classifyFragment/classifyPair): an
// unsafe.Pointer to an immutable record, advanced with
// atomic.CompareAndSwapPointer in a retry loop, with parallel
// find/unite converging instead of blocking.
package disjointset

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// entry is the immutable record a Set's atomic pointer points to. It
// plays the role of the 128-bit (parent, rank) pair from spec.md §4.1;
// Aux holds the union-by-rank rank before compaction and is zeroed on
// Compact.
type entry struct {
	parent uint64
	aux    uint64
}

// Set is a lock-free disjoint-set union over N elements, numbered
// 0..N-1. Unite and Find are safe to call concurrently from any
// number of goroutines; Find's path compression is race-safe because
// every CAS attempt that fails simply means another goroutine has
// already advanced the same parent link at least as far.
type Set struct {
	entries       []unsafe.Pointer // *entry
	parentUpdated int64            // atomic counter, spec.md §4.1
	compacted     bool
}

// New allocates a disjoint-set union over n singleton elements.
func New(n int) *Set {
	s := &Set{entries: make([]unsafe.Pointer, n)}
	for i := range s.entries {
		e := &entry{parent: uint64(i), aux: 0}
		s.entries[i] = unsafe.Pointer(e)
	}
	return s
}

func (s *Set) load(i uint64) *entry {
	return (*entry)(atomic.LoadPointer(&s.entries[i]))
}

func (s *Set) cas(i uint64, old, new *entry) bool {
	return atomic.CompareAndSwapPointer(&s.entries[i], unsafe.Pointer(old), unsafe.Pointer(new))
}

func (s *Set) checkRange(i uint64) {
	if i >= uint64(len(s.entries)) {
		panic(fmt.Sprintf("disjointset: index %d out of range [0,%d)", i, len(s.entries)))
	}
}

// Find returns the representative of i's set. When compress is true,
// it shortens the parent chain it walks with a single best-effort CAS
// per hop (never blocking, never retrying beyond that one attempt per
// hop) and increments ParentUpdated each time a parent link actually
// advances.
func (s *Set) Find(i uint64, compress bool) uint64 {
	s.checkRange(i)
	root := i
	for {
		e := s.load(root)
		if e.parent == root {
			break
		}
		root = e.parent
	}
	if compress {
		cur := i
		for {
			e := s.load(cur)
			if e.parent == root {
				break
			}
			next := e.parent
			newEntry := &entry{parent: root, aux: e.aux}
			if s.cas(cur, e, newEntry) {
				atomic.AddInt64(&s.parentUpdated, 1)
			}
			cur = next
		}
	}
	return root
}

// Unite merges the sets containing a and b using union-by-rank with a
// CAS retry loop; it is lock-free and linearizable. It returns the
// resulting root (which may already have been the root if a and b
// were already in the same set).
func (s *Set) Unite(a, b uint64) uint64 {
	s.checkRange(a)
	s.checkRange(b)
	for {
		ra := s.Find(a, false)
		rb := s.Find(b, false)
		if ra == rb {
			return ra
		}
		ea := s.load(ra)
		eb := s.load(rb)
		if ea.parent != ra || eb.parent != rb {
			// one of the roots moved under us; retry from scratch
			continue
		}
		// union by rank (aux), lower-id tie-break for determinism
		var lo, hi uint64
		var eLo, eHi *entry
		switch {
		case ea.aux > eb.aux:
			lo, hi, eLo, eHi = rb, ra, eb, ea
		case ea.aux < eb.aux:
			lo, hi, eLo, eHi = ra, rb, ea, eb
		case ra < rb:
			lo, hi, eLo, eHi = rb, ra, eb, ea
		default:
			lo, hi, eLo, eHi = ra, rb, ea, eb
		}
		newLo := &entry{parent: hi, aux: eLo.aux}
		if !s.cas(lo, eLo, newLo) {
			continue
		}
		if eLo.aux == eHi.aux {
			newHi := &entry{parent: hi, aux: eHi.aux + 1}
			s.cas(hi, eHi, newHi) // best effort; a failed rank bump is harmless
		}
		return hi
	}
}

// ParentUpdated returns the current value of the convergence counter.
func (s *Set) ParentUpdated() int64 {
	return atomic.LoadInt64(&s.parentUpdated)
}

// ResetParentUpdated zeroes the convergence counter before a new
// convergence pass.
func (s *Set) ResetParentUpdated() {
	atomic.StoreInt64(&s.parentUpdated, 0)
}

// Len returns the number of elements.
func (s *Set) Len() int {
	return len(s.entries)
}

// Parent returns the raw parent field of element i, without
// following the chain. Used by convergence-invariant checks.
func (s *Set) Parent(i uint64) uint64 {
	s.checkRange(i)
	return s.load(i).parent
}

// Compact discards the rank/aux half of every entry after
// convergence, as spec.md §4.1 requires ("storage is halved in
// place"). It is a logical compaction (the aux field is zeroed and
// ignored); callers that need the literal memory savings described in
// spec.md should instead read Parent(i) for every i and write it into
// a plain []uint64, which is what internal/arena-backed callers do.
func (s *Set) Compact() {
	if s.compacted {
		return
	}
	for i := range s.entries {
		e := s.load(uint64(i))
		if e.aux != 0 {
			s.cas(uint64(i), e, &entry{parent: e.parent, aux: 0})
		}
	}
	s.compacted = true
}

// MaxConvergenceIterations is the fatal cutoff from spec.md §4.1.
const MaxConvergenceIterations = 10

// Converge repeatedly calls Find(i, true) for every i until
// ParentUpdated reaches zero in a full pass, or MaxConvergenceIterations
// is exceeded, in which case it panics: non-convergence is a fatal
// invariant violation (spec.md §7).
func (s *Set) Converge(findPass func(pass int)) {
	for pass := 1; pass <= MaxConvergenceIterations; pass++ {
		s.ResetParentUpdated()
		findPass(pass)
		if s.ParentUpdated() == 0 {
			return
		}
	}
	panic(fmt.Sprintf("disjointset: parent information did not converge in %d iterations", MaxConvergenceIterations))
}
