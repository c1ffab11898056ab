package mode3

import (
	"sort"

	"github.com/nanoreads/asmcore/internal/arena"
	"github.com/nanoreads/asmcore/internal/loadbalancer"
	"github.com/nanoreads/asmcore/markergraph"
)

// BuildPseudoPaths implements spec.md §4.7's pseudo-path computation:
// for every marker-graph edge, for every marker interval on it, emit
// a PseudoPathEntry under the oriented read's key; two-pass
// count-then-store, then sort each read's entries lexicographically
// by (SegmentId, Position, Ordinals), matching mode3.cpp's
// computePseudoPaths/sortPseudoPaths.
func BuildPseudoPaths(g *markergraph.Graph, edgeTable []EdgeTableEntry, orientedReadCount int, threads int) [][]PseudoPathEntry {
	var va arena.VarArray[PseudoPathEntry]
	va.BeginPass1(orientedReadCount)

	edgeCount := uint64(len(g.Edges))
	loadbalancer.Run(edgeCount, 1000, threads, func(begin, end uint64, _ int) {
		for e := begin; e < end; e++ {
			entry := edgeTable[e]
			if entry == InvalidEdgeTableEntry {
				continue
			}
			for _, interval := range g.Edges[e].Intervals {
				va.IncrementCountMultithreaded(int(interval.OrientedReadId.Value()))
			}
		}
	})

	va.BeginPass2()
	loadbalancer.Run(edgeCount, 1000, threads, func(begin, end uint64, _ int) {
		for e := begin; e < end; e++ {
			entry := edgeTable[e]
			if entry == InvalidEdgeTableEntry {
				continue
			}
			for _, interval := range g.Edges[e].Intervals {
				pp := PseudoPathEntry{
					SegmentId: entry.SegmentId,
					Position:  entry.Position,
					Ordinals:  interval.Ordinals,
				}
				va.StoreMultithreaded(int(interval.OrientedReadId.Value()), pp)
			}
		}
	})
	va.EndPass2()

	pseudoPaths := make([][]PseudoPathEntry, orientedReadCount)
	loadbalancer.Run(uint64(orientedReadCount), 100, threads, func(begin, end uint64, _ int) {
		for r := begin; r < end; r++ {
			path := va.At(int(r))
			sort.Slice(path, func(i, j int) bool { return pseudoPathEntryLess(path[i], path[j]) })
			pseudoPaths[r] = path
		}
	})
	return pseudoPaths
}

func pseudoPathEntryLess(a, b PseudoPathEntry) bool {
	if a.SegmentId != b.SegmentId {
		return a.SegmentId < b.SegmentId
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if a.Ordinals[0] != b.Ordinals[0] {
		return a.Ordinals[0] < b.Ordinals[0]
	}
	return a.Ordinals[1] < b.Ordinals[1]
}
