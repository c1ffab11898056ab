package mode3

import (
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/internal/loadbalancer"
)

// BuildMarkerGraphEdgeTable fills, for every marker-graph edge that
// belongs to a segment, the (segmentId, position) pair locating it in
// that segment's path, grounded on mode3.cpp's
// computeMarkerGraphEdgeTable: batches of 100 consecutive segments,
// claimed by the worker threads from the same batch load balancer as
// the rest of this module.
func BuildMarkerGraphEdgeTable(segments []Segment, edgeCount int, threads int) []EdgeTableEntry {
	table := make([]EdgeTableEntry, edgeCount)
	for i := range table {
		table[i] = InvalidEdgeTableEntry
	}

	loadbalancer.Run(uint64(len(segments)), 100, threads, func(begin, end uint64, _ int) {
		for s := begin; s < end; s++ {
			path := segments[s].Path
			for position, info := range path {
				if info.IsVirtual {
					continue
				}
				table[info.EdgeId] = EdgeTableEntry{SegmentId: ids.SegmentId(s), Position: uint32(position)}
			}
		}
	})
	return table
}
