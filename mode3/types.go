// Package mode3 builds the Mode-3 assembly graph of spec.md §4.7:
// segments (maximal non-branching chains of marker-graph edges),
// pseudo-paths (the segments an oriented read's marker-graph path
// visits, in order), transitions (adjacent pseudo-path entries whose
// segment differs), and links (segment pairs with enough supporting
// transitions).
package mode3

import "github.com/nanoreads/asmcore/internal/ids"

// MarkerGraphEdgeInfo is one step of a segment's path. IsVirtual is
// reserved for gap-filling edges a future assembly stage may splice
// in; this module never creates one.
type MarkerGraphEdgeInfo struct {
	EdgeId    ids.MarkerGraphEdgeId
	IsVirtual bool
}

// Segment is a maximal chain of marker-graph edges whose every
// internal vertex has in-degree and out-degree exactly 1 among
// unflagged edges.
type Segment struct {
	Path       []MarkerGraphEdgeInfo
	IsCircular bool
}

// EdgeTableEntry locates edgeId within its segment's path.
type EdgeTableEntry struct {
	SegmentId ids.SegmentId
	Position  uint32
}

// InvalidEdgeTableEntry marks a marker-graph edge that belongs to no
// segment (flagged out of the substrate).
var InvalidEdgeTableEntry = EdgeTableEntry{SegmentId: ids.SegmentId(^uint64(0)), Position: ^uint32(0)}

// PseudoPathEntry records one segment traversal by an oriented read.
type PseudoPathEntry struct {
	SegmentId ids.SegmentId
	Position  uint32
	Ordinals  [2]uint32
}

// Transition is a pair of adjacent pseudo-path entries whose segment
// differs, attributed to the oriented read that produced it.
type Transition struct {
	OrientedReadId    ids.OrientedReadId
	Previous, Current PseudoPathEntry
}

// Link records a directed connection between two segments supported
// by at least minCoverage transitions.
type Link struct {
	Source, Target ids.SegmentId
	Coverage       uint64
}

// Graph is the built Mode-3 assembly graph.
type Graph struct {
	Segments             []Segment
	MarkerGraphEdgeTable []EdgeTableEntry // indexed by marker-graph edge id

	PseudoPaths [][]PseudoPathEntry // indexed by OrientedReadId.Value()
	Transitions [][]Transition      // parallel to Links

	Links []Link

	// LinksBySource[s] / LinksByTarget[s] list, as indices into Links,
	// every link whose Source / Target is segment s.
	LinksBySource [][]int
	LinksByTarget [][]int
}
