// Package markergraph builds the marker graph (spec.md §4.3, MGB) and
// enforces its strand symmetry (spec.md §4.4, SSE). Vertices are
// equivalence classes of markers merged by union-find over aligned
// marker pairs; edges are induced by marker adjacency along reads.
package markergraph

import (
	"github.com/nanoreads/asmcore/internal/config"
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/markers"
)

// EdgeFlags are the per-edge flags of spec.md §3; all start cleared
// after initial edge construction and are mutated only by the
// simplifier, which never adds vertices or edges.
type EdgeFlags struct {
	WasRemovedByTransitiveReduction bool
	WasPruned                       bool
	IsSuperBubbleEdge               bool
	IsLowCoverageCrossEdge          bool
	WasAssembled                    bool
	IsSecondary                     bool
}

// MarkerInterval records one read's traversal of an edge: ordinal[0]
// is strictly less than ordinal[1], and no marker-graph vertex lies
// at an intervening ordinal on that read.
type MarkerInterval struct {
	OrientedReadId ids.OrientedReadId
	Ordinals       [2]uint32
}

// Edge is a marker-graph edge. Coverage is capped at 255 (design note
// 9(b)) but Intervals keeps the full list.
type Edge struct {
	Source, Target ids.MarkerGraphVertexId
	Coverage       uint8
	Intervals      []MarkerInterval
	Flags          EdgeFlags
}

// FullCoverage returns len(Intervals), the uncapped count, as
// distinct from the capped Coverage field (design note 9(b)).
func (e *Edge) FullCoverage() int { return len(e.Intervals) }

// IsUnflagged reports whether edge e carries none of the simplifier's
// flags. Mode-3 segment construction walks only unflagged edges
// (SPEC_FULL.md's supplemented isLowCoverageCrossEdge section), which
// is a stricter substrate than the simplifier's own isRemoved check:
// a low-coverage cross edge stays in the graph but still breaks a
// segment chain.
func (g *Graph) IsUnflagged(e ids.MarkerGraphEdgeId) bool {
	f := g.Edges[e].Flags
	return !(f.WasRemovedByTransitiveReduction || f.WasPruned || f.IsSuperBubbleEdge || f.IsLowCoverageCrossEdge)
}

// Graph is the built marker graph: vertices (as sorted marker-id
// lists), the vertex table, edges and their adjacency, and the
// strand-symmetry maps. It is immutable once SSE has run, except for
// the flags the simplifier mutates.
type Graph struct {
	Table markers.MarkerTable

	// VertexTable[m] = v iff m is a member of vertex v, or
	// ids.InvalidVertexId if m is unassigned.
	VertexTable []ids.MarkerGraphVertexId

	// VertexMarkers[v] is the sorted list of MarkerIds in vertex v.
	VertexMarkers [][]ids.MarkerId

	Edges []Edge

	// EdgesBySource[v] / EdgesByTarget[v] list, as edge indices into
	// Edges, every edge incident to v.
	EdgesBySource [][]uint64
	EdgesByTarget [][]uint64

	ReverseComplementVertex []ids.MarkerGraphVertexId
	ReverseComplementEdge   []ids.MarkerGraphEdgeId
}

// VertexCount and EdgeCount are convenience accessors.
func (g *Graph) VertexCount() int { return len(g.VertexMarkers) }
func (g *Graph) EdgeCount() int   { return len(g.Edges) }

// Coverage returns the number of markers in vertex v.
func (g *Graph) Coverage(v ids.MarkerGraphVertexId) int {
	return len(g.VertexMarkers[v])
}

// BuildInputs bundles everything the builder needs from external
// collaborators (spec.md §4.3 Inputs).
type BuildInputs struct {
	Table         markers.MarkerTable
	Alignments    markers.AlignmentSource
	ReadGraph     []markers.ReadGraphEdge
	ReadFlags     markers.ReadFlags
	OrientedReads int // total number of oriented reads (2*numReads)
	Config        config.Config
}
