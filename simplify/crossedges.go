package simplify

import "github.com/nanoreads/asmcore/internal/ids"

// FlagLowCoverageCrossEdges implements the isLowCoverageCrossEdge rule
// described in SPEC_FULL.md's supplemented-features section: a
// non-removed edge whose coverage is below LowCoverageThreshold and
// that crosses between two chains that are not each other's sole
// continuation. TransitiveReduction removes every edge whose coverage
// is at or below LowCoverageThreshold (when that is below
// HighCoverageThreshold), so when this pass runs after it, as in
// pipeline.Run, no such edge is left for it to flag.
//
// mode3 segment construction has not run yet at this point in the
// simplification pipeline (it runs after simplification, over the
// edges this pass leaves unflagged), so the detection below uses only
// marker-graph adjacency: an edge qualifies when both its endpoints
// have another non-removed neighbor besides each other (an edge
// already flagged as a cross edge still counts as a neighbor).
// That is the same "otherwise-unrelated segments" condition mode3
// would observe once segments exist, just computed one layer earlier.
func (c *Context) FlagLowCoverageCrossEdges() {
	for i := range c.Graph.Edges {
		e := uint64(i)
		if c.isRemoved(e) {
			continue
		}
		edge := c.edge(e)
		if int(edge.Coverage) >= c.Config.LowCoverageThreshold {
			continue
		}
		if c.hasOtherNeighbor(edge.Source, edge.Target, true) && c.hasOtherNeighbor(edge.Target, edge.Source, false) {
			edge.Flags.IsLowCoverageCrossEdge = true
			c.edge(c.rc(e)).Flags.IsLowCoverageCrossEdge = true
		}
	}
}

// hasOtherNeighbor reports whether v has a non-removed out-edge
// (outgoing true) or in-edge (outgoing false) to/from a vertex other
// than exclude.
func (c *Context) hasOtherNeighbor(v, exclude ids.MarkerGraphVertexId, outgoing bool) bool {
	adj := c.Graph.EdgesBySource[v]
	if !outgoing {
		adj = c.Graph.EdgesByTarget[v]
	}
	for _, e := range adj {
		if c.isRemoved(e) {
			continue
		}
		edge := c.edge(e)
		var other ids.MarkerGraphVertexId
		if outgoing {
			other = edge.Target
		} else {
			other = edge.Source
		}
		if other != exclude {
			return true
		}
	}
	return false
}
