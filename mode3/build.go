package mode3

import (
	"github.com/nanoreads/asmcore/markergraph"
)

// DefaultMinCoverage is the minimum number of supporting transitions
// required to create a link (spec.md §4.7).
const DefaultMinCoverage = 2

// Build runs the full Mode-3 pipeline of spec.md §4.7 over an
// already-simplified marker graph: segments, the marker-graph edge
// table, pseudo-paths, transitions and links, in that order (each
// stage depends on the output of the previous one, the same
// sequencing mode3.cpp's AssemblyGraph constructor uses).
func Build(g *markergraph.Graph, orientedReadCount, threads int, minCoverage uint64) *Graph {
	segments := BuildSegments(g)
	edgeTable := BuildMarkerGraphEdgeTable(segments, len(g.Edges), threads)
	pseudoPaths := BuildPseudoPaths(g, edgeTable, orientedReadCount, threads)
	transitionMap := FindTransitions(pseudoPaths, threads)
	links, transitions := BuildLinks(transitionMap, minCoverage)
	bySource, byTarget := BuildConnectivity(links, len(segments))

	return &Graph{
		Segments:             segments,
		MarkerGraphEdgeTable: edgeTable,
		PseudoPaths:          pseudoPaths,
		Transitions:          transitions,
		Links:                links,
		LinksBySource:        bySource,
		LinksByTarget:        byTarget,
	}
}
