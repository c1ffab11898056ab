package mode3

import (
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/markergraph"
)

// BuildSegments implements spec.md §4.7's segment creation: every
// unflagged edge belongs to exactly one segment (flagged edges belong
// to none), found by extending it forward
// and backward through unflagged edges while the intervening vertex
// has in- and out-degree exactly 1, grounded on mode3.cpp's
// createSegments (original_source/src/mode3.cpp).
func BuildSegments(g *markergraph.Graph) []Segment {
	edgeCount := len(g.Edges)
	wasFound := make([]bool, edgeCount)

	var segments []Segment
	for start := 0; start < edgeCount; start++ {
		startEdge := ids.MarkerGraphEdgeId(start)
		if wasFound[start] || !g.IsUnflagged(startEdge) {
			continue
		}

		var forward []ids.MarkerGraphEdgeId
		isCircular := false
		cur := startEdge
		for {
			v1 := g.Edges[cur].Target
			next, ok := singleUnflaggedOut(g, v1)
			if !ok {
				break
			}
			if next == startEdge {
				isCircular = true
				break
			}
			cur = next
			forward = append(forward, cur)
		}

		var backward []ids.MarkerGraphEdgeId
		if !isCircular {
			cur = startEdge
			for {
				v0 := g.Edges[cur].Source
				prev, ok := singleUnflaggedIn(g, v0)
				if !ok {
					break
				}
				cur = prev
				backward = append(backward, cur)
			}
		}

		path := make([]MarkerGraphEdgeInfo, 0, len(backward)+1+len(forward))
		for i := len(backward) - 1; i >= 0; i-- {
			path = append(path, MarkerGraphEdgeInfo{EdgeId: backward[i]})
		}
		path = append(path, MarkerGraphEdgeInfo{EdgeId: startEdge})
		for _, e := range forward {
			path = append(path, MarkerGraphEdgeInfo{EdgeId: e})
		}

		for _, info := range path {
			wasFound[info.EdgeId] = true
		}
		segments = append(segments, Segment{Path: path, IsCircular: isCircular})
	}
	return segments
}

// singleUnflaggedOut/In report the unique unflagged out-/in-edge of v,
// if there is exactly one; a branching or dead-end vertex ends the
// chain.
func singleUnflaggedOut(g *markergraph.Graph, v ids.MarkerGraphVertexId) (ids.MarkerGraphEdgeId, bool) {
	var found ids.MarkerGraphEdgeId
	count := 0
	for _, e := range g.EdgesBySource[v] {
		if g.IsUnflagged(ids.MarkerGraphEdgeId(e)) {
			found = ids.MarkerGraphEdgeId(e)
			count++
		}
	}
	if count != 1 {
		return 0, false
	}
	if inCount := countUnflaggedIn(g, v); inCount != 1 {
		return 0, false
	}
	return found, true
}

func singleUnflaggedIn(g *markergraph.Graph, v ids.MarkerGraphVertexId) (ids.MarkerGraphEdgeId, bool) {
	var found ids.MarkerGraphEdgeId
	count := 0
	for _, e := range g.EdgesByTarget[v] {
		if g.IsUnflagged(ids.MarkerGraphEdgeId(e)) {
			found = ids.MarkerGraphEdgeId(e)
			count++
		}
	}
	if count != 1 {
		return 0, false
	}
	if outCount := countUnflaggedOut(g, v); outCount != 1 {
		return 0, false
	}
	return found, true
}

func countUnflaggedOut(g *markergraph.Graph, v ids.MarkerGraphVertexId) int {
	n := 0
	for _, e := range g.EdgesBySource[v] {
		if g.IsUnflagged(ids.MarkerGraphEdgeId(e)) {
			n++
		}
	}
	return n
}

func countUnflaggedIn(g *markergraph.Graph, v ids.MarkerGraphVertexId) int {
	n := 0
	for _, e := range g.EdgesByTarget[v] {
		if g.IsUnflagged(ids.MarkerGraphEdgeId(e)) {
			n++
		}
	}
	return n
}
