package markergraph

import (
	"fmt"
	"sort"

	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/internal/loadbalancer"
)

// BuildVertexSymmetry implements spec.md §4.4's vertex half: for each
// vertex v, take its first marker m, compute its reverse complement,
// look up vRc via VertexTable, and verify every marker of v
// reverse-complements into a marker of vRc.
func (g *Graph) BuildVertexSymmetry(threads int) error {
	threads = threadCount(threads)
	n := g.VertexCount()
	g.ReverseComplementVertex = make([]ids.MarkerGraphVertexId, n)
	errs := make([]error, n)
	loadbalancer.Run(uint64(n), batchSizeFor(n, threads), threads, func(begin, end uint64, _ int) {
		for v := begin; v < end; v++ {
			vRc, err := g.findReverseComplementVertex(ids.MarkerGraphVertexId(v))
			if err != nil {
				errs[v] = err
				continue
			}
			g.ReverseComplementVertex[v] = vRc
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph) findReverseComplementVertex(v ids.MarkerGraphVertexId) (ids.MarkerGraphVertexId, error) {
	markersOfV := g.VertexMarkers[v]
	if len(markersOfV) == 0 {
		return 0, fmt.Errorf("markergraph: vertex %d has no markers", v)
	}
	m := markersOfV[0]
	mRc := g.Table.ReverseComplement(m)
	if int(mRc) >= len(g.VertexTable) {
		return 0, fmt.Errorf("markergraph: reverse complement of marker %d of vertex %d is out of range", m, v)
	}
	vRc := g.VertexTable[mRc]
	if vRc == ids.InvalidVertexId {
		return 0, fmt.Errorf("markergraph: no vertex found for the reverse complement of marker %d (vertex %d)", m, v)
	}
	rcSet := make(map[ids.MarkerId]bool, len(g.VertexMarkers[vRc]))
	for _, rm := range g.VertexMarkers[vRc] {
		rcSet[rm] = true
	}
	for _, mk := range markersOfV {
		if !rcSet[g.Table.ReverseComplement(mk)] {
			return 0, fmt.Errorf("markergraph: vertex %d and its candidate reverse complement %d do not have "+
				"corresponding marker sets under marker reverse-complement", v, vRc)
		}
	}
	return vRc, nil
}

// BuildEdgeSymmetry implements spec.md §4.4's edge half: for edge e =
// (v0->v1), scan EdgesBySource[rc(v1)] for a candidate targeting
// rc(v0) whose reverse-complemented interval list matches e's.
func (g *Graph) BuildEdgeSymmetry(threads int) error {
	threads = threadCount(threads)
	m := len(g.Edges)
	g.ReverseComplementEdge = make([]ids.MarkerGraphEdgeId, m)
	for i := range g.ReverseComplementEdge {
		g.ReverseComplementEdge[i] = ids.InvalidEdgeId
	}
	errs := make([]error, m)
	loadbalancer.Run(uint64(m), batchSizeFor(m, threads), threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			rc, err := g.findReverseComplementEdge(uint64(i))
			if err != nil {
				errs[i] = err
				continue
			}
			g.ReverseComplementEdge[i] = ids.MarkerGraphEdgeId(rc)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	for i, rc := range g.ReverseComplementEdge {
		if uint64(rc) == uint64(i) {
			return fmt.Errorf("markergraph: edge %d is self-complementary, which must never happen for edges", i)
		}
	}
	return nil
}

func (g *Graph) findReverseComplementEdge(e uint64) (uint64, error) {
	edge := g.Edges[e]
	v0Rc := g.ReverseComplementVertex[edge.Source]
	v1Rc := g.ReverseComplementVertex[edge.Target]
	want := reverseComplementIntervals(g.Table, edge.Intervals)

	for _, candidate := range g.EdgesBySource[v1Rc] {
		ce := g.Edges[candidate]
		if ce.Target != v0Rc {
			continue
		}
		if intervalsEqual(want, ce.Intervals) {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("markergraph: no reverse complement found for edge %d (%d->%d)", e, edge.Source, edge.Target)
}

// reverseComplementIntervals flips strand, remaps ordinals by
// markerCount-1-o and swaps o0,o1 for every interval, then sorts the
// result the way BuildEdges sorts a freshly-grouped interval list, so
// it can be compared element-wise against a candidate edge's list
// (spec.md §4.4).
func reverseComplementIntervals(table interface {
	MarkerCount(ids.OrientedReadId) int
}, intervals []MarkerInterval) []MarkerInterval {
	out := make([]MarkerInterval, len(intervals))
	for i, iv := range intervals {
		rc := iv.OrientedReadId.Rc()
		count := table.MarkerCount(rc)
		o0 := uint32(count) - 1 - iv.Ordinals[1]
		o1 := uint32(count) - 1 - iv.Ordinals[0]
		out[i] = MarkerInterval{OrientedReadId: rc, Ordinals: [2]uint32{o0, o1}}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].OrientedReadId.Value() != out[b].OrientedReadId.Value() {
			return out[a].OrientedReadId.Value() < out[b].OrientedReadId.Value()
		}
		return out[a].Ordinals[0] < out[b].Ordinals[0]
	})
	return out
}

func intervalsEqual(a, b []MarkerInterval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheckInvolution verifies rc(rc(v))=v for every vertex and
// rc(rc(e))=e, e != rc(e) for every edge, per spec.md §4.4 and §8.
func (g *Graph) CheckInvolution() error {
	for v, vRc := range g.ReverseComplementVertex {
		if int(vRc) >= len(g.ReverseComplementVertex) {
			return fmt.Errorf("markergraph: reverseComplementVertex[%d]=%d out of range", v, vRc)
		}
		if g.ReverseComplementVertex[vRc] != ids.MarkerGraphVertexId(v) {
			return fmt.Errorf("markergraph: reverseComplementVertex is not an involution at vertex %d", v)
		}
	}
	for e, eRc := range g.ReverseComplementEdge {
		if int(eRc) >= len(g.ReverseComplementEdge) {
			return fmt.Errorf("markergraph: reverseComplementEdge[%d]=%d out of range", e, eRc)
		}
		if g.ReverseComplementEdge[eRc] != ids.MarkerGraphEdgeId(e) {
			return fmt.Errorf("markergraph: reverseComplementEdge is not an involution at edge %d", e)
		}
		if uint64(eRc) == uint64(e) {
			return fmt.Errorf("markergraph: edge %d is its own reverse complement", e)
		}
	}
	return nil
}
