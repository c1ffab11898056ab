package simplify

import (
	"testing"

	"github.com/nanoreads/asmcore/internal/config"
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/markergraph"
)

func blankGraph(vertexCount, edgeCount int) *markergraph.Graph {
	g := &markergraph.Graph{
		VertexMarkers: make([][]ids.MarkerId, vertexCount),
		Edges:         make([]markergraph.Edge, edgeCount),
		EdgesBySource: make([][]uint64, vertexCount),
		EdgesByTarget: make([][]uint64, vertexCount),
	}
	return g
}

func TestPruneRemovesDeadEndsButKeepsMainChainAfterOneIteration(t *testing.T) {
	// Main chain A(0)->B(1)->C(2)->D(3)->E(4), plus a dead-end spur B->X(5).
	g := blankGraph(6, 5)
	g.Edges[0] = markergraph.Edge{Source: 0, Target: 1} // A->B
	g.Edges[1] = markergraph.Edge{Source: 1, Target: 2} // B->C
	g.Edges[2] = markergraph.Edge{Source: 2, Target: 3} // C->D
	g.Edges[3] = markergraph.Edge{Source: 3, Target: 4} // D->E
	g.Edges[4] = markergraph.Edge{Source: 1, Target: 5} // B->X, dead end

	g.EdgesBySource[0] = []uint64{0}
	g.EdgesBySource[1] = []uint64{1, 4}
	g.EdgesBySource[2] = []uint64{2}
	g.EdgesBySource[3] = []uint64{3}
	g.EdgesByTarget[1] = []uint64{0}
	g.EdgesByTarget[2] = []uint64{1}
	g.EdgesByTarget[3] = []uint64{2}
	g.EdgesByTarget[4] = []uint64{3}

	c := New(g, config.Config{})
	c.Prune(1)

	if !g.Edges[0].Flags.WasPruned {
		t.Error("edge A->B should be pruned: A has no in-edges, a backward leaf")
	}
	if !g.Edges[3].Flags.WasPruned {
		t.Error("edge D->E should be pruned: E has no out-edges, a forward leaf")
	}
	if !g.Edges[4].Flags.WasPruned {
		t.Error("spur edge B->X should be pruned: a one-edge dead end")
	}
	if g.Edges[1].Flags.WasPruned {
		t.Error("edge B->C should survive a single prune iteration")
	}
	if g.Edges[2].Flags.WasPruned {
		t.Error("edge C->D should survive a single prune iteration")
	}
}

// The test below uses an 8-vertex, 6-edge graph with a full
// reverse-complement mirror: vertices 0,1,2,3 map to 7,6,5,4 and edges
// 3-5 are the reverse complements of edges 0-2.
func TestFlagLowCoverageCrossEdgesRequiresBothEndpointsToHaveAnotherNeighbor(t *testing.T) {
	// v1(0) has two out-edges: to A(1) (coverage 5) and to v2(2) (cross,
	// coverage 1). v2(2) has two in-edges: from v1(0) (cross) and from
	// B(3) (coverage 5). Mirrored by vertices 4-7.
	g := blankGraph(8, 6)
	g.Edges[0] = markergraph.Edge{Source: 0, Target: 1, Coverage: 5} // v1->A
	g.Edges[1] = markergraph.Edge{Source: 0, Target: 2, Coverage: 1} // v1->v2 (cross)
	g.Edges[2] = markergraph.Edge{Source: 3, Target: 2, Coverage: 5} // B->v2
	g.Edges[3] = markergraph.Edge{Source: 6, Target: 7, Coverage: 5} // rc(v1->A)
	g.Edges[4] = markergraph.Edge{Source: 5, Target: 7, Coverage: 1} // rc(v1->v2)
	g.Edges[5] = markergraph.Edge{Source: 5, Target: 4, Coverage: 5} // rc(B->v2)

	g.EdgesBySource[0] = []uint64{0, 1}
	g.EdgesBySource[3] = []uint64{2}
	g.EdgesBySource[5] = []uint64{4, 5}
	g.EdgesBySource[6] = []uint64{3}
	g.EdgesByTarget[1] = []uint64{0}
	g.EdgesByTarget[2] = []uint64{1, 2}
	g.EdgesByTarget[4] = []uint64{5}
	g.EdgesByTarget[7] = []uint64{3, 4}

	g.ReverseComplementEdge = []ids.MarkerGraphEdgeId{3, 4, 5, 0, 1, 2}

	c := New(g, config.Config{LowCoverageThreshold: 2})
	c.FlagLowCoverageCrossEdges()

	if !g.Edges[1].Flags.IsLowCoverageCrossEdge {
		t.Error("v1->v2 should be flagged: both endpoints have another neighbor")
	}
	if !g.Edges[4].Flags.IsLowCoverageCrossEdge {
		t.Error("the reverse complement of v1->v2 should be flagged too")
	}
	for _, i := range []int{0, 2, 3, 5} {
		if g.Edges[i].Flags.IsLowCoverageCrossEdge {
			t.Errorf("edge %d has coverage 5, at or above the threshold, and should not be flagged", i)
		}
	}
}

func TestTransitiveReductionRemovesRedundantDirectEdgeButKeepsTheAlternatePath(t *testing.T) {
	// Direct edge u0(0)->u1(1), coverage 3, redundant given the
	// two-hop alternate path u0->u2(2)->u1, each hop coverage 5.
	// Mirrored by vertices 3,4,5 (rc(2)=3, rc(1)=4, rc(0)=5).
	g := blankGraph(6, 6)
	g.Edges[0] = markergraph.Edge{Source: 0, Target: 1, Coverage: 3} // u0->u1, redundant
	g.Edges[1] = markergraph.Edge{Source: 0, Target: 2, Coverage: 5} // u0->u2
	g.Edges[2] = markergraph.Edge{Source: 2, Target: 1, Coverage: 5} // u2->u1
	g.Edges[3] = markergraph.Edge{Source: 4, Target: 5, Coverage: 3} // rc(u0->u1)
	g.Edges[4] = markergraph.Edge{Source: 3, Target: 5, Coverage: 5} // rc(u0->u2)
	g.Edges[5] = markergraph.Edge{Source: 4, Target: 3, Coverage: 5} // rc(u2->u1)

	g.EdgesBySource[0] = []uint64{0, 1}
	g.EdgesBySource[2] = []uint64{2}
	g.EdgesBySource[3] = []uint64{5}
	g.EdgesBySource[4] = []uint64{3, 4}
	g.EdgesByTarget[1] = []uint64{0, 2}
	g.EdgesByTarget[2] = []uint64{1}
	g.EdgesByTarget[3] = []uint64{5}
	g.EdgesByTarget[5] = []uint64{3, 4}

	g.ReverseComplementEdge = []ids.MarkerGraphEdgeId{3, 4, 5, 0, 1, 2}

	c := New(g, config.Config{LowCoverageThreshold: 0, HighCoverageThreshold: 10, MaxDistance: 3})
	c.TransitiveReduction()
	c.ReverseTransitiveReduction()

	if !g.Edges[0].Flags.WasRemovedByTransitiveReduction {
		t.Error("the direct edge u0->u1 should be removed, a 2-hop alternate exists")
	}
	if !g.Edges[3].Flags.WasRemovedByTransitiveReduction {
		t.Error("the reverse complement of the removed edge should be removed too")
	}
	for _, i := range []int{1, 2, 4, 5} {
		if g.Edges[i].Flags.WasRemovedByTransitiveReduction {
			t.Errorf("edge %d is part of the only path once the direct edge is gone and must survive", i)
		}
	}
}

func TestBuildTempAssemblyGraphWalksChainsAndPairsReverseComplements(t *testing.T) {
	// After removing u0->u1, the surviving graph is a simple two-hop
	// chain u0(0)->u2(2)->u1(1), mirrored as u4(4)->u3(3)->u5(5).
	g := blankGraph(6, 6)
	g.Edges[0] = markergraph.Edge{Source: 0, Target: 1, Flags: markergraph.EdgeFlags{WasRemovedByTransitiveReduction: true}}
	g.Edges[1] = markergraph.Edge{Source: 0, Target: 2, Intervals: make([]markergraph.MarkerInterval, 5)}
	g.Edges[2] = markergraph.Edge{Source: 2, Target: 1, Intervals: make([]markergraph.MarkerInterval, 5)}
	g.Edges[3] = markergraph.Edge{Source: 4, Target: 5, Flags: markergraph.EdgeFlags{WasRemovedByTransitiveReduction: true}}
	g.Edges[4] = markergraph.Edge{Source: 3, Target: 5, Intervals: make([]markergraph.MarkerInterval, 5)}
	g.Edges[5] = markergraph.Edge{Source: 4, Target: 3, Intervals: make([]markergraph.MarkerInterval, 5)}

	g.EdgesBySource[0] = []uint64{0, 1}
	g.EdgesBySource[2] = []uint64{2}
	g.EdgesBySource[3] = []uint64{4}
	g.EdgesBySource[4] = []uint64{3, 5}
	g.EdgesByTarget[1] = []uint64{0, 2}
	g.EdgesByTarget[2] = []uint64{1}
	g.EdgesByTarget[3] = []uint64{5}
	g.EdgesByTarget[5] = []uint64{3, 4}

	g.ReverseComplementEdge = []ids.MarkerGraphEdgeId{3, 4, 5, 0, 1, 2}

	c := New(g, config.Config{})
	tg := c.BuildTempAssemblyGraph()

	if len(tg.Edges) != 2 {
		t.Fatalf("len(tg.Edges) = %d, want 2 chains", len(tg.Edges))
	}
	var forward, reverse *TempEdge
	for i := range tg.Edges {
		switch tg.Edges[i].Source {
		case 0:
			forward = &tg.Edges[i]
		case 4:
			reverse = &tg.Edges[i]
		}
	}
	if forward == nil || reverse == nil {
		t.Fatalf("expected chains starting at vertex 0 and vertex 4, got %+v", tg.Edges)
	}
	if forward.Target != 1 {
		t.Errorf("forward chain target = %d, want 1", forward.Target)
	}
	if len(forward.Chain) != 2 || forward.Chain[0] != 1 || forward.Chain[1] != 2 {
		t.Errorf("forward chain = %v, want [1,2]", forward.Chain)
	}
	if reverse.Target != 5 {
		t.Errorf("reverse chain target = %d, want 5", reverse.Target)
	}
	if len(reverse.Chain) != 2 || reverse.Chain[0] != 5 || reverse.Chain[1] != 4 {
		t.Errorf("reverse chain = %v, want [5,4]", reverse.Chain)
	}

	forwardIdx := -1
	for i := range tg.Edges {
		if tg.Edges[i].Source == 0 {
			forwardIdx = i
		}
	}
	reverseIdx := -1
	for i := range tg.Edges {
		if tg.Edges[i].Source == 4 {
			reverseIdx = i
		}
	}
	if tg.Edges[forwardIdx].ReverseComplementEdge != reverseIdx {
		t.Errorf("forward chain's reverse complement index = %d, want %d", tg.Edges[forwardIdx].ReverseComplementEdge, reverseIdx)
	}
	if tg.Edges[reverseIdx].ReverseComplementEdge != forwardIdx {
		t.Errorf("reverse chain's reverse complement index = %d, want %d", tg.Edges[reverseIdx].ReverseComplementEdge, forwardIdx)
	}
}

func TestRemoveBubblesKeepsHighestCoverageParallelEdge(t *testing.T) {
	g := blankGraph(4, 4)
	g.ReverseComplementEdge = []ids.MarkerGraphEdgeId{2, 3, 0, 1} // same pairing as the temp edges below: 0<->2, 1<->3

	tg := &TempGraph{Edges: []TempEdge{
		{Source: 0, Target: 1, Chain: []uint64{0}, AverageEdgeCoverage: 2, ReverseComplementEdge: 2},
		{Source: 0, Target: 1, Chain: []uint64{1}, AverageEdgeCoverage: 5, ReverseComplementEdge: 3},
		{Source: 2, Target: 3, Chain: []uint64{2}, AverageEdgeCoverage: 2, ReverseComplementEdge: 0},
		{Source: 2, Target: 3, Chain: []uint64{3}, AverageEdgeCoverage: 5, ReverseComplementEdge: 1},
	}}

	c := New(g, config.Config{})
	c.RemoveBubbles(tg, 1)

	if !g.Edges[0].Flags.IsSuperBubbleEdge {
		t.Error("the lower-coverage parallel edge should be flagged")
	}
	if !g.Edges[2].Flags.IsSuperBubbleEdge {
		t.Error("its reverse complement should be flagged too")
	}
	if g.Edges[1].Flags.IsSuperBubbleEdge {
		t.Error("the higher-coverage parallel edge should be kept")
	}
	if g.Edges[3].Flags.IsSuperBubbleEdge {
		t.Error("its reverse complement should be kept too")
	}
}

func TestRemoveSuperBubblesRetainsTheShortestPathThroughADiamond(t *testing.T) {
	// A(0) branches to X(1) and Y(3), both converging on B(2). The
	// X path has higher average coverage than the Y path, so Dijkstra
	// (weight = 1/coverage) should retain only the X path. P(4)->A and
	// B->Q(6) are long boundary edges marking A as entry, B as exit.
	g := blankGraph(7, 8)
	g.ReverseComplementVertex = []ids.MarkerGraphVertexId{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}

	tg := &TempGraph{Edges: []TempEdge{
		{Source: 0, Target: 1, Chain: []uint64{0}, AverageEdgeCoverage: 5, ReverseComplementEdge: -1},
		{Source: 1, Target: 2, Chain: []uint64{1}, AverageEdgeCoverage: 5, ReverseComplementEdge: -1},
		{Source: 0, Target: 3, Chain: []uint64{2}, AverageEdgeCoverage: 2, ReverseComplementEdge: -1},
		{Source: 3, Target: 2, Chain: []uint64{3}, AverageEdgeCoverage: 2, ReverseComplementEdge: -1},
		{Source: 4, Target: 0, Chain: []uint64{4, 5}, AverageEdgeCoverage: 1, ReverseComplementEdge: -1},
		{Source: 2, Target: 6, Chain: []uint64{6, 7}, AverageEdgeCoverage: 1, ReverseComplementEdge: -1},
	}}

	g.Edges = make([]markergraph.Edge, 8)
	g.ReverseComplementEdge = make([]ids.MarkerGraphEdgeId, 8)
	for i := range g.ReverseComplementEdge {
		g.ReverseComplementEdge[i] = ids.MarkerGraphEdgeId(i) // self-rc, harmless here
	}

	c := New(g, config.Config{})
	c.RemoveSuperBubbles(tg, 1)

	if g.Edges[0].Flags.IsSuperBubbleEdge {
		t.Error("A->X is on the shortest path and should be kept")
	}
	if g.Edges[1].Flags.IsSuperBubbleEdge {
		t.Error("X->B is on the shortest path and should be kept")
	}
	if !g.Edges[2].Flags.IsSuperBubbleEdge {
		t.Error("A->Y is the lower-coverage alternate and should be flagged")
	}
	if !g.Edges[3].Flags.IsSuperBubbleEdge {
		t.Error("Y->B is the lower-coverage alternate and should be flagged")
	}
	for _, i := range []int{4, 5, 6, 7} {
		if g.Edges[i].Flags.IsSuperBubbleEdge {
			t.Errorf("boundary edge marker-graph edge %d exceeds maxLength and must never be flagged by this pass", i)
		}
	}
}
