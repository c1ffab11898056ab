package markergraph

import (
	"sync/atomic"

	"github.com/nanoreads/asmcore/internal/loadbalancer"
)

// BuildAdjacency fills EdgesBySource and EdgesByTarget with a
// two-pass count-then-store over all edges, exactly the protocol
// internal/arena.VarArray formalizes (spec.md §4.3 "Adjacency").
func (g *Graph) BuildAdjacency(threads int) {
	threads = threadCount(threads)
	n := g.VertexCount()
	m := len(g.Edges)

	srcCounts := make([]int64, n)
	dstCounts := make([]int64, n)
	loadbalancer.Run(uint64(m), batchSizeFor(m, threads), threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			e := g.Edges[i]
			atomic.AddInt64(&srcCounts[e.Source], 1)
			atomic.AddInt64(&dstCounts[e.Target], 1)
		}
	})

	g.EdgesBySource = make([][]uint64, n)
	g.EdgesByTarget = make([][]uint64, n)
	for v := 0; v < n; v++ {
		if c := srcCounts[v]; c > 0 {
			g.EdgesBySource[v] = make([]uint64, 0, c)
		}
		if c := dstCounts[v]; c > 0 {
			g.EdgesByTarget[v] = make([]uint64, 0, c)
		}
	}
	// Appends below are ordered by ascending edge id within each
	// vertex's list because this pass is single-threaded: the
	// teacher's "merging step is single-threaded" rule (spec.md §5)
	// applies here since list order (not just membership) must be
	// deterministic for downstream consumers such as the simplifier's
	// canonical-edge bucketing.
	for i, e := range g.Edges {
		g.EdgesBySource[e.Source] = append(g.EdgesBySource[e.Source], uint64(i))
		g.EdgesByTarget[e.Target] = append(g.EdgesByTarget[e.Target], uint64(i))
	}
}
