package simplify

import "github.com/nanoreads/asmcore/internal/ids"

// TempEdge is one edge of the temporary assembly graph of spec.md
// §4.6: a maximal chain of non-removed marker-graph edges between two
// vertices that are not chain-interior.
type TempEdge struct {
	Source, Target        ids.MarkerGraphVertexId
	Chain                 []uint64 // marker-graph edge indices, in order
	AverageEdgeCoverage   float64
	ReverseComplementEdge int // index into TempGraph.Edges, or -1 if not yet resolved
}

// TempGraph is built fresh, used, and discarded inside a single
// simplifier iteration (spec.md §4.6).
type TempGraph struct {
	Edges []TempEdge
}

func (c *Context) nonRemovedOutDegree(v ids.MarkerGraphVertexId) int {
	n := 0
	for _, e := range c.Graph.EdgesBySource[v] {
		if !c.isRemoved(e) {
			n++
		}
	}
	return n
}

func (c *Context) nonRemovedInDegree(v ids.MarkerGraphVertexId) int {
	n := 0
	for _, e := range c.Graph.EdgesByTarget[v] {
		if !c.isRemoved(e) {
			n++
		}
	}
	return n
}

// isChainInterior reports whether v has exactly one non-removed
// in-edge and one non-removed out-edge, i.e. it can be skipped over
// while walking a chain.
func (c *Context) isChainInterior(v ids.MarkerGraphVertexId) bool {
	return c.nonRemovedInDegree(v) == 1 && c.nonRemovedOutDegree(v) == 1
}

func (c *Context) firstNonRemovedOut(v ids.MarkerGraphVertexId) (uint64, bool) {
	for _, e := range c.Graph.EdgesBySource[v] {
		if !c.isRemoved(e) {
			return e, true
		}
	}
	return 0, false
}

// BuildTempAssemblyGraph implements spec.md §4.6.
func (c *Context) BuildTempAssemblyGraph() *TempGraph {
	n := len(c.Graph.VertexMarkers)
	started := make(map[uint64]bool)
	tg := &TempGraph{}

	for v := 0; v < n; v++ {
		source := ids.MarkerGraphVertexId(v)
		if c.isChainInterior(source) {
			continue
		}
		for _, e0 := range c.Graph.EdgesBySource[source] {
			if c.isRemoved(e0) || started[e0] {
				continue
			}
			chain := []uint64{e0}
			started[e0] = true
			cur := c.edge(e0).Target
			for c.isChainInterior(cur) {
				next, ok := c.firstNonRemovedOut(cur)
				if !ok || started[next] {
					break
				}
				chain = append(chain, next)
				started[next] = true
				cur = c.edge(next).Target
			}
			tg.Edges = append(tg.Edges, TempEdge{
				Source:                source,
				Target:                cur,
				Chain:                 chain,
				AverageEdgeCoverage:   c.averageChainCoverage(chain),
				ReverseComplementEdge: -1,
			})
		}
	}
	c.resolveTempReverseComplements(tg)
	return tg
}

func (c *Context) averageChainCoverage(chain []uint64) float64 {
	if len(chain) == 0 {
		return 0
	}
	var total float64
	for _, e := range chain {
		total += float64(len(c.edge(e).Intervals))
	}
	return total / float64(len(chain))
}

// resolveTempReverseComplements pairs up temp edges whose chain is the
// reverse complement of another's. Reversing a chain both reverses
// its edge order and complements each edge, so the reverse
// complement chain's first edge is the reverse complement of the
// original chain's LAST edge, not its first.
func (c *Context) resolveTempReverseComplements(tg *TempGraph) {
	byFirstEdge := make(map[uint64]int, len(tg.Edges))
	for i, te := range tg.Edges {
		byFirstEdge[te.Chain[0]] = i
	}
	for i, te := range tg.Edges {
		if tg.Edges[i].ReverseComplementEdge >= 0 {
			continue
		}
		rcLast := c.rc(te.Chain[len(te.Chain)-1])
		if j, ok := byFirstEdge[rcLast]; ok {
			tg.Edges[i].ReverseComplementEdge = j
			tg.Edges[j].ReverseComplementEdge = i
		}
	}
}
