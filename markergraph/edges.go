package markergraph

import (
	"sort"
	"sync"

	"github.com/nanoreads/asmcore/internal/ids"
)

// tentativeGroup accumulates the intervals discovered from a single
// source vertex's markers, grouped by target vertex, exactly as
// spec.md §4.3 "Edge construction" describes: "Group tentative pairs
// by v1; each group becomes one edge with its intervals."
type tentativeGroup struct {
	order   []ids.MarkerGraphVertexId // first-seen order, for determinism
	byTargt map[ids.MarkerGraphVertexId][]MarkerInterval
}

func newTentativeGroup() *tentativeGroup {
	return &tentativeGroup{byTargt: make(map[ids.MarkerGraphVertexId][]MarkerInterval)}
}

func (g *tentativeGroup) add(v1 ids.MarkerGraphVertexId, interval MarkerInterval) {
	if _, ok := g.byTargt[v1]; !ok {
		g.order = append(g.order, v1)
	}
	g.byTargt[v1] = append(g.byTargt[v1], interval)
}

// BuildEdges implements spec.md §4.3's edge-construction algorithm.
// Vertex ids are partitioned into contiguous, per-thread chunks (not
// atomically-claimed batches) so that the final concatenation order —
// thread order, and within a thread the ascending v0 order — is a
// deterministic function of the input, matching spec.md §5's ordering
// guarantee.
func (g *Graph) BuildEdges(threads int) {
	threads = threadCount(threads)
	n := g.VertexCount()
	if n == 0 {
		return
	}
	if threads > n {
		threads = n
	}
	chunks := make([][]Edge, threads)
	var wg sync.WaitGroup
	chunkSize := (n + threads - 1) / threads
	for t := 0; t < threads; t++ {
		begin := t * chunkSize
		end := begin + chunkSize
		if begin >= n {
			continue
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		t := t
		go func(begin, end int) {
			defer wg.Done()
			chunks[t] = g.buildEdgesRange(begin, end)
		}(begin, end)
	}
	wg.Wait()

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	edges := make([]Edge, 0, total)
	for _, c := range chunks {
		edges = append(edges, c...)
	}
	g.Edges = edges
}

func (g *Graph) buildEdgesRange(begin, end int) []Edge {
	var out []Edge
	for v0 := begin; v0 < end; v0++ {
		group := newTentativeGroup()
		for _, markerId := range g.VertexMarkers[v0] {
			orientedReadId, ordinal0 := g.Table.Locate(markerId)
			count := g.Table.MarkerCount(orientedReadId)
			for ordinal1 := ordinal0 + 1; ordinal1 < count; ordinal1++ {
				candidate := g.Table.GlobalId(orientedReadId, ordinal1)
				v1 := g.VertexTable[candidate]
				if v1 == ids.InvalidVertexId {
					continue
				}
				group.add(v1, MarkerInterval{
					OrientedReadId: orientedReadId,
					Ordinals:       [2]uint32{uint32(ordinal0), uint32(ordinal1)},
				})
				break
			}
		}
		for _, v1 := range group.order {
			intervals := group.byTargt[v1]
			sort.Slice(intervals, func(a, b int) bool {
				ia, ib := intervals[a], intervals[b]
				if ia.OrientedReadId.Value() != ib.OrientedReadId.Value() {
					return ia.OrientedReadId.Value() < ib.OrientedReadId.Value()
				}
				return ia.Ordinals[0] < ib.Ordinals[0]
			})
			out = append(out, Edge{
				Source:    ids.MarkerGraphVertexId(v0),
				Target:    v1,
				Coverage:  cappedCoverage(len(intervals)),
				Intervals: intervals,
			})
		}
	}
	return out
}

// cappedCoverage caps the stored coverage byte at 255 while
// BuildEdges keeps the full interval list in Edge.Intervals (design
// note 9(b)).
func cappedCoverage(n int) uint8 {
	if n > 255 {
		return 255
	}
	return uint8(n)
}
