package simplify

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/nanoreads/asmcore/internal/ids"
)

// localDSU is a small single-threaded union-find used only to compute
// connected components of the temporary assembly graph; it is
// intentionally not disjointset.Set, which is reserved for the
// concurrent marker-graph-construction use case (spec.md §4.1).
type localDSU struct{ parent []int }

func newLocalDSU(n int) *localDSU {
	d := &localDSU{parent: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *localDSU) find(x int) int {
	for d.parent[x] != x {
		x = d.parent[x]
	}
	return x
}

func (d *localDSU) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[ra] = rb
	}
}

// RemoveSuperBubbles implements spec.md §4.5 Part 2.
func (c *Context) RemoveSuperBubbles(tg *TempGraph, maxLength int) {
	n := len(c.Graph.VertexMarkers)
	dsu := newLocalDSU(n)
	outgoing := make(map[ids.MarkerGraphVertexId][]int)
	incoming := make(map[ids.MarkerGraphVertexId][]int)
	for i, e := range tg.Edges {
		outgoing[e.Source] = append(outgoing[e.Source], i)
		incoming[e.Target] = append(incoming[e.Target], i)
		if len(e.Chain) <= maxLength {
			dsu.union(int(e.Source), int(e.Target))
		}
	}

	componentOf := make(map[ids.MarkerGraphVertexId]int)
	members := make(map[int][]ids.MarkerGraphVertexId)
	seen := make(map[ids.MarkerGraphVertexId]bool)
	for _, e := range tg.Edges {
		for _, v := range [2]ids.MarkerGraphVertexId{e.Source, e.Target} {
			if seen[v] {
				continue
			}
			seen[v] = true
			root := dsu.find(int(v))
			componentOf[v] = root
			members[root] = append(members[root], v)
		}
	}

	kept := make(map[int]bool) // tg edge index -> keep
	processedComponent := make(map[int]bool)

	for root, verts := range members {
		if processedComponent[root] {
			continue
		}
		selfComplementary := false
		rcRoot := -1
		for _, v := range verts {
			rv := c.Graph.ReverseComplementVertex[v]
			if rv == v {
				selfComplementary = true
			}
			if r, ok := componentOf[rv]; ok {
				rcRoot = r
			}
		}
		processedComponent[root] = true
		if rcRoot >= 0 {
			processedComponent[rcRoot] = true
		}

		if selfComplementary {
			c.keepAllInternalEdges(tg, verts, maxLength, kept)
			continue
		}

		entries, exits := componentEntriesExits(verts, componentOf, incoming, outgoing, tg, maxLength)
		if len(entries) == 0 || len(exits) == 0 {
			c.keepAllInternalEdges(tg, verts, maxLength, kept)
			continue
		}

		c.retainShortestPaths(tg, verts, entries, exits, maxLength, kept)
	}

	// Any temp-graph edge not explicitly kept is flagged superbubble.
	for i, e := range tg.Edges {
		if len(e.Chain) > maxLength {
			continue // long edges are never part of a component's internal retention decision
		}
		if !kept[i] {
			c.flagSuperBubbleChain(e.Chain)
		}
	}
}

func (c *Context) keepAllInternalEdges(tg *TempGraph, verts []ids.MarkerGraphVertexId, maxLength int, kept map[int]bool) {
	set := make(map[ids.MarkerGraphVertexId]bool, len(verts))
	for _, v := range verts {
		set[v] = true
	}
	for i, e := range tg.Edges {
		if len(e.Chain) > maxLength {
			continue
		}
		if set[e.Source] && set[e.Target] {
			kept[i] = true
			if rc := e.ReverseComplementEdge; rc >= 0 {
				kept[rc] = true
			}
		}
	}
}

func componentEntriesExits(
	verts []ids.MarkerGraphVertexId,
	componentOf map[ids.MarkerGraphVertexId]int,
	incoming, outgoing map[ids.MarkerGraphVertexId][]int,
	tg *TempGraph,
	maxLength int,
) (entries, exits []ids.MarkerGraphVertexId) {
	myRoot := componentOf[verts[0]]
	for _, v := range verts {
		isEntry := false
		for _, i := range incoming[v] {
			e := tg.Edges[i]
			if len(e.Chain) > maxLength || componentOf[e.Source] != myRoot {
				isEntry = true
				break
			}
		}
		if isEntry {
			entries = append(entries, v)
		}
		isExit := false
		for _, i := range outgoing[v] {
			e := tg.Edges[i]
			if len(e.Chain) > maxLength || componentOf[e.Target] != myRoot {
				isExit = true
				break
			}
		}
		if isExit {
			exits = append(exits, v)
		}
	}
	return entries, exits
}

// retainShortestPaths builds a weighted directed graph over the
// component (edge weight = 1/averageEdgeCoverage, excluding edges of
// length > maxLength), runs Dijkstra from every entry, and for every
// reachable exit walks the predecessor tree back to the entry,
// marking the highest-coverage parallel temp edge at each hop as
// kept, per spec.md §4.5 Part 2 and design note 9(c).
func (c *Context) retainShortestPaths(
	tg *TempGraph,
	verts []ids.MarkerGraphVertexId,
	entries, exits []ids.MarkerGraphVertexId,
	maxLength int,
	kept map[int]bool,
) {
	// parallel[v0][v1] lists every short temp edge from v0 to v1.
	parallel := make(map[ids.MarkerGraphVertexId]map[ids.MarkerGraphVertexId][]int)
	g := simple.NewWeightedDirectedGraph(0, 0)
	for _, v := range verts {
		g.AddNode(simple.Node(int64(v)))
	}
	for i, e := range tg.Edges {
		if len(e.Chain) > maxLength {
			continue
		}
		inSet := false
		for _, v := range verts {
			if v == e.Source {
				inSet = true
				break
			}
		}
		if !inSet {
			continue
		}
		if parallel[e.Source] == nil {
			parallel[e.Source] = make(map[ids.MarkerGraphVertexId][]int)
		}
		parallel[e.Source][e.Target] = append(parallel[e.Source][e.Target], i)
	}
	for v0, byTarget := range parallel {
		for v1, idxs := range byTarget {
			best := idxs[0]
			for _, i := range idxs[1:] {
				if tg.Edges[i].AverageEdgeCoverage > tg.Edges[best].AverageEdgeCoverage {
					best = i
				}
			}
			weight := 1.0
			if cov := tg.Edges[best].AverageEdgeCoverage; cov > 0 {
				weight = 1.0 / cov
			}
			g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(int64(v0)), T: simple.Node(int64(v1)), W: weight})
		}
	}

	for _, entry := range entries {
		if g.Node(int64(entry)) == nil {
			continue
		}
		shortest := path.DijkstraFrom(simple.Node(int64(entry)), g)
		for _, exit := range exits {
			if entry == exit {
				continue
			}
			nodes, _ := shortest.To(int64(exit))
			if len(nodes) < 2 {
				continue
			}
			for i := 0; i+1 < len(nodes); i++ {
				v0 := ids.MarkerGraphVertexId(nodes[i].ID())
				v1 := ids.MarkerGraphVertexId(nodes[i+1].ID())
				idxs := parallel[v0][v1]
				if len(idxs) == 0 {
					continue
				}
				best := idxs[0]
				for _, i := range idxs[1:] {
					if tg.Edges[i].AverageEdgeCoverage > tg.Edges[best].AverageEdgeCoverage {
						best = i
					}
				}
				kept[best] = true
				if rc := tg.Edges[best].ReverseComplementEdge; rc >= 0 {
					kept[rc] = true
				}
			}
		}
	}
}
