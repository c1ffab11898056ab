package simplify

import (
	"sort"

	"github.com/nanoreads/asmcore/internal/ids"
)

// ClearSimplifierFlags clears every flag this package mutates, the
// mandatory first step of transitive reduction (spec.md §4.5).
func (c *Context) ClearSimplifierFlags() {
	for i := range c.Graph.Edges {
		c.Graph.Edges[i].Flags.WasRemovedByTransitiveReduction = false
		c.Graph.Edges[i].Flags.WasPruned = false
		c.Graph.Edges[i].Flags.IsSuperBubbleEdge = false
		c.Graph.Edges[i].Flags.IsLowCoverageCrossEdge = false
	}
}

// canonicalEdgesByCoverage buckets edge ids by coverage for c <
// highCoverageThreshold, keeping only the canonical representative of
// each reverse-complement pair (the one whose id is smaller), per
// spec.md §4.5 step 2.
func (c *Context) canonicalEdgesByCoverage(highCoverageThreshold int) [][]uint64 {
	buckets := make([][]uint64, highCoverageThreshold)
	for i := range c.Graph.Edges {
		e := c.Graph.Edges[i]
		cov := int(e.Coverage)
		if cov >= highCoverageThreshold {
			continue
		}
		if uint64(i) >= c.rc(uint64(i)) {
			continue
		}
		buckets[cov] = append(buckets[cov], uint64(i))
	}
	return buckets
}

func (c *Context) markRemoved(e uint64) {
	c.edge(e).Flags.WasRemovedByTransitiveReduction = true
	c.edge(c.rc(e)).Flags.WasRemovedByTransitiveReduction = true
}

// TransitiveReduction implements spec.md §4.5's forward transitive
// reduction, steps 1-5.
func (c *Context) TransitiveReduction() {
	c.ClearSimplifierFlags()
	buckets := c.canonicalEdgesByCoverage(c.Config.HighCoverageThreshold)

	// Step 3: low-coverage edges are removed outright.
	for cov := 0; cov <= c.Config.LowCoverageThreshold && cov < len(buckets); cov++ {
		for _, e := range buckets[cov] {
			c.markRemoved(e)
		}
	}

	// Step 4: coverage-1 edges with an implausibly large marker skip.
	if 1 < len(buckets) {
		for _, e := range buckets[1] {
			if c.isRemoved(e) {
				continue
			}
			edge := c.edge(e)
			if len(edge.Intervals) != 1 {
				continue
			}
			skip := int(edge.Intervals[0].Ordinals[1]) - int(edge.Intervals[0].Ordinals[0])
			if skip > c.Config.EdgeMarkerSkipThreshold {
				c.markRemoved(e)
			}
		}
	}

	// Step 5: ascending coverage order is mandatory for determinism
	// (spec.md §4.5: "the weaker-before-stronger rule produces the
	// reduction's determinism").
	for cov := c.Config.LowCoverageThreshold + 1; cov < c.Config.HighCoverageThreshold && cov < len(buckets); cov++ {
		for _, e := range buckets[cov] {
			if c.isRemoved(e) {
				continue
			}
			edge := c.edge(e)
			u0, u1 := edge.Source, edge.Target
			if c.boundedBFSReaches(u0, u1, e, true, c.Config.MaxDistance) {
				c.markRemoved(e)
			}
		}
	}
}

// ReverseTransitiveReduction implements spec.md §4.5's reverse
// transitive reduction: identical machinery, BFS runs backward from
// the target looking for the source, and it only processes coverages
// strictly between LowCoverageThreshold and HighCoverageThreshold
// (the low-coverage removal and marker-skip steps do not apply here).
func (c *Context) ReverseTransitiveReduction() {
	buckets := c.canonicalEdgesByCoverage(c.Config.HighCoverageThreshold)
	for cov := c.Config.LowCoverageThreshold + 1; cov < c.Config.HighCoverageThreshold && cov < len(buckets); cov++ {
		for _, e := range buckets[cov] {
			if c.isRemoved(e) {
				continue
			}
			edge := c.edge(e)
			u0, u1 := edge.Source, edge.Target
			if c.boundedBFSReaches(u1, u0, e, false, c.Config.MaxDistance) {
				c.markRemoved(e)
			}
		}
	}
}

// boundedBFSReaches runs a breadth-first search of at most maxDistance
// hops from start, forbidding edge `forbidden` and any edge currently
// flagged removed, and reports whether target was reached. forward
// selects traversal direction: true follows EdgesBySource (normal
// forward edges), false follows EdgesByTarget (walking backward along
// forward edges, as spec.md §4.5 prescribes for the reverse pass).
func (c *Context) boundedBFSReaches(start, target ids.MarkerGraphVertexId, forbidden uint64, forward bool, maxDistance int) bool {
	if start == target {
		return true
	}
	visited := map[ids.MarkerGraphVertexId]bool{start: true}
	frontier := []ids.MarkerGraphVertexId{start}
	for depth := 0; depth < maxDistance && len(frontier) > 0; depth++ {
		var next []ids.MarkerGraphVertexId
		for _, v := range frontier {
			var adj []uint64
			if forward {
				adj = c.Graph.EdgesBySource[v]
			} else {
				adj = c.Graph.EdgesByTarget[v]
			}
			for _, e := range adj {
				if e == forbidden {
					continue
				}
				if c.isRemoved(e) {
					continue
				}
				var w ids.MarkerGraphVertexId
				if forward {
					w = c.edge(e).Target
				} else {
					w = c.edge(e).Source
				}
				if w == target {
					return true
				}
				if !visited[w] {
					visited[w] = true
					next = append(next, w)
				}
			}
		}
		frontier = next
	}
	return false
}

// sortedCoverages returns, in ascending order, the coverages whose
// buckets are non-empty.
func sortedCoverages(buckets [][]uint64) []int {
	var out []int
	for cov, b := range buckets {
		if len(b) > 0 {
			out = append(out, cov)
		}
	}
	sort.Ints(out)
	return out
}
