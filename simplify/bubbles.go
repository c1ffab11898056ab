package simplify

// RemoveBubbles implements spec.md §4.5 Part 1: for every source
// vertex whose out-edges (in the temporary assembly graph) are all of
// length <= maxLength, group them by target; within each group, keep
// only the single edge with the highest AverageEdgeCoverage and flag
// the marker-graph edges of the rest (and their reverse complements)
// with IsSuperBubbleEdge.
func (c *Context) RemoveBubbles(tg *TempGraph, maxLength int) {
	bySource := make(map[int][]int) // source vertex -> indices into tg.Edges
	for i, e := range tg.Edges {
		bySource[int(e.Source)] = append(bySource[int(e.Source)], i)
	}

	processed := make(map[int]bool)
	for _, outIdx := range bySource {
		allShort := true
		for _, i := range outIdx {
			if len(tg.Edges[i].Chain) > maxLength {
				allShort = false
				break
			}
		}
		if !allShort {
			continue
		}
		byTarget := make(map[int][]int)
		for _, i := range outIdx {
			byTarget[int(tg.Edges[i].Target)] = append(byTarget[int(tg.Edges[i].Target)], i)
		}
		for _, group := range byTarget {
			if len(group) < 2 {
				continue
			}
			if allProcessedOrRc(tg, group, processed) {
				continue
			}
			best := group[0]
			for _, i := range group[1:] {
				if tg.Edges[i].AverageEdgeCoverage > tg.Edges[best].AverageEdgeCoverage {
					best = i
				}
			}
			for _, i := range group {
				processed[i] = true
				if rc := tg.Edges[i].ReverseComplementEdge; rc >= 0 {
					processed[rc] = true
				}
				if i == best {
					continue
				}
				c.flagSuperBubbleChain(tg.Edges[i].Chain)
			}
		}
	}
}

// allProcessedOrRc skips a group once it (or its reverse-complement
// pair) has already been decided, matching spec.md §4.5's
// "skipping reverse-complement pairs until processed" rule.
func allProcessedOrRc(tg *TempGraph, group []int, processed map[int]bool) bool {
	for _, i := range group {
		if processed[i] {
			return true
		}
	}
	return false
}

// flagSuperBubbleChain flags every marker-graph edge in chain, and its
// reverse complement, with IsSuperBubbleEdge.
func (c *Context) flagSuperBubbleChain(chain []uint64) {
	for _, e := range chain {
		c.edge(e).Flags.IsSuperBubbleEdge = true
		c.edge(c.rc(e)).Flags.IsSuperBubbleEdge = true
	}
}
