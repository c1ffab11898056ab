package simplify

// Prune implements spec.md §4.5's pruning step: iterate
// iterationCount times; an edge is a forward leaf iff its target has
// no non-removed, non-pruned out-edges, a backward leaf iff its
// source has no non-removed, non-pruned in-edges. Each iteration
// marks all current leaves, then commits all marks at the end of the
// iteration (so within one iteration, leaf detection sees a
// consistent snapshot).
func (c *Context) Prune(iterationCount int) {
	for iter := 0; iter < iterationCount; iter++ {
		var toPrune []uint64
		for i := range c.Graph.Edges {
			e := uint64(i)
			if c.isRemoved(e) {
				continue
			}
			if c.isForwardLeaf(e) || c.isBackwardLeaf(e) {
				toPrune = append(toPrune, e)
			}
		}
		if len(toPrune) == 0 {
			return
		}
		for _, e := range toPrune {
			c.edge(e).Flags.WasPruned = true
		}
	}
}

func (c *Context) isForwardLeaf(e uint64) bool {
	target := c.edge(e).Target
	for _, out := range c.Graph.EdgesBySource[target] {
		if !c.isRemoved(out) {
			return false
		}
	}
	return true
}

func (c *Context) isBackwardLeaf(e uint64) bool {
	source := c.edge(e).Source
	for _, in := range c.Graph.EdgesByTarget[source] {
		if !c.isRemoved(in) {
			return false
		}
	}
	return true
}
