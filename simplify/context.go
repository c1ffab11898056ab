// Package simplify implements the graph simplifier (GS) of spec.md
// §4.5: transitive reduction, reverse transitive reduction, leaf
// pruning, and bubble/superbubble removal via a temporary assembly
// graph. It never adds vertices or edges to the marker graph; it only
// mutates the flags on markergraph.Graph.Edges.
package simplify

import (
	"github.com/nanoreads/asmcore/internal/config"
	"github.com/nanoreads/asmcore/markergraph"
)

// Context owns the simplifier's working state. Per design note 9
// ("Shared mutable global state... Replace with explicit context
// objects"), it holds no package-level globals.
type Context struct {
	Graph  *markergraph.Graph
	Config config.Config
}

// New wraps g with the simplification operations of spec.md §4.5.
func New(g *markergraph.Graph, cfg config.Config) *Context {
	return &Context{Graph: g, Config: cfg}
}

func (c *Context) edge(e uint64) *markergraph.Edge { return &c.Graph.Edges[e] }

func (c *Context) isRemoved(e uint64) bool {
	f := c.edge(e).Flags
	return f.WasRemovedByTransitiveReduction || f.WasPruned || f.IsSuperBubbleEdge
}

func (c *Context) rc(e uint64) uint64 {
	return uint64(c.Graph.ReverseComplementEdge[e])
}

func (c *Context) averageEdgeCoverage(e uint64) float64 {
	edge := c.edge(e)
	if len(edge.Intervals) == 0 {
		return 0
	}
	return float64(len(edge.Intervals))
}
