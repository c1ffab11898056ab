// Package pipeline sequences the core's passes end to end: build the
// marker graph, enforce strand symmetry, build adjacency and edges,
// run the simplifier's iterations, build the Mode-3 assembly graph,
// and hand the result to the GFA writer and diagnostics CSV writers.
// It is the single place that owns the dependency order spec.md §2
// lists; everything else is a reusable package with no knowledge of
// the others' call order.
package pipeline

import (
	"fmt"
	"io"
	"runtime"

	"github.com/nanoreads/asmcore/diagnostics"
	"github.com/nanoreads/asmcore/gfa"
	"github.com/nanoreads/asmcore/internal/config"
	"github.com/nanoreads/asmcore/markergraph"
	"github.com/nanoreads/asmcore/markers"
	"github.com/nanoreads/asmcore/mode3"
	"github.com/nanoreads/asmcore/simplify"
)

// Result bundles every artifact downstream consumers or diagnostics
// writers need.
type Result struct {
	MarkerGraph     *markergraph.Graph
	MarkerGraphDiag *markergraph.BuildDiagnostics
	AssemblyGraph   *mode3.Graph
}

// Inputs is the marker graph builder's external collaborators; the
// per-kmer diagnostics writer reuses its Table field.
type Inputs struct {
	markergraph.BuildInputs
}

// Run executes MGB, SSE, edge/adjacency construction, GS and M3AG in
// the order spec.md §2 mandates.
func Run(in Inputs) (*Result, error) {
	cfg := in.Config
	threads := cfg.ThreadCount
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}

	g, diag, err := markergraph.Build(in.BuildInputs)
	if err != nil {
		return nil, fmt.Errorf("pipeline: marker graph build: %w", err)
	}

	if err := g.BuildVertexSymmetry(threads); err != nil {
		return nil, fmt.Errorf("pipeline: vertex symmetry: %w", err)
	}
	g.BuildEdges(threads)
	g.BuildAdjacency(threads)
	if err := g.BuildEdgeSymmetry(threads); err != nil {
		return nil, fmt.Errorf("pipeline: edge symmetry: %w", err)
	}
	if err := g.CheckInvolution(); err != nil {
		return nil, fmt.Errorf("pipeline: involution check: %w", err)
	}

	runSimplifier(g, cfg)

	orientedReadCount := in.BuildInputs.OrientedReads
	m3 := mode3.Build(g, orientedReadCount, threads, mode3.DefaultMinCoverage)

	return &Result{MarkerGraph: g, MarkerGraphDiag: diag, AssemblyGraph: m3}, nil
}

// runSimplifier implements spec.md §4.5's full sequence: transitive
// reduction, reverse transitive reduction, low-coverage cross-edge
// flagging, pruning, then bubble/superbubble removal over the
// descending list of maxLength values.
func runSimplifier(g *markergraph.Graph, cfg config.Config) {
	c := simplify.New(g, cfg)
	c.ClearSimplifierFlags()
	c.TransitiveReduction()
	c.ReverseTransitiveReduction()
	c.FlagLowCoverageCrossEdges()
	c.Prune(cfg.PruneIterationCount)

	for _, maxLength := range cfg.SimplifyMaxLengths {
		tg := c.BuildTempAssemblyGraph()
		c.RemoveBubbles(tg, maxLength)

		tg2 := c.BuildTempAssemblyGraph()
		c.RemoveSuperBubbles(tg2, maxLength)
	}
}

// WriteOutputs writes the GFA topology and the diagnostics CSVs
// spec.md §6 lists, in the order the original produces them.
func WriteOutputs(r *Result, table markers.MarkerTable, gfaOut io.Writer, disjointSetsHistogram, vertexHistogram, edgeHistogram, badVertices, vertexCoverageByKmer io.Writer) error {
	if err := gfa.Write(gfaOut, r.AssemblyGraph); err != nil {
		return fmt.Errorf("pipeline: gfa write: %w", err)
	}
	if err := diagnostics.WriteDisjointSetsHistogram(disjointSetsHistogram, r.MarkerGraphDiag.DisjointSetsHistogram); err != nil {
		return err
	}
	if err := diagnostics.WriteMarkerGraphVertexCoverageHistogram(vertexHistogram, r.MarkerGraph); err != nil {
		return err
	}
	if err := diagnostics.WriteMarkerGraphEdgeCoverageHistogram(edgeHistogram, r.MarkerGraph); err != nil {
		return err
	}
	if err := diagnostics.WriteBadMarkerGraphVertices(badVertices, r.MarkerGraphDiag.BadVertices); err != nil {
		return err
	}
	return diagnostics.WriteVertexCoverageByKmerId(vertexCoverageByKmer, r.MarkerGraph, table, 50)
}
