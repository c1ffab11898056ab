// Package diagnostics writes the comma-delimited CSV files spec.md §6
// lists as the marker-graph builder's side outputs, in the order the
// original produces them: disjoint-set size histogram right after
// compaction, vertex/edge coverage histograms and bad-vertex details
// after the final renumbering, per-kmer coverage alongside those.
// Grounded on AssemblerMarkerGraph.cpp's writeBadMarkerGraphVertices,
// its inline DisjointSetsHistogram.csv/MarkerGraphVertexCoverageHistogram.csv/
// MarkerGraphEdgeCoverageHistogram.csv writers, and
// createMarkerGraphVerticesCoverageByKmerId's VertexCoverageByKmerId.csv.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/markergraph"
	"github.com/nanoreads/asmcore/markers"
)

// WriteDisjointSetsHistogram writes the "Coverage,Frequency" csv of
// disjoint-set sizes observed right after union-find compaction,
// before bad-vertex removal.
func WriteDisjointSetsHistogram(w io.Writer, histogram []markergraph.HistogramEntry) error {
	return writeCoverageFrequency(w, histogram)
}

// WriteMarkerGraphVertexCoverageHistogram writes the final vertex
// coverage distribution, after bad vertices have been removed.
func WriteMarkerGraphVertexCoverageHistogram(w io.Writer, g *markergraph.Graph) error {
	var histogram []markergraph.HistogramEntry
	counts := make(map[int]uint64)
	maxCoverage := 0
	for v := range g.VertexMarkers {
		c := g.Coverage(ids.MarkerGraphVertexId(v))
		counts[c]++
		if c > maxCoverage {
			maxCoverage = c
		}
	}
	for c := 0; c <= maxCoverage; c++ {
		if f, ok := counts[c]; ok {
			histogram = append(histogram, markergraph.HistogramEntry{Coverage: uint64(c), Frequency: f})
		}
	}
	return writeCoverageFrequency(w, histogram)
}

// WriteMarkerGraphEdgeCoverageHistogram writes the coverage
// distribution of edges flagged neither WasRemovedByTransitiveReduction
// nor WasPruned; edges carrying only other simplifier flags are counted.
func WriteMarkerGraphEdgeCoverageHistogram(w io.Writer, g *markergraph.Graph) error {
	var histogram []markergraph.HistogramEntry
	counts := make(map[int]uint64)
	maxCoverage := 0
	for i := range g.Edges {
		e := g.Edges[i]
		if e.Flags.WasRemovedByTransitiveReduction || e.Flags.WasPruned {
			continue
		}
		c := int(e.Coverage)
		counts[c]++
		if c > maxCoverage {
			maxCoverage = c
		}
	}
	for c := 0; c <= maxCoverage; c++ {
		if f, ok := counts[c]; ok {
			histogram = append(histogram, markergraph.HistogramEntry{Coverage: uint64(c), Frequency: f})
		}
	}
	return writeCoverageFrequency(w, histogram)
}

func writeCoverageFrequency(w io.Writer, histogram []markergraph.HistogramEntry) error {
	if _, err := io.WriteString(w, "Coverage,Frequency\n"); err != nil {
		return err
	}
	for _, h := range histogram {
		if h.Frequency == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d,%d\n", h.Coverage, h.Frequency); err != nil {
			return err
		}
	}
	return nil
}

// WriteBadMarkerGraphVertices writes one row per flagged bad vertex,
// naming its disjoint-set id, size and the reason it was flagged.
func WriteBadMarkerGraphVertices(w io.Writer, bad []markergraph.BadVertexRecord) error {
	if _, err := io.WriteString(w, "DisjointSetId,Size,DuplicateReadId,LowStrandCoverage\n"); err != nil {
		return err
	}
	for _, b := range bad {
		if _, err := fmt.Fprintf(w, "%d,%d,%t,%t\n", b.DisjointSetId, b.Size, b.DuplicateReadId, b.LowStrandCoverage); err != nil {
			return err
		}
	}
	return nil
}

// WriteVertexCoverageByKmerId writes, for every distinct k-mer id
// observed as a vertex's first member, the number of vertices keyed
// by that k-mer (the Total column) and a histogram of how many of
// those vertices reached each coverage value from 1 to
// maxCoverageColumn. This mirrors the original's
// per-kmer coverage table but keys rows by the k-mer of each vertex's
// first marker rather than a standalone k-mer table, since this
// module treats the k-mer table itself as an external collaborator
// (spec.md §1's Non-goals).
func WriteVertexCoverageByKmerId(w io.Writer, g *markergraph.Graph, table markers.MarkerTable, maxCoverageColumn int) error {
	type kmerRow struct {
		total  uint64
		counts []uint64
	}
	rows := make(map[markers.KmerId]*kmerRow)

	for v, members := range g.VertexMarkers {
		if len(members) == 0 {
			continue
		}
		orientedReadId, ordinal := table.Locate(members[0])
		kmerId := table.Span(orientedReadId)[ordinal].KmerId
		coverage := g.Coverage(ids.MarkerGraphVertexId(v))

		row := rows[kmerId]
		if row == nil {
			row = &kmerRow{counts: make([]uint64, maxCoverageColumn)}
			rows[kmerId] = row
		}
		row.total++
		if coverage >= 1 && coverage <= maxCoverageColumn {
			row.counts[coverage-1]++
		}
	}

	if _, err := io.WriteString(w, "Kmer,Total,"); err != nil {
		return err
	}
	for c := 1; c <= maxCoverageColumn; c++ {
		if _, err := fmt.Fprintf(w, "%d,", c); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}

	kmerIds := make([]markers.KmerId, 0, len(rows))
	for k := range rows {
		kmerIds = append(kmerIds, k)
	}
	sortKmerIds(kmerIds)

	for _, k := range kmerIds {
		row := rows[k]
		if _, err := fmt.Fprintf(w, "%d,%d,", k, row.total); err != nil {
			return err
		}
		for _, c := range row.counts {
			if _, err := fmt.Fprintf(w, "%d,", c); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func sortKmerIds(ids []markers.KmerId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
