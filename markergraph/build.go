package markergraph

import (
	"fmt"
	"log"
	"runtime"
	"sort"

	"github.com/nanoreads/asmcore/disjointset"
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/internal/loadbalancer"
	"github.com/nanoreads/asmcore/markers"
)

// HistogramEntry is one "Header,Value"-style row (spec.md §6).
type HistogramEntry struct {
	Coverage  uint64
	Frequency uint64
}

// BadVertexRecord documents why a disjoint set was rejected in step 6.
type BadVertexRecord struct {
	DisjointSetId     ids.MarkerGraphVertexId
	Size              int
	DuplicateReadId   bool
	LowStrandCoverage bool
}

// BuildDiagnostics carries the information spec.md §6 requires to be
// dumped to CSV (DisjointSetsHistogram, MarkerGraphVertexCoverageHistogram,
// BadMarkerGraphVertices) and the MinCoverage value actually used.
type BuildDiagnostics struct {
	DisjointSetsHistogram     []HistogramEntry
	VertexCoverageHistogram   []HistogramEntry
	BadVertices               []BadVertexRecord
	MinCoverageUsed           int
	AutoSelectionFellBack     bool
	AutoSelectionObservedArea float64
}

func threadCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Build runs MGB steps 1-7 of spec.md §4.3 end to end.
func Build(in BuildInputs) (*Graph, *BuildDiagnostics, error) {
	orientedMarkerCount := totalMarkers(in)
	threads := threadCount(in.Config.ThreadCount)

	ds := disjointset.New(orientedMarkerCount)
	if err := unionPass(ds, in, threads); err != nil {
		return nil, nil, err
	}
	convergeAndCompact(ds, orientedMarkerCount, threads)

	sizeOf := computeSetSizes(ds, orientedMarkerCount, threads)
	diag := &BuildDiagnostics{}
	diag.DisjointSetsHistogram = histogramOf(sizeOf)

	minCoverage := in.Config.MinCoverage
	if minCoverage == 0 {
		cutoff, err := AutoSelectMinCoverage(
			histogramCounts(diag.DisjointSetsHistogram),
			in.Config.PeakFinderMinAreaFraction,
			in.Config.PeakFinderAreaStartIndex,
		)
		if err != nil {
			pfErr, _ := err.(*PeakFinderError)
			diag.AutoSelectionFellBack = true
			if pfErr != nil {
				diag.AutoSelectionObservedArea = pfErr.ObservedAreaFraction
			}
			log.Printf("markergraph: unable to automatically select MinCoverage (%v); "+
				"falling back to %d", err, fallbackMinCoverage)
			minCoverage = fallbackMinCoverage
		} else {
			minCoverage = cutoff
			log.Printf("markergraph: automatically selected MinCoverage = %d", minCoverage)
		}
	}
	diag.MinCoverageUsed = minCoverage

	newId, disjointSetCount := firstRenumbering(ds, sizeOf, minCoverage, in.Config.MaxCoverage)

	disjointSetMarkers := gatherMarkers(ds, newId, disjointSetCount, orientedMarkerCount, threads)

	badVertices, badRecords := flagBadSets(disjointSetMarkers, in, threads)
	diag.BadVertices = badRecords

	g := secondRenumbering(in.Table, disjointSetMarkers, badVertices)
	diag.VertexCoverageHistogram = histogramOf(vertexSizes(g))

	return g, diag, nil
}

const fallbackMinCoverage = 5

func totalMarkers(in BuildInputs) int {
	total := 0
	for r := 0; r < in.OrientedReads; r++ {
		total += in.Table.MarkerCount(ids.FromValue(uint64(r)))
	}
	return total
}

// unionPass is MGB step 1 of spec.md §4.3.
func unionPass(ds *disjointset.Set, in BuildInputs, threads int) error {
	edges := in.ReadGraph
	if len(edges)%2 != 0 {
		return fmt.Errorf("markergraph: read graph has odd length %d, edges must come in reverse-complement pairs", len(edges))
	}
	for i := 0; i+1 < len(edges); i += 2 {
		e0, e1 := edges[i], edges[i+1]
		rc0, rc1 := e0.OrientedReadIds[0].Rc(), e0.OrientedReadIds[1].Rc()
		if e1.OrientedReadIds[0] != rc0 || e1.OrientedReadIds[1] != rc1 {
			return fmt.Errorf("markergraph: read graph edge pair at %d,%d is not reverse-complementary", i, i+1)
		}
	}

	batch := uint64(2 * threads)
	if batch == 0 {
		batch = 2
	}
	loadbalancer.RunEvenAligned(uint64(len(edges)), batch, threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			e := edges[i]
			if e.CrossesStrands || e.HasInconsistentAlignment {
				continue
			}
			if in.ReadFlags != nil &&
				(in.ReadFlags.IsChimeric(e.OrientedReadIds[0].ReadId) || in.ReadFlags.IsChimeric(e.OrientedReadIds[1].ReadId)) {
				continue
			}
			for _, op := range in.Alignments.Decompress(e.AlignmentId) {
				m0 := in.Table.GlobalId(e.OrientedReadIds[0], int(op.Ordinal0))
				m1 := in.Table.GlobalId(e.OrientedReadIds[1], int(op.Ordinal1))
				rc0 := in.Table.ReverseComplement(m0)
				rc1 := in.Table.ReverseComplement(m1)
				ds.Unite(uint64(m0), uint64(m1))
				ds.Unite(uint64(rc0), uint64(rc1))
			}
		}
	})
	return nil
}

// convergeAndCompact is MGB step 2 (spec.md §4.1).
func convergeAndCompact(ds *disjointset.Set, n, threads int) {
	ds.Converge(func(pass int) {
		loadbalancer.Run(uint64(n), batchSizeFor(n, threads), threads, func(begin, end uint64, _ int) {
			for i := begin; i < end; i++ {
				ds.Find(i, true)
			}
		})
	})
	ds.Compact()
}

func batchSizeFor(n, threads int) uint64 {
	if threads <= 0 {
		threads = 1
	}
	b := uint64(n) / uint64(4*threads)
	if b == 0 {
		b = 1
	}
	return b
}

// computeSetSizes is MGB step 3's prerequisite: per-set cardinality,
// via atomic increment on a shared counter array (spec.md §5).
func computeSetSizes(ds *disjointset.Set, n, threads int) []int64 {
	sizes := make([]int64, n)
	loadbalancer.Run(uint64(n), batchSizeFor(n, threads), threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			root := ds.Parent(i) // already converged and compacted
			incrAtomic(sizes, int64(root))
		}
	})
	return sizes
}

func histogramOf(sizes []int64) []HistogramEntry {
	var max int64
	for _, s := range sizes {
		if s > max {
			max = s
		}
	}
	counts := make([]uint64, max+1)
	for _, s := range sizes {
		if s > 0 {
			counts[s]++
		}
	}
	var h []HistogramEntry
	for c, f := range counts {
		if f > 0 {
			h = append(h, HistogramEntry{Coverage: uint64(c), Frequency: f})
		}
	}
	return h
}

func histogramCounts(h []HistogramEntry) []uint64 {
	var max uint64
	for _, e := range h {
		if e.Coverage > max {
			max = e.Coverage
		}
	}
	counts := make([]uint64, max+1)
	for _, e := range h {
		counts[e.Coverage] = e.Frequency
	}
	return counts
}

// firstRenumbering is MGB step 4. Per the original, this pass is
// inherently sequential (a running counter over old ids).
func firstRenumbering(ds *disjointset.Set, sizeOf []int64, minCoverage, maxCoverage int) (newId []ids.MarkerGraphVertexId, count int) {
	n := len(sizeOf)
	newId = make([]ids.MarkerGraphVertexId, n)
	var next ids.MarkerGraphVertexId
	for old := 0; old < n; old++ {
		size := sizeOf[old]
		if size < int64(minCoverage) || size > int64(maxCoverage) {
			newId[old] = ids.InvalidVertexId
			continue
		}
		newId[old] = next
		next++
	}
	return newId, int(next)
}

// gatherMarkers is MGB step 5: a two-pass count-then-store into a
// per-vertex marker list, each vertex sorted by MarkerId afterwards.
func gatherMarkers(ds *disjointset.Set, newId []ids.MarkerGraphVertexId, disjointSetCount, n, threads int) [][]ids.MarkerId {
	counts := make([]int64, disjointSetCount)
	rootOf := make([]ids.MarkerGraphVertexId, n)
	loadbalancer.Run(uint64(n), batchSizeFor(n, threads), threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			old := ds.Parent(i)
			nid := newId[old]
			rootOf[i] = nid
			if nid != ids.InvalidVertexId {
				incrAtomic(counts, int64(nid))
			}
		}
	})

	offsets := make([]int64, disjointSetCount+1)
	var total int64
	for i, c := range counts {
		offsets[i] = total
		total += c
	}
	offsets[disjointSetCount] = total
	cursors := make([]int64, disjointSetCount)
	copy(cursors, counts)
	flat := make([]ids.MarkerId, total)

	loadbalancer.Run(uint64(n), batchSizeFor(n, threads), threads, func(begin, end uint64, _ int) {
		for i := begin; i < end; i++ {
			nid := rootOf[i]
			if nid == ids.InvalidVertexId {
				continue
			}
			slot := decrAtomic(cursors, int64(nid))
			flat[offsets[nid]+slot] = ids.MarkerId(i)
		}
	})

	result := make([][]ids.MarkerId, disjointSetCount)
	for v := 0; v < disjointSetCount; v++ {
		result[v] = flat[offsets[v]:offsets[v+1]]
		sort.Slice(result[v], func(a, b int) bool { return result[v][a] < result[v][b] })
	}
	return result
}

// flagBadSets is MGB step 6: a set is bad iff (unless
// AllowDuplicateMarkers) two of its markers share a ReadId, or either
// strand contributes fewer than MinCoveragePerStrand markers.
func flagBadSets(disjointSetMarkers [][]ids.MarkerId, in BuildInputs, threads int) ([]bool, []BadVertexRecord) {
	n := len(disjointSetMarkers)
	bad := make([]bool, n)
	var records []BadVertexRecord
	for v := 0; v < n; v++ {
		markersOfV := disjointSetMarkers[v]
		seenRead := make(map[ids.ReadId]bool, len(markersOfV))
		duplicate := false
		var strandCount [2]int
		for _, m := range markersOfV {
			orid, _ := in.Table.Locate(m)
			if !in.Config.AllowDuplicateMarkers {
				if seenRead[orid.ReadId] {
					duplicate = true
				}
				seenRead[orid.ReadId] = true
			}
			strandCount[orid.Strand]++
		}
		lowStrand := strandCount[0] < in.Config.MinCoveragePerStrand || strandCount[1] < in.Config.MinCoveragePerStrand
		if duplicate || lowStrand {
			bad[v] = true
			records = append(records, BadVertexRecord{
				DisjointSetId:     ids.MarkerGraphVertexId(v),
				Size:              len(markersOfV),
				DuplicateReadId:   duplicate,
				LowStrandCoverage: lowStrand,
			})
		}
	}
	return bad, records
}

// secondRenumbering is MGB step 7: drop bad sets, produce the final
// VertexTable and per-vertex marker lists.
func secondRenumbering(table markers.MarkerTable, disjointSetMarkers [][]ids.MarkerId, bad []bool) *Graph {
	g := &Graph{Table: table}
	for old, isBad := range bad {
		if isBad {
			continue
		}
		g.VertexMarkers = append(g.VertexMarkers, disjointSetMarkers[old])
	}

	var maxMarkerId ids.MarkerId
	for _, ms := range g.VertexMarkers {
		for _, m := range ms {
			if m > maxMarkerId {
				maxMarkerId = m
			}
		}
	}
	g.VertexTable = make([]ids.MarkerGraphVertexId, maxMarkerId+1)
	for i := range g.VertexTable {
		g.VertexTable[i] = ids.InvalidVertexId
	}
	for v, ms := range g.VertexMarkers {
		for _, m := range ms {
			g.VertexTable[m] = ids.MarkerGraphVertexId(v)
		}
	}
	return g
}

func vertexSizes(g *Graph) []int64 {
	sizes := make([]int64, len(g.VertexMarkers))
	for v, ms := range g.VertexMarkers {
		sizes[v] = int64(len(ms))
	}
	return sizes
}
