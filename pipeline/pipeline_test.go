package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nanoreads/asmcore/internal/config"
	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/markergraph"
	"github.com/nanoreads/asmcore/markers"
)

// fixtureTable mirrors markergraph's own build_test.go fixture: two
// reads overlapping on markers B,C,D, each with its reverse
// complement strand, so the pipeline has a genuine chain to simplify
// and assemble rather than an empty graph.
type fixtureTable struct {
	flat []markers.Marker
	rc   [16]ids.MarkerId
}

func newFixtureTable() *fixtureTable {
	const (
		kmerA, kmerB, kmerC, kmerD, kmerE           = 1, 2, 3, 4, 5
		kmerRcA, kmerRcB, kmerRcC, kmerRcD, kmerRcE = 101, 102, 103, 104, 105
	)
	f := &fixtureTable{}
	mk := func(kmer markers.KmerId, pos uint32) markers.Marker {
		return markers.Marker{KmerId: kmer, Position: pos}
	}
	f.flat = []markers.Marker{
		mk(kmerA, 0), mk(kmerB, 10), mk(kmerC, 20), mk(kmerD, 30),
		mk(kmerRcD, 0), mk(kmerRcC, 10), mk(kmerRcB, 20), mk(kmerRcA, 30),
		mk(kmerB, 0), mk(kmerC, 10), mk(kmerD, 20), mk(kmerE, 30),
		mk(kmerRcE, 0), mk(kmerRcD, 10), mk(kmerRcC, 20), mk(kmerRcB, 30),
	}
	f.rc = [16]ids.MarkerId{7, 6, 5, 4, 3, 2, 1, 0, 15, 14, 13, 12, 11, 10, 9, 8}
	return f
}

func (f *fixtureTable) Span(o ids.OrientedReadId) []markers.Marker {
	base := o.Value() * 4
	return f.flat[base : base+4]
}

func (f *fixtureTable) GlobalId(o ids.OrientedReadId, ordinal int) ids.MarkerId {
	return ids.MarkerId(o.Value()*4 + uint64(ordinal))
}

func (f *fixtureTable) Locate(markerId ids.MarkerId) (ids.OrientedReadId, int) {
	return ids.FromValue(uint64(markerId) / 4), int(uint64(markerId) % 4)
}

func (f *fixtureTable) MarkerCount(ids.OrientedReadId) int { return 4 }

func (f *fixtureTable) ReverseComplement(markerId ids.MarkerId) ids.MarkerId {
	return f.rc[markerId]
}

type fixtureAlignments struct {
	byId [][]markers.OrdinalPair
}

func (a *fixtureAlignments) Decompress(alignmentId uint64) []markers.OrdinalPair {
	return a.byId[alignmentId]
}

func fixtureInputs() markergraph.BuildInputs {
	or := func(readId ids.ReadId, strand ids.Strand) ids.OrientedReadId {
		return ids.OrientedReadId{ReadId: readId, Strand: strand}
	}
	readGraph := []markers.ReadGraphEdge{
		{OrientedReadIds: [2]ids.OrientedReadId{or(0, 0), or(1, 0)}, AlignmentId: 0},
		{OrientedReadIds: [2]ids.OrientedReadId{or(0, 1), or(1, 1)}, AlignmentId: 1},
	}
	alignments := &fixtureAlignments{byId: [][]markers.OrdinalPair{
		{{Ordinal0: 1, Ordinal1: 0}, {Ordinal0: 2, Ordinal1: 1}, {Ordinal0: 3, Ordinal1: 2}},
		{{Ordinal0: 2, Ordinal1: 3}, {Ordinal0: 1, Ordinal1: 2}, {Ordinal0: 0, Ordinal1: 1}},
	}}
	cfg := config.Default()
	cfg.MinCoverage = 2
	cfg.ThreadCount = 1
	cfg.PruneIterationCount = 0 // every edge of these two-edge chains is a leaf; one iteration would prune them all
	cfg.SimplifyMaxLengths = []int{10}
	return markergraph.BuildInputs{
		Table:         newFixtureTable(),
		Alignments:    alignments,
		ReadGraph:     readGraph,
		ReadFlags:     nil,
		OrientedReads: 4,
		Config:        cfg,
	}
}

func TestRunBuildsASymmetricGraphAndAnAssemblyGraph(t *testing.T) {
	res, err := Run(Inputs{BuildInputs: fixtureInputs()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.MarkerGraph.VertexCount() != 6 {
		t.Errorf("VertexCount() = %d, want 6", res.MarkerGraph.VertexCount())
	}
	if res.MarkerGraph.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, want 4", res.MarkerGraph.EdgeCount())
	}
	if err := res.MarkerGraph.CheckInvolution(); err != nil {
		t.Errorf("post-simplification graph failed CheckInvolution: %v", err)
	}
	if len(res.AssemblyGraph.Segments) == 0 {
		t.Error("Run produced an assembly graph with no segments")
	}
}

func TestWriteOutputsProducesAllFiveArtifacts(t *testing.T) {
	res, err := Run(Inputs{BuildInputs: fixtureInputs()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var gfaOut, disjointSets, vertexHist, edgeHist, badVertices, kmerCoverage bytes.Buffer
	err = WriteOutputs(res, newFixtureTable(), &gfaOut, &disjointSets, &vertexHist, &edgeHist, &badVertices, &kmerCoverage)
	if err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	if !strings.HasPrefix(gfaOut.String(), "H\tVN:Z:1.0\n") {
		t.Errorf("gfa output missing header: %q", gfaOut.String())
	}
	for name, buf := range map[string]*bytes.Buffer{
		"disjointSets": &disjointSets,
		"vertexHist":   &vertexHist,
		"edgeHist":     &edgeHist,
	} {
		if !strings.HasPrefix(buf.String(), "Coverage,Frequency\n") {
			t.Errorf("%s missing csv header: %q", name, buf.String())
		}
	}
	if !strings.HasPrefix(badVertices.String(), "DisjointSetId,Size,DuplicateReadId,LowStrandCoverage\n") {
		t.Errorf("badVertices missing csv header: %q", badVertices.String())
	}
	if !strings.HasPrefix(kmerCoverage.String(), "Kmer,Total,") {
		t.Errorf("kmerCoverage missing csv header: %q", kmerCoverage.String())
	}
}
