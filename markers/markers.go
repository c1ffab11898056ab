// Package markers defines the fixed-length k-mer "marker" occurrences
// that the marker graph is built from, plus the read-graph edges and
// compressed-alignment interfaces the builder consumes. Read I/O,
// k-mer tables and alignment computation themselves stay out of scope
// (spec.md §1); this package only specifies the narrow surface the
// marker-graph builder needs from them.
package markers

import "github.com/nanoreads/asmcore/internal/ids"

// KmerId identifies a k-mer by its rank in the marker-selection
// stage's k-mer table; the table itself is an external collaborator.
type KmerId uint64

// Marker is immutable: a k-mer occurrence at a fixed position in an
// oriented read's sequence.
type Marker struct {
	KmerId   KmerId
	Position uint32
}

// MarkerTable is the read-only external input: a concatenated array
// of markers, indexed by oriented read via Span.
type MarkerTable interface {
	// Span returns the ordered markers belonging to orientedReadId.
	Span(orientedReadId ids.OrientedReadId) []Marker
	// GlobalId returns the MarkerId of the ordinal-th marker of
	// orientedReadId, i.e. the index into the flattened array.
	GlobalId(orientedReadId ids.OrientedReadId, ordinal int) ids.MarkerId
	// Locate is GlobalId's inverse: given a MarkerId it returns the
	// oriented read and ordinal it belongs to.
	Locate(markerId ids.MarkerId) (orientedReadId ids.OrientedReadId, ordinal int)
	// MarkerCount returns the number of markers on orientedReadId.
	MarkerCount(orientedReadId ids.OrientedReadId) int
	// ReverseComplement returns the MarkerId of the marker that is the
	// reverse complement of markerId: the same occurrence read from
	// the opposite strand.
	ReverseComplement(markerId ids.MarkerId) ids.MarkerId
}

// ReadFlags exposes the per-read flags the union pass needs to skip
// reads that must not contribute to the marker graph (spec.md §4.3
// step 1 names chimeric reads; the original source's
// Reads::getFlags(readId).isChimeric is the model).
// markergraph.BitsetReadFlags implements it on top of willf/bitset.
type ReadFlags interface {
	IsChimeric(readId ids.ReadId) bool
}

// ReadGraphEdge is one edge of the external read graph, always
// appearing in a reverse-complemented pair at positions 2i, 2i+1
// (spec.md §6).
type ReadGraphEdge struct {
	OrientedReadIds          [2]ids.OrientedReadId
	AlignmentId              uint64
	CrossesStrands           bool
	HasInconsistentAlignment bool
}

// OrdinalPair is one aligned marker pair from a decompressed
// alignment: ordinal0 on OrientedReadIds[0], ordinal1 on
// OrientedReadIds[1].
type OrdinalPair struct {
	Ordinal0, Ordinal1 uint32
}

// AlignmentSource decompresses the opaque, alignmentId-indexed byte
// spans of spec.md §6 into ordinal pairs.
type AlignmentSource interface {
	Decompress(alignmentId uint64) []OrdinalPair
}
