package markergraph

import (
	"github.com/willf/bitset"

	"github.com/nanoreads/asmcore/internal/ids"
)

// BitsetReadFlags is the markers.ReadFlags implementation backed by
// willf/bitset, the way the teacher's internals favor compact
// presence bitsets over []bool for large per-read tables.
type BitsetReadFlags struct {
	chimeric *bitset.BitSet
}

// NewBitsetReadFlags creates a flag set over numReads reads, none
// chimeric.
func NewBitsetReadFlags(numReads int) *BitsetReadFlags {
	return &BitsetReadFlags{chimeric: bitset.New(uint(numReads))}
}

// SetChimeric marks readId as chimeric.
func (f *BitsetReadFlags) SetChimeric(readId ids.ReadId) {
	f.chimeric.Set(uint(readId))
}

// IsChimeric implements markers.ReadFlags.
func (f *BitsetReadFlags) IsChimeric(readId ids.ReadId) bool {
	return f.chimeric.Test(uint(readId))
}
