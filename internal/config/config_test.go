package config

import "testing"

func TestDefaultSimplifyMaxLengthsIsDescending(t *testing.T) {
	cfg := Default()
	lengths := cfg.SimplifyMaxLengths
	if len(lengths) < 2 {
		t.Fatalf("SimplifyMaxLengths has %d entries, want at least 2 to exercise ordering", len(lengths))
	}
	for i := 1; i < len(lengths); i++ {
		if lengths[i] >= lengths[i-1] {
			t.Errorf("SimplifyMaxLengths is not strictly descending at index %d: %v", i, lengths)
		}
	}
}

func TestDefaultIsStableAcrossCalls(t *testing.T) {
	a := Default()
	b := Default()
	a.SimplifyMaxLengths[0] = -1
	if b.SimplifyMaxLengths[0] == -1 {
		t.Error("Default() callers share the same backing slice; mutating one mutated the other")
	}
}
