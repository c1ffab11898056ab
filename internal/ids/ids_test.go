package ids

import "testing"

func TestOrientedReadIdValueRoundTrip(t *testing.T) {
	for readId := ReadId(0); readId < 5; readId++ {
		for strand := Strand(0); strand < 2; strand++ {
			o := OrientedReadId{ReadId: readId, Strand: strand}
			v := o.Value()
			if got := FromValue(v); got != o {
				t.Errorf("FromValue(%d) = %+v, want %+v", v, got, o)
			}
		}
	}
}

func TestOrientedReadIdRc(t *testing.T) {
	o := OrientedReadId{ReadId: 7, Strand: 0}
	rc := o.Rc()
	if rc.ReadId != o.ReadId || rc.Strand != 1 {
		t.Errorf("Rc() = %+v, want ReadId=7 Strand=1", rc)
	}
	if rc.Rc() != o {
		t.Error("Rc() is not its own inverse")
	}
}

func TestPacked40RoundTrip(t *testing.T) {
	p := NewPacked40(MaxPacked40)
	if p.Value() != MaxPacked40 {
		t.Errorf("Value() = %d, want %d", p.Value(), MaxPacked40)
	}
}

func TestPacked40RejectsOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewPacked40 did not panic on an out-of-range value")
		}
	}()
	NewPacked40(MaxPacked40 + 1)
}

func TestSentinelsAreDistinctFromZero(t *testing.T) {
	if InvalidVertexId == 0 || InvalidEdgeId == 0 {
		t.Error("sentinel ids must not collide with the zero value")
	}
}
