package arena

import (
	"sort"
	"strings"
	"sync"
	"testing"
)

func TestArrayAnonymousPushBackAndResize(t *testing.T) {
	a := CreateNew[int]("", "scratch", 0)
	for i := 0; i < 5; i++ {
		a.PushBack(i * i)
	}
	if a.Size() != 5 {
		t.Fatalf("Size() = %d, want 5", a.Size())
	}
	for i := 0; i < 5; i++ {
		if a.At(i) != i*i {
			t.Errorf("At(%d) = %d, want %d", i, a.At(i), i*i)
		}
	}
	if err := a.Resize(3); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if a.Size() != 3 {
		t.Fatalf("Size() after shrink = %d, want 3", a.Size())
	}
	if err := a.Resize(6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if a.Size() != 6 {
		t.Fatalf("Size() after grow = %d, want 6", a.Size())
	}
	if a.At(5) != 0 {
		t.Errorf("newly grown element should be zero-valued, got %d", a.At(5))
	}
}

func TestArrayReserveAndResizeThenUnreserve(t *testing.T) {
	a := CreateNew[int]("", "scratch", 0)
	if err := a.ReserveAndResize(100); err != nil {
		t.Fatalf("ReserveAndResize: %v", err)
	}
	if a.Size() != 100 {
		t.Fatalf("Size() = %d, want 100", a.Size())
	}
	a.Unreserve()
	if a.Size() != 100 {
		t.Fatalf("Unreserve changed logical size to %d, want 100", a.Size())
	}
}

func TestTmpNameHasPrefix(t *testing.T) {
	name := TmpName("pseudo-paths")
	if !strings.HasPrefix(name, "tmp-pseudo-paths-") {
		t.Errorf("TmpName() = %q, want tmp- prefix naming the array", name)
	}
}

func TestVarArrayTwoPassProtocol(t *testing.T) {
	var v VarArray[string]
	groups := [][]string{
		{"a", "b", "c"},
		{},
		{"d"},
	}
	v.BeginPass1(len(groups))
	for k, g := range groups {
		for range g {
			v.IncrementCount(k)
		}
	}
	v.BeginPass2()
	for k, g := range groups {
		for _, s := range g {
			v.Store(k, s)
		}
	}
	v.EndPass2()

	for k, g := range groups {
		got := append([]string(nil), v.At(k)...)
		sort.Strings(got)
		want := append([]string(nil), g...)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("key %d: At() has %d elements, want %d", k, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("key %d: got %v, want %v", k, got, want)
			}
		}
	}
}

func TestVarArrayMultithreadedStoreNoDataRace(t *testing.T) {
	const keys, perKey = 8, 200
	var v VarArray[int]
	v.BeginPass1(keys)
	var wg sync.WaitGroup
	for k := 0; k < keys; k++ {
		for i := 0; i < perKey; i++ {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				v.IncrementCountMultithreaded(k)
			}(k)
		}
	}
	wg.Wait()
	v.BeginPass2()
	wg = sync.WaitGroup{}
	for k := 0; k < keys; k++ {
		for i := 0; i < perKey; i++ {
			wg.Add(1)
			go func(k, i int) {
				defer wg.Done()
				v.StoreMultithreaded(k, i)
			}(k, i)
		}
	}
	wg.Wait()
	for k := 0; k < keys; k++ {
		if v.KeySize(k) != perKey {
			t.Fatalf("key %d: KeySize() = %d, want %d", k, v.KeySize(k), perKey)
		}
		seen := make(map[int]bool)
		for _, x := range v.At(k) {
			seen[x] = true
		}
		if len(seen) != perKey {
			t.Fatalf("key %d: stored %d distinct values, want %d (lost writes)", k, len(seen), perKey)
		}
	}
}
