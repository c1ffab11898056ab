package mode3

import (
	"github.com/exascience/pargo/sync"

	"github.com/nanoreads/asmcore/internal/arena"
)

// BuildLinks implements spec.md §4.7's link creation: a link is
// emitted for every segment pair whose transition count reaches
// minCoverage, carrying the full list of supporting transitions, per
// mode3.cpp's createLinks. Iteration order over transitionMap's
// entries is not deterministic (pargo/sync.Map shards by hash), so
// the resulting Links are sorted by (Source, Target) before return to
// keep segment-pair ordering a pure function of the input.
type linkAccumulator struct {
	key         segmentPair
	transitions []Transition
}

func BuildLinks(transitionMap *sync.Map, minCoverage uint64) ([]Link, [][]Transition) {
	var raw []linkAccumulator
	transitionMap.Range(func(key, value interface{}) bool {
		items := value.(*transitionList).items()
		if uint64(len(items)) >= minCoverage {
			raw = append(raw, linkAccumulator{key: key.(segmentPair), transitions: items})
		}
		return true
	})

	sortRawLinks(raw)

	links := make([]Link, len(raw))
	transitions := make([][]Transition, len(raw))
	for i, r := range raw {
		links[i] = Link{Source: r.key.source, Target: r.key.target, Coverage: uint64(len(r.transitions))}
		transitions[i] = r.transitions
	}
	return links, transitions
}

func sortRawLinks(raw []linkAccumulator) {
	for i := 1; i < len(raw); i++ {
		for j := i; j > 0 && less(raw[j].key, raw[j-1].key); j-- {
			raw[j], raw[j-1] = raw[j-1], raw[j]
		}
	}
}

func less(a, b segmentPair) bool {
	if a.source != b.source {
		return a.source < b.source
	}
	return a.target < b.target
}

// BuildConnectivity computes LinksBySource/LinksByTarget from links
// by two-pass counting, mirroring mode3.cpp's createConnectivity.
func BuildConnectivity(links []Link, segmentCount int) (bySource, byTarget [][]int) {
	var va, vb arena.VarArray[int]
	va.BeginPass1(segmentCount)
	vb.BeginPass1(segmentCount)
	for _, l := range links {
		va.IncrementCount(int(l.Source))
		vb.IncrementCount(int(l.Target))
	}
	va.BeginPass2()
	vb.BeginPass2()
	for i, l := range links {
		va.Store(int(l.Source), i)
		vb.Store(int(l.Target), i)
	}
	va.EndPass2()
	vb.EndPass2()

	bySource = make([][]int, segmentCount)
	byTarget = make([][]int, segmentCount)
	for s := 0; s < segmentCount; s++ {
		bySource[s] = va.At(s)
		byTarget[s] = vb.At(s)
	}
	return bySource, byTarget
}
