package markergraph

import "fmt"

// PeakFinderError reports that automatic MinCoverage selection found
// no significant peak in the disjoint-set size histogram; it is a
// recoverable configuration failure (spec.md §7): the caller falls
// back to config.FallbackMinCoverage and logs ObservedAreaFraction.
type PeakFinderError struct {
	ObservedAreaFraction float64
	MinAreaFraction      float64
}

func (e *PeakFinderError) Error() string {
	return fmt.Sprintf("no significant peak in disjoint-set size distribution: "+
		"observed area fraction %.4f, required %.4f", e.ObservedAreaFraction, e.MinAreaFraction)
}

// findPeak returns the index of the first local maximum in histogram
// at index >= 2 (sets of size 0 or 1 are not candidate peaks), or -1
// if none exists. This is the first stage of the original's
// PeakFinder::findPeaks, supplemented into this spec from
// original_source/src/AssemblerMarkerGraph.cpp.
func findPeak(histogram []uint64) int {
	for i := 2; i+1 < len(histogram); i++ {
		if histogram[i] > histogram[i-1] && histogram[i] >= histogram[i+1] {
			return i
		}
	}
	return -1
}

// findXCutoff implements PeakFinder::findXCutoff: once findPeak has
// found a peak, walk forward from areaStartIndex (which may lie before
// the peak) accumulating histogram area until that area, divided by
// the histogram value at the peak, reaches minAreaFraction; the index
// at which that happens is the MinCoverage cutoff.
func findXCutoff(histogram []uint64, minAreaFraction float64, areaStartIndex int) (int, error) {
	peak := findPeak(histogram)
	if peak < 0 {
		return 0, &PeakFinderError{ObservedAreaFraction: 0, MinAreaFraction: minAreaFraction}
	}
	peakArea := float64(histogram[peak])
	if peakArea == 0 {
		return 0, &PeakFinderError{ObservedAreaFraction: 0, MinAreaFraction: minAreaFraction}
	}
	start := areaStartIndex
	if start < 0 {
		start = 0
	}
	var area float64
	for i := start; i < len(histogram); i++ {
		area += float64(histogram[i])
		fraction := area / peakArea
		if fraction >= minAreaFraction {
			return i, nil
		}
	}
	return 0, &PeakFinderError{ObservedAreaFraction: area / peakArea, MinAreaFraction: minAreaFraction}
}

// AutoSelectMinCoverage runs the peak finder over a disjoint-set size
// histogram (histogram[s] = number of disjoint sets of size s) and
// returns the selected MinCoverage, or an error the caller should
// treat as recoverable (fall back to config.FallbackMinCoverage).
func AutoSelectMinCoverage(histogram []uint64, minAreaFraction float64, areaStartIndex int) (int, error) {
	return findXCutoff(histogram, minAreaFraction, areaStartIndex)
}
