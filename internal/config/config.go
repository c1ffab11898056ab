// Package config gathers every option spec.md §6 lists under
// "Configuration options consumed" into one flat struct, the way the
// teacher's cmd/filter.go assembles an options struct from flags
// before threading it down into library calls. CLI flag parsing
// itself is out of scope (spec.md §1 Non-goals); this package only
// owns the struct and its defaults.
package config

// Config carries every tunable named in spec.md §6.
type Config struct {
	// Marker-graph builder (MGB)
	MinCoverage           int // 0 = auto-select via the peak finder
	MaxCoverage           int
	MinCoveragePerStrand  int
	AllowDuplicateMarkers bool

	// Peak finder (auto MinCoverage selection)
	PeakFinderMinAreaFraction float64
	PeakFinderAreaStartIndex  int

	// Concurrency
	ThreadCount int // 0 = runtime.GOMAXPROCS(0)

	// Graph simplifier (GS)
	LowCoverageThreshold    int
	HighCoverageThreshold   int
	MaxDistance             int
	EdgeMarkerSkipThreshold int
	PruneIterationCount     int
	SimplifyMaxLengths      []int

	// Diagnostics
	StoreCoverageData bool

	// Storage
	LargeDataPageSize       int
	LargeDataFileNamePrefix string
}

// Default returns the configuration the teacher's peer tools ship as
// their out-of-the-box defaults; every field can be overridden by the
// external CLI layer before the config is passed down.
func Default() Config {
	return Config{
		MinCoverage:               0,
		MaxCoverage:               100,
		MinCoveragePerStrand:      0,
		AllowDuplicateMarkers:     false,
		PeakFinderMinAreaFraction: 0.1,
		PeakFinderAreaStartIndex:  2,
		ThreadCount:               0,
		LowCoverageThreshold:      0,
		HighCoverageThreshold:     256,
		MaxDistance:               30,
		EdgeMarkerSkipThreshold:   100,
		PruneIterationCount:       6,
		SimplifyMaxLengths:        []int{1000, 100, 10},
		StoreCoverageData:         false,
		LargeDataPageSize:         2 << 20,
		LargeDataFileNamePrefix:   "",
	}
}

// FallbackMinCoverage is the recoverable-configuration-failure default
// from spec.md §7: when automatic MinCoverage selection finds no
// significant peak, fall back to 5 and log the observed area
// fraction, but keep going.
const FallbackMinCoverage = 5
