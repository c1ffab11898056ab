// Command asmcore parses the tunables spec.md §6 lists and reports
// the resulting configuration. Wiring a concrete read-graph,
// alignment source and k-mer table is the embedding program's job
// (spec.md §1 treats read I/O, alignment computation and k-mer tables
// as external collaborators); call pipeline.Run directly once those
// are in hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nanoreads/asmcore/internal/config"
)

func main() {
	cfg := config.Default()

	flag.IntVar(&cfg.MinCoverage, "min-coverage", cfg.MinCoverage, "minimum vertex coverage, 0 selects automatically")
	flag.IntVar(&cfg.MaxCoverage, "max-coverage", cfg.MaxCoverage, "maximum vertex coverage")
	flag.IntVar(&cfg.MinCoveragePerStrand, "min-coverage-per-strand", cfg.MinCoveragePerStrand, "minimum per-strand vertex coverage")
	flag.BoolVar(&cfg.AllowDuplicateMarkers, "allow-duplicate-markers", cfg.AllowDuplicateMarkers, "keep vertices with more than one marker from the same oriented read")
	flag.Float64Var(&cfg.PeakFinderMinAreaFraction, "peak-finder-min-area-fraction", cfg.PeakFinderMinAreaFraction, "minimum area fraction the peak finder accepts before falling back")
	flag.IntVar(&cfg.PeakFinderAreaStartIndex, "peak-finder-area-start-index", cfg.PeakFinderAreaStartIndex, "coverage value the peak finder starts its area sum at")
	flag.IntVar(&cfg.ThreadCount, "threads", cfg.ThreadCount, "worker thread count, 0 selects runtime.GOMAXPROCS(0)")
	flag.IntVar(&cfg.LowCoverageThreshold, "low-coverage-threshold", cfg.LowCoverageThreshold, "edge coverage at or below which transitive reduction removes an edge; edges below it may be flagged low-coverage cross edges")
	flag.IntVar(&cfg.HighCoverageThreshold, "high-coverage-threshold", cfg.HighCoverageThreshold, "edge coverage ceiling for transitive reduction candidates")
	flag.IntVar(&cfg.MaxDistance, "max-distance", cfg.MaxDistance, "bounded BFS distance limit used by transitive reduction")
	flag.IntVar(&cfg.EdgeMarkerSkipThreshold, "edge-marker-skip-threshold", cfg.EdgeMarkerSkipThreshold, "marker-interval gap above which a coverage-1 edge is removed during transitive reduction")
	flag.IntVar(&cfg.PruneIterationCount, "prune-iterations", cfg.PruneIterationCount, "number of leaf-pruning iterations")
	flag.BoolVar(&cfg.StoreCoverageData, "store-coverage-data", cfg.StoreCoverageData, "retain per-marker coverage detail needed by the diagnostics writers")
	flag.IntVar(&cfg.LargeDataPageSize, "large-data-page-size", cfg.LargeDataPageSize, "page size, in bytes, for the memory-mapped container backing large arrays")
	flag.StringVar(&cfg.LargeDataFileNamePrefix, "large-data-file-name-prefix", cfg.LargeDataFileNamePrefix, "directory prefix for memory-mapped container files, empty selects anonymous memory")

	flag.Parse()

	if cfg.ThreadCount < 0 {
		log.Fatal("asmcore: -threads must be >= 0")
	}

	fmt.Fprintf(os.Stderr, "asmcore: configuration: %+v\n", cfg)
	fmt.Fprintln(os.Stderr, "asmcore: supply a read graph, alignment source and k-mer table through pipeline.Run to execute the core.")
}
