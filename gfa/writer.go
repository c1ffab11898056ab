// Package gfa writes the Mode-3 assembly graph's segments and links
// as GFA v1 (spec.md §4.8): one H header line, one S line per
// segment, one L line per link. Formatting topology only; sequence
// and overlap CIGARs beyond the fixed "0M" placeholder are out of
// scope (spec.md §1's Non-goals).
package gfa

import (
	"bufio"
	"io"
	"strconv"

	"github.com/exascience/pargo/pipeline"

	"github.com/nanoreads/asmcore/internal"
	"github.com/nanoreads/asmcore/mode3"
)

// segmentRecord pairs a segment with its id so the parallel
// formatting stage below never needs to infer a batch's position
// within the original slice.
type segmentRecord struct {
	id      int
	segment mode3.Segment
}

// Write formats g as GFA v1 onto w, grounded on
// sam/filter-pipeline.go's AlignmentToBytes/ComposeFilters shape: a
// parallel formatting stage over batches of records, followed by a
// strictly-ordered single-threaded write so record order matches
// input order regardless of how many goroutines format concurrently.
func Write(w io.Writer, g *mode3.Graph) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("H\tVN:Z:1.0\n"); err != nil {
		return err
	}

	if err := writeSegments(bw, g.Segments); err != nil {
		return err
	}
	if err := writeLinks(bw, g.Links); err != nil {
		return err
	}
	return bw.Flush()
}

func writeSegments(w *bufio.Writer, segments []mode3.Segment) error {
	records := make([]segmentRecord, len(segments))
	for i, s := range segments {
		records[i] = segmentRecord{id: i, segment: s}
	}

	var p pipeline.Pipeline
	p.Source(records)
	p.Add(
		pipeline.LimitedPar(0, formatSegments()),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			for _, line := range data.([][]byte) {
				if _, err := w.Write(line); err != nil {
					p.SetErr(err)
					break
				}
			}
			return nil
		})),
	)
	p.Run()
	return p.Err()
}

func formatSegments() pipeline.Filter {
	return func(p *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			batch := data.([]segmentRecord)
			lines := make([][]byte, len(batch))
			buf := internal.ReserveByteBuffer()
			defer internal.ReleaseByteBuffer(buf)
			for i, r := range batch {
				buf = append(buf, 'S', '\t')
				buf = strconv.AppendInt(buf, int64(r.id), 10)
				buf = append(buf, "\t*\tLN:i:"...)
				buf = strconv.AppendInt(buf, int64(len(r.segment.Path)), 10)
				buf = append(buf, '\n')
				lines[i] = append([]byte(nil), buf...)
				buf = buf[:0]
			}
			return lines
		}
		return
	}
}

func writeLinks(w *bufio.Writer, links []mode3.Link) error {
	var p pipeline.Pipeline
	p.Source(links)
	p.Add(
		pipeline.LimitedPar(0, formatLinks()),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			for _, line := range data.([][]byte) {
				if _, err := w.Write(line); err != nil {
					p.SetErr(err)
					break
				}
			}
			return nil
		})),
	)
	p.Run()
	return p.Err()
}

func formatLinks() pipeline.Filter {
	return func(p *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			batch := data.([]mode3.Link)
			lines := make([][]byte, len(batch))
			buf := internal.ReserveByteBuffer()
			defer internal.ReleaseByteBuffer(buf)
			for i, l := range batch {
				buf = append(buf, 'L', '\t')
				buf = strconv.AppendUint(buf, uint64(l.Source), 10)
				buf = append(buf, "\t+\t"...)
				buf = strconv.AppendUint(buf, uint64(l.Target), 10)
				buf = append(buf, "\t+\t0M\n"...)
				lines[i] = append([]byte(nil), buf...)
				buf = buf[:0]
			}
			return lines
		}
		return
	}
}
