package gfa

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/nanoreads/asmcore/internal/ids"
	"github.com/nanoreads/asmcore/mode3"
)

func TestWriteFormatsHeaderSegmentsAndLinksInOrder(t *testing.T) {
	g := &mode3.Graph{
		Segments: []mode3.Segment{
			{Path: []mode3.MarkerGraphEdgeInfo{{EdgeId: 0}, {EdgeId: 1}, {EdgeId: 2}}},
			{Path: []mode3.MarkerGraphEdgeInfo{{EdgeId: 3}}},
		},
		Links: []mode3.Link{
			{Source: 0, Target: 1, Coverage: 4},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "H\tVN:Z:1.0\n" +
		"S\t0\t*\tLN:i:3\n" +
		"S\t1\t*\tLN:i:1\n" +
		"L\t0\t+\t1\t+\t0M\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteHandlesAGraphWithNoLinks(t *testing.T) {
	g := &mode3.Graph{
		Segments: []mode3.Segment{
			{Path: []mode3.MarkerGraphEdgeInfo{{EdgeId: 0}}},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "H\tVN:Z:1.0\nS\t0\t*\tLN:i:1\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWritePreservesSegmentOrderAcrossManyRecords(t *testing.T) {
	segments := make([]mode3.Segment, 50)
	for i := range segments {
		segments[i] = mode3.Segment{Path: make([]mode3.MarkerGraphEdgeInfo, i+1)}
	}
	links := make([]mode3.Link, 49)
	for i := range links {
		links[i] = mode3.Link{Source: ids.SegmentId(i), Target: ids.SegmentId(i + 1), Coverage: 1}
	}
	g := &mode3.Graph{Segments: segments, Links: links}

	var buf bytes.Buffer
	if err := Write(&buf, g); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	if len(lines) != 1+len(segments)+len(links) {
		t.Fatalf("got %d lines, want %d", len(lines), 1+len(segments)+len(links))
	}
	for i, s := range segments {
		want := "S\t" + strconv.Itoa(i) + "\t*\tLN:i:" + strconv.Itoa(len(s.Path))
		if string(lines[1+i]) != want {
			t.Errorf("segment line %d = %q, want %q", i, lines[1+i], want)
		}
	}
}
