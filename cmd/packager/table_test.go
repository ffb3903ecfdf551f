package main

import (
	"strings"
	"testing"
)

func TestRenderStreamTableIncludesHeadersAndRows(t *testing.T) {
	out := renderStreamTable(
		[]string{"Input", "Selector", "Output"},
		[][]string{{"in.mp4", "video", "out.mp4"}},
	)
	for _, want := range []string{"INPUT", "SELECTOR", "OUTPUT", "in.mp4", "video", "out.mp4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected rendered table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderStreamTableEmptyHeaders(t *testing.T) {
	if out := renderStreamTable(nil, nil); out != "" {
		t.Fatalf("expected empty table for no headers, got %q", out)
	}
}

func TestRenderStreamTableShortRowPadsBlank(t *testing.T) {
	out := renderStreamTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
	)
	if !strings.Contains(out, "only-a") {
		t.Fatalf("expected row value present, got:\n%s", out)
	}
}
