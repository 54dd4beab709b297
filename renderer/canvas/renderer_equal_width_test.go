package canvasrenderer

import (
	"testing"

	"github.com/ByLCY/textcols/layout"
)

// 当第一行宽度与容器宽度恰好相等且后面紧跟一个显式换行时，不应产生额外的空行。
func TestNoBlankLineWhenEqualWidthThenNewline(t *testing.T) {
	r := NewRenderer(".")

	first := "SAMPLE-A"
	measured, err := r.LayoutLines(first, 0, bodyFont)
	if err != nil {
		t.Fatalf("measure error: %v", err)
	}
	if len(measured) != 1 {
		t.Fatalf("unexpected measured lines: %d", len(measured))
	}
	// 测量结果经过定点截断，补回一个排版单位
	limit := layout.PixelsToPoints(measured[0].Logical.Width + 1)
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", float64(limit))
	}

	lines, err := r.LayoutLines(first+"\n"+"SAMPLE-B", limit, bodyFont)
	if err != nil {
		t.Fatalf("LayoutLines error: %v", err)
	}
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Text != first {
		t.Fatalf("first line mismatch: got=%q want=%q", lines[0].Text, first)
	}
	if lines[1].Text != "SAMPLE-B" {
		t.Fatalf("second line mismatch: got=%q want=%q", lines[1].Text, "SAMPLE-B")
	}
}
