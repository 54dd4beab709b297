package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixedClock() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }

func TestHeaderComposePositions(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.DrawHeader = true
	})
	composer := NewHeaderComposer(&stubTypesetter{charWidth: 6, lineHeight: 14}, "notes.txt")
	composer.Now = fixedClock

	block, err := composer.Compose(p, 3)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	h := Points(14) / HeaderHeightDivisor
	y := Points(792) - 36 - h
	want := [3]Fragment{
		{Text: "Tue Mar  5 14:07:09 2024", X: 36, Y: y, Width: 24 * 6},
		{Text: "notes.txt", X: 279, Y: y, Width: 54},
		{Text: "Page 3", X: 540, Y: y, Width: 36},
	}
	if diff := cmp.Diff(want, block.Fragments); diff != "" {
		t.Fatalf("fragments mismatch (-want +got):\n%s", diff)
	}
	if block.Height != h {
		t.Fatalf("header height = %g, want %g", float64(block.Height), float64(h))
	}
	if diff := cmp.Diff(&Segment{X1: 36, Y1: y - 10, X2: 576, Y2: y - 10}, block.Separator); diff != "" {
		t.Fatalf("separator mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderCustomTemplates(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.DrawHeader = true
		c.Columns = 2
	})
	composer := NewHeaderComposer(&stubTypesetter{charWidth: 6, lineHeight: 14}, "log")
	composer.Now = fixedClock
	composer.DateLayout = "2006-01-02"
	composer.Templates = [3]string{"${date}", "${title} (${columns} cols, ${paper})", "${page}/${missing}"}

	block, err := composer.Compose(p, 2)
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	got := []string{block.Fragments[0].Text, block.Fragments[1].Text, block.Fragments[2].Text}
	want := []string{"2024-03-05", "log (2 cols, A4)", "2/${missing}"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderDateIsStableWithinRun(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.DrawHeader = true
	})
	calls := 0
	composer := NewHeaderComposer(&stubTypesetter{charWidth: 6, lineHeight: 14}, "t")
	composer.Now = func() time.Time {
		calls++
		return fixedClock().Add(time.Duration(calls) * time.Hour)
	}
	doc, err := Flow(linesOf(500, 500, 500), p, FlowOptions{Header: composer})
	if err != nil {
		t.Fatalf("Flow error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("clock read %d times, want 1", calls)
	}
	var dates []string
	for _, e := range doc.Events {
		if e.Kind == EventHeader {
			dates = append(dates, e.Header.Fragments[0].Text)
		}
	}
	if len(dates) != 3 || strings.Count(strings.Join(dates, "|"), dates[0]) != 3 {
		t.Fatalf("dates differ across pages: %v", dates)
	}
}

func TestHeaderRequiresTypesetter(t *testing.T) {
	p := mustResolve(t, func(c *Config) { c.DrawHeader = true })
	if _, err := (&HeaderComposer{}).Compose(p, 1); err == nil {
		t.Fatalf("expected error without typesetter")
	}
}
