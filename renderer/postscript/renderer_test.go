package psrenderer

import (
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/textcols/layout"
)

type stubTypesetter struct{}

func (stubTypesetter) LayoutLines(content string, width layout.Points, font layout.FontResource) ([]layout.ShapedLine, error) {
	w := layout.Points(utf8.RuneCountInString(content)) * 6
	return []layout.ShapedLine{{
		Text:    content,
		Logical: layout.Rect{Width: w.Pixels(), Height: layout.Points(14).Pixels()},
	}}, nil
}

func shaped(text string, height layout.Points) layout.ShapedLine {
	w := layout.Points(utf8.RuneCountInString(text)) * 6
	return layout.ShapedLine{Text: text, Logical: layout.Rect{Width: w.Pixels(), Height: height.Pixels()}}
}

func render(t *testing.T, mutate func(*layout.Config), lines []layout.ShapedLine, header bool) string {
	t.Helper()
	cfg := layout.DefaultConfig()
	cfg.Paper = "letter"
	cfg.Title = "notes.txt"
	cfg.DrawHeader = header
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := layout.Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	var opts layout.FlowOptions
	if header {
		composer := layout.NewHeaderComposer(stubTypesetter{}, cfg.Title)
		composer.Now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }
		opts.Header = composer
	}
	doc, err := layout.Flow(lines, p, opts)
	if err != nil {
		t.Fatalf("Flow failed: %v", err)
	}
	out, err := New(Options{}).Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return string(out)
}

func TestRenderDocumentStructure(t *testing.T) {
	ps := render(t, nil, []layout.ShapedLine{shaped("hello", 400), shaped("world", 400)}, false)

	if !strings.HasPrefix(ps, "%!PS-Adobe-3.0\n") {
		t.Fatalf("missing PS header: %q", ps[:40])
	}
	for _, want := range []string{
		"%%Pages: (atend)\n",
		"%%BoundingBox: 0 0 612 792\n",
		"%%Orientation: Portrait\n",
		"/pagewidth 612 def\n",
		"/column_width 540 def\n",
		"/do_separation_line true def\n",
		"/do_duplex true def\n",
		"1 setnumcolumns\n",
		"/Courier-Latin1 /Courier paps_reencode\n",
		"%%EndProlog\n",
	} {
		if !strings.Contains(ps, want) {
			t.Fatalf("output missing %q", want)
		}
	}
	if !strings.HasSuffix(ps, "%%Trailer\n%%Pages: 2\n%%EOF\n") {
		t.Fatalf("bad trailer: %q", ps[len(ps)-40:])
	}
	if strings.Index(ps, "%%EndProlog") > strings.Index(ps, "%%Page: 1 1") {
		t.Fatalf("prolog must precede pages")
	}
	pages := regexp.MustCompile(`(?m)^%%Page: (\d+) (\d+)$`).FindAllStringSubmatch(ps, -1)
	var got []string
	for _, m := range pages {
		got = append(got, m[1]+"/"+m[2])
	}
	if diff := cmp.Diff([]string{"1/1", "2/2"}, got); diff != "" {
		t.Fatalf("page comments mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(ps, "paps_eop\nshowpage\n"); n != 2 {
		t.Fatalf("showpage count = %d, want 2", n)
	}
	// 第一行放置在正文顶端以下 400pt 处。
	if !strings.Contains(ps, "36 356 moveto") {
		t.Fatalf("unexpected line anchor:\n%s", ps)
	}
}

func TestRenderLandscapeBoundingBoxIsPortrait(t *testing.T) {
	ps := render(t, func(c *layout.Config) {
		c.Landscape = true
		c.Columns = 2
	}, []layout.ShapedLine{shaped("a", 12)}, false)
	for _, want := range []string{"%%BoundingBox: 0 0 612 792\n", "%%Orientation: Landscape\n", "/do_landscape true def\n", "2 setnumcolumns\n"} {
		if !strings.Contains(ps, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestRenderDividerUsesHeaderHeight(t *testing.T) {
	ps := render(t, func(c *layout.Config) {
		c.Landscape = true
		c.Columns = 2
	}, []layout.ShapedLine{shaped("left", 500), shaped("right", 500)}, true)
	// 分隔线：x = 36 + 340 + 20；顶端 = 612 - 36 - 14/3 - 10。
	if !strings.Contains(ps, "396 561.33 moveto 396 36 lineto 0 setlinewidth stroke\n") {
		t.Fatalf("divider not found:\n%s", ps)
	}
	if !strings.Contains(ps, "/paps_header_font /Courier-Bold-Latin1 findfont 12 scalefont def\n") {
		t.Fatalf("header font not declared")
	}
	if !strings.Contains(ps, "paps_header_font setfont\n") {
		t.Fatalf("header font not selected")
	}
	// 页眉分隔线
	if !strings.Contains(ps, "36 561.33 moveto 756 561.33 lineto 0 setlinewidth stroke\n") {
		t.Fatalf("header separator not found:\n%s", ps)
	}
}

func TestRenderNoSeparationLine(t *testing.T) {
	ps := render(t, func(c *layout.Config) {
		c.Landscape = true
		c.Columns = 2
		c.SeparationLine = false
	}, []layout.ShapedLine{shaped("left", 500), shaped("right", 500)}, false)
	// 序言中的过程定义含有 rlineto，只检查页面部分。
	body := ps[strings.Index(ps, "%%EndSetup"):]
	if strings.Contains(body, "lineto") {
		t.Fatalf("no strokes expected without separation line:\n%s", body)
	}
	if !strings.Contains(ps, "/do_separation_line false def\n") {
		t.Fatalf("setting not declared")
	}
}

func TestRenderRightToLeftAnchorsAtRightEdge(t *testing.T) {
	ps := render(t, func(c *layout.Config) {
		c.Direction = layout.RightToLeft
	}, []layout.ShapedLine{shaped("abcdef", 12)}, false)
	// 612 - 36 - 36 = 540
	if !strings.Contains(ps, "540 744 moveto") {
		t.Fatalf("rtl line not right aligned:\n%s", ps)
	}
}

func TestRenderJustifiedLineUsesWidthshow(t *testing.T) {
	line := shaped("a b c", 12)
	line.Justify = true
	ps := render(t, nil, []layout.ShapedLine{line}, false)
	// (540 - 30) / 2 = 255
	if !strings.Contains(ps, "36 744 moveto 255 0 32 ") || !strings.Contains(ps, " widthshow\n") {
		t.Fatalf("justified line not emitted with widthshow:\n%s", ps)
	}
}

func TestRenderEscapesTitle(t *testing.T) {
	ps := render(t, func(c *layout.Config) { c.Title = "a (b) c" }, nil, false)
	if !strings.Contains(ps, `%%Title: (a \(b\) c)`) && !strings.Contains(ps, `%%Title: (a (b) c)`) {
		t.Fatalf("title not emitted as PostScript string:\n%s", ps[:200])
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	lines := []layout.ShapedLine{shaped("x", 300), shaped("y", 300), shaped("z", 300)}
	a := render(t, nil, lines, true)
	b := render(t, nil, lines, true)
	if a != b {
		t.Fatalf("render output differs between runs")
	}
}

func TestRenderRejectsEmptyDocument(t *testing.T) {
	if _, err := New(Options{}).Render(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestNum(t *testing.T) {
	cases := map[layout.Points]string{0: "0", 36: "36", 213.3333: "213.33", 0.5: "0.5", -0.001: "0"}
	for in, want := range cases {
		if got := num(in); got != want {
			t.Fatalf("num(%g) = %q, want %q", float64(in), got, want)
		}
	}
}
