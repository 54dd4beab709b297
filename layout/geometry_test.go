package layout

import (
	"errors"
	"math"
	"testing"
)

func near(a, b Points) bool { return math.Abs(float64(a-b)) < 1e-9 }

func TestResolveDefaultsA4(t *testing.T) {
	p := mustResolve(t, nil)
	if p.PageWidth != 595.28 || p.PageHeight != 841.89 {
		t.Fatalf("A4 page = %gx%g", float64(p.PageWidth), float64(p.PageHeight))
	}
	if !near(p.ColumnWidth, 595.28-72) || !near(p.ColumnHeight, 841.89-72) {
		t.Fatalf("column = %gx%g", float64(p.ColumnWidth), float64(p.ColumnHeight))
	}
	if p.HeaderSep != 0 {
		t.Fatalf("header separation should be 0 without header, got %g", float64(p.HeaderSep))
	}
	if !p.Duplex || !p.Tumble {
		t.Fatalf("duplex/tumble default to enabled")
	}
	if p.PointToPixel*p.PixelToPoint != 1 {
		t.Fatalf("unit factors are not inverse: %g %g", p.PointToPixel, p.PixelToPoint)
	}
}

func TestResolveLandscapeColumns(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.Paper = "Letter"
		c.Landscape = true
		c.Columns = 2
		c.DrawHeader = true
	})
	if p.PageWidth != 792 || p.PageHeight != 612 {
		t.Fatalf("landscape should swap page box, got %gx%g", float64(p.PageWidth), float64(p.PageHeight))
	}
	if p.ColumnWidth != 340 {
		t.Fatalf("column width = %g, want 340", float64(p.ColumnWidth))
	}
	if p.ColumnHeight != 612-36-20-36 {
		t.Fatalf("column height = %g", float64(p.ColumnHeight))
	}
	total := p.ColumnWidth*Points(p.Columns) + p.Gutter*Points(p.Columns-1) + p.Margin.Left + p.Margin.Right
	if !near(total, p.PageWidth) {
		t.Fatalf("width invariant broken: %g != %g", float64(total), float64(p.PageWidth))
	}
}

func TestResolveDuplexOverrides(t *testing.T) {
	off := false
	p := mustResolve(t, func(c *Config) {
		c.Landscape = true
		c.Duplex = &off
	})
	if p.Duplex {
		t.Fatalf("explicit duplex=false must win")
	}
	if !p.Tumble {
		t.Fatalf("tumble should keep its default")
	}
}

func TestResolvePaperAliases(t *testing.T) {
	for _, name := range []string{"a4", "A4", "letter", "US-Letter", "US Letter", "legal", "uslegal", "US Legal", " us_legal "} {
		if _, ok := LookupPaper(name); !ok {
			t.Fatalf("paper %q should resolve", name)
		}
	}
}

func TestResolveConfigErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown paper", func(c *Config) { c.Paper = "tabloid" }, "paper"},
		{"bare us prefix", func(c *Config) { c.Paper = "US" }, "paper"},
		{"zero columns", func(c *Config) { c.Columns = 0 }, "columns"},
		{"negative margin", func(c *Config) { c.Margin.Left = -1 }, "left-margin"},
		{"margins exceed width", func(c *Config) { c.Margin.Left, c.Margin.Right = 300, 300 }, "column-width"},
		{"too many columns", func(c *Config) { c.Columns = 20 }, "column-width"},
		{"margins exceed height", func(c *Config) { c.Margin.Top, c.Margin.Bottom = 421, 421 }, "column-height"},
		{"zero font size", func(c *Config) { c.BodyFont.Size = 0 }, "font-scale"},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		_, err := Resolve(cfg)
		if !errors.Is(err, ErrConfig) {
			t.Fatalf("%s: expected ErrConfig, got %v", tc.name, err)
		}
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %v", tc.name, tc.field, err)
		}
	}
}

func TestColumnXRightToLeftMirrors(t *testing.T) {
	ltr := mustResolve(t, func(c *Config) {
		c.Landscape = true
		c.Columns = 3
	})
	rtl := mustResolve(t, func(c *Config) {
		c.Landscape = true
		c.Columns = 3
		c.Direction = RightToLeft
	})
	for k := 0; k < 3; k++ {
		if !near(rtl.ColumnX(k), ltr.ColumnX(2-k)) {
			t.Fatalf("rtl column %d x=%g, ltr column %d x=%g", k, float64(rtl.ColumnX(k)), 2-k, float64(ltr.ColumnX(2-k)))
		}
	}
	// 事件顺序中的第 0 栏是最右侧的物理栏。
	if !near(rtl.ColumnX(0)+rtl.ColumnWidth, rtl.PageWidth-rtl.Margin.Right) {
		t.Fatalf("rtl column 0 should touch the right margin")
	}
}

func TestColumnXMirroredMargins(t *testing.T) {
	ltr := mustResolve(t, func(c *Config) {
		c.Columns = 3
		c.Landscape = true
		c.Margin.Left, c.Margin.Right = 50, 20
	})
	rtl := mustResolve(t, func(c *Config) {
		c.Columns = 3
		c.Landscape = true
		c.Direction = RightToLeft
		c.Margin.Left, c.Margin.Right = 20, 50
	})
	// 从右到左的第 0 栏距右边缘的距离，等于镜像边距下从左到右第 0 栏距左边缘的距离。
	fromRight := rtl.PageWidth - (rtl.ColumnX(0) + rtl.ColumnWidth)
	if !near(fromRight, ltr.ColumnX(0)) {
		t.Fatalf("mirror mismatch: %g vs %g", float64(fromRight), float64(ltr.ColumnX(0)))
	}
}

func TestLineAnchor(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.Landscape = true
		c.Columns = 2
	})
	x, y := p.LineAnchor(1, Points(24).Pixels(), Points(100).Pixels())
	if x != 36+340+40 || y != 612-36-24 {
		t.Fatalf("ltr anchor = (%g, %g)", float64(x), float64(y))
	}

	rtl := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.Landscape = true
		c.Columns = 2
		c.Direction = RightToLeft
	})
	x, _ = rtl.LineAnchor(0, Points(12).Pixels(), Points(100).Pixels())
	if x != 36+380+340-100 {
		t.Fatalf("rtl anchor x = %g, want right aligned", float64(x))
	}
}

func TestDividerPositions(t *testing.T) {
	p := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.Landscape = true
		c.Columns = 2
	})
	seg := p.Divider(0, 0)
	// 第一条分隔线位于栏间距中点。
	if seg.X1 != 36+340+20 || seg.X2 != seg.X1 {
		t.Fatalf("first divider x = %g", float64(seg.X1))
	}
	if seg.Y1 != 612-36 || seg.Y2 != 36 {
		t.Fatalf("divider span = %g..%g", float64(seg.Y1), float64(seg.Y2))
	}

	three := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.Landscape = true
		c.Columns = 3
		c.DrawHeader = true
	})
	seg = three.Divider(1, 14)
	want := three.Margin.Left + three.ColumnWidth*2 + (2+DividerStepOffset)*three.Gutter
	if !near(seg.X1, want) {
		t.Fatalf("second divider x = %g, want %g", float64(seg.X1), float64(want))
	}
	if seg.Y1 != 612-36-14-10 {
		t.Fatalf("divider top = %g", float64(seg.Y1))
	}

	rtl := mustResolve(t, func(c *Config) {
		c.Paper = "letter"
		c.Landscape = true
		c.Columns = 2
		c.Direction = RightToLeft
	})
	if got := rtl.Divider(0, 0).X1; got != 36+340+20 {
		t.Fatalf("rtl divider x = %g", float64(got))
	}
}
