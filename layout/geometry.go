package layout

import (
	"strings"

	"golang.org/x/image/math/fixed"
)

// 默认值（单位：点）。
const (
	DefaultMargin     Points = 36
	DefaultGutter     Points = 40
	DefaultHeaderSep  Points = 20
	DefaultFontSize   Points = 12
	DefaultFontFamily        = "Monospace"
)

// 分隔线横向偏移的历史系数：第一条位于栏间距中点，其后按 (d+1.5)*gutter 偏移。
// 第一条与其后各条的偏移不对称，输出依赖这一位置。
const (
	DividerFirstFactor = 0.5
	DividerStepOffset  = 1.5
)

// HeaderHeightDivisor 是页眉行高的历史除数：页眉位置与分隔线上端都使用测得行高的三分之一。
const HeaderHeightDivisor = 3

// PaperSize 是一种具名纸张（单位：点）。
type PaperSize struct {
	Name   string
	Width  Points
	Height Points
}

var paperSizes = map[string]PaperSize{
	"A4":     {Name: "A4", Width: 595.28, Height: 841.89},
	"LETTER": {Name: "Letter", Width: 612, Height: 792},
	"LEGAL":  {Name: "Legal", Width: 612, Height: 1008},
}

// LookupPaper 按名称（大小写不敏感）查找纸张尺寸。
func LookupPaper(name string) (PaperSize, bool) {
	key := strings.ToUpper(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name))
	if key != "US" {
		key = strings.TrimPrefix(key, "US")
	}
	p, ok := paperSizes[key]
	return p, ok
}

// Margin 四边页边距（单位：点）。
type Margin struct {
	Top    Points `json:"top"`
	Right  Points `json:"right"`
	Bottom Points `json:"bottom"`
	Left   Points `json:"left"`
}

// Config 是几何解析的输入：纸张、方向、分栏、边距、字体与各开关。
type Config struct {
	Paper          string
	Landscape      bool
	Columns        int
	Gutter         Points
	Margin         Margin
	HeaderSep      Points
	DrawHeader     bool
	Direction      Direction
	Justify        bool
	SeparationLine bool
	// Duplex/Tumble 为 nil 时取默认值（开启）。
	Duplex     *bool
	Tumble     *bool
	BodyFont   FontResource
	HeaderFont FontResource
	Title      string
}

// DefaultConfig 返回默认配置：A4、单栏、12pt 等宽字体、36pt 边距。
func DefaultConfig() Config {
	return Config{
		Paper:          "A4",
		Columns:        1,
		Gutter:         DefaultGutter,
		Margin:         Margin{Top: DefaultMargin, Right: DefaultMargin, Bottom: DefaultMargin, Left: DefaultMargin},
		HeaderSep:      DefaultHeaderSep,
		SeparationLine: true,
		BodyFont:       FontResource{Family: DefaultFontFamily, Size: DefaultFontSize},
		HeaderFont:     FontResource{Family: DefaultFontFamily, Style: "Bold", Size: DefaultFontSize},
		Title:          "stdin",
	}
}

// Params 是解析后的版面参数，生成后只读。
type Params struct {
	Paper          string       `json:"paper"`
	PageWidth      Points       `json:"pageWidth"`
	PageHeight     Points       `json:"pageHeight"`
	ColumnWidth    Points       `json:"columnWidth"`
	ColumnHeight   Points       `json:"columnHeight"`
	Columns        int          `json:"columns"`
	Gutter         Points       `json:"gutter"`
	Margin         Margin       `json:"margin"`
	HeaderSep      Points       `json:"headerSep"`
	PointToPixel   float64      `json:"pointToPixel"`
	PixelToPoint   float64      `json:"pixelToPoint"`
	Direction      Direction    `json:"direction"`
	Landscape      bool         `json:"landscape"`
	Duplex         bool         `json:"duplex"`
	Tumble         bool         `json:"tumble"`
	Justify        bool         `json:"justify"`
	SeparationLine bool         `json:"separationLine"`
	DrawHeader     bool         `json:"drawHeader"`
	BodyFont       FontResource `json:"bodyFont"`
	HeaderFont     FontResource `json:"headerFont"`
	Title          string       `json:"title"`
	DividerFirst   float64      `json:"dividerFirst"`
	DividerStep    float64      `json:"dividerStep"`
}

// Resolve 根据配置计算版面参数。纯函数；配置无效时返回 *ConfigError。
func Resolve(cfg Config) (*Params, error) {
	paper, ok := LookupPaper(cfg.Paper)
	if !ok {
		return nil, configErrorf("paper", "未知的纸张尺寸 %q（支持 a4、letter、legal）", cfg.Paper)
	}
	if cfg.Columns < 1 {
		return nil, configErrorf("columns", "栏数必须 >= 1，实际为 %d", cfg.Columns)
	}
	m := cfg.Margin
	for _, side := range []struct {
		name string
		v    Points
	}{{"top-margin", m.Top}, {"right-margin", m.Right}, {"bottom-margin", m.Bottom}, {"left-margin", m.Left}} {
		if side.v < 0 {
			return nil, configErrorf(side.name, "页边距不能为负数：%g", float64(side.v))
		}
	}
	if cfg.Gutter < 0 {
		return nil, configErrorf("gutter", "栏间距不能为负数：%g", float64(cfg.Gutter))
	}
	if cfg.BodyFont.Size <= 0 {
		return nil, configErrorf("font-scale", "字号必须为正数：%g", float64(cfg.BodyFont.Size))
	}
	if cfg.DrawHeader && cfg.HeaderFont.Size <= 0 {
		return nil, configErrorf("header-font", "页眉字号必须为正数：%g", float64(cfg.HeaderFont.Size))
	}

	width, height := paper.Width, paper.Height
	if cfg.Landscape {
		width, height = height, width
	}

	headerSep := Points(0)
	if cfg.DrawHeader {
		headerSep = cfg.HeaderSep
	}
	totalGutter := Points(0)
	if cfg.Columns > 1 {
		totalGutter = cfg.Gutter * Points(cfg.Columns-1)
	}

	columnHeight := height - m.Top - headerSep - m.Bottom
	if columnHeight <= 0 {
		return nil, configErrorf("column-height", "上下边距超出页面高度（栏高 %g）", float64(columnHeight))
	}
	columnWidth := (width - m.Left - m.Right - totalGutter) / Points(cfg.Columns)
	if columnWidth <= 0 {
		return nil, configErrorf("column-width", "左右边距与栏间距超出页面宽度（栏宽 %g）", float64(columnWidth))
	}

	return &Params{
		Paper:          paper.Name,
		PageWidth:      width,
		PageHeight:     height,
		ColumnWidth:    columnWidth,
		ColumnHeight:   columnHeight,
		Columns:        cfg.Columns,
		Gutter:         cfg.Gutter,
		Margin:         m,
		HeaderSep:      headerSep,
		PointToPixel:   PixelsPerPoint,
		PixelToPoint:   1.0 / PixelsPerPoint,
		Direction:      cfg.Direction,
		Landscape:      cfg.Landscape,
		Duplex:         boolOr(cfg.Duplex, true),
		Tumble:         boolOr(cfg.Tumble, true),
		Justify:        cfg.Justify,
		SeparationLine: cfg.SeparationLine,
		DrawHeader:     cfg.DrawHeader,
		BodyFont:       cfg.BodyFont,
		HeaderFont:     cfg.HeaderFont,
		Title:          cfg.Title,
		DividerFirst:   DividerFirstFactor,
		DividerStep:    DividerStepOffset,
	}, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Capacity 返回以排版单位表示的列容量，与行高直接比较，避免中间取整。
func (p *Params) Capacity() fixed.Int26_6 { return p.ColumnHeight.Pixels() }

// BodyTop 返回正文区顶部的页面 y 坐标（y 向上）。
func (p *Params) BodyTop() Points {
	return p.PageHeight - p.Margin.Top - p.HeaderSep
}

// ColumnX 返回第 column 栏（事件顺序）左边缘的 x 坐标；从右到左时镜像。
func (p *Params) ColumnX(column int) Points {
	physical := column
	if p.Direction == RightToLeft {
		physical = p.Columns - 1 - column
	}
	return p.Margin.Left + Points(physical)*(p.ColumnWidth+p.Gutter)
}

// LineAnchor 计算一行的起笔位置。offset 为放置后的列内累计高度，width 为行宽。
// 从右到左时行右对齐到栏的右边缘。
func (p *Params) LineAnchor(column int, offset, width fixed.Int26_6) (x, y Points) {
	x = p.ColumnX(column)
	if p.Direction == RightToLeft {
		x += p.ColumnWidth - PixelsToPoints(width)
	}
	y = p.BodyTop() - PixelsToPoints(offset)
	return x, y
}

// Divider 返回第 column 栏结束时绘制的竖直分隔线，headerHeight 为当页页眉的行高。
func (p *Params) Divider(column int, headerHeight Points) Segment {
	d := column + 1
	if p.Direction == RightToLeft {
		d = p.Columns - d
	}
	var offset Points
	if d == 1 {
		offset = Points(p.DividerFirst) * p.Gutter
	} else {
		offset = (Points(d) + Points(p.DividerStep)) * p.Gutter
	}
	x := p.Margin.Left + p.ColumnWidth*Points(d) + offset
	return Segment{
		X1: x, Y1: p.PageHeight - p.Margin.Top - headerHeight - p.HeaderSep/2,
		X2: x, Y2: p.Margin.Bottom,
	}
}
