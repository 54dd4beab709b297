package layout

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ByLCY/textcols/binding"
)

// DefaultDateLayout 对应 C 语言环境下 strftime 的 %c 格式。
const DefaultDateLayout = "Mon Jan _2 15:04:05 2006"

// DefaultHeaderTemplates 是页眉左、中、右三段的默认模板。
var DefaultHeaderTemplates = [3]string{"${date}", "${title}", "Page ${page}"}

// HeaderComposer 为每页生成页眉：左侧日期、居中标题、右侧页码。
type HeaderComposer struct {
	Typesetter Typesetter
	Title      string
	Templates  [3]string
	DateLayout string
	// Now 为空时使用 time.Now；测试中注入固定时钟。
	Now func() time.Time
}

// NewHeaderComposer 使用默认模板创建页眉生成器。
func NewHeaderComposer(ts Typesetter, title string) *HeaderComposer {
	return &HeaderComposer{
		Typesetter: ts,
		Title:      title,
		Templates:  DefaultHeaderTemplates,
		DateLayout: DefaultDateLayout,
	}
}

func (c *HeaderComposer) timestamp() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	layout := c.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}
	return now().Format(layout)
}

// Compose 生成第 page 页的页眉。
func (c *HeaderComposer) Compose(p *Params, page int) (*HeaderBlock, error) {
	return c.compose(p, page, c.timestamp())
}

func (c *HeaderComposer) compose(p *Params, page int, stamp string) (*HeaderBlock, error) {
	if c.Typesetter == nil {
		return nil, fmt.Errorf("layout: 页眉缺少排版后端 Typesetter")
	}
	fields := map[string]any{
		"date":    stamp,
		"title":   c.Title,
		"page":    strconv.Itoa(page),
		"paper":   p.Paper,
		"columns": p.Columns,
	}

	block := &HeaderBlock{Font: p.HeaderFont}
	var widths [3]Points
	for i, tmpl := range c.Templates {
		text := binding.Interpolate(tmpl, fields)
		lines, err := c.Typesetter.LayoutLines(text, 0, p.HeaderFont)
		if err != nil {
			return nil, fmt.Errorf("测量页眉文本 %q 失败: %w", text, err)
		}
		if len(lines) == 0 {
			lines = []ShapedLine{{}}
		}
		widths[i] = PixelsToPoints(lines[0].Logical.Width)
		if i == 0 {
			// 三段共用左段的行高
			block.Height = PixelsToPoints(lines[0].Logical.Height) / HeaderHeightDivisor
		}
		block.Fragments[i] = Fragment{Text: lines[0].Text, Width: widths[i]}
	}

	y := p.PageHeight - p.Margin.Top - block.Height
	block.Fragments[0].X = p.Margin.Left
	block.Fragments[1].X = (p.PageWidth - widths[1]) / 2
	block.Fragments[2].X = p.PageWidth - p.Margin.Right - widths[2]
	for i := range block.Fragments {
		block.Fragments[i].Y = y
	}

	lineY := y - p.HeaderSep/2
	block.Separator = &Segment{
		X1: p.Margin.Left, Y1: lineY,
		X2: p.PageWidth - p.Margin.Right, Y2: lineY,
	}
	return block, nil
}
