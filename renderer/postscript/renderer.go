// Package psrenderer 将放置事件序列输出为 DSC 兼容的 PostScript 文档。
//
// 输出分两个阶段：先遍历事件把页面写入页面缓冲区，再渲染需要预先声明的文档头，
// 最后依次写出文档头、页面与结尾（结尾声明实际页数）。
package psrenderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/postscript"

	"github.com/ByLCY/textcols/fonts"
	"github.com/ByLCY/textcols/layout"
	"github.com/ByLCY/textcols/renderer"
)

// DefaultCreator 写入 %%Creator 注释。
const DefaultCreator = "textcols"

const (
	bodyFontKey   = "paps_body_font"
	headerFontKey = "paps_header_font"
)

// Options 配置 PostScript 输出。
type Options struct {
	Creator string
	Logger  *log.Logger
}

// Renderer 生成 PostScript 文档。每次 Render 使用独立的输出状态，可重复调用。
type Renderer struct {
	creator string
	logger  *log.Logger
}

var _ renderer.Renderer = (*Renderer)(nil)

// New 创建 PostScript 渲染器。
func New(opts Options) *Renderer {
	creator := opts.Creator
	if creator == "" {
		creator = DefaultCreator
	}
	return &Renderer{creator: creator, logger: opts.Logger}
}

// Render 遍历事件并返回完整的 PostScript 文档。
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil || doc.Params == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	p := doc.Params

	e := &emitter{
		params: p,
		latin1: encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()),
	}
	for i := range doc.Events {
		if err := e.emit(&doc.Events[i]); err != nil {
			return nil, err
		}
	}
	if e.replaced > 0 && r.logger != nil {
		r.logger.Warn("部分字符无法以 ISO-8859-1 表示，已替换", "count", e.replaced)
	}

	var out bytes.Buffer
	if err := r.prolog(p).write(&out); err != nil {
		return nil, fmt.Errorf("生成 PostScript 文档头失败: %w", err)
	}
	out.Write(e.pages.Bytes())
	fmt.Fprintf(&out, "%%%%Trailer\n%%%%Pages: %d\n%%%%EOF\n", e.pageCount)
	return out.Bytes(), nil
}

func (r *Renderer) prolog(p *layout.Params) *prolog {
	bbW, bbH := int(p.PageWidth), int(p.PageHeight)
	orientation := "Portrait"
	if p.PageWidth > p.PageHeight {
		// 边界框保持纵向
		bbW, bbH = bbH, bbW
		orientation = "Landscape"
	}
	pr := &prolog{
		Title:          p.Title,
		Creator:        r.creator,
		BBoxWidth:      bbW,
		BBoxHeight:     bbH,
		Orientation:    orientation,
		PageWidth:      int(p.PageWidth),
		PageHeight:     int(p.PageHeight),
		ColumnWidth:    int(p.ColumnWidth),
		BodyHeight:     int(p.ColumnHeight),
		LeftMargin:     int(p.Margin.Left),
		YTop:           int(p.BodyTop()),
		Gutter:         int(p.Gutter),
		Columns:        p.Columns,
		SeparationLine: p.SeparationLine,
		Landscape:      p.Landscape,
		Tumble:         p.Tumble,
		Duplex:         p.Duplex,
	}
	pr.Fonts = append(pr.Fonts, reencoded(bodyFontKey, p.BodyFont))
	if p.DrawHeader {
		pr.Fonts = append(pr.Fonts, reencoded(headerFontKey, p.HeaderFont))
	}
	return pr
}

func reencoded(key string, f layout.FontResource) psFont {
	base := fonts.PostScriptName(f.Family, fonts.ParseStyle(f.Style))
	return psFont{Key: key, Name: base + "-Latin1", Base: base, Size: num(f.Size)}
}

// emitter 持有单次渲染的可变状态：页面缓冲区、当前字体与当页页眉高度。
type emitter struct {
	params *layout.Params
	latin1 *encoding.Encoder

	pages        bytes.Buffer
	pageCount    int
	font         string
	headerHeight layout.Points
	replaced     int
}

func (e *emitter) emit(ev *layout.Event) error {
	switch ev.Kind {
	case layout.EventStartPage:
		e.pageCount++
		e.font = ""
		e.headerHeight = 0
		fmt.Fprintf(&e.pages, "%%%%Page: %d %d\npaps_bop\n", ev.Page, ev.Page)
	case layout.EventHeader:
		if ev.Header == nil {
			return nil
		}
		e.headerHeight = ev.Header.Height
		e.setFont(headerFontKey)
		for _, frag := range ev.Header.Fragments {
			if frag.Text == "" {
				continue
			}
			fmt.Fprintf(&e.pages, "%s %s moveto %s show\n", num(frag.X), num(frag.Y), e.str(frag.Text))
		}
		if s := ev.Header.Separator; s != nil {
			e.stroke(*s)
		}
	case layout.EventPlaceLine:
		if ev.Line == nil {
			return fmt.Errorf("第 %d 页的放置事件缺少行内容", ev.Page)
		}
		e.placeLine(ev)
	case layout.EventEndColumn:
		if e.params.SeparationLine {
			e.stroke(e.params.Divider(ev.Column, e.headerHeight))
		}
	case layout.EventEndPage:
		e.pages.WriteString("paps_eop\nshowpage\n")
	}
	return nil
}

func (e *emitter) placeLine(ev *layout.Event) {
	line := ev.Line
	if line.Text == "" {
		return
	}
	p := e.params
	x, y := p.LineAnchor(ev.Column, ev.Offset, line.Logical.Width)
	e.setFont(bodyFontKey)

	spaces := strings.Count(line.Text, " ")
	width := layout.PixelsToPoints(line.Logical.Width)
	if line.Justify && spaces > 0 && width < p.ColumnWidth {
		// 两端对齐的行占满整栏
		x = p.ColumnX(ev.Column)
		extra := (p.ColumnWidth - width) / layout.Points(spaces)
		fmt.Fprintf(&e.pages, "%s %s moveto %s 0 32 %s widthshow\n", num(x), num(y), num(extra), e.str(line.Text))
		return
	}
	fmt.Fprintf(&e.pages, "%s %s moveto %s show\n", num(x), num(y), e.str(line.Text))
}

func (e *emitter) setFont(key string) {
	if e.font == key {
		return
	}
	e.font = key
	fmt.Fprintf(&e.pages, "%s setfont\n", key)
}

func (e *emitter) stroke(s layout.Segment) {
	fmt.Fprintf(&e.pages, "%s %s moveto %s %s lineto 0 setlinewidth stroke\n",
		num(s.X1), num(s.Y1), num(s.X2), num(s.Y2))
}

// str 将文本转为 ISO-8859-1 并按 PostScript 字符串语法转义。
func (e *emitter) str(text string) string {
	encoded, err := e.latin1.String(text)
	if err != nil {
		encoded = text
	}
	if n := strings.Count(encoded, "\x1a") - strings.Count(text, "\x1a"); n > 0 {
		e.replaced += n
	}
	return postscript.String(encoded).PS()
}

// num 以最多两位小数输出坐标。
func num(v layout.Points) string {
	s := strconv.FormatFloat(float64(v), 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
