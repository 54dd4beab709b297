package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/textcols/fonts"
	"github.com/ByLCY/textcols/layout"
	"github.com/ByLCY/textcols/renderer"
)

// strokeWidth 是分隔线的线宽（mm），对应 PostScript 中的 0 setlinewidth。
const strokeWidth = 0.1

// Renderer 通过 github.com/tdewolff/canvas 测量文本并输出 PDF。
// 同一个实例既是 layout.Typesetter，也是 renderer.Renderer，保证测量与绘制使用相同字体。
type Renderer struct {
	baseDir string
	wrap    string
	logger  *log.Logger

	// shapeMu 串行化测量：canvas 字体对象不支持并发使用。
	shapeMu sync.Mutex

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	// BaseDir 用于解析相对路径的 TTF 字体。
	BaseDir string
	// Wrap 折行策略：anywhere（默认，优先在空白处断行）、break-word、nowrap。
	Wrap   string
	Logger *log.Logger
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving fonts.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with a wrap mode, logger and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		baseDir:      opts.BaseDir,
		wrap:         opts.Wrap,
		logger:       opts.Logger,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// LayoutLines 实现 layout.Typesetter：按 width（点）贪心折行，返回以排版单位表示的行。
// 内部与 canvas 交互使用 mm，在边界处做 pt↔mm 换算。
func (r *Renderer) LayoutLines(content string, width layout.Points, font layout.FontResource) ([]layout.ShapedLine, error) {
	face, err := r.fontFace(font, canvas.Black)
	if err != nil {
		return nil, err
	}

	limit := math.MaxFloat64
	if width > 0 {
		limit = width.MM()
	}
	r.shapeMu.Lock()
	wrapped := breakLines(expandTabs(content), limit, face.TextWidth, parseWrapMode(r.wrap))
	metrics := face.Metrics()
	r.shapeMu.Unlock()
	if len(wrapped) == 0 {
		wrapped = []wrappedLine{{}}
	}

	height := mmToPoints(metrics.LineHeight).Pixels()
	ascent := mmToPoints(metrics.Ascent).Pixels()
	descent := mmToPoints(metrics.Descent).Pixels()

	lines := make([]layout.ShapedLine, len(wrapped))
	for i, w := range wrapped {
		px := mmToPoints(w.width).Pixels()
		lines[i] = layout.ShapedLine{
			Text:    w.content,
			Logical: layout.Rect{Width: px, Height: height},
			Ink:     layout.Rect{Y: -ascent, Width: px, Height: ascent + descent},
		}
	}
	return lines, nil
}

// Render 遍历放置事件，每页绘制到一个 canvas 上并写入 PDF。
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil || doc.Params == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	p := doc.Params
	if doc.Pages == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	w, h := p.PageWidth.MM(), p.PageHeight.MM()

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(p.Title, "", "", "", "textcols")

	var (
		c            *canvas.Canvas
		ctx          *canvas.Context
		headerHeight layout.Points
		pages        int
	)
	for i := range doc.Events {
		ev := &doc.Events[i]
		switch ev.Kind {
		case layout.EventStartPage:
			if pages > 0 {
				writer.NewPage(w, h)
			}
			pages++
			c = canvas.New(w, h)
			ctx = canvas.NewContext(c)
			ctx.SetCoordSystem(canvas.CartesianI) // y 向上，与点坐标一致
			headerHeight = 0
		case layout.EventHeader:
			if ev.Header == nil {
				continue
			}
			headerHeight = ev.Header.Height
			if err := r.drawHeader(ctx, ev.Header); err != nil {
				return nil, err
			}
		case layout.EventPlaceLine:
			if err := r.drawLine(ctx, p, ev); err != nil {
				return nil, err
			}
		case layout.EventEndColumn:
			if p.SeparationLine {
				drawSegment(ctx, p.Divider(ev.Column, headerHeight))
			}
		case layout.EventEndPage:
			c.RenderTo(writer)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawHeader(ctx *canvas.Context, block *layout.HeaderBlock) error {
	face, err := r.fontFace(block.Font, canvas.Black)
	if err != nil {
		return err
	}
	for _, frag := range block.Fragments {
		if frag.Text == "" {
			continue
		}
		ctx.DrawText(frag.X.MM(), frag.Y.MM(), canvas.NewTextLine(face, frag.Text, canvas.Left))
	}
	if block.Separator != nil {
		drawSegment(ctx, *block.Separator)
	}
	return nil
}

func (r *Renderer) drawLine(ctx *canvas.Context, p *layout.Params, ev *layout.Event) error {
	line := ev.Line
	if line == nil {
		return fmt.Errorf("第 %d 页的放置事件缺少行内容", ev.Page)
	}
	if line.Text == "" {
		return nil
	}
	face, err := r.fontFace(p.BodyFont, canvas.Black)
	if err != nil {
		return err
	}
	x, y := p.LineAnchor(ev.Column, ev.Offset, line.Logical.Width)

	words := strings.Split(line.Text, " ")
	width := layout.PixelsToPoints(line.Logical.Width)
	if !line.Justify || len(words) < 2 || width >= p.ColumnWidth {
		ctx.DrawText(x.MM(), y.MM(), canvas.NewTextLine(face, line.Text, canvas.Left))
		return nil
	}

	// 两端对齐：把剩余宽度平均分配到每个空格
	extra := (p.ColumnWidth - width).MM() / float64(len(words)-1)
	cursor := p.ColumnX(ev.Column).MM()
	space := face.TextWidth(" ")
	for _, word := range words {
		if word != "" {
			ctx.DrawText(cursor, y.MM(), canvas.NewTextLine(face, word, canvas.Left))
		}
		cursor += face.TextWidth(word) + space + extra
	}
	return nil
}

func drawSegment(ctx *canvas.Context, s layout.Segment) {
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(strokeWidth)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo((s.X2 - s.X1).MM(), (s.Y2 - s.Y1).MM())
	ctx.DrawPath(s.X1.MM(), s.Y1.MM(), path)
}

func (r *Renderer) fontFace(font layout.FontResource, col color.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := float64(font.Size)
	if size <= 0 {
		size = float64(layout.DefaultFontSize)
	}
	return family.Face(size, col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = layout.DefaultFontFamily
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		if r.logger != nil {
			r.logger.Warn("字体加载失败，使用内置等宽字体", "font", font.String(), "err", err)
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

// loadFontBytes 按字体族名查找字体：内置名称（Monospace/Sans）或 TTF 文件路径。
func (r *Renderer) loadFontBytes(font layout.FontResource) ([]byte, error) {
	src := strings.TrimSpace(font.Family)
	if src == "" || fonts.IsBuiltin(src) {
		if src == "" {
			src = layout.DefaultFontFamily
		}
		return fonts.Load(src, fonts.ParseStyle(font.Style))
	}
	path := src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("未指定资源目录时不允许使用相对字体路径：%s", src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(layout.DefaultFontFamily, fonts.Regular)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("textcols-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	switch fonts.ParseStyle(style) {
	case fonts.Bold:
		return canvas.FontBold
	case fonts.Italic:
		return canvas.FontRegular | canvas.FontItalic
	case fonts.BoldItalic:
		return canvas.FontBold | canvas.FontItalic
	}
	return canvas.FontRegular
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%d", font.Family, fonts.ParseStyle(font.Style))
}

// mmToPoints 将毫米(mm)转换为点(pt)。
func mmToPoints(mm float64) layout.Points { return layout.Points(mm * layout.MmToPt) }
