// Package paragraph 将输入文本切分为段落，并通过排版后端把段落转换为已排版的行。
package paragraph

import (
	"context"
	"fmt"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/textcols/layout"
)

// Paragraph 是以换行符或换页符结尾的一段文本，Start/Length 为其在输入中的字节区间。
type Paragraph struct {
	Text   string
	Start  int
	Length int
	// FormFeed 表示该段以换页符结束，其最后一行放置后需要换栏。
	FormFeed bool
}

// Split 按 '\n' 与 '\f' 切分文本。缺少结尾换行时补上一个，因此最后一段总是完整的；
// 空行对应空段落。遇到非法 UTF-8 时在该处截断：之前的内容作为一个段落保留，
// 其后全部丢弃。invalidAt 为非法字节的偏移，输入合法时为 -1。
func Split(text string) (paras []Paragraph, invalidAt int) {
	if len(text) == 0 || text[len(text)-1] != '\n' {
		text += "\n"
	}
	invalidAt = -1
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			paras = append(paras, Paragraph{Text: text[start:i], Start: start, Length: i - start})
			return paras, i
		}
		if r == '\n' || r == '\f' {
			paras = append(paras, Paragraph{
				Text:     text[start:i],
				Start:    start,
				Length:   i - start,
				FormFeed: r == '\f',
			})
			start = i + size
		}
		i += size
	}
	return paras, invalidAt
}

// ShapeOptions 是段落排版的参数。
type ShapeOptions struct {
	// Width 为折行宽度（通常为栏宽）。
	Width     layout.Points
	Font      layout.FontResource
	Justify   bool
	Direction layout.Direction
	// Workers 限制并发排版的段落数，<= 0 时取 GOMAXPROCS。
	Workers int
}

// Shape 将段落交给 Typesetter 折行与测量，按输入顺序返回所有行。
// 换页符段落的最后一行标记 ForceBreakAfter；两端对齐时，除段落末行外的行标记 Justify。
// 任一段落失败时返回第一个错误，不返回部分结果。
func Shape(ctx context.Context, paras []Paragraph, ts layout.Typesetter, opts ShapeOptions) ([]layout.ShapedLine, error) {
	if ts == nil {
		return nil, fmt.Errorf("paragraph: 缺少排版后端 Typesetter")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]layout.ShapedLine, len(paras))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range paras {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lines, err := ts.LayoutLines(paras[i].Text, opts.Width, opts.Font)
			if err != nil {
				return fmt.Errorf("排版第 %d 段失败: %w", i+1, err)
			}
			if len(lines) == 0 {
				lines = []layout.ShapedLine{{}}
			}
			last := len(lines) - 1
			for j := range lines {
				lines[j].Paragraph = i
				lines[j].Direction = opts.Direction
				lines[j].Justify = opts.Justify && j < last
				lines[j].ForceBreakAfter = paras[i].FormFeed && j == last
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, lines := range results {
		total += len(lines)
	}
	out := make([]layout.ShapedLine, 0, total)
	for _, lines := range results {
		out = append(out, lines...)
	}
	return out, nil
}
