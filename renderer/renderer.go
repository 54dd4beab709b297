package renderer

import "github.com/ByLCY/textcols/layout"

// Renderer 按顺序消费放置事件，输出最终文件（PostScript 或 PDF）。
// Render 返回完整的文档字节；出错时不返回部分结果。
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}
