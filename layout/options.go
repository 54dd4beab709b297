package layout

import "github.com/charmbracelet/log"

// FlowOptions 配置排版引擎的可选协作者。
type FlowOptions struct {
	// Header 非空时为每页生成页眉事件。
	Header *HeaderComposer
	// Logger 记录超高行等非致命情况；为空时不输出日志。
	Logger *log.Logger
}

// Typesetter 负责按宽度约束将文本断行并测量每一行。
// width <= 0 表示不折行；返回的行至少有一行（空文本对应一个空行）。
type Typesetter interface {
	LayoutLines(content string, width Points, font FontResource) ([]ShapedLine, error)
}
