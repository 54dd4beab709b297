package layout

import (
	"fmt"
	"strings"

	"golang.org/x/image/math/fixed"
)

// 该文件定义排版引擎与输出端共用的数据结构：已排版的行、放置事件与文档结果。

// Direction 表示书写方向，决定列的排列顺序与行的对齐方式。
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// ParseDirection 解析 ltr/rtl（大小写不敏感）。
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ltr", "":
		return LeftToRight, nil
	case "rtl":
		return RightToLeft, nil
	}
	return LeftToRight, fmt.Errorf("未知的书写方向：%s", s)
}

// FontResource 描述正文或页眉使用的字体。
// Family 可以是内置名称（Monospace/Sans）或 TTF 文件路径。
type FontResource struct {
	Family string `json:"family"`
	Style  string `json:"style,omitempty"` // Regular/Bold/Italic/BoldItalic
	Size   Points `json:"size"`
}

func (f FontResource) String() string {
	if f.Style == "" || f.Style == "Regular" {
		return fmt.Sprintf("%s %g", f.Family, float64(f.Size))
	}
	return fmt.Sprintf("%s %s %g", f.Family, f.Style, float64(f.Size))
}

// Rect 以排版单位记录一行的外接矩形。
type Rect struct {
	X      fixed.Int26_6 `json:"x"`
	Y      fixed.Int26_6 `json:"y"`
	Width  fixed.Int26_6 `json:"width"`
	Height fixed.Int26_6 `json:"height"`
}

// ShapedLine 是排版后端给出的一行文本：已经完成测量与断行。
// 排版引擎只读取其高度与强制分页标记，其余字段原样转交输出端。
type ShapedLine struct {
	Text      string    `json:"text"`
	Paragraph int       `json:"paragraph"`
	Logical   Rect      `json:"logical"`
	Ink       Rect      `json:"ink"`
	Direction Direction `json:"direction"`
	// ForceBreakAfter 表示该行是换页符段落的最后一行，放置后需换列/换页。
	ForceBreakAfter bool `json:"forceBreakAfter,omitempty"`
	// Justify 表示输出时应将该行拉伸至列宽（段落的最后一行不拉伸）。
	Justify bool `json:"justify,omitempty"`
}

// Height 返回逻辑高度。
func (l *ShapedLine) Height() fixed.Int26_6 { return l.Logical.Height }

// EventKind 区分放置事件的类型。
type EventKind int

const (
	EventStartPage EventKind = iota
	EventHeader
	EventStartColumn
	EventPlaceLine
	EventEndColumn
	EventEndPage
)

var eventKindNames = [...]string{"StartPage", "Header", "StartColumn", "PlaceLine", "EndColumn", "EndPage"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event 是排版引擎输出的一个放置事件，输出端须按顺序单遍处理。
type Event struct {
	Kind   EventKind     `json:"kind"`
	Page   int           `json:"page,omitempty"`
	Column int           `json:"column"`
	Offset fixed.Int26_6 `json:"offset,omitempty"` // PlaceLine: 放置后列内累计高度
	Line   *ShapedLine   `json:"line,omitempty"`
	Header *HeaderBlock  `json:"header,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventStartPage, EventEndPage:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Page)
	case EventStartColumn, EventEndColumn:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Column)
	case EventPlaceLine:
		return fmt.Sprintf("%s(%d, %d)", e.Kind, e.Column, int32(e.Offset))
	}
	return e.Kind.String()
}

// Fragment 是页眉中一段已定位的文本（单位：点，页面坐标，y 向上）。
type Fragment struct {
	Text  string `json:"text"`
	X     Points `json:"x"`
	Y     Points `json:"y"`
	Width Points `json:"width"`
}

// Segment 是一条水平或竖直线段（单位：点）。
type Segment struct {
	X1 Points `json:"x1"`
	Y1 Points `json:"y1"`
	X2 Points `json:"x2"`
	Y2 Points `json:"y2"`
}

// HeaderBlock 是某一页的页眉：左、中、右三段文本与一条分隔线。
type HeaderBlock struct {
	Height    Points       `json:"height"`
	Font      FontResource `json:"font"`
	Fragments [3]Fragment  `json:"fragments"`
	Separator *Segment     `json:"separator,omitempty"`
}

// Document 是一次排版的完整结果。
type Document struct {
	Params *Params `json:"params"`
	Events []Event `json:"events"`
	Pages  int     `json:"pages"`
	// Overflows 统计高于列高、被强行放置的行数。
	Overflows int `json:"overflows,omitempty"`
}
