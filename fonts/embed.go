package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style 字形风格。
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// ParseStyle 解析 "Bold"、"Italic"、"Bold Italic"、"Oblique" 等写法（大小写不敏感）。
func ParseStyle(s string) Style {
	s = strings.ToLower(s)
	bold := strings.Contains(s, "bold")
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	}
	return Regular
}

type builtin struct {
	ttf [4][]byte
	ps  [4]string // 对应的 PostScript 标准字体
}

var (
	mono = &builtin{
		ttf: [4][]byte{gomono.TTF, gomonobold.TTF, gomonoitalic.TTF, gomonobolditalic.TTF},
		ps:  [4]string{"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique"},
	}
	sans = &builtin{
		ttf: [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF},
		ps:  [4]string{"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
	}
)

func lookup(family string) (*builtin, bool) {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "monospace", "mono", "go mono", "courier":
		return mono, true
	case "sans", "sans-serif", "go", "helvetica":
		return sans, true
	}
	return nil, false
}

// IsBuiltin 判断 family 是否为内置字体名称。
func IsBuiltin(family string) bool {
	_, ok := lookup(family)
	return ok
}

// Load 返回内置字体的 TTF 数据，family 可写为 Monospace 或 Sans。
func Load(family string, style Style) ([]byte, error) {
	b, ok := lookup(family)
	if !ok {
		return nil, fmt.Errorf("未知的内置字体 %s", family)
	}
	return b.ttf[style], nil
}

// PostScriptName 返回与 family/style 对应的 PostScript 标准字体名；
// 非内置字体统一映射为 Courier 系列。
func PostScriptName(family string, style Style) string {
	b, ok := lookup(family)
	if !ok {
		b = mono
	}
	return b.ps[style]
}
