package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/textcols/layout"
)

var styleWords = map[string]bool{"bold": true, "italic": true, "oblique": true, "regular": true, "normal": true}

// ParseFontSpec 解析 "Family [Style...] [Size]" 形式的字体描述，例如 "Monospace Bold 12"。
// 未给出的部分沿用 base。
func ParseFontSpec(spec string, base layout.FontResource) (layout.FontResource, error) {
	words := strings.Fields(spec)
	if len(words) == 0 {
		return base, &layout.ConfigError{Field: "font", Reason: "字体描述为空"}
	}
	font := base
	if size, err := strconv.ParseFloat(words[len(words)-1], 64); err == nil {
		font.Size = layout.Points(size)
		words = words[:len(words)-1]
	}
	var style []string
	for len(words) > 0 && styleWords[strings.ToLower(words[len(words)-1])] {
		style = append([]string{words[len(words)-1]}, style...)
		words = words[:len(words)-1]
	}
	if len(style) > 0 {
		font.Style = strings.Join(style, " ")
	}
	if len(words) > 0 {
		font.Family = strings.Join(words, " ")
	}
	if font.Size <= 0 {
		return base, &layout.ConfigError{Field: "font", Reason: fmt.Sprintf("字号必须为正数：%q", spec)}
	}
	return font, nil
}
