// Package binding 实现页眉模板中 ${name} 占位符的替换。
package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 或 ${a.b} 替换为 fields 中的值。
// 未知的占位符保持原样。
func Interpolate(text string, fields map[string]any) string {
	if len(fields) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := resolvePath(fields, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders 按出现顺序返回模板中引用的字段名。
func Placeholders(text string) []string {
	var names []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		if name := strings.TrimSpace(groups[1]); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func resolvePath(fields map[string]any, path string) (any, bool) {
	var current any = fields
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
