package layout

import (
	"strconv"
	"strings"

	"golang.org/x/image/math/fixed"
)

// 本文件定义单位类型：几何参数统一使用 PostScript 点（Points），
// 排版引擎内部（行高、列内游标）统一使用 26.6 定点数（fixed.Int26_6）。
// 两者之间的换算只发生在几何解析与输出阶段。

// Unit 表示配置中长度值的原始单位。
type Unit int

const (
	UnitNone Unit = iota // 无单位数值，按点处理
	UnitMM               // 毫米
	UnitCM               // 厘米
	UnitIN               // 英寸
	UnitPT               // 点
)

// pt 与 mm 的换算常量（canvas 渲染器以 mm 为单位）。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// PixelsPerPoint 是排版单位与点之间的固定比例：1pt = 64 个 26.6 单位。
const PixelsPerPoint = 64

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Points 以 PostScript 点（1/72 英寸）计的长度。
type Points float64

// Pixels 将点换算为排版单位，向零截断（与整型强转语义一致）。
func (p Points) Pixels() fixed.Int26_6 {
	return fixed.Int26_6(float64(p) * PixelsPerPoint)
}

// MM 将点换算为毫米。
func (p Points) MM() float64 { return float64(p) * PtToMm }

// PixelsToPoints 将排版单位换算回点，结果精确。
func PixelsToPoints(v fixed.Int26_6) Points {
	return Points(float64(v) / PixelsPerPoint)
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Points 将长度换算为点；无单位数值视为点（与命令行参数一致）。
func (l Length) Points() Points {
	switch l.Unit {
	case UnitMM:
		return Points(l.Value * MmToPt)
	case UnitCM:
		return Points(l.Value * 10 * MmToPt)
	case UnitIN:
		return Points(l.Value * 72)
	default:
		return Points(l.Value)
	}
}

// ParseLength 解析带单位的长度字符串，例如 "36"、"36pt"、"12.7mm"、"0.5in"。
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
