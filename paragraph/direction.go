package paragraph

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/ByLCY/textcols/layout"
)

// strongCounts 统计强方向字符：L 与 R、AL。
func strongCounts(text string) (ltr, rtl int) {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			ltr++
		case bidi.R, bidi.AL:
			rtl++
		}
	}
	return ltr, rtl
}

// DetectDirection 统计强方向字符：从右到左（R、AL）多于从左到右（L）时返回 RightToLeft。
// 没有强方向字符时返回 LeftToRight。
func DetectDirection(text string) layout.Direction {
	if ltr, rtl := strongCounts(text); rtl > ltr {
		return layout.RightToLeft
	}
	return layout.LeftToRight
}

// HasRightToLeft 报告 text 是否含有希伯来文、阿拉伯文等从右到左的文字。
func HasRightToLeft(text string) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		if c := props.Class(); c == bidi.R || c == bidi.AL {
			return true
		}
	}
	return false
}
