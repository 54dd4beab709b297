package canvasrenderer

import (
	"math"
	"strings"
	"unicode"
)

// tabWidth 是制表符展开的列宽。
const tabWidth = 8

// wrapMode 是折行策略。
type wrapMode int

const (
	// wrapAnywhere 优先在空白处断行，单词超过行宽时在词内断开。
	wrapAnywhere wrapMode = iota
	// wrapBreakWord 不考虑空白，逐字符填满每一行。
	wrapBreakWord
	// wrapNone 只在显式换行处断开。
	wrapNone
)

func parseWrapMode(s string) wrapMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "break-word":
		return wrapBreakWord
	case "nowrap":
		return wrapNone
	}
	return wrapAnywhere
}

// measureFunc 返回一段文本的宽度（mm）。
type measureFunc func(string) float64

type wrappedLine struct {
	content string
	width   float64 // mm
}

// lineBreaker 累积当前行，超过 limit 时输出。
type lineBreaker struct {
	limit   float64
	measure measureFunc
	lines   []wrappedLine
	cur     strings.Builder
	width   float64
}

func (b *lineBreaker) fits(w float64) bool {
	return b.cur.Len() == 0 || b.width+w <= b.limit
}

func (b *lineBreaker) add(s string, w float64) {
	b.cur.WriteString(s)
	b.width += w
}

// flush 结束当前行并去掉行尾空白；keepEmpty 为 true 时空行也会输出（显式换行）。
func (b *lineBreaker) flush(keepEmpty bool) {
	content := b.cur.String()
	line := strings.TrimRightFunc(content, unicode.IsSpace)
	width := b.width
	if tail := content[len(line):]; tail != "" {
		width = math.Max(0, width-b.measure(tail))
	}
	b.cur.Reset()
	b.width = 0
	if line == "" && !keepEmpty {
		return
	}
	b.lines = append(b.lines, wrappedLine{content: line, width: width})
}

// breakLines 按 limit（mm）贪心折行。返回至少一行；断行处的空白被丢弃。
func breakLines(content string, limit float64, measure measureFunc, mode wrapMode) []wrappedLine {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	b := &lineBreaker{limit: limit, measure: measure}
	for i, hard := range strings.Split(strings.ReplaceAll(content, "\r", ""), "\n") {
		if i > 0 {
			b.flush(true)
		}
		switch mode {
		case wrapNone:
			b.add(hard, measure(hard))
		case wrapBreakWord:
			b.addRunes(hard)
		default:
			for _, tok := range splitSpaces(hard) {
				b.addToken(tok)
			}
		}
	}
	b.flush(true)
	return b.lines
}

func (b *lineBreaker) addRunes(s string) {
	for _, r := range s {
		ch := string(r)
		w := b.measure(ch)
		if !b.fits(w) {
			b.flush(false)
		}
		b.add(ch, w)
	}
}

func (b *lineBreaker) addToken(tok string) {
	w := b.measure(tok)
	if w <= b.limit && b.fits(w) {
		b.add(tok, w)
		return
	}
	b.flush(false)
	if strings.TrimSpace(tok) == "" {
		return
	}
	if w <= b.limit {
		b.add(tok, w)
		return
	}
	// 单词本身超过行宽：在词内断开
	for _, piece := range b.splitWord(tok) {
		pw := b.measure(piece)
		if !b.fits(pw) {
			b.flush(false)
		}
		b.add(piece, pw)
	}
}

// splitWord 把超宽单词切成不超过行宽的片段，每段至少一个字符。
func (b *lineBreaker) splitWord(word string) []string {
	var pieces []string
	runes := []rune(word)
	start := 0
	for end := 1; end <= len(runes); end++ {
		if end-start > 1 && b.measure(string(runes[start:end])) > b.limit {
			pieces = append(pieces, string(runes[start:end-1]))
			start = end - 1
		}
	}
	return append(pieces, string(runes[start:]))
}

// splitSpaces 把一行切成交替的空白段与非空白段。
func splitSpaces(s string) []string {
	var tokens []string
	start := 0
	prevSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > start && space != prevSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// expandTabs 将制表符展开为空格，对齐到 tabWidth 列。
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var out strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := tabWidth - col%tabWidth
			out.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			out.WriteRune(r)
			col = 0
		default:
			out.WriteRune(r)
			col++
		}
	}
	return out.String()
}
