package layout

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/image/math/fixed"
)

// flowState 是一次排版过程独占的可变状态。
type flowState struct {
	params   *Params
	header   *HeaderComposer
	stamp    string
	logger   *log.Logger
	capacity fixed.Int26_6

	page      int
	column    int
	cursor    fixed.Int26_6
	prevBreak bool

	events    []Event
	overflows int
}

// Flow 将已排版的行依次放入页与栏，输出放置事件序列。
//
// 放置第 i 行之前先判断是否需要换栏：当前游标加上行高达到列容量，或上一行带有
// 强制分页标记（换页符的效果推迟一行，在其所在段落的最后一行放置之后才生效）。
// 两个条件同时成立时只前进一次。高于列高的行照常放置，不会报错。
func Flow(lines []ShapedLine, p *Params, opts FlowOptions) (*Document, error) {
	if p == nil {
		return nil, fmt.Errorf("layout: 缺少版面参数")
	}
	f := &flowState{
		params:   p,
		header:   opts.Header,
		logger:   opts.Logger,
		capacity: p.Capacity(),
		page:     1,
		events:   make([]Event, 0, len(lines)+8),
	}
	if f.header != nil {
		f.stamp = f.header.timestamp()
	}

	if err := f.startPage(); err != nil {
		return nil, err
	}
	for i := range lines {
		line := &lines[i]
		h := line.Height()
		overflow := f.cursor+h >= f.capacity
		if overflow || f.prevBreak {
			if err := f.advance(); err != nil {
				return nil, err
			}
		}
		if h > f.capacity {
			f.overflows++
			if f.logger != nil {
				f.logger.Debug("行高超出栏高，强行放置", "page", f.page, "column", f.column, "paragraph", line.Paragraph, "height", float64(PixelsToPoints(h)))
			}
		}
		f.events = append(f.events, Event{
			Kind:   EventPlaceLine,
			Page:   f.page,
			Column: f.column,
			Offset: f.cursor + h,
			Line:   line,
		})
		f.cursor += h
		f.prevBreak = line.ForceBreakAfter
	}
	f.events = append(f.events, Event{Kind: EventEndPage, Page: f.page, Column: f.column})

	return &Document{
		Params:    p,
		Events:    f.events,
		Pages:     f.page,
		Overflows: f.overflows,
	}, nil
}

func (f *flowState) startPage() error {
	f.events = append(f.events, Event{Kind: EventStartPage, Page: f.page})
	if f.header == nil {
		return nil
	}
	block, err := f.header.compose(f.params, f.page, f.stamp)
	if err != nil {
		return fmt.Errorf("生成第 %d 页页眉失败: %w", f.page, err)
	}
	f.events = append(f.events, Event{Kind: EventHeader, Page: f.page, Header: block})
	return nil
}

// advance 前进到下一栏，必要时换页。
func (f *flowState) advance() error {
	old := f.column
	f.column++
	f.cursor = 0
	if f.column == f.params.Columns {
		f.events = append(f.events, Event{Kind: EventEndPage, Page: f.page, Column: old})
		f.page++
		f.column = 0
		return f.startPage()
	}
	if f.params.SeparationLine {
		f.events = append(f.events, Event{Kind: EventEndColumn, Page: f.page, Column: old})
	}
	f.events = append(f.events, Event{Kind: EventStartColumn, Page: f.page, Column: f.column})
	return nil
}
