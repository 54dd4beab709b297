package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/textcols/dsl"
	"github.com/ByLCY/textcols/layout"
)

// ParseDSL 解析作业 DSL：
//
//	job Report v1 {
//	  meta { title: "notes.txt"; encoding: "latin1" }
//	  fonts { font Body { family: "Sans"; size: 11pt } }
//	  page Letter landscape margin 18mm 24pt {
//	    columns: 2
//	    header { enabled: true }
//	  }
//	}
func ParseDSL(src string) (*Job, error) {
	doc, err := dsl.ParseString(src)
	if err != nil {
		return nil, &layout.ConfigError{Field: "dsl", Reason: err.Error()}
	}
	job := Default()
	job.Name = doc.Name
	for _, section := range doc.Sections {
		switch {
		case section.Meta != nil:
			err = job.applyMeta(section.Meta.Block)
		case section.Fonts != nil:
			err = job.applyFonts(section.Fonts.Block)
		case section.Page != nil:
			err = job.applyPage(section.Page)
		}
		if err != nil {
			return nil, err
		}
	}
	return job, nil
}

func (j *Job) applyMeta(block *dsl.Block) error {
	for _, a := range block.Assignments() {
		value := a.Value.Text()
		switch strings.ToLower(a.Key) {
		case "title":
			j.Layout.Title = value
		case "encoding":
			j.Encoding = value
		case "format":
			j.Format = strings.ToLower(value)
		case "output":
			j.Output = value
		case "wrap":
			j.Wrap = value
		default:
			return unknownKey("meta", a.Key)
		}
	}
	return nil
}

func (j *Job) applyFonts(block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		if cmd.Name != "font" || len(cmd.Args) == 0 {
			return &layout.ConfigError{Field: "fonts", Reason: fmt.Sprintf("第 %d 行：需要 font Body { ... } 或 font Header { ... }", cmd.Pos.Line)}
		}
		var target *layout.FontResource
		switch role := strings.ToLower(cmd.Args[0].Text()); role {
		case "body":
			target = &j.Layout.BodyFont
		case "header":
			target = &j.Layout.HeaderFont
		default:
			return &layout.ConfigError{Field: "fonts", Reason: fmt.Sprintf("未知的字体用途 %q", cmd.Args[0].Text())}
		}
		if err := applyFont(target, cmd.Block); err != nil {
			return err
		}
	}
	return nil
}

func applyFont(font *layout.FontResource, block *dsl.Block) error {
	for _, a := range block.Assignments() {
		value := a.Value.Text()
		switch strings.ToLower(a.Key) {
		case "family", "src":
			font.Family = value
		case "style":
			font.Style = value
		case "size":
			size, err := parseLength("font-size", value)
			if err != nil {
				return err
			}
			font.Size = size
		default:
			return unknownKey("font", a.Key)
		}
	}
	return nil
}

func (j *Job) applyPage(section *dsl.PageSection) error {
	j.Layout.Paper = section.Spec.Size
	if err := j.applyPageParams(section.Spec.Params); err != nil {
		return err
	}
	block := section.Block
	if block == nil {
		return nil
	}
	for _, a := range block.Assignments() {
		if err := j.setPage(strings.ToLower(a.Key), a.Value.Text()); err != nil {
			return err
		}
	}
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		if stmt.Command.Name != "header" {
			return unknownKey("page", stmt.Command.Name)
		}
		if err := j.applyHeader(stmt.Command.Block); err != nil {
			return err
		}
	}
	return nil
}

// applyPageParams 处理 page 声明行上的 landscape/portrait 与 margin，
// margin 后跟 1~4 个长度，含义与 CSS 相同。
func (j *Job) applyPageParams(params []*dsl.Lexeme) error {
	for i := 0; i < len(params); i++ {
		switch strings.ToLower(params[i].Text()) {
		case "landscape":
			j.Layout.Landscape = true
		case "portrait":
			j.Layout.Landscape = false
		case "margin":
			var vals []layout.Points
			for i+1 < len(params) && len(vals) < 4 {
				l, ok := layout.ParseLength(params[i+1].Text())
				if !ok {
					break
				}
				vals = append(vals, l.Points())
				i++
			}
			if len(vals) == 0 {
				return &layout.ConfigError{Field: "margin", Reason: "margin 后需要至少一个长度"}
			}
			j.Layout.Margin = cssMargin(vals)
		default:
			return &layout.ConfigError{Field: "page", Reason: fmt.Sprintf("无法识别的参数 %q", params[i].Text())}
		}
	}
	return nil
}

func cssMargin(v []layout.Points) layout.Margin {
	switch len(v) {
	case 1:
		return layout.Margin{Top: v[0], Right: v[0], Bottom: v[0], Left: v[0]}
	case 2:
		return layout.Margin{Top: v[0], Right: v[1], Bottom: v[0], Left: v[1]}
	case 3:
		return layout.Margin{Top: v[0], Right: v[1], Bottom: v[2], Left: v[1]}
	default:
		return layout.Margin{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
	}
}

func (j *Job) setPage(key, value string) error {
	var err error
	switch key {
	case "paper":
		j.Layout.Paper = value
	case "columns":
		j.Layout.Columns, err = parseInt("columns", value)
	case "gutter":
		j.Layout.Gutter, err = parseLength("gutter", value)
	case "margin-top":
		j.Layout.Margin.Top, err = parseLength("top-margin", value)
	case "margin-right":
		j.Layout.Margin.Right, err = parseLength("right-margin", value)
	case "margin-bottom":
		j.Layout.Margin.Bottom, err = parseLength("bottom-margin", value)
	case "margin-left":
		j.Layout.Margin.Left, err = parseLength("left-margin", value)
	case "header-separation":
		j.Layout.HeaderSep, err = parseLength("header-separation", value)
	case "direction":
		err = j.SetDirection(value)
	case "justify":
		j.Layout.Justify, err = parseBool("justify", value)
	case "separation-line":
		j.Layout.SeparationLine, err = parseBool("separation-line", value)
	case "duplex":
		err = setOptionalBool(&j.Layout.Duplex, "duplex", value)
	case "tumble":
		err = setOptionalBool(&j.Layout.Tumble, "tumble", value)
	case "landscape":
		j.Layout.Landscape, err = parseBool("landscape", value)
	default:
		return unknownKey("page", key)
	}
	return err
}

func (j *Job) applyHeader(block *dsl.Block) error {
	j.Header.Enabled = true
	for _, a := range block.Assignments() {
		var err error
		switch strings.ToLower(a.Key) {
		case "enabled":
			j.Header.Enabled, err = parseBool("header", a.Value.Text())
		case "templates":
			err = j.SetTemplates(a.Value.Strings())
		case "left":
			j.Header.Templates[0] = a.Value.Text()
		case "center":
			j.Header.Templates[1] = a.Value.Text()
		case "right":
			j.Header.Templates[2] = a.Value.Text()
		case "date-format":
			j.Header.DateFormat = a.Value.Text()
		default:
			return unknownKey("header", a.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func setOptionalBool(dst **bool, field, value string) error {
	b, err := parseBool(field, value)
	if err != nil {
		return err
	}
	*dst = &b
	return nil
}

func unknownKey(scope, key string) error {
	return &layout.ConfigError{Field: scope, Reason: fmt.Sprintf("未知的设置 %s", strconv.Quote(key))}
}
