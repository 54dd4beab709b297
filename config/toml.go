package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/textcols/layout"
)

// tomlJob 对应 .toml 作业文件；指针字段为 nil 表示未设置。
type tomlJob struct {
	Title    *string    `toml:"title"`
	Encoding *string    `toml:"encoding"`
	Format   *string    `toml:"format"`
	Output   *string    `toml:"output"`
	Wrap     *string    `toml:"wrap"`
	Page     tomlPage   `toml:"page"`
	Fonts    tomlFonts  `toml:"fonts"`
	Header   tomlHeader `toml:"header"`
}

type tomlPage struct {
	Paper            *string     `toml:"paper"`
	Landscape        *bool       `toml:"landscape"`
	Columns          *int        `toml:"columns"`
	Gutter           *tomlLength `toml:"gutter"`
	Margin           *tomlMargin `toml:"margin"`
	HeaderSeparation *tomlLength `toml:"header_separation"`
	Direction        *string     `toml:"direction"`
	Justify          *bool       `toml:"justify"`
	SeparationLine   *bool       `toml:"separation_line"`
	Duplex           *bool       `toml:"duplex"`
	Tumble           *bool       `toml:"tumble"`
}

type tomlMargin struct {
	Top    *tomlLength `toml:"top"`
	Right  *tomlLength `toml:"right"`
	Bottom *tomlLength `toml:"bottom"`
	Left   *tomlLength `toml:"left"`
}

type tomlFonts struct {
	Body   *tomlFont `toml:"body"`
	Header *tomlFont `toml:"header"`
}

type tomlFont struct {
	Family *string     `toml:"family"`
	Style  *string     `toml:"style"`
	Size   *tomlLength `toml:"size"`
}

type tomlHeader struct {
	Enabled    *bool    `toml:"enabled"`
	Templates  []string `toml:"templates"`
	DateFormat *string  `toml:"date_format"`
}

// tomlLength 接受数字（按点计）或带单位的字符串，如 "12.7mm"。
type tomlLength layout.Points

func (l *tomlLength) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		*l = tomlLength(x)
	case float64:
		*l = tomlLength(x)
	case string:
		parsed, ok := layout.ParseLength(x)
		if !ok {
			return fmt.Errorf("无法解析长度 %q", x)
		}
		*l = tomlLength(parsed.Points())
	default:
		return fmt.Errorf("长度需要数字或字符串，实际为 %T", v)
	}
	return nil
}

// ParseTOML 解析 TOML 作业文件。未知的键视为配置错误。
func ParseTOML(data []byte) (*Job, error) {
	var raw tomlJob
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &layout.ConfigError{Field: "toml", Reason: err.Error()}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &layout.ConfigError{Field: "toml", Reason: "未知的设置 " + strings.Join(keys, ", ")}
	}

	job := Default()
	if err := raw.apply(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (t *tomlJob) apply(j *Job) error {
	setString(&j.Layout.Title, t.Title)
	setString(&j.Encoding, t.Encoding)
	setString(&j.Output, t.Output)
	setString(&j.Wrap, t.Wrap)
	if t.Format != nil {
		j.Format = strings.ToLower(*t.Format)
	}

	p := t.Page
	setString(&j.Layout.Paper, p.Paper)
	setBool(&j.Layout.Landscape, p.Landscape)
	if p.Columns != nil {
		j.Layout.Columns = *p.Columns
	}
	setLength(&j.Layout.Gutter, p.Gutter)
	setLength(&j.Layout.HeaderSep, p.HeaderSeparation)
	if m := p.Margin; m != nil {
		setLength(&j.Layout.Margin.Top, m.Top)
		setLength(&j.Layout.Margin.Right, m.Right)
		setLength(&j.Layout.Margin.Bottom, m.Bottom)
		setLength(&j.Layout.Margin.Left, m.Left)
	}
	if p.Direction != nil {
		if err := j.SetDirection(*p.Direction); err != nil {
			return err
		}
	}
	setBool(&j.Layout.Justify, p.Justify)
	setBool(&j.Layout.SeparationLine, p.SeparationLine)
	if p.Duplex != nil {
		j.Layout.Duplex = p.Duplex
	}
	if p.Tumble != nil {
		j.Layout.Tumble = p.Tumble
	}

	t.Fonts.Body.apply(&j.Layout.BodyFont)
	t.Fonts.Header.apply(&j.Layout.HeaderFont)

	h := t.Header
	setBool(&j.Header.Enabled, h.Enabled)
	if h.Templates != nil {
		if err := j.SetTemplates(h.Templates); err != nil {
			return err
		}
	}
	setString(&j.Header.DateFormat, h.DateFormat)
	return nil
}

func (f *tomlFont) apply(font *layout.FontResource) {
	if f == nil {
		return
	}
	setString(&font.Family, f.Family)
	setString(&font.Style, f.Style)
	setLength(&font.Size, f.Size)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setLength(dst *layout.Points, v *tomlLength) {
	if v != nil {
		*dst = layout.Points(*v)
	}
}
