// Package config 汇总一次排版作业的设置：内置默认值 ← 作业描述文件（.paps 或 .toml）← 命令行参数。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ByLCY/textcols/binding"
	"github.com/ByLCY/textcols/layout"
)

// 输出格式。
const (
	FormatPostScript = "ps"
	FormatPDF        = "pdf"
)

// HeaderFields 是页眉模板可引用的字段。
var HeaderFields = []string{"date", "title", "page", "paper", "columns"}

// Header 描述页眉：是否绘制、三段模板与日期格式。
type Header struct {
	Enabled    bool
	Templates  [3]string
	DateFormat string
}

// Job 是一次排版作业的完整设置。
type Job struct {
	Name   string
	Layout layout.Config
	Header Header
	// AutoDirection 为 true 时根据输入文本判断书写方向，覆盖 Layout.Direction。
	AutoDirection bool
	Encoding      string
	Format        string
	Output        string
	Wrap          string
}

// Default 返回默认作业：A4、单栏、PostScript 输出、不绘制页眉。
func Default() *Job {
	return &Job{
		Name:   "textcols",
		Layout: layout.DefaultConfig(),
		Header: Header{
			Templates:  layout.DefaultHeaderTemplates,
			DateFormat: layout.DefaultDateLayout,
		},
		Format: FormatPostScript,
	}
}

// Load 按扩展名读取作业描述文件：.paps 使用作业 DSL，.toml 使用 TOML。
// 文件中未出现的设置保留默认值。
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	var job *Job
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".paps", ".job":
		job, err = ParseDSL(string(data))
	case ".toml":
		job, err = ParseTOML(data)
	default:
		return nil, &layout.ConfigError{Field: "config", Reason: fmt.Sprintf("不支持的配置文件类型 %q（支持 .paps、.toml）", ext)}
	}
	if err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return job, nil
}

// LayoutConfig 返回交给几何解析的配置。
func (j *Job) LayoutConfig() layout.Config {
	cfg := j.Layout
	cfg.DrawHeader = j.Header.Enabled
	return cfg
}

// Validate 检查与几何无关的设置：输出格式、折行策略与页眉模板字段。
func (j *Job) Validate() error {
	switch j.Format {
	case FormatPostScript, FormatPDF:
	default:
		return &layout.ConfigError{Field: "format", Reason: fmt.Sprintf("未知的输出格式 %q（支持 ps、pdf）", j.Format)}
	}
	switch j.Wrap {
	case "", "anywhere", "break-word", "nowrap":
	default:
		return &layout.ConfigError{Field: "wrap", Reason: fmt.Sprintf("未知的折行策略 %q", j.Wrap)}
	}
	for _, tmpl := range j.Header.Templates {
		for _, name := range binding.Placeholders(tmpl) {
			if !knownField(name) {
				return &layout.ConfigError{Field: "header", Reason: fmt.Sprintf("页眉模板引用了未知字段 ${%s}", name)}
			}
		}
	}
	return nil
}

func knownField(name string) bool {
	for _, f := range HeaderFields {
		if f == name {
			return true
		}
	}
	return false
}

// SetDirection 解析 ltr、rtl 或 auto。
func (j *Job) SetDirection(value string) error {
	if strings.EqualFold(strings.TrimSpace(value), "auto") {
		j.AutoDirection = true
		return nil
	}
	d, err := layout.ParseDirection(value)
	if err != nil {
		return &layout.ConfigError{Field: "direction", Reason: err.Error()}
	}
	j.AutoDirection = false
	j.Layout.Direction = d
	return nil
}

// SetTemplates 按左、中、右顺序设置页眉模板；少于三项时其余保持不变。
func (j *Job) SetTemplates(templates []string) error {
	if len(templates) > 3 {
		return &layout.ConfigError{Field: "header", Reason: fmt.Sprintf("页眉模板最多三项，实际 %d 项", len(templates))}
	}
	copy(j.Header.Templates[:], templates)
	return nil
}

func parseLength(field, value string) (layout.Points, error) {
	l, ok := layout.ParseLength(value)
	if !ok {
		return 0, &layout.ConfigError{Field: field, Reason: fmt.Sprintf("无法解析长度 %q", value)}
	}
	return l.Points(), nil
}

func parseBool(field, value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, &layout.ConfigError{Field: field, Reason: fmt.Sprintf("需要 true 或 false，实际为 %q", value)}
	}
	return b, nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &layout.ConfigError{Field: field, Reason: fmt.Sprintf("需要整数，实际为 %q", value)}
	}
	return n, nil
}
