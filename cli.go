package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ByLCY/textcols/config"
	"github.com/ByLCY/textcols/layout"
	"github.com/ByLCY/textcols/paragraph"
	"github.com/ByLCY/textcols/renderer"
	canvasrenderer "github.com/ByLCY/textcols/renderer/canvas"
	psrenderer "github.com/ByLCY/textcols/renderer/postscript"
)

var version = "dev"

// lengthValue 是接受带单位长度（36、12.7mm、0.5in）的命令行参数。
type lengthValue layout.Points

func (v *lengthValue) String() string { return fmt.Sprintf("%g", float64(*v)) }
func (v *lengthValue) Type() string   { return "length" }

func (v *lengthValue) Set(s string) error {
	l, ok := layout.ParseLength(s)
	if !ok {
		return fmt.Errorf("无法解析长度 %q", s)
	}
	*v = lengthValue(l.Points())
	return nil
}

type cliOptions struct {
	configPath string
	output     string
	format     string
	debugPath  string
	verbose    bool

	paper        string
	landscape    bool
	columns      int
	gutter       lengthValue
	topMargin    lengthValue
	bottomMargin lengthValue
	leftMargin   lengthValue
	rightMargin  lengthValue
	fontScale    float64
	family       string
	headerFont   string
	rtl          bool
	direction    string
	justify      bool
	header       bool
	noSeparation bool
	duplex       bool
	tumble       bool
	encoding     string
	wrap         string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:           "textcols [file]",
		Short:         "将纯文本排版为多栏 PostScript 或 PDF",
		Long:          "textcols 读取纯文本（文件或标准输入），按纸张、分栏与页眉设置分页，输出 PostScript 或 PDF。",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := buildJob(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return run(cmd.Context(), job, input, opts.debugPath, stdin, stdout)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	bindFlags(cmd, opts)
	return cmd
}

func bindFlags(cmd *cobra.Command, opts *cliOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "作业描述文件（.paps 或 .toml）")
	f.StringVarP(&opts.output, "output", "o", "", "输出文件路径（默认写到标准输出）")
	f.StringVar(&opts.format, "format", config.FormatPostScript, "输出格式：ps 或 pdf")
	f.StringVar(&opts.debugPath, "debug", "", "将放置事件写入 JSON 文件")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")

	f.StringVar(&opts.paper, "paper", "A4", "纸张：A4、Letter、Legal")
	f.BoolVar(&opts.landscape, "landscape", false, "横向排版")
	f.IntVar(&opts.columns, "columns", 1, "栏数")
	f.Var(&opts.gutter, "gutter", "栏间距（默认 40pt）")
	f.Var(&opts.topMargin, "top-margin", "上边距（默认 36pt）")
	f.Var(&opts.bottomMargin, "bottom-margin", "下边距（默认 36pt）")
	f.Var(&opts.leftMargin, "left-margin", "左边距（默认 36pt）")
	f.Var(&opts.rightMargin, "right-margin", "右边距（默认 36pt）")
	f.Float64Var(&opts.fontScale, "font-scale", float64(layout.DefaultFontSize), "正文字号（点）")
	f.StringVar(&opts.family, "family", layout.DefaultFontFamily, "正文字体：Monospace、Sans 或 TTF 路径")
	f.StringVar(&opts.headerFont, "header-font", "", `页眉字体，例如 "Monospace Bold 12"`)
	f.BoolVar(&opts.rtl, "rtl", false, "从右到左排版")
	f.StringVar(&opts.direction, "direction", "ltr", "书写方向：ltr、rtl 或 auto")
	f.BoolVar(&opts.justify, "justify", false, "两端对齐")
	f.BoolVar(&opts.header, "header", false, "绘制页眉（日期、标题、页码）")
	f.BoolVar(&opts.noSeparation, "no-separation-line", false, "不绘制栏间分隔线")
	f.BoolVar(&opts.duplex, "duplex", true, "请求双面打印")
	f.BoolVar(&opts.tumble, "tumble", true, "双面打印时短边翻转")
	f.StringVar(&opts.encoding, "encoding", "", "输入文本编码（IANA 名称），默认按 UTF-8 读取")
	f.StringVar(&opts.wrap, "wrap", "", "折行策略：anywhere、break-word、nowrap")
}

// buildJob 依次叠加默认值、作业描述文件与显式给出的命令行参数。
func buildJob(flags *pflag.FlagSet, opts *cliOptions) (*config.Job, error) {
	job := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		job = loaded
	}

	cfg := &job.Layout
	set := flags.Changed
	if set("output") {
		job.Output = opts.output
	}
	if set("format") {
		job.Format = strings.ToLower(opts.format)
	}
	if set("encoding") {
		job.Encoding = opts.encoding
	}
	if set("wrap") {
		job.Wrap = opts.wrap
	}
	if set("paper") {
		cfg.Paper = opts.paper
	}
	if set("landscape") {
		cfg.Landscape = opts.landscape
	}
	if set("columns") {
		cfg.Columns = opts.columns
	}
	for name, dst := range map[string]*layout.Points{
		"gutter":        &cfg.Gutter,
		"top-margin":    &cfg.Margin.Top,
		"bottom-margin": &cfg.Margin.Bottom,
		"left-margin":   &cfg.Margin.Left,
		"right-margin":  &cfg.Margin.Right,
	} {
		if set(name) {
			v, _ := flags.Lookup(name).Value.(*lengthValue)
			*dst = layout.Points(*v)
		}
	}
	if set("font-scale") {
		cfg.BodyFont.Size = layout.Points(opts.fontScale)
	}
	if set("family") {
		cfg.BodyFont.Family = opts.family
	}
	if set("header-font") {
		font, err := config.ParseFontSpec(opts.headerFont, cfg.HeaderFont)
		if err != nil {
			return nil, err
		}
		cfg.HeaderFont = font
	}
	if set("direction") {
		if err := job.SetDirection(opts.direction); err != nil {
			return nil, err
		}
	}
	if set("rtl") && opts.rtl {
		job.AutoDirection = false
		cfg.Direction = layout.RightToLeft
	}
	if set("justify") {
		cfg.Justify = opts.justify
	}
	if set("header") {
		job.Header.Enabled = opts.header
	}
	if set("no-separation-line") {
		cfg.SeparationLine = !opts.noSeparation
	}
	if set("duplex") {
		cfg.Duplex = &opts.duplex
	}
	if set("tumble") {
		cfg.Tumble = &opts.tumble
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// run 串联解码、分段、排版、分页与渲染。输出仅在渲染成功后写入。
func run(ctx context.Context, job *config.Job, inputPath, debugPath string, stdin io.Reader, stdout io.Writer) error {
	logger := loggerFromContext(ctx)

	src := stdin
	if inputPath != "" && inputPath != "-" {
		file, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("无法打开输入文件 %s: %w", inputPath, err)
		}
		defer file.Close()
		src = file
		if job.Layout.Title == layout.DefaultConfig().Title {
			job.Layout.Title = inputPath
		}
	}

	text, err := paragraph.Decode(src, job.Encoding)
	if err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}
	paras, invalidAt := paragraph.Split(text)
	if invalidAt >= 0 {
		logger.Warn("输入包含无效字符，其后的内容已忽略", "offset", invalidAt)
	}
	if job.AutoDirection {
		job.Layout.Direction = paragraph.DetectDirection(text)
		logger.Debug("已检测书写方向", "direction", job.Layout.Direction)
	}
	if job.Format != config.FormatPDF && paragraph.HasRightToLeft(text) {
		logger.Warn("PostScript 输出只能表示 ISO-8859-1 字符，从右到左的文字将被替换；请改用 --format pdf")
	}

	params, err := layout.Resolve(job.LayoutConfig())
	if err != nil {
		return err
	}
	logger.Debug("版面参数",
		"paper", params.Paper,
		"columns", params.Columns,
		"columnWidth", float64(params.ColumnWidth),
		"columnHeight", float64(params.ColumnHeight))

	baseDir := "."
	if inputPath != "" && inputPath != "-" {
		baseDir = filepath.Dir(inputPath)
	}
	typesetter := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Wrap:    job.Wrap,
		Logger:  logger,
	})

	prog := newProgress(logger)
	lines, err := paragraph.Shape(ctx, paras, typesetter, paragraph.ShapeOptions{
		Width:     params.ColumnWidth,
		Font:      params.BodyFont,
		Justify:   params.Justify,
		Direction: params.Direction,
	})
	if err != nil {
		return fmt.Errorf("排版失败: %w", err)
	}
	prog.done("排版完成", "paragraphs", len(paras), "lines", len(lines))

	flowOpts := layout.FlowOptions{Logger: logger}
	if params.DrawHeader {
		composer := layout.NewHeaderComposer(typesetter, params.Title)
		composer.Templates = job.Header.Templates
		composer.DateLayout = job.Header.DateFormat
		flowOpts.Header = composer
	}
	doc, err := layout.Flow(lines, params, flowOpts)
	if err != nil {
		return fmt.Errorf("分页失败: %w", err)
	}
	if doc.Overflows > 0 {
		logger.Warn("部分行高于栏高，已强行放置", "count", doc.Overflows)
	}

	if debugPath != "" {
		if err := writeDebug(doc, debugPath); err != nil {
			return err
		}
	}

	var r renderer.Renderer
	switch job.Format {
	case config.FormatPDF:
		r = typesetter
	default:
		r = psrenderer.New(psrenderer.Options{Logger: logger})
	}
	out, err := r.Render(doc)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := writeOutput(job.Output, out, stdout); err != nil {
		return err
	}
	logger.Info("已生成", "format", job.Format, "pages", doc.Pages, "output", outputName(job.Output))
	return nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("写入标准输出失败: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func outputName(path string) string {
	if path == "" || path == "-" {
		return "stdout"
	}
	return path
}

func writeDebug(doc *layout.Document, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(doc, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
