package psrenderer

import (
	"io"
	"text/template"

	"seehuhn.de/go/postscript"
)

// prolog 是文档头部需要预先声明的内容，在所有页面生成之后才渲染。
type prolog struct {
	Title       string
	Creator     string
	BBoxWidth   int
	BBoxHeight  int
	Orientation string

	PageWidth   int
	PageHeight  int
	ColumnWidth int
	BodyHeight  int
	LeftMargin  int
	YTop        int
	Gutter      int
	Columns     int

	SeparationLine bool
	Landscape      bool
	Tumble         bool
	Duplex         bool

	Fonts []psFont
}

// psFont 是一个按 ISO-Latin-1 重新编码的标准字体，Key 为页面中引用它的名字。
type psFont struct {
	Key  string
	Name string
	Base string
	Size string
}

func (p *prolog) write(w io.Writer) error {
	return prologTmpl.Execute(w, p)
}

var prologTmpl = template.Must(template.New("prolog").Funcs(template.FuncMap{
	"PS": func(s string) string {
		x := postscript.String(s)
		return x.PS()
	},
	"PN": func(s string) string {
		x := postscript.Name(s)
		return x.PS()
	},
}).Parse(`%!PS-Adobe-3.0
%%Title: {{PS .Title}}
%%Creator: {{PS .Creator}}
%%Pages: (atend)
%%BoundingBox: 0 0 {{.BBoxWidth}} {{.BBoxHeight}}
%%Orientation: {{.Orientation}}
%%EndComments
%%BeginProlog
/papsdict 1 dict def
papsdict begin

/inch {72 mul} bind def
/mm {1 inch 25.4 div mul} bind def

% override setpagedevice if it is not defined
/setpagedevice where {
    pop % get rid of its dictionary
    /setpagesize {
       3 dict begin
         /pageheight exch def
         /pagewidth exch def
         /orientation 0 def
         % Exchange pagewidth and pageheight so that pagewidth is bigger
         pagewidth pageheight gt {
             pagewidth
             /pagewidth pageheight def
             /pageheight exch def
             /orientation 3 def
         } if
         2 dict
         dup /PageSize [pagewidth pageheight] put
         dup /Orientation orientation put
         setpagedevice
       end
    } def
}
{
    /setpagesize { pop pop } def
} ifelse
/duplex {
    statusdict /setduplexmode known
    { statusdict begin setduplexmode end } {pop} ifelse
} def
/tumble {
    statusdict /settumble known
   { statusdict begin settumble end } {pop} ifelse
} def
% Turn the page around
/turnpage {
  90 rotate
  0 pageheight neg translate
} def
% User settings
/pagewidth {{.PageWidth}} def
/pageheight {{.PageHeight}} def
pagewidth pageheight setpagesize
/column_width {{.ColumnWidth}} def
/gutter_width {{.Gutter}} def
/bodyheight {{.BodyHeight}} def
/lmarg {{.LeftMargin}} def
/ytop {{.YTop}} def
/do_separation_line {{.SeparationLine}} def
/do_landscape {{.Landscape}} def
/do_tumble {{.Tumble}} def
/do_duplex {{.Duplex}} def
% Procedures to translate position to first and second column
/lw 20 def
/setnumcolumns {
    /numcolumns exch def
    /firstcolumn { /xpos lmarg def /ypos ytop def} def
    /nextcolumn {
      do_separation_line {
          xpos column_width add gutter_width 2 div add
          ytop lw add moveto
          0 bodyheight lw add neg rlineto 0 setlinewidth stroke
      } if
      /xpos xpos column_width add gutter_width add def
      /ypos ytop def
    } def
} def
{{.Columns}} setnumcolumns
end

/paps_bop {  % Beginning of page definitions
    papsdict begin
    gsave
    do_landscape {turnpage} if
    firstcolumn
    end
} def

/paps_eop {  % End of page cleanups
    grestore
} def

/paps_reencode { % newname basename
    findfont dup length dict begin
    { 1 index /FID ne { def } { pop pop } ifelse } forall
    /Encoding ISOLatin1Encoding def
    currentdict end
    definefont pop
} bind def
{{range .Fonts -}}
{{PN .Name}} {{PN .Base}} paps_reencode
{{PN .Key}} {{PN .Name}} findfont {{.Size}} scalefont def
{{end -}}
%%EndProlog
%%BeginSetup
papsdict begin do_duplex duplex do_tumble tumble end
%%EndSetup
`))
