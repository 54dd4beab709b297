// Package dsl 解析作业描述文件：纸张、分栏、字体与页眉设置的声明式写法。
//
//	job Report v1 {
//	  meta { title: "notes.txt" }
//	  page A4 landscape margin 18mm {
//	    columns: 2
//	    header { enabled: true }
//	  }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	jobLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[][:;,{}]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(jobLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
		participle.UseLookahead(4),
	)
)

// Document 是作业描述文件的根节点：job <名称> <版本> { ... }。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'job' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是顶层的 meta、fonts 或 page 段。
type Section struct {
	Meta  *MetaSection  `parser:"  @@"`
	Fonts *FontsSection `parser:"| @@"`
	Page  *PageSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Fonts != nil:
		return "fonts"
	case s.Page != nil:
		return "page"
	default:
		return "unknown"
	}
}

// MetaSection 收集标题、输入编码、输出格式等赋值。
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// FontsSection 声明正文与页眉字体：font Body { ... }、font Header { ... }。
type FontsSection struct {
	Block *Block `parser:"'fonts' @@"`
}

// PageSection 描述纸张与分栏：page A4 landscape margin 36pt { columns: 2 ... }。
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@?"`
}

// PageSpec 是 page 声明行：纸张名称及其后的参数。
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement 是赋值（key: value）或命令（name args { ... }）。
type Statement struct {
	Assignment *Assignment `parser:"  @@"`
	Command    *Command    `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command 是带参数与可选子块的语句，例如 font Body { ... }、header { ... }。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// Value 是赋值右侧的值：字符串、带单位的数字、标识符（true、rtl 等）或数组。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( ( ',' | Newline+ ) Newline* @@ )* )? ','? Newline* ']'"`
}

// Lexeme 是命令或 page 声明行上的一个参数。
type Lexeme struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Value  string         `parser:"  @( Ident | Number )"`
	Quoted *StringLiteral `parser:"| @String"`
}

// Text 返回参数文本，字符串参数去掉引号。
func (l *Lexeme) Text() string {
	if l.Quoted != nil {
		return string(*l.Quoted)
	}
	return l.Value
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
