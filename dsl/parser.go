package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// 词法规则：注释与空白被丢弃，换行参与语句分隔。
	inlLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//[^\n]*|/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "Hash", Pattern: `#[^\n]*`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?(?:pt|mm|cm|in|x)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[(),.=+\-*/<>!?;:^]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "Space", Pattern: `[ \t\r]+`},
	})

	kindNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range inlLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()
	tokNewline = inlLexer.Symbols()["Newline"]
	tokLBrace  = inlLexer.Symbols()["LBrace"]
	tokRBrace  = inlLexer.Symbols()["RBrace"]
	tokPunct   = inlLexer.Symbols()["Punct"]
	tokString  = inlLexer.Symbols()["String"]

	documentParser = participle.MustBuild[Document](
		participle.Lexer(inlLexer),
		participle.Elide("Space", "Comment", "Hash"),
	)
)

// Document is the root AST node for an inline fixture (.inl) file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (theme/content/inline).
type Section struct {
	Theme   *ThemeSection   `parser:"  @@"`
	Content *ContentSection `parser:"| @@"`
	Inline  *InlineSection  `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Theme != nil:
		return "theme"
	case s.Content != nil:
		return "content"
	case s.Inline != nil:
		return "inline"
	default:
		return "unknown"
	}
}

// ThemeSection overrides theme values with key: value assignments.
type ThemeSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'theme' @@"`
}

// ContentSection declares preprocessed math (`math <id> { ... }`).
type ContentSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'content' @@"`
}

// InlineSection holds the inline node tree.
type InlineSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'inline' @@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment/command/text literal).
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' Newline* @@"`
}

// Command is a named instruction with positional arguments and an optional body.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral encapsulates raw string statements within blocks.
type TextLiteral struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Value StringLiteral  `parser:"@String"`
}

// Value 是赋值右侧的值。
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Word   *Word          `parser:"| @@"`
}

// Word 收集赋值右侧的裸词（如 `center`、`1.5 x`），直到行尾。
type Word struct {
	Parts []string
}

// Parse implements participle.Parseable.
func (w *Word) Parse(lex *lexer.PeekingLexer) error {
	var parts []string
	for tok := lex.Peek(); !endOfStatement(tok); tok = lex.Peek() {
		parts = append(parts, lex.Next().Value)
	}
	if len(parts) == 0 {
		return participle.NextMatch
	}
	w.Parts = parts
	return nil
}

// Arg 是命令的一个位置参数。String 参数在捕获时去掉引号，Raw 保留原文。
type Arg struct {
	Kind  string         `json:"kind"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable.
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	if endOfStatement(lex.Peek()) {
		return participle.NextMatch
	}
	tok := lex.Next()
	val := tok.Value
	if tok.Type == tokString {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return fmt.Errorf("%s: invalid string %s: %w", tok.Pos, tok.Value, err)
		}
		val = unquoted
	}
	kind, ok := kindNames[tok.Type]
	if !ok {
		kind = fmt.Sprintf("#%d", tok.Type)
	}
	*a = Arg{Kind: kind, Value: val, Raw: tok.Value, Pos: tok.Pos}
	return nil
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

// endOfStatement 报告 tok 是否结束当前语句：换行、花括号、分号或输入结束。
func endOfStatement(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case tokNewline, tokLBrace, tokRBrace:
		return true
	case tokPunct:
		return tok.Value == ";"
	}
	return false
}
