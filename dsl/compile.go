package dsl

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/uuid"

	"github.com/ByLCY/inkline/inline"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/theme"
)

// Compile errors. Returned errors wrap these with the source position.
var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidValue    = errors.New("invalid value")
)

// DefaultDPI 为未指定 dpi 的公式图片使用的分辨率。
const DefaultDPI = 300.0

// Loader 读取公式图片。
type Loader interface {
	LoadImage(path string) (image.Image, error)
}

// Override 是 theme 段中的一条赋值。
type Override struct {
	Pos   lexer.Position
	Key   string
	Value string
}

// Compiled 是编译后的文档：内联节点树、预处理内容与主题覆盖项。
type Compiled struct {
	Name      string
	Version   string
	Nodes     []inline.Node
	Content   inline.Content
	Overrides []Override
}

// Theme 返回应用了覆盖项的默认主题。
func (c *Compiled) Theme() (*theme.Theme, error) {
	th := theme.Default()
	if err := c.ApplyTheme(th); err != nil {
		return nil, err
	}
	return th, nil
}

// LineHeight 返回 theme 段中最后一条 line-height 覆盖项。
func (c *Compiled) LineHeight() (layout.LineHeightSpec, bool) {
	for i := len(c.Overrides) - 1; i >= 0; i-- {
		if c.Overrides[i].Key != "line-height" {
			continue
		}
		spec, err := layout.ParseLineHeight(c.Overrides[i].Value)
		return spec, err == nil
	}
	return layout.LineHeightSpec{}, false
}

// ApplyTheme 依次把覆盖项写入 th。
func (c *Compiled) ApplyTheme(th *theme.Theme) error {
	for _, o := range c.Overrides {
		if err := applyOverride(th, o.Key, o.Value); err != nil {
			return fmt.Errorf("%s: %w", o.Pos, err)
		}
	}
	return nil
}

// Compile 把 AST 编译为内联节点。loader 为 nil 时忽略公式图片，公式全部降级为文本。
func Compile(doc *Document, loader Loader) (*Compiled, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	c := &compiler{loader: loader, rendered: map[string]inline.RenderedMath{}}
	out := &Compiled{Name: doc.Name, Version: doc.Version}
	for _, sec := range doc.Sections {
		var err error
		switch {
		case sec.Theme != nil:
			out.Overrides, err = c.theme(out.Overrides, sec.Theme.Block)
		case sec.Content != nil:
			err = c.content(sec.Content.Block)
		case sec.Inline != nil:
			var nodes []inline.Node
			nodes, err = c.inline(sec.Inline.Block)
			out.Nodes = append(out.Nodes, nodes...)
		}
		if err != nil {
			return nil, err
		}
	}
	// 尽早暴露无效的主题值
	if err := out.ApplyTheme(theme.Default()); err != nil {
		return nil, err
	}
	out.Content = inline.NewContent(c.rendered)
	return out, nil
}

type compiler struct {
	loader   Loader
	rendered map[string]inline.RenderedMath
}

func (c *compiler) theme(out []Override, block *Block) ([]Override, error) {
	for _, stmt := range statements(block) {
		if stmt.Assignment == nil {
			return nil, fmt.Errorf("%s: theme 段只允许 key: value 赋值: %w", statementPos(stmt), ErrUnknownCommand)
		}
		out = append(out, Override{
			Pos:   stmt.Assignment.Pos,
			Key:   stmt.Assignment.Key,
			Value: stmt.Assignment.Value.Text(),
		})
	}
	return out, nil
}

func (c *compiler) content(block *Block) error {
	for _, stmt := range statements(block) {
		cmd := stmt.Command
		if cmd == nil || cmd.Name != "math" {
			return fmt.Errorf("%s: content 段只允许 math 声明: %w", statementPos(stmt), ErrUnknownCommand)
		}
		if len(cmd.Args) == 0 {
			return fmt.Errorf("%s: math 缺少 id: %w", cmd.Pos, ErrMissingArgument)
		}
		id := cmd.Args[0].Value
		item, err := c.mathEntry(cmd)
		if err != nil {
			return err
		}
		c.rendered[id] = item
	}
	return nil
}

func (c *compiler) mathEntry(cmd *Command) (inline.RenderedMath, error) {
	var (
		item inline.RenderedMath
		path string
		dpi  = DefaultDPI
	)
	for _, stmt := range statements(cmd.Block) {
		a := stmt.Assignment
		if a == nil {
			return item, fmt.Errorf("%s: math 声明只允许赋值: %w", statementPos(stmt), ErrUnknownCommand)
		}
		switch a.Key {
		case "text":
			item.Text = a.Value.Text()
		case "image":
			path = a.Value.Text()
		case "dpi":
			v, err := strconv.ParseFloat(a.Value.Text(), 64)
			if err != nil || v <= 0 {
				return item, fmt.Errorf("%s: dpi %q: %w", a.Pos, a.Value.Text(), ErrInvalidValue)
			}
			dpi = v
		default:
			return item, fmt.Errorf("%s: math 声明不支持 %s: %w", a.Pos, a.Key, ErrUnknownCommand)
		}
	}
	if path == "" || c.loader == nil {
		return item, nil
	}
	img, err := c.loader.LoadImage(path)
	if err != nil {
		return item, fmt.Errorf("%s: 读取公式图片失败: %w", cmd.Pos, err)
	}
	item.Image = inline.NewMathImage(img, dpi/25.4)
	return item, nil
}

func (c *compiler) inline(block *Block) ([]inline.Node, error) {
	var nodes []inline.Node
	for _, stmt := range statements(block) {
		switch {
		case stmt.Text != nil:
			nodes = append(nodes, inline.Text{Value: string(stmt.Text.Value)})
		case stmt.Command != nil:
			n, err := c.command(stmt.Command)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			return nil, fmt.Errorf("%s: inline 段不允许赋值: %w", statementPos(stmt), ErrUnknownCommand)
		}
	}
	return nodes, nil
}

func (c *compiler) command(cmd *Command) (inline.Node, error) {
	children := func() ([]inline.Node, error) { return c.inline(cmd.Block) }
	switch cmd.Name {
	case "soft":
		return inline.SoftBreak{}, nil
	case "break":
		return inline.LineBreak{}, nil
	case "text":
		v, err := stringArg(cmd, 0, "text")
		return inline.Text{Value: v}, err
	case "code":
		v, err := stringArg(cmd, 0, "code")
		return inline.Code{Value: v}, err
	case "html":
		v, err := stringArg(cmd, 0, "html")
		return inline.HTML{Value: v}, err
	case "emph", "strong", "strike":
		kids, err := children()
		if err != nil {
			return nil, err
		}
		switch cmd.Name {
		case "emph":
			return inline.Emphasis{Children: kids}, nil
		case "strong":
			return inline.Strong{Children: kids}, nil
		default:
			return inline.Strikethrough{Children: kids}, nil
		}
	case "link":
		dest, err := stringArg(cmd, 0, "link destination")
		if err != nil {
			return nil, err
		}
		kids, err := children()
		return inline.Link{Destination: dest, Children: kids}, err
	case "image":
		src, err := stringArg(cmd, 0, "image source")
		if err != nil {
			return nil, err
		}
		kids, err := children()
		return inline.Image{Source: src, Children: kids}, err
	case "math":
		src, err := stringArg(cmd, 0, "math source")
		if err != nil {
			return nil, err
		}
		id := uuid.NewString()
		if len(cmd.Args) > 1 {
			id = cmd.Args[1].Value
		}
		return inline.Math{Source: src, ReplacementID: id}, nil
	default:
		return nil, fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, ErrUnknownCommand)
	}
}

func stringArg(cmd *Command, i int, what string) (string, error) {
	if len(cmd.Args) <= i {
		return "", fmt.Errorf("%s: %s 缺少 %s: %w", cmd.Pos, cmd.Name, what, ErrMissingArgument)
	}
	return cmd.Args[i].Value, nil
}

func statements(block *Block) []*Statement {
	if block == nil {
		return nil
	}
	return block.Statements
}

func statementPos(stmt *Statement) lexer.Position {
	switch {
	case stmt.Command != nil:
		return stmt.Command.Pos
	case stmt.Assignment != nil:
		return stmt.Assignment.Pos
	case stmt.Text != nil:
		return stmt.Text.Pos
	}
	return lexer.Position{}
}

// Text 把值还原为字符串，表达式按原样拼接。
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Word != nil:
		return strings.Join(v.Word.Parts, "")
	default:
		return ""
	}
}

func applyOverride(th *theme.Theme, key, value string) error {
	switch key {
	case "font-size":
		size, err := strconv.ParseFloat(strings.TrimSuffix(value, "pt"), 64)
		if err != nil || size <= 0 {
			return fmt.Errorf("font-size %q: %w", value, ErrInvalidValue)
		}
		th.AlignTo(size)
	case "font-scale":
		th.ScaleFont(theme.FontScale(value))
	case "body-font":
		th.Fonts.Body.Src = value
	case "code-font":
		th.Fonts.CodeInline.Src = value
		th.Fonts.Code.Src = value
	case "math-align":
		if err := th.InlineMathVerticalAlignment.UnmarshalText([]byte(value)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	case "line-height":
		if _, err := layout.ParseLineHeight(value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
	default:
		target := colorTarget(th, key)
		if target == nil {
			return fmt.Errorf("theme 不支持 %s: %w", key, ErrUnknownCommand)
		}
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		*target = col
	}
	return nil
}

func colorTarget(th *theme.Theme, key string) *theme.Color {
	switch key {
	case "body-color":
		return &th.Colors.Body
	case "highlight-color":
		return &th.Colors.Highlight
	case "emphasis-color":
		return &th.Colors.Emphasis
	case "code-color":
		return &th.Colors.Code
	case "code-background":
		return &th.Colors.CodeBackground
	}
	return nil
}
