// Package theme 保存渲染内联内容所需的字体、颜色与间距等只读数据。
package theme

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// CodeScale 为代码块字号相对正文字号的比例。
const CodeScale = 0.85

const defaultPointSize = 13.0

// VerticalAlignment 决定内联公式图片相对所在行的垂直位置。
type VerticalAlignment int

const (
	AlignBottom VerticalAlignment = iota
	AlignCenter
)

func (v VerticalAlignment) String() string {
	switch v {
	case AlignCenter:
		return "center"
	default:
		return "bottom"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v VerticalAlignment) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *VerticalAlignment) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "bottom":
		*v = AlignBottom
	case "center", "centre", "middle":
		*v = AlignCenter
	default:
		return fmt.Errorf("未知的公式对齐方式 %q", string(b))
	}
	return nil
}

// Font 描述一种字体。Size 以 pt 为单位；Ascender/Descender 以布局单位（mm）保存，
// Descender 按基线以下为负数记录，由渲染器解析字体后回填，也可以直接指定。
type Font struct {
	Name      string  `toml:"name" json:"name"`
	Src       string  `toml:"src" json:"src"`
	Style     string  `toml:"style" json:"style"`
	Size      float64 `toml:"size" json:"size"`
	Ascender  float64 `toml:"ascender,omitempty" json:"ascender"`
	Descender float64 `toml:"descender,omitempty" json:"descender"`
}

// WithSize returns a copy of f at the given point size. Resolved metrics are scaled along.
func (f Font) WithSize(size float64) Font {
	if f.Size > 0 {
		ratio := size / f.Size
		f.Ascender *= ratio
		f.Descender *= ratio
	}
	f.Size = size
	return f
}

// Bold returns a copy of f with a bold style.
func (f Font) Bold() Font {
	if !strings.Contains(strings.ToLower(f.Style), "bold") {
		f.Style = strings.TrimSpace("bold " + f.Style)
	}
	return f
}

// Fonts 列出主题中使用的全部字体。
type Fonts struct {
	Body       Font `toml:"body"`
	CodeInline Font `toml:"code-inline"`
	Bold       Font `toml:"bold"`
	Italic     Font `toml:"italic"`
	Code       Font `toml:"code"`
	LargeTitle Font `toml:"large-title"`
	Title      Font `toml:"title"`
	Footnote   Font `toml:"footnote"`
}

// All 返回全部字体的指针，便于统一回填度量。
func (f *Fonts) All() []*Font {
	return []*Font{&f.Body, &f.CodeInline, &f.Bold, &f.Italic, &f.Code, &f.LargeTitle, &f.Title, &f.Footnote}
}

// Colors 列出主题中使用的颜色。
type Colors struct {
	Body                Color  `toml:"body"`
	Highlight           Color  `toml:"highlight"`
	Emphasis            Color  `toml:"emphasis"`
	Code                Color  `toml:"code"`
	CodeBackground      Color  `toml:"code-background"`
	SelectionBackground *Color `toml:"selection-background,omitempty"`
}

// Spacings 以 pt 保存块级间距。
type Spacings struct {
	Final   float64 `toml:"final"`
	General float64 `toml:"general"`
	List    float64 `toml:"list"`
	Cell    float64 `toml:"cell"`
}

type Sizes struct {
	Bullet float64 `toml:"bullet"`
}

type Table struct {
	CornerRadius              float64 `toml:"corner-radius"`
	BorderWidth               float64 `toml:"border-width"`
	BorderColor               Color   `toml:"border-color"`
	HeaderBackgroundColor     Color   `toml:"header-background"`
	CellBackgroundColor       Color   `toml:"cell-background"`
	StripeCellBackgroundColor Color   `toml:"stripe-cell-background"`
}

// Theme 为一次渲染调用提供只读快照，渲染过程不会修改它。
type Theme struct {
	Fonts                       Fonts             `toml:"fonts"`
	Colors                      Colors            `toml:"colors"`
	Spacings                    Spacings          `toml:"spacings"`
	Sizes                       Sizes             `toml:"sizes"`
	Table                       Table             `toml:"table"`
	InlineMathVerticalAlignment VerticalAlignment `toml:"inline-math-vertical-alignment"`
}

// DefaultFonts 返回内置 Go 字体构成的默认字体集。
func DefaultFonts() Fonts {
	body := Font{Name: "Body", Src: "embed:goregular", Size: defaultPointSize}
	bold := Font{Name: "Bold", Src: "embed:gobold", Style: "bold", Size: defaultPointSize}
	mono := Font{Name: "Mono", Src: "embed:gomono", Size: defaultPointSize}
	return Fonts{
		Body:       body,
		CodeInline: mono,
		Bold:       bold,
		Italic:     Font{Name: "Italic", Src: "embed:goitalic", Style: "italic", Size: defaultPointSize},
		Code:       mono.WithSize(math.Ceil(defaultPointSize * CodeScale)),
		LargeTitle: bold,
		Title:      bold,
		Footnote:   body.WithSize(defaultPointSize - 2),
	}
}

// DefaultColors 返回默认配色。
func DefaultColors() Colors {
	accent := MustParseColor("#FF9500")
	selection := accent.WithAlpha(0.2)
	return Colors{
		Body:                MustParseColor("#1D1D1F"),
		Highlight:           accent,
		Emphasis:            accent,
		Code:                MustParseColor("#1D1D1F"),
		CodeBackground:      MustParseColor("#808080").WithAlpha(0.25),
		SelectionBackground: &selection,
	}
}

// Default 返回一份新的默认主题，调用方可以自由修改。
func Default() *Theme {
	return &Theme{
		Fonts:    DefaultFonts(),
		Colors:   DefaultColors(),
		Spacings: Spacings{Final: 16, General: 8, List: 8, Cell: 32},
		Sizes:    Sizes{Bullet: 4},
		Table: Table{
			CornerRadius:              8,
			BorderWidth:               1,
			BorderColor:               MustParseColor("#C6C6C8"),
			HeaderBackgroundColor:     MustParseColor("#F2F2F7"),
			CellBackgroundColor:       Color{},
			StripeCellBackgroundColor: MustParseColor("#8E8E93").WithAlpha(0.03),
		},
		InlineMathVerticalAlignment: AlignBottom,
	}
}

// FontScale 是相对默认字号的粗略缩放档位。
type FontScale string

const (
	ScaleTiny   FontScale = "tiny"
	ScaleSmall  FontScale = "small"
	ScaleMiddle FontScale = "middle"
	ScaleLarge  FontScale = "large"
	ScaleHuge   FontScale = "huge"
)

// Offset 返回档位对应的字号偏移（pt）。
func (s FontScale) Offset() float64 {
	switch s {
	case ScaleTiny:
		return -4
	case ScaleSmall:
		return -2
	case ScaleLarge:
		return 2
	case ScaleHuge:
		return 4
	default:
		return 0
	}
}

// Scale 调整字号，最小不低于 4pt。
func (s FontScale) Scale(f Font) Font {
	return f.WithSize(math.Max(4, f.Size+s.Offset()))
}

// ScaleFont 以默认字体为基准按档位缩放（不含脚注字体）。
func (t *Theme) ScaleFont(scale FontScale) {
	def := DefaultFonts()
	t.Fonts.Body = scale.Scale(def.Body)
	t.Fonts.CodeInline = scale.Scale(def.CodeInline)
	t.Fonts.Bold = scale.Scale(def.Bold)
	t.Fonts.Italic = scale.Scale(def.Italic)
	t.Fonts.Code = scale.Scale(def.Code)
	t.Fonts.LargeTitle = scale.Scale(def.LargeTitle)
	t.Fonts.Title = scale.Scale(def.Title)
}

// AlignTo 把正文相关字体统一到给定字号，代码块字体按 CodeScale 缩小。
func (t *Theme) AlignTo(pointSize float64) {
	t.Fonts.Body = t.Fonts.Body.WithSize(pointSize)
	t.Fonts.CodeInline = t.Fonts.CodeInline.WithSize(pointSize)
	t.Fonts.Bold = t.Fonts.Bold.WithSize(pointSize).Bold()
	t.Fonts.Italic = t.Fonts.Italic.WithSize(pointSize)
	t.Fonts.Code = t.Fonts.Code.WithSize(pointSize * CodeScale)
	t.Fonts.LargeTitle = t.Fonts.LargeTitle.WithSize(pointSize).Bold()
	t.Fonts.Title = t.Fonts.Title.WithSize(pointSize).Bold()
}

// Color 为 8 位 RGBA 颜色，文本形式为 #rgb / #rrggbb / #rrggbbaa。
type Color struct {
	R, G, B, A uint8
}

// RGBA implements color.Color (non-premultiplied storage).
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// IsZero reports whether c is fully transparent black, which is what an unset colour decodes to.
func (c Color) IsZero() bool { return c == Color{} }

// WithAlpha 替换透明度（0..1），不与原透明度相乘。
func (c Color) WithAlpha(alpha float64) Color {
	alpha = math.Min(math.Max(alpha, 0), 1)
	c.A = uint8(math.Round(alpha * 255))
	return c
}

func (c Color) String() string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor 解析十六进制颜色。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = fmt.Sprintf("%c%c%c%c%c%cff", v[0], v[0], v[1], v[1], v[2], v[2])
	case 6:
		v += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("颜色格式不支持: %s", value)
	}
	var out [4]uint8
	for i := range out {
		n, ok := hexByte(v[i*2], v[i*2+1])
		if !ok {
			return Color{}, fmt.Errorf("颜色格式不支持: %s", value)
		}
		out[i] = n
	}
	return Color{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}

// MustParseColor 与 ParseColor 相同，解析失败时 panic，仅用于常量。
func MustParseColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

func hexByte(hi, lo byte) (uint8, bool) {
	h, ok1 := hexNibble(hi)
	l, ok2 := hexNibble(lo)
	return h<<4 | l, ok1 && ok2
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// FromColor 把任意 color.Color 转换为 Color。
func FromColor(c color.Color) Color {
	if tc, ok := c.(Color); ok {
		return tc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
