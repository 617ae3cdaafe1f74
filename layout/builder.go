package layout

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/ByLCY/inkline/styled"
	"github.com/ByLCY/inkline/theme"
)

// ErrNoMeasurer is returned by Build when Options.Measurer is nil.
var ErrNoMeasurer = errors.New("layout: measurer is required")

// piece 是折行的最小单位：一个词片段、一段空白或一个附件。
type piece struct {
	text    string
	attrs   styled.Attributes
	width   float64
	ascent  float64
	descent float64
	space   bool
}

type clusterKind int

const (
	clusterWord clusterKind = iota
	clusterSpace
	clusterNewline
	clusterAttachment
)

// cluster 内部不允许断行；词可以跨越多个 run。
type cluster struct {
	kind   clusterKind
	pieces []piece
}

func (c cluster) width() float64 {
	w := 0.0
	for _, p := range c.pieces {
		w += p.width
	}
	return w
}

type builder struct {
	opts   Options
	base   *theme.Font
	limit  float64
	lines  []*lineState
	cur    []piece
	width  float64
	filled bool // 当前行是否已有非空白内容
}

// Build 对 text 做贪心折行：优先在空白处断开，超长的词按宽度拆分，"\n" 强制换行。
// 附件占位符不可拆分，其度量在此处通过 RunDelegate 首次查询。
func Build(text *styled.Text, opts Options) (*Frame, error) {
	if opts.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	b := &builder{opts: opts, base: opts.Font, limit: opts.Width}
	if b.base == nil {
		body := theme.DefaultFonts().Body
		b.base = &body
	}
	if b.limit <= 0 {
		b.limit = math.MaxFloat64
	}
	if b.opts.LineHeight.Kind == LineHeightFactor && b.opts.LineHeight.Factor <= 0 {
		b.opts.LineHeight = DefaultLineHeight
	}
	if text != nil {
		for _, c := range b.clusters(text) {
			b.place(c)
		}
	}
	b.flush()
	return b.frame(), nil
}

func (b *builder) font(attrs styled.Attributes) *theme.Font {
	if attrs.Font != nil {
		return attrs.Font
	}
	return b.base
}

func (b *builder) textPiece(s string, attrs styled.Attributes, space bool) piece {
	f := b.font(attrs)
	asc, desc := b.opts.Measurer.FontMetrics(f)
	return piece{
		text:    s,
		attrs:   attrs,
		width:   b.opts.Measurer.TextWidth(s, f),
		ascent:  asc,
		descent: desc,
		space:   space,
	}
}

func (b *builder) clusters(text *styled.Text) []cluster {
	var out []cluster
	var word []piece
	endWord := func() {
		if len(word) > 0 {
			out = append(out, cluster{kind: clusterWord, pieces: word})
			word = nil
		}
	}
	for _, run := range text.Runs() {
		if run.Attrs.IsPlaceholder() {
			endWord()
			m := run.Attrs.Attachment.RunDelegate().RunMetrics()
			out = append(out, cluster{kind: clusterAttachment, pieces: []piece{{
				text:    run.Text,
				attrs:   run.Attrs,
				width:   m.Width,
				ascent:  m.Ascent,
				descent: m.Descent,
			}}})
			continue
		}
		for _, tok := range tokenizeContent(run.Text) {
			switch {
			case tok == "\n":
				endWord()
				out = append(out, cluster{kind: clusterNewline})
			case isSpaceToken(tok):
				endWord()
				out = append(out, cluster{kind: clusterSpace, pieces: []piece{b.textPiece(tok, run.Attrs, true)}})
			default:
				word = append(word, b.textPiece(tok, run.Attrs, false))
			}
		}
	}
	endWord()
	return out
}

func (b *builder) place(c cluster) {
	switch c.kind {
	case clusterNewline:
		b.flush()
	case clusterSpace:
		// 自动折行后的行首空白丢弃
		if len(b.cur) == 0 && len(b.lines) > 0 && b.lines[len(b.lines)-1].wrapped {
			return
		}
		b.add(c.pieces[0])
	default:
		w := c.width()
		if b.filled && b.width+w > b.limit {
			b.wrap()
		}
		if w <= b.limit-b.width {
			for _, p := range c.pieces {
				b.add(p)
			}
			return
		}
		for _, p := range c.pieces {
			b.addSplitting(p)
		}
	}
}

func (b *builder) add(p piece) {
	b.cur = append(b.cur, p)
	b.width += p.width
	if !p.space {
		b.filled = true
	}
}

// addSplitting 逐个码点放入 p，放不下时换行；附件整体放入。
func (b *builder) addSplitting(p piece) {
	if p.attrs.IsPlaceholder() {
		if b.filled && b.width+p.width > b.limit {
			b.wrap()
		}
		b.add(p)
		return
	}
	if b.width+p.width <= b.limit {
		b.add(p)
		return
	}
	f := b.font(p.attrs)
	var sb strings.Builder
	for _, r := range p.text {
		next := sb.String() + string(r)
		if b.width+b.opts.Measurer.TextWidth(next, f) > b.limit {
			if sb.Len() > 0 {
				b.add(b.textPiece(sb.String(), p.attrs, false))
				sb.Reset()
				b.wrap()
			} else if b.filled {
				b.wrap()
			}
		}
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		b.add(b.textPiece(sb.String(), p.attrs, false))
	}
}

func (b *builder) wrap() {
	b.flush()
	b.lines[len(b.lines)-1].wrapped = true
}

// flush 结束当前行：去掉行尾空白，合并同样式片段并计算行度量。
func (b *builder) flush() {
	pieces := b.cur
	for len(pieces) > 0 && pieces[len(pieces)-1].space {
		pieces = pieces[:len(pieces)-1]
	}
	line := &Line{}
	for _, p := range pieces {
		if n := len(line.Items); n > 0 {
			last := line.Items[n-1]
			if !p.attrs.IsPlaceholder() && last.Attrs.SameStyle(p.attrs) {
				last.Text += p.text
				last.Width = b.opts.Measurer.TextWidth(last.Text, b.font(last.Attrs))
				continue
			}
		}
		line.Items = append(line.Items, &Run{
			Text:    p.text,
			Attrs:   p.attrs,
			Ascent:  p.ascent,
			Descent: p.descent,
			Width:   p.width,
		})
	}
	size := b.base.Size
	for _, r := range line.Items {
		r.X = line.Width
		line.Width += r.Width
		line.Ascent = math.Max(line.Ascent, r.Ascent)
		line.Descent = math.Max(line.Descent, r.Descent)
		if !r.Attrs.IsPlaceholder() {
			size = math.Max(size, b.font(r.Attrs).Size)
		}
		if b.opts.Debug.Attributes {
			r.Debug = runDebug(r.Attrs)
		}
	}
	if len(line.Items) == 0 {
		line.Ascent, line.Descent = b.opts.Measurer.FontMetrics(b.base)
	}
	line.Leading = math.Max(b.opts.LineHeight.ResolveMM(size)-line.Ascent-line.Descent, 0)
	b.lines = append(b.lines, &lineState{Line: line})
	b.cur = nil
	b.width = 0
	b.filled = false
}

// frame 自上而下摆放各行，行距的富余部分平分到基线上下。
func (b *builder) frame() *Frame {
	f := &Frame{Width: b.opts.Width}
	for _, ls := range b.lines {
		f.Height += ls.Ascent + ls.Descent + ls.Leading
		if b.opts.Width <= 0 {
			f.Width = math.Max(f.Width, ls.Width)
		}
	}
	y := f.Height
	for _, ls := range b.lines {
		line := ls.Line
		y -= line.Leading/2 + line.Ascent
		line.Origin = styled.Point{X: alignOffset(f.Width, line.Width, b.opts.Align), Y: y}
		y -= line.Descent + line.Leading/2
		f.Lines = append(f.Lines, line)
	}
	return f
}

// lineState 记录行是否由自动折行结束。
type lineState struct {
	*Line
	wrapped bool
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch strings.ToLower(align) {
	case "center", "middle":
		return (container - width) / 2
	case "right", "end":
		return container - width
	default:
		return 0
	}
}

func isSpaceToken(tok string) bool {
	for _, r := range tok {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return tok != ""
}

// tokenizeContent 把文本切成交替的空白段与非空白段，"\n" 单独成段，"\r" 丢弃。
func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func runDebug(a styled.Attributes) *RunDebug {
	d := &RunDebug{
		Link:          a.Link,
		Underline:     a.Underline != styled.LineNone,
		Strikethrough: a.Strikethrough != styled.LineNone,
		Placeholder:   a.IsPlaceholder(),
		ContextID:     a.ContextID,
		MathSource:    a.MathSource,
	}
	if a.Font != nil {
		d.Font = a.Font.Name
		d.FontSize = a.Font.Size
	}
	if a.Foreground != nil {
		d.Foreground = theme.FromColor(a.Foreground).String()
	}
	return d
}
