package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/styled"
)

var defaultForeground color.Color = color.RGBA{R: 0x1D, G: 0x1D, B: 0x1F, A: 0xff}

// painter 把文本 run 画到 CartesianI 坐标系（y 轴向上）的 Context 上。
type painter struct {
	r      *Renderer
	ctx    *canvas.Context
	offset styled.Point
}

var _ layout.Painter = (*painter)(nil)

// DrawRun implements layout.Painter：先画背景，再画文字与装饰线。
func (p *painter) DrawRun(run *layout.Run, origin styled.Point) {
	attrs := run.Attrs
	x := p.offset.X + origin.X
	y := p.offset.Y + origin.Y

	if attrs.Background != nil {
		p.ctx.SetFillColor(attrs.Background)
		p.ctx.SetStrokeColor(color.RGBA{})
		p.ctx.DrawPath(x, y-run.Descent, canvas.Rectangle(run.Width, run.Ascent+run.Descent))
	}

	fg := attrs.Foreground
	if fg == nil {
		fg = defaultForeground
	}
	face := p.r.face(attrs.Font, fg)
	p.ctx.DrawText(x, y, canvas.NewTextLine(face, run.Text, canvas.Left))

	sizeMM := toMm(fontSize(attrs.Font))
	decoration := attrs.UnderlineColor
	if decoration == nil {
		decoration = fg
	}
	if w := lineWidth(attrs.Underline, sizeMM); w > 0 {
		p.stroke(x, y-0.12*sizeMM, run.Width, w, decoration)
	}
	if w := lineWidth(attrs.Strikethrough, sizeMM); w > 0 {
		p.stroke(x, y+0.28*sizeMM, run.Width, w, fg)
	}
}

func (p *painter) stroke(x, y, length, width float64, c color.Color) {
	p.ctx.SetFillColor(color.RGBA{})
	p.ctx.SetStrokeColor(c)
	p.ctx.SetStrokeWidth(width)
	path := &canvas.Path{}
	path.MoveTo(0, 0)
	path.LineTo(length, 0)
	p.ctx.DrawPath(x, y, path)
}

// lineWidth 返回装饰线粗细（mm），LineNone 时为 0。
func lineWidth(style styled.LineStyle, sizeMM float64) float64 {
	base := math.Max(sizeMM/16, 0.1)
	switch style {
	case styled.LineSingle:
		return base
	case styled.LineThick:
		return base * 2
	default:
		return 0
	}
}
