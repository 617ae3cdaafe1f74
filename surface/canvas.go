package surface

import (
	"image"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/inkline/styled"
)

// Canvas 在 tdewolff/canvas 的 Context 上绘制。Context 需使用 CartesianI
// 坐标系（y 轴向上），与行坐标一致，因此无需翻转。
type Canvas struct {
	ctx    *canvas.Context
	offset styled.Point
	opts   options
}

var _ styled.Surface = (*Canvas)(nil)

// NewCanvas 创建画布 surface，offset 为行坐标原点在画布上的位置（mm）。
func NewCanvas(ctx *canvas.Context, offset styled.Point, opts ...Option) *Canvas {
	return &Canvas{ctx: ctx, offset: offset, opts: newOptions(opts)}
}

// DrawImage implements styled.Surface.
func (s *Canvas) DrawImage(r styled.Rect, img image.Image) {
	b := img.Bounds()
	if b.Empty() || r.Width <= 0 || r.Height <= 0 {
		return
	}
	s.ctx.Push()
	s.ctx.Translate(s.offset.X+r.X, s.offset.Y+r.Y)
	s.ctx.Scale(r.Width/float64(b.Dx()), r.Height/float64(b.Dy()))
	// 1 像素 = 1 单位，再由上面的缩放铺满目标矩形。
	s.ctx.DrawImage(0, 0, img, canvas.DPMM(1))
	s.ctx.Pop()
}

// FillMask implements styled.Surface.
func (s *Canvas) FillMask(r styled.Rect, mask *image.Alpha, c color.Color) {
	s.DrawImage(r, tintMask(mask, c))
}

// Tint implements styled.Surface.
func (s *Canvas) Tint() (color.Color, bool) { return s.opts.resolveTint() }
