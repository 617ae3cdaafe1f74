package surface

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/ByLCY/inkline/styled"
)

// Raster 在左上角为原点的位图上绘制。行坐标按 height 翻转后乘以 scale 得到像素坐标。
type Raster struct {
	dst    xdraw.Image
	scale  float64
	height float64
	offset styled.Point
	opts   options
}

var _ styled.Surface = (*Raster)(nil)

// NewRaster 创建位图 surface。scale 为每单位（mm）的像素数，height 为画面高度（mm），
// offset 为行坐标原点在画面中的位置（y 轴向上，mm）。
func NewRaster(dst xdraw.Image, scale, height float64, offset styled.Point, opts ...Option) *Raster {
	return &Raster{dst: dst, scale: scale, height: height, offset: offset, opts: newOptions(opts)}
}

// PixelRect 把行坐标矩形换算为像素矩形。
func (s *Raster) PixelRect(r styled.Rect) image.Rectangle {
	left := (s.offset.X + r.X) * s.scale
	top := (s.height - (s.offset.Y + r.Y + r.Height)) * s.scale
	return image.Rect(
		int(math.Round(left)),
		int(math.Round(top)),
		int(math.Round(left+r.Width*s.scale)),
		int(math.Round(top+r.Height*s.scale)),
	)
}

// DrawImage implements styled.Surface.
func (s *Raster) DrawImage(r styled.Rect, img image.Image) {
	dr := s.PixelRect(r)
	if dr.Empty() || img.Bounds().Empty() {
		return
	}
	xdraw.CatmullRom.Scale(s.dst, dr, img, img.Bounds(), xdraw.Over, nil)
}

// FillMask implements styled.Surface.
func (s *Raster) FillMask(r styled.Rect, mask *image.Alpha, c color.Color) {
	dr := s.PixelRect(r)
	if dr.Empty() || mask.Bounds().Empty() {
		return
	}
	scaled := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
	xdraw.DrawMask(s.dst, dr, image.NewUniform(c), image.Point{}, scaled, image.Point{}, xdraw.Over)
}

// Tint implements styled.Surface.
func (s *Raster) Tint() (color.Color, bool) { return s.opts.resolveTint() }
